package persistence

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"fansite/internal/store"
	"fansite/pkg/async"
	"fansite/pkg/logger"
)

// Syncer 把全部保存请求串行化到单个工作协程，
// 排队中的请求会合并为一次保存，保存时总是读取最新快照
type Syncer struct {
	adapter *Adapter
	state   *store.State
	worker  *async.Worker
	logger  *logger.Logger
	timeout time.Duration

	pending atomic.Bool
	failing atomic.Bool
	saveMu  sync.Mutex

	onFailure func(err error)
	onRecover func()
}

// NewSyncer 创建同步器，worker应只启动一个工作协程
func NewSyncer(adapter *Adapter, state *store.State, worker *async.Worker, logger *logger.Logger) *Syncer {
	return &Syncer{
		adapter: adapter,
		state:   state,
		worker:  worker,
		logger:  logger,
		timeout: 30 * time.Second,
	}
}

// OnFailure 保存由成功转为失败时回调
func (s *Syncer) OnFailure(fn func(err error)) {
	s.onFailure = fn
}

// OnRecover 保存由失败恢复为成功时回调
func (s *Syncer) OnRecover(fn func()) {
	s.onRecover = fn
}

// Load 启动时加载全部集合并恢复到内存状态
func (s *Syncer) Load(ctx context.Context, defaultWebhookURL string) error {
	snap, err := s.adapter.LoadAll(ctx, defaultWebhookURL)
	s.state.Restore(snap)
	if err != nil {
		s.logger.Warn("部分数据加载失败，已使用默认值", "error", err)
	}
	s.logger.Info("数据加载完成",
		"announcements", len(snap.Announcements.Items),
		"logs", len(snap.Logs),
	)
	return err
}

// RequestSave 请求一次异步保存，不阻塞调用方
func (s *Syncer) RequestSave() {
	if !s.pending.CompareAndSwap(false, true) {
		return
	}
	ok := s.worker.Submit(async.Task{
		Name:     "snapshot",
		Timeout:  s.timeout,
		RetryMax: 2,
		Handler: func(ctx context.Context) error {
			s.pending.Store(false)
			return s.SaveNow(ctx)
		},
	})
	if !ok {
		s.pending.Store(false)
	}
}

// SaveNow 同步保存当前快照
func (s *Syncer) SaveNow(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	backupAt, err := s.adapter.SaveAll(ctx, s.state.Snapshot())
	if !backupAt.IsZero() {
		s.state.Settings.MarkBackup(backupAt)
	}

	if err != nil {
		s.logger.Error("保存数据失败", "error", err)
		if s.failing.CompareAndSwap(false, true) && s.onFailure != nil {
			s.onFailure(err)
		}
		return err
	}

	if s.failing.CompareAndSwap(true, false) {
		s.logger.Info("保存数据已恢复")
		if s.onRecover != nil {
			s.onRecover()
		}
	}
	return nil
}

// Flush 等待队列中的保存完成后再同步保存一次，关闭时调用
func (s *Syncer) Flush(ctx context.Context) error {
	s.worker.Stop()
	return s.SaveNow(ctx)
}
