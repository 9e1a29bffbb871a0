package scheduler

import (
	"time"

	"fansite/pkg/logger"
)

// SaveRequester 请求一次异步快照保存
type SaveRequester interface {
	RequestSave()
}

// BackupScheduler 定时备份调度器
type BackupScheduler struct {
	saver    SaveRequester
	interval time.Duration
	logger   *logger.Logger
	quit     chan struct{}
	done     chan struct{}
}

// NewBackupScheduler 创建定时备份调度器实例
func NewBackupScheduler(saver SaveRequester, interval time.Duration, logger *logger.Logger) *BackupScheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &BackupScheduler{
		saver:    saver,
		interval: interval,
		logger:   logger,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start 启动定时备份调度器
func (s *BackupScheduler) Start() {
	go s.backupScheduler()
	s.logger.Info("定时备份调度器启动", "interval", s.interval.String())
}

// Stop 停止定时备份调度器，等待定时协程退出
func (s *BackupScheduler) Stop() {
	close(s.quit)
	<-s.done
	s.logger.Info("定时备份调度器停止")
}

// backupScheduler 定时请求保存快照
func (s *BackupScheduler) backupScheduler() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.logger.Debug("定时备份")
			s.saver.RequestSave()
		case <-s.quit:
			return
		}
	}
}
