package scheduler

import (
	"context"
	"time"

	"fansite/pkg/logger"
)

// ViewerRecorder 记录当天观看人数
type ViewerRecorder interface {
	RecordDailyViewers(ctx context.Context) error
}

// MetricsScheduler 观看人数记录调度器，每天23:55记录一次
type MetricsScheduler struct {
	recorder ViewerRecorder
	logger   *logger.Logger
	now      func() time.Time
	quit     chan struct{}
}

// NewMetricsScheduler 创建观看人数记录调度器实例
func NewMetricsScheduler(recorder ViewerRecorder, logger *logger.Logger) *MetricsScheduler {
	return &MetricsScheduler{
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
		quit:     make(chan struct{}),
	}
}

// Start 启动观看人数记录调度器
func (s *MetricsScheduler) Start() {
	// 启动时立即记录一次
	go s.recordViewers()

	go s.scheduleViewerRecording()

	s.logger.Info("观看人数记录调度器启动")
}

// Stop 停止观看人数记录调度器
func (s *MetricsScheduler) Stop() {
	close(s.quit)
	s.logger.Info("观看人数记录调度器停止")
}

// nextRun 下一次记录时间
func (s *MetricsScheduler) nextRun() time.Time {
	now := s.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), 23, 55, 0, 0, now.Location())
	if now.After(next) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

// scheduleViewerRecording 观看人数记录定时器
func (s *MetricsScheduler) scheduleViewerRecording() {
	next := s.nextRun()
	s.logger.Info("观看人数记录计划", "nextRunTime", next.Format("2006-01-02 15:04:05"))

	select {
	case <-time.After(next.Sub(s.now())):
		s.recordViewers()
	case <-s.quit:
		return
	}

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.recordViewers()
		case <-s.quit:
			return
		}
	}
}

// recordViewers 记录观看人数的具体实现
func (s *MetricsScheduler) recordViewers() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.recorder.RecordDailyViewers(ctx); err != nil {
		s.logger.Error("观看人数记录失败", "error", err)
	} else {
		s.logger.Info("观看人数记录完成")
	}
}
