package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"k8s.io/apimachinery/pkg/util/rand"

	"fansite/internal/model"
	"fansite/internal/twitch"
	"fansite/pkg/logger"
)

const metricDays = 7

// StreamService 直播状态与后台统计
type StreamService struct {
	provider      twitch.StatusProvider
	mainChannel   string
	gamingChannel string
	logger        *logger.Logger

	mu     sync.RWMutex
	daily  map[string]int
	visits atomic.Int64
	now    func() time.Time
	intn   func(n int) int
}

// NewStreamService 创建直播服务
func NewStreamService(provider twitch.StatusProvider, mainChannel, gamingChannel string, logger *logger.Logger) *StreamService {
	return &StreamService{
		provider:      provider,
		mainChannel:   mainChannel,
		gamingChannel: gamingChannel,
		logger:        logger,
		daily:         make(map[string]int),
		now:           time.Now,
		intn:          rand.Intn,
	}
}

// Channel 查询单个频道
func (s *StreamService) Channel(ctx context.Context, channel string) (model.StreamerStatus, error) {
	status, err := s.provider.Status(ctx, channel)
	if err != nil {
		s.logger.Error("获取频道状态失败", "channel", channel, "error", err)
	}
	return status, err
}

// All 主频道和游戏频道状态
func (s *StreamService) All(ctx context.Context) (model.StreamersStatus, error) {
	main, err := s.Channel(ctx, s.mainChannel)
	if err != nil {
		return model.StreamersStatus{}, err
	}
	gaming, err := s.Channel(ctx, s.gamingChannel)
	if err != nil {
		return model.StreamersStatus{}, err
	}
	return model.StreamersStatus{Main: &main, Gaming: &gaming}, nil
}

// Live 正在直播的频道，主频道优先，都未开播时返回nil
func (s *StreamService) Live(ctx context.Context) (*model.StreamerStatus, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	if all.Main.IsLive {
		return all.Main, nil
	}
	if all.Gaming.IsLive {
		return all.Gaming, nil
	}
	return nil, nil
}

// CurrentViewers 所有开播频道的观看人数之和
func (s *StreamService) CurrentViewers(ctx context.Context) (int, error) {
	all, err := s.All(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, st := range []*model.StreamerStatus{all.Main, all.Gaming} {
		if st.IsLive {
			total += st.Viewers
		}
	}
	return total, nil
}

// RecordDailyViewers 记录当天观看人数，同一天取最大值
func (s *StreamService) RecordDailyViewers(ctx context.Context) error {
	viewers, err := s.CurrentViewers(ctx)
	if err != nil {
		return err
	}
	today := s.now().Format("2006-01-02")
	oldest := s.now().AddDate(0, 0, -(metricDays - 1)).Format("2006-01-02")

	s.mu.Lock()
	defer s.mu.Unlock()
	if viewers > s.daily[today] {
		s.daily[today] = viewers
	}
	for date := range s.daily {
		if date < oldest {
			delete(s.daily, date)
		}
	}
	return nil
}

// ViewerMetrics 最近7天的观看人数，按日期升序；未记录的日期使用模拟值
func (s *StreamService) ViewerMetrics() []model.ViewerMetric {
	now := s.now()
	out := make([]model.ViewerMetric, 0, metricDays)

	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := metricDays - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format("2006-01-02")
		viewers, ok := s.daily[date]
		if !ok {
			viewers = 500 + s.intn(2000)
		}
		out = append(out, model.ViewerMetric{Date: date, Viewers: viewers})
	}
	return out
}

// RecordVisit 记录一次访问
func (s *StreamService) RecordVisit() {
	s.visits.Add(1)
}

// Visits 启动以来的访问次数
func (s *StreamService) Visits() int64 {
	return s.visits.Load()
}

// Stats 后台统计
func (s *StreamService) Stats(ctx context.Context, announcements int) (model.AdminStats, error) {
	viewers, err := s.CurrentViewers(ctx)
	if err != nil {
		return model.AdminStats{}, err
	}
	return model.AdminStats{
		Announcements: announcements,
		Viewers:       viewers,
		Visits:        int(s.Visits()),
	}, nil
}
