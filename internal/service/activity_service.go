package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fansite/internal/model"
	"fansite/internal/store"
	"fansite/pkg/async"
	"fansite/pkg/discord"
	"fansite/pkg/logger"
)

// ErrWebhookNotConfigured 未配置Webhook地址
var ErrWebhookNotConfigured = errors.New("webhook url is not configured")

// ActivityService 系统日志与Discord推送
type ActivityService struct {
	logs     *store.LogStore
	settings *store.SettingsStore
	client   *discord.Client
	worker   *async.Worker
	logger   *logger.Logger
	timeout  time.Duration
	now      func() time.Time
}

// NewActivityService 创建动态服务，worker用于异步推送Webhook
func NewActivityService(logs *store.LogStore, settings *store.SettingsStore, client *discord.Client, worker *async.Worker, logger *logger.Logger) *ActivityService {
	return &ActivityService{
		logs:     logs,
		settings: settings,
		client:   client,
		worker:   worker,
		logger:   logger,
		timeout:  10 * time.Second,
		now:      time.Now,
	}
}

// Log 记录一条系统日志，并按Webhook设置决定是否实时推送
func (s *ActivityService) Log(level model.LogLevel, message, source string) model.SystemLog {
	entry := s.logs.Append(level, message, source)

	switch entry.Level {
	case model.LogLevelError:
		s.logger.Error(entry.Message, "source", entry.Source)
	case model.LogLevelWarning:
		s.logger.Warn(entry.Message, "source", entry.Source)
	default:
		s.logger.Info(entry.Message, "source", entry.Source)
	}

	w := s.settings.Webhook()
	if w.URL != "" && w.RealTimeLogging && w.LogLevel.Passes(entry.Level) {
		s.deliver(w.URL, discord.LogEmbed(string(entry.Level), entry.Message, entry.Source))
	}
	return entry
}

// Alert 推送一条嵌入消息，不写系统日志
func (s *ActivityService) Alert(embeds ...discord.Embed) {
	if url := s.settings.Webhook().URL; url != "" {
		s.deliver(url, embeds...)
	}
}

// Send 同步推送，返回推送结果
func (s *ActivityService) Send(ctx context.Context, embeds ...discord.Embed) error {
	url := s.settings.Webhook().URL
	if url == "" {
		return ErrWebhookNotConfigured
	}
	return s.client.SendEmbeds(ctx, url, embeds...)
}

// Notify 公告变更通知
func (s *ActivityService) Notify(e store.Event) {
	a := e.Announcement
	switch e.Type {
	case store.EventCreated:
		s.Log(model.LogLevelInfo, fmt.Sprintf("Announcement created: %s", a.Title), model.SourceAdmin)
		s.Alert(discord.AnnouncementEmbed(a.Title, a.Content, string(a.Category), a.IsPinned))
	case store.EventUpdated:
		s.Log(model.LogLevelInfo, fmt.Sprintf("Announcement updated: %s", a.Title), model.SourceAdmin)
	case store.EventDeleted:
		s.Log(model.LogLevelInfo, fmt.Sprintf("Announcement deleted: %s", a.Title), model.SourceAdmin)
	}
	if len(e.Unpinned) > 0 {
		s.logger.Debug("置顶转移", "pinned", a.ID, "unpinned", e.Unpinned)
	}
}

// Recent 最新系统日志
func (s *ActivityService) Recent(limit int) []model.SystemLog {
	return s.logs.Recent(limit)
}

// Activity 后台动态
func (s *ActivityService) Activity(limit int) []model.ActivityItem {
	logs := s.logs.Activity(limit)
	now := s.now()
	items := make([]model.ActivityItem, len(logs))
	for i, l := range logs {
		items[i] = model.ActivityItem{
			ID:          l.ID,
			Type:        l.Level,
			Description: l.Message,
			Timestamp:   timeAgo(l.Timestamp, now),
			Icon:        logIcon(l.Level, l.Source),
		}
	}
	return items
}

// BackupFailed 快照保存由成功转为失败
func (s *ActivityService) BackupFailed(err error) {
	s.Log(model.LogLevelError, fmt.Sprintf("Backup failed: %v", err), model.SourceBackup)
}

// BackupRecovered 快照保存恢复
func (s *ActivityService) BackupRecovered() {
	s.Log(model.LogLevelInfo, "Backup recovered", model.SourceBackup)
	s.Alert(discord.BackupEmbed(true, "Data snapshots are being saved again"))
}

// deliver 提交异步推送任务，失败只记录日志
func (s *ActivityService) deliver(url string, embeds ...discord.Embed) {
	ok := s.worker.Submit(async.Task{
		Name:    "webhook",
		Timeout: s.timeout,
		Handler: func(ctx context.Context) error {
			if err := s.client.SendEmbeds(ctx, url, embeds...); err != nil {
				s.logger.Warn("Webhook推送失败", "error", err)
				return err
			}
			return nil
		},
	})
	if !ok {
		s.logger.Warn("Webhook队列已满，丢弃消息")
	}
}

var _ store.Notifier = (*ActivityService)(nil)
