package service

import (
	"context"
	"fmt"

	"fansite/internal/model"
	"fansite/internal/store"
	"fansite/pkg/discord"
)

// SettingsService 站点设置，修改操作会写入后台动态
type SettingsService struct {
	settings *store.SettingsStore
	activity *ActivityService
}

// NewSettingsService 创建设置服务
func NewSettingsService(settings *store.SettingsStore, activity *ActivityService) *SettingsService {
	return &SettingsService{settings: settings, activity: activity}
}

// Stream 直播设置
func (s *SettingsService) Stream() model.StreamSettings {
	return s.settings.Stream()
}

// SetFeaturedStream 设置首页展示的直播
func (s *SettingsService) SetFeaturedStream(featured model.FeaturedStream, customURL string) (model.StreamSettings, error) {
	out, err := s.settings.SetFeaturedStream(featured, customURL)
	if err != nil {
		return out, err
	}
	s.activity.Log(model.LogLevelInfo, fmt.Sprintf("Stream settings updated: featured=%s", featured), model.SourceAdmin)
	return out, nil
}

// SetScheduleImage 设置直播日程图片
func (s *SettingsService) SetScheduleImage(url string) model.StreamSettings {
	out := s.settings.SetScheduleImage(url)
	s.activity.Log(model.LogLevelInfo, "Schedule image updated", model.SourceAdmin)
	return out
}

// Theme 主题设置
func (s *SettingsService) Theme() model.ThemeSettings {
	return s.settings.Theme()
}

// SetTheme 切换主题
func (s *SettingsService) SetTheme(name string) (model.ThemeSettings, error) {
	out, err := s.settings.SetTheme(name, nil)
	if err != nil {
		return out, err
	}
	s.activity.Log(model.LogLevelInfo, fmt.Sprintf("Admin updated theme: %s", out.CurrentTheme), model.SourceAdmin)
	s.activity.Alert(discord.ThemeChangeEmbed(out.CurrentTheme, "admin"))
	return out, nil
}

// SetCustomTheme 保存自定义颜色并应用
func (s *SettingsService) SetCustomTheme(custom model.CustomTheme) model.ThemeSettings {
	out := s.settings.SetCustomTheme(custom)
	s.activity.Log(model.LogLevelInfo, "Custom theme created and applied", model.SourceAdmin)
	s.activity.Alert(discord.ThemeChangeEmbed(model.ThemeCustom, "admin"))
	return out
}

// SetBackgroundImage 设置背景图片
func (s *SettingsService) SetBackgroundImage(url string) model.ThemeSettings {
	out := s.settings.SetBackgroundImage(url)
	s.activity.Log(model.LogLevelInfo, "Background image updated", model.SourceAdmin)
	return out
}

// Webhook Webhook设置
func (s *SettingsService) Webhook() model.WebhookSettings {
	return s.settings.Webhook()
}

// UpdateWebhook 更新Webhook设置
func (s *SettingsService) UpdateWebhook(url string, level model.LogLevel, realTime bool) (model.WebhookSettings, error) {
	out, err := s.settings.UpdateWebhook(url, level, realTime)
	if err != nil {
		return out, err
	}
	s.activity.Log(model.LogLevelInfo, "Webhook settings updated", model.SourceAdmin)
	return out, nil
}

// TestWebhook 同步发送测试消息
func (s *SettingsService) TestWebhook(ctx context.Context) error {
	if err := s.activity.Send(ctx, discord.TestEmbed()); err != nil {
		s.activity.Log(model.LogLevelError, fmt.Sprintf("Webhook test failed: %v", err), model.SourceWebhook)
		return err
	}
	s.activity.Log(model.LogLevelInfo, "Webhook test sent", model.SourceWebhook)
	return nil
}

// ForwardEmbeds 转发前端提交的嵌入消息
func (s *SettingsService) ForwardEmbeds(ctx context.Context, embeds []discord.Embed) error {
	if err := (discord.Message{Embeds: embeds}).Validate(); err != nil {
		return err
	}
	title := embeds[0].Title
	if title == "" {
		title = "Discord webhook log"
	}
	s.activity.Log(model.LogLevelInfo, title, model.SourceWebhook)
	return s.activity.Send(ctx, embeds...)
}
