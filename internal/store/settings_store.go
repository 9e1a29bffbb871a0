package store

import (
	"strings"
	"sync"
	"time"

	"fansite/internal/model"
)

// SettingsStore 直播、主题、Webhook设置
type SettingsStore struct {
	mu        sync.RWMutex
	stream    model.StreamSettings
	theme     model.ThemeSettings
	webhook   model.WebhookSettings
	now       func() time.Time
	persister Persister
}

// NewSettingsStore 创建设置存储，webhookURL为默认Webhook地址
func NewSettingsStore(webhookURL string) *SettingsStore {
	return &SettingsStore{
		stream:  model.DefaultStreamSettings(),
		theme:   model.DefaultThemeSettings(),
		webhook: model.DefaultWebhookSettings(webhookURL),
		now:     time.Now,
	}
}

// SetPersister 设置快照保存
func (s *SettingsStore) SetPersister(p Persister) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persister = p
}

// Stream 获取直播设置
func (s *SettingsStore) Stream() model.StreamSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stream
}

// SetFeaturedStream 设置首页展示的直播，custom时同时更新嵌入地址
func (s *SettingsStore) SetFeaturedStream(featured model.FeaturedStream, customURL string) (model.StreamSettings, error) {
	if !featured.Valid() {
		return model.StreamSettings{}, invalid("featured", "must be one of auto, main, gaming, custom")
	}

	s.mu.Lock()
	s.stream.FeaturedStream = featured
	if featured == model.FeaturedCustom && customURL != "" {
		s.stream.CustomEmbedURL = customURL
	}
	s.stream.UpdatedAt = s.now()
	out := s.stream
	s.mu.Unlock()

	s.requestSave()
	return out, nil
}

// SetScheduleImage 设置直播时间表图片
func (s *SettingsStore) SetScheduleImage(url string) model.StreamSettings {
	s.mu.Lock()
	s.stream.ScheduleImageURL = url
	s.stream.UpdatedAt = s.now()
	out := s.stream
	s.mu.Unlock()

	s.requestSave()
	return out
}

// Theme 获取主题设置
func (s *SettingsStore) Theme() model.ThemeSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyTheme(s.theme)
}

// SetTheme 切换主题，custom为nil时保留原有自定义颜色
func (s *SettingsStore) SetTheme(name string, custom *model.CustomTheme) (model.ThemeSettings, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.ThemeSettings{}, invalid("theme", "must not be empty")
	}

	s.mu.Lock()
	s.theme.CurrentTheme = name
	if name == model.ThemeCustom && custom != nil {
		c := *custom
		s.theme.CustomTheme = &c
	}
	s.theme.UpdatedAt = s.now()
	out := copyTheme(s.theme)
	s.mu.Unlock()

	s.requestSave()
	return out, nil
}

// SetCustomTheme 保存自定义颜色并切换到custom主题
func (s *SettingsStore) SetCustomTheme(custom model.CustomTheme) model.ThemeSettings {
	out, _ := s.SetTheme(model.ThemeCustom, &custom)
	return out
}

// SetBackgroundImage 设置背景图片
func (s *SettingsStore) SetBackgroundImage(url string) model.ThemeSettings {
	s.mu.Lock()
	s.theme.BackgroundImageURL = url
	s.theme.UpdatedAt = s.now()
	out := copyTheme(s.theme)
	s.mu.Unlock()

	s.requestSave()
	return out
}

// Webhook 获取Webhook设置
func (s *SettingsStore) Webhook() model.WebhookSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyWebhook(s.webhook)
}

// UpdateWebhook 更新Webhook设置，level为空时使用info
func (s *SettingsStore) UpdateWebhook(url string, level model.LogLevel, realTime bool) (model.WebhookSettings, error) {
	if strings.TrimSpace(url) == "" {
		return model.WebhookSettings{}, invalid("url", "must not be empty")
	}
	if level == "" {
		level = model.LogLevelInfo
	}
	if !level.Valid() {
		return model.WebhookSettings{}, invalid("logLevel", "must be one of info, warning, error")
	}

	s.mu.Lock()
	s.webhook.URL = url
	s.webhook.LogLevel = level
	s.webhook.RealTimeLogging = realTime
	s.webhook.UpdatedAt = s.now()
	out := copyWebhook(s.webhook)
	s.mu.Unlock()

	s.requestSave()
	return out, nil
}

// MarkBackup 记录最近一次备份时间，不触发保存
func (s *SettingsStore) MarkBackup(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.webhook.LastBackup = &t
}

func (s *SettingsStore) restore(stream model.StreamSettings, theme model.ThemeSettings, webhook model.WebhookSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !stream.FeaturedStream.Valid() {
		stream.FeaturedStream = model.FeaturedAuto
	}
	if theme.CurrentTheme == "" {
		theme.CurrentTheme = model.DefaultThemeSettings().CurrentTheme
	}
	if !webhook.LogLevel.Valid() {
		webhook.LogLevel = model.LogLevelInfo
	}
	if webhook.URL == "" {
		webhook.URL = s.webhook.URL
	}
	s.stream = stream
	s.theme = copyTheme(theme)
	s.webhook = copyWebhook(webhook)
}

func (s *SettingsStore) requestSave() {
	s.mu.RLock()
	p := s.persister
	s.mu.RUnlock()
	if p != nil {
		p.RequestSave()
	}
}

func copyTheme(t model.ThemeSettings) model.ThemeSettings {
	if t.CustomTheme != nil {
		c := *t.CustomTheme
		t.CustomTheme = &c
	}
	return t
}

func copyWebhook(w model.WebhookSettings) model.WebhookSettings {
	if w.LastBackup != nil {
		t := *w.LastBackup
		w.LastBackup = &t
	}
	return w
}
