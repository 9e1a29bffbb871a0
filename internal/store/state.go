package store

import (
	"fansite/internal/model"
	"fansite/pkg/logger"
)

// Snapshot 全部集合在某一时刻的内容
type Snapshot struct {
	Announcements AnnouncementState
	Stream        model.StreamSettings
	Theme         model.ThemeSettings
	Webhook       model.WebhookSettings
	Logs          []model.SystemLog
}

// State 进程内全部状态，启动时创建一次并注入到各处理器
type State struct {
	Announcements *AnnouncementStore
	Settings      *SettingsStore
	Logs          *LogStore
}

// NewState 创建空状态
func NewState(logger *logger.Logger, defaultWebhookURL string) *State {
	return &State{
		Announcements: NewAnnouncementStore(logger),
		Settings:      NewSettingsStore(defaultWebhookURL),
		Logs:          NewLogStore(MaxSystemLogs),
	}
}

// SetPersister 为全部集合设置快照保存
func (s *State) SetPersister(p Persister) {
	s.Announcements.SetPersister(p)
	s.Settings.SetPersister(p)
	s.Logs.SetPersister(p)
}

// Snapshot 导出全部集合，每个集合内部是一致的
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Announcements: s.Announcements.Snapshot(),
		Stream:        s.Settings.Stream(),
		Theme:         s.Settings.Theme(),
		Webhook:       s.Settings.Webhook(),
		Logs:          s.Logs.Snapshot(),
	}
}

// Restore 使用快照替换全部集合
func (s *State) Restore(snap Snapshot) {
	s.Announcements.Restore(snap.Announcements)
	s.Settings.restore(snap.Stream, snap.Theme, snap.Webhook)
	s.Logs.Restore(snap.Logs)
}
