package model

import "time"

// StreamerStatus 主播直播状态
type StreamerStatus struct {
	Name         string     `json:"name"`
	Login        string     `json:"login"`
	URL          string     `json:"url"`
	IsLive       bool       `json:"isLive"`
	ProfileImage string     `json:"profileImage,omitempty"`
	Title        string     `json:"title,omitempty"`
	Game         string     `json:"game,omitempty"`
	Viewers      int        `json:"viewers,omitempty"`
	StartedAt    *time.Time `json:"startedAt,omitempty"`
	Thumbnail    string     `json:"thumbnail,omitempty"`
}

// StreamersStatus 主频道和游戏频道状态
type StreamersStatus struct {
	Main   *StreamerStatus `json:"main"`
	Gaming *StreamerStatus `json:"gaming"`
}

// ViewerMetric 单日观看人数
type ViewerMetric struct {
	Date    string `json:"date"`
	Viewers int    `json:"viewers"`
}

// AdminStats 后台统计
type AdminStats struct {
	Announcements int `json:"announcements"`
	Viewers       int `json:"viewers"`
	Visits        int `json:"visits"`
}
