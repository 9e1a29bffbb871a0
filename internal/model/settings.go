package model

import "time"

// FeaturedStream 首页展示的直播
type FeaturedStream string

const (
	FeaturedAuto   FeaturedStream = "auto"
	FeaturedMain   FeaturedStream = "main"
	FeaturedGaming FeaturedStream = "gaming"
	FeaturedCustom FeaturedStream = "custom"
)

// Valid 是否为合法取值
func (f FeaturedStream) Valid() bool {
	switch f {
	case FeaturedAuto, FeaturedMain, FeaturedGaming, FeaturedCustom:
		return true
	}
	return false
}

// StreamSettings 直播设置
type StreamSettings struct {
	FeaturedStream   FeaturedStream `json:"featuredStream"`
	CustomEmbedURL   string         `json:"customEmbedUrl,omitempty"`
	ScheduleImageURL string         `json:"scheduleImageUrl,omitempty"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// DefaultStreamSettings 默认直播设置
func DefaultStreamSettings() StreamSettings {
	return StreamSettings{FeaturedStream: FeaturedAuto}
}

// CustomTheme 自定义主题颜色
type CustomTheme struct {
	PrimaryColor    string `json:"primaryColor,omitempty"`
	SecondaryColor  string `json:"secondaryColor,omitempty"`
	AccentColor     string `json:"accentColor,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	TextColor       string `json:"textColor,omitempty"`
	BackgroundImage string `json:"backgroundImage,omitempty"`
}

// ThemeCustom 使用自定义颜色的主题名
const ThemeCustom = "custom"

// ThemeSettings 主题设置
type ThemeSettings struct {
	CurrentTheme       string       `json:"currentTheme"`
	CustomTheme        *CustomTheme `json:"customTheme,omitempty"`
	BackgroundImageURL string       `json:"backgroundImageUrl,omitempty"`
	UpdatedAt          time.Time    `json:"updatedAt"`
}

// DefaultThemeSettings 默认主题设置
func DefaultThemeSettings() ThemeSettings {
	return ThemeSettings{CurrentTheme: "default"}
}

// WebhookSettings Discord Webhook设置
type WebhookSettings struct {
	URL             string     `json:"url"`
	LogLevel        LogLevel   `json:"logLevel"`
	RealTimeLogging bool       `json:"realTimeLogging"`
	LastBackup      *time.Time `json:"lastBackup"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// DefaultWebhookSettings 默认Webhook设置
func DefaultWebhookSettings(url string) WebhookSettings {
	return WebhookSettings{
		URL:             url,
		LogLevel:        LogLevelInfo,
		RealTimeLogging: true,
	}
}
