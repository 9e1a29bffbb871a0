package model

import "time"

// LogLevel 系统日志级别
type LogLevel string

const (
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// Valid 是否为合法级别
func (l LogLevel) Valid() bool {
	switch l {
	case LogLevelInfo, LogLevelWarning, LogLevelError:
		return true
	}
	return false
}

// Passes 判断level级别的日志在当前过滤级别下是否需要推送
func (l LogLevel) Passes(level LogLevel) bool {
	switch level {
	case LogLevelError:
		return true
	case LogLevelWarning:
		return l != LogLevelError
	case LogLevelInfo:
		return l == LogLevelInfo
	}
	return false
}

// 日志来源
const (
	SourceSystem  = "system"
	SourceAuth    = "auth"
	SourceAdmin   = "admin"
	SourceAPI     = "api"
	SourceBackup  = "backup"
	SourceWebhook = "webhook"
)

// SystemLog 系统日志
type SystemLog struct {
	ID        int64     `json:"id"`
	Level     LogLevel  `json:"level"`
	Message   string    `json:"message"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// ActivityItem 后台动态条目
type ActivityItem struct {
	ID          int64    `json:"id"`
	Type        LogLevel `json:"type"`
	Description string   `json:"description"`
	Timestamp   string   `json:"timestamp"`
	Icon        string   `json:"icon"`
}
