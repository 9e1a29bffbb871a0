package service

import (
	"fmt"
	"time"

	"fansite/internal/model"
)

// timeAgo 相对时间描述
func timeAgo(t, now time.Time) string {
	diff := now.Sub(t)
	if diff < time.Minute {
		return "Just now"
	}
	if m := int(diff / time.Minute); m < 60 {
		return plural(m, "minute")
	}
	if h := int(diff / time.Hour); h < 24 {
		return plural(h, "hour")
	}
	if d := int(diff / (24 * time.Hour)); d < 7 {
		return plural(d, "day")
	}
	return t.Format("2006-01-02")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// logIcon 动态条目的图标，来源优先于级别
func logIcon(level model.LogLevel, source string) string {
	switch source {
	case model.SourceAuth:
		return "user-shield"
	case model.SourceAdmin:
		return "user-edit"
	case model.SourceBackup:
		return "database"
	}
	switch level {
	case model.LogLevelWarning:
		return "exclamation-triangle"
	case model.LogLevelError:
		return "exclamation-circle"
	default:
		return "info-circle"
	}
}
