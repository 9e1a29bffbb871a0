package discord

import (
	"fmt"
	"strings"
	"time"
)

// 颜色
const (
	ColorGold   = 0xD4AF37
	ColorRed    = 0xFF0000
	ColorBlue   = 0x0099FF
	ColorPurple = 0x9B59B6
	ColorYellow = 0xFFCC00
	ColorGreen  = 0x00FF00
	ColorOrange = 0xFF4500
)

const maxFieldValue = 1000

// now 可在测试中替换
var now = time.Now

func timestamp() string {
	return now().UTC().Format(time.RFC3339)
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxFieldValue {
		return s
	}
	return string(r[:maxFieldValue-3]) + "..."
}

// CategoryColor 公告分类对应的颜色
func CategoryColor(category string) int {
	switch category {
	case "event":
		return ColorGold
	case "important":
		return ColorRed
	case "stream":
		return ColorBlue
	default:
		return ColorPurple
	}
}

// LevelColor 日志级别对应的颜色
func LevelColor(level string) int {
	switch level {
	case "error":
		return ColorRed
	case "warning":
		return ColorYellow
	default:
		return ColorBlue
	}
}

// AnnouncementEmbed 新公告
func AnnouncementEmbed(title, content, category string, pinned bool) Embed {
	heading := "New Announcement"
	status := "Regular"
	if pinned {
		heading = "New Pinned Announcement"
		status = "📌 Pinned"
	}
	return Embed{
		Title:       heading,
		Description: title,
		Color:       CategoryColor(category),
		Fields: []Field{
			{Name: "Content", Value: truncate(content)},
			{Name: "Category", Value: category, Inline: true},
			{Name: "Status", Value: status, Inline: true},
		},
		Timestamp: timestamp(),
		Footer:    &Footer{Text: "Website Announcements"},
	}
}

// BackupEmbed 备份结果
func BackupEmbed(success bool, details string) Embed {
	e := Embed{
		Title:       "System Backup Successful",
		Description: details,
		Color:       ColorGreen,
		Timestamp:   timestamp(),
		Footer:      &Footer{Text: "Website Backup System"},
	}
	if !success {
		e.Title = "System Backup Failed"
		e.Color = ColorRed
	}
	return e
}

// ThemeChangeEmbed 主题变更
func ThemeChangeEmbed(theme, changedBy string) Embed {
	return Embed{
		Title:       "Theme Changed",
		Description: fmt.Sprintf("Website theme has been updated to **%s**", theme),
		Color:       ColorGold,
		Fields: []Field{
			{Name: "Changed By", Value: changedBy},
		},
		Timestamp: timestamp(),
		Footer:    &Footer{Text: "Website Appearance System"},
	}
}

// LogEmbed 系统日志
func LogEmbed(level, message, source string) Embed {
	return Embed{
		Title:       fmt.Sprintf("%s: %s", strings.ToUpper(level), source),
		Description: truncate(message),
		Color:       LevelColor(level),
		Fields: []Field{
			{Name: "Source", Value: source, Inline: true},
			{Name: "Level", Value: level, Inline: true},
		},
		Timestamp: timestamp(),
		Footer:    &Footer{Text: "Website Logging System"},
	}
}

// SecurityAlertEmbed 安全告警
func SecurityAlertEmbed(action, ip, details string) Embed {
	return Embed{
		Title:       "⚠️ Security Alert",
		Description: action,
		Color:       ColorOrange,
		Fields: []Field{
			{Name: "IP Address", Value: ip, Inline: true},
			{Name: "Details", Value: truncate(details)},
		},
		Timestamp: timestamp(),
		Footer:    &Footer{Text: "Website Security System"},
	}
}

// TestEmbed Webhook测试消息
func TestEmbed() Embed {
	return Embed{
		Title:       "🧪 Webhook Test",
		Description: "This is a test message to verify the Discord webhook integration is working correctly.",
		Color:       ColorGold,
		Fields: []Field{
			{Name: "Status", Value: "✅ Connected", Inline: true},
		},
		Timestamp: timestamp(),
		Footer:    &Footer{Text: "Website System"},
	}
}
