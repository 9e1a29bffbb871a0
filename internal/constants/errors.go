package constants

// 通用错误消息
const (
	// 认证相关错误
	ErrUnauthorized       = "Unauthorized"
	ErrInvalidCredentials = "Invalid credentials"
	ErrTooManyRequests    = "Too many requests, please try again later"

	// 参数相关错误
	ErrInvalidRequest = "Invalid request body"
	ErrInvalidID      = "Invalid announcement ID"
	ErrInvalidChannel = "Channel is required"
	ErrInvalidEmbeds  = "Invalid webhook data format"

	// 资源相关错误
	ErrAnnouncementNotFound = "Announcement not found"

	// 系统错误
	ErrInternalServer    = "Internal server error"
	ErrFetchStream       = "Failed to fetch stream data"
	ErrWebhookSend       = "Failed to send webhook"
	ErrWebhookNotSet     = "Webhook URL is not configured"
	ErrBackupUnavailable = "Backup could not be scheduled"
)

// 成功消息
const (
	SuccessLogin       = "Logged in"
	SuccessLogout      = "Logged out"
	SuccessWebhookSent = "Webhook sent successfully"
	SuccessBackup      = "Backup scheduled"
)
