package admin

import (
	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes 注册管理员API路由，router已挂载管理员认证中间件
func RegisterAdminRoutes(
	router *gin.RouterGroup,
	announcementAdminHandler *AnnouncementAdminHandler,
	settingsAdminHandler *SettingsAdminHandler,
	dashboardAdminHandler *DashboardAdminHandler,
) {
	// 公告管理路由
	announcements := router.Group("/announcements")
	{
		announcements.POST("", announcementAdminHandler.CreateAnnouncement)
		announcements.PATCH("/:id", announcementAdminHandler.UpdateAnnouncement)
		announcements.DELETE("/:id", announcementAdminHandler.DeleteAnnouncement)
	}

	adminGroup := router.Group("/admin")
	{
		adminGroup.GET("/stream-settings", settingsAdminHandler.GetStreamSettings)
		adminGroup.POST("/stream-settings/featured", settingsAdminHandler.UpdateFeaturedStream)
		adminGroup.POST("/stream-settings/schedule-image", settingsAdminHandler.UpdateScheduleImage)

		adminGroup.GET("/theme-settings", settingsAdminHandler.GetThemeSettings)
		adminGroup.POST("/theme-settings", settingsAdminHandler.UpdateTheme)
		adminGroup.POST("/theme-settings/custom", settingsAdminHandler.UpdateCustomTheme)
		adminGroup.POST("/theme-settings/background", settingsAdminHandler.UpdateBackgroundImage)

		adminGroup.GET("/webhook-settings", settingsAdminHandler.GetWebhookSettings)
		adminGroup.POST("/webhook-settings", settingsAdminHandler.UpdateWebhookSettings)
		adminGroup.POST("/webhook-settings/test", settingsAdminHandler.TestWebhook)

		adminGroup.GET("/logs", dashboardAdminHandler.GetLogs)
		adminGroup.GET("/activity", dashboardAdminHandler.GetActivity)
		adminGroup.GET("/stats", dashboardAdminHandler.GetStats)
		adminGroup.GET("/metrics/viewers", dashboardAdminHandler.GetViewerMetrics)
		adminGroup.POST("/backup", dashboardAdminHandler.RequestBackup)
	}

	router.POST("/discord/log", settingsAdminHandler.ForwardLog)
}
