package apis

import (
	"github.com/gin-gonic/gin"

	"fansite/internal/api/handler"
)

// RegisterPublicRoutes 注册不需要登录的路由
func RegisterPublicRoutes(
	router *gin.RouterGroup,
	announcementHandler *handler.AnnouncementHandler,
	systemHandler *handler.SystemHandler,
	streamHandler *handler.StreamHandler,
) {
	RegisterAnnouncementRoutes(router, announcementHandler)

	router.GET("/theme", systemHandler.GetTheme)

	// 直播状态路由
	twitch := router.Group("/twitch")
	{
		twitch.GET("/live", streamHandler.GetLive)
		twitch.GET("/streamers", streamHandler.GetStreamers)
		twitch.GET("/streams/:channel", streamHandler.GetStream)
	}
}

// RegisterAuthRoutes 注册登录相关路由，loginLimit只作用于登录接口
func RegisterAuthRoutes(router *gin.RouterGroup, authHandler *handler.AuthHandler, loginLimit gin.HandlerFunc) {
	auth := router.Group("/admin")
	{
		auth.POST("/login", loginLimit, authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/check-auth", authHandler.CheckAuth)
	}
}
