package api

import (
	"github.com/gin-gonic/gin"

	"fansite/config"
	"fansite/internal/api/admin"
	"fansite/internal/api/apis"
	"fansite/internal/api/handler"
	"fansite/internal/middleware"
	"fansite/internal/service"
	"fansite/pkg/logger"
)

// Services 路由依赖的服务
type Services struct {
	Announcements *service.AnnouncementService
	Settings      *service.SettingsService
	Activity      *service.ActivityService
	Auth          *service.AuthService
	Streams       *service.StreamService
	Backup        admin.BackupRequester
	LoginLimiter  *middleware.IPRateLimiter
}

// SetupRouter 设置API路由
func SetupRouter(cfg *config.Config, logger *logger.Logger, svc Services) *gin.Engine {
	// 创建Gin引擎
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// 使用中间件
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	if svc.LoginLimiter == nil {
		svc.LoginLimiter = middleware.NewLoginLimiter()
	}

	// 初始化处理器
	announcementHandler := handler.NewAnnouncementHandler(svc.Announcements, logger)
	systemHandler := handler.NewSystemHandler(svc.Settings)
	streamHandler := handler.NewStreamHandler(svc.Streams, svc.Activity, logger)
	authHandler := handler.NewAuthHandler(svc.Auth, cfg.IsProduction(), logger)

	// 初始化管理员处理器
	announcementAdminHandler := admin.NewAnnouncementAdminHandler(svc.Announcements, logger)
	settingsAdminHandler := admin.NewSettingsAdminHandler(svc.Settings, logger)
	dashboardAdminHandler := admin.NewDashboardAdminHandler(svc.Announcements, svc.Streams, svc.Activity, svc.Backup, logger)

	// 健康检查
	router.GET("/health", systemHandler.Health)

	api := router.Group("/api")

	// 注册不需要认证的路由，公开页面的GET请求计入访问量
	public := api.Group("")
	public.Use(middleware.CountVisits(svc.Streams))
	apis.RegisterPublicRoutes(public, announcementHandler, systemHandler, streamHandler)
	apis.RegisterAuthRoutes(api, authHandler, middleware.RateLimit(svc.LoginLimiter, logger))

	// 注册管理员API路由
	adminRouter := api.Group("")
	adminRouter.Use(middleware.AdminAuth(svc.Auth))
	admin.RegisterAdminRoutes(adminRouter, announcementAdminHandler, settingsAdminHandler, dashboardAdminHandler)

	return router
}
