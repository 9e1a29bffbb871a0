package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fansite/config"
	"fansite/internal/api"
	"fansite/internal/middleware"
	"fansite/internal/model"
	"fansite/internal/persistence"
	"fansite/internal/scheduler"
	"fansite/internal/service"
	"fansite/internal/store"
	"fansite/internal/twitch"
	"fansite/pkg/async"
	"fansite/pkg/discord"
	"fansite/pkg/logger"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 初始化日志
	logger := logger.NewLoggerWithConfig(cfg.LogLevel, cfg.LogFile)
	defer logger.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	res := newResources(cfg, logger)
	defer func() {
		if err := res.Close(); err != nil {
			logger.Warn("关闭连接失败", "error", err)
		}
	}()

	// 初始化快照存储
	blobs, err := res.blobStore(ctx)
	if err != nil {
		logger.Fatal("无法初始化存储", "driver", cfg.Storage.Driver, "error", err)
	}

	// 加载数据
	state := store.NewState(logger.Named("store"), cfg.Webhook.URL)
	persistWorker := async.NewWorker("persistence", 16, logger)
	persistWorker.Start(1)
	adapter := persistence.NewAdapter(blobs, cfg.Storage.BackupRetention, logger.Named("persistence"))
	syncer := persistence.NewSyncer(adapter, state, persistWorker, logger.Named("persistence"))
	_ = syncer.Load(ctx, cfg.Webhook.URL)
	state.SetPersister(syncer)

	// 日志与Discord通知
	webhookWorker := async.NewWorker("webhook", 100, logger)
	webhookWorker.Start(2)
	client := discord.NewClient(cfg.Webhook.Username, cfg.Webhook.AvatarURL)
	activity := service.NewActivityService(state.Logs, state.Settings, client, webhookWorker, logger.Named("activity"))
	state.Announcements.SetNotifier(activity)
	syncer.OnFailure(activity.BackupFailed)
	syncer.OnRecover(activity.BackupRecovered)

	// 管理员认证
	sessions, err := res.sessionStore(ctx)
	if err != nil {
		logger.Fatal("无法初始化会话存储", "error", err)
	}
	auth, err := service.NewAuthService(cfg.Admin, sessions, activity, logger.Named("auth"))
	if err != nil {
		logger.Fatal("无法初始化认证服务", "error", err)
	}

	// 直播状态
	provider := twitch.NewMockProvider(twitch.DefaultProfiles(cfg.Twitch.MainChannel, cfg.Twitch.GamingChannel)...)
	streams := service.NewStreamService(provider, cfg.Twitch.MainChannel, cfg.Twitch.GamingChannel, logger.Named("stream"))

	// 定时任务
	backupScheduler := scheduler.NewBackupScheduler(syncer, cfg.Storage.BackupInterval, logger)
	backupScheduler.Start()
	metricsScheduler := scheduler.NewMetricsScheduler(streams, logger)
	metricsScheduler.Start()

	// 初始化API路由
	router := api.SetupRouter(cfg, logger, api.Services{
		Announcements: service.NewAnnouncementService(state.Announcements, logger.Named("announcement")),
		Settings:      service.NewSettingsService(state.Settings, activity),
		Activity:      activity,
		Auth:          auth,
		Streams:       streams,
		Backup:        syncer,
		LoginLimiter:  middleware.NewLoginLimiter(),
	})

	// 创建HTTP服务器
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.APIPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 启动服务器（非阻塞）
	go func() {
		logger.Info(fmt.Sprintf("服务器启动于端口: %d", cfg.APIPort), "storage", cfg.Storage.Driver)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("启动服务器失败", "error", err)
		}
	}()
	activity.Log(model.LogLevelInfo, "Server started", model.SourceSystem)

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("正在关闭服务器...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("服务器被强制关闭", "error", err)
	}
	backupScheduler.Stop()
	metricsScheduler.Stop()

	// 退出前保存最新快照，随后发送剩余通知
	if err := syncer.Flush(shutdownCtx); err != nil {
		logger.Error("退出前保存数据失败", "error", err)
	}
	webhookWorker.Stop()

	logger.Info("服务器已正常退出")
}
