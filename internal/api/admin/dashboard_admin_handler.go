package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fansite/internal/api/handler"
	"fansite/internal/constants"
	"fansite/internal/model"
	"fansite/internal/service"
	"fansite/pkg/logger"
)

const (
	logsLimit     = 100
	activityLimit = 10
)

// BackupRequester 请求一次异步快照保存
type BackupRequester interface {
	RequestSave()
}

// DashboardAdminHandler 后台首页处理器：日志、动态、统计和备份
type DashboardAdminHandler struct {
	announcementService *service.AnnouncementService
	streamService       *service.StreamService
	activity            *service.ActivityService
	backup              BackupRequester
	logger              *logger.Logger
}

// NewDashboardAdminHandler 创建后台首页处理器实例
func NewDashboardAdminHandler(
	announcementService *service.AnnouncementService,
	streamService *service.StreamService,
	activity *service.ActivityService,
	backup BackupRequester,
	logger *logger.Logger,
) *DashboardAdminHandler {
	return &DashboardAdminHandler{
		announcementService: announcementService,
		streamService:       streamService,
		activity:            activity,
		backup:              backup,
		logger:              logger,
	}
}

// GetLogs 最新100条系统日志
func (h *DashboardAdminHandler) GetLogs(c *gin.Context) {
	c.JSON(http.StatusOK, h.activity.Recent(logsLimit))
}

// GetActivity 最新10条后台动态
func (h *DashboardAdminHandler) GetActivity(c *gin.Context) {
	c.JSON(http.StatusOK, h.activity.Activity(activityLimit))
}

// GetStats 后台统计
func (h *DashboardAdminHandler) GetStats(c *gin.Context) {
	stats, err := h.streamService.Stats(c.Request.Context(), h.announcementService.Count())
	if err != nil {
		h.logger.Error("获取后台统计失败", "error", err)
		handler.Message(c, http.StatusInternalServerError, constants.ErrFetchStream)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetViewerMetrics 最近7天观看人数
func (h *DashboardAdminHandler) GetViewerMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.streamService.ViewerMetrics())
}

// RequestBackup 立即请求一次快照保存
func (h *DashboardAdminHandler) RequestBackup(c *gin.Context) {
	h.activity.Log(model.LogLevelInfo, "Manual backup requested", model.SourceBackup)
	h.backup.RequestSave()
	c.JSON(http.StatusAccepted, gin.H{"success": true, "message": constants.SuccessBackup})
}
