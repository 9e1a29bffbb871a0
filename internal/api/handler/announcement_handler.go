package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fansite/internal/service"
	"fansite/pkg/logger"
)

// AnnouncementHandler 公告处理器
type AnnouncementHandler struct {
	announcementService *service.AnnouncementService
	logger              *logger.Logger
}

// NewAnnouncementHandler 创建公告处理器实例
func NewAnnouncementHandler(announcementService *service.AnnouncementService, logger *logger.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{
		announcementService: announcementService,
		logger:              logger,
	}
}

// GetAnnouncements 获取公告列表
// @Summary 获取公告列表
// @Description 置顶公告在前，其余按创建时间倒序
// @Tags 公告
// @Produce json
// @Success 200 {array} model.Announcement
// @Router /api/announcements [get]
func (h *AnnouncementHandler) GetAnnouncements(c *gin.Context) {
	c.JSON(http.StatusOK, h.announcementService.List(c.Request.Context()))
}

// GetAnnouncementByID 获取公告详情
// @Summary 获取公告详情
// @Tags 公告
// @Produce json
// @Param id path int true "公告ID"
// @Success 200 {object} model.Announcement
// @Failure 404 {object} map[string]string
// @Router /api/announcements/{id} [get]
func (h *AnnouncementHandler) GetAnnouncementByID(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		return
	}
	a, err := h.announcementService.Get(c.Request.Context(), id)
	if err != nil {
		Error(c, h.logger, "获取公告详情失败", err)
		return
	}
	c.JSON(http.StatusOK, a)
}
