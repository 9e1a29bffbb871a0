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

// AnnouncementAdminHandler 公告管理处理器
type AnnouncementAdminHandler struct {
	announcementService *service.AnnouncementService
	logger              *logger.Logger
}

// NewAnnouncementAdminHandler 创建公告管理处理器实例
func NewAnnouncementAdminHandler(announcementService *service.AnnouncementService, logger *logger.Logger) *AnnouncementAdminHandler {
	return &AnnouncementAdminHandler{
		announcementService: announcementService,
		logger:              logger,
	}
}

// CreateAnnouncement 创建公告
// @Summary 创建公告
// @Description 置顶的新公告会取消其他公告的置顶
// @Tags 公告管理
// @Accept json
// @Produce json
// @Param announcement body model.AnnouncementInput true "公告信息"
// @Success 201 {object} model.Announcement
// @Failure 400 {object} map[string]string
// @Router /api/announcements [post]
func (h *AnnouncementAdminHandler) CreateAnnouncement(c *gin.Context) {
	var req model.AnnouncementInput
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Message(c, http.StatusBadRequest, constants.ErrInvalidRequest)
		return
	}

	a, err := h.announcementService.Create(c.Request.Context(), req)
	if err != nil {
		handler.Error(c, h.logger, "创建公告失败", err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// UpdateAnnouncement 局部更新公告
// @Summary 更新公告
// @Tags 公告管理
// @Accept json
// @Produce json
// @Param id path int true "公告ID"
// @Param announcement body model.AnnouncementPatch true "需要修改的字段"
// @Success 200 {object} model.Announcement
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/announcements/{id} [patch]
func (h *AnnouncementAdminHandler) UpdateAnnouncement(c *gin.Context) {
	id, ok := handler.ParseID(c)
	if !ok {
		return
	}
	var req model.AnnouncementPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Message(c, http.StatusBadRequest, constants.ErrInvalidRequest)
		return
	}

	a, err := h.announcementService.Update(c.Request.Context(), id, req)
	if err != nil {
		handler.Error(c, h.logger, "更新公告失败", err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// DeleteAnnouncement 删除公告
// @Summary 删除公告
// @Tags 公告管理
// @Produce json
// @Param id path int true "公告ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} map[string]string
// @Router /api/announcements/{id} [delete]
func (h *AnnouncementAdminHandler) DeleteAnnouncement(c *gin.Context) {
	id, ok := handler.ParseID(c)
	if !ok {
		return
	}
	if err := h.announcementService.Delete(c.Request.Context(), id); err != nil {
		handler.Error(c, h.logger, "删除公告失败", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
