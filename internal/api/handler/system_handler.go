package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fansite/internal/service"
)

// SystemHandler 站点公开设置处理器
type SystemHandler struct {
	settingsService *service.SettingsService
}

// NewSystemHandler 创建站点设置处理器实例
func NewSystemHandler(settingsService *service.SettingsService) *SystemHandler {
	return &SystemHandler{settingsService: settingsService}
}

// Health 健康检查
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetTheme 获取当前主题
func (h *SystemHandler) GetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, h.settingsService.Theme())
}
