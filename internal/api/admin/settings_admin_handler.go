package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fansite/internal/api/handler"
	"fansite/internal/constants"
	"fansite/internal/model"
	"fansite/internal/service"
	"fansite/pkg/discord"
	"fansite/pkg/logger"
)

// SettingsAdminHandler 站点设置管理处理器
type SettingsAdminHandler struct {
	settingsService *service.SettingsService
	logger          *logger.Logger
}

// NewSettingsAdminHandler 创建站点设置管理处理器实例
func NewSettingsAdminHandler(settingsService *service.SettingsService, logger *logger.Logger) *SettingsAdminHandler {
	return &SettingsAdminHandler{
		settingsService: settingsService,
		logger:          logger,
	}
}

// FeaturedStreamRequest 首页直播设置
type FeaturedStreamRequest struct {
	Featured  model.FeaturedStream `json:"featured"`
	CustomURL string               `json:"customUrl"`
}

// URLRequest 只包含地址的请求
type URLRequest struct {
	URL string `json:"url"`
}

// ThemeRequest 切换主题
type ThemeRequest struct {
	Theme string `json:"theme"`
}

// WebhookRequest Webhook设置，realTimeLogging缺省为true
type WebhookRequest struct {
	URL             string         `json:"url"`
	LogLevel        model.LogLevel `json:"logLevel"`
	RealTimeLogging *bool          `json:"realTimeLogging"`
}

// EmbedsRequest 转发的嵌入消息
type EmbedsRequest struct {
	Embeds []discord.Embed `json:"embeds"`
}

// GetStreamSettings 获取直播设置
func (h *SettingsAdminHandler) GetStreamSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.settingsService.Stream())
}

// UpdateFeaturedStream 设置首页展示的直播
func (h *SettingsAdminHandler) UpdateFeaturedStream(c *gin.Context) {
	var req FeaturedStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Message(c, http.StatusBadRequest, constants.ErrInvalidRequest)
		return
	}
	out, err := h.settingsService.SetFeaturedStream(req.Featured, req.CustomURL)
	if err != nil {
		handler.Error(c, h.logger, "更新直播设置失败", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// UpdateScheduleImage 设置直播日程图片
func (h *SettingsAdminHandler) UpdateScheduleImage(c *gin.Context) {
	var req URLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Message(c, http.StatusBadRequest, constants.ErrInvalidRequest)
		return
	}
	c.JSON(http.StatusOK, h.settingsService.SetScheduleImage(req.URL))
}

// GetThemeSettings 获取主题设置
func (h *SettingsAdminHandler) GetThemeSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.settingsService.Theme())
}

// UpdateTheme 切换主题
func (h *SettingsAdminHandler) UpdateTheme(c *gin.Context) {
	var req ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Message(c, http.StatusBadRequest, constants.ErrInvalidRequest)
		return
	}
	out, err := h.settingsService.SetTheme(req.Theme)
	if err != nil {
		handler.Error(c, h.logger, "更新主题失败", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// UpdateCustomTheme 保存并应用自定义颜色
func (h *SettingsAdminHandler) UpdateCustomTheme(c *gin.Context) {
	var req model.CustomTheme
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Message(c, http.StatusBadRequest, constants.ErrInvalidRequest)
		return
	}
	c.JSON(http.StatusOK, h.settingsService.SetCustomTheme(req))
}

// UpdateBackgroundImage 设置背景图片
func (h *SettingsAdminHandler) UpdateBackgroundImage(c *gin.Context) {
	var req URLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Message(c, http.StatusBadRequest, constants.ErrInvalidRequest)
		return
	}
	c.JSON(http.StatusOK, h.settingsService.SetBackgroundImage(req.URL))
}

// GetWebhookSettings 获取Webhook设置
func (h *SettingsAdminHandler) GetWebhookSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.settingsService.Webhook())
}

// UpdateWebhookSettings 更新Webhook设置
func (h *SettingsAdminHandler) UpdateWebhookSettings(c *gin.Context) {
	var req WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Message(c, http.StatusBadRequest, constants.ErrInvalidRequest)
		return
	}
	realTime := req.RealTimeLogging == nil || *req.RealTimeLogging
	out, err := h.settingsService.UpdateWebhook(req.URL, req.LogLevel, realTime)
	if err != nil {
		handler.Error(c, h.logger, "更新Webhook设置失败", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// TestWebhook 发送测试消息
func (h *SettingsAdminHandler) TestWebhook(c *gin.Context) {
	if err := h.settingsService.TestWebhook(c.Request.Context()); err != nil {
		h.webhookFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": constants.SuccessWebhookSent})
}

// ForwardLog 转发前端提交的嵌入消息到Discord
func (h *SettingsAdminHandler) ForwardLog(c *gin.Context) {
	var req EmbedsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Embeds) == 0 {
		handler.Message(c, http.StatusBadRequest, constants.ErrInvalidEmbeds)
		return
	}
	if err := h.settingsService.ForwardEmbeds(c.Request.Context(), req.Embeds); err != nil {
		h.webhookFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": constants.SuccessWebhookSent})
}

func (h *SettingsAdminHandler) webhookFailed(c *gin.Context, err error) {
	switch {
	case errors.Is(err, discord.ErrInvalidMessage):
		handler.Message(c, http.StatusBadRequest, constants.ErrInvalidEmbeds)
	case errors.Is(err, service.ErrWebhookNotConfigured):
		handler.Message(c, http.StatusBadRequest, constants.ErrWebhookNotSet)
	default:
		h.logger.Warn("Webhook发送失败", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": constants.ErrWebhookSend})
	}
}
