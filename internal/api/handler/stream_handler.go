package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fansite/internal/constants"
	"fansite/internal/model"
	"fansite/internal/service"
	"fansite/pkg/logger"
)

// StreamHandler 直播状态处理器
type StreamHandler struct {
	streamService *service.StreamService
	activity      *service.ActivityService
	logger        *logger.Logger
}

// NewStreamHandler 创建直播状态处理器实例
func NewStreamHandler(streamService *service.StreamService, activity *service.ActivityService, logger *logger.Logger) *StreamHandler {
	return &StreamHandler{
		streamService: streamService,
		activity:      activity,
		logger:        logger,
	}
}

// GetLive 正在直播的频道，没有时返回null
func (h *StreamHandler) GetLive(c *gin.Context) {
	live, err := h.streamService.Live(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, live)
}

// GetStreamers 主频道和游戏频道状态
func (h *StreamHandler) GetStreamers(c *gin.Context) {
	all, err := h.streamService.All(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, all)
}

// GetStream 单个频道状态
func (h *StreamHandler) GetStream(c *gin.Context) {
	channel := strings.TrimSpace(c.Param("channel"))
	if channel == "" {
		Message(c, http.StatusBadRequest, constants.ErrInvalidChannel)
		return
	}
	status, err := h.streamService.Channel(c.Request.Context(), channel)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *StreamHandler) fail(c *gin.Context, err error) {
	h.activity.Log(model.LogLevelError, "Error fetching stream data: "+err.Error(), model.SourceAPI)
	Message(c, http.StatusInternalServerError, constants.ErrFetchStream)
}
