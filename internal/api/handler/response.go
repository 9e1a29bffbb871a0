package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fansite/internal/constants"
	"fansite/internal/store"
	"fansite/pkg/logger"
)

// Message 错误或提示响应
func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

// Error 把存储层错误映射为HTTP状态码
func Error(c *gin.Context, log *logger.Logger, action string, err error) {
	var ve *store.ValidationError
	switch {
	case errors.As(err, &ve):
		Message(c, http.StatusBadRequest, ve.Error())
	case errors.Is(err, store.ErrNotFound):
		Message(c, http.StatusNotFound, constants.ErrAnnouncementNotFound)
	default:
		log.Error(action, "error", err)
		Message(c, http.StatusInternalServerError, constants.ErrInternalServer)
	}
}

// ParseID 解析路径中的公告ID，失败时已写入400响应
func ParseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		Message(c, http.StatusBadRequest, constants.ErrInvalidID)
		return 0, false
	}
	return id, true
}
