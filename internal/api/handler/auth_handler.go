package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fansite/internal/constants"
	"fansite/internal/middleware"
	"fansite/internal/service"
	"fansite/pkg/logger"
)

// AuthHandler 管理员登录处理器
type AuthHandler struct {
	authService  *service.AuthService
	secureCookie bool
	logger       *logger.Logger
}

// NewAuthHandler 创建登录处理器实例，secureCookie在生产环境开启
func NewAuthHandler(authService *service.AuthService, secureCookie bool, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login 管理员登录
// @Summary 管理员登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body LoginRequest true "登录信息"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 429 {object} map[string]string
// @Router /api/admin/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Message(c, http.StatusBadRequest, constants.ErrInvalidRequest)
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Username, req.Password, c.ClientIP())
	if errors.Is(err, service.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": constants.ErrInvalidCredentials})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": constants.ErrInternalServer})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(h.authService.SessionTTL().Seconds()), "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout 退出登录
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.SessionToken(c)); err != nil {
		h.logger.Error("删除会话失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": constants.ErrInternalServer})
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CheckAuth 当前会话是否有效
func (h *AuthHandler) CheckAuth(c *gin.Context) {
	ok := h.authService.IsAuthorized(c.Request.Context(), middleware.SessionToken(c))
	c.JSON(http.StatusOK, gin.H{"authenticated": ok})
}
