package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"fansite/internal/constants"
)

// SessionCookie 管理员会话Cookie名
const SessionCookie = "fansite_session"

// Authorizer 判断会话令牌是否有效
type Authorizer interface {
	IsAuthorized(ctx context.Context, token string) bool
}

// SessionToken 从Cookie中读取会话令牌，其次读取Authorization请求头
func SessionToken(c *gin.Context) string {
	if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
		return token
	}
	return c.GetHeader("Authorization")
}

// AdminAuth 管理员认证中间件
func AdminAuth(auth Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.IsAuthorized(c.Request.Context(), SessionToken(c)) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": constants.ErrUnauthorized})
			return
		}
		c.Next()
	}
}
