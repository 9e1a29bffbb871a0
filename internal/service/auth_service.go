package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"k8s.io/apimachinery/pkg/util/rand"

	"fansite/config"
	"fansite/internal/model"
	"fansite/pkg/discord"
	"fansite/pkg/logger"
)

// ErrInvalidCredentials 用户名或密码错误
var ErrInvalidCredentials = errors.New("invalid credentials")

const tokenLength = 48

// AuthService 管理员认证服务
type AuthService struct {
	username     string
	passwordHash []byte
	ttl          time.Duration
	sessions     SessionStore
	activity     *ActivityService
	logger       *logger.Logger
}

// NewAuthService 创建认证服务，启动时对配置中的密码做bcrypt哈希
func NewAuthService(cfg config.AdminConfig, sessions SessionStore, activity *ActivityService, logger *logger.Logger) (*AuthService, error) {
	s := &AuthService{
		username: cfg.Username,
		ttl:      cfg.SessionTTL,
		sessions: sessions,
		activity: activity,
		logger:   logger,
	}
	if s.ttl <= 0 {
		s.ttl = 24 * time.Hour
	}
	if cfg.Password == "" {
		logger.Warn("未配置管理员密码，后台登录已禁用")
		return s, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	s.passwordHash = hash
	return s, nil
}

// SessionTTL 会话有效期
func (s *AuthService) SessionTTL() time.Duration {
	return s.ttl
}

// Login 校验凭据并创建会话，返回会话令牌
func (s *AuthService) Login(ctx context.Context, username, password, ip string) (string, error) {
	if !s.verify(username, password) {
		s.activity.Log(model.LogLevelWarning, fmt.Sprintf("Failed login attempt: %s", username), model.SourceAuth)
		s.activity.Alert(discord.SecurityAlertEmbed("Failed admin login", ip, fmt.Sprintf("username: %s", username)))
		return "", ErrInvalidCredentials
	}

	token := rand.String(tokenLength)
	if err := s.sessions.Create(ctx, token, s.username, s.ttl); err != nil {
		s.logger.Error("创建会话失败", "error", err)
		s.activity.Log(model.LogLevelError, fmt.Sprintf("Login error: %v", err), model.SourceAuth)
		return "", err
	}

	s.activity.Log(model.LogLevelInfo, fmt.Sprintf("Admin login successful: %s", username), model.SourceAuth)
	return token, nil
}

// Logout 销毁会话
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	username, err := s.sessions.Get(ctx, token)
	if err == nil {
		s.activity.Log(model.LogLevelInfo, fmt.Sprintf("Admin logout: %s", username), model.SourceAuth)
	}
	return s.sessions.Delete(ctx, token)
}

// IsAuthorized 会话是否有效
func (s *AuthService) IsAuthorized(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	_, err := s.sessions.Get(ctx, token)
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		s.logger.Error("读取会话失败", "error", err)
	}
	return err == nil
}

// verify 用户名不区分大小写，密码使用bcrypt比较
func (s *AuthService) verify(username, password string) bool {
	if s.passwordHash == nil || !strings.EqualFold(strings.TrimSpace(username), s.username) {
		return false
	}
	return bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) == nil
}
