package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound 会话不存在或已过期
var ErrSessionNotFound = errors.New("session not found")

// SessionStore 管理员会话存储
type SessionStore interface {
	Create(ctx context.Context, token, username string, ttl time.Duration) error
	Get(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

type memorySession struct {
	username  string
	expiresAt time.Time
}

// MemorySessionStore 进程内会话存储
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

// NewMemorySessionStore 创建进程内会话存储
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]memorySession), now: time.Now}
}

// Create 保存会话
func (s *MemorySessionStore) Create(_ context.Context, token, username string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	s.sessions[token] = memorySession{username: username, expiresAt: s.now().Add(ttl)}
	return nil
}

// Get 获取会话对应的用户名
func (s *MemorySessionStore) Get(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return "", ErrSessionNotFound
	}
	if !s.now().Before(sess.expiresAt) {
		delete(s.sessions, token)
		return "", ErrSessionNotFound
	}
	return sess.username, nil
}

// Delete 删除会话
func (s *MemorySessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// pruneLocked 清理过期会话
func (s *MemorySessionStore) pruneLocked() {
	now := s.now()
	for token, sess := range s.sessions {
		if !now.Before(sess.expiresAt) {
			delete(s.sessions, token)
		}
	}
}

// RedisSessionStore 基于Redis的会话存储
type RedisSessionStore struct {
	client *redis.Client
	prefix string
}

// NewRedisSessionStore 创建Redis会话存储
func NewRedisSessionStore(client *redis.Client, prefix string) *RedisSessionStore {
	return &RedisSessionStore{client: client, prefix: prefix + "session:"}
}

// Create 保存会话
func (s *RedisSessionStore) Create(ctx context.Context, token, username string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+token, username, ttl).Err()
}

// Get 获取会话对应的用户名
func (s *RedisSessionStore) Get(ctx context.Context, token string) (string, error) {
	username, err := s.client.Get(ctx, s.prefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSessionNotFound
	}
	return username, err
}

// Delete 删除会话
func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.prefix+token).Err()
}

var (
	_ SessionStore = (*MemorySessionStore)(nil)
	_ SessionStore = (*RedisSessionStore)(nil)
)
