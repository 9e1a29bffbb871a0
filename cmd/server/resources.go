package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"

	"fansite/config"
	"fansite/internal/service"
	"fansite/pkg/blob"
	"fansite/pkg/database"
	"fansite/pkg/logger"
	"fansite/pkg/network"
)

// resources 进程持有的外部连接，退出时统一关闭
type resources struct {
	cfg    *config.Config
	logger *logger.Logger

	redis *redis.Client
	db    *sqlx.DB
}

func newResources(cfg *config.Config, logger *logger.Logger) *resources {
	return &resources{cfg: cfg, logger: logger}
}

// redisClient 按需建立Redis连接，存储和会话共用同一个客户端
func (r *resources) redisClient(ctx context.Context) (*redis.Client, error) {
	if r.redis != nil {
		return r.redis, nil
	}
	if err := network.WaitForPort(ctx, r.cfg.Redis.Host, r.cfg.Redis.Port, 10, time.Second); err != nil {
		return nil, err
	}
	client, err := database.NewRedisClient(r.cfg.Redis)
	if err != nil {
		return nil, err
	}
	r.redis = client
	return client, nil
}

// blobStore 根据配置选择快照存储后端
func (r *resources) blobStore(ctx context.Context) (blob.Store, error) {
	storage := r.cfg.Storage
	switch storage.Driver {
	case "", "file":
		return blob.NewLocalStore(storage.DataDir)
	case "memory":
		r.logger.Warn("使用内存存储，重启后数据会丢失")
		return blob.NewMemoryStore(), nil
	case "redis":
		client, err := r.redisClient(ctx)
		if err != nil {
			return nil, err
		}
		return blob.NewRedisStore(client, storage.KeyPrefix), nil
	case "mysql":
		if err := network.WaitForPort(ctx, r.cfg.Database.Host, r.cfg.Database.Port, 10, time.Second); err != nil {
			return nil, err
		}
		db, err := database.NewMySQLConnection(r.cfg.Database)
		if err != nil {
			return nil, err
		}
		r.db = db
		return blob.NewMySQLStore(ctx, db)
	case "s3":
		return blob.NewS3Store(ctx, r.cfg.S3, storage.KeyPrefix)
	default:
		return nil, fmt.Errorf("未知的存储类型: %s", storage.Driver)
	}
}

// sessionStore 根据配置选择会话存储
func (r *resources) sessionStore(ctx context.Context) (service.SessionStore, error) {
	if r.cfg.Admin.SessionStore != "redis" {
		return service.NewMemorySessionStore(), nil
	}
	client, err := r.redisClient(ctx)
	if err != nil {
		return nil, err
	}
	return service.NewRedisSessionStore(client, r.cfg.Storage.KeyPrefix), nil
}

// Close 关闭已建立的连接
func (r *resources) Close() error {
	var err error
	if r.redis != nil {
		err = multierr.Append(err, r.redis.Close())
	}
	if r.db != nil {
		err = multierr.Append(err, r.db.Close())
	}
	return err
}
