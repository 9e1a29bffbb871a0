package blob

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

const createBlobsTable = `
	CREATE TABLE IF NOT EXISTS blobs (
		name       VARCHAR(255) NOT NULL PRIMARY KEY,
		data       LONGBLOB     NOT NULL,
		updated_at DATETIME(3)  NOT NULL
	) DEFAULT CHARSET = utf8mb4
`

// MySQLStore 将数据块保存在blobs表中
type MySQLStore struct {
	db *sqlx.DB
}

// NewMySQLStore 创建MySQL存储，并确保blobs表存在
func NewMySQLStore(ctx context.Context, db *sqlx.DB) (*MySQLStore, error) {
	if _, err := db.ExecContext(ctx, createBlobsTable); err != nil {
		return nil, fmt.Errorf("blob: create table: %w", err)
	}
	return &MySQLStore{db: db}, nil
}

func (s *MySQLStore) Put(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	query := `
		INSERT INTO blobs (name, data, updated_at) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE data = VALUES(data), updated_at = VALUES(updated_at)
	`
	if _, err := s.db.ExecContext(ctx, query, key, data, time.Now()); err != nil {
		return fmt.Errorf("blob: mysql put: %w", err)
	}
	return nil
}

func (s *MySQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.GetContext(ctx, &data, "SELECT data FROM blobs WHERE name = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("blob: mysql get: %w", err)
	}
	return data, nil
}

func (s *MySQLStore) List(ctx context.Context, prefix string) ([]string, error) {
	keys := make([]string, 0)
	query := `SELECT name FROM blobs WHERE name LIKE ? ESCAPE '!' ORDER BY name`
	if err := s.db.SelectContext(ctx, &keys, query, escapeLike(prefix)+"%"); err != nil {
		return nil, fmt.Errorf("blob: mysql list: %w", err)
	}
	return keys, nil
}

func (s *MySQLStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM blobs WHERE name = ?", key); err != nil {
		return fmt.Errorf("blob: mysql delete: %w", err)
	}
	return nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}

var _ Store = (*MySQLStore)(nil)
