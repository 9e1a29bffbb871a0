// Package blob 提供按名称读写字节块的存储后端，快照持久化使用。
package blob

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound 指定名称的数据块不存在
var ErrNotFound = errors.New("blob not found")

// Store 数据块存储
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	// List 返回以prefix开头的全部名称，按名称升序
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
}

// validateKey 名称只能是单层的普通名称
func validateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("blob: invalid key %q", key)
	}
	return nil
}
