package storage

import (
	"context"
	"errors"
	"fmt"

	"recipe-studio/internal/infrastructure/config"
)

// ErrNotFound 鍵不存在或已過期
var ErrNotFound = errors.New("storage: key not found")

// Store 字串值的鍵值儲存，取代瀏覽器端的 localStorage
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Pinger 可檢查連線的儲存
type Pinger interface {
	Ping(ctx context.Context) error
}

// New 依設定建立儲存
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryStore(cfg), nil
	case "redis":
		return NewRedisStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
