package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"recipe-studio/internal/pkg/common"
	"recipe-studio/internal/storage"

	"go.uber.org/zap"
)

// 每個客戶端的資料鍵
const (
	keySavedRecipes = "savedRecipes"
	keyMealPlan     = "mealPlan"
	keyShoppingList = "shoppingList"
	keyCheckedItems = "checkedItems"
)

// 資料庫錯誤
var (
	ErrNotFound = errors.New("library: item not found")
	ErrStorage  = errors.New("library: storage unavailable")
)

// Service 客戶端的收藏、餐點計畫與購物清單
type Service struct {
	store storage.Store
	mu    sync.Mutex
}

// NewService 創建新的資料庫服務
func NewService(store storage.Store) *Service {
	return &Service{store: store}
}

// Key 組合客戶端資料鍵
func Key(clientID, name string) string {
	return "client:" + clientID + ":" + name
}

func checkClientID(clientID string) error {
	if strings.TrimSpace(clientID) == "" {
		return common.NewValidationError("clientID")
	}
	return nil
}

// load 讀取 JSON 值，不存在或無法解析時保留 dst 的零值
func (s *Service) load(ctx context.Context, clientID, name string, dst interface{}) error {
	key := Key(clientID, name)
	raw, err := s.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: failed to load %s: %v", ErrStorage, name, err)
	}

	if err := common.ParseJSON(raw, dst); err != nil {
		common.LogWarn("無法解析已儲存資料，視為空值",
			zap.String("key", key),
			zap.Error(err),
		)
	}
	return nil
}

func (s *Service) save(ctx context.Context, clientID, name string, v interface{}) error {
	data, err := common.ToJSON(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := s.store.Set(ctx, Key(clientID, name), data); err != nil {
		return fmt.Errorf("%w: failed to save %s: %v", ErrStorage, name, err)
	}
	return nil
}
