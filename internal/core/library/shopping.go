package library

import (
	"context"
	"regexp"
	"strings"

	"recipe-studio/internal/pkg/common"
)

// CategoryOther 未分類項目
const CategoryOther = "Other"

// ShoppingItem 購物清單項目
type ShoppingItem struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// ShoppingList 購物清單與勾選狀態
type ShoppingList struct {
	Items   []ShoppingItem  `json:"items"`
	Checked map[string]bool `json:"checked"`
}

var categoryRules = []struct {
	category string
	pattern  *regexp.Regexp
}{
	{"Dairy", regexp.MustCompile(`milk|cheese|yogurt|cream|butter`)},
	{"Meat & Seafood", regexp.MustCompile(`beef|chicken|pork|fish|salmon|tuna|meat|steak`)},
	{"Fruits", regexp.MustCompile(`apple|banana|orange|grape|berry|fruit`)},
	{"Vegetables", regexp.MustCompile(`carrot|onion|potato|tomato|lettuce|spinach|vegetable|pepper|garlic`)},
	{"Bakery", regexp.MustCompile(`bread|bagel|roll|bun`)},
	{"Pantry", regexp.MustCompile(`pasta|rice|cereal|flour|sugar|salt`)},
	{"Condiments", regexp.MustCompile(`oil|vinegar|sauce|dressing|condiment`)},
	{"Snacks & Sweets", regexp.MustCompile(`cookie|cake|ice cream|chocolate|candy`)},
	{"Beverages", regexp.MustCompile(`water|soda|juice|coffee|tea`)},
}

// Categorize 依關鍵字判斷項目分類，第一個符合的規則勝出
func Categorize(item string) string {
	lower := strings.ToLower(item)
	for _, rule := range categoryRules {
		if rule.pattern.MatchString(lower) {
			return rule.category
		}
	}
	return CategoryOther
}

// NewShoppingItem 建立已分類的項目
func NewShoppingItem(name string) ShoppingItem {
	name = strings.TrimSpace(name)
	return ShoppingItem{Name: name, Category: Categorize(name)}
}

// GetShoppingList 返回購物清單
func (s *Service) GetShoppingList(ctx context.Context, clientID string) (ShoppingList, error) {
	if err := checkClientID(clientID); err != nil {
		return ShoppingList{}, err
	}
	return s.shoppingList(ctx, clientID)
}

// shoppingList 舊格式的字串陣列會轉成已分類項目
func (s *Service) shoppingList(ctx context.Context, clientID string) (ShoppingList, error) {
	var raw []interface{}
	if err := s.load(ctx, clientID, keyShoppingList, &raw); err != nil {
		return ShoppingList{}, err
	}

	list := ShoppingList{Items: make([]ShoppingItem, 0, len(raw)), Checked: map[string]bool{}}
	for _, v := range raw {
		switch item := v.(type) {
		case string:
			list.Items = append(list.Items, NewShoppingItem(item))
		case map[string]interface{}:
			name, _ := item["name"].(string)
			category, _ := item["category"].(string)
			if strings.TrimSpace(name) == "" {
				continue
			}
			if category == "" {
				category = Categorize(name)
			}
			list.Items = append(list.Items, ShoppingItem{Name: name, Category: category})
		}
	}

	if err := s.load(ctx, clientID, keyCheckedItems, &list.Checked); err != nil {
		return ShoppingList{}, err
	}
	if list.Checked == nil {
		list.Checked = map[string]bool{}
	}
	return list, nil
}

func (s *Service) saveShoppingList(ctx context.Context, clientID string, list ShoppingList) error {
	if err := s.save(ctx, clientID, keyShoppingList, list.Items); err != nil {
		return err
	}
	return s.save(ctx, clientID, keyCheckedItems, list.Checked)
}

// AddItem 新增項目並自動分類
func (s *Service) AddItem(ctx context.Context, clientID, name string) (ShoppingItem, error) {
	if err := checkClientID(clientID); err != nil {
		return ShoppingItem{}, err
	}
	item := NewShoppingItem(name)
	if item.Name == "" {
		return ShoppingItem{}, common.NewValidationError("name")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.shoppingList(ctx, clientID)
	if err != nil {
		return ShoppingItem{}, err
	}
	list.Items = append(list.Items, item)
	if err := s.save(ctx, clientID, keyShoppingList, list.Items); err != nil {
		return ShoppingItem{}, err
	}
	return item, nil
}

// RemoveItem 依索引移除項目，並清除其勾選狀態
func (s *Service) RemoveItem(ctx context.Context, clientID string, index int) (ShoppingItem, error) {
	if err := checkClientID(clientID); err != nil {
		return ShoppingItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.shoppingList(ctx, clientID)
	if err != nil {
		return ShoppingItem{}, err
	}
	if index < 0 || index >= len(list.Items) {
		return ShoppingItem{}, ErrNotFound
	}

	removed := list.Items[index]
	list.Items = append(list.Items[:index], list.Items[index+1:]...)
	delete(list.Checked, removed.Name)

	if err := s.saveShoppingList(ctx, clientID, list); err != nil {
		return ShoppingItem{}, err
	}
	return removed, nil
}

// ToggleItem 切換項目勾選狀態，返回新的狀態
func (s *Service) ToggleItem(ctx context.Context, clientID, name string) (bool, error) {
	if err := checkClientID(clientID); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.shoppingList(ctx, clientID)
	if err != nil {
		return false, err
	}

	found := false
	for _, item := range list.Items {
		if item.Name == name {
			found = true
			break
		}
	}
	if !found {
		return false, ErrNotFound
	}

	checked := !list.Checked[name]
	if checked {
		list.Checked[name] = true
	} else {
		delete(list.Checked, name)
	}
	if err := s.save(ctx, clientID, keyCheckedItems, list.Checked); err != nil {
		return false, err
	}
	return checked, nil
}

// ClearChecked 移除所有已勾選項目，返回剩下的清單
func (s *Service) ClearChecked(ctx context.Context, clientID string) ([]ShoppingItem, error) {
	if err := checkClientID(clientID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.shoppingList(ctx, clientID)
	if err != nil {
		return nil, err
	}

	remaining := make([]ShoppingItem, 0, len(list.Items))
	for _, item := range list.Items {
		if !list.Checked[item.Name] {
			remaining = append(remaining, item)
		}
	}

	list.Items = remaining
	list.Checked = map[string]bool{}
	if err := s.saveShoppingList(ctx, clientID, list); err != nil {
		return nil, err
	}
	return remaining, nil
}
