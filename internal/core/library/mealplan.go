package library

import (
	"context"
	"sort"
	"strings"
	"time"

	"recipe-studio/internal/core/recipe"
	"recipe-studio/internal/pkg/common"

	"go.uber.org/zap"
)

// DateLayout 餐點計畫的日期格式
const DateLayout = "2006-01-02"

// MealTypes 每天的餐別
var MealTypes = []string{"Breakfast", "Lunch", "Dinner", "Snacks"}

// MealPlan 日期 → 餐別 → 食譜
type MealPlan map[string]map[string][]recipe.Recipe

// WeekDates 返回 t 所在週的週一到週日
func WeekDates(t time.Time) []string {
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset = 6
	}
	monday := time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, t.Location())

	dates := make([]string, 7)
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i).Format(DateLayout)
	}
	return dates
}

func checkSlot(date, mealType string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return common.NewValidationErrorf("date", "date must be YYYY-MM-DD, got %q", date)
	}
	for _, m := range MealTypes {
		if m == mealType {
			return nil
		}
	}
	return common.NewValidationErrorf("mealType", "mealType must be one of %s", strings.Join(MealTypes, ", "))
}

// GetMealPlan 返回餐點計畫
func (s *Service) GetMealPlan(ctx context.Context, clientID string) (MealPlan, error) {
	if err := checkClientID(clientID); err != nil {
		return nil, err
	}
	return s.mealPlan(ctx, clientID)
}

func (s *Service) mealPlan(ctx context.Context, clientID string) (MealPlan, error) {
	plan := MealPlan{}
	if err := s.load(ctx, clientID, keyMealPlan, &plan); err != nil {
		return nil, err
	}
	if plan == nil {
		plan = MealPlan{}
	}
	return plan, nil
}

// AddToMealPlan 加入食譜，同一餐已有同名食譜時略過
func (s *Service) AddToMealPlan(ctx context.Context, clientID, date, mealType string, r recipe.Recipe) (bool, error) {
	if err := checkClientID(clientID); err != nil {
		return false, err
	}
	if err := checkSlot(date, mealType); err != nil {
		return false, err
	}
	if strings.TrimSpace(r.Name) == "" {
		return false, common.NewValidationError("name")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	plan, err := s.mealPlan(ctx, clientID)
	if err != nil {
		return false, err
	}

	day := plan[date]
	if day == nil {
		day = map[string][]recipe.Recipe{}
		plan[date] = day
	}
	for _, existing := range day[mealType] {
		if existing.Name == r.Name {
			return false, nil
		}
	}
	day[mealType] = append(day[mealType], r.Clone())

	if err := s.save(ctx, clientID, keyMealPlan, plan); err != nil {
		return false, err
	}
	common.LogDebug("加入餐點計畫",
		zap.String("date", date),
		zap.String("meal_type", mealType),
		zap.String("name", r.Name),
	)
	return true, nil
}

// RemoveFromMealPlan 移除食譜，並清掉空的餐別與日期
func (s *Service) RemoveFromMealPlan(ctx context.Context, clientID, date, mealType, name string) error {
	if err := checkClientID(clientID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	plan, err := s.mealPlan(ctx, clientID)
	if err != nil {
		return err
	}

	day, ok := plan[date]
	if !ok {
		return ErrNotFound
	}
	recipes := day[mealType]
	kept := make([]recipe.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if r.Name != name {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(recipes) {
		return ErrNotFound
	}

	if len(kept) == 0 {
		delete(day, mealType)
	} else {
		day[mealType] = kept
	}
	if len(day) == 0 {
		delete(plan, date)
	}
	return s.save(ctx, clientID, keyMealPlan, plan)
}

// GenerateShoppingList 以計畫中所有食材取代購物清單
func (s *Service) GenerateShoppingList(ctx context.Context, clientID string) ([]ShoppingItem, error) {
	if err := checkClientID(clientID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	plan, err := s.mealPlan(ctx, clientID)
	if err != nil {
		return nil, err
	}

	items := []ShoppingItem{}
	for _, date := range sortedKeys(plan) {
		day := plan[date]
		for _, mealType := range MealTypes {
			for _, r := range day[mealType] {
				for _, ingredient := range r.Ingredients {
					items = append(items, NewShoppingItem(ingredient))
				}
			}
		}
	}

	if err := s.save(ctx, clientID, keyShoppingList, items); err != nil {
		return nil, err
	}
	common.LogInfo("購物清單已產生", zap.Int("items", len(items)))
	return items, nil
}

func sortedKeys(plan MealPlan) []string {
	keys := make([]string, 0, len(plan))
	for k := range plan {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
