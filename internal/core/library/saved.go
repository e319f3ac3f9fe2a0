package library

import (
	"context"
	"strings"

	"recipe-studio/internal/core/recipe"
	"recipe-studio/internal/pkg/common"

	"go.uber.org/zap"
)

// ListSaved 返回收藏的食譜
func (s *Service) ListSaved(ctx context.Context, clientID string) ([]recipe.Recipe, error) {
	if err := checkClientID(clientID); err != nil {
		return nil, err
	}
	return s.listSaved(ctx, clientID)
}

func (s *Service) listSaved(ctx context.Context, clientID string) ([]recipe.Recipe, error) {
	recipes := []recipe.Recipe{}
	if err := s.load(ctx, clientID, keySavedRecipes, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// SaveRecipe 收藏食譜，同名食譜已存在時不重複加入
func (s *Service) SaveRecipe(ctx context.Context, clientID string, r recipe.Recipe) (bool, error) {
	if err := checkClientID(clientID); err != nil {
		return false, err
	}
	if strings.TrimSpace(r.Name) == "" {
		return false, common.NewValidationError("name")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recipes, err := s.listSaved(ctx, clientID)
	if err != nil {
		return false, err
	}
	for _, saved := range recipes {
		if saved.Name == r.Name {
			return false, nil
		}
	}

	recipes = append(recipes, r.Clone())
	if err := s.save(ctx, clientID, keySavedRecipes, recipes); err != nil {
		return false, err
	}

	common.LogInfo("食譜已收藏", zap.String("name", r.Name), zap.Int("total", len(recipes)))
	return true, nil
}

// DeleteSaved 依名稱刪除收藏
func (s *Service) DeleteSaved(ctx context.Context, clientID, name string) error {
	if err := checkClientID(clientID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recipes, err := s.listSaved(ctx, clientID)
	if err != nil {
		return err
	}

	kept := recipes[:0]
	for _, r := range recipes {
		if r.Name != name {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(recipes) {
		return ErrNotFound
	}
	return s.save(ctx, clientID, keySavedRecipes, kept)
}
