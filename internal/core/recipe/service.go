package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"recipe-studio/internal/core/ai/completion"
	"recipe-studio/internal/core/image"
	"recipe-studio/internal/pkg/common"

	"go.uber.org/zap"
)

// 產生結果標籤
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
)

// 備援原因
const (
	ReasonEmptyInput    = "empty_input"
	ReasonMissingAPIKey = "missing_api_key"
	ReasonCanceled      = "canceled"
	ReasonParse         = "parse"
)

// ImageResolver 依名稱找圖片，永不失敗
type ImageResolver interface {
	Resolve(ctx context.Context, name string) string
}

// Recorder 記錄產生結果，可為 nil
type Recorder interface {
	RecordGeneration(outcome, reason string)
}

// Service 食譜產生流程：completion → 解析 → 驗證 → 圖片，任何失敗都回到備援食譜
type Service struct {
	completer completion.Completer
	images    ImageResolver
	recorder  Recorder
}

// NewService 創建新的食譜服務
func NewService(completer completion.Completer, images ImageResolver, recorder Recorder) *Service {
	return &Service{
		completer: completer,
		images:    images,
		recorder:  recorder,
	}
}

// GenerateRecipe 由自由文字產生一份食譜，永不失敗
func (s *Service) GenerateRecipe(ctx context.Context, userInput string) *Recipe {
	input := strings.TrimSpace(userInput)
	if input == "" {
		return s.fallback(ctx, input, ReasonEmptyInput, nil)
	}

	raw, err := s.complete(ctx, input)
	if err != nil {
		return s.fallback(ctx, input, fallbackReason(ctx, err), err)
	}

	parsed, err := ParseRecipeText(raw)
	if err != nil {
		return s.fallback(ctx, input, ReasonParse, err)
	}

	r, err := Validate(parsed)
	if err != nil {
		return s.fallback(ctx, input, common.ErrorKind(err), err)
	}

	r.ImageSrc = s.resolveImage(ctx, r.Name)
	s.record(OutcomeSuccess, "")
	common.LogInfo("食譜產生成功",
		zap.String("name", r.Name),
		zap.Int("ingredients", len(r.Ingredients)),
	)
	return r
}

// SearchRecipes 產生基礎食譜並衍生快速與豪華兩個版本
func (s *Service) SearchRecipes(ctx context.Context, query string) []Recipe {
	base := s.GenerateRecipe(ctx, query)
	return []Recipe{*base, QuickVariant(*base), DeluxeVariant(*base)}
}

// AdvancedSearch 依條件依序產生多份食譜
func (s *Service) AdvancedSearch(ctx context.Context, filters SearchFilters) ([]Recipe, error) {
	f := filters.Normalize()
	if err := f.Validate(); err != nil {
		return nil, err
	}

	prompt := f.Prompt()
	results := make([]Recipe, 0, f.Count)
	for i := 0; i < f.Count; i++ {
		results = append(results, *s.GenerateRecipe(ctx, prompt))
	}

	common.LogInfo("進階搜尋完成", zap.Int("count", len(results)))
	return results, nil
}

// GenerateForCategory 產生指定分類（與子分類）的食譜
func (s *Service) GenerateForCategory(ctx context.Context, categoryID, subcategory string) (*Recipe, error) {
	category, err := FindCategory(categoryID)
	if err != nil {
		return nil, err
	}
	if subcategory != "" && !category.HasSubcategory(subcategory) {
		return nil, common.NewValidationErrorf("subcategory", "unknown subcategory %q for %s", subcategory, category.ID)
	}

	r := s.GenerateRecipe(ctx, category.Prompt(subcategory))
	return r, nil
}

func (s *Service) complete(ctx context.Context, input string) (raw string, err error) {
	if s.completer == nil {
		return "", completion.ErrMissingAPIKey
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("completion panicked: %v", rec)
		}
	}()
	return s.completer.Complete(ctx, input)
}

// fallback 合成備援食譜並附上圖片
func (s *Service) fallback(ctx context.Context, input, reason string, err error) *Recipe {
	common.LogFallback(reason, err)
	s.record(OutcomeFallback, reason)

	r := MockRecipe(input)
	r.ImageSrc = s.resolveImage(ctx, r.Name)
	return &r
}

// resolveImage 圖片查詢失敗或 panic 時使用預設圖片
func (s *Service) resolveImage(ctx context.Context, name string) (src string) {
	src = image.DefaultImage
	if s.images == nil {
		return src
	}
	defer func() {
		if rec := recover(); rec != nil {
			common.LogError("圖片解析器 panic", zap.Any("panic", rec))
			src = image.DefaultImage
		}
	}()

	if resolved := strings.TrimSpace(s.images.Resolve(ctx, name)); resolved != "" {
		return resolved
	}
	return image.DefaultImage
}

func (s *Service) record(outcome, reason string) {
	if s.recorder != nil {
		s.recorder.RecordGeneration(outcome, reason)
	}
}

// fallbackReason 將 completion 錯誤轉為指標標籤
func fallbackReason(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, completion.ErrMissingAPIKey):
		return ReasonMissingAPIKey
	case ctx.Err() != nil && !common.IsTimeoutError(err):
		return ReasonCanceled
	default:
		return common.ErrorKind(err)
	}
}
