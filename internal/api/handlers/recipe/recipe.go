package recipe

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"recipe-studio/internal/api/handlers"
	recipeService "recipe-studio/internal/core/recipe"
	"recipe-studio/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// GenerateRequest 由自由文字產生食譜
type GenerateRequest struct {
	UserInput string `json:"userInput"`
}

// CategoryGenerateRequest 分類生成的子分類，可省略
type CategoryGenerateRequest struct {
	Subcategory string `json:"subcategory" binding:"max=100"`
}

// SearchResponse 多份食譜的回應
type SearchResponse struct {
	Recipes []recipeService.Recipe `json:"recipes"`
}

// Handler 食譜處理程序
type Handler struct {
	recipeService *recipeService.Service
}

// NewHandler 創建新的食譜處理程序
func NewHandler(recipeService *recipeService.Service) *Handler {
	return &Handler{recipeService: recipeService}
}

// HandleGenerate 產生一份食譜；上游失敗時仍回應備援食譜
func (h *Handler) HandleGenerate(c *gin.Context) {
	requestID := requestid.Get(c)

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		handlers.RespondError(c, common.ErrInvalidRequest)
		return
	}
	if strings.TrimSpace(req.UserInput) == "" {
		handlers.RespondError(c, common.ErrEmptyInput)
		return
	}

	common.LogInfo("開始處理食譜生成請求",
		zap.String("request_id", requestID),
		zap.String("client_ip", c.ClientIP()),
	)

	recipe := h.recipeService.GenerateRecipe(c.Request.Context(), req.UserInput)
	c.JSON(http.StatusOK, recipe)
}

// HandleSearch 產生基礎食譜與兩個變化版本
func (h *Handler) HandleSearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		handlers.RespondError(c, common.ErrEmptyInput)
		return
	}

	recipes := h.recipeService.SearchRecipes(c.Request.Context(), query)
	c.JSON(http.StatusOK, SearchResponse{Recipes: recipes})
}

// HandleAdvancedSearch 依條件產生多份食譜
func (h *Handler) HandleAdvancedSearch(c *gin.Context) {
	var filters recipeService.SearchFilters
	if err := c.ShouldBindJSON(&filters); err != nil {
		handlers.RespondError(c, bindingError(err))
		return
	}

	recipes, err := h.recipeService.AdvancedSearch(c.Request.Context(), filters)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SearchResponse{Recipes: recipes})
}

// HandleListCategories 列出所有分類
func (h *Handler) HandleListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": recipeService.Categories()})
}

// HandleGetCategory 取得單一分類
func (h *Handler) HandleGetCategory(c *gin.Context) {
	category, err := recipeService.FindCategory(c.Param("id"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// HandleCategoryGenerate 產生指定分類的食譜，請求體可為空
func (h *Handler) HandleCategoryGenerate(c *gin.Context) {
	var req CategoryGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		handlers.RespondError(c, bindingError(err))
		return
	}

	recipe, err := h.recipeService.GenerateForCategory(c.Request.Context(), c.Param("id"), req.Subcategory)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// bindingError 將綁定錯誤轉為欄位驗證錯誤
func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return common.NewValidationErrorf(fe.Field(), "invalid %s: failed %q rule", fe.Field(), fe.Tag())
	}
	return common.ErrInvalidRequest
}
