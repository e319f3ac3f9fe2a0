package library

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"recipe-studio/internal/api/handlers"
	"recipe-studio/internal/api/middleware"
	libraryService "recipe-studio/internal/core/library"
	"recipe-studio/internal/core/recipe"
	"recipe-studio/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// MealPlanRequest 加入餐點計畫
type MealPlanRequest struct {
	Date     string                 `json:"date" binding:"required"`
	MealType string                 `json:"mealType" binding:"required"`
	Recipe   map[string]interface{} `json:"recipe" binding:"required"`
}

// ItemRequest 購物清單項目名稱
type ItemRequest struct {
	Name string `json:"name" binding:"required,max=200"`
}

// Handler 客戶端資料處理程序
type Handler struct {
	library *libraryService.Service
}

// NewHandler 創建新的客戶端資料處理程序
func NewHandler(library *libraryService.Service) *Handler {
	return &Handler{library: library}
}

// HandleListSaved 列出收藏
func (h *Handler) HandleListSaved(c *gin.Context) {
	recipes, err := h.library.ListSaved(c.Request.Context(), middleware.ClientID(c))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// HandleSave 收藏食譜，請求體經過食譜驗證
func (h *Handler) HandleSave(c *gin.Context) {
	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		handlers.RespondError(c, common.ErrInvalidRequest)
		return
	}
	r, err := recipe.Validate(raw)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	added, err := h.library.SaveRecipe(c.Request.Context(), middleware.ClientID(c), *r)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"saved": added, "recipe": r})
}

// HandleDeleteSaved 依名稱刪除收藏
func (h *Handler) HandleDeleteSaved(c *gin.Context) {
	if err := h.library.DeleteSaved(c.Request.Context(), middleware.ClientID(c), c.Param("name")); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleGetMealPlan 返回餐點計畫與指定週（預設本週）的日期
func (h *Handler) HandleGetMealPlan(c *gin.Context) {
	ref := time.Now()
	if week := c.Query("week"); week != "" {
		t, err := time.Parse(libraryService.DateLayout, week)
		if err != nil {
			handlers.RespondError(c, common.NewValidationErrorf("week", "week must be YYYY-MM-DD"))
			return
		}
		ref = t
	}

	plan, err := h.library.GetMealPlan(c.Request.Context(), middleware.ClientID(c))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"plan":      plan,
		"week":      libraryService.WeekDates(ref),
		"mealTypes": libraryService.MealTypes,
	})
}

// HandleAddToMealPlan 加入餐點計畫
func (h *Handler) HandleAddToMealPlan(c *gin.Context) {
	var req MealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondError(c, common.ErrInvalidRequest)
		return
	}
	r, err := recipe.Validate(req.Recipe)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	added, err := h.library.AddToMealPlan(c.Request.Context(), middleware.ClientID(c), req.Date, req.MealType, *r)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}

// HandleRemoveFromMealPlan 從餐點計畫移除，參數為 date、mealType、name
func (h *Handler) HandleRemoveFromMealPlan(c *gin.Context) {
	err := h.library.RemoveFromMealPlan(c.Request.Context(), middleware.ClientID(c),
		c.Query("date"), c.Query("mealType"), c.Query("name"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleGenerateShoppingList 由餐點計畫產生購物清單
func (h *Handler) HandleGenerateShoppingList(c *gin.Context) {
	items, err := h.library.GenerateShoppingList(c.Request.Context(), middleware.ClientID(c))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// HandleGetShoppingList 返回購物清單
func (h *Handler) HandleGetShoppingList(c *gin.Context) {
	list, err := h.library.GetShoppingList(c.Request.Context(), middleware.ClientID(c))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// HandleAddItem 新增購物清單項目
func (h *Handler) HandleAddItem(c *gin.Context) {
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondError(c, common.ErrInvalidRequest)
		return
	}
	item, err := h.library.AddItem(c.Request.Context(), middleware.ClientID(c), req.Name)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// HandleRemoveItem 依索引移除項目
func (h *Handler) HandleRemoveItem(c *gin.Context) {
	index, err := strconv.Atoi(strings.TrimSpace(c.Param("index")))
	if err != nil {
		handlers.RespondError(c, common.NewValidationErrorf("index", "index must be an integer"))
		return
	}
	item, err := h.library.RemoveItem(c.Request.Context(), middleware.ClientID(c), index)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// HandleToggleItem 切換勾選狀態
func (h *Handler) HandleToggleItem(c *gin.Context) {
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondError(c, common.ErrInvalidRequest)
		return
	}
	checked, err := h.library.ToggleItem(c.Request.Context(), middleware.ClientID(c), req.Name)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": req.Name, "checked": checked})
}

// HandleClearChecked 移除已勾選項目
func (h *Handler) HandleClearChecked(c *gin.Context) {
	items, err := h.library.ClearChecked(c.Request.Context(), middleware.ClientID(c))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
