package recipe

import (
	"errors"
	"fmt"
	"strings"

	"recipe-studio/internal/pkg/common"

	"github.com/go-playground/validator/v10"
)

// 進階搜尋預設值
const (
	DefaultSearchCount = 3
	MaxSearchCount     = 5
)

// 進階搜尋可選值
var (
	DietaryOptions    = []string{"vegetarian", "vegan", "gluten-free", "dairy-free", "keto", "low-carb", "paleo"}
	CuisineOptions    = []string{"Any", "Italian", "Mexican", "Chinese", "Japanese", "Indian", "Thai", "Mediterranean", "American", "French", "Middle Eastern"}
	MealTypeOptions   = []string{"Any", "Breakfast", "Lunch", "Dinner", "Snack", "Dessert", "Appetizer"}
	DifficultyOptions = []string{"Any", "Easy", "Medium", "Hard"}
)

// SearchFilters 進階搜尋條件
type SearchFilters struct {
	Query             string   `json:"query" binding:"max=500"`
	Include           []string `json:"include" binding:"max=20,dive,max=100"`
	Exclude           []string `json:"exclude" binding:"max=20,dive,max=100"`
	Dietary           []string `json:"dietary" binding:"max=7,dive,dietary"`
	Cuisine           string   `json:"cuisine" binding:"omitempty,cuisine"`
	MealType          string   `json:"mealType" binding:"omitempty,mealtype"`
	MaxCookingMinutes int      `json:"maxCookingMinutes" binding:"min=0,max=1440"`
	Difficulty        string   `json:"difficulty" binding:"omitempty,oneof=Any Easy Medium Hard"`
	MaxCalories       int      `json:"maxCalories" binding:"min=0,max=5000"`
	Count             int      `json:"count"`
}

// RegisterValidations 註冊 dietary、cuisine、mealtype 自訂規則
func RegisterValidations(v *validator.Validate) error {
	rules := map[string][]string{
		"dietary":  DietaryOptions,
		"cuisine":  CuisineOptions,
		"mealtype": MealTypeOptions,
	}
	for tag, options := range rules {
		if err := v.RegisterValidation(tag, oneOf(options)); err != nil {
			return fmt.Errorf("failed to register %s validation: %w", tag, err)
		}
	}
	return nil
}

func oneOf(options []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, o := range options {
			if value == o {
				return true
			}
		}
		return false
	}
}

var filterValidator = func() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}()

// Validate 檢查條件，返回第一個不合法欄位
func (f SearchFilters) Validate() error {
	err := filterValidator.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := fe.Field()
		if i := strings.IndexByte(field, '['); i > 0 {
			field = field[:i]
		}
		return common.NewValidationErrorf(field, "invalid %s: failed %q rule", fe.Field(), fe.Tag())
	}
	return common.NewValidationErrorf("filters", "invalid filters: %v", err)
}

// Normalize 去除空白並套用次數預設值
func (f SearchFilters) Normalize() SearchFilters {
	n := f
	n.Query = strings.TrimSpace(f.Query)
	n.Include = trimAll(f.Include)
	n.Exclude = trimAll(f.Exclude)
	n.Dietary = trimAll(f.Dietary)
	n.Cuisine = strings.TrimSpace(f.Cuisine)
	n.MealType = strings.TrimSpace(f.MealType)
	n.Difficulty = strings.TrimSpace(f.Difficulty)

	switch {
	case n.Count <= 0:
		n.Count = DefaultSearchCount
	case n.Count > MaxSearchCount:
		n.Count = MaxSearchCount
	}
	return n
}

// Prompt 組合搜尋條件提示，空值與 Any 略過
func (f SearchFilters) Prompt() string {
	lines := []string{"Generate a recipe that matches these criteria:"}
	add := func(format string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	if f.Query != "" {
		add("Recipe should be related to: %s", f.Query)
	}
	if len(f.Include) > 0 {
		add("Must include these ingredients: %s", strings.Join(f.Include, ", "))
	}
	if len(f.Exclude) > 0 {
		add("Must NOT include these ingredients: %s", strings.Join(f.Exclude, ", "))
	}
	if len(f.Dietary) > 0 {
		add("Dietary restrictions: %s", strings.Join(f.Dietary, ", "))
	}
	if isSet(f.Cuisine) {
		add("Cuisine type: %s", f.Cuisine)
	}
	if isSet(f.MealType) {
		add("Meal type: %s", f.MealType)
	}
	if f.MaxCookingMinutes > 0 {
		add("Maximum cooking time: %d minutes", f.MaxCookingMinutes)
	}
	if isSet(f.Difficulty) {
		add("Difficulty level: %s", f.Difficulty)
	}
	if f.MaxCalories > 0 {
		add("Maximum calories per serving: %d calories", f.MaxCalories)
	}

	return strings.Join(lines, "\n")
}

func isSet(v string) bool {
	return v != "" && v != "Any"
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
