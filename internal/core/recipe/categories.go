package recipe

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCategoryNotFound 分類不存在
var ErrCategoryNotFound = errors.New("recipe: category not found")

// Category 食譜分類
type Category struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Subcategories []string `json:"subcategories"`
}

var categories = []Category{
	{
		ID:            "international",
		Name:          "International Cuisine",
		Description:   "Explore dishes from around the world",
		Subcategories: []string{"Italian", "Asian", "Mexican", "Mediterranean", "Indian"},
	},
	{
		ID:            "gluten-free",
		Name:          "Gluten-Free",
		Description:   "Delicious recipes without gluten",
		Subcategories: []string{"Breads", "Pasta", "Desserts", "Snacks"},
	},
	{
		ID:            "vegetarian",
		Name:          "Vegetarian",
		Description:   "Plant-based goodness",
		Subcategories: []string{"Mains", "Salads", "Soups", "Sides"},
	},
	{
		ID:            "healthy",
		Name:          "Healthy",
		Description:   "Nutritious and balanced meals",
		Subcategories: []string{"Low-Calorie", "High-Protein", "Low-Carb", "Superfoods"},
	},
	{
		ID:            "quick",
		Name:          "Quick & Easy",
		Description:   "30 minutes or less recipes",
		Subcategories: []string{"5-Ingredient", "One-Pot", "No-Cook", "Make-Ahead"},
	},
	{
		ID:            "family",
		Name:          "Family-Friendly",
		Description:   "Kid-approved recipes",
		Subcategories: []string{"Lunch Box", "After School", "Weekend Fun", "Party Food"},
	},
	{
		ID:            "breakfast",
		Name:          "Breakfast & Brunch",
		Description:   "Start your day right",
		Subcategories: []string{"Quick Breakfast", "Eggs", "Pancakes", "Smoothies"},
	},
	{
		ID:            "special",
		Name:          "Special Occasions",
		Description:   "Celebrate with these recipes",
		Subcategories: []string{"Holiday", "Birthday", "Dinner Party", "BBQ"},
	},
}

// Categories 返回所有分類的副本
func Categories() []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = c.clone()
	}
	return out
}

// FindCategory 依 ID 查詢分類
func FindCategory(id string) (Category, error) {
	for _, c := range categories {
		if c.ID == id {
			return c.clone(), nil
		}
	}
	return Category{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
}

// Prompt 分類生成用的輸入文字
func (c Category) Prompt(subcategory string) string {
	subcategory = strings.TrimSpace(subcategory)
	if subcategory == "" {
		return c.Name + " recipe"
	}
	return subcategory + " " + c.Name + " recipe"
}

// HasSubcategory 檢查子分類是否存在（不分大小寫）
func (c Category) HasSubcategory(name string) bool {
	for _, s := range c.Subcategories {
		if strings.EqualFold(s, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

func (c Category) clone() Category {
	out := c
	out.Subcategories = cloneStrings(c.Subcategories)
	return out
}
