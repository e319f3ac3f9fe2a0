package recipe

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const mockNameWords = 3

// keywordRule 依輸入關鍵字調整備援食譜
type keywordRule struct {
	keywords []string
	apply    func(r *Recipe)
}

// 規則依序套用，後者可覆寫前者
var keywordRules = []keywordRule{
	{
		keywords: []string{"dessert", "desserts", "cake", "cakes", "sweet", "sweets"},
		apply: func(r *Recipe) {
			r.Tags = appendTags(r.Tags, "Dessert")
			r.NutritionalInfo = NutritionalInfo{Calories: "420 kcal", Protein: "6g", Carbs: "55g", Fat: "18g"}
		},
	},
	{
		keywords: []string{"vegan"},
		apply: func(r *Recipe) {
			r.Tags = appendTags(r.Tags, "Vegan", "Plant-Based")
			r.Ingredients[0] = "2 cups chickpeas or firm tofu"
		},
	},
	{
		keywords: []string{"vegetarian"},
		apply: func(r *Recipe) {
			r.Tags = appendTags(r.Tags, "Vegetarian")
		},
	},
	{
		keywords: []string{"quick", "fast", "easy"},
		apply: func(r *Recipe) {
			r.CookingTime = "15 minutes"
			r.Difficulty = "Easy"
			r.Tags = appendTags(r.Tags, "Under 30 Minutes")
		},
	},
	{
		keywords: []string{"healthy", "light"},
		apply: func(r *Recipe) {
			r.Tags = appendTags(r.Tags, "Healthy")
			r.NutritionalInfo.Calories = "250 kcal"
		},
	},
	{
		keywords: []string{"spicy"},
		apply: func(r *Recipe) {
			r.Tags = appendTags(r.Tags, "Spicy")
			r.Ingredients = append(r.Ingredients, "1 teaspoon chili flakes")
		},
	},
	{
		keywords: []string{"gluten-free", "gluten free"},
		apply: func(r *Recipe) {
			r.Tags = appendTags(r.Tags, "Gluten-Free")
		},
	},
}

// MockRecipe 由使用者輸入確定性地合成備援食譜
func MockRecipe(userInput string) Recipe {
	r := Recipe{
		Name:        mockName(userInput),
		Tags:        []string{"Quick", "Easy", "30-Minute Recipe"},
		CookingTime: DefaultCookingTime,
		Difficulty:  DefaultDifficulty,
		Servings:    DefaultServings,
		Ingredients: []string{
			"2 cups main ingredient",
			"1 tablespoon olive oil",
			"1 onion, chopped",
			"2 cloves garlic, minced",
			"Salt and pepper to taste",
		},
		Instructions: []string{
			"Prepare all ingredients.",
			"Heat oil in a pan over medium heat.",
			"Add onions and cook until translucent.",
			"Add garlic and cook for another minute.",
			"Add main ingredients and cook until done.",
			"Season with salt and pepper and serve.",
		},
		NutritionalInfo: NutritionalInfo{
			Calories: "350 kcal",
			Protein:  "15g",
			Carbs:    "30g",
			Fat:      "15g",
		},
		Tips: []string{
			"Prepare ingredients in advance for quicker cooking",
			"This recipe can be stored in the refrigerator for up to 3 days",
		},
	}

	lower := strings.ToLower(userInput)
	for _, rule := range keywordRules {
		if containsAny(lower, rule.keywords) {
			rule.apply(&r)
		}
	}

	return r
}

// mockName 取前三個字，首字母大寫，加上 " Recipe"
func mockName(userInput string) string {
	words := strings.Fields(userInput)
	if len(words) == 0 {
		return "Simple Recipe"
	}
	if len(words) > mockNameWords {
		words = words[:mockNameWords]
	}

	name := strings.Join(words, " ")
	first, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(first)) + name[size:] + " Recipe"
}

// containsAny 以整字比對關鍵字，避免 breakfast 命中 fast
func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		for offset := 0; offset < len(s); {
			i := strings.Index(s[offset:], k)
			if i < 0 {
				break
			}
			start, end := offset+i, offset+i+len(k)
			if !letterBefore(s, start) && !letterAt(s, end) {
				return true
			}
			offset = start + 1
		}
	}
	return false
}

func letterBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return unicode.IsLetter(r)
}

func letterAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsLetter(r)
}

// appendTags 附加尚未存在的標籤
func appendTags(tags []string, extra ...string) []string {
	for _, t := range extra {
		found := false
		for _, existing := range tags {
			if existing == t {
				found = true
				break
			}
		}
		if !found {
			tags = append(tags, t)
		}
	}
	return tags
}
