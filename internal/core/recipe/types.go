package recipe

// Recipe 食譜，管線唯一的領域物件
type Recipe struct {
	Name            string          `json:"name"`
	Tags            []string        `json:"tags"`
	CookingTime     string          `json:"cookingTime"`
	Difficulty      string          `json:"difficulty"`
	Servings        int             `json:"servings"`
	Ingredients     []string        `json:"ingredients"`
	Instructions    []string        `json:"instructions"`
	NutritionalInfo NutritionalInfo `json:"nutritionalInfo"`
	Tips            []string        `json:"tips"`
	ImageSrc        string          `json:"imageSrc,omitempty"`
}

// NutritionalInfo 營養資訊，四個欄位皆為自由文字
type NutritionalInfo struct {
	Calories string `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
}

// 預設值
const (
	DefaultCookingTime  = "30 minutes"
	DefaultDifficulty   = "Medium"
	DefaultServings     = 4
	NotSpecified        = "Not specified"
	DefaultTag          = "General"
	MissingIngredients  = "Ingredients not specified"
	MissingInstructions = "Instructions not specified"
)

// Clone 深拷貝，衍生版本只改副本
func (r Recipe) Clone() Recipe {
	c := r
	c.Tags = cloneStrings(r.Tags)
	c.Ingredients = cloneStrings(r.Ingredients)
	c.Instructions = cloneStrings(r.Instructions)
	c.Tips = cloneStrings(r.Tips)
	return c
}

// ToMap 轉為 JSON 形狀的 map，可再次交給 Validate
func (r Recipe) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"name":         r.Name,
		"tags":         toAnySlice(r.Tags),
		"cookingTime":  r.CookingTime,
		"difficulty":   r.Difficulty,
		"servings":     r.Servings,
		"ingredients":  toAnySlice(r.Ingredients),
		"instructions": toAnySlice(r.Instructions),
		"nutritionalInfo": map[string]interface{}{
			"calories": r.NutritionalInfo.Calories,
			"protein":  r.NutritionalInfo.Protein,
			"carbs":    r.NutritionalInfo.Carbs,
			"fat":      r.NutritionalInfo.Fat,
		},
		"tips": toAnySlice(r.Tips),
	}
	if r.ImageSrc != "" {
		m["imageSrc"] = r.ImageSrc
	}
	return m
}

// HasTag 檢查是否含有指定標籤
func (r Recipe) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func toAnySlice(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
