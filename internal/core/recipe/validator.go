package recipe

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"recipe-studio/internal/pkg/common"
)

// requiredFields 必須為 truthy 的欄位，依序檢查
var requiredFields = []string{"name", "ingredients", "instructions"}

// Validate 將任意解碼後的 JSON 值轉為完整的 Recipe
//
// 輸入須為 object 且 name、ingredients、instructions 為 truthy，
// 否則返回 *common.ValidationError。其餘欄位各自轉型或套用預設值。
func Validate(raw interface{}) (*Recipe, error) {
	data, ok := raw.(map[string]interface{})
	if !ok || data == nil {
		return nil, common.NewValidationErrorf("recipe", "recipe must be a JSON object, got %T", raw)
	}

	for _, field := range requiredFields {
		if !truthy(data[field]) {
			return nil, common.NewValidationError(field)
		}
	}

	r := &Recipe{
		Name:         stringify(data["name"]),
		Tags:         coerceList(data["tags"], []string{DefaultTag}),
		CookingTime:  coerceText(data["cookingTime"], DefaultCookingTime),
		Difficulty:   coerceText(data["difficulty"], DefaultDifficulty),
		Servings:     coerceServings(data["servings"]),
		Ingredients:  requireList(data["ingredients"], MissingIngredients),
		Instructions: requireList(data["instructions"], MissingInstructions),
		Tips:         coerceList(data["tips"], []string{}),
	}

	nutrition, _ := data["nutritionalInfo"].(map[string]interface{})
	r.NutritionalInfo = NutritionalInfo{
		Calories: coerceText(nutrition["calories"], NotSpecified),
		Protein:  coerceText(nutrition["protein"], NotSpecified),
		Carbs:    coerceText(nutrition["carbs"], NotSpecified),
		Fat:      coerceText(nutrition["fat"], NotSpecified),
	}

	if src, ok := data["imageSrc"].(string); ok {
		r.ImageSrc = strings.TrimSpace(src)
	}

	return r, nil
}

// truthy 以 JSON 語意判斷真值：nil、false、""、0 為假，空陣列與空物件為真
func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case json.Number:
		f, err := val.Float64()
		return err != nil || (f != 0 && !math.IsNaN(f))
	case float64:
		return val != 0 && !math.IsNaN(val)
	case float32:
		return val != 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// stringify 將任意值轉為字串
func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return formatNumber(f)
		}
		return val.String()
	case float64:
		return formatNumber(val)
	case float32:
		return formatNumber(float64(val))
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case map[string]interface{}, []interface{}:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
	return fmt.Sprint(v)
}

// formatNumber 以最短十進位表示數字
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// toList 接受 JSON 陣列或字串切片
func toList(v interface{}) ([]string, bool) {
	switch val := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := strings.TrimSpace(stringify(item)); s != "" {
				out = append(out, s)
			}
		}
		return out, true
	case []string:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := strings.TrimSpace(item); s != "" {
				out = append(out, s)
			}
		}
		return out, true
	}
	return nil, false
}

func coerceList(v interface{}, fallback []string) []string {
	if list, ok := toList(v); ok {
		return list
	}
	return fallback
}

// requireList 必填清單，結果至少一項
func requireList(v interface{}, placeholder string) []string {
	list, ok := toList(v)
	if !ok || len(list) == 0 {
		return []string{placeholder}
	}
	return list
}

func coerceText(v interface{}, fallback string) string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

// coerceServings 接受任意數字並截斷為正整數
func coerceServings(v interface{}) int {
	var f float64
	switch val := v.(type) {
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return DefaultServings
		}
		f = parsed
	case float64:
		f = val
	case float32:
		f = float64(val)
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			f = float64(rv.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			f = float64(rv.Uint())
		default:
			return DefaultServings
		}
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f < 1 || f > math.MaxInt32 {
		return DefaultServings
	}
	return int(f)
}
