package recipe

import (
	"strings"

	"recipe-studio/internal/pkg/common"
)

// parseStrategy 將原始文字轉為 JSON 候選字串
type parseStrategy struct {
	name    string
	extract func(raw string) (string, bool)
}

var parseStrategies = []parseStrategy{
	{"direct", func(raw string) (string, bool) { return raw, true }},
	{"code_fence", func(raw string) (string, bool) { return common.StripCodeFence(raw), true }},
	{"brace_extract", common.ExtractJSONObject},
}

// ParseRecipeText 依序嘗試直接解析、去除 code fence、擷取大括號內容，第一個成功者勝出
func ParseRecipeText(raw string) (map[string]interface{}, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, &common.MalformedResponseError{Reason: "empty completion text"}
	}

	var lastErr error
	for _, strategy := range parseStrategies {
		candidate, ok := strategy.extract(text)
		if !ok || candidate == "" {
			continue
		}

		var obj map[string]interface{}
		if err := common.ParseJSON(candidate, &obj); err != nil {
			lastErr = err
			continue
		}
		if obj == nil {
			continue
		}
		return obj, nil
	}

	return nil, &common.MalformedResponseError{Reason: "no JSON object in completion text", Err: lastErr}
}
