package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ParseJSON 解析 JSON 字符串到結構體
func ParseJSON(data string, v interface{}) error {
	return decodeJSON(strings.NewReader(data), v)
}

// ParseJSONBytes 解析 JSON 位元組切片到結構體
func ParseJSONBytes(data []byte, v interface{}) error {
	return decodeJSON(bytes.NewReader(data), v)
}

// decodeJSON 數字保留為 json.Number
func decodeJSON(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := dec.Decode(v); err != nil {
		return err
	}

	// 確保沒有多餘資料
	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return err
		}
		return fmt.Errorf("unexpected extra JSON data")
	}
	return nil
}

var (
	codeFenceOpen   = regexp.MustCompile("^```[A-Za-z]*[ \t]*\r?\n?")
	codeFenceClose  = regexp.MustCompile("\r?\n?```\\s*$")
	jsonObjectRegex = regexp.MustCompile(`(?s)\{.*\}`)
)

// StripCodeFence 去除首尾的 ``` 標記（含語言標籤）
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	s = codeFenceOpen.ReplaceAllString(s, "")
	s = codeFenceClose.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ExtractJSONObject 取出第一個 { 到最後一個 } 之間的內容
func ExtractJSONObject(raw string) (string, bool) {
	match := jsonObjectRegex.FindString(raw)
	if match == "" {
		return "", false
	}
	return match, true
}

// ToJSON 將結構體轉換為 JSON 字符串
func ToJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Truncate 截斷過長字串，用於日誌與錯誤訊息
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	// 退回到字元邊界，避免切斷多位元組字元
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "...(truncated)"
}
