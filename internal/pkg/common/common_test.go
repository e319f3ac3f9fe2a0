package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseJSON(t *testing.T) {
	var m map[string]interface{}
	require.NoError(t, ParseJSON(`{"servings": 4}`, &m))
	assert.Equal(t, json.Number("4"), m["servings"])

	assert.Error(t, ParseJSON(`{"a":1} {"b":2}`, &m), "extra data is rejected")
	assert.Error(t, ParseJSONBytes([]byte(`{"a":`), &m))
}

func TestStripCodeFence(t *testing.T) {
	tests := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```":     `{"a":1}`,
		"  {\"a\":1}  ":           `{"a":1}`,
		"```JSON {\"a\":1}```":    `{"a":1}`,
	}
	for in, want := range tests {
		assert.Equal(t, want, StripCodeFence(in), in)
	}
}

func TestExtractJSONObject(t *testing.T) {
	got, ok := ExtractJSONObject("Here:\n{\"a\": {\"b\": 1}}\nthanks")
	require.True(t, ok)
	assert.Equal(t, `{"a": {"b": 1}}`, got)

	_, ok = ExtractJSONObject("no object here")
	assert.False(t, ok)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc...(truncated)", Truncate("abcdef", 3))
	assert.Equal(t, "abcdef", Truncate("abcdef", 0))

	got := Truncate("食譜生成", 4)
	assert.Equal(t, "食...(truncated)", got)
	assert.True(t, utf8.ValidString(got))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "(empty)", MaskSecret(""))
	assert.Equal(t, "******", MaskSecret("secret"))
	assert.Equal(t, "gsk_****wxyz", MaskSecret("gsk_abcdwxyz"))
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "none"},
		{NewValidationError("name"), "validation"},
		{fmt.Errorf("wrapped: %w", &TimeoutError{Op: "call", Timeout: time.Second}), "timeout"},
		{&UpstreamError{StatusCode: 502}, "upstream"},
		{&MalformedResponseError{Reason: "no choices"}, "malformed"},
		{errors.New("boom"), "other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorKind(tt.err), "%v", tt.err)
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, `missing required field "ingredients"`, NewValidationError("ingredients").Error())
	assert.Equal(t, "bad date", NewValidationErrorf("date", "bad %s", "date").Error())
	assert.Equal(t, "upstream returned status 429: rate limited", (&UpstreamError{StatusCode: 429, Body: "rate limited"}).Error())

	cause := errors.New("eof")
	malformed := &MalformedResponseError{Reason: "undecodable envelope", Err: cause}
	assert.ErrorIs(t, malformed, cause)

	resp := ErrEmptyInput.Response()
	assert.Equal(t, ErrCodeInvalidRequest, resp.Code)
	assert.Equal(t, "Please provide what you'd like to cook.", resp.Message)
}

func TestFilterFields(t *testing.T) {
	fields := filterFields([]zap.Field{
		zap.String("model", "llama"),
		zap.String("groq_api_key", "secret"),
		zap.String("authorization", "Bearer secret"),
	})
	require.Len(t, fields, 1)
	assert.Equal(t, "model", fields[0].Key)
}
