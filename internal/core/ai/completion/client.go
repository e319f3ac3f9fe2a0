package completion

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"recipe-studio/internal/infrastructure/config"
	"recipe-studio/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const maxErrorBody = 512

// ErrMissingAPIKey 未設定 API Key，呼叫端應直接走備援
var ErrMissingAPIKey = errors.New("completion: api key is not configured")

// Completer 將使用者輸入轉為原始食譜文字
type Completer interface {
	Complete(ctx context.Context, userInput string) (string, error)
	Model() string
}

// Recorder 記錄呼叫耗時，可為 nil
type Recorder interface {
	RecordCompletion(model, status string, duration time.Duration)
}

// Client chat-completion 客戶端
type Client struct {
	config   config.CompletionConfig
	client   *resty.Client
	recorder Recorder
}

// NewClient 創建 chat-completion 客戶端
func NewClient(cfg config.CompletionConfig, recorder Recorder) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout).
		SetRetryCount(0)

	if cfg.APIKey != "" {
		client.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey))
	} else {
		common.LogWarn("未設定 GROQ_API_KEY，食譜將使用備援內容")
	}

	return &Client{
		config:   cfg,
		client:   client,
		recorder: recorder,
	}
}

// Model 返回模型名稱
func (c *Client) Model() string {
	return c.config.Model
}

// Complete 發送單次請求並取出助手回覆文字
func (c *Client) Complete(ctx context.Context, userInput string) (string, error) {
	if c.config.APIKey == "" {
		return "", ErrMissingAPIKey
	}

	start := time.Now()
	content, err := c.complete(ctx, userInput)
	duration := time.Since(start)

	common.LogCompletionCall(c.config.Model, duration, err)
	if c.recorder != nil {
		status := "ok"
		if err != nil {
			status = common.ErrorKind(err)
		}
		c.recorder.RecordCompletion(c.config.Model, status, duration)
	}

	return content, err
}

func (c *Client) complete(ctx context.Context, userInput string) (string, error) {
	req := Request{
		Model:       c.config.Model,
		Messages:    BuildMessages(userInput),
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	}
	if c.config.JSONMode {
		req.ResponseFormat = &ResponseFormat{Type: "json_object"}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	common.LogDebug("發送 completion 請求",
		zap.String("model", req.Model),
		zap.Int("input_length", len(userInput)),
	)

	resp, err := c.client.R().
		SetContext(callCtx).
		SetBody(req).
		Post("/chat/completions")
	if err != nil {
		if isTimeout(err) && ctx.Err() == nil {
			return "", &common.TimeoutError{Op: "completion request", Timeout: c.config.Timeout, Err: err}
		}
		return "", fmt.Errorf("failed to send completion request: %w", err)
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return "", &common.UpstreamError{
			StatusCode: resp.StatusCode(),
			Body:       errorMessage(resp.Body()),
		}
	}

	return extractContent(resp.Body())
}

// extractContent 從響應信封取出 choices[0].message.content
func extractContent(body []byte) (string, error) {
	var result Response
	if err := common.ParseJSONBytes(body, &result); err != nil {
		return "", &common.MalformedResponseError{Reason: "undecodable envelope", Err: err}
	}

	if len(result.Choices) == 0 {
		return "", &common.MalformedResponseError{Reason: "no choices in response"}
	}

	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		return "", &common.MalformedResponseError{Reason: "empty message content"}
	}

	return content, nil
}

// errorMessage 優先取供應商錯誤訊息，否則截斷原始內容
func errorMessage(body []byte) string {
	var apiErr apiError
	if err := common.ParseJSONBytes(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return common.Truncate(apiErr.Error.Message, maxErrorBody)
	}
	return common.Truncate(strings.TrimSpace(string(body)), maxErrorBody)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
