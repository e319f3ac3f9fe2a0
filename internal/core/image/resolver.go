package image

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode"

	"recipe-studio/internal/infrastructure/config"
	"recipe-studio/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const maxKeywords = 3

// 圖片來源標籤
const (
	SourceRemote   = "remote"
	SourceCategory = "category"
	SourcePool     = "pool"
	SourceDefault  = "default"
)

// Recorder 記錄圖片來源，可為 nil
type Recorder interface {
	RecordImageResolution(source string)
}

// Resolver 依食譜名稱找一張代表圖片，永不失敗
type Resolver struct {
	config   config.ImageConfig
	client   *resty.Client
	recorder Recorder
	pick     func(n int) int

	mu      sync.Mutex
	lastURL string
}

// NewResolver 創建圖片解析器
func NewResolver(cfg config.ImageConfig, recorder Recorder) *Resolver {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))

	return &Resolver{
		config:   cfg,
		client:   client,
		recorder: recorder,
		pick:     rand.Intn,
	}
}

// Keywords 從名稱取出最多三個搜尋詞
func Keywords(name string) []string {
	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var hits, rest []string
	seen := make(map[string]bool)
	for _, w := range words {
		if len(w) < 2 || stopWords[w] {
			continue
		}
		word, known := normalizeWord(w)
		if seen[word] {
			continue
		}
		seen[word] = true
		if known {
			hits = append(hits, word)
		} else {
			rest = append(rest, word)
		}
	}

	terms := hits
	if len(terms) == 0 {
		terms = rest
	}
	if len(terms) > maxKeywords {
		terms = terms[:maxKeywords]
	}
	if len(terms) == 0 {
		return []string{"food"}
	}
	return terms
}

// Resolve 返回可用的圖片 URL
func (r *Resolver) Resolve(ctx context.Context, name string) (imageURL string) {
	defer func() {
		if rec := recover(); rec != nil {
			common.LogError("圖片解析發生 panic", zap.Any("panic", rec))
			imageURL = DefaultImage
			r.record(SourceDefault)
		}
	}()

	terms := Keywords(name)

	if r.config.Enabled {
		u, err := r.fetch(ctx, terms)
		if err == nil {
			r.record(SourceRemote)
			return u
		}
		common.LogDebug("遠端圖片查詢失敗，改用備援",
			zap.Strings("keywords", terms),
			zap.Error(err),
		)
	}

	u, source := r.fallback(terms)
	r.record(source)
	return u
}

// fetch 查詢遠端圖片，遇到與上次相同的 URL 時重試，所有嘗試共用同一個期限
func (r *Resolver) fetch(ctx context.Context, terms []string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	r.mu.Lock()
	last := r.lastURL
	r.mu.Unlock()

	var u string
	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		got, err := r.fetchOnce(callCtx, terms)
		if err != nil {
			if u == "" {
				return "", err
			}
			// 期限已用完，沿用重複的圖片
			common.LogDebug("重試失敗，沿用上次圖片", zap.Error(err))
			break
		}
		u = got
		if u != last {
			break
		}
		common.LogDebug("圖片與上次相同，重試", zap.Int("attempt", attempt+1))
	}

	r.mu.Lock()
	r.lastURL = u
	r.mu.Unlock()

	return u, nil
}

// fetchOnce 發出單次請求，以重新導向後的最終 URL 作為圖片
func (r *Resolver) fetchOnce(ctx context.Context, terms []string) (string, error) {
	parts := []string{"food"}
	for _, t := range terms {
		parts = append(parts, url.QueryEscape(t))
	}
	query := strings.Join(parts, ",")
	resp, err := r.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get("/featured/?" + query)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", &common.TimeoutError{Op: "image lookup", Timeout: r.config.Timeout, Err: err}
		}
		return "", fmt.Errorf("image lookup failed: %w", err)
	}
	if resp.RawBody() != nil {
		defer resp.RawBody().Close()
	}

	if resp.StatusCode() != http.StatusOK {
		return "", &common.UpstreamError{StatusCode: resp.StatusCode()}
	}
	if resp.RawResponse == nil || resp.RawResponse.Request == nil {
		return "", fmt.Errorf("image lookup returned no final request")
	}

	final := resp.RawResponse.Request.URL
	if strings.HasPrefix(final.Path, "/featured") {
		return "", fmt.Errorf("image lookup was not redirected")
	}

	u := final.String()
	if !IsValidURL(u) {
		return "", fmt.Errorf("image lookup returned invalid url %q", u)
	}
	return u, nil
}

// fallback 依序使用分類表、通用圖片池、預設圖片
func (r *Resolver) fallback(terms []string) (string, string) {
	for _, term := range terms {
		if u, ok := categoryImages[term]; ok {
			return u, SourceCategory
		}
	}
	if len(genericPool) > 0 {
		return genericPool[r.pick(len(genericPool))], SourcePool
	}
	return DefaultImage, SourceDefault
}

func (r *Resolver) record(source string) {
	if r.recorder != nil {
		r.recorder.RecordImageResolution(source)
	}
}

// IsValidURL 檢查是否為 http(s) 絕對 URL
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// WithRand 替換隨機來源，供測試使用
func (r *Resolver) WithRand(pick func(n int) int) *Resolver {
	r.pick = pick
	return r
}

// Timeout 單次解析（含重試）的上限
func (r *Resolver) Timeout() time.Duration {
	return r.config.Timeout
}
