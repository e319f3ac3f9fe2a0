package image

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"recipe-studio/internal/infrastructure/config"
	"recipe-studio/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sourceRecorder struct {
	mu      sync.Mutex
	sources []string
}

func (r *sourceRecorder) RecordImageResolution(source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append(r.sources, source)
}

func testConfig(baseURL string) config.ImageConfig {
	return config.ImageConfig{
		Enabled:    true,
		BaseURL:    baseURL,
		Timeout:    time.Second,
		MaxRetries: 2,
	}
}

// featuredServer 模擬 featured 端點，photoFor 決定每次導向的圖片
func featuredServer(t *testing.T, photoFor func(hit int64) string) (*httptest.Server, *int64) {
	t.Helper()
	var hits int64
	mux := http.NewServeMux()
	mux.HandleFunc("/featured/", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&hits, 1)
		http.Redirect(w, r, "/photos/"+photoFor(n), http.StatusFound)
	})
	mux.HandleFunc("/photos/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte{0xff, 0xd8, 0xff})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{"food"}},
		{"only stop words", "The Recipe for", []string{"food"}},
		{"vocabulary hits win", "Creamy Garlic Pasta with Chicken", []string{"pasta", "chicken"}},
		{"plural forms", "Spicy Chicken Tacos", []string{"chicken", "taco"}},
		{"at most three", "salmon rice salad soup curry", []string{"salmon", "rice", "salad"}},
		{"unknown words fall back to first words", "Grandma's Special Surprise", []string{"grandma", "special", "surprise"}},
		{"punctuation splits", "pasta,pizza&cake", []string{"pasta", "pizza", "cake"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Keywords(tt.in))
		})
	}
}

func TestResolverRemote(t *testing.T) {
	common.InitTestLogger()

	t.Run("returns final redirected url", func(t *testing.T) {
		var query string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/featured") {
				query = r.URL.RawQuery
				http.Redirect(w, r, "/photos/abc", http.StatusFound)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		rec := &sourceRecorder{}
		r := NewResolver(testConfig(srv.URL), rec)
		got := r.Resolve(context.Background(), "Chicken Tacos")

		assert.Equal(t, srv.URL+"/photos/abc", got)
		assert.Equal(t, "food,chicken,taco", query)
		assert.Equal(t, []string{SourceRemote}, rec.sources)
	})

	t.Run("retries when the same url comes back", func(t *testing.T) {
		srv, hits := featuredServer(t, func(hit int64) string {
			if hit <= 2 {
				return "same"
			}
			return "fresh"
		})

		r := NewResolver(testConfig(srv.URL), nil)
		first := r.Resolve(context.Background(), "soup")
		second := r.Resolve(context.Background(), "soup")

		assert.Equal(t, srv.URL+"/photos/same", first)
		assert.Equal(t, srv.URL+"/photos/fresh", second)
		assert.Equal(t, int64(3), atomic.LoadInt64(hits))
	})

	t.Run("accepts the duplicate after exhausting retries", func(t *testing.T) {
		srv, hits := featuredServer(t, func(hit int64) string { return "same" })

		r := NewResolver(testConfig(srv.URL), nil)
		_ = r.Resolve(context.Background(), "soup")
		got := r.Resolve(context.Background(), "soup")

		assert.Equal(t, srv.URL+"/photos/same", got)
		assert.Equal(t, int64(1+3), atomic.LoadInt64(hits))
	})

	t.Run("retries share one deadline", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/featured/", func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(700 * time.Millisecond):
			case <-r.Context().Done():
				return
			}
			http.Redirect(w, r, "/photos/same", http.StatusFound)
		})
		mux.HandleFunc("/photos/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		cfg := testConfig(srv.URL)
		r := NewResolver(cfg, nil)
		_ = r.Resolve(context.Background(), "soup")

		start := time.Now()
		got := r.Resolve(context.Background(), "soup")
		elapsed := time.Since(start)

		assert.Equal(t, srv.URL+"/photos/same", got)
		assert.Less(t, elapsed, cfg.Timeout+300*time.Millisecond)
	})
}

func TestResolverFallback(t *testing.T) {
	common.InitTestLogger()

	t.Run("disabled uses the category table", func(t *testing.T) {
		cfg := testConfig("http://127.0.0.1:1")
		cfg.Enabled = false
		rec := &sourceRecorder{}

		got := NewResolver(cfg, rec).Resolve(context.Background(), "Spaghetti Carbonara")
		assert.Equal(t, photoPasta, got)
		assert.Equal(t, []string{SourceCategory}, rec.sources)
	})

	t.Run("unknown dish uses the pool", func(t *testing.T) {
		cfg := testConfig("http://127.0.0.1:1")
		cfg.Enabled = false

		r := NewResolver(cfg, nil).WithRand(func(n int) int { return 3 })
		assert.Equal(t, genericPool[3], r.Resolve(context.Background(), "Mystery Dish"))
	})

	t.Run("upstream error falls back", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		got := NewResolver(testConfig(srv.URL), nil).Resolve(context.Background(), "beef stew")
		assert.Equal(t, photoGrill, got)
	})

	t.Run("not redirected falls back", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		got := NewResolver(testConfig(srv.URL), nil).Resolve(context.Background(), "pizza")
		assert.Equal(t, photoPizza, got)
	})

	t.Run("empty name within timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		cfg := testConfig(srv.URL)
		cfg.Timeout = 50 * time.Millisecond

		start := time.Now()
		got := NewResolver(cfg, nil).Resolve(context.Background(), "")
		elapsed := time.Since(start)

		require.NotEmpty(t, got)
		assert.True(t, IsValidURL(got), got)
		assert.Less(t, elapsed, 5*cfg.Timeout+time.Second)
	})

	t.Run("panic is absorbed", func(t *testing.T) {
		cfg := testConfig("http://127.0.0.1:1")
		cfg.Enabled = false

		r := NewResolver(cfg, nil).WithRand(func(n int) int { panic(fmt.Sprintf("bad rand %d", n)) })
		assert.Equal(t, DefaultImage, r.Resolve(context.Background(), "Mystery Dish"))
	})
}

func TestCatalogURLsAreValid(t *testing.T) {
	assert.True(t, IsValidURL(DefaultImage))
	for _, u := range genericPool {
		assert.True(t, IsValidURL(u), u)
	}
	for k, u := range categoryImages {
		assert.True(t, IsValidURL(u), k)
		assert.True(t, vocabulary[k], k)
	}
}
