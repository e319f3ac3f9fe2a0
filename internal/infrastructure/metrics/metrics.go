package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector 收集 HTTP 與食譜管線的 Prometheus 指標
type Collector struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	generationsTotal   *prometheus.CounterVec
	completionDuration *prometheus.HistogramVec
	imageResolutions   *prometheus.CounterVec
}

// NewCollector 建立使用獨立 registry 的指標收集器
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),

		generationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipe_generations_total",
				Help: "Recipe generations by outcome and fallback reason",
			},
			[]string{"outcome", "reason"},
		),
		completionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "completion_request_duration_seconds",
				Help:    "Chat-completion request duration in seconds",
				Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"model", "status"},
		),
		imageResolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "image_resolutions_total",
				Help: "Image resolutions by source",
			},
			[]string{"source"},
		),
	}
}

// HTTPMiddleware 記錄每個請求的次數與耗時
func (m *Collector) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// RecordGeneration 記錄一次食譜產生結果
func (m *Collector) RecordGeneration(outcome, reason string) {
	m.generationsTotal.WithLabelValues(outcome, reason).Inc()
}

// RecordCompletion 記錄一次 completion 呼叫
func (m *Collector) RecordCompletion(model, status string, duration time.Duration) {
	m.completionDuration.WithLabelValues(model, status).Observe(duration.Seconds())
}

// RecordImageResolution 記錄圖片來源
func (m *Collector) RecordImageResolution(source string) {
	m.imageResolutions.WithLabelValues(source).Inc()
}

// Registry 返回底層 registry
func (m *Collector) Registry() *prometheus.Registry {
	return m.registry
}

// Handler 返回 /metrics 處理器
func (m *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
