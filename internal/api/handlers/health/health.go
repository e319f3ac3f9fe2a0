package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"recipe-studio/internal/infrastructure/config"
	"recipe-studio/internal/pkg/common"
	"recipe-studio/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status     string                 `json:"status"`
	Timestamp  time.Time              `json:"timestamp"`
	Version    string                 `json:"version"`
	Runtime    map[string]interface{} `json:"runtime"`
	Completion CompletionStatus       `json:"completion"`
	Storage    StorageStatus          `json:"storage"`
}

// CompletionStatus 模型端點狀態
type CompletionStatus struct {
	Model      string `json:"model"`
	Configured bool   `json:"configured"`
}

// StorageStatus 儲存狀態
type StorageStatus struct {
	Driver string                 `json:"driver"`
	Stats  map[string]interface{} `json:"stats,omitempty"`
}

// Handler 健康檢查處理程序
type Handler struct {
	cfg   *config.Config
	store storage.Store
}

// NewHandler 創建健康檢查處理程序
func NewHandler(cfg *config.Config, store storage.Store) *Handler {
	return &Handler{cfg: cfg, store: store}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.cfg.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Completion: CompletionStatus{
			Model:      h.cfg.Completion.Model,
			Configured: h.cfg.Completion.APIKey != "",
		},
		Storage: StorageStatus{Driver: h.cfg.Storage.Driver},
	}

	if stats, ok := h.store.(interface{ GetStats() map[string]interface{} }); ok {
		response.Storage.Stats = stats.GetStats()
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器，儲存無法連線時返回 503
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if pinger, ok := h.store.(storage.Pinger); ok {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := pinger.Ping(ctx); err != nil {
			common.LogWarn("儲存無法連線", zap.Error(err))
			resp := common.ErrStorageUnavailable.Response()
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not_ready",
				"error":  resp.Message,
				"code":   resp.Code,
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
