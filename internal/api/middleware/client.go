package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"recipe-studio/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ClientIDHeader 識別瀏覽器端資料的標頭
const ClientIDHeader = "X-Client-ID"

const clientIDKey = "client_id"

// RequireClientID 缺少 X-Client-ID 時返回 400
func RequireClientID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(ClientIDHeader))
		if id == "" || len(id) > 128 {
			c.AbortWithStatusJSON(common.ErrMissingClientID.Status, common.ErrMissingClientID.Response())
			return
		}
		c.Set(clientIDKey, id)
		c.Next()
	}
}

// ClientID 取得已驗證的客戶端 ID
func ClientID(c *gin.Context) string {
	return c.GetString(clientIDKey)
}

// Timeout 為每個請求設定逾時 context
func Timeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		// 處理器尚未回應就逾時
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.Duration("timeout", timeout),
			)
			resp := common.ErrGatewayTimeout.Response()
			c.AbortWithStatusJSON(common.ErrGatewayTimeout.Status, gin.H{
				"error":   resp.Message,
				"code":    resp.Code,
				"details": gin.H{"timeout": timeout.String()},
			})
		}
	}
}
