package handlers

import (
	"context"
	"errors"
	"net/http"

	"recipe-studio/internal/core/library"
	"recipe-studio/internal/core/recipe"
	"recipe-studio/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ToCustomError 將服務層錯誤轉為 API 錯誤
func ToCustomError(err error) *common.CustomError {
	var custom *common.CustomError
	var verr *common.ValidationError

	switch {
	case errors.As(err, &custom):
		return custom
	case errors.As(err, &verr):
		return common.NewError(common.ErrCodeInvalidRequest, verr.Error(), http.StatusBadRequest, err)
	case errors.Is(err, recipe.ErrCategoryNotFound), errors.Is(err, library.ErrNotFound):
		return common.NewError(common.ErrCodeNotFound, common.ErrNotFound.Message, http.StatusNotFound, err)
	case errors.Is(err, library.ErrStorage):
		return common.NewError(common.ErrCodeServiceUnavailable, common.ErrStorageUnavailable.Message, http.StatusServiceUnavailable, err)
	case errors.Is(err, context.DeadlineExceeded):
		return common.NewError(common.ErrCodeGatewayTimeout, common.ErrGatewayTimeout.Message, http.StatusGatewayTimeout, err)
	default:
		return common.NewError(common.ErrCodeInternalError, common.ErrInternalError.Message, http.StatusInternalServerError, err)
	}
}

// RespondError 以統一格式回應錯誤
func RespondError(c *gin.Context, err error) {
	custom := ToCustomError(err)
	if custom.Status >= http.StatusInternalServerError {
		common.LogError("處理請求失敗",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(custom.Status, custom.Response())
}
