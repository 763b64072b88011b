package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/catalog/pkg/errors"
	"github.com/xiebiao/catalog/pkg/logger"
	"github.com/xiebiao/catalog/pkg/response"
)

// Recovery turns a panic into a 500 reply in the usual envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.FromContext(c.Request.Context()).Error("panic recovered",
					zap.Any("panic", r),
					zap.Stack("stack"))
				response.Error(c, apperrors.Wrap(fmt.Errorf("panic: %v", r), "Internal server error"))
				c.Abort()
			}
		}()
		c.Next()
	}
}
