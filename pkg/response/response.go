package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/catalog/pkg/errors"
	"github.com/xiebiao/catalog/pkg/logger"
	"github.com/xiebiao/catalog/pkg/pagination"
)

// Response is the envelope of every JSON reply.
// Code 0 means success; otherwise it is the AppError code and the HTTP status
// is derived from it.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationData is the payload of a 422 reply.
type ValidationData struct {
	Errors []apperrors.FieldError `json:"errors"`
}

// Success replies 200 with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created replies 201 with the stored resource.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// NoContent replies 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Page replies 200 with a page payload.
func Page[T any](c *gin.Context, page *pagination.Page[T]) {
	Success(c, page)
}

// Error replies with the status derived from the AppError code.
// Internal causes are logged, never returned.
//
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	status := appErr.HTTPStatus()

	log := logger.FromContext(c.Request.Context())
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.Int("code", appErr.Code), zap.Error(err))
	} else if appErr.Err != nil {
		log.Info("request rejected", zap.Int("code", appErr.Code), zap.Error(appErr.Err))
	}

	resp := Response{
		Code:    appErr.Code,
		Message: appErr.Message,
	}
	if len(appErr.Fields) > 0 {
		resp.Data = ValidationData{Errors: appErr.Fields}
	}
	c.JSON(status, resp)
}

// ErrorWithCode replies with a custom code and message.
func ErrorWithCode(c *gin.Context, code int, message string) {
	Error(c, apperrors.New(code, message))
}
