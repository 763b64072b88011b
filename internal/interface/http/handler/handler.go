// Package handler adapts HTTP requests to the application services.
// Handlers parse and bind input, call one service method and write the reply.
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/catalog/internal/interface/http/dto"
	apperrors "github.com/xiebiao/catalog/pkg/errors"
	"github.com/xiebiao/catalog/pkg/pagination"
	"github.com/xiebiao/catalog/pkg/response"
)

// bindJSON binds the body into req and replies on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, dto.BindError(err))
		return false
	}
	return true
}

// pathID parses a positive :name path parameter and replies on failure.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, apperrors.ErrInvalidParams.WithMessage("Invalid "+name))
		return 0, false
	}
	return uint(id), true
}

// pageRequest binds ?page=&size=&sort= and replies on failure.
func pageRequest(c *gin.Context) (pagination.PageRequest, bool) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, dto.BindError(err))
		return pagination.PageRequest{}, false
	}
	return q.PageRequest(), true
}
