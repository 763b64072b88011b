package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/xiebiao/catalog/internal/application/catalog"
	"github.com/xiebiao/catalog/internal/interface/http/dto"
	"github.com/xiebiao/catalog/internal/interface/http/middleware"
	"github.com/xiebiao/catalog/pkg/response"
)

type CategoryHandler struct {
	categories *appcatalog.CategoryService
}

func NewCategoryHandler(categories *appcatalog.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// List godoc
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Param        page  query  int     false  "zero-based page"
// @Param        size  query  int     false  "page size"
// @Param        sort  query  string  false  "name|id[,asc|desc]"
// @Success      200 {object} response.Response{data=pagination.Page[appcatalog.CategoryDTO]}
// @Router       /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	req, ok := pageRequest(c)
	if !ok {
		return
	}
	page, err := h.categories.FindAllPaged(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, page)
}

// Get godoc
// @Summary      Find a category
// @Tags         categories
// @Produce      json
// @Param        id  path  int  true  "category id"
// @Success      200 {object} response.Response{data=appcatalog.CategoryDTO}
// @Failure      404 {object} response.Response
// @Router       /api/v1/categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.categories.FindByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

// Create godoc
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CategoryRequest true "category"
// @Success      201 {object} response.Response{data=appcatalog.CategoryDTO}
// @Failure      403 {object} response.Response
// @Failure      422 {object} response.Response{data=response.ValidationData}
// @Router       /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.categories.Insert(c.Request.Context(), middleware.GetPrincipal(c), appcatalog.CategoryRequest{Name: req.Name})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, out)
}

// Update godoc
// @Summary      Rename a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int                  true  "category id"
// @Param        request  body  dto.CategoryRequest  true  "category"
// @Success      200 {object} response.Response{data=appcatalog.CategoryDTO}
// @Failure      404 {object} response.Response
// @Router       /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.categories.Update(c.Request.Context(), middleware.GetPrincipal(c), id, appcatalog.CategoryRequest{Name: req.Name})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

// Delete godoc
// @Summary      Delete a category
// @Tags         categories
// @Security     BearerAuth
// @Param        id  path  int  true  "category id"
// @Success      204
// @Failure      404 {object} response.Response
// @Failure      409 {object} response.Response "category in use"
// @Router       /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.categories.Delete(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
