package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/xiebiao/catalog/internal/application/catalog"
	"github.com/xiebiao/catalog/internal/interface/http/dto"
	"github.com/xiebiao/catalog/internal/interface/http/middleware"
	"github.com/xiebiao/catalog/pkg/response"
)

type ProductHandler struct {
	products *appcatalog.ProductService
}

func NewProductHandler(products *appcatalog.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// Search godoc
// @Summary      Search products
// @Description  Pages products by name fragment and category ids. Each product carries all its categories.
// @Tags         products
// @Produce      json
// @Param        name        query  string  false  "case-insensitive name fragment"
// @Param        categoryId  query  string  false  "comma separated category ids"
// @Param        page        query  int     false  "zero-based page"
// @Param        size        query  int     false  "page size"
// @Param        sort        query  string  false  "name|id|price[,asc|desc]"
// @Success      200 {object} response.Response{data=pagination.Page[appcatalog.ProductDTO]}
// @Failure      422 {object} response.Response{data=response.ValidationData}
// @Router       /api/v1/products [get]
func (h *ProductHandler) Search(c *gin.Context) {
	req, ok := pageRequest(c)
	if !ok {
		return
	}
	categoryIDs, err := dto.ParseIDList("categoryId", c.QueryArray("categoryId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	page, err := h.products.Search(c.Request.Context(), c.Query("name"), categoryIDs, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, page)
}

// Count godoc
// @Summary      Count products
// @Tags         products
// @Produce      json
// @Success      200 {object} response.Response{data=int}
// @Router       /api/v1/products/count [get]
func (h *ProductHandler) Count(c *gin.Context) {
	n, err := h.products.Count(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, n)
}

// Get godoc
// @Summary      Find a product
// @Tags         products
// @Produce      json
// @Param        id  path  int  true  "product id"
// @Success      200 {object} response.Response{data=appcatalog.ProductDTO}
// @Failure      404 {object} response.Response
// @Router       /api/v1/products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.products.FindByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

// Create godoc
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ProductRequest true "product"
// @Success      201 {object} response.Response{data=appcatalog.ProductDTO}
// @Failure      404 {object} response.Response "unknown category"
// @Failure      422 {object} response.Response{data=response.ValidationData}
// @Router       /api/v1/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.products.Insert(c.Request.Context(), middleware.GetPrincipal(c), toProductRequest(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, out)
}

// Update godoc
// @Summary      Replace a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int                 true  "product id"
// @Param        request  body  dto.ProductRequest  true  "product"
// @Success      200 {object} response.Response{data=appcatalog.ProductDTO}
// @Failure      404 {object} response.Response
// @Router       /api/v1/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.products.Update(c.Request.Context(), middleware.GetPrincipal(c), id, toProductRequest(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

// Delete godoc
// @Summary      Delete a product
// @Tags         products
// @Security     BearerAuth
// @Param        id  path  int  true  "product id"
// @Success      204
// @Failure      404 {object} response.Response
// @Failure      409 {object} response.Response "product is referenced by an order"
// @Router       /api/v1/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.products.Delete(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func toProductRequest(req dto.ProductRequest) appcatalog.ProductRequest {
	return appcatalog.ProductRequest{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImgURL:      req.ImgURL,
		Date:        req.Date,
		CategoryIDs: req.CategoryIDs,
	}
}
