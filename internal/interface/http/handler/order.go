package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/catalog/internal/application/order"
	"github.com/xiebiao/catalog/internal/interface/http/dto"
	"github.com/xiebiao/catalog/internal/interface/http/middleware"
	"github.com/xiebiao/catalog/pkg/response"
)

// OrderHandler serves orders. Every route needs a login.
type OrderHandler struct {
	createOrder *apporder.CreateOrderUseCase
	orders      *apporder.Service
}

func NewOrderHandler(createOrder *apporder.CreateOrderUseCase, orders *apporder.Service) *OrderHandler {
	return &OrderHandler{createOrder: createOrder, orders: orders}
}

// Create godoc
// @Summary      Place an order
// @Description  The client is the caller. Item prices are the current product prices.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.OrderRequest true "order items"
// @Success      201 {object} response.Response{data=apporder.OrderDTO}
// @Failure      404 {object} response.Response "unknown product"
// @Failure      422 {object} response.Response{data=response.ValidationData}
// @Router       /api/v1/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.OrderRequest
	if !bindJSON(c, &req) {
		return
	}
	items := make([]apporder.CreateOrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = apporder.CreateOrderItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	out, err := h.createOrder.Execute(c.Request.Context(), middleware.GetPrincipal(c), apporder.CreateOrderRequest{Items: items})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, out)
}

// Get godoc
// @Summary      Find an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "order id"
// @Success      200 {object} response.Response{data=apporder.OrderDTO}
// @Failure      403 {object} response.Response "not the owner"
// @Failure      404 {object} response.Response
// @Router       /api/v1/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.orders.FindByID(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

// Pay godoc
// @Summary      Pay an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "order id"
// @Success      200 {object} response.Response{data=apporder.OrderDTO}
// @Failure      400 {object} response.Response "status does not allow payment"
// @Router       /api/v1/orders/{id}/pay [post]
func (h *OrderHandler) Pay(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.orders.Pay(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

// Cancel godoc
// @Summary      Cancel an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "order id"
// @Success      200 {object} response.Response{data=apporder.OrderDTO}
// @Failure      400 {object} response.Response "status does not allow cancellation"
// @Router       /api/v1/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.orders.Cancel(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}
