// Package order holds the order use cases.
package order

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/catalog/internal/application/tx"
	"github.com/xiebiao/catalog/internal/domain/catalog"
	"github.com/xiebiao/catalog/internal/domain/order"
	"github.com/xiebiao/catalog/pkg/authz"
	"github.com/xiebiao/catalog/pkg/logger"
	"github.com/xiebiao/catalog/pkg/metrics"
	"github.com/xiebiao/catalog/pkg/mq"
)

// Routing keys of the published order events.
const (
	EventOrderCreated  = "order.created"
	EventOrderPaid     = "order.paid"
	EventOrderCanceled = "order.canceled"
)

// CreateOrderRequest lists what the caller buys. The client is always the caller.
type CreateOrderRequest struct {
	Items []CreateOrderItem
}

type CreateOrderItem struct {
	ProductID uint
	Quantity  int
}

// OrderDTO is an order with its lines and total.
type OrderDTO struct {
	ID       uint           `json:"id"`
	Moment   time.Time      `json:"moment"`
	Status   string         `json:"status"`
	ClientID uint           `json:"client_id"`
	Items    []OrderItemDTO `json:"items"`
	Total    float64        `json:"total"`
}

type OrderItemDTO struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	SubTotal  float64 `json:"sub_total"`
}

// OrderEvent is the payload of every order event.
type OrderEvent struct {
	OrderID  uint    `json:"order_id"`
	ClientID uint    `json:"client_id"`
	Status   string  `json:"status"`
	Total    float64 `json:"total"`
}

func toOrderDTO(o *order.Order) *OrderDTO {
	items := make([]OrderItemDTO, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemDTO{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			Price:     item.Price,
			Quantity:  item.Quantity,
			SubTotal:  item.Subtotal(),
		}
	}
	return &OrderDTO{
		ID:       o.ID,
		Moment:   o.Moment,
		Status:   string(o.Status),
		ClientID: o.ClientID,
		Items:    items,
		Total:    o.Total(),
	}
}

// CreateOrderUseCase places an order for the caller.
type CreateOrderUseCase struct {
	orderRepo   order.Repository
	productRepo catalog.ProductRepository
	publisher   mq.Publisher
	authz       *authz.Authorizer
	txManager   tx.Manager
}

func NewCreateOrderUseCase(
	orderRepo order.Repository,
	productRepo catalog.ProductRepository,
	publisher mq.Publisher,
	authorizer *authz.Authorizer,
	txManager tx.Manager,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		publisher:   publisher,
		authz:       authorizer,
		txManager:   txManager,
	}
}

// Execute creates the order waiting for payment.
// Notes:
//  1. Item prices are the current product prices, read inside the
//     transaction, never taken from the request
//  2. Repeated product ids are merged into one line
//  3. order.created is published after commit; a failed publish is logged
//     and the order stands
func (uc *CreateOrderUseCase) Execute(ctx context.Context, p *authz.Principal, req CreateOrderRequest) (dto *OrderDTO, err error) {
	if err := uc.authz.Check(p, authz.ResourceOrder, authz.ActionCreate); err != nil {
		return nil, err
	}
	lines, err := mergeLines(req.Items)
	if err != nil {
		return nil, err
	}
	defer func() { metrics.RecordOrder(err) }()

	var created *order.Order
	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		ids := make([]uint, len(lines))
		for i, l := range lines {
			ids[i] = l.ProductID
		}
		products, err := uc.productRepo.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[uint]*catalog.Product, len(products))
		for _, product := range products {
			byID[product.ID] = product
		}

		items := make([]order.Item, len(lines))
		for i, l := range lines {
			product, ok := byID[l.ProductID]
			if !ok {
				return catalog.ProductIDNotFound(l.ProductID)
			}
			items[i] = order.Item{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    l.Quantity,
				Price:       product.Price,
			}
		}

		created = order.NewOrder(p.UserID, items)
		return uc.orderRepo.Create(ctx, created)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("order created",
		zap.Uint("order_id", created.ID),
		zap.Uint("client_id", created.ClientID),
		zap.Int("items", len(created.Items)))
	publish(ctx, uc.publisher, EventOrderCreated, created)
	return toOrderDTO(created), nil
}

// mergeLines validates quantities and folds repeated products, keeping the
// order of first appearance.
func mergeLines(items []CreateOrderItem) ([]CreateOrderItem, error) {
	if len(items) == 0 {
		return nil, order.ErrEmptyItems
	}
	index := make(map[uint]int, len(items))
	out := make([]CreateOrderItem, 0, len(items))
	for i, item := range items {
		if item.Quantity <= 0 {
			return nil, order.InvalidQuantity(i)
		}
		if at, ok := index[item.ProductID]; ok {
			out[at].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(out)
		out = append(out, item)
	}
	return out, nil
}

func publish(ctx context.Context, publisher mq.Publisher, routingKey string, o *order.Order) {
	err := publisher.Publish(ctx, routingKey, OrderEvent{
		OrderID:  o.ID,
		ClientID: o.ClientID,
		Status:   string(o.Status),
		Total:    o.Total(),
	})
	if err != nil {
		logger.FromContext(ctx).Warn("publish order event failed",
			zap.String("routing_key", routingKey),
			zap.Uint("order_id", o.ID),
			zap.Error(err))
	}
}
