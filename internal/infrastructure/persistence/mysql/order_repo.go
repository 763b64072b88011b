package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/catalog/internal/domain/order"
	apperrors "github.com/xiebiao/catalog/pkg/errors"
)

// orderRepository stores the order aggregate.
// Notes:
//  1. Order and items are written together, callers pass a transaction in ctx
//  2. FindByID preloads items and their products in two extra queries, no N+1
type orderRepository struct {
	repository
}

// NewOrderRepository creates the order repository.
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{repository{db: db}}
}

func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	return r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		model := &OrderModel{
			Moment:   o.Moment,
			Status:   string(o.Status),
			ClientID: o.ClientID,
		}
		if err := tx.Omit("Items", "Client").Create(model).Error; err != nil {
			if isForeignKeyError(err) {
				return apperrors.Conflict(err)
			}
			return apperrors.Wrap(err, "Create order failed")
		}

		items := make([]OrderItemModel, len(o.Items))
		for i, item := range o.Items {
			items[i] = OrderItemModel{
				OrderID:   model.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
			}
		}
		if len(items) > 0 {
			if err := tx.Omit("Product").Create(&items).Error; err != nil {
				if isForeignKeyError(err) {
					return apperrors.Conflict(err)
				}
				return apperrors.Wrap(err, "Create order items failed")
			}
		}

		o.ID = model.ID
		for i := range o.Items {
			o.Items[i].OrderID = model.ID
		}
		return nil
	})
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel
	err := r.getDB(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.product_id") }).
		Preload("Items.Product").
		First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "Find order failed")
	}
	return toOrderEntity(&model), nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, o *order.Order) error {
	result := r.getDB(ctx).Model(&OrderModel{}).Where("id = ?", o.ID).Update("status", string(o.Status))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "Update order status failed")
	}
	return nil
}

func toOrderEntity(m *OrderModel) *order.Order {
	o := &order.Order{
		ID:       m.ID,
		Moment:   m.Moment,
		Status:   order.Status(m.Status),
		ClientID: m.ClientID,
		Items:    make([]order.Item, len(m.Items)),
	}
	for i, item := range m.Items {
		o.Items[i] = order.Item{
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
		if item.Product != nil {
			o.Items[i].ProductName = item.Product.Name
		}
	}
	return o
}
