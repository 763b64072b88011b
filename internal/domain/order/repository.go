package order

import (
	"context"
)

// Repository is implemented by the mysql package.
// Order and items are written in the caller's transaction.
type Repository interface {
	// Create inserts the order and its items, setting the ids.
	Create(ctx context.Context, order *Order) error

	// FindByID loads the order with its items and their product names.
	FindByID(ctx context.Context, id uint) (*Order, error)

	// UpdateStatus persists Status only.
	UpdateStatus(ctx context.Context, order *Order) error
}
