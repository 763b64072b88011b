package order

import (
	"fmt"

	apperrors "github.com/xiebiao/catalog/pkg/errors"
)

var (
	// ErrOrderNotFound is returned for a missing order.
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "Entity not found")

	// ErrInvalidStatusTransition rejects a move the state machine does not allow.
	ErrInvalidStatusTransition = apperrors.ErrInvalidOrderStatus

	// ErrEmptyItems rejects an order without items.
	ErrEmptyItems = apperrors.Validation(apperrors.FieldError{
		FieldName: "items",
		Message:   "Order must have at least one item",
	})
)

// OrderIDNotFound reports a missing order by id.
func OrderIDNotFound(id uint) *apperrors.AppError {
	return ErrOrderNotFound.WithMessage(fmt.Sprintf("Id not found %d", id))
}

// InvalidQuantity is the field error for items[i].quantity.
func InvalidQuantity(index int) *apperrors.AppError {
	return apperrors.Validation(apperrors.FieldError{
		FieldName: fmt.Sprintf("items[%d].quantity", index),
		Message:   "Quantity must be positive",
	})
}
