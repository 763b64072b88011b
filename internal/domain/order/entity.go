package order

import (
	"time"
)

// Status is the order lifecycle state, stored as its name.
type Status string

const (
	StatusWaitingPayment Status = "WAITING_PAYMENT"
	StatusPaid           Status = "PAID"
	StatusShipped        Status = "SHIPPED"
	StatusDelivered      Status = "DELIVERED"
	StatusCanceled       Status = "CANCELED"
)

// transitions is the state machine. DELIVERED and CANCELED are terminal.
var transitions = map[Status][]Status{
	StatusWaitingPayment: {StatusPaid, StatusCanceled},
	StatusPaid:           {StatusShipped, StatusCanceled},
	StatusShipped:        {StatusDelivered},
}

// Order is the order aggregate root, Item is only reachable through it.
type Order struct {
	ID       uint
	Moment   time.Time
	Status   Status
	ClientID uint
	Items    []Item
}

// Item is one order line.
// Notes:
//  1. Price is the product price when the order was placed, later price
//     changes never alter existing orders
//  2. ProductID references the product with ON DELETE RESTRICT, so an ordered
//     product cannot be deleted
type Item struct {
	OrderID     uint
	ProductID   uint
	ProductName string
	Quantity    int
	Price       float64
}

// Subtotal is Price * Quantity.
func (i Item) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// NewOrder creates an order waiting for payment.
func NewOrder(clientID uint, items []Item) *Order {
	return &Order{
		Moment:   time.Now(),
		Status:   StatusWaitingPayment,
		ClientID: clientID,
		Items:    items,
	}
}

// CanTransitionTo checks the state machine.
func (o *Order) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[o.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo moves the order to target or returns ErrInvalidStatusTransition.
func (o *Order) TransitionTo(target Status) error {
	if !o.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}
	o.Status = target
	return nil
}

func (o *Order) Pay() error {
	return o.TransitionTo(StatusPaid)
}

func (o *Order) Ship() error {
	return o.TransitionTo(StatusShipped)
}

func (o *Order) Deliver() error {
	return o.TransitionTo(StatusDelivered)
}

func (o *Order) Cancel() error {
	return o.TransitionTo(StatusCanceled)
}

// Total sums the item subtotals.
func (o *Order) Total() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}

// IsOwnedBy reports whether userID placed the order.
func (o *Order) IsOwnedBy(userID uint) bool {
	return o.ClientID == userID
}
