// Package tx is the transaction boundary seen by application services.
package tx

import "context"

// Manager runs fn in one transaction carried by the context.
// *mysql.TxManager implements it.
type Manager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Passthrough calls fn directly. Used by service tests with in-memory fakes.
type Passthrough struct{}

func (Passthrough) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
