package mysql

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// TxManager runs application operations in one database transaction.
// Notes:
// 1. The transaction travels in the context, repositories pick it up with getDB
// 2. fn returning an error rolls back, nil commits; a panic rolls back and re-panics
// 3. A Transaction call inside another one joins the outer transaction
type TxManager struct {
	db *gorm.DB
}

// NewTxManager creates the transaction manager.
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction executes fn inside a transaction.
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    if err := orderRepo.Create(ctx, o); err != nil {
//	        return err // rolled back
//	    }
//	    return nil // committed
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// repository is embedded by every gorm repository.
type repository struct {
	db *gorm.DB
}

// getDB returns the transaction from ctx, or the pool bound to ctx.
func (r repository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}
