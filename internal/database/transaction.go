package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Transaction wraps a GORM transaction with commit/rollback semantics.
type Transaction struct {
	tx       *gorm.DB
	finished bool
}

// NewTransaction starts a new database transaction.
func NewTransaction(ctx context.Context, db Database) (*Transaction, error) {
	tx := db.Session(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin transaction: %w", tx.Error)
	}
	return &Transaction{tx: tx}, nil
}

// Database returns a Database bound to the transaction.
func (t *Transaction) Database() Database {
	return Database{db: t.tx}
}

// Commit commits the transaction.
func (t *Transaction) Commit() error {
	if t.finished {
		return nil
	}
	t.finished = true
	if err := t.tx.Commit().Error; err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Rollback rolls back the transaction if not already finished.
func (t *Transaction) Rollback() error {
	if t.finished {
		return nil
	}
	t.finished = true
	if err := t.tx.Rollback().Error; err != nil {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

// WithTransaction executes fn within a transaction, committing on success or
// rolling back when fn returns an error or panics. fn's error is returned
// unchanged.
func WithTransaction(ctx context.Context, db Database, fn func(tx Database) error) error {
	txn, err := NewTransaction(ctx, db)
	if err != nil {
		return err
	}
	defer func() { _ = txn.Rollback() }()

	if err := fn(txn.Database()); err != nil {
		return err
	}
	return txn.Commit()
}

// WithSavepoint runs fn inside a nested transaction. When db is already bound
// to a transaction GORM issues SAVEPOINT / ROLLBACK TO, so an error from fn
// discards only fn's writes and the outer transaction stays usable.
func WithSavepoint(ctx context.Context, db Database, fn func(sp Database) error) error {
	return db.Session(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Database{db: tx})
	})
}
