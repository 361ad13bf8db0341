package database

import (
	"context"
	"fmt"

	"github.com/toogather/wabot/internal/domain/contract"
)

// instance implements DataManager interface
type instance struct {
	db        *DB
	quoteRepo contract.QuoteRepo
}

// NewInstance creates a new database instance with all repositories
func NewInstance(db *DB) contract.DataManager {
	return &instance{
		db:        db,
		quoteRepo: newQuoteRepository(db.conn),
	}
}

// Quote returns the quote repository
func (i *instance) Quote() contract.QuoteRepo {
	return i.quoteRepo
}

// WithTransaction executes a function within a database transaction
func (i *instance) WithTransaction(ctx context.Context, fn func(dm contract.DataManager) error) error {
	tx, err := i.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txInstance := &instance{quoteRepo: newQuoteRepository(tx)}
	if err := fn(txInstance); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("error rolling back transaction: %v, original error: %w", rbErr, err)
		}
		return err
	}

	return tx.Commit()
}
