package contract

import (
	"context"

	"github.com/toogather/wabot/internal/domain/entity"
)

// DataManager aggregates all repository interfaces
type DataManager interface {
	WithTransaction(ctx context.Context, fn func(dm DataManager) error) error
	Quote() QuoteRepo
}

// QuoteRepo defines the contract for the quote repository
type QuoteRepo interface {
	Create(quote *entity.Quote) error
	Random() (*entity.Quote, error)
	Count() (int64, error)
}
