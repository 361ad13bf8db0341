package database

import (
	"database/sql"
	"fmt"

	"github.com/toogather/wabot/internal/domain/contract"
	"github.com/toogather/wabot/internal/domain/entity"
)

type quoteRepository struct {
	db dbConn
}

func newQuoteRepository(db dbConn) contract.QuoteRepo {
	return &quoteRepository{db: db}
}

func (r *quoteRepository) Create(quote *entity.Quote) error {
	query := `INSERT INTO quotes (text, author) VALUES (?, ?)`

	result, err := r.db.Exec(query, quote.Text, quote.Author)
	if err != nil {
		return fmt.Errorf("failed to create quote: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	quote.ID = id
	return nil
}

func (r *quoteRepository) Random() (*entity.Quote, error) {
	quote := &entity.Quote{}
	query := `
		SELECT id, text, author, created_at
		FROM quotes
		ORDER BY RANDOM()
		LIMIT 1
	`

	err := r.db.QueryRow(query).Scan(
		&quote.ID,
		&quote.Text,
		&quote.Author,
		&quote.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get random quote: %w", err)
	}

	return quote, nil
}

func (r *quoteRepository) Count() (int64, error) {
	var count int64
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM quotes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count quotes: %w", err)
	}
	return count, nil
}
