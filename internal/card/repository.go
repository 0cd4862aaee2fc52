package card

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// rowQuerier is the subset of pgxpool.Pool the repository needs.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository reads cards from Postgres.
type Repository struct {
	db rowQuerier
}

// NewRepository constructs a card repository over a pgx pool.
func NewRepository(db rowQuerier) *Repository {
	return &Repository{db: db}
}

const getCardQuery = `
SELECT id, prompt, content, canonical_answer, acceptable_answers, created_at
FROM cards
WHERE id = $1
`

// GetByID fetches one card, or ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id string) (*Card, error) {
	var c Card
	err := r.db.QueryRow(ctx, getCardQuery, id).Scan(
		&c.ID,
		&c.Prompt,
		&c.Content,
		&c.CanonicalAnswer,
		&c.AcceptableAnswers,
		&c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("card %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get card: %w", err)
	}
	return &c, nil
}
