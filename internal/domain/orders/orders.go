package orders

import (
	"context"
	"errors"
	"fmt"

	"skilllinkup/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Store interface {
	GetByID(ctx context.Context, id int64) (*Order, error)
	// GetByIDForUpdate locks the order row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id int64) (*Order, error)
}

type Repository struct {
	q dbx.Querier
}

func NewRepository(q dbx.Querier) *Repository {
	return &Repository{q: q}
}

const selectOrder = `
SELECT id, client_id, freelancer_id, title, status, completed_at, created_at
FROM orders
WHERE id = $1`

func (r *Repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	return r.get(ctx, selectOrder, id)
}

func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*Order, error) {
	return r.get(ctx, selectOrder+"\nFOR UPDATE", id)
}

func (r *Repository) get(ctx context.Context, query string, id int64) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var o Order
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.ClientID, &o.FreelancerID, &o.Title, &o.Status, &o.CompletedAt, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return &o, nil
}
