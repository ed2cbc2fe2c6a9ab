package storage

import (
	"context"
	"errors"

	"skilllinkup/internal/domain/freelancers"
	"skilllinkup/internal/domain/inbox"
	"skilllinkup/internal/domain/orders"
	"skilllinkup/internal/domain/pushtokens"
	"skilllinkup/internal/domain/reviews"
	"skilllinkup/internal/domain/users"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNoPool = errors.New("storage container has no pool")

type Container struct {
	pool        *pgxpool.Pool
	Users       users.Store
	Orders      orders.Store
	Reviews     reviews.Store
	Freelancers freelancers.Store
	Inbox       inbox.Store
	PushTokens  pushtokens.Store
}

func NewContainer(db *pgxpool.Pool) *Container {
	return &Container{
		pool:        db,
		Users:       users.NewRepository(db),
		Orders:      orders.NewRepository(db),
		Reviews:     reviews.NewRepository(db),
		Freelancers: freelancers.NewRepository(db),
		Inbox:       inbox.NewRepository(db),
		PushTokens:  pushtokens.NewRepository(db),
	}
}

// ReviewTx is the tx-scoped set of repos a review submission writes through.
type ReviewTx struct {
	Orders      orders.Store
	Reviews     reviews.Store
	Freelancers freelancers.Store
}

// WithReviewTx runs fn in one transaction: the review insert, the visibility flip and
// the aggregate recompute commit together or not at all.
func (c *Container) WithReviewTx(ctx context.Context, fn func(tx *ReviewTx) error) error {
	if c.pool == nil {
		return ErrNoPool
	}

	tx, err := c.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback(ctx) // no-op after commit
	}()

	s := &ReviewTx{
		Orders:      orders.NewRepository(tx),
		Reviews:     reviews.NewRepository(tx),
		Freelancers: freelancers.NewRepository(tx),
	}

	if err := fn(s); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
