package freelancers

import (
	"context"
	"errors"
	"fmt"

	"skilllinkup/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Store interface {
	Recompute(ctx context.Context, freelancerID int64) (*Aggregate, error)
	Get(ctx context.Context, freelancerID int64) (*Aggregate, error)
}

type Repository struct {
	q dbx.Querier
}

func NewRepository(q dbx.Querier) *Repository {
	return &Repository{q: q}
}

// Recompute rebuilds the stored aggregate from the visible review rows and returns it.
// Running it twice over the same rows writes the same values.
//
// The profile row is locked before the ratings are read. Two reveals on different
// orders of the same freelancer each hold only their own order lock, so without it
// the later writer would store a count computed before the earlier one committed.
// Under READ COMMITTED the ratings query takes its snapshot after the lock is
// granted and sees the other transaction's flip.
func (r *Repository) Recompute(ctx context.Context, freelancerID int64) (*Aggregate, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	if err := r.lockProfile(ctx, freelancerID); err != nil {
		return nil, err
	}

	rows, err := r.q.Query(ctx, `
        SELECT overall_rating FROM order_reviews
        WHERE reviewee_id = $1 AND is_visible`, freelancerID)
	if err != nil {
		return nil, fmt.Errorf("query visible ratings: %w", err)
	}
	ratings, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, fmt.Errorf("collect visible ratings: %w", err)
	}

	agg := ComputeAggregate(freelancerID, ratings)

	_, err = r.q.Exec(ctx, `
        UPDATE freelancer_profiles
        SET rating_avg = $2,
            rating_count = $3,
            rating_updated_at = NOW()
        WHERE user_id = $1`,
		freelancerID, agg.Average, agg.Count)
	if err != nil {
		return nil, fmt.Errorf("store aggregate rating: %w", err)
	}

	return &agg, nil
}

// lockProfile makes sure the profile row exists and holds its row lock until the
// surrounding transaction ends.
func (r *Repository) lockProfile(ctx context.Context, freelancerID int64) error {
	_, err := r.q.Exec(ctx, `
        INSERT INTO freelancer_profiles (user_id)
        VALUES ($1)
        ON CONFLICT (user_id) DO NOTHING`, freelancerID)
	if err != nil {
		return fmt.Errorf("ensure freelancer profile: %w", err)
	}

	_, err = r.q.Exec(ctx, `
        SELECT 1 FROM freelancer_profiles
        WHERE user_id = $1
        FOR UPDATE`, freelancerID)
	if err != nil {
		return fmt.Errorf("lock freelancer profile: %w", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, freelancerID int64) (*Aggregate, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	agg := Aggregate{FreelancerID: freelancerID}
	err := r.q.QueryRow(ctx, `
        SELECT rating_avg::float8, rating_count
        FROM freelancer_profiles
        WHERE user_id = $1`, freelancerID).Scan(&agg.Average, &agg.Count)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get aggregate rating: %w", err)
	}
	return &agg, nil
}
