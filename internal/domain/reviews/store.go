package reviews

import (
	"context"
	"fmt"

	"skilllinkup/internal/infra/dbx"
)

type Store interface {
	Create(ctx context.Context, review *Review) error
	CountByOrder(ctx context.Context, orderID int64) (int, error)
	MarkOrderVisible(ctx context.Context, orderID int64) error
	ListByOrder(ctx context.Context, orderID int64) ([]Review, error)
	ListVisibleByReviewee(ctx context.Context, revieweeID int64, limit, offset int) ([]Review, int, error)
}

type Repository struct {
	q dbx.Querier
}

func NewRepository(q dbx.Querier) *Repository {
	return &Repository{q: q}
}

const reviewColumns = `
id, order_id, reviewer_id, reviewee_id, overall_rating,
communication_rating, quality_rating, timeliness_rating, value_rating,
content, is_visible, created_at`

// Create inserts a hidden review. The (order_id, reviewer_id) unique constraint is
// the only guard against double submission; hitting it yields ErrAlreadyReviewed.
func (r *Repository) Create(ctx context.Context, review *Review) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
        INSERT INTO order_reviews (
            order_id, reviewer_id, reviewee_id, overall_rating,
            communication_rating, quality_rating, timeliness_rating, value_rating, content
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, is_visible, created_at
    `
	err := r.q.QueryRow(ctx, query,
		review.OrderID,
		review.ReviewerID,
		review.RevieweeID,
		review.OverallRating,
		review.CommunicationRating,
		review.QualityRating,
		review.TimelinessRating,
		review.ValueRating,
		review.Content,
	).Scan(&review.ID, &review.IsVisible, &review.CreatedAt)
	if err != nil {
		if _, ok := dbx.IsUniqueViolation(err); ok {
			return ErrAlreadyReviewed
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (r *Repository) CountByOrder(ctx context.Context, orderID int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM order_reviews WHERE order_id = $1`, orderID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return n, nil
}

// MarkOrderVisible reveals every review on the order. Safe to repeat.
func (r *Repository) MarkOrderVisible(ctx context.Context, orderID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.q.Exec(ctx, `UPDATE order_reviews SET is_visible = true WHERE order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("mark reviews visible: %w", err)
	}
	return nil
}

func (r *Repository) ListByOrder(ctx context.Context, orderID int64) ([]Review, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `SELECT ` + reviewColumns + `
        FROM order_reviews
        WHERE order_id = $1
        ORDER BY created_at, id`

	return r.list(ctx, query, orderID)
}

func (r *Repository) ListVisibleByReviewee(ctx context.Context, revieweeID int64, limit, offset int) ([]Review, int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var total int
	err := r.q.QueryRow(ctx, `
        SELECT COUNT(*) FROM order_reviews
        WHERE reviewee_id = $1 AND is_visible`, revieweeID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count visible reviews: %w", err)
	}

	query := `SELECT ` + reviewColumns + `
        FROM order_reviews
        WHERE reviewee_id = $1 AND is_visible
        ORDER BY created_at DESC, id DESC
        LIMIT $2 OFFSET $3`

	list, err := r.list(ctx, query, revieweeID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]Review, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var rv Review
		if err := rows.Scan(
			&rv.ID,
			&rv.OrderID,
			&rv.ReviewerID,
			&rv.RevieweeID,
			&rv.OverallRating,
			&rv.CommunicationRating,
			&rv.QualityRating,
			&rv.TimelinessRating,
			&rv.ValueRating,
			&rv.Content,
			&rv.IsVisible,
			&rv.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
