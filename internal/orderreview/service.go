// Package orderreview runs the blind review exchange between the two parties of a
// completed order: each review stays private until both have been submitted.
package orderreview

import (
	"context"
	"errors"
	"fmt"

	"skilllinkup/internal/domain/freelancers"
	"skilllinkup/internal/domain/orders"
	"skilllinkup/internal/domain/reviews"
	"skilllinkup/internal/domain/storage"

	"go.uber.org/zap"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderNotCompleted = errors.New("reviews can only be left on completed orders")
	ErrNotParty          = errors.New("you are not a party to this order")
	ErrAlreadyReviewed   = reviews.ErrAlreadyReviewed
)

const (
	messageRevealed = "Review submitted. Both reviews are now visible."
	messagePending  = "Review submitted. It will become visible once the other party submits theirs."
)

// UnitOfWork is implemented by *storage.Container.
type UnitOfWork interface {
	WithReviewTx(ctx context.Context, fn func(tx *storage.ReviewTx) error) error
}

// Notifier receives best-effort side effects after a review commits.
type Notifier interface {
	ReviewSubmitted(ctx context.Context, evt ReviewSubmitted) error
}

// RatingInvalidator drops any cached copy of a freelancer's aggregate.
type RatingInvalidator interface {
	Invalidate(ctx context.Context, freelancerID int64) error
}

// ReviewSubmitted describes a committed review for the notification side channel.
type ReviewSubmitted struct {
	OrderID       int64
	OrderTitle    string
	ReviewID      int64
	ReviewerID    int64
	RevieweeID    int64
	FreelancerID  int64
	OverallRating int
	BothSubmitted bool
	Aggregate     *freelancers.Aggregate
}

type SubmitResult struct {
	Review        *reviews.Review `json:"review"`
	BothSubmitted bool            `json:"both_submitted"`
	Message       string          `json:"message"`
}

type OrderReviews struct {
	MyReview      *reviews.Review `json:"my_review"`
	OtherReview   *reviews.Review `json:"other_review"`
	TotalReviews  int             `json:"total_reviews"`
	BothSubmitted bool            `json:"both_submitted"`
}

type Service struct {
	uow      UnitOfWork
	orders   orders.Store
	reviews  reviews.Store
	notifier Notifier
	ratings  RatingInvalidator
	logger   *zap.SugaredLogger
}

func NewService(uow UnitOfWork, orders orders.Store, reviews reviews.Store, notifier Notifier, ratings RatingInvalidator, logger *zap.SugaredLogger) *Service {
	return &Service{
		uow:      uow,
		orders:   orders,
		reviews:  reviews,
		notifier: notifier,
		ratings:  ratings,
		logger:   logger,
	}
}

// Submit records actorID's review of the order. Preconditions are checked in order:
// the order exists, it is completed, the actor is a party, the input is valid.
func (s *Service) Submit(ctx context.Context, orderID, actorID int64, in reviews.Input) (*SubmitResult, error) {
	var (
		order     *orders.Order
		review    *reviews.Review
		revealed  bool
		aggregate *freelancers.Aggregate
	)

	err := s.uow.WithReviewTx(ctx, func(tx *storage.ReviewTx) error {
		o, err := tx.Orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			if errors.Is(err, orders.ErrNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if !o.IsCompleted() {
			return ErrOrderNotCompleted
		}
		if !o.IsParty(actorID) {
			return ErrNotParty
		}
		if err := in.Validate(); err != nil {
			return err
		}

		rv := in.ToReview(o.ID, actorID, o.Counterpart(actorID))
		if err := tx.Reviews.Create(ctx, rv); err != nil {
			return err
		}

		// recounted on every submission rather than tracked, so it cannot drift
		n, err := tx.Reviews.CountByOrder(ctx, o.ID)
		if err != nil {
			return err
		}

		if reviews.BothSubmitted(n) {
			if err := tx.Reviews.MarkOrderVisible(ctx, o.ID); err != nil {
				return err
			}
			rv.IsVisible = true

			agg, err := tx.Freelancers.Recompute(ctx, o.FreelancerID)
			if err != nil {
				return fmt.Errorf("recompute freelancer rating: %w", err)
			}
			aggregate = agg
			revealed = true
		}

		order, review = o, rv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, order, review, revealed, aggregate)

	msg := messagePending
	if revealed {
		msg = messageRevealed
	}
	return &SubmitResult{Review: review, BothSubmitted: revealed, Message: msg}, nil
}

// afterCommit never fails the submission; the review is already durable. It runs
// on a context detached from the request, so a client that disconnects after the
// commit cannot leave a stale rating in the cache.
func (s *Service) afterCommit(ctx context.Context, o *orders.Order, rv *reviews.Review, revealed bool, agg *freelancers.Aggregate) {
	ctx = context.WithoutCancel(ctx)

	if revealed && s.ratings != nil {
		if err := s.ratings.Invalidate(ctx, o.FreelancerID); err != nil {
			s.logger.Warnw("rating cache invalidation failed", "freelancer_id", o.FreelancerID, "error", err)
		}
	}

	if s.notifier == nil {
		return
	}
	evt := ReviewSubmitted{
		OrderID:       o.ID,
		OrderTitle:    o.Title,
		ReviewID:      rv.ID,
		ReviewerID:    rv.ReviewerID,
		RevieweeID:    rv.RevieweeID,
		FreelancerID:  o.FreelancerID,
		OverallRating: rv.OverallRating,
		BothSubmitted: revealed,
		Aggregate:     agg,
	}
	if err := s.notifier.ReviewSubmitted(ctx, evt); err != nil {
		s.logger.Warnw("review notification failed", "order_id", o.ID, "review_id", rv.ID, "error", err)
	}
}

// Get returns the review state of an order as seen by actorID. The counterpart's
// review is only included once both parties have submitted.
func (s *Service) Get(ctx context.Context, orderID, actorID int64) (*OrderReviews, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !o.IsParty(actorID) {
		return nil, ErrNotParty
	}

	list, err := s.reviews.ListByOrder(ctx, o.ID)
	if err != nil {
		return nil, err
	}

	out := &OrderReviews{
		TotalReviews:  len(list),
		BothSubmitted: reviews.BothSubmitted(len(list)),
	}
	for i := range list {
		rv := &list[i]
		switch {
		case rv.ReviewerID == actorID:
			out.MyReview = rv
		case out.BothSubmitted:
			out.OtherReview = rv
		}
	}
	return out, nil
}
