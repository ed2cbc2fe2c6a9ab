package orderreview

import (
	"context"
	"sync"
	"time"

	"skilllinkup/internal/domain/freelancers"
	"skilllinkup/internal/domain/orders"
	"skilllinkup/internal/domain/reviews"
	"skilllinkup/internal/domain/storage"
)

// memState is a tiny in-memory database. WithReviewTx works on a copy of it and
// only swaps the copy in when fn succeeds, so failed submissions leave no rows.
type memState struct {
	orders     map[int64]orders.Order
	reviews    []reviews.Review
	aggregates map[int64]freelancers.Aggregate
	nextID     int64
}

func (s *memState) clone() *memState {
	c := &memState{
		orders:     make(map[int64]orders.Order, len(s.orders)),
		reviews:    append([]reviews.Review(nil), s.reviews...),
		aggregates: make(map[int64]freelancers.Aggregate, len(s.aggregates)),
		nextID:     s.nextID,
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.aggregates {
		c.aggregates[k] = v
	}
	return c
}

type memDB struct {
	mu    sync.Mutex
	state *memState
}

func newMemDB(list ...orders.Order) *memDB {
	st := &memState{
		orders:     map[int64]orders.Order{},
		aggregates: map[int64]freelancers.Aggregate{},
	}
	for _, o := range list {
		st.orders[o.ID] = o
	}
	return &memDB{state: st}
}

// WithReviewTx holds one lock for the whole tx. That is stricter than the order
// and profile row locks it stands in for; the cross-order profile locking is
// covered in the freelancers package.
func (db *memDB) WithReviewTx(ctx context.Context, fn func(tx *storage.ReviewTx) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	work := db.state.clone()
	tx := &storage.ReviewTx{
		Orders:      memOrders{work},
		Reviews:     memReviews{work},
		Freelancers: memFreelancers{work},
	}
	if err := fn(tx); err != nil {
		return err
	}
	db.state = work
	return nil
}

func (db *memDB) snapshot() *memState {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.state.clone()
}

func (db *memDB) ordersStore() orders.Store   { return lockedOrders{db} }
func (db *memDB) reviewsStore() reviews.Store { return lockedReviews{db} }

type memOrders struct{ s *memState }

func (m memOrders) GetByID(_ context.Context, id int64) (*orders.Order, error) {
	o, ok := m.s.orders[id]
	if !ok {
		return nil, orders.ErrNotFound
	}
	return &o, nil
}

func (m memOrders) GetByIDForUpdate(ctx context.Context, id int64) (*orders.Order, error) {
	return m.GetByID(ctx, id)
}

type memReviews struct{ s *memState }

func (m memReviews) Create(_ context.Context, rv *reviews.Review) error {
	for _, r := range m.s.reviews {
		if r.OrderID == rv.OrderID && r.ReviewerID == rv.ReviewerID {
			return reviews.ErrAlreadyReviewed
		}
	}
	m.s.nextID++
	rv.ID = m.s.nextID
	rv.IsVisible = false
	rv.CreatedAt = time.Now()
	m.s.reviews = append(m.s.reviews, *rv)
	return nil
}

func (m memReviews) CountByOrder(_ context.Context, orderID int64) (int, error) {
	n := 0
	for _, r := range m.s.reviews {
		if r.OrderID == orderID {
			n++
		}
	}
	return n, nil
}

func (m memReviews) MarkOrderVisible(_ context.Context, orderID int64) error {
	for i := range m.s.reviews {
		if m.s.reviews[i].OrderID == orderID {
			m.s.reviews[i].IsVisible = true
		}
	}
	return nil
}

func (m memReviews) ListByOrder(_ context.Context, orderID int64) ([]reviews.Review, error) {
	var out []reviews.Review
	for _, r := range m.s.reviews {
		if r.OrderID == orderID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m memReviews) ListVisibleByReviewee(_ context.Context, revieweeID int64, limit, offset int) ([]reviews.Review, int, error) {
	var all []reviews.Review
	for _, r := range m.s.reviews {
		if r.RevieweeID == revieweeID && r.IsVisible {
			all = append(all, r)
		}
	}
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := min(offset+limit, total)
	return all[offset:end], total, nil
}

type memFreelancers struct{ s *memState }

func (m memFreelancers) Recompute(_ context.Context, freelancerID int64) (*freelancers.Aggregate, error) {
	var ratings []int
	for _, r := range m.s.reviews {
		if r.RevieweeID == freelancerID && r.IsVisible {
			ratings = append(ratings, r.OverallRating)
		}
	}
	agg := freelancers.ComputeAggregate(freelancerID, ratings)
	m.s.aggregates[freelancerID] = agg
	return &agg, nil
}

func (m memFreelancers) Get(_ context.Context, freelancerID int64) (*freelancers.Aggregate, error) {
	agg := m.s.aggregates[freelancerID]
	agg.FreelancerID = freelancerID
	return &agg, nil
}

// read-side stores used outside a transaction

type lockedOrders struct{ db *memDB }

func (l lockedOrders) GetByID(ctx context.Context, id int64) (*orders.Order, error) {
	return memOrders{l.db.snapshot()}.GetByID(ctx, id)
}

func (l lockedOrders) GetByIDForUpdate(ctx context.Context, id int64) (*orders.Order, error) {
	return l.GetByID(ctx, id)
}

type lockedReviews struct{ db *memDB }

func (l lockedReviews) Create(context.Context, *reviews.Review) error {
	panic("writes go through WithReviewTx")
}

func (l lockedReviews) CountByOrder(ctx context.Context, orderID int64) (int, error) {
	return memReviews{l.db.snapshot()}.CountByOrder(ctx, orderID)
}

func (l lockedReviews) MarkOrderVisible(context.Context, int64) error {
	panic("writes go through WithReviewTx")
}

func (l lockedReviews) ListByOrder(ctx context.Context, orderID int64) ([]reviews.Review, error) {
	return memReviews{l.db.snapshot()}.ListByOrder(ctx, orderID)
}

func (l lockedReviews) ListVisibleByReviewee(ctx context.Context, revieweeID int64, limit, offset int) ([]reviews.Review, int, error) {
	return memReviews{l.db.snapshot()}.ListVisibleByReviewee(ctx, revieweeID, limit, offset)
}
