package reviews

import (
	"errors"
	"time"
)

var (
	ErrAlreadyReviewed   = errors.New("you have already reviewed this order")
	QueryTimeoutDuration = time.Second * 5
)

// BlindRevealThreshold is the number of reviews an order needs before either
// party may read the other's review.
const BlindRevealThreshold = 2

// BothSubmitted is the disclosure predicate shared by the write path (flip
// visibility) and the read path (include the counterpart's review).
func BothSubmitted(count int) bool {
	return count >= BlindRevealThreshold
}

// Review is one party's review of a completed order. IsVisible is only ever set by
// the blind reveal, never by the reviewer.
type Review struct {
	ID                  int64     `json:"id"`
	OrderID             int64     `json:"order_id"`
	ReviewerID          int64     `json:"reviewer_id"`
	RevieweeID          int64     `json:"reviewee_id"`
	OverallRating       int       `json:"overall_rating"`
	CommunicationRating *int      `json:"communication_rating"`
	QualityRating       *int      `json:"quality_rating"`
	TimelinessRating    *int      `json:"timeliness_rating"`
	ValueRating         *int      `json:"value_rating"`
	Content             *string   `json:"content"`
	IsVisible           bool      `json:"is_visible"`
	CreatedAt           time.Time `json:"created_at"`
}
