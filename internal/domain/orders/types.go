package orders

import (
	"errors"
	"time"
)

const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

var (
	ErrNotFound          = errors.New("order not found")
	QueryTimeoutDuration = time.Second * 5
)

// Order is an agreed transaction between a client and a freelancer. Its lifecycle
// is owned by the order service; the review exchange only reads it.
type Order struct {
	ID           int64      `json:"id"`
	ClientID     int64      `json:"client_id"`
	FreelancerID int64      `json:"freelancer_id"`
	Title        string     `json:"title"`
	Status       string     `json:"status"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (o *Order) IsCompleted() bool {
	return o.Status == StatusCompleted
}

// IsParty reports whether userID is the client or the freelancer of record.
func (o *Order) IsParty(userID int64) bool {
	return userID == o.ClientID || userID == o.FreelancerID
}

// Counterpart returns the other party on the order, or 0 if userID is not a party.
func (o *Order) Counterpart(userID int64) int64 {
	switch userID {
	case o.ClientID:
		return o.FreelancerID
	case o.FreelancerID:
		return o.ClientID
	default:
		return 0
	}
}
