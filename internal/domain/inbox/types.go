package inbox

import (
	"errors"
	"time"
)

const (
	TypeReviewReceived  = "review_received"
	TypeReviewsRevealed = "reviews_revealed"
)

var (
	ErrNotFound          = errors.New("notification not found")
	QueryTimeoutDuration = time.Second * 5
)

// Notification is an in-app inbox entry.
type Notification struct {
	ID        int64             `json:"id"`
	UserID    int64             `json:"user_id"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Link      *string           `json:"link,omitempty"`
	Data      map[string]string `json:"data,omitempty"`
	IsRead    bool              `json:"is_read"`
	CreatedAt time.Time         `json:"created_at"`
}
