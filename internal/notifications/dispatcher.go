package notifications

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"skilllinkup/internal/domain/inbox"
	"skilllinkup/internal/domain/pushtokens"
	"skilllinkup/internal/domain/users"
	"skilllinkup/internal/events"
	"skilllinkup/internal/mailer"
	"skilllinkup/internal/orderreview"

	"github.com/9ssi7/exponent"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const DefaultTimeout = 15 * time.Second

// ReviewEvent is the payload published on events.ReviewEventsChannel.
type ReviewEvent struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	OrderID       int64     `json:"order_id"`
	ReviewID      int64     `json:"review_id"`
	ReviewerID    int64     `json:"reviewer_id"`
	RevieweeID    int64     `json:"reviewee_id"`
	FreelancerID  int64     `json:"freelancer_id"`
	OverallRating int       `json:"overall_rating"`
	BothSubmitted bool      `json:"both_submitted"`
	RatingAverage *float64  `json:"rating_average,omitempty"`
	RatingCount   *int      `json:"rating_count,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type Config struct {
	FrontendURL string
	Timeout     time.Duration
}

// Dispatcher fans a committed review out to the inbox, Expo push, email and the
// review_events channel. Every step is best-effort and runs off the request path.
type Dispatcher struct {
	inbox  inbox.Store
	tokens pushtokens.Store
	users  users.Store
	mailer mailer.Client
	push   PushSender
	events events.Publisher
	logger *zap.SugaredLogger
	cfg    Config

	wg sync.WaitGroup
}

func NewDispatcher(
	inboxStore inbox.Store,
	tokens pushtokens.Store,
	usersStore users.Store,
	mail mailer.Client,
	push PushSender,
	publisher events.Publisher,
	logger *zap.SugaredLogger,
	cfg Config,
) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Dispatcher{
		inbox:  inboxStore,
		tokens: tokens,
		users:  usersStore,
		mailer: mail,
		push:   push,
		events: publisher,
		logger: logger,
		cfg:    cfg,
	}
}

// CallAsync runs fn on a tracked goroutine with its own timeout, detached from the
// caller's cancellation. Errors and panics are logged.
func (d *Dispatcher) CallAsync(name string, fn func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.logger.Errorw("notification panic", "job", name, "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.Timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			d.logger.Warnw("notification delivery incomplete", "job", name, "error", err)
		}
	}()
}

// Wait blocks until in-flight deliveries finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReviewSubmitted implements orderreview.Notifier. It never blocks on delivery.
func (d *Dispatcher) ReviewSubmitted(_ context.Context, evt orderreview.ReviewSubmitted) error {
	d.CallAsync("review_submitted", func(ctx context.Context) error {
		return d.deliverReview(ctx, evt)
	})
	return nil
}

type recipient struct {
	userID int64
	kind   string
	title  string
	body   string
}

func (d *Dispatcher) recipients(evt orderreview.ReviewSubmitted) []recipient {
	if !evt.BothSubmitted {
		return []recipient{{
			userID: evt.RevieweeID,
			kind:   inbox.TypeReviewReceived,
			title:  "You received a review",
			body:   fmt.Sprintf("The other party on %q left you a review. Submit yours to see it.", evt.OrderTitle),
		}}
	}

	body := fmt.Sprintf("Both reviews for %q are now visible.", evt.OrderTitle)
	return []recipient{
		{userID: evt.RevieweeID, kind: inbox.TypeReviewsRevealed, title: "Reviews are now visible", body: body},
		{userID: evt.ReviewerID, kind: inbox.TypeReviewsRevealed, title: "Reviews are now visible", body: body},
	}
}

func (d *Dispatcher) orderLink(orderID int64) string {
	return fmt.Sprintf("%s/orders/%d/review", d.cfg.FrontendURL, orderID)
}

func (d *Dispatcher) deliverReview(ctx context.Context, evt orderreview.ReviewSubmitted) error {
	var errs error
	rcpts := d.recipients(evt)

	orderID := strconv.FormatInt(evt.OrderID, 10)
	link := d.orderLink(evt.OrderID)

	for _, r := range rcpts {
		n := &inbox.Notification{
			UserID: r.userID,
			Type:   r.kind,
			Title:  r.title,
			Body:   r.body,
			Link:   &link,
			Data:   map[string]string{"order_id": orderID},
		}
		if err := d.inbox.Create(ctx, n); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("inbox for user %d: %w", r.userID, err))
		}
	}

	errs = multierr.Append(errs, d.sendPush(ctx, rcpts, orderID))
	errs = multierr.Append(errs, d.sendEmail(ctx, evt, link))
	errs = multierr.Append(errs, d.publish(ctx, evt))

	return errs
}

func (d *Dispatcher) sendPush(ctx context.Context, rcpts []recipient, orderID string) error {
	if d.push == nil || d.tokens == nil {
		return nil
	}

	ids := make([]int64, 0, len(rcpts))
	for _, r := range rcpts {
		ids = append(ids, r.userID)
	}
	tokensMap, err := d.tokens.GetTokensByUserIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load push tokens: %w", err)
	}

	var msgs []*exponent.Message
	for _, r := range rcpts {
		tokens := dedupe(tokensMap[r.userID])
		if len(tokens) == 0 {
			continue
		}
		msgs = append(msgs, buildMessages(tokens, r.title, r.body, map[string]string{
			"type":     r.kind,
			"order_id": orderID,
			"screen":   fmt.Sprintf("orders/%s/review", orderID),
		})...)
	}
	if len(msgs) == 0 {
		return nil
	}

	if _, err := d.push.Publish(ctx, msgs); err != nil {
		return fmt.Errorf("expo publish: %w", err)
	}
	return nil
}

type emailData struct {
	Username      string
	OrderTitle    string
	OrderURL      string
	OverallRating int
}

// sendEmail only ever mails the reviewee.
func (d *Dispatcher) sendEmail(ctx context.Context, evt orderreview.ReviewSubmitted, link string) error {
	if d.mailer == nil || d.users == nil {
		return nil
	}

	contact, err := d.users.GetContact(ctx, evt.RevieweeID)
	if err != nil {
		return fmt.Errorf("load reviewee contact: %w", err)
	}
	if contact.Email == "" {
		return nil
	}

	tmpl := mailer.ReviewReceivedTemplate
	if evt.BothSubmitted {
		tmpl = mailer.ReviewsRevealedTemplate
	}

	data := emailData{
		Username:      contact.FirstName,
		OrderTitle:    evt.OrderTitle,
		OrderURL:      link,
		OverallRating: evt.OverallRating,
	}
	if err := d.mailer.Send(tmpl, contact.FirstName, contact.Email, data); err != nil {
		return fmt.Errorf("send %s: %w", tmpl, err)
	}
	return nil
}

func (d *Dispatcher) publish(ctx context.Context, evt orderreview.ReviewSubmitted) error {
	kind := inbox.TypeReviewReceived
	if evt.BothSubmitted {
		kind = inbox.TypeReviewsRevealed
	}

	payload := ReviewEvent{
		EventID:       uuid.NewString(),
		Type:          kind,
		OrderID:       evt.OrderID,
		ReviewID:      evt.ReviewID,
		ReviewerID:    evt.ReviewerID,
		RevieweeID:    evt.RevieweeID,
		FreelancerID:  evt.FreelancerID,
		OverallRating: evt.OverallRating,
		BothSubmitted: evt.BothSubmitted,
		OccurredAt:    time.Now().UTC(),
	}
	if evt.Aggregate != nil {
		avg, count := evt.Aggregate.Average, evt.Aggregate.Count
		payload.RatingAverage = &avg
		payload.RatingCount = &count
	}

	return d.events.Publish(ctx, events.ReviewEventsChannel, payload)
}
