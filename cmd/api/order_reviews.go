package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"skilllinkup/internal/domain/reviews"
	"skilllinkup/internal/orderreview"

	"github.com/go-chi/chi/v5"
)

func parseIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// SubmitReviewPayload is the body of a review submission. Ratings are decoded as
// numbers so a fractional value reaches validation instead of failing decoding.
type SubmitReviewPayload struct {
	OverallRating       *float64 `json:"overall_rating" example:"5"`
	CommunicationRating *float64 `json:"communication_rating,omitempty" example:"4"`
	QualityRating       *float64 `json:"quality_rating,omitempty" example:"5"`
	TimelinessRating    *float64 `json:"timeliness_rating,omitempty" example:"4"`
	ValueRating         *float64 `json:"value_rating,omitempty" example:"5"`
	Content             *string  `json:"content,omitempty" example:"Clear brief, quick feedback and paid on time."`
}

func (p SubmitReviewPayload) input() reviews.Input {
	return reviews.Input{
		OverallRating:       p.OverallRating,
		CommunicationRating: p.CommunicationRating,
		QualityRating:       p.QualityRating,
		TimelinessRating:    p.TimelinessRating,
		ValueRating:         p.ValueRating,
		Content:             p.Content,
	}
}

// orderReviewError maps review exchange failures to HTTP responses.
func (app *application) orderReviewError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *reviews.ValidationError
	switch {
	case errors.As(err, &verr):
		app.badRequestResponse(w, r, err)
	case errors.Is(err, orderreview.ErrOrderNotCompleted):
		app.badRequestResponse(w, r, err)
	case errors.Is(err, orderreview.ErrOrderNotFound):
		app.notFoundResponse(w, r, err)
	case errors.Is(err, orderreview.ErrNotParty):
		app.forbiddenResponse(w, r, err)
	case errors.Is(err, orderreview.ErrAlreadyReviewed):
		app.conflictResponse(w, r, err)
	default:
		app.internalServerError(w, r, err)
	}
}

// getOrderReviewHandler godoc
//
//	@Summary		Get the reviews of an order
//	@Description	Returns the caller's own review and, once both parties have submitted, the other party's review.
//	@Tags			reviews
//	@Produce		json
//	@Param			orderID	path		int	true	"Order ID"
//	@Success		200		{object}	orderreview.OrderReviews
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		401		{object}	error
//	@Failure		403		{object}	error
//	@Failure		404		{object}	error
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/marketplace/orders/{orderID}/review [get]
func (app *application) getOrderReviewHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	orderID, err := parseIDParam(r, "orderID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	out, err := app.reviews.Get(r.Context(), orderID, user.ID)
	if err != nil {
		app.orderReviewError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, out); err != nil {
		app.internalServerError(w, r, err)
	}
}

// submitOrderReviewHandler godoc
//
//	@Summary		Review a completed order
//	@Description	Submits the caller's review. It stays hidden until the other party has reviewed too.
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			orderID	path		int					true	"Order ID"
//	@Param			payload	body		SubmitReviewPayload	true	"Review"
//	@Success		201		{object}	orderreview.SubmitResult
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		401		{object}	error
//	@Failure		403		{object}	error
//	@Failure		404		{object}	error
//	@Failure		409		{object}	error
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/marketplace/orders/{orderID}/review [post]
func (app *application) submitOrderReviewHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	orderID, err := parseIDParam(r, "orderID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload SubmitReviewPayload
	if err := readJSONLenient(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	res, err := app.reviews.Submit(r.Context(), orderID, user.ID, payload.input())
	if err != nil {
		app.orderReviewError(w, r, err)
		return
	}

	app.logger.Infow("review submitted",
		"order_id", orderID,
		"review_id", res.Review.ID,
		"both_submitted", res.BothSubmitted,
	)

	if err := writeJSON(w, http.StatusCreated, res); err != nil {
		app.internalServerError(w, r, err)
	}
}
