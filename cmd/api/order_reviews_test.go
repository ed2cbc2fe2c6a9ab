package main

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"skilllinkup/internal/domain/reviews"
	"skilllinkup/internal/orderreview"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const reviewBody = `{"overall_rating":5,"quality_rating":4,"content":"Clear brief, quick feedback and paid on time."}`

func TestSubmitOrderReview_RequiresToken(t *testing.T) {
	ta := newTestApplication(t)

	rr := ta.do(t, http.MethodPost, "/v1/marketplace/orders/7/review", "", reviewBody)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ta.do(t, http.MethodPost, "/v1/marketplace/orders/7/review", "Bearer not-a-jwt", reviewBody)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	ta.reviews.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitOrderReview_UnknownUserIsUnauthorized(t *testing.T) {
	ta := newTestApplication(t)

	rr := ta.do(t, http.MethodPost, "/v1/marketplace/orders/7/review", ta.bearer(t, 999), reviewBody)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSubmitOrderReview_Created(t *testing.T) {
	ta := newTestApplication(t)

	content := "Clear brief, quick feedback and paid on time."
	quality := 4
	ta.reviews.On("Submit", mock.Anything, int64(7), testClientID, mock.MatchedBy(func(in reviews.Input) bool {
		return in.OverallRating != nil && *in.OverallRating == 5 &&
			in.QualityRating != nil && *in.QualityRating == 4 &&
			in.CommunicationRating == nil &&
			in.Content != nil && *in.Content == content
	})).Return(&orderreview.SubmitResult{
		Review: &reviews.Review{
			ID:            1,
			OrderID:       7,
			ReviewerID:    testClientID,
			RevieweeID:    testFreelancerID,
			OverallRating: 5,
			QualityRating: &quality,
			Content:       &content,
		},
		Message: "Review submitted. It will become visible once the other party submits theirs.",
	}, nil)

	rr := ta.do(t, http.MethodPost, "/v1/marketplace/orders/7/review", ta.bearer(t, testClientID), reviewBody)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	body := decodeBody(t, rr)
	assert.NotContains(t, body, "data")
	assert.Equal(t, false, body["both_submitted"])
	assert.Contains(t, body["message"], "once the other party submits")

	review := body["review"].(map[string]any)
	assert.Equal(t, float64(1), review["id"])
	assert.Equal(t, float64(20), review["reviewee_id"])
	assert.Equal(t, false, review["is_visible"])
	assert.Nil(t, review["communication_rating"])

	ta.reviews.AssertExpectations(t)
}

func TestSubmitOrderReview_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &reviews.ValidationError{Field: "overall_rating", Message: "must be a whole number between 1 and 5"}, http.StatusBadRequest},
		{"not completed", orderreview.ErrOrderNotCompleted, http.StatusBadRequest},
		{"not a party", orderreview.ErrNotParty, http.StatusForbidden},
		{"missing order", orderreview.ErrOrderNotFound, http.StatusNotFound},
		{"duplicate", orderreview.ErrAlreadyReviewed, http.StatusConflict},
		{"wrapped duplicate", fmt.Errorf("insert: %w", reviews.ErrAlreadyReviewed), http.StatusConflict},
		{"storage", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ta := newTestApplication(t)
			ta.reviews.On("Submit", mock.Anything, int64(7), testClientID, mock.Anything).Return(nil, tc.err)

			rr := ta.do(t, http.MethodPost, "/v1/marketplace/orders/7/review", ta.bearer(t, testClientID), reviewBody)
			assert.Equal(t, tc.status, rr.Code)

			body := decodeBody(t, rr)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, float64(tc.status), body["status"])
			if tc.status == http.StatusInternalServerError {
				assert.NotContains(t, body["message"], "connection reset")
			}
		})
	}
}

func TestSubmitOrderReview_BadRequestBeforeService(t *testing.T) {
	ta := newTestApplication(t)
	token := ta.bearer(t, testClientID)

	rr := ta.do(t, http.MethodPost, "/v1/marketplace/orders/abc/review", token, reviewBody)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ta.do(t, http.MethodPost, "/v1/marketplace/orders/0/review", token, reviewBody)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ta.do(t, http.MethodPost, "/v1/marketplace/orders/7/review", token, `{"overall_rating":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ta.do(t, http.MethodPost, "/v1/marketplace/orders/7/review", token, `{"overall_rating":"five"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeBody(t, rr)["message"], "overall_rating")

	ta.reviews.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitOrderReview_IgnoresUnknownKeys(t *testing.T) {
	ta := newTestApplication(t)

	ta.reviews.On("Submit", mock.Anything, int64(404), testClientID, mock.MatchedBy(func(in reviews.Input) bool {
		return in.OverallRating != nil && *in.OverallRating == 5
	})).Return(nil, orderreview.ErrOrderNotFound)
	ta.reviews.On("Submit", mock.Anything, int64(7), testClientID, mock.Anything).Return(&orderreview.SubmitResult{
		Review:  &reviews.Review{ID: 1, OrderID: 7, ReviewerID: testClientID, RevieweeID: testFreelancerID, OverallRating: 5},
		Message: "Review submitted. It will become visible once the other party submits theirs.",
	}, nil)

	// the missing order is still reported, not the extra key
	rr := ta.do(t, http.MethodPost, "/v1/marketplace/orders/404/review", ta.bearer(t, testClientID), `{"overall_rating":5,"order_id":7}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ta.do(t, http.MethodPost, "/v1/marketplace/orders/7/review", ta.bearer(t, testClientID), `{"overall_rating":5,"is_visible":true}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, false, decodeBody(t, rr)["review"].(map[string]any)["is_visible"])

	ta.reviews.AssertExpectations(t)
}

func TestSubmitOrderReview_FractionalRatingReachesValidation(t *testing.T) {
	ta := newTestApplication(t)
	ta.reviews.On("Submit", mock.Anything, int64(7), testClientID, mock.MatchedBy(func(in reviews.Input) bool {
		return in.OverallRating != nil && *in.OverallRating == 3.5
	})).Return(nil, &reviews.ValidationError{Field: "overall_rating", Message: "must be a whole number between 1 and 5"})

	rr := ta.do(t, http.MethodPost, "/v1/marketplace/orders/7/review", ta.bearer(t, testClientID), `{"overall_rating":3.5}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeBody(t, rr)["message"], "overall_rating")
	ta.reviews.AssertExpectations(t)
}

func TestGetOrderReview(t *testing.T) {
	ta := newTestApplication(t)

	ta.reviews.On("Get", mock.Anything, int64(7), testFreelancerID).Return(&orderreview.OrderReviews{
		MyReview:      &reviews.Review{ID: 2, OrderID: 7, ReviewerID: testFreelancerID, RevieweeID: testClientID, OverallRating: 4, IsVisible: true},
		OtherReview:   &reviews.Review{ID: 1, OrderID: 7, ReviewerID: testClientID, RevieweeID: testFreelancerID, OverallRating: 5, IsVisible: true},
		TotalReviews:  2,
		BothSubmitted: true,
	}, nil)

	rr := ta.do(t, http.MethodGet, "/v1/marketplace/orders/7/review", ta.bearer(t, testFreelancerID), "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	body := decodeBody(t, rr)
	assert.Equal(t, true, body["both_submitted"])
	assert.Equal(t, float64(2), body["total_reviews"])
	assert.Equal(t, float64(2), body["my_review"].(map[string]any)["id"])
	assert.Equal(t, float64(5), body["other_review"].(map[string]any)["overall_rating"])
}

func TestGetOrderReview_PendingHidesOtherReview(t *testing.T) {
	ta := newTestApplication(t)

	ta.reviews.On("Get", mock.Anything, int64(7), testFreelancerID).Return(&orderreview.OrderReviews{
		TotalReviews: 1,
	}, nil)

	rr := ta.do(t, http.MethodGet, "/v1/marketplace/orders/7/review", ta.bearer(t, testFreelancerID), "")
	require.Equal(t, http.StatusOK, rr.Code)

	body := decodeBody(t, rr)
	assert.Nil(t, body["my_review"])
	assert.Nil(t, body["other_review"])
	assert.Equal(t, float64(1), body["total_reviews"])
	assert.Equal(t, false, body["both_submitted"])
}

func TestGetOrderReview_ThirdPartyForbidden(t *testing.T) {
	ta := newTestApplication(t)
	ta.reviews.On("Get", mock.Anything, int64(7), testOutsiderID).Return(nil, orderreview.ErrNotParty)

	rr := ta.do(t, http.MethodGet, "/v1/marketplace/orders/7/review", ta.bearer(t, testOutsiderID), "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestGetOrderReview_MissingOrder(t *testing.T) {
	ta := newTestApplication(t)
	ta.reviews.On("Get", mock.Anything, int64(404), testClientID).Return(nil, orderreview.ErrOrderNotFound)

	rr := ta.do(t, http.MethodGet, "/v1/marketplace/orders/404/review", ta.bearer(t, testClientID), "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
