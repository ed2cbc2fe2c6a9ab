package main

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"

	"skilllinkup/internal/domain/freelancers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreelancerRating_CacheAside(t *testing.T) {
	ta := newTestApplication(t)
	ta.freelancers.aggs[testFreelancerID] = &freelancers.Aggregate{FreelancerID: testFreelancerID, Average: 4.5, Count: 2}

	rr := ta.do(t, http.MethodGet, "/v1/freelancers/20/rating", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	data := decodeBody(t, rr)["data"].(map[string]any)
	assert.Equal(t, 4.5, data["average"])
	assert.Equal(t, float64(2), data["count"])
	assert.Equal(t, 1, ta.freelancers.calls)
	require.Contains(t, ta.ratings.entries, testFreelancerID)

	rr = ta.do(t, http.MethodGet, "/v1/freelancers/20/rating", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, ta.freelancers.calls, "second read should be served from cache")
}

func TestFreelancerRating_InvalidationDuringReadIsNotOverwritten(t *testing.T) {
	ta := newTestApplication(t)
	ta.freelancers.aggs[testFreelancerID] = &freelancers.Aggregate{FreelancerID: testFreelancerID, Average: 5, Count: 1}

	// a reveal commits and invalidates after the handler loaded the old row
	ta.freelancers.onGet = func(id int64) {
		ta.freelancers.aggs[id] = &freelancers.Aggregate{FreelancerID: id, Average: 4.5, Count: 2}
		require.NoError(t, ta.ratings.Invalidate(context.Background(), id))
		ta.freelancers.onGet = nil
	}

	rr := ta.do(t, http.MethodGet, "/v1/freelancers/20/rating", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(1), decodeBody(t, rr)["data"].(map[string]any)["count"])
	assert.NotContains(t, ta.ratings.entries, testFreelancerID, "stale aggregate must not be cached")

	rr = ta.do(t, http.MethodGet, "/v1/freelancers/20/rating", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	data := decodeBody(t, rr)["data"].(map[string]any)
	assert.Equal(t, 4.5, data["average"])
	assert.Equal(t, float64(2), data["count"])
}

func TestFreelancerRating_NoReviews(t *testing.T) {
	ta := newTestApplication(t)

	rr := ta.do(t, http.MethodGet, "/v1/freelancers/55/rating", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	data := decodeBody(t, rr)["data"].(map[string]any)
	assert.Equal(t, float64(0), data["average"])
	assert.Equal(t, float64(0), data["count"])
}

func TestFreelancerRating_InvalidID(t *testing.T) {
	ta := newTestApplication(t)

	rr := ta.do(t, http.MethodGet, "/v1/freelancers/abc/rating", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHealth_BasicAuth(t *testing.T) {
	ta := newTestApplication(t)

	rr := ta.do(t, http.MethodGet, "/v1/health", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))

	bad := "Basic " + base64.StdEncoding.EncodeToString([]byte("ops:wrong"))
	rr = ta.do(t, http.MethodGet, "/v1/health", bad, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	good := "Basic " + base64.StdEncoding.EncodeToString([]byte("ops:secret"))
	rr = ta.do(t, http.MethodGet, "/v1/health", good, "")
	require.Equal(t, http.StatusOK, rr.Code)

	data := decodeBody(t, rr)["data"].(map[string]any)
	assert.Equal(t, "ok", data["status"])
	assert.Equal(t, "test", data["env"])
	assert.Equal(t, version, data["version"])
}
