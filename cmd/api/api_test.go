package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"skilllinkup/internal/auth"
	"skilllinkup/internal/domain/freelancers"
	"skilllinkup/internal/domain/reviews"
	"skilllinkup/internal/domain/storage"
	"skilllinkup/internal/domain/users"
	"skilllinkup/internal/orderreview"
	"skilllinkup/internal/ratelimiter"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testClientID     int64 = 10
	testFreelancerID int64 = 20
	testOutsiderID   int64 = 30
)

type fakeUsersStore struct {
	byID    map[int64]*users.User
	refresh map[int64]string
}

func (f *fakeUsersStore) GetByID(_ context.Context, id int64) (*users.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsersStore) GetByEmail(_ context.Context, email string) (*users.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, users.ErrNotFound
}

func (f *fakeUsersStore) GetContact(context.Context, int64) (*users.Contact, error) {
	return nil, users.ErrNotFound
}

func (f *fakeUsersStore) SaveRefreshToken(_ context.Context, id int64, token string) error {
	f.refresh[id] = token
	return nil
}

func (f *fakeUsersStore) GetRefreshToken(_ context.Context, id int64) (string, error) {
	return f.refresh[id], nil
}

func (f *fakeUsersStore) DeleteRefreshToken(_ context.Context, id int64) error {
	delete(f.refresh, id)
	return nil
}

type mockReviewService struct {
	mock.Mock
}

func (m *mockReviewService) Submit(ctx context.Context, orderID, actorID int64, in reviews.Input) (*orderreview.SubmitResult, error) {
	args := m.Called(ctx, orderID, actorID, in)
	res, _ := args.Get(0).(*orderreview.SubmitResult)
	return res, args.Error(1)
}

func (m *mockReviewService) Get(ctx context.Context, orderID, actorID int64) (*orderreview.OrderReviews, error) {
	args := m.Called(ctx, orderID, actorID)
	res, _ := args.Get(0).(*orderreview.OrderReviews)
	return res, args.Error(1)
}

type fakeFreelancers struct {
	calls int
	aggs  map[int64]*freelancers.Aggregate
	onGet func(id int64)
}

func (f *fakeFreelancers) Recompute(ctx context.Context, id int64) (*freelancers.Aggregate, error) {
	return f.Get(ctx, id)
}

func (f *fakeFreelancers) Get(_ context.Context, id int64) (*freelancers.Aggregate, error) {
	f.calls++
	agg, ok := f.aggs[id]
	if !ok {
		agg = &freelancers.Aggregate{FreelancerID: id}
	}
	if f.onGet != nil {
		f.onGet(id)
	}
	return agg, nil
}

type fakeRatingCache struct {
	entries     map[int64]*freelancers.Aggregate
	generations map[int64]int64
}

func (c *fakeRatingCache) Get(_ context.Context, id int64) (*freelancers.Aggregate, error) {
	return c.entries[id], nil
}

func (c *fakeRatingCache) Generation(_ context.Context, id int64) (int64, error) {
	return c.generations[id], nil
}

func (c *fakeRatingCache) Set(_ context.Context, agg *freelancers.Aggregate, gen int64) error {
	if c.generations[agg.FreelancerID] != gen {
		return nil
	}
	c.entries[agg.FreelancerID] = agg
	return nil
}

func (c *fakeRatingCache) Invalidate(_ context.Context, id int64) error {
	c.generations[id]++
	delete(c.entries, id)
	return nil
}

type testApp struct {
	app         *application
	users       *fakeUsersStore
	reviews     *mockReviewService
	freelancers *fakeFreelancers
	ratings     *fakeRatingCache
	mux         http.Handler
}

func newTestApplication(t *testing.T) *testApp {
	t.Helper()

	cfg := config{
		env: "test",
		auth: authConfig{
			basic: basicConfig{user: "ops", pass: "secret"},
			token: tokenConfig{secret: "access-secret", refreshSecret: "refresh-secret", iss: "skilllinkup"},
		},
		rateLimiter: ratelimiter.Config{Enabled: false},
	}

	ta := &testApp{
		users: &fakeUsersStore{
			byID: map[int64]*users.User{
				testClientID:     {ID: testClientID, FirstName: "Cleo", Email: "cleo@example.com", Role: "client", IsActive: true},
				testFreelancerID: {ID: testFreelancerID, FirstName: "Fran", Email: "fran@example.com", Role: "freelancer", IsActive: true},
				testOutsiderID:   {ID: testOutsiderID, FirstName: "Otto", Email: "otto@example.com", Role: "client", IsActive: true},
			},
			refresh: map[int64]string{},
		},
		reviews:     &mockReviewService{},
		freelancers: &fakeFreelancers{aggs: map[int64]*freelancers.Aggregate{}},
		ratings:     &fakeRatingCache{entries: map[int64]*freelancers.Aggregate{}, generations: map[int64]int64{}},
	}

	ta.app = &application{
		config: cfg,
		store: &storage.Container{
			Users:       ta.users,
			Freelancers: ta.freelancers,
		},
		reviews: ta.reviews,
		ratings: ta.ratings,
		logger:  zap.NewNop().Sugar(),
		authenticator: auth.NewJWTAuthenticator(auth.Config{
			Secret:        cfg.auth.token.secret,
			RefreshSecret: cfg.auth.token.refreshSecret,
			Audience:      cfg.auth.token.iss,
			Issuer:        cfg.auth.token.iss,
		}),
	}
	ta.mux = ta.app.mount()
	return ta
}

func (ta *testApp) bearer(t *testing.T, userID int64) string {
	t.Helper()
	access, _, err := ta.app.authenticator.GenerateTokens(userID, "client")
	require.NoError(t, err)
	return "Bearer " + access
}

func (ta *testApp) do(t *testing.T, method, path, authHeader, body string) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	ta.mux.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}
