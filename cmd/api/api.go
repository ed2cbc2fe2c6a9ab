package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skilllinkup/docs" //this is required to generate swagger docs
	"skilllinkup/internal/auth"
	"skilllinkup/internal/domain/freelancers"
	"skilllinkup/internal/domain/reviews"
	"skilllinkup/internal/domain/storage"
	"skilllinkup/internal/orderreview"
	"skilllinkup/internal/ratelimiter"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type orderReviewService interface {
	Submit(ctx context.Context, orderID, actorID int64, in reviews.Input) (*orderreview.SubmitResult, error)
	Get(ctx context.Context, orderID, actorID int64) (*orderreview.OrderReviews, error)
}

type ratingCache interface {
	Get(ctx context.Context, freelancerID int64) (*freelancers.Aggregate, error)
	Generation(ctx context.Context, freelancerID int64) (int64, error)
	Set(ctx context.Context, agg *freelancers.Aggregate, gen int64) error
}

// drainer is satisfied by *notifications.Dispatcher.
type drainer interface {
	Wait(ctx context.Context) error
}

type application struct {
	config        config
	store         *storage.Container
	reviews       orderReviewService
	ratings       ratingCache
	notifier      drainer
	logger        *zap.SugaredLogger
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
}

type config struct {
	addr        string
	db          dbConfig
	env         string
	apiURL      string
	mail        mailConfig
	frontendURL string
	auth        authConfig
	redis       redisConfig
	expo        expoConfig
	rateLimiter ratelimiter.Config
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	refreshSecret   string
	secret          string
	accessTokenExp  time.Duration
	refreshTokenExp time.Duration
	iss             string
}

type basicConfig struct {
	user string
	pass string
}

type mailConfig struct {
	fromEmail string
	smtp      smtpConfig
}

type smtpConfig struct {
	host     string
	port     int
	username string
	password string
}

type dbConfig struct {
	addr        string
	maxConns    int32
	maxIdleTime string
}

type redisConfig struct {
	addr      string
	password  string
	db        int
	ratingTTL time.Duration
}

type expoConfig struct {
	accessToken string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	r.Use(app.RateLimiterMiddleware)

	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		// Public routes
		r.Route("/authentication", func(r chi.Router) {
			r.Post("/token", app.createTokenHandler)
			r.Post("/refresh", app.refreshTokenHandler)
		})

		r.Route("/marketplace/orders/{orderID}", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/review", app.getOrderReviewHandler)
			r.Post("/review", app.submitOrderReviewHandler)
		})

		r.Route("/freelancers/{freelancerID}", func(r chi.Router) {
			r.Get("/rating", app.getFreelancerRatingHandler)
			r.Get("/reviews", app.getFreelancerReviewsHandler)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/", app.listNotificationsHandler)
			r.Patch("/{notificationID}/read", app.markNotificationReadHandler)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Post("/logout", app.logoutHandler)
			r.Post("/push-tokens", app.savePushTokenHandler)
			r.Delete("/push-tokens", app.removePushTokenHandler)
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		err := srv.Shutdown(ctx)
		if app.notifier != nil {
			// deliveries started by requests that already returned
			if werr := app.notifier.Wait(ctx); werr != nil {
				app.logger.Warnw("notifications still in flight at shutdown", "error", werr)
			}
		}
		shutdown <- err
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
