package main

import (
	"context"
	"expvar"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"skilllinkup/internal/auth"
	"skilllinkup/internal/cache"
	"skilllinkup/internal/db"
	"skilllinkup/internal/domain/storage"
	"skilllinkup/internal/events"
	"skilllinkup/internal/mailer"
	"skilllinkup/internal/notifications"
	"skilllinkup/internal/orderreview"
	"skilllinkup/internal/ratelimiter"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	defaultRequests := 200
	defaultEnabled := false

	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil {
			requestsPerTimeFrame = parsedVal
		} else {
			fmt.Println("Invalid RATELIMITER_REQUESTS_COUNT, defaulting to", defaultRequests)
		}
	}

	enabled := defaultEnabled
	if val, exists := os.LookupEnv("RATE_LIMITER_ENABLED"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			enabled = parsedVal
		} else {
			fmt.Println("Invalid RATE_LIMITER_ENABLED, defaulting to", defaultEnabled)
		}
	}

	return ratelimiter.Config{
		RequestsPerTimeFrame: requestsPerTimeFrame,
		TimeFrame:            5 * time.Second,
		Enabled:              enabled,
	}
}

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	level := zapcore.InfoLevel

	core := zapcore.NewCore(consoleEncoder, zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout)), level)
	logger := zap.New(core)

	return logger.Sugar(), nil
}

var version = "0.3.0"

func envInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		fmt.Printf("Invalid %s, defaulting to %d\n", key, fallback)
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		fmt.Printf("Invalid %s, defaulting to %s\n", key, fallback)
	}
	return fallback
}

func loadConfig() config {
	return config{
		addr:        os.Getenv("ADDR"),
		env:         os.Getenv("ENV"),
		frontendURL: os.Getenv("FRONTEND_URL"),
		apiURL:      os.Getenv("EXTERNAL_URL"),
		db: dbConfig{
			addr:        os.Getenv("DB_ADDR"),
			maxConns:    int32(envInt("DB_MAX_CONNS", 30)),
			maxIdleTime: os.Getenv("DB_MAX_IDLE_TIME"),
		},
		mail: mailConfig{
			fromEmail: os.Getenv("MAIL_FROM_EMAIL"),
			smtp: smtpConfig{
				host:     os.Getenv("SMTP_HOST"),
				port:     envInt("SMTP_PORT", 587),
				username: os.Getenv("SMTP_USERNAME"),
				password: os.Getenv("SMTP_PASSWORD"),
			},
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
			token: tokenConfig{
				refreshSecret:   os.Getenv("AUTH_TOKEN_REFRESH_SECRET"),
				secret:          os.Getenv("AUTH_TOKEN_SECRET"),
				accessTokenExp:  auth.DefaultAccessTokenExp,
				refreshTokenExp: auth.DefaultRefreshTokenExp,
				iss:             "SkillLinkup",
			},
		},
		redis: redisConfig{
			addr:      os.Getenv("REDIS_ADDR"),
			password:  os.Getenv("REDIS_PASSWORD"),
			db:        envInt("REDIS_DB", 0),
			ratingTTL: envDuration("RATING_CACHE_TTL", cache.DefaultRatingTTL),
		},
		expo: expoConfig{
			accessToken: os.Getenv("EXPO_ACCESS_TOKEN"),
		},
		rateLimiter: LoadRateLimiterConfig(),
	}
}

//	@title			SkillLinkup API
//	@description	Marketplace API for SkillLinkup: blind order reviews, freelancer ratings and notifications.

//	@contact.name	SkillLinkup support
//	@contact.email	support@skilllinkup.com

//	@BasePath	/v1

//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("no .env file found, reading configuration from the environment")
	}

	cfg := loadConfig()

	// Logger
	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	// Database
	pool, err := db.New(context.Background(), db.Config{
		Addr:        cfg.db.addr,
		MaxConns:    cfg.db.maxConns,
		MaxIdleTime: cfg.db.maxIdleTime,
	})
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	logger.Info("database connection pool established")

	store := storage.NewContainer(pool)

	// Redis is optional: without it the rating cache is bypassed and events are dropped
	var rdb *redis.Client
	if cfg.redis.addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:         cfg.redis.addr,
			Password:     cfg.redis.password,
			DB:           cfg.redis.db,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			logger.Warnw("redis unavailable, continuing without cache and events", "addr", cfg.redis.addr, "error", err)
			rdb.Close()
			rdb = nil
		} else {
			defer rdb.Close()
			logger.Infow("redis connection established", "addr", cfg.redis.addr)
		}
	}

	ratings := cache.NewRatingCache(rdb, cfg.redis.ratingTTL)

	var publisher events.Publisher = events.NoopPublisher{}
	if rdb != nil {
		publisher = events.NewRedisPublisher(rdb)
	}

	var mail mailer.Client
	smtpMailer, err := mailer.NewSMTPMailer(
		cfg.mail.smtp.host,
		cfg.mail.smtp.port,
		cfg.mail.smtp.username,
		cfg.mail.smtp.password,
		cfg.mail.fromEmail,
	)
	if err != nil {
		logger.Warnw("email disabled", "error", err)
	} else {
		mail = smtpMailer
	}

	dispatcher := notifications.NewDispatcher(
		store.Inbox,
		store.PushTokens,
		store.Users,
		mail,
		notifications.NewExpoAdapter(cfg.expo.accessToken),
		publisher,
		logger,
		notifications.Config{FrontendURL: cfg.frontendURL},
	)

	reviewService := orderreview.NewService(store, store.Orders, store.Reviews, dispatcher, ratings, logger)

	// Rate limiter
	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	// Authenticator
	jwtAuthenticator := auth.NewJWTAuthenticator(auth.Config{
		Secret:          cfg.auth.token.secret,
		RefreshSecret:   cfg.auth.token.refreshSecret,
		Audience:        cfg.auth.token.iss,
		Issuer:          cfg.auth.token.iss,
		AccessTokenExp:  cfg.auth.token.accessTokenExp,
		RefreshTokenExp: cfg.auth.token.refreshTokenExp,
	})

	app := &application{
		config:        cfg,
		logger:        logger,
		store:         store,
		reviews:       reviewService,
		ratings:       ratings,
		notifier:      dispatcher,
		authenticator: jwtAuthenticator,
		rateLimiter:   rateLimiter,
	}

	//Metrics collected http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		s := pool.Stat()
		return map[string]any{
			"total_conns":    s.TotalConns(),
			"idle_conns":     s.IdleConns(),
			"acquired_conns": s.AcquiredConns(),
			"max_conns":      s.MaxConns(),
		}
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	app.pruneStalePushTokensDaily()
	app.sweepRateLimiter(rateLimiter)

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
