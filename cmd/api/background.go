package main

import (
	"context"
	"time"

	"skilllinkup/internal/ratelimiter"
)

const staleTokenAge = 90 * 24 * time.Hour

func (app *application) pruneStalePushTokensDaily() {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		// Run once immediately
		app.pruneStalePushTokens()

		for range ticker.C {
			app.pruneStalePushTokens()
		}
	}()
}

func (app *application) pruneStalePushTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := app.store.PushTokens.PruneStaleTokens(ctx, staleTokenAge)
	if err != nil {
		app.logger.Errorw("error pruning stale push tokens", "error", err)
		return
	}
	app.logger.Infow("pruned stale push tokens", "removed", n, "at", time.Now().Format(time.RFC1123))
}

// sweepRateLimiter frees the windows of clients that stopped sending requests.
func (app *application) sweepRateLimiter(rl *ratelimiter.FixedWindowRateLimiter) {
	if !app.config.rateLimiter.Enabled {
		return
	}
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			rl.Sweep()
		}
	}()
}
