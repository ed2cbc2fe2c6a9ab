package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"skilllinkup/internal/domain/freelancers"

	"github.com/redis/go-redis/v9"
)

const DefaultRatingTTL = 10 * time.Minute

func ratingKey(freelancerID int64) string {
	return fmt.Sprintf("freelancer:rating:%d", freelancerID)
}

// generationKey is bumped by every Invalidate. A reader that loaded the aggregate
// under an older generation must not write it back.
func generationKey(freelancerID int64) string {
	return fmt.Sprintf("freelancer:rating:%d:gen", freelancerID)
}

var errStaleGeneration = errors.New("rating generation changed")

// RatingCache is a cache-aside store for freelancer aggregates. A cache built
// without a client misses on every Get and accepts every write.
type RatingCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRatingCache(rdb *redis.Client, ttl time.Duration) *RatingCache {
	if ttl <= 0 {
		ttl = DefaultRatingTTL
	}
	return &RatingCache{rdb: rdb, ttl: ttl}
}

// Get returns (nil, nil) on a miss.
func (c *RatingCache) Get(ctx context.Context, freelancerID int64) (*freelancers.Aggregate, error) {
	if c == nil || c.rdb == nil {
		return nil, nil
	}

	data, err := c.rdb.Get(ctx, ratingKey(freelancerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var agg freelancers.Aggregate
	if err := json.Unmarshal(data, &agg); err != nil {
		return nil, fmt.Errorf("decode cached rating: %w", err)
	}
	return &agg, nil
}

// Generation returns the current generation for freelancerID. Read it before
// loading the aggregate from Postgres and pass it to Set.
func (c *RatingCache) Generation(ctx context.Context, freelancerID int64) (int64, error) {
	if c == nil || c.rdb == nil {
		return 0, nil
	}

	gen, err := c.rdb.Get(ctx, generationKey(freelancerID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, err
	}
	return gen, nil
}

// Set stores agg only if no Invalidate ran since gen was read. A skipped write is
// not an error.
func (c *RatingCache) Set(ctx context.Context, agg *freelancers.Aggregate, gen int64) error {
	if c == nil || c.rdb == nil || agg == nil {
		return nil
	}

	data, err := json.Marshal(agg)
	if err != nil {
		return err
	}

	genKey := generationKey(agg.FreelancerID)
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStaleGeneration
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, ratingKey(agg.FreelancerID), data, c.ttl)
			return nil
		})
		return err
	}, genKey)

	if errors.Is(err, errStaleGeneration) || errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// Invalidate bumps the generation and drops the cached aggregate in one MULTI.
func (c *RatingCache) Invalidate(ctx context.Context, freelancerID int64) error {
	if c == nil || c.rdb == nil {
		return nil
	}

	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(freelancerID))
		pipe.Del(ctx, ratingKey(freelancerID))
		return nil
	})
	return err
}
