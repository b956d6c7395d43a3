package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smitnayi/metamorph-inventory/internal/config"
)

const keyReadingSubmitUser = "utility:submit:user:%s"

// ReadingSubmitLimiter throttles utility-reading submissions per user.
// A nil limiter means rate limiting is disabled.
type ReadingSubmitLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewReadingSubmitLimiter(cfg config.Config) (*ReadingSubmitLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.SubmitRate <= 0 || limitCfg.SubmitBurst <= 0 {
		return nil, errors.New("submit rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &ReadingSubmitLimiter{
		bucket: NewTokenBucket(client),
		rate:   limitCfg.SubmitRate,
		burst:  limitCfg.SubmitBurst,
	}, nil
}

func (l *ReadingSubmitLimiter) Allow(ctx context.Context, userID string) (*Result, error) {
	if l == nil {
		return &Result{Allowed: true}, nil
	}
	key := fmt.Sprintf(keyReadingSubmitUser, userID)
	return l.bucket.Allow(ctx, key, l.rate, l.burst)
}
