package binanceapi

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitBucket is the quota dimension a request weight is counted against.
type RateLimitBucket string

const (
	// RateLimitBucketSpotIP is the REQUEST_WEIGHT limit counted per IP
	RateLimitBucketSpotIP RateLimitBucket = "SPOT_REST_IP"

	// RateLimitBucketSpotUID is the limit of the /sapi endpoints counted per account
	RateLimitBucketSpotUID RateLimitBucket = "SPOT_REST_UID"

	// RateLimitBucketSpotOrders is the ORDERS limit
	RateLimitBucketSpotOrders RateLimitBucket = "SPOT_REST_ORDERS"
)

type bucketLimit struct {
	weight   int
	interval time.Duration
}

// https://binance-docs.github.io/apidocs/spot/en/#limits
var defaultBucketLimits = map[RateLimitBucket]bucketLimit{
	RateLimitBucketSpotIP:     {weight: 6000, interval: time.Minute},
	RateLimitBucketSpotUID:    {weight: 180000, interval: time.Minute},
	RateLimitBucketSpotOrders: {weight: 100, interval: 10 * time.Second},
}

// maxRequestWeights is the largest weight of the requests of this package per bucket
var maxRequestWeights = map[RateLimitBucket]int{
	RateLimitBucketSpotUID: autoInvestHistoryWeight,
}

// MaxRequestWeight returns the largest weight a request counts against the bucket.
// A limiter of the bucket must allow a burst of at least this weight.
func MaxRequestWeight(bucket RateLimitBucket) int {
	if w, ok := maxRequestWeights[bucket]; ok {
		return w
	}

	return 1
}

func newBucketLimiter(l bucketLimit) *rate.Limiter {
	return rate.NewLimiter(rate.Every(l.interval/time.Duration(l.weight)), l.weight)
}

// RateLimiter holds one token bucket per RateLimitBucket, a request consumes as many tokens as its weight.
type RateLimiter struct {
	mu       sync.RWMutex
	limiters map[RateLimitBucket]*rate.Limiter
}

func NewRateLimiter() *RateLimiter {
	l := &RateLimiter{
		limiters: make(map[RateLimitBucket]*rate.Limiter, len(defaultBucketLimits)),
	}

	for bucket, limit := range defaultBucketLimits {
		l.limiters[bucket] = newBucketLimiter(limit)
	}

	return l
}

// SetLimiter replaces the limiter of the given bucket.
func (l *RateLimiter) SetLimiter(bucket RateLimitBucket, limiter *rate.Limiter) {
	l.mu.Lock()
	l.limiters[bucket] = limiter
	l.mu.Unlock()
}

func (l *RateLimiter) Limiter(bucket RateLimitBucket) (*rate.Limiter, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	limiter, ok := l.limiters[bucket]
	return limiter, ok
}

// Wait blocks until the bucket has enough tokens for the weight or the context is done.
// Requests of an unknown bucket are not throttled.
func (l *RateLimiter) Wait(ctx context.Context, bucket RateLimitBucket, weight int) error {
	limiter, ok := l.Limiter(bucket)
	if !ok {
		log.Warnf("unknown rate limit bucket %q, request is not throttled", bucket)
		return nil
	}

	if weight <= 0 {
		weight = 1
	}

	if err := limiter.WaitN(ctx, weight); err != nil {
		return fmt.Errorf("rate limit bucket %s weight %d: %w", bucket, weight, err)
	}

	return nil
}
