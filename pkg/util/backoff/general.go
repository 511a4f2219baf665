package backoff

import (
	"context"

	"github.com/cenkalti/backoff/v4"
)

var MaxRetries uint64 = 101

// RetryGeneral retries the operation with the exponential backoff until it succeeds,
// the context is done, or the operation returns a permanent error.
func RetryGeneral(ctx context.Context, op backoff.Operation) (err error) {
	return RetryWithMaxRetries(ctx, MaxRetries, op)
}

func RetryWithMaxRetries(ctx context.Context, maxRetries uint64, op backoff.Operation) error {
	return backoff.Retry(op, backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewExponentialBackOff(),
			maxRetries),
		ctx))
}

// Permanent wraps the error to stop the retry loop
func Permanent(err error) error {
	return backoff.Permanent(err)
}
