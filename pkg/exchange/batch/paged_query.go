package batch

import (
	"context"

	"golang.org/x/time/rate"
)

const DefaultPageSize = 100

// AsyncPagedBatchQuery walks a paginated endpoint from the first page and sends every record to the channel.
// It stops on an empty page, a short page, or when the reported total is reached.
type AsyncPagedBatchQuery[T any] struct {
	// Limiter throttles the page queries, nil means no throttling
	Limiter *rate.Limiter

	PageSize int

	// Q queries one page, page starts from 1
	Q func(ctx context.Context, page, size int) (rows []T, total int, err error)

	// ID returns the unique key of the record, records seen on a previous page are skipped
	ID func(obj T) string
}

// Query sends the records to c and closes it when the query is done,
// the returned error channel receives at most one error and is closed afterward.
func (q *AsyncPagedBatchQuery[T]) Query(ctx context.Context, c chan<- T) chan error {
	errC := make(chan error, 1)

	go func() {
		defer close(c)
		defer close(errC)

		size := q.PageSize
		if size <= 0 {
			size = DefaultPageSize
		}

		seen := make(map[string]struct{}, size)
		fetched := 0
		for page := 1; ; page++ {
			if q.Limiter != nil {
				if err := q.Limiter.Wait(ctx); err != nil {
					errC <- err
					return
				}
			}

			log.Debugf("batch querying page %d size %d", page, size)

			rows, total, err := q.Q(ctx, page, size)
			if err != nil {
				errC <- err
				return
			}

			if len(rows) == 0 {
				return
			}

			for _, row := range rows {
				id := q.ID(row)
				if _, ok := seen[id]; ok {
					continue
				}

				seen[id] = struct{}{}

				select {
				case <-ctx.Done():
					errC <- ctx.Err()
					return
				case c <- row:
				}
			}

			fetched += len(rows)
			if len(rows) < size || (total > 0 && fetched >= total) {
				return
			}
		}
	}()

	return errC
}
