package batch

import (
	"golang.org/x/time/rate"
)

type options struct {
	pageSize int
	limiter  *rate.Limiter
}

type Option func(o *options)

// PageSize sets the number of records per page, the endpoint accepts up to 100
func PageSize(size int) Option {
	return func(o *options) {
		o.pageSize = size
	}
}

// Limiter replaces the default page query limiter
func Limiter(limiter *rate.Limiter) Option {
	return func(o *options) {
		o.limiter = limiter
	}
}
