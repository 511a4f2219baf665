package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestNewValidRateLimiter(t *testing.T) {
	cases := []struct {
		name     string
		r        rate.Limit
		b        int
		hasError bool
	}{
		{"valid limiter", 0.1, 1, false},
		{"zero rate", 0, 1, true},
		{"zero burst", 0.1, 0, true},
		{"both zero", 0, 0, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			limiter, err := NewValidLimiter(c.r, c.b)
			assert.Equal(t, c.hasError, err != nil)
			if !c.hasError {
				assert.NotNil(t, limiter)
			}
		})
	}
}

func TestParseRateLimitSyntax(t *testing.T) {
	cases := []struct {
		desc  string
		burst int
		every time.Duration
	}{
		{"2+1/5s", 2, 5 * time.Second},
		{"6000+6000/1m", 6000, 10 * time.Millisecond},
		{"1/3m", 1, 3 * time.Minute},
		{"3m", 1, 3 * time.Minute},
	}

	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			limiter, err := ParseRateLimitSyntax(c.desc)
			require.NoError(t, err)
			assert.Equal(t, c.burst, limiter.Burst())
			assert.InDelta(t, float64(rate.Every(c.every)), float64(limiter.Limit()), 1e-9)
		})
	}

	_, err := ParseRateLimitSyntax("fast")
	assert.Error(t, err)
}
