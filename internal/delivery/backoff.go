package delivery

import (
	"math/rand"
	"time"
)

// Backoff kinds accepted by NewBackoff.
const (
	BackoffFixed       = "fixed"
	BackoffExponential = "exponential"
)

// Backoff yields the delay before the next attempt of one batch.
// A Backoff is owned by a single delivery and is not safe for concurrent use.
type Backoff interface {
	// Next returns the delay to wait after the given failed attempt (1-based).
	Next(attempt int) time.Duration
}

// NewBackoff returns the policy named by kind. Unknown kinds fall back to fixed.
func NewBackoff(kind string, base, max time.Duration) Backoff {
	if kind == BackoffExponential {
		return newExponentialBackoff(base, max)
	}
	return fixedBackoff{delay: base}
}

// fixedBackoff waits the same interval between every attempt.
type fixedBackoff struct {
	delay time.Duration
}

func (b fixedBackoff) Next(int) time.Duration {
	return b.delay
}

// exponentialBackoff doubles from base up to max with ±20% jitter.
type exponentialBackoff struct {
	base time.Duration
	max  time.Duration
}

func newExponentialBackoff(base, max time.Duration) *exponentialBackoff {
	if max < base {
		max = base
	}
	return &exponentialBackoff{base: base, max: max}
}

func (b *exponentialBackoff) Next(attempt int) time.Duration {
	cur := b.base
	for i := 1; i < attempt && cur < b.max; i++ {
		cur *= 2
	}
	if cur > b.max {
		cur = b.max
	}
	j := 0.8 + 0.4*rand.Float64()
	return time.Duration(float64(cur) * j)
}
