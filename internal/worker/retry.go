package worker

import (
	"math"
	"time"
)

// RetryPolicy is the backoff schedule for spreadsheet sync attempts.
// Zero fields fall back to safe values, so RetryPolicy{} is usable.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// NextDelay computes the wait before the given attempt (1-based). Each
// attempt multiplies the previous delay by BackoffFactor, capped at
// MaxDelay.
func (r RetryPolicy) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	base := r.InitialDelay
	if base <= 0 {
		base = time.Second
	}
	factor := r.BackoffFactor
	if factor <= 0 {
		factor = 2
	}

	d := time.Duration(float64(base) * math.Pow(factor, float64(attempt-1)))
	if r.MaxDelay > 0 && d > r.MaxDelay {
		d = r.MaxDelay
	}
	if d <= 0 {
		// float overflow on absurd attempt counts
		d = time.Second
	}
	return d
}
