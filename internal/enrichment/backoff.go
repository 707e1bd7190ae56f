package enrichment

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// LinearBackOff waits base * n before the n-th retry
type LinearBackOff struct {
	base    time.Duration
	attempt int64
}

var _ backoff.BackOff = (*LinearBackOff)(nil)

// NewLinearBackOff creates a linear backoff policy
func NewLinearBackOff(base time.Duration) *LinearBackOff {
	return &LinearBackOff{base: base}
}

// NextBackOff returns the delay before the next retry
func (b *LinearBackOff) NextBackOff() time.Duration {
	b.attempt++
	return b.base * time.Duration(b.attempt)
}

// Reset restarts the sequence
func (b *LinearBackOff) Reset() {
	b.attempt = 0
}
