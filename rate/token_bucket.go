// Copyright © 2025-2026 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package rate

import (
	"log/slog"
	"sync"
	"time"
)

// TokenBucket is a fixed capacity bucket of whole tokens that refills
// one token per interval. Refill happens lazily while consuming, there
// is no background timer driving it.
type TokenBucket struct {
	mu         sync.Mutex       // serializes refill and consumption
	capacity   int64            // maximum tokens the bucket holds
	available  int64            // tokens currently available, 0..capacity
	interval   time.Duration    // time needed to generate one token
	lastRefill time.Time        // instant up to which tokens were credited
	now        func() time.Time // clock, carries monotonic readings
}

// NewTokenBucket returns a full bucket allowing permits per period.
func NewTokenBucket(permits int64, period time.Duration) (*TokenBucket, error) {
	interval, err := validate(permits, period)
	if err != nil {
		return nil, err
	}
	return newTokenBucket(permits, interval, time.Now), nil
}

func newTokenBucket(capacity int64, interval time.Duration, now func() time.Time) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		available:  capacity,
		interval:   interval,
		lastRefill: now(),
		now:        now,
	}
}

// TryConsume credits the tokens generated since the last refill and
// then takes permits from the bucket if there are enough of them.
// When there are not, the bucket is left untouched.
func (b *TokenBucket) TryConsume(permits int64) (bool, error) {
	if err := checkPermits(permits); err != nil {
		return false, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill()
	if b.available < permits {
		return false, nil
	}
	b.available -= permits
	return true, nil
}

// refill must be called with b.mu held.
func (b *TokenBucket) refill() {
	elapsed := b.now().Sub(b.lastRefill)
	if elapsed < b.interval {
		return
	}
	tokens := int64(elapsed / b.interval)
	if tokens >= b.capacity-b.available {
		b.available = b.capacity
	} else {
		b.available += tokens
	}
	// only whole tokens are credited, the remainder carries over
	b.lastRefill = b.lastRefill.Add(time.Duration(tokens) * b.interval)
}

// Available returns the number of tokens held as of the last
// consumption, without crediting any time elapsed since.
func (b *TokenBucket) Available() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.available
}

// Capacity returns the maximum number of tokens of the bucket.
func (b *TokenBucket) Capacity() int64 {
	return b.capacity
}

// Interval returns the time needed to generate a single token.
func (b *TokenBucket) Interval() time.Duration {
	return b.interval
}

// LogValue implements slog.LogValuer.
func (b *TokenBucket) LogValue() slog.Value {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slog.GroupValue(
		slog.Int64("capacity", b.capacity),
		slog.Int64("available", b.available),
		slog.Duration("interval", b.interval),
	)
}
