// Copyright © 2025-2026 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package rate

import (
	"time"

	"github.com/go-core-stack/admission/errors"
)

// Factory creates fresh, independently initialized limiters sharing
// one configuration. Factories are safe for concurrent use.
type Factory interface {
	NewLimiter() Limiter
}

// FactoryFunc adapts an ordinary function to the Factory interface.
type FactoryFunc func() Limiter

// NewLimiter calls f.
func (f FactoryFunc) NewLimiter() Limiter {
	return f()
}

// TokenBucketFactory produces TokenBucket limiters.
type TokenBucketFactory struct {
	permits  int64
	interval time.Duration
	now      func() time.Time
}

// NewTokenBucketFactory validates the permits per period configuration
// once, so that every bucket created later is known to be valid.
func NewTokenBucketFactory(permits int64, period time.Duration) (*TokenBucketFactory, error) {
	interval, err := validate(permits, period)
	if err != nil {
		return nil, err
	}
	return &TokenBucketFactory{
		permits:  permits,
		interval: interval,
		now:      time.Now,
	}, nil
}

// NewLimiter returns a new full TokenBucket.
func (f *TokenBucketFactory) NewLimiter() Limiter {
	return newTokenBucket(f.permits, f.interval, f.now)
}

// SmoothFactory produces SmoothBucket limiters.
type SmoothFactory struct {
	permits  int64
	interval time.Duration
	now      func() time.Time
}

// NewSmoothFactory validates the permits per period configuration
// once, so that every bucket created later is known to be valid.
func NewSmoothFactory(permits int64, period time.Duration) (*SmoothFactory, error) {
	interval, err := validate(permits, period)
	if err != nil {
		return nil, err
	}
	if permits > int64(int(^uint(0)>>1)) {
		return nil, errors.Wrapf(errors.InvalidArgument, "permits %d exceeds maximum int value", permits)
	}
	return &SmoothFactory{
		permits:  permits,
		interval: interval,
		now:      time.Now,
	}, nil
}

// NewLimiter returns a new full SmoothBucket.
func (f *SmoothFactory) NewLimiter() Limiter {
	return newSmoothBucket(f.permits, f.interval, f.now)
}
