// Copyright © 2025-2026 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package rate

import (
	"time"

	"github.com/go-core-stack/admission/errors"
)

// Limiter decides whether a requested number of permits may be
// consumed right now. Implementations are safe for concurrent use.
type Limiter interface {
	// TryConsume consumes permits if enough quota remains and reports
	// whether it did. A non-positive permit count is an
	// InvalidArgument error and never consumes anything.
	TryConsume(permits int64) (bool, error)
}

// validate checks the permits per period configuration shared by all
// limiters and returns the time needed to generate a single token.
func validate(permits int64, period time.Duration) (time.Duration, error) {
	if permits <= 0 {
		return 0, errors.Wrapf(errors.InvalidArgument, "permits must be positive, got %d", permits)
	}
	if period <= 0 {
		return 0, errors.Wrapf(errors.InvalidArgument, "period must be positive, got %s", period)
	}
	interval := period / time.Duration(permits)
	if interval <= 0 {
		return 0, errors.Wrapf(errors.InvalidArgument, "period %s is too short to generate %d permits", period, permits)
	}
	return interval, nil
}

func checkPermits(permits int64) error {
	if permits <= 0 {
		return errors.Wrapf(errors.InvalidArgument, "requested permits must be positive, got %d", permits)
	}
	return nil
}
