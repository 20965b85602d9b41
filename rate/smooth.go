// Copyright © 2025-2026 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package rate

import (
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/go-core-stack/admission/errors"
)

// SmoothBucket is a Limiter backed by golang.org/x/time/rate. Unlike
// TokenBucket it accrues fractional tokens continuously, so quota
// trickles back instead of arriving in whole tokens per interval.
type SmoothBucket struct {
	limiter *rate.Limiter
	now     func() time.Time
}

// NewSmoothBucket returns a full bucket allowing permits per period.
func NewSmoothBucket(permits int64, period time.Duration) (*SmoothBucket, error) {
	interval, err := validate(permits, period)
	if err != nil {
		return nil, err
	}
	if permits > int64(int(^uint(0)>>1)) {
		return nil, errors.Wrapf(errors.InvalidArgument, "permits %d exceeds maximum int value", permits)
	}
	return newSmoothBucket(permits, interval, time.Now), nil
}

func newSmoothBucket(capacity int64, interval time.Duration, now func() time.Time) *SmoothBucket {
	lim := rate.NewLimiter(rate.Every(interval), int(capacity))
	// pin the limiter's notion of the start as full at creation time
	lim.SetBurstAt(now(), int(capacity))
	return &SmoothBucket{
		limiter: lim,
		now:     now,
	}
}

// TryConsume takes permits if they are available right now. A request
// for more permits than the bucket holds is denied without consuming.
func (b *SmoothBucket) TryConsume(permits int64) (bool, error) {
	if err := checkPermits(permits); err != nil {
		return false, err
	}
	if permits > int64(b.limiter.Burst()) {
		return false, nil
	}
	return b.limiter.AllowN(b.now(), int(permits)), nil
}

// Capacity returns the maximum number of tokens of the bucket.
func (b *SmoothBucket) Capacity() int64 {
	return int64(b.limiter.Burst())
}

// LogValue implements slog.LogValuer.
func (b *SmoothBucket) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("capacity", b.limiter.Burst()),
		slog.Float64("available", b.limiter.TokensAt(b.now())),
		slog.Float64("rate", float64(b.limiter.Limit())),
	)
}
