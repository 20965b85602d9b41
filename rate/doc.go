// Copyright © 2025-2026 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package rate provides the token bucket limiters and the per key
// registry used for admission control.
//
// # Overview
//
// A Limiter answers a single question: may this many permits be
// consumed right now. The package ships two implementations:
//
//   - TokenBucket: whole tokens, one generated every period/permits.
//     Refill is computed lazily while consuming; the time that did not
//     add up to a full token is carried over to the next call, so many
//     rapid calls do not drift.
//   - SmoothBucket: backed by golang.org/x/time/rate, accruing tokens
//     continuously.
//
// Both start full, never hold more than their capacity and never
// consume partially: a request for more permits than are available is
// denied and leaves the bucket as it was.
//
// # Factories and the Registry
//
// A Factory captures a validated permits/period configuration and
// produces fresh limiters from it. A Registry maps keys to limiters
// with get-or-create semantics:
//
//	factory, _ := rate.NewTokenBucketFactory(20, time.Second)
//	registry, _ := rate.NewRegistry[string](factory)
//
//	ok, _ := registry.GetOrCreate("10.0.0.1").TryConsume(1)
//
// The registry lock only guards the map; consumption happens under the
// limiter's own lock, so callers with different keys never contend on
// a quota decision.
//
// # Limitations
//
// State is process local and is never evicted. Every distinct key seen
// keeps its limiter for the life of the registry, Len reports how many
// that is.
package rate
