// Copyright © 2025-2026 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package rate

import (
	"sync"

	"github.com/go-core-stack/admission/errors"
)

// Registry hands out one limiter per key, creating it on first use
// and returning the same instance for that key from then on.
//
// K: Key type identifying the rate limited entity, must be comparable
type Registry[K comparable] struct {
	factory  Factory       // creates limiters for keys seen the first time
	mu       sync.RWMutex  // protects the limiters map, never held while consuming
	limiters map[K]Limiter // registry of limiters created so far
}

// NewRegistry constructs an empty Registry creating limiters using
// the provided factory.
func NewRegistry[K comparable](factory Factory) (*Registry[K], error) {
	if factory == nil {
		return nil, errors.Wrapf(errors.InvalidArgument, "limiter factory must not be nil")
	}
	return &Registry[K]{
		factory:  factory,
		limiters: make(map[K]Limiter),
	}, nil
}

// GetOrCreate returns the limiter tracked for key, creating it if key
// has not been seen before. Concurrent first calls for the same key
// observe exactly one limiter and the factory runs once for it.
func (r *Registry[K]) GetOrCreate(key K) Limiter {
	r.mu.RLock()
	lim, ok := r.limiters[key]
	r.mu.RUnlock()
	if ok {
		return lim
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// another caller may have created it while we waited for the lock
	if lim, ok = r.limiters[key]; ok {
		return lim
	}
	lim = r.factory.NewLimiter()
	r.limiters[key] = lim
	return lim
}

// Len returns the number of keys tracked by the registry. Entries are
// never removed, so this only grows over the life of the registry.
func (r *Registry[K]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.limiters)
}
