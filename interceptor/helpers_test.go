// Copyright © 2025-2026 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package interceptor

import (
	"testing"
	"time"

	"github.com/go-core-stack/admission/admission"
	"github.com/go-core-stack/admission/key"
	"github.com/go-core-stack/admission/rate"
)

func newTestService(t *testing.T, permits int64, providers ...key.Provider) *admission.Service {
	t.Helper()
	factory, err := rate.NewTokenBucketFactory(permits, time.Hour)
	if err != nil {
		t.Fatalf("failed to create factory: %v", err)
	}
	registry, err := rate.NewRegistry[key.Key](factory)
	if err != nil {
		t.Fatalf("failed to create registry: %v", err)
	}
	if len(providers) == 0 {
		providers = []key.Provider{key.RemoteAddr(), key.CallSite()}
	}
	resolver, err := key.NewResolver(providers...)
	if err != nil {
		t.Fatalf("failed to create resolver: %v", err)
	}
	svc, err := admission.NewService(resolver, registry)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc
}
