// Copyright © 2025-2026 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package interceptor plugs an admission.Service in front of gRPC
// methods and HTTP handlers.
//
// Every adapter builds a key.Invocation from the incoming call, asks
// the service to admit it and aborts the call when it is rejected:
//
//   - denied calls fail with codes.ResourceExhausted for gRPC and
//     429 Too Many Requests for HTTP
//   - calls no key could be resolved for fail with codes.Internal and
//     500 Internal Server Error, as that points at a misconfigured key
//     pipeline rather than at the caller
package interceptor

// config holds the options shared by all adapters
type config struct {
	skip    map[string]bool
	service string
	method  string
}

// Option configures an adapter.
type Option func(*config)

// WithSkip exempts calls from admission control, named by the gRPC full
// method (e.g. "/grpc.health.v1.Health/Check") or by HTTP route.
func WithSkip(names ...string) Option {
	return func(c *config) {
		for _, n := range names {
			c.skip[n] = true
		}
	}
}

// WithCallSite pins the call site identity of the invocations built by
// the HTTP adapters, so that all routes sharing it share a quota when
// keyed by call site.
func WithCallSite(service, method string) Option {
	return func(c *config) {
		c.service = service
		c.method = method
	}
}

func newConfig(opts []Option) *config {
	c := &config{skip: map[string]bool{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
