// Copyright © 2025-2026 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package interceptor

import (
	"net/http"
	"strings"

	"github.com/go-core-stack/admission/admission"
	"github.com/go-core-stack/admission/errors"
	"github.com/go-core-stack/admission/key"
)

// Middleware admits HTTP requests through svc before next runs. The
// call site defaults to "http" and "<METHOD> <route>", where route is
// the matched http.ServeMux pattern, or the path when there is none.
func Middleware(svc *admission.Service, opts ...Option) func(http.Handler) http.Handler {
	cfg := newConfig(opts)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// patterns may carry a method and host, e.g. "GET /items/{id}"
			_, route, found := strings.Cut(r.Pattern, " ")
			if !found {
				route = r.Pattern
			}
			if route == "" {
				route = r.URL.Path
			}
			if cfg.skip[route] {
				next.ServeHTTP(w, r)
				return
			}
			if err := svc.Admit(httpInvocation(cfg, r, route)); err != nil {
				code, _ := httpStatus(err)
				http.Error(w, strings.ToLower(http.StatusText(code)), code)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func httpInvocation(cfg *config, r *http.Request, route string) *key.Invocation {
	inv := &key.Invocation{
		RemoteAddr: r.RemoteAddr,
		Service:    "http",
		Method:     r.Method + " " + route,
		Metadata:   make(map[string][]string, len(r.Header)),
	}
	if cfg.service != "" || cfg.method != "" {
		inv.Service = cfg.service
		inv.Method = cfg.method
	}
	for name, vals := range r.Header {
		inv.Metadata[strings.ToLower(name)] = vals
	}
	return inv
}

// httpStatus maps an admission error to the HTTP status and the error
// code reported to the client.
func httpStatus(err error) (int, string) {
	switch {
	case errors.IsResourceExhausted(err):
		return http.StatusTooManyRequests, "RATE_LIMITED"
	case errors.IsKeyNotResolved(err):
		return http.StatusInternalServerError, "RATE_LIMIT_KEY_UNRESOLVED"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
