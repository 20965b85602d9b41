// Copyright © 2025-2026 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package admission answers, per call, whether the caller still has
// quota to proceed.
//
// A Service resolves the caller key of an invocation, looks up the
// limiter tracked for that key and consumes a single permit from it.
// The Service owns neither collaborator, whoever constructs it decides
// their lifecycle:
//
//	factory, _ := rate.NewTokenBucketFactory(20, time.Second)
//	registry, _ := rate.NewRegistry[key.Key](factory)
//	resolver, _ := key.NewResolver(key.RemoteAddr(), key.CallSite())
//	svc, _ := admission.NewService(resolver, registry)
//
//	allowed, err := svc.Evaluate(inv)
//
// A denial is a normal outcome reported as false, never retried or
// queued. A failure to derive a key is reported as a KeyNotResolved
// error, so callers can tell a misconfigured pipeline from a caller
// that ran out of quota.
package admission

import (
	"log/slog"

	"github.com/go-core-stack/admission/errors"
	"github.com/go-core-stack/admission/key"
	"github.com/go-core-stack/admission/rate"
)

// Service is the single entry point interception layers use to admit
// or reject calls. It is safe for concurrent use.
type Service struct {
	resolver *key.Resolver
	registry *rate.Registry[key.Key]
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger decisions are reported to, slog.Default()
// is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService composes the resolver and registry into a Service.
func NewService(resolver *key.Resolver, registry *rate.Registry[key.Key], opts ...Option) (*Service, error) {
	if resolver == nil {
		return nil, errors.Wrapf(errors.InvalidArgument, "key resolver must not be nil")
	}
	if registry == nil {
		return nil, errors.Wrapf(errors.InvalidArgument, "limiter registry must not be nil")
	}
	s := &Service{
		resolver: resolver,
		registry: registry,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Evaluate reports whether the call described by inv may proceed,
// consuming one permit from the caller's quota if it may. It fails only
// when no key can be resolved for inv.
func (s *Service) Evaluate(inv *key.Invocation) (bool, error) {
	_, allowed, err := s.evaluate(inv)
	return allowed, err
}

// Admit is Evaluate for interception layers that abort on error: it
// returns nil when the call may proceed, a ResourceExhausted error when
// the caller has exceeded its limit, or the KeyNotResolved error.
func (s *Service) Admit(inv *key.Invocation) error {
	k, allowed, err := s.evaluate(inv)
	if err != nil {
		return err
	}
	if !allowed {
		return errors.Wrapf(errors.ResourceExhausted, "%s has exceeded its limit", k)
	}
	return nil
}

func (s *Service) evaluate(inv *key.Invocation) (key.Key, bool, error) {
	k, err := s.resolver.Resolve(inv)
	if err != nil {
		s.logger.Error("failed to resolve rate limit key", "error", err)
		return key.Key{}, false, err
	}

	lim := s.registry.GetOrCreate(k)
	allowed, err := lim.TryConsume(1)
	if err != nil {
		// a single permit is always a valid request
		return k, false, err
	}
	s.logger.Debug("admission evaluated", "key", k.String(), "allowed", allowed, "limiter", lim)
	return k, allowed, nil
}
