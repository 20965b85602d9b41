// Copyright © 2025-2026 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package key

import (
	"strings"

	"github.com/go-core-stack/admission/errors"
)

// Resolver runs an ordered list of providers, earlier providers take
// precedence over later ones.
type Resolver struct {
	providers []Provider
}

// NewResolver returns a Resolver evaluating providers in the given
// order. At least one provider is required.
func NewResolver(providers ...Provider) (*Resolver, error) {
	if len(providers) == 0 {
		return nil, errors.Wrapf(errors.InvalidArgument, "at least one key provider is required")
	}
	for i, p := range providers {
		if p == nil {
			return nil, errors.Wrapf(errors.InvalidArgument, "key provider at position %d is nil", i)
		}
	}
	return &Resolver{
		providers: append([]Provider(nil), providers...),
	}, nil
}

// Resolve returns the key of the first provider producing one for inv.
// If none does, it fails with a KeyNotResolved error.
func (r *Resolver) Resolve(inv *Invocation) (Key, error) {
	for _, p := range r.providers {
		if k, ok := p.DeriveKey(inv); ok {
			return k, nil
		}
	}
	site := "<nil>"
	if inv != nil {
		site = inv.Service + "/" + inv.Method
	}
	return Key{}, errors.Wrapf(errors.KeyNotResolved, "no rate limit key could be derived for %s", site)
}

// ByName builds a provider from its configuration name: "remote-addr",
// "call-site", "forwarded-for", "auth-user" or "metadata:<name>".
func ByName(name string) (Provider, error) {
	name = strings.TrimSpace(name)
	switch name {
	case "remote-addr":
		return RemoteAddr(), nil
	case "call-site":
		return CallSite(), nil
	case "forwarded-for":
		return ForwardedFor(), nil
	case "auth-user":
		return AuthUser(), nil
	}
	if entry, ok := strings.CutPrefix(name, "metadata:"); ok {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			return nil, errors.Wrapf(errors.InvalidArgument, "metadata key provider requires an entry name")
		}
		return Metadata(entry), nil
	}
	return nil, errors.Wrapf(errors.InvalidArgument, "unknown key provider %q", name)
}

// ParseProviders builds the ordered provider list from configuration
// names.
func ParseProviders(names []string) ([]Provider, error) {
	providers := make([]Provider, 0, len(names))
	for _, name := range names {
		p, err := ByName(name)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, nil
}
