// Copyright © 2025-2026 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package key derives the identity a call is rate limited against.
//
// A Provider looks at an Invocation and may or may not produce a Key.
// A Resolver runs an ordered list of providers and returns the key of
// the first one that produces it, so earlier providers take precedence
// and later ones act as fallbacks:
//
//	resolver, _ := key.NewResolver(key.RemoteAddr(), key.CallSite())
//	k, err := resolver.Resolve(inv)
//
// When no provider produces a key the resolver fails with a
// KeyNotResolved error, which is distinct from a quota denial.
package key

import "strings"

// Namespace groups keys produced by the same kind of provider so that
// keys derived from different sources never collide.
type Namespace string

const (
	// keys derived from the network address of the caller
	NamespaceRemoteAddr Namespace = "remote-addr"

	// keys derived from the service and method being invoked
	NamespaceCallSite Namespace = "call-site"

	// keys derived from request metadata, such as headers
	NamespaceMetadata Namespace = "metadata"

	// keys derived from the user authenticated by the auth gateway
	NamespaceUser Namespace = "user"
)

// Key identifies the entity being rate limited. It is comparable and
// is only ever used for lookups.
type Key struct {
	// source of the key
	Namespace Namespace

	// optional qualifier within the namespace, e.g. the service name or
	// the metadata entry the key was read from
	Scope string

	// identifier within the namespace and scope
	Name string
}

// String renders the key as namespace:scope/name, or namespace:name when
// the key has no scope.
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(string(k.Namespace))
	b.WriteByte(':')
	if k.Scope != "" {
		b.WriteString(k.Scope)
		b.WriteByte('/')
	}
	b.WriteString(k.Name)
	return b.String()
}
