// Copyright © 2025-2026 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package key

import (
	"net"
	"net/netip"
	"strings"

	"github.com/go-core-stack/admission/auth"
)

// Provider derives a candidate key from an invocation. Returning false
// is a legitimate outcome meaning this provider has nothing to offer
// for the call.
type Provider interface {
	DeriveKey(inv *Invocation) (Key, bool)
}

// ProviderFunc adapts an ordinary function to the Provider interface.
type ProviderFunc func(inv *Invocation) (Key, bool)

// DeriveKey calls f.
func (f ProviderFunc) DeriveKey(inv *Invocation) (Key, bool) {
	return f(inv)
}

type remoteAddrProvider struct{}

// RemoteAddr returns a provider keying calls by the IP address of the
// caller. It has no key when the address is unknown or is not an IP,
// as for unix sockets or in-memory pipes.
func RemoteAddr() Provider {
	return remoteAddrProvider{}
}

func (remoteAddrProvider) DeriveKey(inv *Invocation) (Key, bool) {
	if inv == nil {
		return Key{}, false
	}
	addr, ok := parseIP(inv.RemoteAddr)
	if !ok {
		return Key{}, false
	}
	return Key{Namespace: NamespaceRemoteAddr, Name: addr}, true
}

type callSiteProvider struct{}

// CallSite returns a provider keying calls by the service and method
// being invoked. Every invocation has a call site, so it only fails for
// a nil invocation.
func CallSite() Provider {
	return callSiteProvider{}
}

func (callSiteProvider) DeriveKey(inv *Invocation) (Key, bool) {
	if inv == nil {
		return Key{}, false
	}
	return Key{Namespace: NamespaceCallSite, Scope: inv.Service, Name: inv.Method}, true
}

type metadataProvider struct {
	name string
}

// Metadata returns a provider keying calls by the first value of the
// named metadata entry, e.g. an API key or tenant header.
func Metadata(name string) Provider {
	return metadataProvider{name: strings.ToLower(name)}
}

func (p metadataProvider) DeriveKey(inv *Invocation) (Key, bool) {
	val := strings.TrimSpace(inv.Get(p.name))
	if val == "" {
		return Key{}, false
	}
	return Key{Namespace: NamespaceMetadata, Scope: p.name, Name: val}, true
}

type forwardedForProvider struct{}

// ForwardedFor returns a provider keying calls by the originating client
// IP recorded in the x-forwarded-for metadata, i.e. the left most entry.
// Use it ahead of RemoteAddr when calls are relayed by a proxy or
// gateway whose own address would otherwise be billed.
func ForwardedFor() Provider {
	return forwardedForProvider{}
}

func (forwardedForProvider) DeriveKey(inv *Invocation) (Key, bool) {
	val := inv.Get("x-forwarded-for")
	if val == "" {
		return Key{}, false
	}
	first, _, _ := strings.Cut(val, ",")
	addr, ok := parseIP(strings.TrimSpace(first))
	if !ok {
		return Key{}, false
	}
	return Key{Namespace: NamespaceRemoteAddr, Name: addr}, true
}

type authUserProvider struct{}

// AuthUser returns a provider keying calls by the user and realm the
// auth gateway recorded in the auth-info metadata. It has no key for
// unauthenticated calls or when the metadata cannot be decoded.
func AuthUser() Provider {
	return authUserProvider{}
}

func (authUserProvider) DeriveKey(inv *Invocation) (Key, bool) {
	info, err := auth.Decode(inv.Get(auth.GrpcClientAuthContext))
	if err != nil || info.UserName == "" {
		return Key{}, false
	}
	return Key{Namespace: NamespaceUser, Scope: info.Realm, Name: info.UserName}, true
}

// parseIP extracts the canonical IP from "host:port", "[v6]:port" or a
// bare address.
func parseIP(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	host := raw
	if h, _, err := net.SplitHostPort(raw); err == nil {
		host = h
	}
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return "", false
	}
	return addr.Unmap().WithZone("").String(), true
}
