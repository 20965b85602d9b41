// Copyright © 2025-2026 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package key

import "strings"

// Invocation carries the ambient data of a single call that providers
// derive keys from. It is populated by the interception layer and
// treated as read-only afterwards.
type Invocation struct {
	// network address of the caller, "host:port" or a bare host, empty
	// when not known
	RemoteAddr string

	// identity of the call site, e.g. the fully qualified gRPC service
	// and its method
	Service string
	Method  string

	// request metadata with lower case names, e.g. gRPC metadata or
	// HTTP headers
	Metadata map[string][]string
}

// Get returns the first value of the named metadata entry, or "" if
// there is none. Lookup is case insensitive.
func (inv *Invocation) Get(name string) string {
	if inv == nil || inv.Metadata == nil {
		return ""
	}
	vals := inv.Metadata[strings.ToLower(name)]
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}
