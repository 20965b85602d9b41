// Copyright © 2025-2026 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package key

import (
	"testing"

	"github.com/go-core-stack/admission/auth"
)

func TestRemoteAddrProvider(t *testing.T) {
	tests := []struct {
		name string
		addr string
		want string
		ok   bool
	}{
		{"ipv4 with port", "10.1.2.3:5000", "10.1.2.3", true},
		{"bare ipv4", "10.1.2.3", "10.1.2.3", true},
		{"ipv6 with port", "[2001:db8::1]:443", "2001:db8::1", true},
		{"bare ipv6", "2001:db8::1", "2001:db8::1", true},
		{"bracketed ipv6 without port", "[::1]", "::1", true},
		{"ipv4 mapped ipv6", "[::ffff:192.0.2.1]:80", "192.0.2.1", true},
		{"ipv6 with zone", "[fe80::1%eth0]:80", "fe80::1", true},
		{"empty", "", "", false},
		{"hostname", "example.com:80", "", false},
		{"unix socket", "@", "", false},
		{"in memory pipe", "bufconn", "", false},
	}

	p := RemoteAddr()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, ok := p.DeriveKey(&Invocation{RemoteAddr: tt.addr})
			if ok != tt.ok {
				t.Fatalf("DeriveKey(%q) ok = %v, want %v", tt.addr, ok, tt.ok)
			}
			if !ok {
				return
			}
			want := Key{Namespace: NamespaceRemoteAddr, Name: tt.want}
			if k != want {
				t.Fatalf("DeriveKey(%q) = %v, want %v", tt.addr, k, want)
			}
		})
	}

	if _, ok := p.DeriveKey(nil); ok {
		t.Fatalf("expected no key for nil invocation")
	}
}

// TestRemoteAddrProviderPortInsensitive verifies connections from the
// same host on different ports are billed against the same key.
func TestRemoteAddrProviderPortInsensitive(t *testing.T) {
	p := RemoteAddr()
	a, _ := p.DeriveKey(&Invocation{RemoteAddr: "192.0.2.7:40001"})
	b, _ := p.DeriveKey(&Invocation{RemoteAddr: "192.0.2.7:40002"})
	if a != b {
		t.Fatalf("expected equal keys for the same host, got %v and %v", a, b)
	}
}

func TestCallSiteProvider(t *testing.T) {
	p := CallSite()
	k, ok := p.DeriveKey(&Invocation{Service: "pkg.Limited", Method: "Call"})
	if !ok {
		t.Fatalf("expected call site key to always be derivable")
	}
	want := Key{Namespace: NamespaceCallSite, Scope: "pkg.Limited", Name: "Call"}
	if k != want {
		t.Fatalf("got %v, want %v", k, want)
	}

	// service and method stay separate components of the key
	other, _ := p.DeriveKey(&Invocation{Service: "pkg", Method: "Limited.Call"})
	if other == k {
		t.Fatalf("expected distinct keys for distinct service/method pairs")
	}

	if _, ok := p.DeriveKey(&Invocation{}); !ok {
		t.Fatalf("expected call site key for an invocation without identity")
	}
	if _, ok := p.DeriveKey(nil); ok {
		t.Fatalf("expected no key for nil invocation")
	}
}

func TestMetadataProvider(t *testing.T) {
	p := Metadata("X-API-Key")
	inv := &Invocation{Metadata: map[string][]string{
		"x-api-key": {" tenant-1 ", "ignored"},
	}}
	k, ok := p.DeriveKey(inv)
	if !ok {
		t.Fatalf("expected metadata key")
	}
	want := Key{Namespace: NamespaceMetadata, Scope: "x-api-key", Name: "tenant-1"}
	if k != want {
		t.Fatalf("got %v, want %v", k, want)
	}

	if _, ok := p.DeriveKey(&Invocation{Metadata: map[string][]string{"x-api-key": {"  "}}}); ok {
		t.Fatalf("expected no key for blank metadata value")
	}
	if _, ok := p.DeriveKey(&Invocation{}); ok {
		t.Fatalf("expected no key without metadata")
	}
	if _, ok := p.DeriveKey(nil); ok {
		t.Fatalf("expected no key for nil invocation")
	}
}

func TestForwardedForProvider(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   string
		ok     bool
	}{
		{"single", []string{"203.0.113.9"}, "203.0.113.9", true},
		{"chain keeps left most", []string{"203.0.113.9, 10.0.0.1, 10.0.0.2"}, "203.0.113.9", true},
		{"with port", []string{"203.0.113.9:1234"}, "203.0.113.9", true},
		{"garbage", []string{"unknown"}, "", false},
		{"missing", nil, "", false},
	}

	p := ForwardedFor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &Invocation{Metadata: map[string][]string{}}
			if tt.header != nil {
				inv.Metadata["x-forwarded-for"] = tt.header
			}
			k, ok := p.DeriveKey(inv)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && k.Name != tt.want {
				t.Fatalf("got %q, want %q", k.Name, tt.want)
			}
		})
	}
}

func TestKeyString(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{Key{Namespace: NamespaceRemoteAddr, Name: "10.0.0.1"}, "remote-addr:10.0.0.1"},
		{Key{Namespace: NamespaceCallSite, Scope: "pkg.Svc", Name: "Get"}, "call-site:pkg.Svc/Get"},
		{Key{Namespace: NamespaceMetadata, Scope: "x-api-key", Name: "abc"}, "metadata:x-api-key/abc"},
	}
	for _, tt := range tests {
		if got := tt.key.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestInvocationGet(t *testing.T) {
	inv := &Invocation{Metadata: map[string][]string{"x-tenant": {"a", "b"}, "empty": {}}}
	if got := inv.Get("X-Tenant"); got != "a" {
		t.Fatalf("expected case insensitive lookup of first value, got %q", got)
	}
	if got := inv.Get("empty"); got != "" {
		t.Fatalf("expected empty value, got %q", got)
	}
	var nilInv *Invocation
	if got := nilInv.Get("x-tenant"); got != "" {
		t.Fatalf("expected empty value from nil invocation, got %q", got)
	}
}

func encodeUser(t *testing.T, realm, user string) string {
	t.Helper()
	val, err := auth.Encode(&auth.AuthInfo{Realm: realm, UserName: user, SessionID: "s1"})
	if err != nil {
		t.Fatalf("failed to encode auth info: %v", err)
	}
	return val
}

func TestAuthUserProvider(t *testing.T) {
	p := AuthUser()

	inv := &Invocation{Metadata: map[string][]string{"auth-info": {encodeUser(t, "tenant-a", "alice")}}}
	k, ok := p.DeriveKey(inv)
	if !ok {
		t.Fatalf("expected a key for an authenticated call")
	}
	if want := (Key{Namespace: NamespaceUser, Scope: "tenant-a", Name: "alice"}); k != want {
		t.Fatalf("got %v, want %v", k, want)
	}
	if k.String() != "user:tenant-a/alice" {
		t.Fatalf("unexpected key string %q", k.String())
	}

	// the same user name in another realm is another caller
	other, _ := p.DeriveKey(&Invocation{Metadata: map[string][]string{"auth-info": {encodeUser(t, "tenant-b", "alice")}}})
	if other == k {
		t.Fatalf("expected realms to separate users")
	}

	for _, inv := range []*Invocation{
		nil,
		{},
		{Metadata: map[string][]string{"auth-info": {"garbage!"}}},
		{Metadata: map[string][]string{"auth-info": {encodeUser(t, "tenant-a", "")}}},
	} {
		if _, ok := p.DeriveKey(inv); ok {
			t.Fatalf("expected no key for %+v", inv)
		}
	}
}
