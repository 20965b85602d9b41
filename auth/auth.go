// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package auth

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/go-core-stack/admission/errors"
)

// Auth construct obtained as part of the auth action performed by the
// auth gateway, json tagged to allow passing the information between
// the microservices along with the request
type AuthInfo struct {
	Realm     string `json:"realm,omitempty"`
	UserName  string `json:"preferred_username"`
	Email     string `json:"email,omitempty"`
	FullName  string `json:"name,omitempty"`
	SessionID string `json:"sid"`
}

// Encode returns the header value carrying the auth info
func Encode(info *AuthInfo) (string, error) {
	b, err := json.Marshal(info)
	if err != nil {
		return "", errors.Wrapf(errors.InvalidArgument, "failed to generate user info: %s", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Decode parses a header value produced by Encode
func Decode(val string) (*AuthInfo, error) {
	if val == "" {
		return nil, errors.Wrapf(errors.NotFound, "auth info not available")
	}
	b, err := base64.RawURLEncoding.DecodeString(val)
	if err != nil {
		return nil, errors.Wrapf(errors.InvalidArgument, "invalid user info received: %s", err)
	}
	info := &AuthInfo{}
	if err := json.Unmarshal(b, info); err != nil {
		return nil, errors.Wrapf(errors.InvalidArgument, "failed to get user info from header: %s", err)
	}
	return info, nil
}

// Sets Auth Info Header in the provided Http Request typically will
// be used only by the entity that has performed that authentication
// on the given http request already and has the relevant Auth Info
// Context.
func SetAuthInfoHeader(r *http.Request, info *AuthInfo) error {
	val, err := Encode(info)
	if err != nil {
		return err
	}
	r.Header.Set(HttpClientAuthContext, val)
	return nil
}

// gets Auth Info Header available in the Http Request
func GetAuthInfoHeader(r *http.Request) (*AuthInfo, error) {
	return Decode(r.Header.Get(HttpClientAuthContext))
}
