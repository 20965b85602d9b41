// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package errors

// ErrCode is type for multiple reconizable errors.
type ErrCode int

// error codes
const (
	// if error is unknown
	Unknown ErrCode = 0

	// if the item not found in the space
	NotFound ErrCode = 1

	// if the item already present in the space
	AlreadyExists ErrCode = 2

	// if the argument is not valid
	InvalidArgument ErrCode = 3

	// if none of the configured key providers could derive a
	// rate limit key for the invocation
	KeyNotResolved ErrCode = 4

	// if the caller has used up its quota
	ResourceExhausted ErrCode = 5
)

var codeNames = map[ErrCode]string{
	Unknown:           "Unknown",
	NotFound:          "NotFound",
	AlreadyExists:     "AlreadyExists",
	InvalidArgument:   "InvalidArgument",
	KeyNotResolved:    "KeyNotResolved",
	ResourceExhausted: "ResourceExhausted",
}

// String returns the name of the error code
func (c ErrCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "Unknown"
}
