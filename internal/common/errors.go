// Package common defines sentinel errors shared by the local store, the sync
// agent and the resource cache controller. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Store errors.
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrWriteRejected    = errors.New("write rejected")

	// Network and cache errors.
	ErrNetworkUnavailable = errors.New("network unavailable")
	ErrCacheUnavailable   = errors.New("cache unavailable")

	// Controller message errors.
	ErrUnknownMessage = errors.New("unknown message type")
	ErrNotInstalled   = errors.New("generation not installed")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrUnauthorized = errors.New("unauthorized")
)

// AccessTokenHeaderName is the gRPC metadata key used to carry the access
// token on outbound requests.
const AccessTokenHeaderName = "access_token"
