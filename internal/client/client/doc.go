// Package client contains the remote side of the SongBook sync agent.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) used by the
//     sync services: Ping, FetchSongs, FetchFavorites, PushChange.
//  2. A concrete HTTP JSON implementation (see HTTPClient) that sends a bearer
//     token and maps response statuses to sentinel errors.
//  3. A connectivity probe speaking the gRPC health-checking protocol (see
//     HealthProbe). HTTPClient.Ping prefers it and falls back to a plain HTTP
//     health request.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized.
//
// All operations accept context.Context and honor cancellation/timeouts.
package client
