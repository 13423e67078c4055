// Package metadata persists sync bookkeeping (for example the lastSync
// timestamp) as key/value rows. Rows are upserted; Get on a missing key
// returns (nil, nil).
package metadata

import (
	"context"
)

// LastSyncKey holds the RFC 3339 time of the last successful song pull.
const LastSyncKey = "lastSync"

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
