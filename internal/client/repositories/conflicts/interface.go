// Package conflicts stores songs whose local and server copies diverged
// during a merge, one row per song id.
package conflicts

import (
	"context"

	"github.com/dmitrijs2005/songbook/internal/client/models"
)

type Repository interface {
	// Save upserts the conflict for c.SongID.
	Save(ctx context.Context, c models.Conflict) error

	// Get returns the conflict of songID, or nil when there is none.
	Get(ctx context.Context, songID string) (*models.Conflict, error)

	// List returns conflicts ordered by detection time; unresolvedOnly
	// filters through idx_conflicts_resolved.
	List(ctx context.Context, unresolvedOnly bool) ([]models.Conflict, error)

	// Resolve flips the resolved flag; a missing id is not an error.
	Resolve(ctx context.Context, songID string) error
}
