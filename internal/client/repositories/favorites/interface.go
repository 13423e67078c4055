// Package favorites persists per-user favorite flags keyed by
// (user_id, song_id).
package favorites

import (
	"context"

	"github.com/dmitrijs2005/songbook/internal/client/models"
)

type Repository interface {
	// Set upserts the record for (fav.UserID, fav.SongID).
	Set(ctx context.Context, fav models.Favorite) error

	// Get returns the record or nil when the pair was never stored.
	Get(ctx context.Context, userID, songID string) (*models.Favorite, error)

	// SongIDs returns the ids the user currently marks as favorite.
	SongIDs(ctx context.Context, userID string) ([]string, error)

	// ListByUser returns every record of the user, favorite or not.
	ListByUser(ctx context.Context, userID string) ([]models.Favorite, error)

	Clear(ctx context.Context) error
}
