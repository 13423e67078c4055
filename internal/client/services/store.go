package services

import (
	"context"

	"github.com/dmitrijs2005/songbook/internal/client/models"
)

// LocalStore is the part of the local store used by the services.
type LocalStore interface {
	GetAllSongs(ctx context.Context) ([]models.Song, error)
	MergeServerAndLocal(ctx context.Context, server, local []models.Song) ([]models.Conflict, error)
	TouchLastSync(ctx context.Context) error

	SetFavorite(ctx context.Context, userID, songID string, isFavorite bool) error
	ReplaceFavoritesForUser(ctx context.Context, userID string, ids []string) error

	EnqueueFavoriteChange(ctx context.Context, userID, songID string, isFavorite bool) (int64, error)
	GetUnsyncedChanges(ctx context.Context) ([]models.Change, error)
	MarkChangeSynced(ctx context.Context, id int64) error
	ClearSyncedChanges(ctx context.Context) (int64, error)
}
