package store

import (
	"context"

	"github.com/dmitrijs2005/songbook/internal/client/models"
)

// EnqueueChange appends change to the outbox as unsynced, stamped with the
// current time, and returns the generated id.
func (s *Store) EnqueueChange(ctx context.Context, change models.Change) (int64, error) {
	repos, err := s.repositories(ctx)
	if err != nil {
		return 0, err
	}
	change.Synced = false
	change.Timestamp = s.now()
	return repos.Changes.Add(ctx, change)
}

// EnqueueFavoriteChange records an offline favorite toggle.
func (s *Store) EnqueueFavoriteChange(ctx context.Context, userID, songID string, isFavorite bool) (int64, error) {
	return s.EnqueueChange(ctx, models.Change{
		Type:       models.ChangeFavorite,
		UserID:     userID,
		SongID:     songID,
		IsFavorite: isFavorite,
	})
}

// GetPendingChanges returns every outbox entry in insertion order.
func (s *Store) GetPendingChanges(ctx context.Context) ([]models.Change, error) {
	repos, err := s.repositories(ctx)
	if err != nil {
		return nil, err
	}
	return repos.Changes.List(ctx)
}

// GetUnsyncedChanges returns the entries still waiting for replay.
func (s *Store) GetUnsyncedChanges(ctx context.Context) ([]models.Change, error) {
	repos, err := s.repositories(ctx)
	if err != nil {
		return nil, err
	}
	return repos.Changes.ListUnsynced(ctx)
}

// GetFavoriteQueue returns the favorite toggles of the outbox.
func (s *Store) GetFavoriteQueue(ctx context.Context) ([]models.Change, error) {
	repos, err := s.repositories(ctx)
	if err != nil {
		return nil, err
	}
	return repos.Changes.ListByType(ctx, models.ChangeFavorite)
}

// MarkChangeSynced flags the entry as replayed. Unknown ids are ignored.
func (s *Store) MarkChangeSynced(ctx context.Context, id int64) error {
	repos, err := s.repositories(ctx)
	if err != nil {
		return err
	}
	return repos.Changes.MarkSynced(ctx, id)
}

// ClearSyncedChanges purges replayed entries and keeps unsynced ones.
func (s *Store) ClearSyncedChanges(ctx context.Context) (int64, error) {
	repos, err := s.repositories(ctx)
	if err != nil {
		return 0, err
	}
	return repos.Changes.DeleteSynced(ctx)
}

// RemoveChange drops a single outbox entry regardless of its state.
func (s *Store) RemoveChange(ctx context.Context, id int64) error {
	repos, err := s.repositories(ctx)
	if err != nil {
		return err
	}
	return repos.Changes.Delete(ctx, id)
}
