package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/songbook/internal/client/models"
	"github.com/dmitrijs2005/songbook/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/songbook/internal/common"
)

// SaveSongs upserts songs in order and stamps lastSync when all of them were
// written. The first rejected record aborts the call with
// common.ErrWriteRejected; earlier records are not rolled back.
func (s *Store) SaveSongs(ctx context.Context, list []models.Song) error {
	repos, err := s.repositories(ctx)
	if err != nil {
		return err
	}

	for i, song := range list {
		if err := repos.Songs.Upsert(ctx, song); err != nil {
			s.logger.Warn(ctx, "song batch aborted", "written", i, "total", len(list), "error", err)
			return fmt.Errorf("%w: %v", common.ErrWriteRejected, err)
		}
	}

	if err := metadata.SetTime(ctx, repos.Metadata, metadata.LastSyncKey, s.now()); err != nil {
		return fmt.Errorf("%w: %v", common.ErrWriteRejected, err)
	}
	return nil
}

// GetAllSongs returns every stored song; an empty store yields an empty slice.
func (s *Store) GetAllSongs(ctx context.Context) ([]models.Song, error) {
	repos, err := s.repositories(ctx)
	if err != nil {
		return nil, err
	}
	return repos.Songs.GetAll(ctx)
}

// GetSongByID returns the song or nil when it is not stored.
func (s *Store) GetSongByID(ctx context.Context, id string) (*models.Song, error) {
	repos, err := s.repositories(ctx)
	if err != nil {
		return nil, err
	}
	return repos.Songs.GetByID(ctx, id)
}

func (s *Store) GetSongCount(ctx context.Context) (int, error) {
	repos, err := s.repositories(ctx)
	if err != nil {
		return 0, err
	}
	return repos.Songs.Count(ctx)
}

func (s *Store) SearchSongsByTitle(ctx context.Context, prefix string) ([]models.Song, error) {
	repos, err := s.repositories(ctx)
	if err != nil {
		return nil, err
	}
	return repos.Songs.FindByTitlePrefix(ctx, prefix)
}

func (s *Store) GetSongsByLanguage(ctx context.Context, language string) ([]models.Song, error) {
	repos, err := s.repositories(ctx)
	if err != nil {
		return nil, err
	}
	return repos.Songs.FindByLanguage(ctx, language)
}

// ClearAllSongs removes songs only.
func (s *Store) ClearAllSongs(ctx context.Context) error {
	repos, err := s.repositories(ctx)
	if err != nil {
		return err
	}
	return repos.Songs.Clear(ctx)
}

// ClearAllData removes songs, sync metadata and favorites. The three clears
// are issued one after another, not as one transaction. The outbox and the
// conflict log are left alone.
func (s *Store) ClearAllData(ctx context.Context) error {
	repos, err := s.repositories(ctx)
	if err != nil {
		return err
	}

	steps := []struct {
		name  string
		clear func(context.Context) error
	}{
		{"songs", repos.Songs.Clear},
		{"metadata", repos.Metadata.Clear},
		{"favorites", repos.Favorites.Clear},
	}
	for _, step := range steps {
		if err := step.clear(ctx); err != nil {
			return fmt.Errorf("clear %s: %w", step.name, err)
		}
	}
	s.logger.Info(ctx, "local data cleared")
	return nil
}

// SetSyncMetadata upserts a metadata value.
func (s *Store) SetSyncMetadata(ctx context.Context, key, value string) error {
	repos, err := s.repositories(ctx)
	if err != nil {
		return err
	}
	return repos.Metadata.Set(ctx, key, []byte(value))
}

// GetSyncMetadata returns the value and whether the key exists.
func (s *Store) GetSyncMetadata(ctx context.Context, key string) (string, bool, error) {
	repos, err := s.repositories(ctx)
	if err != nil {
		return "", false, err
	}
	v, err := repos.Metadata.Get(ctx, key)
	if err != nil || v == nil {
		return "", false, err
	}
	return string(v), true, nil
}

// GetLastSyncTime returns the time of the last successful SaveSongs or sync,
// or the zero time when there was none.
func (s *Store) GetLastSyncTime(ctx context.Context) (time.Time, error) {
	repos, err := s.repositories(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return metadata.GetTime(ctx, repos.Metadata, metadata.LastSyncKey)
}

// TouchLastSync stamps lastSync with the current time.
func (s *Store) TouchLastSync(ctx context.Context) error {
	repos, err := s.repositories(ctx)
	if err != nil {
		return err
	}
	return metadata.SetTime(ctx, repos.Metadata, metadata.LastSyncKey, s.now())
}
