package store

import (
	"context"

	"github.com/dmitrijs2005/songbook/internal/client/models"
)

// MergeServerAndLocal stores a pulled server snapshot next to locally held
// songs and returns the conflicts found by this call.
//
// Server songs are upserted tagged server. A local song that also exists on
// the server is a conflict when the modification times differ and the local
// one is non-zero: the conflict keeps both versions and the local copy wins
// the working record, tagged local_merged. A resolved conflict is not
// reopened while both versions keep their modification times. Local songs
// unknown to the server are kept as locally created, tagged local.
func (s *Store) MergeServerAndLocal(ctx context.Context, server, local []models.Song) ([]models.Conflict, error) {
	found := make([]models.Conflict, 0)

	err := s.withTx(ctx, func(ctx context.Context, repos *Repositories) error {
		found = found[:0]

		byID := make(map[string]models.Song, len(server))
		for _, song := range server {
			song = song.WithSource(models.SourceServer)
			byID[song.ID] = song
			if err := repos.Songs.Upsert(ctx, song); err != nil {
				return err
			}
		}

		now := s.now()
		for _, song := range local {
			remote, onServer := byID[song.ID]
			if !onServer {
				if err := repos.Songs.Upsert(ctx, song.WithSource(models.SourceLocal)); err != nil {
					return err
				}
				continue
			}

			if song.LastModified == 0 || song.LastModified == remote.LastModified {
				continue
			}

			// the local copy stays the working record; a conflict the user
			// already resolved stays resolved until either version moves
			if err := repos.Songs.Upsert(ctx, song.WithSource(models.SourceLocalMerged)); err != nil {
				return err
			}
			prev, err := repos.Conflicts.Get(ctx, song.ID)
			if err != nil {
				return err
			}
			if prev != nil && prev.Resolved &&
				prev.Local.LastModified == song.LastModified &&
				prev.Server.LastModified == remote.LastModified {
				continue
			}

			c := models.Conflict{
				SongID:    song.ID,
				Local:     song,
				Server:    remote,
				Timestamp: now,
			}
			if err := repos.Conflicts.Save(ctx, c); err != nil {
				return err
			}
			found = append(found, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(found) > 0 {
		s.logger.Warn(ctx, "merge produced conflicts", "count", len(found))
	}
	return found, nil
}

// GetConflicts lists stored conflicts, optionally only unresolved ones.
func (s *Store) GetConflicts(ctx context.Context, unresolvedOnly bool) ([]models.Conflict, error) {
	repos, err := s.repositories(ctx)
	if err != nil {
		return nil, err
	}
	return repos.Conflicts.List(ctx, unresolvedOnly)
}

// ResolveConflict marks the conflict of songID resolved. The record is kept.
func (s *Store) ResolveConflict(ctx context.Context, songID string) error {
	repos, err := s.repositories(ctx)
	if err != nil {
		return err
	}
	return repos.Conflicts.Resolve(ctx, songID)
}
