package store

import (
	"context"

	"github.com/dmitrijs2005/songbook/internal/client/models"
)

// SetFavorite upserts the (userID, songID) record. Setting the same state
// twice leaves a single record behind.
func (s *Store) SetFavorite(ctx context.Context, userID, songID string, isFavorite bool) error {
	repos, err := s.repositories(ctx)
	if err != nil {
		return err
	}
	return repos.Favorites.Set(ctx, models.Favorite{
		UserID:     userID,
		SongID:     songID,
		IsFavorite: isFavorite,
		UpdatedAt:  s.now(),
	})
}

// IsFavorite reports the stored state, false when the pair is unknown.
func (s *Store) IsFavorite(ctx context.Context, userID, songID string) (bool, error) {
	repos, err := s.repositories(ctx)
	if err != nil {
		return false, err
	}
	f, err := repos.Favorites.Get(ctx, userID, songID)
	if err != nil || f == nil {
		return false, err
	}
	return f.IsFavorite, nil
}

// GetFavoriteSongIDs returns the song ids currently marked favorite by userID.
func (s *Store) GetFavoriteSongIDs(ctx context.Context, userID string) ([]string, error) {
	repos, err := s.repositories(ctx)
	if err != nil {
		return nil, err
	}
	return repos.Favorites.SongIDs(ctx, userID)
}

// ReplaceFavoritesForUser makes ids the user's exact favorite set. Ids that
// are already favorite are left untouched, new ids are set true and ids that
// dropped out are set false. Everything happens in one transaction.
func (s *Store) ReplaceFavoritesForUser(ctx context.Context, userID string, ids []string) error {
	return s.withTx(ctx, func(ctx context.Context, repos *Repositories) error {
		current, err := repos.Favorites.SongIDs(ctx, userID)
		if err != nil {
			return err
		}

		existing := toSet(current)
		wanted := toSet(ids)
		now := s.now()

		for id := range wanted {
			if _, ok := existing[id]; ok {
				continue
			}
			err := repos.Favorites.Set(ctx, models.Favorite{UserID: userID, SongID: id, IsFavorite: true, UpdatedAt: now})
			if err != nil {
				return err
			}
		}
		for id := range existing {
			if _, ok := wanted[id]; ok {
				continue
			}
			err := repos.Favorites.Set(ctx, models.Favorite{UserID: userID, SongID: id, IsFavorite: false, UpdatedAt: now})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
