package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/songbook/internal/client/client"
	"github.com/dmitrijs2005/songbook/internal/client/models"
	"github.com/dmitrijs2005/songbook/internal/logging"
)

type FavoriteService interface {
	// Toggle records the favorite locally and reports whether it was
	// queued for a later sync instead of being pushed.
	Toggle(ctx context.Context, userID, songID string, isFavorite, online bool) (queued bool, err error)
}

type favoriteService struct {
	client client.Client
	store  LocalStore
	logger logging.Logger
}

func NewFavoriteService(c client.Client, st LocalStore, logger logging.Logger) FavoriteService {
	return &favoriteService{client: c, store: st, logger: logger.With("module", "favorites")}
}

func (s *favoriteService) Toggle(ctx context.Context, userID, songID string, isFavorite, online bool) (bool, error) {
	if err := s.store.SetFavorite(ctx, userID, songID, isFavorite); err != nil {
		return false, fmt.Errorf("error saving favorite: %w", err)
	}

	if online {
		err := s.client.PushChange(ctx, models.Change{
			Type:       models.ChangeFavorite,
			UserID:     userID,
			SongID:     songID,
			IsFavorite: isFavorite,
		})
		if err == nil {
			return false, nil
		}
		s.logger.Warn(ctx, "favorite push failed, queueing", "song", songID, "error", err)
	}

	if _, err := s.store.EnqueueFavoriteChange(ctx, userID, songID, isFavorite); err != nil {
		return false, fmt.Errorf("error queueing favorite: %w", err)
	}
	return true, nil
}
