package client

import (
	"context"

	"github.com/dmitrijs2005/songbook/internal/client/models"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	FetchSongs(ctx context.Context) ([]models.Song, error)
	FetchFavorites(ctx context.Context, userID string) ([]string, error)
	PushChange(ctx context.Context, change models.Change) error
}

// Prober reports whether the remote side is reachable.
type Prober interface {
	Probe(ctx context.Context) error
}
