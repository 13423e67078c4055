package songs

import (
	"context"

	"github.com/dmitrijs2005/songbook/internal/client/models"
)

// Repository describes CRUD and query operations for Song records.
type Repository interface {
	// Upsert inserts the song or replaces the stored record with the same id.
	Upsert(ctx context.Context, song models.Song) error

	// GetAll returns every song ordered by id.
	GetAll(ctx context.Context) ([]models.Song, error)

	// GetByID returns the song or nil when it does not exist.
	GetByID(ctx context.Context, id string) (*models.Song, error)

	// Count returns the number of stored songs.
	Count(ctx context.Context) (int, error)

	// Clear removes every song.
	Clear(ctx context.Context) error

	// FindByTitlePrefix returns songs whose title starts with prefix, using the title index.
	FindByTitlePrefix(ctx context.Context, prefix string) ([]models.Song, error)

	// FindByLanguage returns songs in the given language, using the language index.
	FindByLanguage(ctx context.Context, language string) ([]models.Song, error)
}
