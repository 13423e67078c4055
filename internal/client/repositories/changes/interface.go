// Package changes is the offline outbox: mutations recorded while the data
// service was unreachable, kept until they are replayed and purged.
package changes

import (
	"context"

	"github.com/dmitrijs2005/songbook/internal/client/models"
)

type Repository interface {
	// Add appends an entry and returns its generated id. Existing entries
	// are never overwritten; Synced on the argument is ignored.
	Add(ctx context.Context, change models.Change) (int64, error)

	// List returns all entries in insertion order, synced or not.
	List(ctx context.Context) ([]models.Change, error)

	// ListByType returns entries of one type in insertion order.
	ListByType(ctx context.Context, typ models.ChangeType) ([]models.Change, error)

	// ListUnsynced returns entries still waiting for replay.
	ListUnsynced(ctx context.Context) ([]models.Change, error)

	// MarkSynced flips the synced flag; a missing id is not an error.
	MarkSynced(ctx context.Context, id int64) error

	// DeleteSynced removes every synced entry and reports how many went.
	DeleteSynced(ctx context.Context) (int64, error)

	// Delete removes a single entry; a missing id is not an error.
	Delete(ctx context.Context, id int64) error
}
