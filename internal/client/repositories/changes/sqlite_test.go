package changes

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/songbook/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE pending_changes (
  id          INTEGER PRIMARY KEY AUTOINCREMENT,
  type        TEXT NOT NULL,
  user_id     TEXT NOT NULL DEFAULT '',
  song_id     TEXT NOT NULL DEFAULT '',
  is_favorite INTEGER NOT NULL DEFAULT 0,
  payload     BLOB,
  synced      INTEGER NOT NULL DEFAULT 0,
  timestamp   INTEGER NOT NULL
);`)
	require.NoError(t, err)
	return db
}

var ts = time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)

func favChange(song string, on bool) models.Change {
	return models.Change{Type: models.ChangeFavorite, UserID: "u1", SongID: song, IsFavorite: on, Timestamp: ts}
}

func TestAdd_GeneratesIncreasingIDs(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	id1, err := r.Add(ctx, favChange("a", true))
	require.NoError(t, err)
	id2, err := r.Add(ctx, favChange("a", true))
	require.NoError(t, err)
	assert.Greater(t, id2, id1, "identical changes are appended, not merged")

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, id1, list[0].ID)
	assert.False(t, list[0].Synced)
	assert.Equal(t, ts, list[0].Timestamp)
}

func TestAdd_IgnoresSyncedFlagAndKeepsPayload(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	s := &models.Song{ID: "s1", Title: "New", Source: models.SourceLocal, LastModified: 5}
	_, err := r.Add(ctx, models.Change{Type: models.ChangeSongCreate, UserID: "u1", SongID: "s1",
		Song: s, Synced: true, Timestamp: ts})
	require.NoError(t, err)

	list, err := r.ListUnsynced(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Song)
	assert.Equal(t, *s, *list[0].Song)
	assert.Equal(t, models.ChangeSongCreate, list[0].Type)
}

func TestMarkSyncedAndDeleteSynced(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	id1, err := r.Add(ctx, favChange("a", true))
	require.NoError(t, err)
	id2, err := r.Add(ctx, favChange("b", false))
	require.NoError(t, err)

	require.NoError(t, r.MarkSynced(ctx, id1))
	require.NoError(t, r.MarkSynced(ctx, 9999), "missing id is a no-op")

	n, err := r.DeleteSynced(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id2, list[0].ID)
}

func TestListByTypeAndDelete(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	favID, err := r.Add(ctx, favChange("a", true))
	require.NoError(t, err)
	_, err = r.Add(ctx, models.Change{Type: models.ChangeSongUpdate, SongID: "s", Timestamp: ts})
	require.NoError(t, err)

	favs, err := r.ListByType(ctx, models.ChangeFavorite)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, favID, favs[0].ID)

	require.NoError(t, r.Delete(ctx, favID))
	require.NoError(t, r.Delete(ctx, favID))

	favs, err = r.ListByType(ctx, models.ChangeFavorite)
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestErrorsWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Add(ctx, favChange("a", true))
	assert.ErrorContains(t, err, "failed to enqueue favorite change")
	assert.ErrorContains(t, r.MarkSynced(ctx, 1), "failed to mark change 1 synced")
	_, err = r.DeleteSynced(ctx)
	assert.ErrorContains(t, err, "failed to delete synced changes")
	_, err = r.List(ctx)
	assert.ErrorContains(t, err, "failed to select changes")
}
