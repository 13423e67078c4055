package conflicts

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
CREATE TABLE conflicts (
  song_id   TEXT PRIMARY KEY,
  local     BLOB NOT NULL,
  server    BLOB NOT NULL,
  resolved  INTEGER NOT NULL DEFAULT 0,
  timestamp INTEGER NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func conflict(id string, at time.Time) models.Conflict {
	return models.Conflict{
		SongID:    id,
		Local:     models.Song{ID: id, Title: "mine", Source: models.SourceLocalMerged, LastModified: 50},
		Server:    models.Song{ID: id, Title: "theirs", Source: models.SourceServer, LastModified: 100},
		Timestamp: at,
	}
}

func TestSaveAndList(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, r.Save(ctx, conflict("b", t0.Add(time.Minute))))
	require.NoError(t, r.Save(ctx, conflict("a", t0)))

	list, err := r.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, conflict("a", t0), list[0])
	assert.Equal(t, "b", list[1].SongID)
}

func TestResolve_FiltersUnresolvedAndKeepsRow(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, r.Save(ctx, conflict("a", t0)))
	require.NoError(t, r.Save(ctx, conflict("b", t0)))
	require.NoError(t, r.Resolve(ctx, "a"))
	require.NoError(t, r.Resolve(ctx, "missing"))

	open, err := r.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "b", open[0].SongID)

	all, err := r.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].Resolved)
}

func TestSave_ReopensOnNewConflict(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, r.Save(ctx, conflict("a", t0)))
	require.NoError(t, r.Resolve(ctx, "a"))
	require.NoError(t, r.Save(ctx, conflict("a", t0.Add(time.Hour))))

	open, err := r.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, t0.Add(time.Hour), open[0].Timestamp)
}

func TestGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	missing, err := r.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, r.Save(ctx, conflict("a", t0)))
	require.NoError(t, r.Resolve(ctx, "a"))

	got, err := r.Get(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	want := conflict("a", t0)
	want.Resolved = true
	assert.Equal(t, want, *got)
}
