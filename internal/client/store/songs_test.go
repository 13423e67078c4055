package store

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/songbook/internal/client/models"
	"github.com/dmitrijs2005/songbook/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveSongs_RoundTripAndIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	song := models.Song{ID: "s1", Title: "Great Is Thy Faithfulness", Language: "en",
		Content: "Great is Thy faithfulness...", Source: models.SourceServer, LastModified: 1234}

	require.NoError(t, s.SaveSongs(ctx, []models.Song{song}))
	require.NoError(t, s.SaveSongs(ctx, []models.Song{song}))

	got, err := s.GetSongByID(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, song, *got)

	all, err := s.GetAllSongs(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, song, all[0])
}

func TestSongCount_Scenario(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n, err := s.GetSongCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, s.SaveSongs(ctx, []models.Song{{ID: "a"}, {ID: "b"}}))
	n, err = s.GetSongCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, s.ClearAllSongs(ctx))
	n, err = s.GetSongCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestEmptyReads(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	all, err := s.GetAllSongs(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	one, err := s.GetSongByID(ctx, "none")
	require.NoError(t, err)
	assert.Nil(t, one)

	last, err := s.GetLastSyncTime(ctx)
	require.NoError(t, err)
	assert.True(t, last.IsZero())

	_, ok, err := s.GetSyncMetadata(ctx, "whatever")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveSongs_StampsLastSync(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSongs(ctx, []models.Song{{ID: "a"}}))

	last, err := s.GetLastSyncTime(ctx)
	require.NoError(t, err)
	assert.True(t, fixedNow.Equal(last))

	raw, ok, err := s.GetSyncMetadata(ctx, "lastSync")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2026-10-19T08:00:00.000Z", raw)
}

func TestSaveSongs_RejectedRecordAbortsWithoutRollback(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Init(ctx))

	_, err := s.db.ExecContext(ctx, `
CREATE TRIGGER reject_bad BEFORE INSERT ON songs WHEN NEW.id = 'bad'
BEGIN SELECT RAISE(ABORT, 'rejected'); END;`)
	require.NoError(t, err)

	err = s.SaveSongs(ctx, []models.Song{{ID: "a"}, {ID: "bad"}, {ID: "c"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrWriteRejected)

	a, err := s.GetSongByID(ctx, "a")
	require.NoError(t, err)
	assert.NotNil(t, a, "records before the failure stay written")

	c, err := s.GetSongByID(ctx, "c")
	require.NoError(t, err)
	assert.Nil(t, c, "records after the failure are not attempted")

	last, err := s.GetLastSyncTime(ctx)
	require.NoError(t, err)
	assert.True(t, last.IsZero(), "lastSync is only stamped on success")
}

func TestSearchAndLanguage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSongs(ctx, []models.Song{
		{ID: "1", Title: "Blessed Assurance", Language: "en"},
		{ID: "2", Title: "Blessed Be", Language: "en"},
		{ID: "3", Title: "Yeshu", Language: "hi"},
	}))

	got, err := s.SearchSongsByTitle(ctx, "Blessed")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.GetSongsByLanguage(ctx, "hi")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)
}

func TestClearAllData_KeepsOutboxAndConflicts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSongs(ctx, []models.Song{{ID: "a"}}))
	require.NoError(t, s.SetFavorite(ctx, "u", "a", true))
	_, err := s.EnqueueFavoriteChange(ctx, "u", "a", true)
	require.NoError(t, err)
	_, err = s.MergeServerAndLocal(ctx,
		[]models.Song{{ID: "x", LastModified: 100}},
		[]models.Song{{ID: "x", LastModified: 50}})
	require.NoError(t, err)

	require.NoError(t, s.ClearAllData(ctx))

	n, err := s.GetSongCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	ids, err := s.GetFavoriteSongIDs(ctx, "u")
	require.NoError(t, err)
	assert.Empty(t, ids)

	last, err := s.GetLastSyncTime(ctx)
	require.NoError(t, err)
	assert.True(t, last.IsZero())

	pending, err := s.GetPendingChanges(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	conflicts, err := s.GetConflicts(ctx, false)
	require.NoError(t, err)
	assert.Len(t, conflicts, 1)
}
