package store

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/songbook/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutbox_EnqueueMarkClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.EnqueueFavoriteChange(ctx, "u1", "a", true)
	require.NoError(t, err)

	pending, err := s.GetPendingChanges(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, id, pending[0].ID)
	assert.False(t, pending[0].Synced)
	assert.Equal(t, models.ChangeFavorite, pending[0].Type)
	assert.True(t, fixedNow.Equal(pending[0].Timestamp))

	require.NoError(t, s.MarkChangeSynced(ctx, id))
	n, err := s.ClearSyncedChanges(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	pending, err = s.GetPendingChanges(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestOutbox_MarkSyncedMissingIsNoop(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.MarkChangeSynced(ctx, 4242))
	require.NoError(t, s.RemoveChange(ctx, 4242))
}

func TestOutbox_OrderAndFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	song := &models.Song{ID: "n1", Title: "New", Source: models.SourceLocal, LastModified: 7}
	first, err := s.EnqueueChange(ctx, models.Change{Type: models.ChangeSongCreate, SongID: "n1", Song: song, Synced: true})
	require.NoError(t, err)
	second, err := s.EnqueueFavoriteChange(ctx, "u1", "a", false)
	require.NoError(t, err)
	assert.Greater(t, second, first)

	pending, err := s.GetPendingChanges(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first, pending[0].ID)
	assert.False(t, pending[0].Synced, "enqueue always stores unsynced")
	require.NotNil(t, pending[0].Song)
	assert.Equal(t, *song, *pending[0].Song)

	favs, err := s.GetFavoriteQueue(ctx)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, second, favs[0].ID)

	require.NoError(t, s.MarkChangeSynced(ctx, first))
	unsynced, err := s.GetUnsyncedChanges(ctx)
	require.NoError(t, err)
	require.Len(t, unsynced, 1)
	assert.Equal(t, second, unsynced[0].ID)

	require.NoError(t, s.RemoveChange(ctx, second))
	pending, err = s.GetPendingChanges(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.True(t, pending[0].Synced)
}
