package store

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/songbook/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_ConflictOnDifferentTimestamps(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	server := []models.Song{{ID: "s1", Title: "Server", LastModified: 100}}
	local := []models.Song{{ID: "s1", Title: "Local", LastModified: 50}}

	found, err := s.MergeServerAndLocal(ctx, server, local)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "s1", found[0].SongID)
	assert.Equal(t, "Local", found[0].Local.Title)
	assert.Equal(t, "Server", found[0].Server.Title)
	assert.Equal(t, models.SourceServer, found[0].Server.Source)

	got, err := s.GetSongByID(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.SourceLocalMerged, got.Source)
	assert.Equal(t, "Local", got.Title)

	stored, err := s.GetConflicts(ctx, true)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.False(t, stored[0].Resolved)
	assert.True(t, fixedNow.Equal(stored[0].Timestamp))
}

func TestMerge_NoConflictCases(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	server := []models.Song{
		{ID: "same", Title: "Same", LastModified: 10},
		{ID: "zero", Title: "Zero", LastModified: 10},
	}
	local := []models.Song{
		{ID: "same", Title: "Same local", LastModified: 10},
		{ID: "zero", Title: "Zero local"},
		{ID: "mine", Title: "Mine", LastModified: 5},
	}

	found, err := s.MergeServerAndLocal(ctx, server, local)
	require.NoError(t, err)
	assert.Empty(t, found)

	same, err := s.GetSongByID(ctx, "same")
	require.NoError(t, err)
	assert.Equal(t, models.SourceServer, same.Source)
	assert.Equal(t, "Same", same.Title)

	zero, err := s.GetSongByID(ctx, "zero")
	require.NoError(t, err)
	assert.Equal(t, "Zero", zero.Title)

	mine, err := s.GetSongByID(ctx, "mine")
	require.NoError(t, err)
	require.NotNil(t, mine)
	assert.Equal(t, models.SourceLocal, mine.Source)

	n, err := s.GetSongCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestResolveConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.MergeServerAndLocal(ctx,
		[]models.Song{{ID: "a", LastModified: 2}, {ID: "b", LastModified: 2}},
		[]models.Song{{ID: "a", LastModified: 1}, {ID: "b", LastModified: 3}})
	require.NoError(t, err)

	require.NoError(t, s.ResolveConflict(ctx, "a"))
	require.NoError(t, s.ResolveConflict(ctx, "missing"))

	open, err := s.GetConflicts(ctx, true)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "b", open[0].SongID)

	all, err := s.GetConflicts(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMerge_ResolvedConflictSurvivesResync(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	server := []models.Song{{ID: "1", Title: "Server", LastModified: 100}}

	found, err := s.MergeServerAndLocal(ctx, server, []models.Song{{ID: "1", Title: "Local", LastModified: 50}})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.NoError(t, s.ResolveConflict(ctx, "1"))

	// the next sync hands the working copy back as local
	held, err := s.GetSongByID(ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, held)
	assert.Equal(t, models.SourceLocalMerged, held.Source)

	found, err = s.MergeServerAndLocal(ctx, server, []models.Song{*held})
	require.NoError(t, err)
	assert.Empty(t, found)

	open, err := s.GetConflicts(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, open)

	got, err := s.GetSongByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Local", got.Title)
	assert.Equal(t, models.SourceLocalMerged, got.Source)
}

func TestMerge_ResolvedConflictReopensOnNewServerVersion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	local := []models.Song{{ID: "1", Title: "Local", LastModified: 50}}

	_, err := s.MergeServerAndLocal(ctx, []models.Song{{ID: "1", LastModified: 100}}, local)
	require.NoError(t, err)
	require.NoError(t, s.ResolveConflict(ctx, "1"))

	found, err := s.MergeServerAndLocal(ctx, []models.Song{{ID: "1", Title: "Edited", LastModified: 200}}, local)
	require.NoError(t, err)
	require.Len(t, found, 1)

	open, err := s.GetConflicts(ctx, true)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "Edited", open[0].Server.Title)
}
