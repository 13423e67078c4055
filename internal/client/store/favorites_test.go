package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavorites_SetAndCheck(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ok, err := s.IsFavorite(ctx, "u1", "a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetFavorite(ctx, "u1", "a", true))
	ok, err = s.IsFavorite(ctx, "u1", "a")
	require.NoError(t, err)
	assert.True(t, ok)

	// other users are independent
	ok, err = s.IsFavorite(ctx, "u2", "a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetFavorite(ctx, "u1", "a", false))
	ids, err := s.GetFavoriteSongIDs(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestReplaceFavoritesForUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceFavoritesForUser(ctx, "u1", []string{"A", "B"}))
	require.NoError(t, s.SetFavorite(ctx, "u2", "A", true))

	later := fixedNow.Add(time.Hour)
	s.now = func() time.Time { return later }
	require.NoError(t, s.ReplaceFavoritesForUser(ctx, "u1", []string{"B", "C"}))

	repos, err := s.repositories(ctx)
	require.NoError(t, err)

	b, err := repos.Favorites.Get(ctx, "u1", "B")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.True(t, b.IsFavorite)
	assert.True(t, fixedNow.Equal(b.UpdatedAt), "B was already favorite and must not be rewritten")

	c, err := repos.Favorites.Get(ctx, "u1", "C")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.True(t, later.Equal(c.UpdatedAt))

	a, err := repos.Favorites.Get(ctx, "u1", "A")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.False(t, a.IsFavorite)
	assert.True(t, later.Equal(a.UpdatedAt))

	ids, err := s.GetFavoriteSongIDs(ctx, "u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"B", "C"}, ids)

	ok, err := s.IsFavorite(ctx, "u1", "A")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.IsFavorite(ctx, "u2", "A")
	require.NoError(t, err)
	assert.True(t, ok, "replace is scoped to one user")
}

func TestReplaceFavoritesForUser_Empty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceFavoritesForUser(ctx, "u1", []string{"A", "A", "B"}))
	require.NoError(t, s.ReplaceFavoritesForUser(ctx, "u1", nil))

	ids, err := s.GetFavoriteSongIDs(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
