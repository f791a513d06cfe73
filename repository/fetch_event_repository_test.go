package repository

import (
	"context"
	"testing"

	"movieapp/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchEventRepository_CreateAndRecent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewFetchEventRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, models.FetchEvent{
		Kind: models.FetchKindMovies, Key: "popular", Source: models.SourceRemote, Outcome: models.StatusSuccess,
	}))
	require.NoError(t, repo.Create(ctx, models.FetchEvent{
		Kind: models.FetchKindDetail, Key: "550", Source: models.SourceRemote, Outcome: models.StatusError, Message: "Not Found",
	}))

	events, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Newest first
	assert.Equal(t, models.FetchKindDetail, events[0].Kind)
	assert.Equal(t, "550", events[0].Key)
	assert.Equal(t, models.StatusError, events[0].Outcome)
	assert.Equal(t, "Not Found", events[0].Message)
	assert.False(t, events[0].CreatedAt.IsZero())

	assert.Equal(t, models.FetchKindMovies, events[1].Kind)
	assert.Empty(t, events[1].Message)
}

func TestFetchEventRepository_RecentLimit(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewFetchEventRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, models.FetchEvent{
			Kind: models.FetchKindMovies, Key: "upcoming", Source: models.SourceCache, Outcome: models.StatusSuccess,
		}))
	}

	events, err := repo.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, events, 3)

	empty, err := NewFetchEventRepository(db).Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, empty, 5, "non-positive limit uses the default")
}

func TestFetchEventRepository_CountBySource(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewFetchEventRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, models.FetchEvent{Kind: models.FetchKindMovies, Key: "popular", Source: models.SourceCache, Outcome: models.StatusSuccess}))
	require.NoError(t, repo.Create(ctx, models.FetchEvent{Kind: models.FetchKindMovies, Key: "popular", Source: models.SourceCache, Outcome: models.StatusSuccess}))
	require.NoError(t, repo.Create(ctx, models.FetchEvent{Kind: models.FetchKindMovies, Key: "popular", Source: models.SourceRemote, Outcome: models.StatusSuccess}))

	count, err := repo.CountBySource(ctx, models.FetchKindMovies, models.SourceCache)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = repo.CountBySource(ctx, models.FetchKindDetail, models.SourceCache)
	require.NoError(t, err)
	assert.Zero(t, count)
}
