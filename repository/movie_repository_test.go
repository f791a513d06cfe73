package repository

import (
	"context"
	"fmt"
	"testing"

	"movieapp/database"
	"movieapp/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (*database.DB, func()) {
	// Create a temporary test database
	testDB, err := database.NewDB(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	if err := testDB.Migrate(); err != nil {
		t.Fatalf("Failed to initialize test schema: %v", err)
	}

	// Return cleanup function
	cleanup := func() {
		if err := testDB.Close(); err != nil {
			t.Logf("Failed to close test database: %v", err)
		}
	}

	return testDB, cleanup
}

func testMovies(category models.Category, ids ...int) []models.Movie {
	movies := make([]models.Movie, 0, len(ids))
	for _, id := range ids {
		movies = append(movies, models.Movie{
			ID:          id,
			Title:       fmt.Sprintf("Movie %d", id),
			ReleaseDate: "2024-05-01",
			PosterPath:  fmt.Sprintf("/poster%d.jpg", id),
			Category:    category,
		})
	}
	return movies
}

func TestMovieRepository_GetByCategory_Empty(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewMovieRepository(db)

	movies, err := repo.GetByCategory(context.Background(), models.CategoryPopular)
	assert.NoError(t, err)
	assert.Empty(t, movies)
}

func TestMovieRepository_UpsertAll_RoundTrip(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewMovieRepository(db)
	ctx := context.Background()

	want := testMovies(models.CategoryPopular, 30, 10, 20)
	require.NoError(t, repo.UpsertAll(ctx, want))

	got, err := repo.GetByCategory(ctx, models.CategoryPopular)
	require.NoError(t, err)
	assert.Equal(t, want, got, "rows come back verbatim and in insertion order")
}

func TestMovieRepository_CategoriesAreSeparate(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewMovieRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertAll(ctx, testMovies(models.CategoryPopular, 1, 2)))
	require.NoError(t, repo.UpsertAll(ctx, testMovies(models.CategoryUpcoming, 2, 3)))

	popular, err := repo.GetByCategory(ctx, models.CategoryPopular)
	require.NoError(t, err)
	assert.Len(t, popular, 2)

	upcoming, err := repo.GetByCategory(ctx, models.CategoryUpcoming)
	require.NoError(t, err)
	assert.Len(t, upcoming, 2)
	for _, m := range upcoming {
		assert.Equal(t, models.CategoryUpcoming, m.Category)
	}

	nowPlaying, err := repo.GetByCategory(ctx, models.CategoryNowPlaying)
	require.NoError(t, err)
	assert.Empty(t, nowPlaying)
}

func TestMovieRepository_UpsertAll_OverwritesOnConflict(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewMovieRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertAll(ctx, testMovies(models.CategoryPopular, 1)))

	updated := testMovies(models.CategoryPopular, 1)
	updated[0].Title = "Renamed"
	require.NoError(t, repo.UpsertAll(ctx, updated))

	got, err := repo.GetByCategory(ctx, models.CategoryPopular)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Renamed", got[0].Title)
}

func TestMovieRepository_UpsertAll_EmptyIsNoop(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewMovieRepository(db)

	assert.NoError(t, repo.UpsertAll(context.Background(), nil))
}

func TestMovieRepository_UpsertAll_ConcurrentWriters(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewMovieRepository(db)
	ctx := context.Background()

	// Fetches of the same category racing to write the same rows
	concurrency := 4
	results := make(chan error, concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			results <- repo.UpsertAll(ctx, testMovies(models.CategoryNowPlaying, 1, 2, 3))
		}()
	}
	for i := 0; i < concurrency; i++ {
		assert.NoError(t, <-results)
	}

	got, err := repo.GetByCategory(ctx, models.CategoryNowPlaying)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestMovieRepository_EmptyOptionalFields(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewMovieRepository(db)
	ctx := context.Background()

	movie := models.Movie{ID: 7, Title: "No Poster", Category: models.CategoryUpcoming}
	require.NoError(t, repo.UpsertAll(ctx, []models.Movie{movie}))

	got, err := repo.GetByCategory(ctx, models.CategoryUpcoming)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, movie, got[0])
}
