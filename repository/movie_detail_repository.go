package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"movieapp/database"
	"movieapp/models"
)

// MovieDetailRepository handles database operations for movie details
type MovieDetailRepository struct {
	db *database.DB
}

// NewMovieDetailRepository creates a new movie detail repository
func NewMovieDetailRepository(db *database.DB) *MovieDetailRepository {
	return &MovieDetailRepository{db: db}
}

// GetByID retrieves a stored movie detail, or ErrNotFound
func (r *MovieDetailRepository) GetByID(ctx context.Context, id int) (*models.MovieDetail, error) {
	query := `
		SELECT id, title, overview, genres, runtime, release_date, poster_path
		FROM movie_details
		WHERE id = ?
	`

	var detail models.MovieDetail
	var overview, releaseDate, posterPath sql.NullString
	var runtime sql.NullInt64
	var genres string

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&detail.ID, &detail.Title, &overview, &genres,
		&runtime, &releaseDate, &posterPath,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("movie detail with id %d %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get movie detail: %w", err)
	}

	detail.Genres, err = decodeGenres(genres)
	if err != nil {
		return nil, fmt.Errorf("failed to decode genres for movie %d: %w", id, err)
	}

	detail.Overview = overview.String
	detail.Runtime = int(runtime.Int64)
	detail.ReleaseDate = releaseDate.String
	detail.PosterPath = posterPath.String

	return &detail, nil
}

// Upsert stores a movie detail, replacing any existing row with the same id
func (r *MovieDetailRepository) Upsert(ctx context.Context, detail *models.MovieDetail) error {
	genres, err := encodeGenres(detail.Genres)
	if err != nil {
		return fmt.Errorf("failed to encode genres: %w", err)
	}

	query := `
		INSERT INTO movie_details (id, title, overview, genres, runtime, release_date, poster_path)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			overview = excluded.overview,
			genres = excluded.genres,
			runtime = excluded.runtime,
			release_date = excluded.release_date,
			poster_path = excluded.poster_path
	`

	_, err = r.db.ExecContext(ctx, query,
		detail.ID, detail.Title, nullString(detail.Overview), genres,
		nullInt(detail.Runtime), nullString(detail.ReleaseDate), nullString(detail.PosterPath),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert movie detail: %w", err)
	}
	return nil
}

// Genres are stored as a JSON array of {"id","name"} objects so a cached
// detail matches the remote one and names containing commas survive.
func encodeGenres(genres []models.Genre) (string, error) {
	if genres == nil {
		genres = []models.Genre{}
	}
	b, err := json.Marshal(genres)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeGenres(s string) ([]models.Genre, error) {
	genres := []models.Genre{}
	if s == "" {
		return genres, nil
	}
	if err := json.Unmarshal([]byte(s), &genres); err != nil {
		return nil, err
	}
	return genres, nil
}
