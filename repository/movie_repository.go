// Package repository provides data access layer for the movie catalog cache.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"movieapp/database"
	"movieapp/models"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// MovieRepository handles database operations for movie summaries
type MovieRepository struct {
	db *database.DB
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(db *database.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// GetByCategory retrieves every stored movie tagged with category, in insertion order
func (r *MovieRepository) GetByCategory(ctx context.Context, category models.Category) ([]models.Movie, error) {
	query := `
		SELECT id, category, title, release_date, poster_path
		FROM movies
		WHERE category = ?
		ORDER BY rowid
	`

	rows, err := r.db.QueryContext(ctx, query, string(category))
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("Failed to close rows: %v", err)
		}
	}()

	var movies []models.Movie
	for rows.Next() {
		var movie models.Movie
		var releaseDate, posterPath sql.NullString

		if err := rows.Scan(&movie.ID, &movie.Category, &movie.Title, &releaseDate, &posterPath); err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}

		movie.ReleaseDate = releaseDate.String
		movie.PosterPath = posterPath.String
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}

	return movies, nil
}

// UpsertAll inserts movies, replacing any existing row with the same (category, id)
func (r *MovieRepository) UpsertAll(ctx context.Context, movies []models.Movie) error {
	if len(movies) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Printf("Failed to rollback transaction: %v", err)
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO movies (id, category, title, release_date, poster_path)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(category, id) DO UPDATE SET
			title = excluded.title,
			release_date = excluded.release_date,
			poster_path = excluded.poster_path
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare movie insert: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Printf("Failed to close statement: %v", err)
		}
	}()

	for _, movie := range movies {
		if _, err := stmt.ExecContext(ctx,
			movie.ID, string(movie.Category), movie.Title,
			nullString(movie.ReleaseDate), nullString(movie.PosterPath),
		); err != nil {
			return fmt.Errorf("failed to upsert movie %d: %w", movie.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit movies: %w", err)
	}
	return nil
}

// Helper functions for handling null values
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(i int) sql.NullInt64 {
	if i == 0 {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: int64(i), Valid: true}
}
