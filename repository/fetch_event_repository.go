package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"movieapp/database"
	"movieapp/models"
)

// FetchEventRepository handles fetch audit records
type FetchEventRepository struct {
	db *database.DB
}

// NewFetchEventRepository creates a new fetch event repository
func NewFetchEventRepository(db *database.DB) *FetchEventRepository {
	return &FetchEventRepository{db: db}
}

// Create adds a new fetch event
func (r *FetchEventRepository) Create(ctx context.Context, event models.FetchEvent) error {
	query := `INSERT INTO fetch_events (kind, key, source, outcome, message) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		string(event.Kind), event.Key, string(event.Source), string(event.Outcome), nullString(event.Message))
	if err != nil {
		return fmt.Errorf("failed to create fetch event: %w", err)
	}

	return nil
}

// Recent returns up to limit events, newest first
func (r *FetchEventRepository) Recent(ctx context.Context, limit int) ([]models.FetchEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, kind, key, source, outcome, message, created_at
			  FROM fetch_events
			  ORDER BY id DESC
			  LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query fetch events: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Printf("Failed to close rows: %v", cerr)
		}
	}()

	events := []models.FetchEvent{}
	for rows.Next() {
		var event models.FetchEvent
		var message sql.NullString
		var createdAt string

		err := rows.Scan(&event.ID, &event.Kind, &event.Key, &event.Source, &event.Outcome, &message, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fetch event: %w", err)
		}

		event.Message = message.String
		if parsedTime, err := parseSQLiteTime(createdAt); err == nil {
			event.CreatedAt = parsedTime
		}

		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fetch events: %w", err)
	}

	return events, nil
}

// CountBySource returns how many events of kind were served from source
func (r *FetchEventRepository) CountBySource(ctx context.Context, kind models.FetchKind, source models.FetchSource) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fetch_events WHERE kind = ? AND source = ?`,
		string(kind), string(source)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count fetch events: %w", err)
	}
	return count, nil
}

// go-sqlite3 returns DATETIME columns either as RFC3339 or in sqlite's own layout
func parseSQLiteTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}
