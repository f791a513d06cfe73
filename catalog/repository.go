// Package catalog implements the cache-aside read path over the remote movie
// catalog: the local store is consulted first and the remote client is only
// called on a miss, with successful results written back before returning.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"movieapp/models"
	"movieapp/repository"
)

// Client is the remote catalog
type Client interface {
	ListByCategory(ctx context.Context, category models.Category, apiKey string) models.Resource[[]models.Movie]
	GetDetail(ctx context.Context, id int, apiKey string) models.Resource[*models.MovieDetail]
}

// MovieStore persists movie summaries keyed by (category, id)
type MovieStore interface {
	GetByCategory(ctx context.Context, category models.Category) ([]models.Movie, error)
	UpsertAll(ctx context.Context, movies []models.Movie) error
}

// DetailStore persists movie details keyed by id
type DetailStore interface {
	GetByID(ctx context.Context, id int) (*models.MovieDetail, error)
	Upsert(ctx context.Context, detail *models.MovieDetail) error
}

// EventRecorder receives an audit record for every read
type EventRecorder interface {
	Create(ctx context.Context, event models.FetchEvent) error
}

// Repository serves movie reads from the local store, falling back to the client
type Repository struct {
	client  Client
	movies  MovieStore
	details DetailStore
	events  EventRecorder
	strict  bool
}

// Option configures a Repository
type Option func(*Repository)

// WithEventRecorder records a FetchEvent for every read
func WithEventRecorder(events EventRecorder) Option {
	return func(r *Repository) {
		r.events = events
	}
}

// WithStrictCategories makes unknown categories an Error result instead of
// falling back to upcoming.
func WithStrictCategories() Option {
	return func(r *Repository) {
		r.strict = true
	}
}

// NewRepository creates a new cache-aside repository
func NewRepository(client Client, movies MovieStore, details DetailStore, opts ...Option) *Repository {
	r := &Repository{
		client:  client,
		movies:  movies,
		details: details,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveCategory maps a raw category onto a known one. Unknown values fall
// back to upcoming unless the repository is strict.
func (r *Repository) ResolveCategory(raw string) (models.Category, error) {
	category, err := models.ParseCategory(raw)
	if err == nil {
		return category, nil
	}
	if r.strict {
		return "", err
	}
	return models.CategoryUpcoming, nil
}

// GetMovies returns the movies for a category: stored rows if any exist,
// otherwise the remote listing, persisted before it is returned.
func (r *Repository) GetMovies(ctx context.Context, rawCategory string, apiKey string) models.Resource[[]models.Movie] {
	category, err := r.ResolveCategory(rawCategory)
	if err != nil {
		return models.Error[[]models.Movie](err.Error())
	}
	if string(category) != rawCategory {
		log.Printf("[CATALOG] Unknown category %q, falling back to %s", rawCategory, category)
	}
	key := string(category)

	cached, err := r.movies.GetByCategory(ctx, category)
	if err != nil {
		log.Printf("[CATALOG] Failed to read cached movies for %s: %v", category, err)
	} else if len(cached) > 0 {
		log.Printf("[CATALOG] Cache hit for %s (%d movies)", category, len(cached))
		r.record(ctx, models.FetchKindMovies, key, models.SourceCache, models.StatusSuccess, "")
		return models.Success(cached)
	}

	log.Printf("[CATALOG] Cache miss for %s, fetching from remote", category)
	result := callClient(func() models.Resource[[]models.Movie] {
		return r.client.ListByCategory(ctx, category, apiKey)
	})

	if movies, ok := result.Data(); ok && result.IsSuccess() {
		if err := r.movies.UpsertAll(ctx, movies); err != nil {
			log.Printf("[CATALOG] Warning: failed to cache movies for %s: %v", category, err)
		}
	}

	r.record(ctx, models.FetchKindMovies, key, models.SourceRemote, result.Status(), result.Message())
	return result
}

// GetMovieDetails returns the stored detail for id if present, otherwise the
// remote detail, persisted before it is returned.
func (r *Repository) GetMovieDetails(ctx context.Context, id int, apiKey string) models.Resource[*models.MovieDetail] {
	key := strconv.Itoa(id)

	cached, err := r.details.GetByID(ctx, id)
	switch {
	case err == nil && cached != nil:
		log.Printf("[CATALOG] Cache hit for movie %d", id)
		r.record(ctx, models.FetchKindDetail, key, models.SourceCache, models.StatusSuccess, "")
		return models.Success(cached)
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		log.Printf("[CATALOG] Failed to read cached detail for movie %d: %v", id, err)
	}

	log.Printf("[CATALOG] Cache miss for movie %d, fetching from remote", id)
	result := callClient(func() models.Resource[*models.MovieDetail] {
		return r.client.GetDetail(ctx, id, apiKey)
	})

	if detail, ok := result.Data(); ok && result.IsSuccess() && detail != nil {
		// Stored under the requested id so later lookups hit
		if detail.ID != id {
			log.Printf("[CATALOG] Remote detail for movie %d carried id %d", id, detail.ID)
			detail.ID = id
		}
		if err := r.details.Upsert(ctx, detail); err != nil {
			log.Printf("[CATALOG] Warning: failed to cache detail for movie %d: %v", id, err)
		}
	}

	r.record(ctx, models.FetchKindDetail, key, models.SourceRemote, result.Status(), result.Message())
	return result
}

// callClient runs fn and converts a panic into an Error result
func callClient[T any](fn func() models.Resource[T]) (result models.Resource[T]) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("[CATALOG] Recovered from panic in remote call: %v", p)
			result = models.Error[T](panicMessage(p))
		}
	}()
	return fn()
}

func panicMessage(p interface{}) string {
	var msg string
	switch v := p.(type) {
	case error:
		msg = v.Error()
	case string:
		msg = v
	default:
		msg = fmt.Sprint(v)
	}
	if msg == "" {
		return "Error"
	}
	return msg
}

func (r *Repository) record(ctx context.Context, kind models.FetchKind, key string, source models.FetchSource, outcome models.ResourceStatus, message string) {
	if r.events == nil {
		return
	}
	event := models.FetchEvent{
		Kind:    kind,
		Key:     key,
		Source:  source,
		Outcome: outcome,
		Message: message,
	}
	if err := r.events.Create(ctx, event); err != nil {
		log.Printf("[CATALOG] Failed to record fetch event: %v", err)
	}
}
