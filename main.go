// Package main provides the main entry point for the movie catalog application.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"movieapp/catalog"
	"movieapp/config"
	"movieapp/database"
	"movieapp/models"
	"movieapp/repository"
	"movieapp/services"

	"github.com/gorilla/mux"
)

// defaultCategory is the listing shown when none is requested
const defaultCategory = string(models.CategoryPopular)

// App represents the application with its dependencies
type App struct {
	catalog   *catalog.Repository
	eventRepo *repository.FetchEventRepository
	apiKey    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

// newApp opens the database and wires the catalog. The returned cleanup closes the database.
func newApp(cfg *config.Config) (*App, func(), error) {
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}

	if err := db.Migrate(); err != nil {
		cleanup()
		return nil, nil, err
	}

	tmdbService, err := services.NewTMDBService(cfg.TMDBBaseURL)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	eventRepo := repository.NewFetchEventRepository(db)
	opts := []catalog.Option{catalog.WithEventRecorder(eventRepo)}
	if cfg.StrictCategories {
		opts = append(opts, catalog.WithStrictCategories())
	}

	app := &App{
		catalog: catalog.NewRepository(
			tmdbService,
			repository.NewMovieRepository(db),
			repository.NewMovieDetailRepository(db),
			opts...,
		),
		eventRepo: eventRepo,
		apiKey:    cfg.TMDBAPIKey,
	}
	return app, cleanup, nil
}

func (app *App) router() *mux.Router {
	r := mux.NewRouter()

	// Health check endpoint
	r.HandleFunc("/health", healthHandler).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/movies", app.getMoviesHandler).Methods("GET")
	api.HandleFunc("/movies/{id}", app.getMovieByIDHandler).Methods("GET")
	api.HandleFunc("/events", app.getEventsHandler).Methods("GET")
	api.HandleFunc("/events/stats", app.getEventStatsHandler).Methods("GET")

	return r
}

func (app *App) server(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      app.router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func (app *App) getMoviesHandler(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = defaultCategory
	}

	if _, err := app.catalog.ResolveCategory(category); err != nil {
		writeJSON(w, http.StatusBadRequest, models.Error[[]models.Movie](err.Error()))
		return
	}

	result := app.catalog.GetMovies(r.Context(), category, app.apiKey)
	writeJSON(w, resourceStatusCode(result.Status()), result)
}

func (app *App) getMovieByIDHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	movieID, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "Invalid movie ID", http.StatusBadRequest)
		return
	}

	result := app.catalog.GetMovieDetails(r.Context(), movieID, app.apiKey)
	writeJSON(w, resourceStatusCode(result.Status()), result)
}

func (app *App) getEventsHandler(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	events, err := app.eventRepo.Recent(r.Context(), limit)
	if err != nil {
		log.Printf("Error getting fetch events: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, events)
}

// getEventStatsHandler reports how many reads of each kind were served from the cache and from the remote API
func (app *App) getEventStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats := make(map[models.FetchKind]map[models.FetchSource]int)
	for _, kind := range []models.FetchKind{models.FetchKindMovies, models.FetchKindDetail} {
		stats[kind] = make(map[models.FetchSource]int)
		for _, source := range []models.FetchSource{models.SourceCache, models.SourceRemote} {
			count, err := app.eventRepo.CountBySource(r.Context(), kind, source)
			if err != nil {
				log.Printf("Error counting fetch events: %v", err)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			stats[kind][source] = count
		}
	}

	writeJSON(w, http.StatusOK, stats)
}

// resourceStatusCode maps a result status onto the HTTP response code
func resourceStatusCode(status models.ResourceStatus) int {
	switch status {
	case models.StatusSuccess:
		return http.StatusOK
	case models.StatusError:
		return http.StatusBadGateway
	default:
		return http.StatusAccepted
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
