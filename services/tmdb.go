// Package services provides external service integrations.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"movieapp/models"
)

// DefaultTMDBBaseURL is the public TMDB v3 API root
const DefaultTMDBBaseURL = "https://api.themoviedb.org/3/"

// TMDBService handles interactions with The Movie Database API
type TMDBService struct {
	baseURL *url.URL
	client  *http.Client
}

// TMDBListResponse is the envelope returned by the listing endpoints
type TMDBListResponse struct {
	Results []TMDBMovie `json:"results"`
}

// TMDBMovie is a summary entry from a listing endpoint
type TMDBMovie struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
}

// TMDBMovieDetail is the response of the movie detail endpoint
type TMDBMovieDetail struct {
	ID          int            `json:"id"`
	Title       string         `json:"title"`
	Overview    string         `json:"overview"`
	Genres      []models.Genre `json:"genres"`
	Runtime     int            `json:"runtime"`
	ReleaseDate string         `json:"release_date"`
	PosterPath  string         `json:"poster_path"`
}

// NewTMDBService creates a new TMDB service instance. An empty baseURL uses DefaultTMDBBaseURL.
func NewTMDBService(baseURL string) (*TMDBService, error) {
	return NewTMDBServiceWithClient(baseURL, &http.Client{
		Timeout: 30 * time.Second,
	})
}

// NewTMDBServiceWithClient is NewTMDBService with a caller supplied HTTP client
func NewTMDBServiceWithClient(baseURL string, client *http.Client) (*TMDBService, error) {
	if baseURL == "" {
		baseURL = DefaultTMDBBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid TMDB base URL %q: %w", baseURL, err)
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &TMDBService{baseURL: u, client: client}, nil
}

// categoryPath maps a category to its listing endpoint
func categoryPath(category models.Category) (string, error) {
	switch category {
	case models.CategoryNowPlaying:
		return "movie/now_playing", nil
	case models.CategoryPopular:
		return "movie/popular", nil
	case models.CategoryUpcoming:
		return "movie/upcoming", nil
	}
	return "", fmt.Errorf("%w: %s", models.ErrUnknownCategory, category)
}

// ListByCategory fetches one of the category listings. Every returned movie is
// tagged with category.
func (t *TMDBService) ListByCategory(ctx context.Context, category models.Category, apiKey string) models.Resource[[]models.Movie] {
	path, err := categoryPath(category)
	if err != nil {
		return models.Error[[]models.Movie](err.Error())
	}

	var listResp TMDBListResponse
	if message, ok := t.get(ctx, path, apiKey, &listResp); !ok {
		return models.Error[[]models.Movie](message)
	}

	movies := make([]models.Movie, 0, len(listResp.Results))
	for _, m := range listResp.Results {
		movies = append(movies, models.Movie{
			ID:          m.ID,
			Title:       m.Title,
			ReleaseDate: m.ReleaseDate,
			PosterPath:  m.PosterPath,
			Category:    category,
		})
	}

	return models.Success(movies)
}

// GetDetail fetches movie details from TMDB by ID
func (t *TMDBService) GetDetail(ctx context.Context, id int, apiKey string) models.Resource[*models.MovieDetail] {
	var detailResp TMDBMovieDetail
	if message, ok := t.get(ctx, "movie/"+strconv.Itoa(id), apiKey, &detailResp); !ok {
		return models.Error[*models.MovieDetail](message)
	}

	return models.Success(&models.MovieDetail{
		ID:          detailResp.ID,
		Title:       detailResp.Title,
		Overview:    detailResp.Overview,
		Genres:      detailResp.Genres,
		Runtime:     detailResp.Runtime,
		ReleaseDate: detailResp.ReleaseDate,
		PosterPath:  detailResp.PosterPath,
	})
}

// get performs a GET against path and decodes the JSON body into v. On
// failure it returns the message to surface to the caller and false.
func (t *TMDBService) get(ctx context.Context, path, apiKey string, v interface{}) (string, bool) {
	endpoint := t.baseURL.ResolveReference(&url.URL{Path: path})
	params := url.Values{}
	params.Set("api_key", apiKey)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return errorMessage(err), false
	}

	resp, err := t.client.Do(req)
	if err != nil {
		log.Printf("[TMDB] Request to %s failed: %v", path, err)
		return errorMessage(err), false
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[TMDB] %s returned status %d", path, resp.StatusCode)
		return statusMessage(resp), false
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		log.Printf("[TMDB] Failed to decode %s response: %v", path, err)
		return errorMessage(err), false
	}

	return "", true
}

// statusMessage returns the reason phrase of the response status line
func statusMessage(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	if reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); reason != "" {
		return reason
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return "HTTP " + code
}

// errorMessage unwraps transport errors down to their cause
func errorMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Error"
}
