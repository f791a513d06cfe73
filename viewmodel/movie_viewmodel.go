// Package viewmodel holds the last-known result of each catalog query for the views.
package viewmodel

import (
	"context"
	"log"
	"sync"

	"movieapp/models"
)

// MovieSource is the read path the view model fetches through
type MovieSource interface {
	GetMovies(ctx context.Context, category string, apiKey string) models.Resource[[]models.Movie]
	GetMovieDetails(ctx context.Context, id int, apiKey string) models.Resource[*models.MovieDetail]
}

// MovieViewModel keeps one result holder per movie listing and one for the
// currently viewed movie detail. Fetches run in the background; each sets its
// holder to Loading first and then to the repository's result.
type MovieViewModel struct {
	source MovieSource
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	movies  map[models.Category]models.Resource[[]models.Movie]
	details models.Resource[*models.MovieDetail]
	closed  bool
}

// NewMovieViewModel creates a new view model
func NewMovieViewModel(source MovieSource) *MovieViewModel {
	ctx, cancel := context.WithCancel(context.Background())
	return &MovieViewModel{
		source: source,
		ctx:    ctx,
		cancel: cancel,
		movies: make(map[models.Category]models.Resource[[]models.Movie]),
	}
}

// FetchMovies starts loading the listing for category. Only the known
// listings have holders; any other category is ignored.
func (vm *MovieViewModel) FetchMovies(category models.Category, apiKey string) {
	if _, err := models.ParseCategory(string(category)); err != nil {
		log.Printf("Ignoring fetch: %v", err)
		return
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.closed {
		log.Printf("Ignoring fetch for %s: view model closed", category)
		return
	}
	vm.movies[category] = models.Loading[[]models.Movie]()

	vm.wg.Add(1)
	go func() {
		defer vm.wg.Done()
		result := vm.source.GetMovies(vm.ctx, string(category), apiKey)
		if vm.ctx.Err() != nil {
			return
		}

		vm.mu.Lock()
		vm.movies[category] = result
		vm.mu.Unlock()
	}()
}

// FetchMovieDetails starts loading the detail for movie id
func (vm *MovieViewModel) FetchMovieDetails(id int, apiKey string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.closed {
		log.Printf("Ignoring detail fetch for movie %d: view model closed", id)
		return
	}
	vm.details = models.Loading[*models.MovieDetail]()

	vm.wg.Add(1)
	go func() {
		defer vm.wg.Done()
		result := vm.source.GetMovieDetails(vm.ctx, id, apiKey)
		if vm.ctx.Err() != nil {
			return
		}

		vm.mu.Lock()
		vm.details = result
		vm.mu.Unlock()
	}()
}

// Movies returns the last-known listing for category. A listing that was
// never fetched reports Loading.
func (vm *MovieViewModel) Movies(category models.Category) models.Resource[[]models.Movie] {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.movies[category]
}

// MovieDetails returns the last-known movie detail
func (vm *MovieViewModel) MovieDetails() models.Resource[*models.MovieDetail] {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.details
}

// Wait blocks until every in-flight fetch has finished
func (vm *MovieViewModel) Wait() {
	vm.wg.Wait()
}

// Close cancels in-flight fetches and waits for them to return
func (vm *MovieViewModel) Close() {
	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		return
	}
	vm.closed = true
	vm.mu.Unlock()

	vm.cancel()
	vm.wg.Wait()
}
