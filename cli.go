package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"movieapp/config"
	"movieapp/models"
	"movieapp/viewmodel"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           "movieapp",
		Short:         "Browse movie listings and details with a local cache",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional .env file to load before reading the environment")

	loadApp := func() (*App, *config.Config, func(), error) {
		cfg, err := config.Load(envFile)
		if err != nil {
			return nil, nil, nil, err
		}
		app, cleanup, err := newApp(cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		return app, cfg, cleanup, nil
	}

	cmd.AddCommand(newServeCmd(loadApp), newListCmd(loadApp), newShowCmd(loadApp))
	return cmd
}

type appLoader func() (*App, *config.Config, func(), error)

func newServeCmd(loadApp appLoader) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cfg, cleanup, err := loadApp()
			if err != nil {
				return err
			}
			defer cleanup()

			if addr == "" {
				addr = cfg.ServerAddr
			}
			server := app.server(addr)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Printf("Server starting on %s", addr)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			log.Println("Shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to SERVER_ADDR)")
	return cmd
}

func newListCmd(loadApp appLoader) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List movies in a category (now_playing, popular, upcoming)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, cleanup, err := loadApp()
			if err != nil {
				return err
			}
			defer cleanup()

			vm := viewmodel.NewMovieViewModel(app.catalog)
			defer vm.Close()

			resolved, err := app.catalog.ResolveCategory(category)
			if err != nil {
				return err
			}
			if string(resolved) != category {
				log.Printf("Unknown category %q, showing %s", category, resolved)
			}

			vm.FetchMovies(resolved, app.apiKey)
			vm.Wait()
			return renderMovies(cmd.OutOrStdout(), vm.Movies(resolved))
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", defaultCategory, "Movie listing to show")
	return cmd
}

func newShowCmd(loadApp appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "show <movie-id>",
		Short: "Show the details of a movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid movie ID %q", args[0])
			}

			app, _, cleanup, err := loadApp()
			if err != nil {
				return err
			}
			defer cleanup()

			vm := viewmodel.NewMovieViewModel(app.catalog)
			defer vm.Close()

			vm.FetchMovieDetails(id, app.apiKey)
			vm.Wait()
			return renderMovieDetail(cmd.OutOrStdout(), vm.MovieDetails())
		},
	}
}

// renderMovies writes the list screen
func renderMovies(w io.Writer, res models.Resource[[]models.Movie]) error {
	switch res.Status() {
	case models.StatusLoading:
		_, err := fmt.Fprintln(w, "Loading...")
		return err
	case models.StatusError:
		return errors.New(res.Message())
	}

	movies, _ := res.Data()
	if len(movies) == 0 {
		_, err := fmt.Fprintln(w, "No movies found.")
		return err
	}
	for _, m := range movies {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\n", m.ID, m.Title, m.ReleaseDate); err != nil {
			return err
		}
	}
	return nil
}

// renderMovieDetail writes the detail screen
func renderMovieDetail(w io.Writer, res models.Resource[*models.MovieDetail]) error {
	switch res.Status() {
	case models.StatusLoading:
		_, err := fmt.Fprintln(w, "Loading...")
		return err
	case models.StatusError:
		return errors.New(res.Message())
	}

	detail, _ := res.Data()
	if detail == nil {
		_, err := fmt.Fprintln(w, "No movie details available.")
		return err
	}

	_, err := fmt.Fprintf(w, "Title: %s\nReleased: %s\nRuntime: %d min\nGenres: %s\nOverview: %s\n",
		detail.Title, detail.ReleaseDate, detail.Runtime,
		strings.Join(detail.GenreNames(), ", "), detail.Overview)
	return err
}
