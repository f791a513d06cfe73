// Package models defines the data structures used throughout the application.
package models

import (
	"errors"
	"fmt"
)

// Category is one of the fixed catalog listings
type Category string

// Category constants
const (
	CategoryNowPlaying Category = "now_playing"
	CategoryPopular    Category = "popular"
	CategoryUpcoming   Category = "upcoming"
)

// ErrUnknownCategory is returned when a category string is not one of the known listings
var ErrUnknownCategory = errors.New("unknown category")

// Categories lists every valid category in display order
var Categories = []Category{CategoryNowPlaying, CategoryPopular, CategoryUpcoming}

// ParseCategory converts a raw string into a Category
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryNowPlaying, CategoryPopular, CategoryUpcoming:
		return Category(s), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownCategory, s)
}

// Movie is a summary row from one of the category listings
type Movie struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	ReleaseDate string   `json:"release_date"`
	PosterPath  string   `json:"poster_path"`
	Category    Category `json:"category"`
}

// Genre is a named movie genre
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieDetail is the full record for a single movie
type MovieDetail struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	Genres      []Genre `json:"genres"`
	Runtime     int     `json:"runtime"` // in minutes
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
}

// GenreNames returns the genre names in order
func (d *MovieDetail) GenreNames() []string {
	names := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		names = append(names, g.Name)
	}
	return names
}
