package models

import "time"

// FetchKind identifies which query a fetch event belongs to
type FetchKind string

const (
	FetchKindMovies FetchKind = "movies"
	FetchKindDetail FetchKind = "detail"
)

// FetchSource records where a result came from
type FetchSource string

const (
	SourceCache  FetchSource = "cache"
	SourceRemote FetchSource = "remote"
)

// FetchEvent is an audit record of a single repository read
type FetchEvent struct {
	ID        int            `json:"id"`
	Kind      FetchKind      `json:"kind"`
	Key       string         `json:"key"` // category or movie id
	Source    FetchSource    `json:"source"`
	Outcome   ResourceStatus `json:"outcome"`
	Message   string         `json:"message,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
