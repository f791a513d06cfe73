package models

import "encoding/json"

// ResourceStatus is the active variant of a Resource
type ResourceStatus string

// Resource status constants
const (
	StatusLoading ResourceStatus = "loading"
	StatusSuccess ResourceStatus = "success"
	StatusError   ResourceStatus = "error"
)

// Resource is a tri-state result: loading, success with data, or error with a
// message and optionally stale data.
type Resource[T any] struct {
	status  ResourceStatus
	data    T
	hasData bool
	message string
}

// Loading returns a Loading resource, optionally carrying previous data
func Loading[T any](previous ...T) Resource[T] {
	r := Resource[T]{status: StatusLoading}
	if len(previous) > 0 {
		r.data = previous[0]
		r.hasData = true
	}
	return r
}

// Success returns a Success resource wrapping data
func Success[T any](data T) Resource[T] {
	return Resource[T]{status: StatusSuccess, data: data, hasData: true}
}

// Error returns an Error resource, optionally carrying stale data
func Error[T any](message string, stale ...T) Resource[T] {
	r := Resource[T]{status: StatusError, message: message}
	if len(stale) > 0 {
		r.data = stale[0]
		r.hasData = true
	}
	return r
}

// Status returns the active variant. The zero Resource reports Loading.
func (r Resource[T]) Status() ResourceStatus {
	if r.status == "" {
		return StatusLoading
	}
	return r.status
}

func (r Resource[T]) IsLoading() bool { return r.Status() == StatusLoading }
func (r Resource[T]) IsSuccess() bool { return r.status == StatusSuccess }
func (r Resource[T]) IsError() bool   { return r.status == StatusError }

// Data returns the attached payload and whether one is present
func (r Resource[T]) Data() (T, bool) {
	return r.data, r.hasData
}

// Message returns the error message; empty unless the resource is an Error
func (r Resource[T]) Message() string {
	return r.message
}

type resourceJSON[T any] struct {
	Status  ResourceStatus `json:"status"`
	Data    *T             `json:"data,omitempty"`
	Message string         `json:"message,omitempty"`
}

// MarshalJSON renders the resource as {"status": ..., "data": ..., "message": ...}
func (r Resource[T]) MarshalJSON() ([]byte, error) {
	out := resourceJSON[T]{Status: r.Status(), Message: r.message}
	if r.hasData {
		data := r.data
		out.Data = &data
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON
func (r *Resource[T]) UnmarshalJSON(b []byte) error {
	var in resourceJSON[T]
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*r = Resource[T]{status: in.Status, message: in.Message}
	if in.Data != nil {
		r.data = *in.Data
		r.hasData = true
	}
	return nil
}
