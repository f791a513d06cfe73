package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResource_ZeroValueIsLoading(t *testing.T) {
	var r Resource[[]Movie]

	assert.True(t, r.IsLoading())
	assert.False(t, r.IsSuccess())
	assert.False(t, r.IsError())

	_, ok := r.Data()
	assert.False(t, ok)
}

func TestResource_ExactlyOneVariant(t *testing.T) {
	tests := []struct {
		name     string
		resource Resource[int]
		status   ResourceStatus
	}{
		{"loading", Loading[int](), StatusLoading},
		{"success", Success(42), StatusSuccess},
		{"error", Error[int]("boom"), StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.resource.Status())
			active := 0
			for _, b := range []bool{tt.resource.IsLoading(), tt.resource.IsSuccess(), tt.resource.IsError()} {
				if b {
					active++
				}
			}
			assert.Equal(t, 1, active)
		})
	}
}

func TestResource_ErrorCarriesStaleData(t *testing.T) {
	stale := []Movie{{ID: 1, Title: "Old"}}
	r := Error("Not Found", stale)

	assert.Equal(t, "Not Found", r.Message())
	data, ok := r.Data()
	assert.True(t, ok)
	assert.Equal(t, stale, data)

	bare := Error[[]Movie]("timeout")
	_, ok = bare.Data()
	assert.False(t, ok)
}

func TestResource_LoadingWithPreviousData(t *testing.T) {
	r := Loading(7)

	assert.True(t, r.IsLoading())
	data, ok := r.Data()
	assert.True(t, ok)
	assert.Equal(t, 7, data)
	assert.Empty(t, r.Message())
}

func TestResource_JSON(t *testing.T) {
	b, err := json.Marshal(Success([]Movie{{ID: 5, Title: "Heat", Category: CategoryPopular}}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","data":[{"id":5,"title":"Heat","release_date":"","poster_path":"","category":"popular"}]}`, string(b))

	b, err = json.Marshal(Error[[]Movie]("Not Found"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"error","message":"Not Found"}`, string(b))

	var decoded Resource[[]Movie]
	require.NoError(t, json.Unmarshal([]byte(`{"status":"success","data":[{"id":9}]}`), &decoded))
	assert.True(t, decoded.IsSuccess())
	movies, ok := decoded.Data()
	assert.True(t, ok)
	assert.Equal(t, 9, movies[0].ID)
}
