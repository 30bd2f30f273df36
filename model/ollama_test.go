package model

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPEmbedder_OpenAIShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"embedding":[3,4]}]}`))
	}))
	defer srv.Close()

	vec, err := NewHTTPEmbedder(srv.URL, "m", "").Embed(context.Background(), "hello")
	require.NoError(t, err)
	require.Len(t, vec, 2)
	assert.InDelta(t, 0.6, vec[0], 1e-6)
	assert.InDelta(t, 0.8, vec[1], 1e-6)
}

func TestHTTPEmbedder_OllamaShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"embedding":[0,2]}`))
	}))
	defer srv.Close()

	vec, err := NewHTTPEmbedder(srv.URL, "m", "").Embed(context.Background(), "hello")
	require.NoError(t, err)
	require.Len(t, vec, 2)
	assert.InDelta(t, 0, vec[0], 1e-6)
	assert.InDelta(t, 1, vec[1], 1e-6)
}

func TestHTTPEmbedder_NoEmbedding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	_, err := NewHTTPEmbedder(srv.URL, "m", "").Embed(context.Background(), "hello")
	assert.Error(t, err)
}

func TestHTTPEmbedder_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewHTTPEmbedder(srv.URL, "m", "").Embed(context.Background(), "hello")
	assert.Error(t, err)
}

func TestNormalize_UnitLength(t *testing.T) {
	vec := normalize([]float64{1, 2, 2})

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-6)
}

func TestNormalize_ZeroVector(t *testing.T) {
	vec := normalize([]float64{0, 0})
	assert.Equal(t, []float32{0, 0}, vec)
}
