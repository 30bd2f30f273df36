package dataapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"faqbot/types"
)

func TestNormalizeSlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Frisco", "frisco"},
		{"West Frisco", "west-frisco"},
		{"Katy, TX", "katy-tx"},
		{"cn-frisco", "frisco"},
		{"tx-frisco", "tx-frisco"},
		{"  Spaced  Out  ", "spaced-out"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeSlug(tt.input), "input %q", tt.input)
	}
}

func TestClient_GetFacility(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/facility/profile/slug/frisco", r.URL.Path)
		json.NewEncoder(w).Encode(Facility{Name: "Code Ninjas Frisco", City: "Frisco"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 0, zap.NewNop())
	f, err := c.GetFacility(context.Background(), "frisco")
	require.NoError(t, err)
	assert.Equal(t, "Code Ninjas Frisco", f.Name)
}

func TestClient_GetFacility_FallsBackToPlainEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/facility/profile/slug/frisco":
			w.WriteHeader(http.StatusNotFound)
		case "/facility/frisco":
			json.NewEncoder(w).Encode(Facility{Name: "Fallback Frisco"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 0, zap.NewNop())
	f, err := c.GetFacility(context.Background(), "frisco")
	require.NoError(t, err)
	assert.Equal(t, "Fallback Frisco", f.Name)
}

func TestClient_GetFacility_BothFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 0, zap.NewNop())
	_, err := c.GetFacility(context.Background(), "frisco")
	require.Error(t, err)

	var extErr *types.ExternalServiceError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, 502, extErr.Status)
}

func TestClient_GetCamps_QueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/facility/camps", r.URL.Path)
		assert.Equal(t, "frisco", r.URL.Query().Get("slug"))
		assert.Equal(t, "2026", r.URL.Query().Get("year"))
		assert.Equal(t, "3", r.URL.Query().Get("week"))
		json.NewEncoder(w).Encode([]Camp{{Name: "Summer Camp", Year: 2026, Week: 3}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 0, zap.NewNop())
	camps, err := c.GetCamps(context.Background(), "frisco", 2026, 3)
	require.NoError(t, err)
	require.Len(t, camps, 1)
	assert.Equal(t, "Summer Camp", camps[0].Name)
}

func TestClient_SendsAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]Program{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 0, zap.NewNop())
	_, err := c.GetPrograms(context.Background(), "frisco")
	require.NoError(t, err)
}
