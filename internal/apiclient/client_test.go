package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLyrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate-lyrics", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "rainy night", body["prompt"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"gen_1","lyrics":"[Verse] rain","prompt":"rainy night"},"message":"Lyrics generated successfully"}`))
	}))
	defer srv.Close()

	result, err := New(srv.URL, 0).GenerateLyrics(context.Background(), "rainy night")
	require.NoError(t, err)
	assert.Equal(t, "gen_1", result.ID)
	assert.Equal(t, "[Verse] rain", result.Lyrics)
}

func TestGenerateMusic_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"message":"Prompt is required","error":"prompt required"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, 0).GenerateMusic(context.Background(), "x", "")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Prompt is required", apiErr.Message)
	assert.Equal(t, "prompt required", apiErr.Reason)
}

func TestCatalog_QueryAndToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "lo fi", r.URL.Query().Get("q"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":8,"title":"Midnight Lo-Fi Beats","creator":"ChillZone","tags":["Lo-Fi"],"imagePath":"/placeholder.jpg"}],"message":"ok"}`))
	}))
	defer srv.Close()

	entries, err := New(srv.URL, 0).WithToken("tok").Catalog(context.Background(), "lo fi")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 8, entries[0].ID)
}

func TestGenerations_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, 0).Generations(context.Background(), 5)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "bad gateway", apiErr.Message)
}
