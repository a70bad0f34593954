package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/adetobi/yosyn/pkg/dictionary"
)

func getServer(t *testing.T) *Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dict.json")
	require.NoError(t, dictionary.Minimal().Save(path))

	server, err := New(zap.NewNop(), &Config{
		Dictionary: []string{path},
	})
	require.NoError(t, err)
	return server
}

func doSearch(t *testing.T, server *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	server.mux.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
	return recorder
}

func decodeSearch(t *testing.T, recorder *httptest.ResponseRecorder) *ResponseSearch {
	t.Helper()
	var response ResponseSearch
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return &response
}

func TestHandleSearch(t *testing.T) {
	server := getServer(t)

	t.Run("exact match", func(t *testing.T) {
		recorder := doSearch(t, server, "/api/search?query="+url.QueryEscape("ilé"))
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

		response := decodeSearch(t, recorder)
		assert.Equal(t, "ilé", response.Query)
		assert.Equal(t, dictionary.Minimal().Len(), response.DictionarySize)
		require.Len(t, response.Results, 1)
		assert.Equal(t, 1, response.Results[0].Rank)
		assert.Equal(t, 1.0, response.Results[0].Similarity)
		assert.Equal(t, "ilé", response.Results[0].Headword)
		assert.Equal(t, dictionary.Noun, response.Results[0].POS)
		assert.NotEmpty(t, response.Results[0].Synonyms)
	})
	t.Run("no match returns empty results", func(t *testing.T) {
		recorder := doSearch(t, server, "/api/search?query=zzzzzzzz")
		require.Equal(t, http.StatusOK, recorder.Code)

		response := decodeSearch(t, recorder)
		assert.Empty(t, response.Results)
		assert.Equal(t, dictionary.Minimal().Len(), response.DictionarySize)
	})
	t.Run("max results", func(t *testing.T) {
		recorder := doSearch(t, server, "/api/search?query="+url.QueryEscape("ọm")+"&max_results=1")
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.LessOrEqual(t, len(decodeSearch(t, recorder).Results), 1)
	})
	t.Run("invalid max results falls back to default", func(t *testing.T) {
		recorder := doSearch(t, server, "/api/search?query="+url.QueryEscape("ilé")+"&max_results=bogus")
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}

func TestHandleSearchErrors(t *testing.T) {
	server := getServer(t)

	t.Run("missing query", func(t *testing.T) {
		recorder := doSearch(t, server, "/api/search")
		require.Equal(t, http.StatusBadRequest, recorder.Code)

		var response ResponseError
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "query parameter is required", response.Error)
	})
	t.Run("blank query", func(t *testing.T) {
		recorder := doSearch(t, server, "/api/search?query=%20%20")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
	t.Run("wrong method", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		server.mux.ServeHTTP(recorder,
			httptest.NewRequest(http.MethodPost, "/api/search?query=omi", nil))
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestNewMissingSemanticIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.json")
	require.NoError(t, dictionary.Minimal().Save(path))

	_, err := New(zap.NewNop(), &Config{
		Dictionary: []string{path},
		Semantic: SemanticConfig{
			Index: filepath.Join(t.TempDir(), "nope.db"),
		},
	})
	assert.Error(t, err)
}

func TestHandleSemanticUnconfigured(t *testing.T) {
	server := getServer(t)

	recorder := doSearch(t, server, "/api/semantic?query=omi")
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	var response ResponseError
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "semantic index not configured", response.Error)
}
