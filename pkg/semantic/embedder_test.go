package semantic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaDefaults(t *testing.T) {
	o := NewOllama(nil, nil)
	assert.Equal(t, defaultModel, o.Model())
	assert.Equal(t, defaultBaseURL, o.config.BaseURL)
}

func TestOllamaEmbed(t *testing.T) {
	vectors := [][]float32{
		{0.1, 0.2, 0.3},
		{0.4, 0.5, 0.6},
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, embedPath, r.URL.Path)

		var request embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		assert.Equal(t, "test-model", request.Model)
		assert.Equal(t, []string{"ilé", "omi"}, request.Input)

		_ = json.NewEncoder(w).Encode(&embedResponse{
			Model:      request.Model,
			Embeddings: vectors,
		})
	}))
	defer server.Close()

	o := NewOllama(server.Client(), &OllamaConfig{
		BaseURL: server.URL,
		Model:   "test-model",
	})

	got, err := o.Embed(context.TODO(), []string{"ilé", "omi"})
	require.NoError(t, err)
	assert.Equal(t, vectors, got)
}

func TestOllamaEmbedEmptyInput(t *testing.T) {
	o := NewOllama(nil, &OllamaConfig{BaseURL: "http://127.0.0.1:1"})
	got, err := o.Embed(context.TODO(), nil)
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestOllamaEmbedErrors(t *testing.T) {
	testCases := map[string]struct {
		handler http.HandlerFunc
	}{
		"server error": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		"malformed body": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"embeddings": [`))
			},
		},
		"vector count mismatch": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(&embedResponse{
					Embeddings: [][]float32{{0.1}},
				})
			},
		},
	}
	for name := range testCases {
		tc := testCases[name]
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			o := NewOllama(server.Client(), &OllamaConfig{BaseURL: server.URL})
			_, err := o.Embed(context.TODO(), []string{"ilé", "omi"})
			assert.Error(t, err)
		})
	}
	t.Run("unreachable server", func(t *testing.T) {
		o := NewOllama(nil, &OllamaConfig{BaseURL: "http://127.0.0.1:1"})
		_, err := o.Embed(context.TODO(), []string{"ilé"})
		assert.Error(t, err)
	})
}
