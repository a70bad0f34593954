package semantic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "all-minilm"
	embedPath      = "/api/embed"
)

// Embedder converts words into fixed-size vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
}

// OllamaConfig configures the HTTP embedding client.
type OllamaConfig struct {
	// BaseURL is the root of an Ollama-compatible server.
	BaseURL string
	// Model names the embedding model to request.
	Model string
	// Timeout specifies maximum wait time for each request.
	Timeout time.Duration
}

// Ollama requests embeddings from an Ollama-compatible HTTP endpoint.
type Ollama struct {
	client *http.Client
	config *OllamaConfig
}

func NewOllama(client *http.Client, config *OllamaConfig) *Ollama {
	if client == nil {
		client = &http.Client{}
	}
	if config == nil {
		config = &OllamaConfig{}
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.Timeout > 0 {
		client.Timeout = config.Timeout
	}
	return &Ollama{
		client: client,
		config: config,
	}
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Model      string      `json:"model"`
	Embeddings [][]float32 `json:"embeddings"`
}

func (o *Ollama) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	body, err := json.Marshal(&embedRequest{
		Model: o.config.Model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("can not marshal embed request: %w", err)
	}

	request, err := http.NewRequestWithContext(
		ctx, http.MethodPost, o.config.BaseURL+embedPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("can not assemble embed request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := o.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to make embed request: %w", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected embed response code: %d", response.StatusCode)
	}

	var decoded embedResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("can not decode embed response: %w", err)
	}
	if len(decoded.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embed response has %d vectors for %d inputs",
			len(decoded.Embeddings), len(texts))
	}
	return decoded.Embeddings, nil
}

func (o *Ollama) Model() string {
	return o.config.Model
}

func (o *Ollama) Close(ctx context.Context) error {
	o.client.CloseIdleConnections()
	return nil
}
