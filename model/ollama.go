package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// HTTPEmbedder calls an embeddings endpoint that speaks either the
// OpenAI-compatible shape or Ollama's native one.
type HTTPEmbedder struct {
	url    string
	model  string
	apiKey string
	client *http.Client
}

func NewHTTPEmbedder(url, model, apiKey string) *HTTPEmbedder {
	return &HTTPEmbedder{
		url:    url,
		model:  model,
		apiKey: apiKey,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (e *HTTPEmbedder) Model() string { return e.model }

type embedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	// Ollama native shape.
	Embedding []float64 `json:"embedding"`
}

func (e *HTTPEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Model: e.model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("embed request: status %d: %s", resp.StatusCode, b)
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}

	var raw []float64
	switch {
	case len(out.Data) > 0 && len(out.Data[0].Embedding) > 0:
		raw = out.Data[0].Embedding
	case len(out.Embedding) > 0:
		raw = out.Embedding
	default:
		return nil, fmt.Errorf("embed response carries no embedding")
	}

	return normalize(raw), nil
}

// normalize L2-normalizes and converts to float32 so dot product equals
// cosine similarity in the index.
func normalize(raw []float64) []float32 {
	var sum float64
	for _, v := range raw {
		sum += v * v
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		norm = 1
	}

	vec := make([]float32, len(raw))
	for i, v := range raw {
		vec[i] = float32(v / norm)
	}
	return vec
}
