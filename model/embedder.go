package model

import "context"

// Embedder turns text into a normalized vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Model() string
}
