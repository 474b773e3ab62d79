package rag

import (
	"context"
	"errors"
	"math"
)

var (
	ErrIndexNotFound    = errors.New("vector index not found")
	ErrIndexUnavailable = errors.New("vector index unavailable")
)

// Embedder turns texts into vectors, one per input in the same order.
type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

// Generator completes a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// VectorIndex stores the embedded chunks of one namespace (a user folder).
// Replace swaps the whole namespace; Search returns at most k matches, best first.
type VectorIndex interface {
	Replace(ctx context.Context, namespace string, entries []Entry) error
	Search(ctx context.Context, namespace string, vector []float32, k int) ([]Match, error)
	Exists(ctx context.Context, namespace string) (bool, error)
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
