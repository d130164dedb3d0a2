// Package embedding adapts external embedding services to a batch interface.
package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/philippgille/chromem-go"
)

// Provider turns an ordered batch of texts into one vector per text.
// A batch fails or succeeds as a whole.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// ErrLengthMismatch is returned when a provider answers with the wrong number of vectors.
var ErrLengthMismatch = errors.New("embedding: vector count does not match input count")

// Batch calls p and checks that every text got a vector and that all vectors
// share one non-zero dimension.
func Batch(ctx context.Context, p Provider, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vecs, err := p.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(vecs), len(texts))
	}
	dim := len(vecs[0])
	for i, v := range vecs {
		if len(v) == 0 || len(v) != dim {
			return nil, fmt.Errorf("embedding: vector %d has dimension %d, want %d", i, len(v), dim)
		}
	}
	return vecs, nil
}

// Func embeds texts one by one with a chromem-go embedding function.
type Func struct {
	fn chromem.EmbeddingFunc
}

// NewFunc wraps fn.
func NewFunc(fn chromem.EmbeddingFunc) *Func {
	return &Func{fn: fn}
}

// NewOllama embeds through a local Ollama server. baseURL is the server root,
// e.g. http://localhost:11434; empty uses chromem's default.
func NewOllama(model, baseURL string) *Func {
	if baseURL != "" {
		baseURL += "/api"
	}
	return NewFunc(chromem.NewEmbeddingFuncOllama(model, baseURL))
}

// Embed implements Provider. The first failing text fails the batch.
func (f *Func) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := f.fn(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		out[i] = vec
	}
	return out, nil
}
