// Package embedding provides sentence embeddings used for semantic scoring.
package embedding

import (
	"context"
	"fmt"
	"math"
	"sync"
)

// Embedder turns texts into fixed-length vectors, one per input, in order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Func adapts a function to Embedder.
type Func func(ctx context.Context, texts []string) ([][]float32, error)

// Embed calls f.
func (f Func) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return f(ctx, texts)
}

// LoadError is returned when the embedding model could not be initialized.
// Scoring has no degraded mode, so callers should treat it as fatal.
type LoadError struct {
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("embedding model failed to load: %v", e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Loader constructs the underlying embedder.
type Loader func(ctx context.Context) (Embedder, error)

// Lazy defers model construction to first use and performs it at most once,
// even under concurrent first calls. A failed load is remembered.
type Lazy struct {
	load Loader
	once sync.Once
	e    Embedder
	err  error
}

// NewLazy returns an Embedder that loads on first use.
func NewLazy(load Loader) *Lazy {
	return &Lazy{load: load}
}

// Warm forces the load and reports its outcome.
func (l *Lazy) Warm(ctx context.Context) error {
	l.once.Do(func() {
		e, err := l.load(ctx)
		if err != nil {
			l.err = &LoadError{Cause: err}
			return
		}
		l.e = e
	})
	return l.err
}

// Embed implements Embedder.
func (l *Lazy) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := l.Warm(ctx); err != nil {
		return nil, err
	}
	return l.e.Embed(ctx, texts)
}

// Cosine returns the cosine similarity of a and b. Mismatched lengths and
// zero vectors give 0.
func Cosine(a, b []float32) float64 {
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
