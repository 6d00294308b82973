// Package llm holds the text-generation backends (Gemini and any
// OpenAI-compatible chat API), the query embedder, and the router that picks
// a backend by provider name on each request.
package llm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

// Provider names accepted in generation requests.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

var (
	ErrUnknownProvider = errors.New("unknown generation provider")
	ErrNotConfigured   = errors.New("provider API key not configured")
	ErrEmptyResponse   = errors.New("provider returned empty content")
	ErrBlocked         = errors.New("provider blocked the prompt")
)

// Generator turns one prompt into one text reply.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Embedder turns a text into a vector for semantic search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// Router selects a Generator by provider name. It is read-only after
// construction.
type Router struct {
	generators map[string]Generator
	fallback   string
}

// NewRouter registers generators under their names. defaultProvider is used
// for requests that name no provider.
func NewRouter(defaultProvider string, generators ...Generator) *Router {
	r := &Router{
		generators: make(map[string]Generator, len(generators)),
		fallback:   defaultProvider,
	}
	for _, g := range generators {
		if g != nil {
			r.generators[g.Name()] = g
		}
	}
	return r
}

// Get returns the generator for provider, or the default one when provider
// is empty. There is no fallback to a second provider.
func (r *Router) Get(provider string) (Generator, error) {
	if provider == "" {
		provider = r.fallback
	}
	g, ok := r.generators[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	return g, nil
}

// Default returns the name of the default provider.
func (r *Router) Default() string {
	return r.fallback
}

// Providers returns the configured provider names, sorted.
func (r *Router) Providers() []string {
	names := make([]string, 0, len(r.generators))
	for n := range r.generators {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// withDefaultTimeout applies timeout when ctx carries no deadline of its own.
func withDefaultTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
