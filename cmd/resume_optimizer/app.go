package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-optimizer/internal/cache"
	"github.com/jonathan/resume-optimizer/internal/config"
	"github.com/jonathan/resume-optimizer/internal/db"
	"github.com/jonathan/resume-optimizer/internal/embedding"
	"github.com/jonathan/resume-optimizer/internal/extraction"
	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/logging"
	"github.com/jonathan/resume-optimizer/internal/pipeline"
	"github.com/jonathan/resume-optimizer/internal/scoring"
)

// app holds the configured components of one command invocation.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger

	// closers may be registered from request goroutines by lazy loaders
	mu      sync.Mutex
	closers []func()
}

// newApp loads configuration and builds the logger. Components are built on
// demand so commands only need the credentials they use.
func newApp() (*app, error) {
	cfg, err := config.Load(configPath, os.Getenv)
	if err != nil {
		return nil, err
	}
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	return &app{cfg: cfg, logger: logger}, nil
}

func (a *app) addCloser(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closers = append(a.closers, fn)
}

// Close releases provider clients and store connections in reverse order.
// Each closer runs once.
func (a *app) Close() {
	a.mu.Lock()
	closers := a.closers
	a.closers = nil
	a.mu.Unlock()

	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
}

// embedder returns a lazily loaded embedding provider.
func (a *app) embedder() *embedding.Lazy {
	provider := a.cfg.Embedding.Provider
	model := a.cfg.Embedding.Model
	return embedding.NewLazy(func(ctx context.Context) (embedding.Embedder, error) {
		key, err := a.cfg.APIKey(provider)
		if err != nil {
			return nil, err
		}
		switch provider {
		case config.ProviderGemini:
			e, err := embedding.NewGeminiEmbedder(ctx, key, model)
			if err != nil {
				return nil, err
			}
			a.addCloser(func() { _ = e.Close() })
			return e, nil
		default:
			e, err := embedding.NewOpenAIEmbedder(key, model)
			if err != nil {
				return nil, err
			}
			return e, nil
		}
	})
}

// scorer builds the scorer with the configured domain table.
func (a *app) scorer(emb embedding.Embedder) *scoring.Scorer {
	opts := []scoring.Option{scoring.WithLogger(a.logger)}
	if domains := domainsFromConfig(a.cfg.Domains); len(domains) > 0 {
		opts = append(opts, scoring.WithDomains(domains))
	}
	return scoring.New(emb, opts...)
}

func domainsFromConfig(in []config.DomainConfig) []scoring.Domain {
	out := make([]scoring.Domain, 0, len(in))
	for _, d := range in {
		out = append(out, scoring.Domain{Name: d.Name, Keywords: d.Keywords})
	}
	return out
}

// llmConfig maps the configured generation settings onto the provider defaults.
func llmConfig(cfg config.LLMConfig) *llm.Config {
	out := llm.ConfigFor(llm.Provider(cfg.Provider)).WithModel(cfg.Model)
	if cfg.Temperature != nil {
		out.Temperature = *cfg.Temperature
	}
	if cfg.MaxTokens > 0 {
		out.MaxTokens = cfg.MaxTokens
	}
	if cfg.TimeoutSeconds > 0 {
		out.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return out
}

// generator connects to the configured generation provider.
func (a *app) generator(ctx context.Context) (llm.Generator, error) {
	key, err := a.cfg.APIKey(a.cfg.LLM.Provider)
	if err != nil {
		return nil, err
	}
	lc := llmConfig(a.cfg.LLM)
	client, err := llm.NewClient(ctx, lc, key)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	a.addCloser(func() { _ = client.Close() })
	return llm.NewCapability(client, lc.Timeout, a.logger), nil
}

// cache builds the result cache on the configured backend.
func (a *app) cache(ctx context.Context) (*cache.Cache, error) {
	var store cache.Store
	switch a.cfg.Cache.Backend {
	case config.BackendRedis:
		ttl := time.Duration(a.cfg.Cache.TTLSeconds) * time.Second
		rs, err := cache.NewRedisStoreFromURL(ctx, a.cfg.RedisURL, ttl)
		if err != nil {
			return nil, err
		}
		a.addCloser(func() { _ = rs.Close() })
		store = rs
	case config.BackendPostgres:
		database, err := db.Connect(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.addCloser(database.Close)
		if err := database.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		store = cache.NewPostgresStore(database)
	default:
		store = cache.NewMemoryStore()
	}
	a.logger.Debug().Str("backend", a.cfg.Cache.Backend).Msg("cache store ready")
	return cache.New(store, cache.WithLogger(a.logger)), nil
}

// service wires the full pipeline.
func (a *app) service(ctx context.Context, emb embedding.Embedder, opts ...pipeline.Option) (*pipeline.Service, error) {
	gen, err := a.generator(ctx)
	if err != nil {
		return nil, err
	}
	c, err := a.cache(ctx)
	if err != nil {
		return nil, err
	}
	opts = append([]pipeline.Option{pipeline.WithLogger(a.logger)}, opts...)
	return pipeline.NewService(a.scorer(emb), extraction.New(gen, a.logger), c, opts...), nil
}
