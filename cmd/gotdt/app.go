package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/ZaguanLabs/gotdt"
	"github.com/ZaguanLabs/gotdt/cache"
	"github.com/ZaguanLabs/gotdt/config"
	"github.com/ZaguanLabs/gotdt/provider"
	"github.com/ZaguanLabs/gotdt/terms"
)

// app carries global flags, I/O and the lazily loaded configuration shared
// by every subcommand.
type app struct {
	configPath string
	envFile    string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg    *config.Config
	logger *slog.Logger
}

// load reads the configuration once. validate also checks provider
// credentials; commands that never call the provider skip that.
func (a *app) load(validate bool) error {
	if a.cfg == nil {
		var envFiles []string
		if a.envFile != "" {
			envFiles = append(envFiles, a.envFile)
		}
		cfg, err := config.Load(a.configPath, envFiles...)
		if err != nil {
			return err
		}
		a.cfg = cfg
		a.logger = cfg.NewLogger(a.stderr)
		slog.SetDefault(a.logger)
	}
	if validate {
		return a.cfg.Validate()
	}
	return nil
}

func (a *app) newProvider() (gotdt.Provider, error) {
	switch a.cfg.Provider {
	case config.ProviderAzure:
		p, err := provider.NewAzureProvider(provider.AzureConfig{
			Key:      a.cfg.Azure.Key,
			Endpoint: a.cfg.Azure.Endpoint,
			Region:   a.cfg.Azure.Region,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.ProviderOpenAI:
		p, err := provider.NewOpenAIProvider(provider.OpenAIConfig{
			APIKey:  a.cfg.OpenAI.APIKey,
			Model:   a.cfg.OpenAI.Model,
			BaseURL: a.cfg.OpenAI.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.ProviderMock:
		return provider.NewMockProvider(), nil
	default:
		return nil, &gotdt.ConfigurationError{Message: fmt.Sprintf("unknown provider %q", a.cfg.Provider)}
	}
}

func (a *app) newMapper() (*terms.Mapper, error) {
	return terms.NewMapper(terms.NewFileStore(a.cfg.TermsFile), terms.WithLogger(a.logger))
}

func (a *app) openCache() (cache.TranslationCache, error) {
	return cache.Open(cache.Options{
		Backend:    a.cfg.Cache.Backend,
		TTL:        a.cfg.Cache.TTL,
		RedisURL:   a.cfg.Cache.RedisURL,
		SQLitePath: a.cfg.Cache.SQLitePath,
		Logger:     a.logger,
	})
}

// pipeline bundles a ready Pipeline with the resources it holds.
type pipeline struct {
	*gotdt.Pipeline
	provider gotdt.Provider
	cache    cache.TranslationCache
}

func (p *pipeline) Close() error {
	return cache.Close(p.cache)
}

func (a *app) newPipeline() (*pipeline, error) {
	prov, err := a.newProvider()
	if err != nil {
		return nil, err
	}

	mapper, err := a.newMapper()
	if err != nil {
		return nil, err
	}

	c, err := a.openCache()
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	opts := []gotdt.PipelineOption{
		gotdt.WithMapper(mapper),
		gotdt.WithMaxChunkSize(a.cfg.Translation.MaxChunkSize),
		gotdt.WithWorkers(a.cfg.Translation.Workers),
		gotdt.WithLogger(a.logger),
	}
	if c != nil {
		opts = append(opts, gotdt.WithCache(c))
	}
	if a.cfg.Translation.RateLimitRPM > 0 {
		opts = append(opts, gotdt.WithRateLimit(gotdt.RateLimitConfig{RequestsPerMinute: a.cfg.Translation.RateLimitRPM}))
	}

	p, err := gotdt.NewPipeline(prov, opts...)
	if err != nil {
		_ = cache.Close(c)
		return nil, err
	}

	return &pipeline{Pipeline: p, provider: prov, cache: c}, nil
}
