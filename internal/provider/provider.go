// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cfgwrap/cfgwrap/internal/mask"
	"github.com/cfgwrap/cfgwrap/internal/runtime"
	"github.com/cfgwrap/cfgwrap/pkg/spec"
)

type (
	// Provider loads one key/value snapshot.
	Provider interface {
		ID() string
		Load(ctx context.Context, rc *runtime.Context) (runtime.ProviderMap, error)
	}

	// LoadError attributes a provider failure to its id.
	LoadError struct {
		ID  string
		Err error
	}

	loader struct {
		logger  *slog.Logger
		fetcher SecretFetcher
	}

	// Option configures LoadAll.
	Option func(*loader)
)

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("provider '%s': %v", e.ID, e.Err)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error { return e.Err }

// WithLogger sets the logger for degraded-provider warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(l *loader) {
		l.logger = logger
	}
}

// WithSecretFetcher replaces the bws CLI fetcher.
func WithSecretFetcher(fetcher SecretFetcher) Option {
	return func(l *loader) {
		l.fetcher = fetcher
	}
}

// New creates the provider implementation for cfg.
func New(cfg spec.Provider, opts ...Option) (Provider, error) {
	l := newLoader(opts)
	return l.create(cfg)
}

// LoadAll loads every enabled provider in declaration order. A provider
// with mask set has all of its values replaced by mask.Placeholder.
func LoadAll(ctx context.Context, providers []spec.Provider, rc *runtime.Context, opts ...Option) (runtime.ProviderMaps, error) {
	l := newLoader(opts)

	result := make(runtime.ProviderMaps, len(providers))
	for _, cfg := range providers {
		if !cfg.Enabled {
			continue
		}

		p, err := l.create(cfg)
		if err != nil {
			return nil, &LoadError{ID: cfg.ID, Err: err}
		}
		m, err := p.Load(ctx, rc)
		if err != nil {
			return nil, &LoadError{ID: cfg.ID, Err: err}
		}
		if m == nil {
			m = runtime.ProviderMap{}
		}
		if cfg.Mask {
			for key := range m {
				m[key] = mask.Placeholder
			}
		}
		result[p.ID()] = m
	}
	return result, nil
}

// IDs returns the ids of enabled providers in declaration order.
func IDs(providers []spec.Provider) []string {
	var ids []string
	for _, p := range providers {
		if p.Enabled {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func newLoader(opts []Option) *loader {
	l := &loader{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *loader) create(cfg spec.Provider) (Provider, error) {
	switch cfg.Type {
	case spec.ProviderEnv:
		return NewEnvProvider(cfg), nil
	case spec.ProviderDotenv:
		return NewDotenvProvider(cfg, l.logger), nil
	case spec.ProviderBWS:
		return NewBWSProvider(cfg, l.fetcher, l.logger), nil
	default:
		_, errs := cfg.Type.IsValid()
		if len(errs) > 0 {
			return nil, errs[0]
		}
		return nil, fmt.Errorf("unsupported provider type %q", cfg.Type)
	}
}
