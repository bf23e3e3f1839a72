// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"maps"

	"github.com/cfgwrap/cfgwrap/internal/runtime"
	"github.com/cfgwrap/cfgwrap/pkg/spec"
)

// EnvProvider snapshots the runtime environment.
type EnvProvider struct {
	cfg spec.Provider
}

// NewEnvProvider creates an EnvProvider.
func NewEnvProvider(cfg spec.Provider) *EnvProvider {
	return &EnvProvider{cfg: cfg}
}

// ID returns the provider id.
func (p *EnvProvider) ID() string { return p.cfg.ID }

// Load returns the filtered environment.
func (p *EnvProvider) Load(_ context.Context, rc *runtime.Context) (runtime.ProviderMap, error) {
	return ApplyFilters(maps.Clone(runtime.ProviderMap(rc.Env)), p.cfg.FilterChain)
}
