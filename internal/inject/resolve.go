// SPDX-License-Identifier: MPL-2.0

package inject

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/cfgwrap/cfgwrap/internal/runtime"
	"github.com/cfgwrap/cfgwrap/internal/token"
	"github.com/cfgwrap/cfgwrap/pkg/spec"
)

// TempFileEnv receives the path of a file injector that declares no aliases.
const TempFileEnv = "TEMP_FILE"

type (
	// Resolver runs injectors against one runtime context and provider
	// snapshot. It holds no per-injector state.
	Resolver struct {
		rc            *runtime.Context
		providers     runtime.ProviderMaps
		engine        *token.Engine
		logger        *slog.Logger
		command       []string
		tempDir       string
		providerOrder func() []string
	}

	// Option configures a Resolver.
	Option func(*Resolver)
)

// WithLogger sets the logger that receives expression fallback warnings.
// Defaults to a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithCommand sets the target command template. File injectors whose alias
// appears in it as ${alias} get no separate argv binding.
func WithCommand(command []string) Option {
	return func(r *Resolver) {
		r.command = command
	}
}

// WithTempDir sets the directory for ephemeral files. Defaults to os.TempDir().
func WithTempDir(dir string) Option {
	return func(r *Resolver) {
		r.tempDir = dir
	}
}

// WithProviderOrder sets the provider precedence used when building the
// condition context; later ids win for bare keys. Defaults to sorted ids.
func WithProviderOrder(ids []string) Option {
	return func(r *Resolver) {
		r.providerOrder = func() []string { return ids }
	}
}

// NewResolver creates a Resolver. The engine must expand against the same
// runtime context and providers.
func NewResolver(rc *runtime.Context, providers runtime.ProviderMaps, engine *token.Engine, opts ...Option) *Resolver {
	if providers == nil {
		providers = runtime.ProviderMaps{}
	}
	r := &Resolver{
		rc:        rc,
		providers: providers,
		engine:    engine,
		logger:    slog.New(slog.DiscardHandler),
	}
	r.providerOrder = func() []string {
		return slices.Sorted(maps.Keys(r.providers))
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveAll resolves injectors strictly in declaration order.
func (r *Resolver) ResolveAll(injectors []spec.Injector) []*ResolvedInjector {
	resolved := make([]*ResolvedInjector, 0, len(injectors))
	for i := range injectors {
		resolved = append(resolved, r.Resolve(&injectors[i]))
	}
	return resolved
}

// Resolve runs one injector through the condition gate, value resolution,
// coercion and materialization.
func (r *Resolver) Resolve(inj *spec.Injector) *ResolvedInjector {
	result := &ResolvedInjector{
		Injector:   inj,
		EnvUpdates: map[string]string{},
	}

	if inj.When != "" && !r.conditionHolds(inj.Name, inj.When) {
		result.Skipped = true
		return result
	}

	value, found, fromDefault := r.resolveValue(inj)
	if !found {
		return result
	}

	result.rawValue = value

	coerced, err := Coerce(value, inj.Type, inj.EffectiveDelimiter())
	if err != nil {
		var coercionErr *CoercionError
		if inj.Sensitive && errors.As(err, &coercionErr) {
			coercionErr.Sensitive = true
		}
		result.addError(err)
		return result
	}

	result.Value = coerced
	result.HasValue = true
	result.FromDefault = fromDefault

	r.materialize(inj, result)
	return result
}

// resolveValue applies first_non_empty precedence over the sources and
// falls back to the expanded default.
func (r *Resolver) resolveValue(inj *spec.Injector) (value string, found, fromDefault bool) {
	for _, source := range inj.Sources {
		if v := strings.TrimSpace(r.engine.Expand(source.String())); v != "" {
			return v, true, false
		}
	}
	if inj.Default != nil {
		return r.engine.Expand(inj.Default.String()), true, true
	}
	return "", false, false
}

func (r *Resolver) materialize(inj *spec.Injector, result *ResolvedInjector) {
	value := result.Value

	switch inj.Kind {
	case spec.KindEnvVar:
		result.AppliedAliases = slices.Clone(inj.Aliases)
		for _, alias := range inj.Aliases {
			result.EnvUpdates[alias] = value
		}

	case spec.KindNamed:
		if len(inj.Aliases) > 0 {
			result.AppliedAliases = slices.Clone(inj.Aliases)
			result.ArgvSegments = bind(inj.Aliases[0], value, inj.EffectiveConnector())
		}

	case spec.KindPositional:
		result.ArgvSegments = []string{value}

	case spec.KindFile:
		path, err := r.writeFile(inj, value)
		if err != nil {
			result.addError(err)
			return
		}
		result.FilesCreated = []string{path}

		switch {
		case len(inj.Aliases) == 0:
			result.EnvUpdates[TempFileEnv] = path
		case !r.commandUsesAlias(inj.Aliases):
			result.AppliedAliases = slices.Clone(inj.Aliases)
			result.ArgvSegments = bind(inj.Aliases[0], path, inj.EffectiveConnector())
		default:
			result.AppliedAliases = slices.Clone(inj.Aliases)
		}

	case spec.KindStdinFragment:
		// Accumulated by the assembler.
	}
}

// bind renders a flag binding according to the connector.
func bind(flag, value string, connector spec.Connector) []string {
	if connector == spec.ConnectorEquals {
		return []string{flag + "=" + value}
	}
	return []string{flag, value}
}

func (r *Resolver) commandUsesAlias(aliases []string) bool {
	joined := strings.Join(r.command, " ")
	for _, alias := range aliases {
		if strings.Contains(joined, token.Placeholder(alias)) {
			return true
		}
	}
	return false
}

// writeFile stores value in a new ephemeral file. The file gets a .json
// extension for json values and for path values that look like JSON.
func (r *Resolver) writeFile(inj *spec.Injector, value string) (string, error) {
	suffix := ".tmp"
	if inj.Type == spec.TypeJSON ||
		(inj.Type == spec.TypePath && (strings.HasPrefix(value, "{") || strings.HasPrefix(value, "["))) {
		suffix = ".json"
	}

	f, err := os.CreateTemp(r.tempDir, "cfgwrap-*"+suffix)
	if err != nil {
		return "", fmt.Errorf("failed to create ephemeral file: %w", err)
	}
	if _, err := f.WriteString(value); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to write ephemeral file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to close ephemeral file: %w", err)
	}
	return f.Name(), nil
}
