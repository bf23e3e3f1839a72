// SPDX-License-Identifier: MPL-2.0

package build

import (
	"maps"
	"slices"

	"github.com/cfgwrap/cfgwrap/internal/inject"
	"github.com/cfgwrap/cfgwrap/internal/runtime"
	"github.com/cfgwrap/cfgwrap/internal/token"
	"github.com/cfgwrap/cfgwrap/pkg/spec"
)

// Result is the assembled invocation.
type Result struct {
	Env  map[string]string
	Argv []string
	// Stdin is nil when nothing contributes to stdin.
	Stdin []byte
	// Files lists every ephemeral file created during resolution. The
	// executor owns them and must remove them on every exit path.
	Files  []string
	Errors []error
}

// HasErrors reports whether any injector recorded an error.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// EnvKeys returns the environment keys in sorted order.
func (r *Result) EnvKeys() []string {
	return slices.Sorted(maps.Keys(r.Env))
}

// Assemble builds the invocation for s from the resolved injectors.
//
// The command template is expanded with an engine that also knows every
// file injector alias, so ${alias} resolves to the file path. The
// environment starts as a copy of the runtime environment when passthrough
// is enabled. Injectors then apply their effects in declaration order, with
// injector values overwriting passthrough values. Positional injectors are
// appended last, ordered by Order; equal orders keep declaration order.
func Assemble(s *spec.Spec, resolved []*inject.ResolvedInjector, rc *runtime.Context, engine *token.Engine) *Result {
	engine = engine.WithAliases(fileAliases(resolved))

	result := &Result{
		Env:  map[string]string{},
		Argv: make([]string, 0, len(s.Target.Command)),
	}
	if s.EnvPassthrough {
		maps.Copy(result.Env, rc.Env)
	}
	for _, arg := range s.Target.Command {
		result.Argv = append(result.Argv, engine.Expand(arg))
	}
	if s.Target.Stdin != nil {
		if prefix := engine.Expand(s.Target.Stdin.String()); prefix != "" {
			result.Stdin = []byte(prefix)
		}
	}

	var positionals []*inject.ResolvedInjector
	for _, r := range resolved {
		if r.Skipped {
			continue
		}
		result.Files = append(result.Files, r.FilesCreated...)
		result.Errors = append(result.Errors, r.Errors...)

		if r.Kind() == spec.KindPositional {
			positionals = append(positionals, r)
			continue
		}
		if !r.OK() {
			continue
		}

		maps.Copy(result.Env, r.EnvUpdates)
		result.Argv = append(result.Argv, r.ArgvSegments...)
		if r.Kind() == spec.KindStdinFragment && r.Value != "" {
			if result.Stdin == nil {
				result.Stdin = []byte{}
			}
			result.Stdin = append(result.Stdin, r.Value...)
		}
	}

	slices.SortStableFunc(positionals, func(a, b *inject.ResolvedInjector) int {
		return order(a) - order(b)
	})
	for _, r := range positionals {
		if r.OK() {
			result.Argv = append(result.Argv, r.ArgvSegments...)
		}
	}

	return result
}

// fileAliases maps each alias of a file injector to the path it created.
func fileAliases(resolved []*inject.ResolvedInjector) map[string]string {
	aliases := map[string]string{}
	for _, r := range resolved {
		if r.Kind() != spec.KindFile || len(r.FilesCreated) == 0 {
			continue
		}
		for _, alias := range r.Injector.Aliases {
			aliases[alias] = r.FilesCreated[0]
		}
	}
	return aliases
}

func order(r *inject.ResolvedInjector) int {
	if r.Injector.Order == nil {
		return 0
	}
	return *r.Injector.Order
}
