// SPDX-License-Identifier: MPL-2.0

package build

import (
	"errors"
	"slices"
	"testing"

	"github.com/cfgwrap/cfgwrap/internal/inject"
	"github.com/cfgwrap/cfgwrap/internal/runtime"
	"github.com/cfgwrap/cfgwrap/internal/token"
	"github.com/cfgwrap/cfgwrap/pkg/spec"
)

func intPtr(i int) *int { return &i }

func sources(s ...string) []spec.Template {
	out := make([]spec.Template, len(s))
	for i := range s {
		out[i] = spec.Template(s[i])
	}
	return out
}

// assemble resolves the spec's injectors and assembles the result.
func assemble(t *testing.T, s *spec.Spec, env map[string]string) *Result {
	t.Helper()

	rc := runtime.NewContext(runtime.ContextOptions{Env: env, Home: "/home/alice"})
	engine := token.New(rc, nil)
	resolver := inject.NewResolver(rc, nil, engine,
		inject.WithCommand(s.Target.Command),
		inject.WithTempDir(t.TempDir()),
	)
	resolved := resolver.ResolveAll(s.ConfigurationInjectors)
	return Assemble(s, resolved, rc, engine)
}

func newSpec(command []string, injectors ...spec.Injector) *spec.Spec {
	return &spec.Spec{
		Version:                "1",
		ConfigurationInjectors: injectors,
		Target: spec.Target{
			WorkingDir: ".",
			Shell:      spec.ShellNone,
			Command:    command,
		},
	}
}

func TestAssembleEnvPassthrough(t *testing.T) {
	t.Parallel()

	env := map[string]string{"PORT": "1", "USER": "alice"}
	injector := spec.Injector{
		Name: "port", Kind: spec.KindEnvVar, Aliases: []string{"PORT"}, Sources: sources("2"),
	}

	t.Run("injector overrides passthrough", func(t *testing.T) {
		t.Parallel()

		s := newSpec([]string{"app"}, injector)
		s.EnvPassthrough = true
		got := assemble(t, s, env)

		if got.Env["PORT"] != "2" {
			t.Errorf("PORT = %q, want injector value", got.Env["PORT"])
		}
		if got.Env["USER"] != "alice" {
			t.Errorf("USER = %q, want passthrough value", got.Env["USER"])
		}
	})

	t.Run("no passthrough", func(t *testing.T) {
		t.Parallel()

		got := assemble(t, newSpec([]string{"app"}, injector), env)

		if !slices.Equal(got.EnvKeys(), []string{"PORT"}) {
			t.Errorf("env keys = %v, want only injected keys", got.EnvKeys())
		}
	})
}

func TestAssembleArgvOrder(t *testing.T) {
	t.Parallel()

	s := newSpec([]string{"tool", "run"},
		spec.Injector{Name: "c", Kind: spec.KindPositional, Sources: sources("C"), Order: intPtr(2)},
		spec.Injector{Name: "verbose", Kind: spec.KindNamed, Aliases: []string{"--verbose"}, Sources: sources("1")},
		spec.Injector{Name: "a", Kind: spec.KindPositional, Sources: sources("A"), Order: intPtr(0)},
		spec.Injector{Name: "b", Kind: spec.KindPositional, Sources: sources("B"), Order: intPtr(1)},
		spec.Injector{Name: "level", Kind: spec.KindNamed, Aliases: []string{"-l"}, Sources: sources("3"), Connector: spec.ConnectorSpace},
	)
	got := assemble(t, s, nil)

	want := []string{"tool", "run", "--verbose=1", "-l", "3", "A", "B", "C"}
	if !slices.Equal(got.Argv, want) {
		t.Errorf("Argv = %q, want %q", got.Argv, want)
	}
}

func TestAssembleStdin(t *testing.T) {
	t.Parallel()

	t.Run("fragments concatenate in declaration order", func(t *testing.T) {
		t.Parallel()

		s := newSpec([]string{"cat"},
			spec.Injector{Name: "one", Kind: spec.KindStdinFragment, Sources: sources("line1\nline2")},
			spec.Injector{Name: "skip", Kind: spec.KindStdinFragment, Sources: sources("nope"), When: "false"},
			spec.Injector{Name: "two", Kind: spec.KindStdinFragment, Sources: sources("line3")},
		)
		got := assemble(t, s, nil)

		if string(got.Stdin) != "line1\nline2line3" {
			t.Errorf("Stdin = %q", got.Stdin)
		}
	})

	t.Run("absent without fragments", func(t *testing.T) {
		t.Parallel()

		got := assemble(t, newSpec([]string{"cat"}), nil)
		if got.Stdin != nil {
			t.Errorf("Stdin = %q, want nil", got.Stdin)
		}
	})

	t.Run("target stdin is a prefix", func(t *testing.T) {
		t.Parallel()

		s := newSpec([]string{"cat"},
			spec.Injector{Name: "one", Kind: spec.KindStdinFragment, Sources: sources("body")},
		)
		prefix := spec.Template("head:${HOME}:")
		s.Target.Stdin = &prefix
		got := assemble(t, s, nil)

		if string(got.Stdin) != "head:/home/alice:body" {
			t.Errorf("Stdin = %q", got.Stdin)
		}
	})
}

func TestAssembleFileAliasToken(t *testing.T) {
	t.Parallel()

	s := newSpec([]string{"cat", "${cfg}"},
		spec.Injector{Name: "config", Kind: spec.KindFile, Aliases: []string{"cfg"}, Sources: sources("data")},
	)
	got := assemble(t, s, nil)

	if len(got.Files) != 1 {
		t.Fatalf("Files = %v, want one", got.Files)
	}
	want := []string{"cat", got.Files[0]}
	if !slices.Equal(got.Argv, want) {
		t.Errorf("Argv = %q, want %q", got.Argv, want)
	}
}

func TestAssembleTempFileEnv(t *testing.T) {
	t.Parallel()

	s := newSpec([]string{"app"},
		spec.Injector{Name: "blob", Kind: spec.KindFile, Sources: sources("data")},
	)
	got := assemble(t, s, nil)

	if got.Env[inject.TempFileEnv] != got.Files[0] {
		t.Errorf("TEMP_FILE = %q, files = %v", got.Env[inject.TempFileEnv], got.Files)
	}
}

func TestAssembleErrorsFlattened(t *testing.T) {
	t.Parallel()

	s := newSpec([]string{"app"},
		spec.Injector{Name: "flag", Kind: spec.KindNamed, Aliases: []string{"--flag"}, Sources: sources("maybe"), Type: spec.TypeBool},
		spec.Injector{Name: "count", Kind: spec.KindPositional, Sources: sources("many"), Type: spec.TypeInt, Order: intPtr(0)},
		spec.Injector{Name: "ok", Kind: spec.KindNamed, Aliases: []string{"--ok"}, Sources: sources("yes")},
	)
	got := assemble(t, s, nil)

	if len(got.Errors) != 2 || !got.HasErrors() {
		t.Fatalf("Errors = %v, want two", got.Errors)
	}
	if !errors.Is(got.Errors[0], inject.ErrInvalidBool) {
		t.Errorf("first error = %v", got.Errors[0])
	}
	if !errors.Is(got.Errors[1], inject.ErrCoercion) {
		t.Errorf("second error = %v", got.Errors[1])
	}
	if !slices.Equal(got.Argv, []string{"app", "--ok=yes"}) {
		t.Errorf("Argv = %q, failed injectors must not contribute", got.Argv)
	}
}
