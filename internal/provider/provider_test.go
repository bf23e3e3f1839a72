// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"bytes"
	"context"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/cfgwrap/cfgwrap/internal/mask"
	"github.com/cfgwrap/cfgwrap/internal/runtime"
	"github.com/cfgwrap/cfgwrap/pkg/spec"
)

func newContext(env map[string]string, workingDir string) *runtime.Context {
	return runtime.NewContext(runtime.ContextOptions{
		Env:        env,
		Home:       "/home/alice",
		WorkingDir: workingDir,
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestApplyFilters(t *testing.T) {
	t.Parallel()

	m := runtime.ProviderMap{
		"APP_PORT":  "1",
		"APP_DEBUG": "2",
		"HOME":      "3",
		"XAPP_X":    "4",
	}

	tests := []struct {
		name  string
		chain []spec.FilterRule
		want  []string
	}{
		{name: "empty chain keeps all", want: []string{"APP_DEBUG", "APP_PORT", "HOME", "XAPP_X"}},
		{name: "include anchored at start", chain: []spec.FilterRule{{Include: "APP_"}}, want: []string{"APP_DEBUG", "APP_PORT"}},
		{
			name:  "exclude removes accumulated",
			chain: []spec.FilterRule{{Include: "APP_"}, {Exclude: "APP_DEBUG"}},
			want:  []string{"APP_PORT"},
		},
		{
			name:  "include after exclude re-adds",
			chain: []spec.FilterRule{{Include: "APP_", Exclude: ".*DEBUG"}, {Include: "HOME"}},
			want:  []string{"APP_PORT", "HOME"},
		},
		{name: "exclude only yields nothing", chain: []spec.FilterRule{{Exclude: "HOME"}}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ApplyFilters(m, tt.chain)
			if err != nil {
				t.Fatalf("ApplyFilters() error = %v", err)
			}
			keys := slices.Sorted(maps.Keys(got))
			if !slices.Equal(keys, tt.want) {
				t.Errorf("keys = %v, want %v", keys, tt.want)
			}
		})
	}

	if _, err := ApplyFilters(m, []spec.FilterRule{{Include: "("}}); err == nil {
		t.Error("ApplyFilters() with invalid regex should fail")
	}
}

func TestLoadAllEnvAndMask(t *testing.T) {
	t.Parallel()

	rc := newContext(map[string]string{"APP_KEY": "k", "OTHER": "o"}, "")
	providers := []spec.Provider{
		{Type: spec.ProviderEnv, ID: "env", Enabled: true, FilterChain: []spec.FilterRule{{Include: "APP_"}}},
		{Type: spec.ProviderEnv, ID: "masked", Enabled: true, Mask: true},
		{Type: spec.ProviderEnv, ID: "off", Enabled: false},
	}

	got, err := LoadAll(context.Background(), providers, rc)
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}

	if _, ok := got["off"]; ok {
		t.Error("disabled provider must not be loaded")
	}
	if !maps.Equal(got["env"], runtime.ProviderMap{"APP_KEY": "k"}) {
		t.Errorf("env = %v", got["env"])
	}
	for key, value := range got["masked"] {
		if value != mask.Placeholder {
			t.Errorf("masked[%s] = %q", key, value)
		}
	}
	if rc.Env["OTHER"] != "o" {
		t.Error("masking must not modify the runtime environment")
	}
	if ids := IDs(providers); !slices.Equal(ids, []string{"env", "masked"}) {
		t.Errorf("IDs() = %v", ids)
	}
}

func TestDotenvSingle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env"), "# comment\nDB_HOST=localhost\nDB_PASS=\"p w\"\nexport TOKEN=abc\n")

	rc := newContext(map[string]string{}, dir)

	t.Run("filename relative to working dir", func(t *testing.T) {
		t.Parallel()

		p := NewDotenvProvider(spec.Provider{ID: "dot", Filename: ".env"}, nil)
		got, err := p.Load(context.Background(), rc)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		want := runtime.ProviderMap{"DB_HOST": "localhost", "DB_PASS": "p w", "TOKEN": "abc"}
		if !maps.Equal(got, want) {
			t.Errorf("Load() = %v, want %v", got, want)
		}
	})

	t.Run("explicit path", func(t *testing.T) {
		t.Parallel()

		p := NewDotenvProvider(spec.Provider{ID: "dot", Path: filepath.Join(dir, ".env"),
			FilterChain: []spec.FilterRule{{Include: "DB_"}}}, nil)
		got, err := p.Load(context.Background(), newContext(map[string]string{}, ""))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(got) != 2 {
			t.Errorf("Load() = %v, want DB_ keys only", got)
		}
	})

	t.Run("missing file is empty", func(t *testing.T) {
		t.Parallel()

		p := NewDotenvProvider(spec.Provider{ID: "dot", Filename: "nope.env"}, nil)
		got, err := p.Load(context.Background(), rc)
		if err != nil || len(got) != 0 {
			t.Errorf("Load() = %v, %v; want empty", got, err)
		}
	})

	t.Run("no file configured is empty", func(t *testing.T) {
		t.Parallel()

		got, err := NewDotenvProvider(spec.Provider{ID: "dot"}, nil).Load(context.Background(), rc)
		if err != nil || got == nil || len(got) != 0 {
			t.Errorf("Load() = %v, %v; want empty map", got, err)
		}
	})
}

func TestDotenvHierarchical(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	leaf := filepath.Join(root, "a", "b")
	writeFile(t, filepath.Join(root, ".cfg.env"), "LEVEL=root\nROOT_ONLY=1\n")
	writeFile(t, filepath.Join(root, "a", ".cfg.env"), "LEVEL=middle\n")
	writeFile(t, filepath.Join(leaf, ".cfg.env"), "LEVEL=leaf\nLEAF_ONLY=1\n")

	tests := []struct {
		precedence spec.DotenvPrecedence
		wantLevel  string
	}{
		{precedence: "", wantLevel: "leaf"},
		{precedence: spec.DeepFirst, wantLevel: "leaf"},
		{precedence: spec.ShallowFirst, wantLevel: "root"},
	}

	for _, tt := range tests {
		t.Run(string(tt.precedence), func(t *testing.T) {
			t.Parallel()

			p := NewDotenvProvider(spec.Provider{
				ID: "dot", Filename: ".cfg.env", Hierarchical: true, Precedence: tt.precedence,
			}, nil)
			got, err := p.Load(context.Background(), newContext(map[string]string{}, leaf))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got["LEVEL"] != tt.wantLevel {
				t.Errorf("LEVEL = %q, want %q", got["LEVEL"], tt.wantLevel)
			}
			if got["ROOT_ONLY"] != "1" || got["LEAF_ONLY"] != "1" {
				t.Errorf("merge lost keys: %v", got)
			}
		})
	}
}

func TestDotenvMalformedFileIsSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env"), "this is not dotenv\n")

	var logs bytes.Buffer
	got, err := LoadAll(context.Background(),
		[]spec.Provider{{Type: spec.ProviderDotenv, ID: "dot", Enabled: true, Filename: ".env"}},
		newContext(map[string]string{}, dir),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	if err != nil {
		t.Fatalf("LoadAll() error = %v, want malformed file ignored", err)
	}
	if values, ok := got["dot"]; !ok || len(values) != 0 {
		t.Errorf("dot = %v, want an empty map", got["dot"])
	}
	if !strings.Contains(logs.String(), "ignoring malformed dotenv file") {
		t.Errorf("log output = %q, want a warning", logs.String())
	}
}
