// SPDX-License-Identifier: MPL-2.0

package spec

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cfgwrap/cfgwrap/pkg/cueutil"
)

const yamlSpec = `
version: "1.0"
env_passthrough: true
configuration_providers:
  - type: env
    id: env
    filter_chain:
      - "^APP_"
      - exclude: "_DEBUG$"
configuration_injectors:
  - name: port
    kind: named
    aliases: ["--port"]
    sources: ["${ENV:PORT}", 8080]
    type: int
    connector: space
  - name: first
    kind: positional
    sources: ["a"]
    order: 0
target:
  working_dir: /tmp
  command: ["echo", "hello"]
`

const tomlSpec = `
version = "1.0"

[[configuration_injectors]]
name = "debug"
kind = "env_var"
aliases = ["DEBUG"]
sources = [true]

[target]
working_dir = "/srv"
shell = "bash"
command = ["run.sh"]

[target.stdout]
path = "/var/log/out.log"
format = "json"
`

func TestParseYAML(t *testing.T) {
	t.Parallel()

	s, err := Parse([]byte(yamlSpec), "spec.yaml", cueutil.FormatYAML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if s.Version != "1.0" || !s.EnvPassthrough {
		t.Errorf("top-level fields = %q/%v", s.Version, s.EnvPassthrough)
	}
	if len(s.ConfigurationProviders) != 1 {
		t.Fatalf("providers = %d, want 1", len(s.ConfigurationProviders))
	}
	p := s.ConfigurationProviders[0]
	if !p.Enabled {
		t.Error("provider enabled should default to true")
	}
	wantChain := []FilterRule{{Include: "^APP_"}, {Exclude: "_DEBUG$"}}
	if len(p.FilterChain) != len(wantChain) {
		t.Fatalf("filter chain = %v, want %v", p.FilterChain, wantChain)
	}
	for i := range wantChain {
		if p.FilterChain[i] != wantChain[i] {
			t.Errorf("filter_chain[%d] = %+v, want %+v", i, p.FilterChain[i], wantChain[i])
		}
	}

	port := s.ConfigurationInjectors[0]
	if got := []Template{"${ENV:PORT}", "8080"}; len(port.Sources) != 2 || port.Sources[0] != got[0] || port.Sources[1] != got[1] {
		t.Errorf("sources = %v, want %v", port.Sources, got)
	}
	if port.Connector != ConnectorSpace || port.Type != TypeInt {
		t.Errorf("connector/type = %q/%q", port.Connector, port.Type)
	}
	if port.Precedence != PrecedenceFirstNonEmpty {
		t.Errorf("precedence = %q, want default", port.Precedence)
	}
	if port.Delimiter != DefaultDelimiter {
		t.Errorf("delimiter = %q, want default", port.Delimiter)
	}

	first := s.ConfigurationInjectors[1]
	if first.Order == nil || *first.Order != 0 {
		t.Errorf("order = %v, want 0", first.Order)
	}
	if first.Connector != ConnectorEquals {
		t.Errorf("connector default = %q", first.Connector)
	}

	if s.Target.Shell != ShellNone {
		t.Errorf("shell default = %q, want none", s.Target.Shell)
	}
	if got := strings.Join(s.Target.Command, " "); got != "echo hello" {
		t.Errorf("command = %q", got)
	}
}

func TestParseTOML(t *testing.T) {
	t.Parallel()

	s, err := Parse([]byte(tomlSpec), "spec.toml", cueutil.FormatTOML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	inj := s.ConfigurationInjectors[0]
	if len(inj.Sources) != 1 || inj.Sources[0] != "true" {
		t.Errorf("sources = %v, want [true]", inj.Sources)
	}
	if s.Target.Shell != ShellBash {
		t.Errorf("shell = %q", s.Target.Shell)
	}
	if s.Target.Stdout.Format != StreamFormatJSON || s.Target.Stdout.Path != "/var/log/out.log" {
		t.Errorf("stdout = %+v", s.Target.Stdout)
	}
	if s.Target.Stderr.TeeTerminal {
		t.Error("stderr tee should default to false")
	}
}

func TestParseRejectsSchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{
			name: "unknown kind",
			data: `
version: "1"
configuration_injectors:
  - name: x
    kind: magic
target:
  working_dir: .
  command: [true]
`,
		},
		{
			name: "empty command",
			data: `
version: "1"
target:
  working_dir: .
  command: []
`,
		},
		{
			name: "missing target",
			data: `version: "1"`,
		},
		{
			name: "negative order",
			data: `
version: "1"
configuration_injectors:
  - name: x
    kind: positional
    order: -1
target:
  working_dir: .
  command: [echo]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Parse([]byte(tt.data), "bad.yaml", cueutil.FormatYAML); err == nil {
				t.Fatal("Parse() expected error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "cfgwrap.yaml")
	if err := os.WriteFile(path, []byte(yamlSpec), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.FilePath != path {
		t.Errorf("FilePath = %q, want %q", s.FilePath, path)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want fs.ErrNotExist", err)
	}
	if _, err := Load(filepath.Join(dir, "spec.ini")); !errors.Is(err, cueutil.ErrUnsupportedFormat) {
		t.Errorf("Load(.ini) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestJSONSchema(t *testing.T) {
	t.Parallel()

	out, err := JSONSchema()
	if err != nil {
		t.Fatalf("JSONSchema() error = %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if !strings.Contains(string(out), "configuration_injectors") {
		t.Error("schema should mention configuration_injectors")
	}
}
