// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/cfgwrap/cfgwrap/internal/runtime"
	"github.com/cfgwrap/cfgwrap/pkg/spec"

	"github.com/subosito/gotenv"
)

// DotenvProvider reads KEY=VALUE files.
//
// Without hierarchical, it reads path, or filename relative to the working
// directory. With hierarchical, it collects every filename from the working
// directory up to the filesystem root and merges them by precedence:
// deep-first lets the file closest to the working directory win,
// shallow-first lets the file closest to the root win.
//
// A file that fails to parse is logged and contributes no values.
type DotenvProvider struct {
	cfg    spec.Provider
	logger *slog.Logger
}

// errDotenvSyntax marks a dotenv file gotenv could not parse.
var errDotenvSyntax = errors.New("malformed dotenv file")

// NewDotenvProvider creates a DotenvProvider. A nil logger discards warnings.
func NewDotenvProvider(cfg spec.Provider, logger *slog.Logger) *DotenvProvider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DotenvProvider{cfg: cfg, logger: logger}
}

// ID returns the provider id.
func (p *DotenvProvider) ID() string { return p.cfg.ID }

// Load reads and filters the configured dotenv file(s). Missing files yield
// an empty map.
func (p *DotenvProvider) Load(_ context.Context, rc *runtime.Context) (runtime.ProviderMap, error) {
	var (
		merged runtime.ProviderMap
		err    error
	)
	if p.cfg.Hierarchical {
		merged, err = p.loadHierarchical(rc)
	} else {
		merged, err = p.loadSingle(rc)
	}
	if err != nil {
		return nil, err
	}
	return ApplyFilters(merged, p.cfg.FilterChain)
}

func (p *DotenvProvider) loadSingle(rc *runtime.Context) (runtime.ProviderMap, error) {
	var path string
	switch {
	case p.cfg.Path != "":
		path = p.cfg.Path
	case p.cfg.Filename != "":
		path = filepath.Join(workingDir(rc), p.cfg.Filename)
	default:
		return runtime.ProviderMap{}, nil
	}

	values, err := p.read(path)
	if err != nil {
		return nil, err
	}
	if values == nil {
		return runtime.ProviderMap{}, nil
	}
	return values, nil
}

func (p *DotenvProvider) loadHierarchical(rc *runtime.Context) (runtime.ProviderMap, error) {
	if p.cfg.Filename == "" {
		return runtime.ProviderMap{}, nil
	}

	dir, err := filepath.Abs(workingDir(rc))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	// Closest to the working directory first.
	var files []string
	for {
		candidate := filepath.Join(dir, p.cfg.Filename)
		if _, statErr := os.Stat(candidate); statErr == nil {
			files = append(files, candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	// Later files override earlier ones.
	if p.cfg.Precedence != spec.ShallowFirst {
		slices.Reverse(files)
	}

	merged := runtime.ProviderMap{}
	for _, file := range files {
		values, err := p.read(file)
		if err != nil {
			return nil, err
		}
		maps.Copy(merged, values)
	}
	return merged, nil
}

// read is readDotenv with syntax errors downgraded to a warning.
func (p *DotenvProvider) read(path string) (runtime.ProviderMap, error) {
	values, err := readDotenv(path)
	if errors.Is(err, errDotenvSyntax) {
		p.logger.Warn("ignoring malformed dotenv file", "provider", p.cfg.ID, "path", path, "error", err)
		return runtime.ProviderMap{}, nil
	}
	return values, err
}

// readDotenv parses one dotenv file. A missing file returns a nil map.
func readDotenv(path string) (runtime.ProviderMap, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read dotenv file '%s': %w", path, err)
	}
	defer func() { _ = f.Close() }()

	env, err := gotenv.StrictParse(f)
	if err != nil {
		return nil, fmt.Errorf("%w '%s': %w", errDotenvSyntax, path, err)
	}
	return runtime.ProviderMap(env), nil
}

func workingDir(rc *runtime.Context) string {
	if dir := rc.WorkingDir(); dir != "" {
		return dir
	}
	return "."
}
