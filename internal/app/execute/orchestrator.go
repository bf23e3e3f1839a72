// SPDX-License-Identifier: MPL-2.0

package execute

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cfgwrap/cfgwrap/internal/build"
	"github.com/cfgwrap/cfgwrap/internal/inject"
	"github.com/cfgwrap/cfgwrap/internal/mask"
	"github.com/cfgwrap/cfgwrap/internal/provider"
	"github.com/cfgwrap/cfgwrap/internal/report"
	"github.com/cfgwrap/cfgwrap/internal/runtime"
	"github.com/cfgwrap/cfgwrap/internal/stream"
	"github.com/cfgwrap/cfgwrap/internal/token"
	"github.com/cfgwrap/cfgwrap/pkg/spec"
)

var (
	// ErrBuild is the sentinel wrapped by BuildErrors.
	ErrBuild = errors.New("configuration errors")

	// ErrRequiredValueMissing marks a required injector that resolved no value.
	ErrRequiredValueMissing = errors.New("required value missing")

	// ErrStreams wraps failures to open the target's output streams.
	ErrStreams = errors.New("failed to prepare output streams")
)

type (
	// Orchestrator runs the resolution pipeline for one spec at a time.
	// Its zero value is not usable; create it with New.
	Orchestrator struct {
		logger  *slog.Logger
		fetcher provider.SecretFetcher
		tempDir string
		stdin   io.Reader
		stdout  io.Writer
		stderr  io.Writer
		tty     bool
		now     func() time.Time
	}

	// Option configures an Orchestrator.
	Option func(*Orchestrator)

	// Prepared is the outcome of one resolution pass.
	Prepared struct {
		Context    *runtime.Context
		Providers  runtime.ProviderMaps
		Engine     *token.Engine
		Resolved   []*inject.ResolvedInjector
		Build      *build.Result
		WorkingDir string
	}

	// BuildErrors is returned by Run when resolution recorded errors. The
	// target is not started.
	BuildErrors struct {
		Errors []error

		masker *mask.Masker
	}
)

// Error implements the error interface. Sensitive values are masked.
func (e *BuildErrors) Error() string {
	return fmt.Sprintf("%d configuration error(s): %s", len(e.Errors), strings.Join(e.Messages(), "; "))
}

// Messages returns the error messages with sensitive values masked.
func (e *BuildErrors) Messages() []string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = e.masker.String(err.Error())
	}
	return msgs
}

// Masker returns the masker holding the sensitive values of the failed pass.
func (e *BuildErrors) Masker() *mask.Masker { return e.masker }

// Unwrap returns ErrBuild and every collected error.
func (e *BuildErrors) Unwrap() []error {
	return append([]error{ErrBuild}, e.Errors...)
}

// WithLogger sets the logger passed to providers and the resolver.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithSecretFetcher replaces the bws CLI used by bws providers.
func WithSecretFetcher(fetcher provider.SecretFetcher) Option {
	return func(o *Orchestrator) {
		o.fetcher = fetcher
	}
}

// WithTempDir sets where file injectors create ephemeral files.
func WithTempDir(dir string) Option {
	return func(o *Orchestrator) {
		o.tempDir = dir
	}
}

// WithIO sets the terminal streams. stdin is connected to the target when
// the spec supplies no stdin payload.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(o *Orchestrator) {
		o.stdin = stdin
		o.stdout = stdout
		o.stderr = stderr
	}
}

// WithTTY runs the target attached to a pseudo-terminal.
func WithTTY(enabled bool) Option {
	return func(o *Orchestrator) {
		o.tty = enabled
	}
}

// WithClock sets the timestamp source for JSON stream records.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// New creates an Orchestrator writing to the process's standard streams.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		logger: slog.New(slog.DiscardHandler),
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Prepare runs one resolution pass: it advances the sequence counter,
// records the target working directory, loads providers, resolves every
// injector and assembles the invocation. Required injectors without a value
// are added to Build.Errors.
func (o *Orchestrator) Prepare(ctx context.Context, s *spec.Spec, rc *runtime.Context) (*Prepared, error) {
	rc.NextSeq()

	workingDir, err := resolveWorkingDir(s.Target.WorkingDir, token.New(rc, nil))
	if err != nil {
		return nil, err
	}
	rc.Extra[runtime.ExtraWorkingDir] = workingDir

	loadOpts := []provider.Option{provider.WithLogger(o.logger)}
	if o.fetcher != nil {
		loadOpts = append(loadOpts, provider.WithSecretFetcher(o.fetcher))
	}
	providers, err := provider.LoadAll(ctx, s.ConfigurationProviders, rc, loadOpts...)
	if err != nil {
		return nil, err
	}

	engine := token.New(rc, providers)
	resolverOpts := []inject.Option{
		inject.WithLogger(o.logger),
		inject.WithCommand(s.Target.Command),
		inject.WithProviderOrder(provider.IDs(s.ConfigurationProviders)),
	}
	if o.tempDir != "" {
		resolverOpts = append(resolverOpts, inject.WithTempDir(o.tempDir))
	}
	resolved := inject.NewResolver(rc, providers, engine, resolverOpts...).ResolveAll(s.ConfigurationInjectors)

	result := build.Assemble(s, resolved, rc, engine)
	result.Errors = append(result.Errors, MissingRequired(resolved)...)

	o.logger.Debug("resolved configuration",
		"providers", len(providers),
		"injectors", len(resolved),
		"errors", len(result.Errors),
		"seq", rc.Seq)

	return &Prepared{
		Context:    rc,
		Providers:  providers,
		Engine:     engine,
		Resolved:   resolved,
		Build:      result,
		WorkingDir: workingDir,
	}, nil
}

// DryRun prepares s and returns the report without running the target.
// Ephemeral files created during resolution are removed before returning.
func (o *Orchestrator) DryRun(ctx context.Context, s *spec.Spec, rc *runtime.Context) (*report.DryRun, error) {
	p, err := o.Prepare(ctx, s, rc)
	if err != nil {
		return nil, err
	}
	o.removeFiles(p.Build.Files)
	return report.New(s, p.WorkingDir, p.Providers, p.Resolved, p.Build), nil
}

// Run prepares s and executes the target. It returns *BuildErrors without
// starting the target when resolution failed. Ephemeral files are removed
// and streams closed on every path.
func (o *Orchestrator) Run(ctx context.Context, s *spec.Spec, rc *runtime.Context) (result *runtime.Result, err error) {
	p, err := o.Prepare(ctx, s, rc)
	if err != nil {
		return nil, err
	}
	defer o.removeFiles(p.Build.Files)

	masker := mask.New(inject.SensitiveValues(p.Resolved)...)
	if p.Build.HasErrors() {
		return nil, &BuildErrors{Errors: p.Build.Errors, masker: masker}
	}

	streams, err := stream.OpenTarget(s.Target, p.Engine, s.DefaultLoggingFormat, masker, o.stdout, o.stderr,
		stream.WithClock(o.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStreams, err)
	}
	defer func() {
		if closeErr := streams.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close output streams: %w", closeErr)
		}
	}()

	o.logger.Debug("executing target",
		"command", masker.String(runtime.CommandLine(p.Build.Argv)),
		"working_dir", p.WorkingDir,
		"env", len(p.Build.Env),
		"tty", o.tty)

	result = runtime.Execute(ctx, runtime.Request{
		Argv:       p.Build.Argv,
		Env:        p.Build.Env,
		WorkingDir: p.WorkingDir,
		Stdin:      p.Build.Stdin,
		Input:      o.stdin,
		Shell:      s.Target.Shell,
		Stdout:     streams.Stdout,
		Stderr:     streams.Stderr,
		TTY:        o.tty,
	})

	o.logger.Debug("target finished",
		"exit_code", result.ExitCode,
		"duration", result.Duration)
	return result, nil
}

// MissingRequired returns an error for every required injector that was not
// skipped, recorded no errors and resolved no value.
func MissingRequired(resolved []*inject.ResolvedInjector) []error {
	var errs []error
	for _, r := range resolved {
		if r.Injector.Required && !r.Skipped && !r.HasValue && len(r.Errors) == 0 {
			errs = append(errs, &inject.InjectorError{Injector: r.Name(), Err: ErrRequiredValueMissing})
		}
	}
	return errs
}

func (o *Orchestrator) removeFiles(files []string) {
	for _, path := range files {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			o.logger.Warn("failed to remove ephemeral file", "path", path, "error", err)
		}
	}
}

// resolveWorkingDir expands the working_dir template and makes it absolute.
// An empty template means the current directory.
func resolveWorkingDir(template string, engine *token.Engine) (string, error) {
	dir := engine.Expand(template)
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		dir = engine.Expand(token.Placeholder("HOME")) + dir[1:]
	}
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory '%s': %w", dir, err)
	}
	return abs, nil
}
