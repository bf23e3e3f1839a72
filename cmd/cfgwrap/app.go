// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cfgwrap/cfgwrap/internal/app/execute"
	"github.com/cfgwrap/cfgwrap/internal/config"
	"github.com/cfgwrap/cfgwrap/internal/provider"
	"github.com/cfgwrap/cfgwrap/internal/runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type (
	// App wires CLI dependencies. It is the composition root for the CLI
	// layer: every Cobra handler receives an App and reads configuration,
	// streams and the logger through it.
	App struct {
		Config  config.Provider
		Fetcher provider.SecretFetcher

		stdin   io.Reader
		stdout  io.Writer
		stderr  io.Writer
		environ func() []string

		flags  globalFlags
		cfg    *config.Config
		logger *slog.Logger
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config  config.Provider
		Fetcher provider.SecretFetcher
		Stdin   io.Reader
		Stdout  io.Writer
		Stderr  io.Writer
		// Environ replaces os.Environ as the source of the runtime
		// environment snapshot.
		Environ func() []string
	}

	globalFlags struct {
		configPath string
		verbose    bool
		logFormat  string
		logLevel   string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Environ == nil {
		deps.Environ = os.Environ
	}

	return &App{
		Config:  deps.Config,
		Fetcher: deps.Fetcher,
		stdin:   deps.Stdin,
		stdout:  deps.Stdout,
		stderr:  deps.Stderr,
		environ: deps.Environ,
		cfg:     config.DefaultConfig(),
		logger:  slog.New(slog.DiscardHandler),
	}
}

// initialize loads the application config and builds the logger. Flags set
// on the command line win over config file and CFGWRAP_* values.
func (a *App) initialize(cmd *cobra.Command) error {
	cfg, err := a.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: a.flags.configPath})
	if err != nil {
		// A broken config must not block running specs; warn and continue.
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning:")+" "+formatErrorForDisplay(err, a.flags.verbose))
		cfg = config.DefaultConfig()
	}
	a.cfg = cfg

	if !cmd.Flags().Changed("verbose") && cfg.UI.Verbose {
		a.flags.verbose = true
	}

	format := cfg.Log.Format
	if cmd.Flags().Changed("log-format") {
		format = config.LogFormat(a.flags.logFormat)
	}
	level := cfg.Log.Level
	switch {
	case cmd.Flags().Changed("log-level"):
		level = config.LogLevel(a.flags.logLevel)
	case a.flags.verbose:
		level = config.LogLevelDebug
	}

	logger, err := newLogger(a.stderr, format, level)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

// orchestrator returns an execute.Orchestrator bound to the App's streams.
func (a *App) orchestrator(tty bool) *execute.Orchestrator {
	opts := []execute.Option{
		execute.WithLogger(a.logger),
		execute.WithIO(a.stdin, a.stdout, a.stderr),
		execute.WithTTY(tty),
	}
	if a.Fetcher != nil {
		opts = append(opts, execute.WithSecretFetcher(a.Fetcher))
	}
	return execute.New(opts...)
}

// runtimeContext samples a fresh runtime context for one invocation.
func (a *App) runtimeContext() *runtime.Context {
	return runtime.NewContext(runtime.ContextOptions{Environ: a.environ})
}

// glamourStyle picks the issue catalog style for stderr.
func (a *App) glamourStyle() string {
	isTerminal := false
	if f, ok := a.stderr.(*os.File); ok {
		isTerminal = term.IsTerminal(int(f.Fd()))
	}
	dark := isTerminal && lipgloss.HasDarkBackground()
	return a.cfg.UI.ColorScheme.GlamourStyle(isTerminal, dark)
}
