// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/cfgwrap/cfgwrap/internal/config"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the cfgwrap command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cfgwrap",
		Short: "Run a command with configuration injected from a declarative spec",
		Long: TitleStyle.Render("cfgwrap") + SubtitleStyle.Render(" - configuration injection for any command") + `

cfgwrap reads a spec file describing configuration providers (environment,
.env files, Bitwarden Secrets Manager), injectors (env vars, flags,
positional arguments, files, stdin) and a target command. It resolves every
value, masks secrets in all output and runs the target.

` + SubtitleStyle.Render("Examples:") + `
  cfgwrap run cfgwrap.yaml              Run the target with injected config
  cfgwrap run cfgwrap.yaml --dry-run    Show the plan without running
  cfgwrap explain cfgwrap.yaml          Show where every value comes from
  cfgwrap validate cfgwrap.yaml         Check the spec
  cfgwrap schema                        Print the spec JSON schema`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.initialize(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&app.flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/cfgwrap/config.cue)")
	flags.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	flags.StringVar(&app.flags.logFormat, "log-format", string(config.LogFormatText), "diagnostic log format (text, json, logfmt)")
	flags.StringVar(&app.flags.logLevel, "log-level", string(config.LogLevelWarn), "diagnostic log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newRunCommand(app),
		newValidateCommand(app),
		newExplainCommand(app),
		newSchemaCommand(app),
		newConfigCommand(app),
		newVersionCommand(app),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// Execute runs the CLI and exits with the target's exit code. This is
// called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := NewRootCommand(app)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// handleError prints errors that were not already rendered by a command
// handler, such as unknown flags or a wrong argument count.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}
