// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/cfgwrap/cfgwrap/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `cfgwrap config` command tree.
// Subcommands that read configuration use the App's config provider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage cfgwrap configuration",
		Long: `Manage cfgwrap configuration.

Configuration is stored in:
  - Linux: ~/.config/cfgwrap/config.cue
  - macOS: ~/Library/Application Support/cfgwrap/config.cue
  - Windows: %APPDATA%\cfgwrap\config.cue

Every value can be overridden with a CFGWRAP_* environment variable,
for example CFGWRAP_LOG_LEVEL=debug.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			return app.showConfig(cmd)
		}),
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			return app.initConfig(force)
		}),
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			cfgPath, err := config.FilePath(app.loadOptions())
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, cfgPath)
			return nil
		}),
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), app.loadOptions())
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		}),
	})

	return cfgCmd
}

func (a *App) loadOptions() config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: a.flags.configPath}
}

func (a *App) showConfig(cmd *cobra.Command) error {
	cfg, err := a.Config.Load(cmd.Context(), a.loadOptions())
	if err != nil {
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	w := a.stdout

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	cfgPath, err := config.FilePath(a.loadOptions())
	if err == nil && fileExists(cfgPath) {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), cfgPath)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("log"))
	fmt.Fprintf(w, "  level: %s\n", valueStyle.Render(string(cfg.Log.Level)))
	fmt.Fprintf(w, "  format: %s\n", valueStyle.Render(string(cfg.Log.Format)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("defaults"))
	fmt.Fprintf(w, "  env_passthrough: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Defaults.EnvPassthrough)))
	fmt.Fprintf(w, "  mask_defaults: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Defaults.MaskDefaults)))
	fmt.Fprintf(w, "  strict: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Defaults.Strict)))

	return nil
}

func (a *App) initConfig(force bool) error {
	cfgPath, err := config.CreateDefaultConfig(a.loadOptions(), force)
	if errors.Is(err, config.ErrConfigFileExists) {
		fmt.Fprintf(a.stderr, "%s %s already exists (use --force to overwrite)\n", WarningStyle.Render("!"), cfgPath)
		return &ExitError{Code: 1, Err: err}
	}
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Fprintf(a.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), cfgPath)
	return nil
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
