// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/cfgwrap/cfgwrap/internal/issue"
	"github.com/cfgwrap/cfgwrap/pkg/spec"

	"github.com/spf13/cobra"
)

// specFlags holds the flags shared by commands that load a spec.
type specFlags struct {
	profile          string
	strict           bool
	envPassthrough   bool
	noEnvPassthrough bool
	maskDefaults     bool
	noMaskDefaults   bool
}

// addProfileFlag registers --profile on cmd.
func (f *specFlags) addProfileFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.profile, "profile", "", "apply a named profile from the spec")
}

// addOverrideFlags registers the --[no-]env-passthrough and
// --[no-]mask-defaults pairs on cmd.
func (f *specFlags) addOverrideFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.envPassthrough, "env-passthrough", false, "pass the full parent environment to the target")
	cmd.Flags().BoolVar(&f.noEnvPassthrough, "no-env-passthrough", false, "pass only injected variables to the target")
	cmd.Flags().BoolVar(&f.maskDefaults, "mask-defaults", false, "mask default values in all output")
	cmd.Flags().BoolVar(&f.noMaskDefaults, "no-mask-defaults", false, "show default values in output")
	cmd.MarkFlagsMutuallyExclusive("env-passthrough", "no-env-passthrough")
	cmd.MarkFlagsMutuallyExclusive("mask-defaults", "no-mask-defaults")
}

// loadSpec loads path and applies, in order: application config defaults,
// the selected profile, then command line overrides.
func (a *App) loadSpec(path string, f *specFlags) (*spec.Spec, error) {
	s, err := spec.Load(path)
	if err != nil {
		return nil, specLoadError(path, err)
	}

	if a.cfg.Defaults.EnvPassthrough {
		s.EnvPassthrough = true
	}
	if a.cfg.Defaults.MaskDefaults {
		s.MaskDefaults = true
	}

	if f.profile != "" {
		switch err := s.ApplyProfile(f.profile); {
		case errors.Is(err, spec.ErrNoProfiles):
			fmt.Fprintln(a.stderr, WarningStyle.Render("Warning:")+" "+
				fmt.Sprintf("profile '%s' requested but no profiles are defined in the spec", f.profile))
		case err != nil:
			return nil, profileError(path, err)
		default:
			a.logger.Debug("applied profile", "profile", f.profile)
		}
	}

	switch {
	case f.envPassthrough:
		s.EnvPassthrough = true
	case f.noEnvPassthrough:
		s.EnvPassthrough = false
	}
	switch {
	case f.maskDefaults:
		s.MaskDefaults = true
	case f.noMaskDefaults:
		s.MaskDefaults = false
	}
	return s, nil
}

// strictMode reports whether strict validation applies to this invocation.
func (a *App) strictMode(f *specFlags) bool {
	return f.strict || a.cfg.Defaults.Strict
}

func specLoadError(path string, err error) error {
	ctx := issue.NewErrorContext().
		WithOperation("load spec").
		WithResource(path).
		Wrap(err)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		ctx.WithIssue(issue.SpecNotFoundId).
			WithSuggestion("Check the path, or create a spec file (see 'cfgwrap schema')")
	case errors.Is(err, fs.ErrPermission):
		ctx.WithIssue(issue.PermissionDeniedId).
			WithSuggestion("Check the file permissions")
	default:
		ctx.WithIssue(issue.SpecParseErrorId)
	}
	return ctx.BuildError()
}

func profileError(path string, err error) error {
	ctx := issue.NewErrorContext().
		WithOperation("apply profile").
		WithResource(path).
		WithIssue(issue.ProfileNotFoundId).
		Wrap(err)

	var notFound *spec.ProfileNotFoundError
	if errors.As(err, &notFound) && len(notFound.Available) > 0 {
		ctx.WithSuggestion("Available profiles: " + strings.Join(notFound.Available, ", "))
	}
	return ctx.BuildError()
}
