// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/cfgwrap/cfgwrap/internal/issue"
	"github.com/cfgwrap/cfgwrap/pkg/spec"

	"github.com/spf13/cobra"
)

type validateFlags struct {
	specFlags
	quiet bool
}

func newValidateCommand(app *App) *cobra.Command {
	flags := &validateFlags{}
	cmd := &cobra.Command{
		Use:   "validate SPEC",
		Short: "Check a spec without running its target",
		Long: `Validate SPEC against the schema, resolve it once without running the
target, and check the semantic rules the schema cannot express. Strict mode
additionally requires every injector to declare aliases and sources.`,
		Example: `  cfgwrap validate cfgwrap.yaml
  cfgwrap validate cfgwrap.yaml --strict --profile prod`,
		Args: cobra.ExactArgs(1),
	}
	cmd.RunE = app.runE(func(cmd *cobra.Command, args []string) error {
		return app.validate(cmd, args[0], flags)
	})

	cmd.Flags().BoolVar(&flags.strict, "strict", false, "require aliases and sources on every injector")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "print nothing on success")
	flags.addProfileFlag(cmd)

	return cmd
}

func (a *App) validate(cmd *cobra.Command, path string, flags *validateFlags) error {
	if a.flags.verbose && flags.quiet {
		return errVerboseQuiet
	}

	s, err := a.loadSpec(path, &flags.specFlags)
	if err != nil {
		return err
	}
	strict := a.strictMode(&flags.specFlags)

	if a.flags.verbose {
		a.printSpecDetails(s, strict)
	}

	report, err := a.orchestrator(false).DryRun(cmd.Context(), s, a.runtimeContext())
	if err != nil {
		return err
	}
	if report.Build.HasErrors() {
		return a.failMasked("Validation failed:", report.Build.Errors, issue.BuildErrorsId, report.Masker())
	}

	if errs := spec.Validate(s, strict); len(errs) > 0 {
		return a.fail("Semantic validation failed:", errs, issue.SpecInvalidId)
	}

	if !flags.quiet {
		msg := "✓ Specification is valid"
		if strict {
			msg += " (strict mode)"
		}
		fmt.Fprintln(a.stdout, SuccessStyle.Render(msg))
	}
	return nil
}

func (a *App) printSpecDetails(s *spec.Spec, strict bool) {
	fmt.Fprintln(a.stderr, SubtitleStyle.Render("Validating spec: ")+s.FilePath)
	fmt.Fprintln(a.stderr, VerboseStyle.Render(fmt.Sprintf("  Version: %s", s.Version)))
	fmt.Fprintln(a.stderr, VerboseStyle.Render(fmt.Sprintf("  Providers: %d", len(s.ConfigurationProviders))))
	fmt.Fprintln(a.stderr, VerboseStyle.Render(fmt.Sprintf("  Injectors: %d", len(s.ConfigurationInjectors))))
	if names := s.ProfileNames(); len(names) > 0 {
		fmt.Fprintln(a.stderr, VerboseStyle.Render(fmt.Sprintf("  Profiles: %v", names)))
	}
	fmt.Fprintln(a.stderr, VerboseStyle.Render(fmt.Sprintf("  Strict mode: %t", strict)))
}
