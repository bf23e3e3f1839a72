// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"

	"github.com/cfgwrap/cfgwrap/internal/app/execute"
	"github.com/cfgwrap/cfgwrap/internal/issue"
	"github.com/cfgwrap/cfgwrap/internal/runtime"
	"github.com/cfgwrap/cfgwrap/pkg/spec"

	"github.com/spf13/cobra"
)

var (
	// errVerboseQuiet is returned when --verbose and --quiet are combined.
	errVerboseQuiet = errors.New("--verbose and --quiet cannot be used together")

	// errShellCommandNotFound reports a shell-wrapped target whose shell
	// exited with the conventional "command not found" status.
	errShellCommandNotFound = errors.New("command not found by shell")
)

type runFlags struct {
	specFlags
	dryRun bool
	json   bool
	quiet  bool
	tty    bool
}

func newRunCommand(app *App) *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run SPEC",
		Short: "Resolve the spec and run its target command",
		Long: `Resolve every provider and injector declared in SPEC and run the target
command with the resulting environment, flags, arguments, files and stdin.
The target's exit code becomes cfgwrap's exit code.`,
		Example: `  cfgwrap run cfgwrap.yaml
  cfgwrap run cfgwrap.yaml --profile prod
  cfgwrap run cfgwrap.yaml --dry-run --json`,
		Args: cobra.ExactArgs(1),
	}
	cmd.RunE = app.runE(func(cmd *cobra.Command, args []string) error {
		return app.run(cmd, args[0], flags)
	})

	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "show the resolved invocation without running it")
	cmd.Flags().BoolVar(&flags.json, "json", false, "print the dry-run report as JSON (requires --dry-run)")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "suppress status output")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "enable strict validation")
	cmd.Flags().BoolVar(&flags.tty, "tty", false, "run the target attached to a pseudo-terminal")
	flags.addProfileFlag(cmd)
	flags.addOverrideFlags(cmd)

	return cmd
}

func (a *App) run(cmd *cobra.Command, path string, flags *runFlags) error {
	if a.flags.verbose && flags.quiet {
		return errVerboseQuiet
	}

	s, err := a.loadSpec(path, &flags.specFlags)
	if err != nil {
		return err
	}
	if errs := spec.Validate(s, a.strictMode(&flags.specFlags)); len(errs) > 0 {
		return a.fail("Semantic validation failed:", errs, issue.SpecInvalidId)
	}

	orch := a.orchestrator(flags.tty)
	rc := a.runtimeContext()

	if flags.dryRun {
		return a.dryRun(cmd, orch, s, rc, flags)
	}
	if flags.json {
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning:")+" --json only applies to --dry-run; ignoring")
	}

	result, err := orch.Run(cmd.Context(), s, rc)
	var buildErrs *execute.BuildErrors
	switch {
	case errors.As(err, &buildErrs):
		return a.failMasked("Configuration errors:", buildErrs.Errors, issue.BuildErrorsId, buildErrs.Masker())
	case err != nil:
		return err
	}

	if result.Error != nil {
		err := targetError(s, result)
		a.renderError(err)
		return &ExitError{Code: result.ExitCode, Err: err}
	}
	if result.OutputError != nil {
		err := issue.NewErrorContext().
			WithOperation("write target output").
			Wrap(result.OutputError).
			BuildError()
		a.renderError(err)
		code := result.ExitCode
		if code.IsSuccess() {
			code = 1
		}
		return &ExitError{Code: code, Err: err}
	}
	if result.ExitCode.IsNotFound() && shellWrapped(s.Target.Shell) {
		a.renderError(shellNotFoundError(s))
	}

	if !flags.quiet {
		fmt.Fprintln(a.stderr, SuccessStyle.Render("Execution completed"))
		fmt.Fprintf(a.stderr, "Exit code: %d\n", result.ExitCode)
		if a.flags.verbose {
			fmt.Fprintln(a.stderr, VerboseStyle.Render(fmt.Sprintf("Duration: %s", result.Duration)))
		}
	}

	if !result.ExitCode.IsSuccess() {
		return &ExitError{Code: result.ExitCode}
	}
	return nil
}

func (a *App) dryRun(cmd *cobra.Command, orch *execute.Orchestrator, s *spec.Spec, rc *runtime.Context, flags *runFlags) error {
	report, err := orch.DryRun(cmd.Context(), s, rc)
	if err != nil {
		return err
	}

	if flags.json {
		data, err := report.JSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, string(data))
	} else if !flags.quiet {
		fmt.Fprintln(a.stdout, TitleStyle.Render("Dry Run Report"))
		fmt.Fprintln(a.stdout, panelStyle.Render(report.Text()))
	}

	if report.Build.HasErrors() {
		return a.failMasked("Configuration errors:", report.Build.Errors, 0, report.Masker())
	}
	return nil
}

// targetError describes a target that could not be started.
func targetError(s *spec.Spec, result *runtime.Result) error {
	command := ""
	if len(s.Target.Command) > 0 {
		command = s.Target.Command[0]
	}
	ctx := issue.NewErrorContext().
		WithOperation("execute target").
		WithResource(command).
		Wrap(result.Error)
	switch {
	case errors.Is(result.Error, exec.ErrNotFound), errors.Is(result.Error, fs.ErrNotExist):
		ctx.WithIssue(issue.CommandNotFoundId)
	case errors.Is(result.Error, fs.ErrPermission):
		ctx.WithIssue(issue.PermissionDeniedId)
	}
	return ctx.BuildError()
}

func shellWrapped(shell spec.Shell) bool {
	return shell != "" && shell != spec.ShellNone
}

// shellNotFoundError describes a shell-wrapped target the shell could not find.
func shellNotFoundError(s *spec.Spec) error {
	return issue.NewErrorContext().
		WithOperation("execute target").
		WithResource(s.Target.Command[0]).
		WithIssue(issue.CommandNotFoundId).
		Wrap(fmt.Errorf("%w (%s exited with status 127)", errShellCommandNotFound, s.Target.Shell)).
		BuildError()
}
