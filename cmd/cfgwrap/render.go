// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"

	"github.com/cfgwrap/cfgwrap/internal/app/execute"
	"github.com/cfgwrap/cfgwrap/internal/issue"
	"github.com/cfgwrap/cfgwrap/internal/mask"
	"github.com/cfgwrap/cfgwrap/internal/provider"
	"github.com/cfgwrap/cfgwrap/pkg/spec"

	"github.com/spf13/cobra"
)

type runFunc func(cmd *cobra.Command, args []string) error

// runE adapts a handler so that every failure is rendered exactly once and
// surfaces to Execute as an ExitError.
func (a *App) runE(fn runFunc) runFunc {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil {
			return nil
		}
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return err
		}
		a.renderError(err)
		return &ExitError{Code: 1, Err: err}
	}
}

// renderError prints err and, when it maps to a catalog entry, the entry's
// guidance rendered for the terminal.
func (a *App) renderError(err error) {
	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error:")+" "+formatErrorForDisplay(err, a.flags.verbose))

	id := classifyError(err)
	if id == 0 {
		return
	}
	rendered, renderErr := issue.Get(id).Render(a.glamourStyle())
	if renderErr != nil {
		a.logger.Debug("failed to render issue", "issue", id, "error", renderErr)
		return
	}
	fmt.Fprint(a.stderr, rendered)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// classifyError maps an error to a catalog entry, or 0 when none applies.
// An explicit issue on an ActionableError wins over the error chain.
func classifyError(err error) issue.Id {
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.IssueID != 0 {
		return ae.IssueID
	}

	var loadErr *provider.LoadError
	switch {
	case errors.Is(err, execute.ErrBuild):
		return issue.BuildErrorsId
	case errors.Is(err, spec.ErrProfileNotFound):
		return issue.ProfileNotFoundId
	case errors.Is(err, spec.ErrInvalidSpec):
		return issue.SpecInvalidId
	case errors.As(err, &loadErr):
		if errors.Is(loadErr, exec.ErrNotFound) {
			return issue.SecretsCLINotFoundId
		}
		return issue.ProviderLoadFailedId
	case errors.Is(err, execute.ErrStreams):
		return issue.StreamOpenFailedId
	case errors.Is(err, fs.ErrPermission):
		return issue.PermissionDeniedId
	}
	return 0
}

// fail prints a titled bullet list to stderr and returns an ExitError
// carrying code 1 and the joined errors.
func (a *App) fail(title string, errs []error, id issue.Id) error {
	return a.failMasked(title, errs, id, nil)
}

// failMasked is fail with every message passed through masker first.
func (a *App) failMasked(title string, errs []error, id issue.Id, masker *mask.Masker) error {
	var b strings.Builder
	b.WriteString(ErrorStyle.Render(title))
	for _, err := range errs {
		b.WriteString("\n  • ")
		b.WriteString(masker.String(err.Error()))
	}
	fmt.Fprintln(a.stderr, b.String())

	if id != 0 {
		if rendered, err := issue.Get(id).Render(a.glamourStyle()); err == nil {
			fmt.Fprint(a.stderr, rendered)
		}
	}
	return &ExitError{Code: 1, Err: errors.Join(errs...)}
}
