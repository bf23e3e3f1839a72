// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExplainCommand(app *App) *cobra.Command {
	flags := &specFlags{}
	cmd := &cobra.Command{
		Use:   "explain SPEC",
		Short: "Show where every injected value comes from",
		Long: `Resolve SPEC without running the target and print one table of providers
and one table of injectors, showing each injector's source, value (masked
when sensitive) and status.`,
		Args: cobra.ExactArgs(1),
	}
	cmd.RunE = app.runE(func(cmd *cobra.Command, args []string) error {
		s, err := app.loadSpec(args[0], flags)
		if err != nil {
			return err
		}
		report, err := app.orchestrator(false).DryRun(cmd.Context(), s, app.runtimeContext())
		if err != nil {
			return err
		}
		fmt.Fprintln(app.stdout, report.Explain())
		return nil
	})
	flags.addProfileFlag(cmd)

	return cmd
}
