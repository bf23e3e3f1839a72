// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/cfgwrap/cfgwrap/pkg/spec"

	"github.com/spf13/cobra"
)

const (
	schemaFormatJSON = "json"
	schemaFormatCUE  = "cue"
)

func newSchemaCommand(app *App) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the spec file schema",
		Long: `Print the schema that spec files are validated against, either as a JSON
Schema document (the default) or as the CUE definition cfgwrap embeds.`,
		Args: cobra.NoArgs,
	}
	cmd.RunE = app.runE(func(cmd *cobra.Command, args []string) error {
		switch format {
		case schemaFormatJSON:
			data, err := spec.JSONSchema()
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, string(data))
		case schemaFormatCUE:
			fmt.Fprint(app.stdout, string(spec.Schema()))
		default:
			return fmt.Errorf("unknown schema format %q (expected %s or %s)", format, schemaFormatJSON, schemaFormatCUE)
		}
		return nil
	})
	cmd.Flags().StringVar(&format, "format", schemaFormatJSON, "output format (json, cue)")

	return cmd
}
