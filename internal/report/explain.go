// SPDX-License-Identifier: MPL-2.0

package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cfgwrap/cfgwrap/internal/inject"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Injector statuses shown by Explain.
const (
	StatusResolved = "✓ Resolved"
	StatusSkipped  = "⏭ Skipped"
	StatusError    = "✗ Error"
	StatusUnset    = "- Unset"
)

const notApplicable = "N/A"

// Explain renders the providers and injectors as tables followed by the
// final command.
func (d *DryRun) Explain() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Configuration Providers"))
	b.WriteByte('\n')
	b.WriteString(d.providerTable().String())
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("Configuration Injectors"))
	b.WriteByte('\n')
	b.WriteString(d.injectorTable().String())
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("Final Command:"))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Working directory:"), d.WorkingDir)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Command:"), d.CommandLine())
	fmt.Fprintf(&b, "%s %d\n", labelStyle.Render("Environment variables:"), len(d.Build.Env))
	return b.String()
}

func (d *DryRun) providerTable() *table.Table {
	rows := make([][]string, 0, len(d.Providers))
	for _, p := range d.ProviderSummaries() {
		rows = append(rows, []string{p.ID, string(p.Type), strconv.Itoa(p.KeyCount), strconv.Itoa(p.MaskedCount)})
	}
	return newTable(providerColumnStyles, "ID", "Type", "Keys", "Masked").Rows(rows...)
}

func (d *DryRun) injectorTable() *table.Table {
	rows := make([][]string, 0, len(d.Resolved))
	for _, r := range d.Resolved {
		value, ok := d.displayValue(r)
		if !ok {
			value = notApplicable
		}
		rows = append(rows, []string{r.Name(), string(r.Kind()), injectorStatus(r), value})
	}
	return newTable(injectorColumnStyles, "Name", "Kind", "Status", "Value").Rows(rows...)
}

func injectorStatus(r *inject.ResolvedInjector) string {
	switch {
	case r.Skipped:
		return StatusSkipped
	case len(r.Errors) > 0:
		return StatusError
	case r.HasValue:
		return StatusResolved
	default:
		return StatusUnset
	}
}

func newTable(columns []lipgloss.Style, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col < len(columns) {
				return columns[col]
			}
			return cellStyle
		})
}
