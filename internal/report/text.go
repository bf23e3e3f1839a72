// SPDX-License-Identifier: MPL-2.0

package report

import (
	"fmt"
	"strings"
)

const ruleWidth = 50

// Text returns the plain-text configuration summary.
func (d *DryRun) Text() string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	if len(d.Providers) > 0 {
		line("Providers Loaded")
	}
	line("Configuration Summary")
	line("%s", strings.Repeat("=", ruleWidth))
	line("")

	line("Providers:")
	for _, p := range d.ProviderSummaries() {
		if p.MaskedCount > 0 {
			line("  %s: %d keys (masked: %d)", p.ID, p.KeyCount, p.MaskedCount)
		} else {
			line("  %s: %d keys", p.ID, p.KeyCount)
		}
	}
	line("")

	line("Injection Plan")
	line("Injectors:")
	for _, r := range d.Resolved {
		status := "ACTIVE"
		if r.Skipped {
			status = "SKIPPED"
		}
		if value, ok := d.displayValue(r); ok {
			line("  %s: %s = %s", r.Name(), status, value)
		} else {
			line("  %s: %s", r.Name(), status)
		}
		for _, msg := range d.maskedErrors(r.Errors) {
			line("    ERROR: %s", msg)
		}
	}
	line("")

	line("Final Invocation")
	line("Working directory: %s", d.WorkingDir)
	line("Command: %s", d.CommandLine())
	line("Environment: %d variables", len(d.Build.Env))
	line("")

	if len(d.Build.Files) > 0 {
		line("Files to be created:")
		for _, path := range d.Build.Files {
			line("  %s", path)
		}
		line("")
	}

	if len(d.Build.Errors) > 0 {
		line("Errors:")
		for _, msg := range d.maskedErrors(d.Build.Errors) {
			line("  %s", msg)
		}
		line("")
	}

	return b.String()
}
