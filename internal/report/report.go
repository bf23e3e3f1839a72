// SPDX-License-Identifier: MPL-2.0

package report

import (
	"github.com/cfgwrap/cfgwrap/internal/build"
	"github.com/cfgwrap/cfgwrap/internal/inject"
	"github.com/cfgwrap/cfgwrap/internal/mask"
	"github.com/cfgwrap/cfgwrap/internal/runtime"
	"github.com/cfgwrap/cfgwrap/pkg/spec"
)

type (
	// DryRun is everything a resolution pass produced, without having run
	// the target.
	DryRun struct {
		Spec *spec.Spec
		// WorkingDir is the expanded target working directory.
		WorkingDir string
		Providers  runtime.ProviderMaps
		Resolved   []*inject.ResolvedInjector
		Build      *build.Result

		masker *mask.Masker
	}

	// ProviderSummary counts the keys one provider contributed.
	ProviderSummary struct {
		ID          string
		Type        spec.ProviderType
		KeyCount    int
		MaskedCount int
	}
)

// New creates a DryRun and registers the sensitive values it must hide.
func New(s *spec.Spec, workingDir string, providers runtime.ProviderMaps, resolved []*inject.ResolvedInjector, b *build.Result) *DryRun {
	return &DryRun{
		Spec:       s,
		WorkingDir: workingDir,
		Providers:  providers,
		Resolved:   resolved,
		Build:      b,
		masker:     mask.New(inject.SensitiveValues(resolved)...),
	}
}

// Mask replaces every sensitive value in text with the masked placeholder.
func (d *DryRun) Mask(text string) string {
	return d.masker.String(text)
}

// Masker returns the masker holding every sensitive value of the pass.
func (d *DryRun) Masker() *mask.Masker { return d.masker }

// ProviderSummaries lists loaded providers in declaration order.
func (d *DryRun) ProviderSummaries() []ProviderSummary {
	summaries := make([]ProviderSummary, 0, len(d.Providers))
	for _, p := range d.Spec.ConfigurationProviders {
		values, ok := d.Providers[p.ID]
		if !ok {
			continue
		}
		summary := ProviderSummary{ID: p.ID, Type: p.Type, KeyCount: len(values)}
		for _, v := range values {
			if v == mask.Placeholder {
				summary.MaskedCount++
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// displayValue returns the value to show for r. Sensitive values are always
// the placeholder; other values have embedded sensitive values masked.
func (d *DryRun) displayValue(r *inject.ResolvedInjector) (string, bool) {
	if !r.HasValue {
		return "", false
	}
	if r.Sensitive() {
		return mask.Placeholder, true
	}
	return d.masker.String(r.Value), true
}

func (d *DryRun) maskedErrors(errs []error) []string {
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = d.masker.String(err.Error())
	}
	return out
}

// CommandLine renders the final argv with sensitive values masked.
func (d *DryRun) CommandLine() string {
	return runtime.CommandLine(d.masker.Strings(d.Build.Argv))
}
