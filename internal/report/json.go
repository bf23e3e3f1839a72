// SPDX-License-Identifier: MPL-2.0

package report

import (
	"encoding/json"

	"github.com/cfgwrap/cfgwrap/pkg/spec"
)

type (
	// Summary is the structured dry-run document.
	Summary struct {
		Spec       SpecSummary               `json:"spec"`
		Providers  map[string]ProviderCounts `json:"providers"`
		Injections []InjectionSummary        `json:"injections"`
		Build      BuildSummary              `json:"build"`
	}

	// SpecSummary identifies the spec that was resolved.
	SpecSummary struct {
		Version    string   `json:"version"`
		WorkingDir string   `json:"working_dir"`
		Command    []string `json:"command"`
	}

	// ProviderCounts is the per-provider entry of Summary.
	ProviderCounts struct {
		KeyCount    int `json:"key_count"`
		MaskedCount int `json:"masked_count"`
	}

	// InjectionSummary describes one injector that was not skipped.
	InjectionSummary struct {
		Name      string            `json:"name"`
		Kind      spec.InjectorKind `json:"kind"`
		Skipped   bool              `json:"skipped"`
		Sensitive bool              `json:"sensitive"`
		// Value is null when the injector resolved nothing.
		Value    *string  `json:"value"`
		Resolved bool     `json:"resolved"`
		Errors   []string `json:"errors"`
	}

	// BuildSummary describes the assembled invocation.
	BuildSummary struct {
		EnvCount   int      `json:"env_count"`
		Argv       []string `json:"argv"`
		FileCount  int      `json:"file_count"`
		ErrorCount int      `json:"error_count"`
		EnvKeys    []string `json:"env_keys"`
	}
)

// Summary builds the structured document. Skipped injectors are omitted.
func (d *DryRun) Summary() Summary {
	summary := Summary{
		Spec: SpecSummary{
			Version:    d.Spec.Version,
			WorkingDir: d.Spec.Target.WorkingDir,
			Command:    d.masker.Strings(d.Spec.Target.Command),
		},
		Providers:  make(map[string]ProviderCounts, len(d.Providers)),
		Injections: []InjectionSummary{},
		Build: BuildSummary{
			EnvCount:   len(d.Build.Env),
			Argv:       d.masker.Strings(d.Build.Argv),
			FileCount:  len(d.Build.Files),
			ErrorCount: len(d.Build.Errors),
			EnvKeys:    d.Build.EnvKeys(),
		},
	}

	for _, p := range d.ProviderSummaries() {
		summary.Providers[p.ID] = ProviderCounts{KeyCount: p.KeyCount, MaskedCount: p.MaskedCount}
	}

	for _, r := range d.Resolved {
		if r.Skipped {
			continue
		}
		entry := InjectionSummary{
			Name:      r.Name(),
			Kind:      r.Kind(),
			Sensitive: r.Sensitive(),
			Resolved:  true,
			Errors:    d.maskedErrors(r.Errors),
		}
		if value, ok := d.displayValue(r); ok {
			entry.Value = &value
		}
		summary.Injections = append(summary.Injections, entry)
	}
	return summary
}

// JSON returns the indented structured summary.
func (d *DryRun) JSON() ([]byte, error) {
	return json.MarshalIndent(d.Summary(), "", "  ")
}
