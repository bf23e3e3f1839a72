// SPDX-License-Identifier: MPL-2.0

package inject

import (
	"fmt"
	"slices"

	"github.com/cfgwrap/cfgwrap/pkg/spec"
)

type (
	// ResolvedInjector is the outcome of running one injector through the
	// condition gate, value resolution, coercion and materialization.
	//
	// A skipped injector has no value, no effects and no errors. A
	// non-skipped injector without errors either has no value or holds a
	// successfully coerced value.
	ResolvedInjector struct {
		Injector *spec.Injector

		// Value is the coerced value. It is meaningful only when HasValue is set.
		Value    string
		HasValue bool

		// FromDefault reports that Value came from the injector default
		// rather than one of its sources.
		FromDefault bool

		AppliedAliases []string
		ArgvSegments   []string
		EnvUpdates     map[string]string
		FilesCreated   []string

		Skipped bool
		Errors  []error

		// rawValue is the resolved value before coercion.
		rawValue string
	}

	// InjectorError attributes a resolution failure to an injector.
	InjectorError struct {
		Injector string
		Err      error
	}
)

// Error implements the error interface.
func (e *InjectorError) Error() string {
	return fmt.Sprintf("%s for injector '%s'", e.Err, e.Injector)
}

// Unwrap returns the underlying failure.
func (e *InjectorError) Unwrap() error { return e.Err }

// Name returns the injector name.
func (r *ResolvedInjector) Name() string { return r.Injector.Name }

// Kind returns the injector kind.
func (r *ResolvedInjector) Kind() spec.InjectorKind { return r.Injector.Kind }

// Sensitive reports whether the value must be masked in output.
func (r *ResolvedInjector) Sensitive() bool { return r.Injector.Sensitive }

// OK reports whether the injector contributes effects: it was not skipped,
// recorded no errors and produced a value.
func (r *ResolvedInjector) OK() bool {
	return !r.Skipped && len(r.Errors) == 0 && r.HasValue
}

func (r *ResolvedInjector) addError(err error) {
	r.Errors = append(r.Errors, &InjectorError{Injector: r.Injector.Name, Err: err})
}

// Errors flattens the errors of every resolved injector in order.
func Errors(resolved []*ResolvedInjector) []error {
	var errs []error
	for _, r := range resolved {
		errs = append(errs, r.Errors...)
	}
	return errs
}

// Files returns every ephemeral file created across the resolved injectors.
func Files(resolved []*ResolvedInjector) []string {
	var files []string
	for _, r := range resolved {
		files = append(files, r.FilesCreated...)
	}
	return files
}

// SensitiveValues returns the non-empty values of sensitive injectors,
// both coerced and as resolved before coercion. A sensitive injector whose
// coercion failed still contributes its raw value. These are the strings
// output masking must hide.
func SensitiveValues(resolved []*ResolvedInjector) []string {
	var values []string
	for _, r := range resolved {
		if !r.Sensitive() {
			continue
		}
		for _, v := range []string{r.Value, r.rawValue} {
			if v == "" || slices.Contains(values, v) {
				continue
			}
			values = append(values, v)
		}
	}
	return values
}
