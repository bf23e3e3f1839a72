// SPDX-License-Identifier: MPL-2.0

package spec

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// ErrInvalidSpec is the sentinel wrapped by every ValidationError.
var ErrInvalidSpec = errors.New("invalid spec")

var envVarAliasPattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// ValidationError is one semantic problem found by Validate.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string { return e.Message }

// Unwrap returns ErrInvalidSpec for errors.Is() compatibility.
func (e *ValidationError) Unwrap() error { return ErrInvalidSpec }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Validate checks the rules the schema cannot express: unique provider ids
// and injector names, alias syntax, positional ordering and filter patterns.
// Strict mode also requires every injector to declare aliases (except
// stdin fragments) and sources. An empty result means the spec is valid.
func Validate(s *Spec, strict bool) []error {
	var errs []error
	errs = append(errs, validateEnums(s)...)
	errs = append(errs, validateUniqueProviderIDs(s)...)
	errs = append(errs, validateUniqueInjectorNames(s)...)
	errs = append(errs, validateAliasSyntax(s)...)
	errs = append(errs, validatePositionalOrdering(s)...)
	errs = append(errs, validateFilterChains(s)...)
	if strict {
		errs = append(errs, validateStrict(s)...)
	}
	return errs
}

// validateEnums re-checks enum fields for specs built in code rather than
// loaded through the schema.
func validateEnums(s *Spec) []error {
	var errs []error
	collect := func(_ bool, fieldErrs []error) {
		errs = append(errs, fieldErrs...)
	}

	for i := range s.ConfigurationProviders {
		p := &s.ConfigurationProviders[i]
		collect(p.Type.IsValid())
		collect(p.Precedence.IsValid())
	}
	for i := range s.ConfigurationInjectors {
		inj := &s.ConfigurationInjectors[i]
		collect(inj.Kind.IsValid())
		collect(inj.Type.IsValid())
		collect(inj.EffectiveConnector().IsValid())
	}
	if s.Target.Shell != "" {
		collect(s.Target.Shell.IsValid())
	}
	collect(s.Target.Stdout.Format.IsValid())
	collect(s.Target.Stderr.Format.IsValid())
	collect(s.DefaultLoggingFormat.IsValid())
	return errs
}

func validateUniqueProviderIDs(s *Spec) []error {
	var errs []error
	seen := make(map[string]bool)
	for _, p := range s.ConfigurationProviders {
		if seen[p.ID] {
			errs = append(errs, invalid("Duplicate provider ID: '%s'", p.ID))
			continue
		}
		seen[p.ID] = true
	}
	return errs
}

func validateUniqueInjectorNames(s *Spec) []error {
	var errs []error
	seen := make(map[string]bool)
	for _, inj := range s.ConfigurationInjectors {
		if seen[inj.Name] {
			errs = append(errs, invalid("Duplicate injector name: '%s'", inj.Name))
			continue
		}
		seen[inj.Name] = true
	}
	return errs
}

func validateAliasSyntax(s *Spec) []error {
	var errs []error
	for _, inj := range s.ConfigurationInjectors {
		switch inj.Kind {
		case KindEnvVar:
			for _, alias := range inj.Aliases {
				if !envVarAliasPattern.MatchString(alias) {
					errs = append(errs, invalid(
						"Invalid env_var alias '%s' for injector '%s'. Must be uppercase with underscores and start with a letter.",
						alias, inj.Name))
				}
			}
		case KindNamed:
			for _, alias := range inj.Aliases {
				if err := checkNamedAlias(alias, inj.Name); err != nil {
					errs = append(errs, err)
				}
			}
		}
	}
	return errs
}

func checkNamedAlias(alias, injector string) error {
	switch {
	case !strings.HasPrefix(alias, "-"):
		return invalid("Invalid named alias '%s' for injector '%s'. Must start with - or --", alias, injector)
	case strings.HasPrefix(alias, "--"):
		if len(alias) <= 3 {
			return invalid("Invalid named alias '%s' for injector '%s'. Long form (--) must have at least 2 characters after --", alias, injector)
		}
	case len(alias) != 2:
		return invalid("Invalid named alias '%s' for injector '%s'. Short form (-) must be exactly 2 characters", alias, injector)
	}
	return nil
}

// validatePositionalOrdering requires every positional injector to have an
// order, and the orders to be unique and form a gapless range.
func validatePositionalOrdering(s *Spec) []error {
	var errs []error
	var orders []int
	for _, inj := range s.ConfigurationInjectors {
		if inj.Kind != KindPositional {
			continue
		}
		if inj.Order == nil {
			errs = append(errs, invalid("Positional injector '%s' must have an order value", inj.Name))
			continue
		}
		orders = append(orders, *inj.Order)
	}
	if len(orders) == 0 {
		return errs
	}

	unique := slices.Clone(orders)
	slices.Sort(unique)
	unique = slices.Compact(unique)
	if len(unique) != len(orders) {
		errs = append(errs, invalid("Positional injectors must have unique order values"))
	}

	lo, hi := unique[0], unique[len(unique)-1]
	if len(unique) != hi-lo+1 {
		expected := make([]int, 0, hi-lo+1)
		for i := lo; i <= hi; i++ {
			expected = append(expected, i)
		}
		errs = append(errs, invalid(
			"Positional injectors must have sequential order values (found: %v, expected: %v)", unique, expected))
	}
	return errs
}

func validateFilterChains(s *Spec) []error {
	var errs []error
	for _, p := range s.ConfigurationProviders {
		for _, rule := range p.FilterChain {
			for _, pattern := range []string{rule.Include, rule.Exclude} {
				if pattern == "" {
					continue
				}
				if _, err := regexp.Compile(pattern); err != nil {
					errs = append(errs, invalid("Invalid regex pattern '%s' in provider '%s': %v", pattern, p.ID, err))
				}
			}
		}
	}
	return errs
}

func validateStrict(s *Spec) []error {
	var errs []error
	for _, inj := range s.ConfigurationInjectors {
		if len(inj.Aliases) == 0 && inj.Kind != KindStdinFragment {
			errs = append(errs, invalid("Injector '%s' should have at least one alias", inj.Name))
		}
		if len(inj.Sources) == 0 {
			errs = append(errs, invalid("Injector '%s' should have at least one source", inj.Name))
		}
	}
	return errs
}
