// SPDX-License-Identifier: MPL-2.0

package spec

import (
	"errors"
	"strings"
	"testing"
)

func intPtr(i int) *int { return &i }

func baseSpec() *Spec {
	return &Spec{
		Version: "1",
		Target: Target{
			WorkingDir: ".",
			Shell:      ShellNone,
			Command:    []string{"echo"},
		},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*Spec)
		strict    bool
		wantError string
	}{
		{
			name:   "valid empty spec",
			mutate: func(*Spec) {},
		},
		{
			name: "duplicate provider id",
			mutate: func(s *Spec) {
				s.ConfigurationProviders = []Provider{
					{Type: ProviderEnv, ID: "env"},
					{Type: ProviderEnv, ID: "env"},
				}
			},
			wantError: "Duplicate provider ID: 'env'",
		},
		{
			name: "duplicate injector name",
			mutate: func(s *Spec) {
				s.ConfigurationInjectors = []Injector{
					{Name: "a", Kind: KindEnvVar, Aliases: []string{"A"}},
					{Name: "a", Kind: KindEnvVar, Aliases: []string{"B"}},
				}
			},
			wantError: "Duplicate injector name: 'a'",
		},
		{
			name: "lowercase env alias",
			mutate: func(s *Spec) {
				s.ConfigurationInjectors = []Injector{{Name: "a", Kind: KindEnvVar, Aliases: []string{"lower"}}}
			},
			wantError: "Invalid env_var alias 'lower' for injector 'a'",
		},
		{
			name: "env alias starting with digit",
			mutate: func(s *Spec) {
				s.ConfigurationInjectors = []Injector{{Name: "a", Kind: KindEnvVar, Aliases: []string{"1ABC"}}}
			},
			wantError: "Must be uppercase with underscores",
		},
		{
			name: "named alias without dash",
			mutate: func(s *Spec) {
				s.ConfigurationInjectors = []Injector{{Name: "n", Kind: KindNamed, Aliases: []string{"port"}}}
			},
			wantError: "Must start with - or --",
		},
		{
			name: "long alias too short",
			mutate: func(s *Spec) {
				s.ConfigurationInjectors = []Injector{{Name: "n", Kind: KindNamed, Aliases: []string{"--p"}}}
			},
			wantError: "Long form (--) must have at least 2 characters after --",
		},
		{
			name: "short alias too long",
			mutate: func(s *Spec) {
				s.ConfigurationInjectors = []Injector{{Name: "n", Kind: KindNamed, Aliases: []string{"-pp"}}}
			},
			wantError: "Short form (-) must be exactly 2 characters",
		},
		{
			name: "valid named aliases",
			mutate: func(s *Spec) {
				s.ConfigurationInjectors = []Injector{{Name: "n", Kind: KindNamed, Aliases: []string{"-p", "--port"}}}
			},
		},
		{
			name: "positional without order",
			mutate: func(s *Spec) {
				s.ConfigurationInjectors = []Injector{{Name: "p", Kind: KindPositional}}
			},
			wantError: "Positional injector 'p' must have an order value",
		},
		{
			name: "duplicate positional order",
			mutate: func(s *Spec) {
				s.ConfigurationInjectors = []Injector{
					{Name: "a", Kind: KindPositional, Order: intPtr(0)},
					{Name: "b", Kind: KindPositional, Order: intPtr(0)},
				}
			},
			wantError: "Positional injectors must have unique order values",
		},
		{
			name: "gap in positional order",
			mutate: func(s *Spec) {
				s.ConfigurationInjectors = []Injector{
					{Name: "a", Kind: KindPositional, Order: intPtr(0)},
					{Name: "b", Kind: KindPositional, Order: intPtr(2)},
				}
			},
			wantError: "found: [0 2], expected: [0 1 2]",
		},
		{
			name: "sequential positional order starting at one",
			mutate: func(s *Spec) {
				s.ConfigurationInjectors = []Injector{
					{Name: "b", Kind: KindPositional, Order: intPtr(2)},
					{Name: "a", Kind: KindPositional, Order: intPtr(1)},
				}
			},
		},
		{
			name: "bad filter regex",
			mutate: func(s *Spec) {
				s.ConfigurationProviders = []Provider{{
					Type: ProviderEnv, ID: "env",
					FilterChain: []FilterRule{{Include: "("}},
				}}
			},
			wantError: "Invalid regex pattern '(' in provider 'env'",
		},
		{
			name: "unknown kind",
			mutate: func(s *Spec) {
				s.ConfigurationInjectors = []Injector{{Name: "x", Kind: "magic"}}
			},
			wantError: `invalid injector kind "magic"`,
		},
		{
			name: "strict requires aliases",
			mutate: func(s *Spec) {
				s.ConfigurationInjectors = []Injector{{Name: "x", Kind: KindEnvVar, Sources: []Template{"v"}}}
			},
			strict:    true,
			wantError: "Injector 'x' should have at least one alias",
		},
		{
			name: "strict requires sources",
			mutate: func(s *Spec) {
				s.ConfigurationInjectors = []Injector{{Name: "x", Kind: KindEnvVar, Aliases: []string{"X"}}}
			},
			strict:    true,
			wantError: "Injector 'x' should have at least one source",
		},
		{
			name: "strict allows stdin fragment without alias",
			mutate: func(s *Spec) {
				s.ConfigurationInjectors = []Injector{{Name: "x", Kind: KindStdinFragment, Sources: []Template{"v"}}}
			},
			strict: true,
		},
		{
			name: "non-strict ignores missing alias",
			mutate: func(s *Spec) {
				s.ConfigurationInjectors = []Injector{{Name: "x", Kind: KindEnvVar}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := baseSpec()
			tt.mutate(s)
			errs := Validate(s, tt.strict)

			if tt.wantError == "" {
				if len(errs) != 0 {
					t.Fatalf("Validate() = %v, want no errors", errs)
				}
				return
			}

			var found bool
			for _, err := range errs {
				if strings.Contains(err.Error(), tt.wantError) {
					found = true
				}
			}
			if !found {
				t.Fatalf("Validate() = %v, want an error containing %q", errs, tt.wantError)
			}
		})
	}
}

func TestValidationErrorWrapsSentinel(t *testing.T) {
	t.Parallel()

	s := baseSpec()
	s.ConfigurationInjectors = []Injector{{Name: "p", Kind: KindPositional}}

	errs := Validate(s, false)
	if len(errs) != 1 {
		t.Fatalf("Validate() = %v, want exactly one error", errs)
	}
	if !errors.Is(errs[0], ErrInvalidSpec) {
		t.Errorf("error %v does not wrap ErrInvalidSpec", errs[0])
	}
}
