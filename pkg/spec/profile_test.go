// SPDX-License-Identifier: MPL-2.0

package spec

import (
	"errors"
	"testing"
)

func TestApplyProfile(t *testing.T) {
	t.Parallel()

	passthrough := true
	prodTarget := Target{WorkingDir: "/srv", Shell: ShellBash, Command: []string{"serve"}}
	injectors := []Injector{{Name: "db", Kind: KindEnvVar, Aliases: []string{"DB"}}}

	s := baseSpec()
	s.ConfigurationInjectors = []Injector{{Name: "base", Kind: KindEnvVar}}
	s.Profiles = map[string]Profile{
		"prod": {
			EnvPassthrough:         &passthrough,
			ConfigurationInjectors: &injectors,
			Target:                 &prodTarget,
		},
		"dev": {},
	}

	if err := s.ApplyProfile("prod"); err != nil {
		t.Fatalf("ApplyProfile() error = %v", err)
	}

	if !s.EnvPassthrough {
		t.Error("env_passthrough should be overridden")
	}
	if s.Version != "1" {
		t.Errorf("version = %q, unset profile fields must keep base values", s.Version)
	}
	if len(s.ConfigurationInjectors) != 1 || s.ConfigurationInjectors[0].Name != "db" {
		t.Errorf("injectors = %+v", s.ConfigurationInjectors)
	}
	if s.Target.WorkingDir != "/srv" || s.Target.Shell != ShellBash {
		t.Errorf("target = %+v", s.Target)
	}
}

func TestApplyProfileErrors(t *testing.T) {
	t.Parallel()

	s := baseSpec()
	if err := s.ApplyProfile("prod"); !errors.Is(err, ErrNoProfiles) {
		t.Errorf("ApplyProfile() without profiles = %v, want ErrNoProfiles", err)
	}

	s.Profiles = map[string]Profile{"b": {}, "a": {}}
	err := s.ApplyProfile("prod")
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("ApplyProfile(unknown) = %v, want ErrProfileNotFound", err)
	}
	if err.Error() != "profile 'prod' not found in spec" {
		t.Errorf("message = %q", err.Error())
	}

	var notFound *ProfileNotFoundError
	if !errors.As(err, &notFound) || len(notFound.Available) != 2 || notFound.Available[0] != "a" {
		t.Errorf("available = %+v", notFound)
	}
}
