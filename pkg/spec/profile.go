// SPDX-License-Identifier: MPL-2.0

package spec

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	// ErrNoProfiles is returned by ApplyProfile when the spec defines no
	// profiles at all. Callers usually report it as a warning.
	ErrNoProfiles = errors.New("no profiles defined in spec")

	// ErrProfileNotFound is the sentinel wrapped by ProfileNotFoundError.
	ErrProfileNotFound = errors.New("profile not found")
)

// ProfileNotFoundError is returned when the requested profile does not exist.
type ProfileNotFoundError struct {
	Name      string
	Available []string
}

// Error implements the error interface.
func (e *ProfileNotFoundError) Error() string {
	return fmt.Sprintf("profile '%s' not found in spec", e.Name)
}

// Unwrap returns ErrProfileNotFound for errors.Is() compatibility.
func (e *ProfileNotFoundError) Unwrap() error { return ErrProfileNotFound }

// ApplyProfile overlays the named profile's fields onto the spec.
// Fields the profile leaves unset keep their base values.
func (s *Spec) ApplyProfile(name string) error {
	if len(s.Profiles) == 0 {
		return ErrNoProfiles
	}

	p, ok := s.Profiles[name]
	if !ok {
		return &ProfileNotFoundError{Name: name, Available: slices.Sorted(maps.Keys(s.Profiles))}
	}

	if p.Version != nil {
		s.Version = *p.Version
	}
	if p.EnvPassthrough != nil {
		s.EnvPassthrough = *p.EnvPassthrough
	}
	if p.DefaultLoggingFormat != nil {
		s.DefaultLoggingFormat = *p.DefaultLoggingFormat
	}
	if p.MaskDefaults != nil {
		s.MaskDefaults = *p.MaskDefaults
	}
	if p.ConfigurationProviders != nil {
		s.ConfigurationProviders = slices.Clone(*p.ConfigurationProviders)
	}
	if p.ConfigurationInjectors != nil {
		s.ConfigurationInjectors = slices.Clone(*p.ConfigurationInjectors)
	}
	if p.Target != nil {
		s.Target = *p.Target
	}
	return nil
}

// ProfileNames returns the defined profile names in sorted order.
func (s *Spec) ProfileNames() []string {
	return slices.Sorted(maps.Keys(s.Profiles))
}
