// SPDX-License-Identifier: MPL-2.0

package spec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DefaultDelimiter splits list-typed values when an injector sets none.
const DefaultDelimiter = ","

var errInvalidScalar = errors.New("expected a string, number or boolean")

type (
	// Template is a string that may contain ${...} placeholders. Spec files
	// may also write numbers and booleans where a template is expected; they
	// are kept as their literal text.
	Template string

	// FilterRule is one step of a provider filter chain. In a spec file a
	// bare string is shorthand for an include rule.
	FilterRule struct {
		Include string `json:"include,omitempty"`
		Exclude string `json:"exclude,omitempty"`
	}

	// Provider declares a named source of key/value pairs.
	Provider struct {
		Type         ProviderType     `json:"type"`
		ID           string           `json:"id"`
		Name         string           `json:"name,omitempty"`
		Enabled      bool             `json:"enabled"`
		Passthrough  bool             `json:"passthrough"`
		Mask         bool             `json:"mask"`
		Hierarchical bool             `json:"hierarchical,omitempty"`
		Filename     string           `json:"filename,omitempty"`
		Path         string           `json:"path,omitempty"`
		Precedence   DotenvPrecedence `json:"precedence,omitempty"`
		VaultURL     Template         `json:"vault_url,omitempty"`
		AccessToken  Template         `json:"access_token,omitempty"`
		FilterChain  []FilterRule     `json:"filter_chain,omitempty"`
	}

	// Injector declares one value to deliver to the target process.
	Injector struct {
		Name       string          `json:"name"`
		Kind       InjectorKind    `json:"kind"`
		Aliases    []string        `json:"aliases,omitempty"`
		Sources    []Template      `json:"sources,omitempty"`
		Precedence ValuePrecedence `json:"precedence,omitempty"`
		Required   bool            `json:"required,omitempty"`
		Default    *Template       `json:"default,omitempty"`
		Type       ValueType       `json:"type,omitempty"`
		Sensitive  bool            `json:"sensitive,omitempty"`
		When       string          `json:"when,omitempty"`
		// Order positions a positional injector; nil for other kinds.
		Order     *int      `json:"order,omitempty"`
		Connector Connector `json:"connector,omitempty"`
		Delimiter string    `json:"delimiter,omitempty"`
	}

	// Stream configures where one output stream of the target goes.
	Stream struct {
		Path        string       `json:"path,omitempty"`
		TeeTerminal bool         `json:"tee_terminal"`
		Append      bool         `json:"append"`
		Format      StreamFormat `json:"format,omitempty"`
	}

	// Target describes the command to run.
	Target struct {
		WorkingDir string   `json:"working_dir"`
		Shell      Shell    `json:"shell"`
		Command    []string `json:"command"`
		// Stdin is a template written to the child's stdin before any
		// stdin_fragment values.
		Stdin  *Template `json:"stdin,omitempty"`
		Stdout Stream    `json:"stdout"`
		Stderr Stream    `json:"stderr"`
	}

	// Profile overrides top-level spec fields when selected with ApplyProfile.
	// Nil fields leave the base value untouched.
	Profile struct {
		Version                *string       `json:"version,omitempty"`
		EnvPassthrough         *bool         `json:"env_passthrough,omitempty"`
		DefaultLoggingFormat   *StreamFormat `json:"default_logging_format,omitempty"`
		MaskDefaults           *bool         `json:"mask_defaults,omitempty"`
		ConfigurationProviders *[]Provider   `json:"configuration_providers,omitempty"`
		ConfigurationInjectors *[]Injector   `json:"configuration_injectors,omitempty"`
		Target                 *Target       `json:"target,omitempty"`
	}

	// Spec is a complete, schema-validated configuration specification.
	Spec struct {
		Version                string             `json:"version"`
		EnvPassthrough         bool               `json:"env_passthrough"`
		DefaultLoggingFormat   StreamFormat       `json:"default_logging_format,omitempty"`
		MaskDefaults           bool               `json:"mask_defaults"`
		ConfigurationProviders []Provider         `json:"configuration_providers"`
		ConfigurationInjectors []Injector         `json:"configuration_injectors"`
		Target                 Target             `json:"target"`
		Profiles               map[string]Profile `json:"profiles,omitempty"`

		// FilePath is the file the spec was loaded from, if any.
		FilePath string `json:"-"`
	}
)

// String returns the raw template text.
func (t Template) String() string { return string(t) }

// UnmarshalJSON accepts strings, numbers and booleans.
func (t *Template) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errInvalidScalar
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Template(s)
		return nil
	case '{', '[', 'n':
		return fmt.Errorf("%w, got %s", errInvalidScalar, data)
	default:
		// Numbers and true/false keep their literal spelling.
		*t = Template(data)
		return nil
	}
}

// UnmarshalJSON accepts either a bare include pattern or an object.
func (r *FilterRule) UnmarshalJSON(data []byte) error {
	var pattern string
	if err := json.Unmarshal(data, &pattern); err == nil {
		*r = FilterRule{Include: pattern}
		return nil
	}
	type plain FilterRule
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = FilterRule(p)
	return nil
}

// EffectiveDelimiter returns Delimiter or DefaultDelimiter when unset.
func (i *Injector) EffectiveDelimiter() string {
	if i.Delimiter == "" {
		return DefaultDelimiter
	}
	return i.Delimiter
}

// EffectiveConnector returns Connector or ConnectorEquals when unset.
func (i *Injector) EffectiveConnector() Connector {
	if i.Connector == "" {
		return ConnectorEquals
	}
	return i.Connector
}

// Label returns the display name of a provider: Name when set, else ID.
func (p *Provider) Label() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// EffectiveFormat returns the stream format, falling back to def and then text.
func (s Stream) EffectiveFormat(def StreamFormat) StreamFormat {
	switch {
	case s.Format != "":
		return s.Format
	case def != "":
		return def
	default:
		return StreamFormatText
	}
}

// CommandUsesAlias reports whether any ${alias} placeholder for one of the
// given aliases appears in the target command.
func (s *Spec) CommandUsesAlias(aliases []string) bool {
	joined := strings.Join(s.Target.Command, " ")
	for _, alias := range aliases {
		if strings.Contains(joined, "${"+alias+"}") {
			return true
		}
	}
	return false
}

// Injector returns the injector with the given name.
func (s *Spec) Injector(name string) (*Injector, bool) {
	for i := range s.ConfigurationInjectors {
		if s.ConfigurationInjectors[i].Name == name {
			return &s.ConfigurationInjectors[i], true
		}
	}
	return nil, false
}
