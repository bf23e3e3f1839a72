// SPDX-License-Identifier: MPL-2.0

package token

import (
	"fmt"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"github.com/cfgwrap/cfgwrap/internal/runtime"

	"github.com/google/uuid"
)

const (
	prefixEnv      = "ENV:"
	prefixProvider = "PROVIDER:"
	prefixDate     = "DATE:"
	prefixTime     = "TIME:"

	tokenHome = "HOME"
	tokenPID  = "PID"
	tokenUUID = "UUID"
	tokenSeq  = "SEQ"
)

// placeholderPattern matches non-overlapping ${...} spans. Nesting is not supported.
var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

type (
	// Warning describes a placeholder that expanded to an empty string
	// because it could not be resolved.
	Warning struct {
		// Token is the placeholder content without the ${ } delimiters.
		Token string
		// Message is a human-readable description of the problem.
		Message string
	}

	// Engine expands placeholders against a runtime context and provider maps.
	// An Engine is read-only after construction; WithAliases returns a copy.
	Engine struct {
		rc        *runtime.Context
		providers runtime.ProviderMaps
		aliases   map[string]string
		newUUID   func() string
	}

	// Option configures an Engine.
	Option func(*Engine)
)

// WithUUIDFunc overrides the UUID generator. Intended for deterministic tests.
func WithUUIDFunc(fn func() string) Option {
	return func(e *Engine) {
		e.newUUID = fn
	}
}

// New creates an Engine. A nil provider map is treated as empty.
func New(rc *runtime.Context, providers runtime.ProviderMaps, opts ...Option) *Engine {
	if providers == nil {
		providers = runtime.ProviderMaps{}
	}
	e := &Engine{
		rc:        rc,
		providers: providers,
		aliases:   map[string]string{},
		newUUID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// String returns the warning message.
func (w Warning) String() string { return w.Message }

// Placeholder returns the ${name} form of a token name.
func Placeholder(name string) string {
	return "${" + name + "}"
}

// WithAliases returns a copy of the engine whose alias map is extended with
// the given alias → value entries. The receiver is left untouched.
func (e *Engine) WithAliases(aliases map[string]string) *Engine {
	clone := *e
	clone.aliases = maps.Clone(e.aliases)
	maps.Copy(clone.aliases, aliases)
	return &clone
}

// Providers returns the provider maps the engine resolves against.
func (e *Engine) Providers() runtime.ProviderMaps {
	return e.providers
}

// Expand expands every placeholder in template, discarding warnings.
func (e *Engine) Expand(template string) string {
	value, _ := e.TryExpand(template)
	return value
}

// TryExpand expands every placeholder in template left to right and returns
// the result together with warnings for placeholders that did not resolve.
// A template without placeholders is returned unchanged.
func (e *Engine) TryExpand(template string) (string, []Warning) {
	if !strings.Contains(template, "${") {
		return template, nil
	}

	var warnings []Warning
	result := placeholderPattern.ReplaceAllStringFunc(template, func(span string) string {
		content := span[2 : len(span)-1]
		value, tokenWarnings := e.expandContent(content)
		warnings = append(warnings, tokenWarnings...)
		return value
	})
	return result, warnings
}

// expandContent handles the optional "token|fallback" form.
func (e *Engine) expandContent(content string) (string, []Warning) {
	tok, fallback, hasFallback := strings.Cut(content, "|")
	if !hasFallback {
		return e.expandToken(content)
	}

	value, warnings := e.expandToken(strings.TrimSpace(tok))
	if value == "" {
		return strings.TrimSpace(fallback), warnings
	}
	return value, warnings
}

func (e *Engine) expandToken(tok string) (string, []Warning) {
	if path, ok := e.aliases[tok]; ok {
		return path, nil
	}

	switch {
	case strings.HasPrefix(tok, prefixEnv):
		name := tok[len(prefixEnv):]
		value, ok := e.rc.Env[name]
		if !ok {
			return "", warn(tok, "environment variable '%s' not found", name)
		}
		return value, nil

	case strings.HasPrefix(tok, prefixProvider):
		id, key, ok := strings.Cut(tok[len(prefixProvider):], ":")
		if !ok {
			return "", warn(tok, "invalid provider token format: %s", tok)
		}
		values, ok := e.providers[id]
		if !ok {
			return "", warn(tok, "provider '%s' not found", id)
		}
		value, ok := values[key]
		if !ok {
			return "", warn(tok, "key '%s' not found in provider '%s'", key, id)
		}
		return value, nil

	case strings.HasPrefix(tok, prefixDate):
		return e.formatNow(tok, tok[len(prefixDate):], "date")

	case strings.HasPrefix(tok, prefixTime):
		return e.formatNow(tok, tok[len(prefixTime):], "time")
	}

	switch tok {
	case tokenHome:
		return e.rc.Home, nil
	case tokenPID:
		return strconv.Itoa(e.rc.PID), nil
	case tokenUUID:
		return e.newUUID(), nil
	case tokenSeq:
		return fmt.Sprintf("%04d", e.rc.Seq), nil
	}

	return "", warn(tok, "unknown token: %s", tok)
}

func (e *Engine) formatNow(tok, layout, kind string) (string, []Warning) {
	value, err := Strftime(e.rc.Now, layout)
	if err != nil {
		return "", warn(tok, "invalid %s format '%s': %v", kind, layout, err)
	}
	return value, nil
}

func warn(tok, format string, args ...any) []Warning {
	return []Warning{{Token: tok, Message: fmt.Sprintf(format, args...)}}
}
