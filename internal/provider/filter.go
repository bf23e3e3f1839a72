// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"fmt"
	"regexp"

	"github.com/cfgwrap/cfgwrap/internal/runtime"
	"github.com/cfgwrap/cfgwrap/pkg/spec"
)

// ApplyFilters narrows m through a filter chain. Keys accumulate from
// include matches; an exclude rule removes keys accumulated so far. Patterns
// match at the start of the key. An empty chain returns m unchanged.
func ApplyFilters(m runtime.ProviderMap, chain []spec.FilterRule) (runtime.ProviderMap, error) {
	if len(chain) == 0 {
		return m, nil
	}

	included := make(map[string]bool)
	for _, rule := range chain {
		if rule.Include != "" {
			re, err := compileAnchored(rule.Include)
			if err != nil {
				return nil, err
			}
			for key := range m {
				if re.MatchString(key) {
					included[key] = true
				}
			}
		}
		if rule.Exclude != "" {
			re, err := compileAnchored(rule.Exclude)
			if err != nil {
				return nil, err
			}
			for key := range included {
				if re.MatchString(key) {
					delete(included, key)
				}
			}
		}
	}

	out := make(runtime.ProviderMap, len(included))
	for key := range included {
		out[key] = m[key]
	}
	return out, nil
}

func compileAnchored(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, fmt.Errorf("invalid filter pattern %q: %w", pattern, err)
	}
	return re, nil
}
