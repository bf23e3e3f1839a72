// SPDX-License-Identifier: MPL-2.0

// Package mask hides sensitive values in text before it reaches a terminal,
// a log file or a report.
package mask

import (
	"cmp"
	"slices"
	"strings"
	"sync"
)

// Placeholder replaces every masked value.
const Placeholder = "<masked>"

// Masker replaces registered values with Placeholder. It is safe for
// concurrent use; stdout and stderr copiers share one Masker.
type Masker struct {
	mu     sync.RWMutex
	values []string
}

// New returns a Masker with the given values registered.
func New(values ...string) *Masker {
	m := &Masker{}
	m.Add(values...)
	return m
}

// Add registers values. Empty values and duplicates are ignored.
func (m *Masker) Add(values ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, v := range values {
		if v == "" || slices.Contains(m.values, v) {
			continue
		}
		m.values = append(m.values, v)
	}
	// Longest first, so a value containing another is replaced whole.
	slices.SortStableFunc(m.values, func(a, b string) int {
		return cmp.Compare(len(b), len(a))
	})
}

// Len returns the number of registered values.
func (m *Masker) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// String returns s with every registered value replaced.
func (m *Masker) String(s string) string {
	if m == nil {
		return s
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, v := range m.values {
		s = strings.ReplaceAll(s, v, Placeholder)
	}
	return s
}

// Strings masks every element of ss into a new slice.
func (m *Masker) Strings(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = m.String(s)
	}
	return out
}

// Bytes returns b with every registered value replaced. b is returned
// unchanged when nothing is registered.
func (m *Masker) Bytes(b []byte) []byte {
	if m == nil || m.Len() == 0 {
		return b
	}
	return []byte(m.String(string(b)))
}
