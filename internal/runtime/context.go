// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"maps"
	"os"
	"slices"
	"strings"
	"time"
)

// ExtraWorkingDir is the Extra key carrying the target working directory.
// Providers resolve relative dotenv files against it.
const ExtraWorkingDir = "working_dir"

type (
	// ProviderMap is one provider's key/value snapshot.
	ProviderMap map[string]string

	// ProviderMaps maps provider ids to their materialized values. It is
	// treated as immutable for the duration of one resolution pass.
	ProviderMaps map[string]ProviderMap

	// Context is the per-invocation runtime snapshot used for token expansion
	// and provider resolution. Only Seq is mutated after construction, and
	// only through NextSeq.
	Context struct {
		// Env is the environment snapshot (unique keys).
		Env map[string]string
		// Now is the invocation timestamp used by DATE/TIME tokens.
		Now time.Time
		// PID is the wrapper's process id.
		PID int
		// Home is the user's home directory.
		Home string
		// Seq is the per-invocation sequence counter, starting at 1.
		Seq int
		// Extra carries collaborator-supplied values such as the working directory.
		Extra map[string]string
	}

	// ContextOptions configures NewContext. Zero values sample the host.
	ContextOptions struct {
		// Env replaces the host environment snapshot when non-nil.
		Env map[string]string
		// Environ returns the host environment as "KEY=VALUE" strings.
		// When nil, os.Environ() is used.
		Environ func() []string
		// Now returns the current time. When nil, time.Now is used.
		Now func() time.Time
		// Home overrides the home directory lookup when set.
		Home string
		// Seq is the initial sequence value. Values below 1 start at 1.
		Seq int
		// WorkingDir is stored under ExtraWorkingDir when set.
		WorkingDir string
	}
)

// NewContext samples the environment, clock, process id, and home directory.
func NewContext(opts ContextOptions) *Context {
	env := opts.Env
	if env == nil {
		environ := opts.Environ
		if environ == nil {
			environ = os.Environ
		}
		env = EnvFromSlice(environ())
	} else {
		env = maps.Clone(env)
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	home := opts.Home
	if home == "" {
		if h, err := os.UserHomeDir(); err == nil {
			home = h
		}
	}

	seq := opts.Seq
	if seq < 1 {
		seq = 1
	}

	extra := make(map[string]string)
	if opts.WorkingDir != "" {
		extra[ExtraWorkingDir] = opts.WorkingDir
	}

	return &Context{
		Env:   env,
		Now:   now(),
		PID:   os.Getpid(),
		Home:  home,
		Seq:   seq,
		Extra: extra,
	}
}

// NextSeq increments the sequence counter and returns the new value.
func (c *Context) NextSeq() int {
	c.Seq++
	return c.Seq
}

// WorkingDir returns the working directory recorded in Extra, or "".
func (c *Context) WorkingDir() string {
	return c.Extra[ExtraWorkingDir]
}

// EnvFromSlice converts "KEY=VALUE" entries into a map.
// Entries without a separator are skipped; later duplicates win.
func EnvFromSlice(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, entry := range environ {
		// Windows has hidden entries like "=C:=C:\" that start with '='.
		idx := strings.IndexByte(entry[min(1, len(entry)):], '=')
		if idx == -1 {
			continue
		}
		idx += min(1, len(entry))
		env[entry[:idx]] = entry[idx+1:]
	}
	return env
}

// EnvToSlice converts an environment map into "KEY=VALUE" entries sorted by
// key. The result is never nil, so an empty map yields an empty environment
// rather than an inherited one when assigned to exec.Cmd.Env.
func EnvToSlice(env map[string]string) []string {
	result := make([]string, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		result = append(result, k+"="+env[k])
	}
	return result
}
