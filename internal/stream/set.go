// SPDX-License-Identifier: MPL-2.0

package stream

import (
	"errors"
	"io"

	"github.com/cfgwrap/cfgwrap/internal/mask"
	"github.com/cfgwrap/cfgwrap/internal/token"
	"github.com/cfgwrap/cfgwrap/pkg/spec"
)

// Set holds the stdout and stderr writers of one target.
type Set struct {
	Stdout *Writer
	Stderr *Writer
}

// OpenTarget prepares and opens both streams of a target. On failure any
// writer already opened is closed.
func OpenTarget(t spec.Target, engine *token.Engine, defaultFormat spec.StreamFormat, masker *mask.Masker, termOut, termErr io.Writer, opts ...Option) (*Set, error) {
	outCfg, err := Prepare(Stdout, t.Stdout, engine, defaultFormat)
	if err != nil {
		return nil, err
	}
	errCfg, err := Prepare(Stderr, t.Stderr, engine, defaultFormat)
	if err != nil {
		return nil, err
	}

	stdout, err := Open(outCfg, termOut, masker, opts...)
	if err != nil {
		return nil, err
	}
	stderr, err := Open(errCfg, termErr, masker, opts...)
	if err != nil {
		_ = stdout.Close()
		return nil, err
	}
	return &Set{Stdout: stdout, Stderr: stderr}, nil
}

// Close closes both writers.
func (s *Set) Close() error {
	return errors.Join(s.Stdout.Close(), s.Stderr.Close())
}

// Paths returns the file paths of stdout and stderr, empty when unset.
func (s *Set) Paths() (stdout, stderr string) {
	return s.Stdout.Config().Path, s.Stderr.Config().Path
}
