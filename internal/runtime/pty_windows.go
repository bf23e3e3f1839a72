// SPDX-License-Identifier: MPL-2.0

//go:build windows

package runtime

import (
	"errors"
	"io"
	"os/exec"
)

// ErrPTYUnsupported is returned for TTY requests on Windows.
var ErrPTYUnsupported = errors.New("pseudo-terminal execution is not supported on windows")

func runPTY(_ *exec.Cmd, _ io.Reader, _ io.Writer) error {
	return &spawnError{err: ErrPTYUnsupported}
}
