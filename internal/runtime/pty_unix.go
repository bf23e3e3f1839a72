// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package runtime

import (
	"io"
	"os/exec"
	"sync"

	"github.com/creack/pty"
)

// eot ends terminal input once a stdin payload has been written.
const eot = 0x04

// runPTY starts cmd on a pseudo-terminal and copies the terminal output to
// stdout until the child exits.
func runPTY(cmd *exec.Cmd, input io.Reader, stdout io.Writer) error {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return &spawnError{err: err}
	}
	defer func() { _ = ptmx.Close() }()

	if input != nil {
		// Not joined: an interactive reader may block past the child's exit.
		go func() {
			if _, copyErr := io.Copy(ptmx, input); copyErr == nil {
				_, _ = ptmx.Write([]byte{eot})
			}
		}()
	}

	var wg sync.WaitGroup
	// Reads end with EIO once the child side of the terminal is closed.
	wg.Go(func() { _, _ = io.Copy(stdout, ptmx) })

	waitErr := cmd.Wait()
	wg.Wait()
	return waitErr
}
