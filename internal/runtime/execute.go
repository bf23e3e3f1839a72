// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/cfgwrap/cfgwrap/pkg/spec"
)

// Request describes one target process.
type Request struct {
	// Argv is the program and its arguments, before shell wrapping.
	Argv []string
	// Env is the complete child environment. Nothing is inherited.
	Env map[string]string
	// WorkingDir is created when missing. Empty means the current directory.
	WorkingDir string
	// Stdin is written to the child and then closed when non-nil.
	Stdin []byte
	// Input is connected to the child when Stdin is nil. A nil Input
	// reads from the null device.
	Input io.Reader
	// Shell optionally wraps Argv (see Wrap).
	Shell spec.Shell
	// Stdout and Stderr receive the child's output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
	// TTY attaches the child to a pseudo-terminal. Its combined output
	// goes to Stdout.
	TTY bool
}

// Execute runs the request and waits for the child to exit. A non-zero
// exit is reported through Result.ExitCode; failures to spawn (or an
// interrupted context) set Result.Error with exit code 1.
func Execute(ctx context.Context, req Request) *Result {
	start := time.Now()
	result := execute(ctx, req)
	result.Duration = time.Since(start)
	return result
}

func execute(ctx context.Context, req Request) *Result {
	argv, err := Wrap(req.Shell, req.Argv)
	if err != nil {
		return NewErrorResult(1, err)
	}

	if req.WorkingDir != "" {
		if err = os.MkdirAll(req.WorkingDir, 0o755); err != nil {
			return NewErrorResult(1, fmt.Errorf("failed to create working directory: %w", err))
		}
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = req.WorkingDir
	cmd.Env = EnvToSlice(req.Env)

	stdout := req.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := req.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	var input io.Reader
	if req.Stdin != nil {
		input = bytes.NewReader(req.Stdin)
	} else if req.Input != nil {
		input = req.Input
	}

	out := &captureWriter{w: stdout}
	errOut := &captureWriter{w: stderr}
	if req.TTY {
		err = runPTY(cmd, input, out)
	} else {
		err = runPiped(cmd, input, out, errOut)
	}

	result := exitResult(ctx, err)
	if writeErr := errors.Join(out.err, errOut.err); writeErr != nil {
		result.OutputError = fmt.Errorf("failed to write command output: %w", writeErr)
	}
	return result
}

// captureWriter records the first write error and discards everything
// after it, so the child's pipe keeps draining and the child never blocks.
type captureWriter struct {
	w   io.Writer
	err error
}

func (c *captureWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return len(p), nil
	}
	if _, err := c.w.Write(p); err != nil {
		c.err = err
	}
	return len(p), nil
}

// runPiped starts cmd and copies its stdout and stderr concurrently. Both
// pipes are drained before Wait, as exec.Cmd requires.
func runPiped(cmd *exec.Cmd, input io.Reader, stdout, stderr io.Writer) error {
	cmd.Stdin = input

	outPipe, err := cmd.StdoutPipe()
	if err != nil {
		return &spawnError{err: err}
	}
	errPipe, err := cmd.StderrPipe()
	if err != nil {
		return &spawnError{err: err}
	}

	if err = cmd.Start(); err != nil {
		return &spawnError{err: err}
	}

	// Write failures are recorded by the captureWriters; a read error only
	// means the pipe closed.
	var wg sync.WaitGroup
	wg.Go(func() { _, _ = io.Copy(stdout, outPipe) })
	wg.Go(func() { _, _ = io.Copy(stderr, errPipe) })
	wg.Wait()

	return cmd.Wait()
}

// spawnError marks failures that happened before the child was running.
type spawnError struct {
	err error
}

func (e *spawnError) Error() string { return e.err.Error() }

func (e *spawnError) Unwrap() error { return e.err }

func exitResult(ctx context.Context, err error) *Result {
	if err == nil {
		return NewSuccessResult()
	}

	var spawnErr *spawnError
	if errors.As(err, &spawnErr) {
		return NewErrorResult(1, fmt.Errorf("failed to execute command: %w", spawnErr.err))
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return NewErrorResult(1, fmt.Errorf("command interrupted: %w", ctxErr))
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Command executed but returned non-zero exit code
		code := ExitCode(exitErr.ExitCode())
		if valid, errs := code.IsValid(); !valid {
			return NewErrorResult(1, fmt.Errorf("command terminated abnormally: %w", errs[0]))
		}
		return NewExitCodeResult(code)
	}

	return NewErrorResult(1, fmt.Errorf("failed to execute command: %w", err))
}
