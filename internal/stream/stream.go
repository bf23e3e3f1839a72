// SPDX-License-Identifier: MPL-2.0

package stream

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cfgwrap/cfgwrap/internal/mask"
	"github.com/cfgwrap/cfgwrap/internal/token"
	"github.com/cfgwrap/cfgwrap/pkg/spec"
)

const (
	// Stdout names the standard output stream in JSON records.
	Stdout Name = "stdout"
	// Stderr names the standard error stream in JSON records.
	Stderr Name = "stderr"
)

type (
	// Name identifies a stream.
	Name string

	// Config is a prepared stream: tokens expanded, path absolute, format
	// resolved against the spec default.
	Config struct {
		Name   Name
		Path   string
		Tee    bool
		Append bool
		Format spec.StreamFormat
	}

	// Writer writes one stream of the target process. It is an io.Writer
	// so it plugs directly into exec.Cmd.
	//
	// A Writer with neither a file nor tee writes straight to the terminal.
	Writer struct {
		cfg      Config
		file     *os.File
		terminal io.Writer
		masker   *mask.Masker
		now      func() time.Time

		mu      sync.Mutex
		partial []byte
	}

	// Option configures a Writer.
	Option func(*Writer)

	record struct {
		TS     string `json:"ts"`
		Stream Name   `json:"stream"`
		Msg    string `json:"msg"`
	}
)

// WithClock overrides the timestamp source for JSON records.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) {
		w.now = now
	}
}

// Prepare expands tokens in the stream path, resolves ~ and relative paths,
// and creates the parent directory.
func Prepare(name Name, s spec.Stream, engine *token.Engine, defaultFormat spec.StreamFormat) (Config, error) {
	cfg := Config{
		Name:   name,
		Tee:    s.TeeTerminal,
		Append: s.Append,
		Format: s.EffectiveFormat(defaultFormat),
	}
	if s.Path == "" {
		return cfg, nil
	}

	path := engine.Expand(s.Path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		path = engine.Expand(token.Placeholder("HOME")) + path[1:]
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to resolve %s path '%s': %w", name, path, err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return Config{}, fmt.Errorf("failed to create %s directory: %w", name, err)
	}
	cfg.Path = abs
	return cfg, nil
}

// Open creates a Writer for cfg, opening its file in append or truncate
// mode. terminal receives teed or pass-through output.
func Open(cfg Config, terminal io.Writer, masker *mask.Masker, opts ...Option) (*Writer, error) {
	w := &Writer{
		cfg:      cfg,
		terminal: terminal,
		masker:   masker,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}

	if cfg.Path != "" {
		flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
		if cfg.Append {
			flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
		}
		f, err := os.OpenFile(cfg.Path, flags, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s file: %w", cfg.Name, err)
		}
		w.file = f
	}
	return w, nil
}

// Config returns the prepared configuration.
func (w *Writer) Config() Config { return w.cfg }

// Write masks p and forwards it to the file and/or terminal. In JSON
// format, incomplete trailing lines are held until the next newline or Close.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *Writer) write(p []byte) error {
	toTerminal := w.cfg.Tee || w.file == nil

	if w.file == nil || w.cfg.Format != spec.StreamFormatJSON {
		masked := w.masker.Bytes(p)
		if w.file != nil {
			if _, err := w.file.Write(masked); err != nil {
				return err
			}
		}
		if toTerminal && w.terminal != nil {
			if _, err := w.terminal.Write(masked); err != nil {
				return err
			}
		}
		return nil
	}

	w.partial = append(w.partial, p...)
	idx := bytes.LastIndexByte(w.partial, '\n')
	if idx < 0 {
		return nil
	}
	complete := w.partial[:idx+1]
	w.partial = bytes.Clone(w.partial[idx+1:])
	return w.emit(complete)
}

// emit writes complete lines as JSON records and tees the masked text.
func (w *Writer) emit(chunk []byte) error {
	masked := w.masker.String(string(chunk))

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for line := range strings.Lines(masked) {
		msg := strings.TrimSpace(line)
		if msg == "" {
			continue
		}
		if err := enc.Encode(record{TS: w.now().Format(time.RFC3339Nano), Stream: w.cfg.Name, Msg: msg}); err != nil {
			return err
		}
	}
	if _, err := w.file.Write(buf.Bytes()); err != nil {
		return err
	}
	if w.cfg.Tee && w.terminal != nil {
		if _, err := io.WriteString(w.terminal, masked); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes any held partial line and closes the file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var errs []error
	if len(w.partial) > 0 && w.file != nil {
		errs = append(errs, w.emit(w.partial))
		w.partial = nil
	}
	if w.file != nil {
		errs = append(errs, w.file.Close())
		w.file = nil
	}
	return errors.Join(errs...)
}
