// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"io"
	"log/slog"

	"github.com/cfgwrap/cfgwrap/internal/config"

	"github.com/charmbracelet/log"
)

// newLogger builds the diagnostic logger: a charm logger writing to w,
// exposed through slog so internal packages stay logger-agnostic.
func newLogger(w io.Writer, format config.LogFormat, level config.LogLevel) (*slog.Logger, error) {
	if valid, errs := format.IsValid(); !valid {
		return nil, errors.Join(errs...)
	}
	if valid, errs := level.IsValid(); !valid {
		return nil, errors.Join(errs...)
	}

	lvl, err := log.ParseLevel(string(level))
	if err != nil {
		return nil, err
	}

	formatter := log.TextFormatter
	switch format {
	case config.LogFormatJSON:
		formatter = log.JSONFormatter
	case config.LogFormatLogfmt:
		formatter = log.LogfmtFormatter
	}

	handler := log.NewWithOptions(w, log.Options{
		Prefix:          config.AppName,
		Level:           lvl,
		Formatter:       formatter,
		ReportTimestamp: format != config.LogFormatText,
	})
	return slog.New(handler), nil
}
