// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/cfgwrap/cfgwrap/internal/config"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("level filters records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger, err := newLogger(&buf, config.LogFormatText, config.LogLevelWarn)
		if err != nil {
			t.Fatalf("newLogger() error = %v", err)
		}
		logger.Info("hidden")
		logger.Warn("shown", "provider", "env")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Errorf("info record written at warn level:\n%s", out)
		}
		if !strings.Contains(out, "shown") || !strings.Contains(out, "provider") {
			t.Errorf("warn record missing:\n%s", out)
		}
	})

	t.Run("json format", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger, err := newLogger(&buf, config.LogFormatJSON, config.LogLevelDebug)
		if err != nil {
			t.Fatalf("newLogger() error = %v", err)
		}
		logger.Debug("resolved configuration", "injectors", 2)

		var record map[string]any
		if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record); err != nil {
			t.Fatalf("record is not JSON: %v\n%s", err, buf.String())
		}
		if record["msg"] != "resolved configuration" {
			t.Errorf("msg = %v", record["msg"])
		}
		if record["prefix"] != config.AppName {
			t.Errorf("prefix = %v, want %q", record["prefix"], config.AppName)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		t.Parallel()

		if _, err := newLogger(&bytes.Buffer{}, "yaml", config.LogLevelInfo); !errors.Is(err, config.ErrInvalidLogFormat) {
			t.Errorf("format error = %v, want ErrInvalidLogFormat", err)
		}
		if _, err := newLogger(&bytes.Buffer{}, config.LogFormatText, "trace"); !errors.Is(err, config.ErrInvalidLogLevel) {
			t.Errorf("level error = %v, want ErrInvalidLogLevel", err)
		}
	})
}
