// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewCommandLoggerJSONWhenNotTerminal(t *testing.T) {
	var output bytes.Buffer
	logger := NewCommandLogger(&output, slog.LevelInfo, "auto")
	logger.Info("listening", "address", ":12122")

	var record map[string]any
	if err := json.Unmarshal(output.Bytes(), &record); err != nil {
		t.Fatalf("auto format on a buffer should be JSON, got %q: %v", output.String(), err)
	}
	if record["msg"] != "listening" || record["address"] != ":12122" {
		t.Errorf("record = %v", record)
	}
}

func TestNewCommandLoggerText(t *testing.T) {
	var output bytes.Buffer
	logger := NewCommandLogger(&output, slog.LevelInfo, "text")
	logger.Info("listening", "address", ":12122")

	if !strings.Contains(output.String(), "msg=listening") {
		t.Errorf("text output = %q", output.String())
	}
}

func TestNewCommandLoggerLevel(t *testing.T) {
	var output bytes.Buffer
	logger := NewCommandLogger(&output, slog.LevelWarn, "json")
	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(output.String(), "hidden") || !strings.Contains(output.String(), "shown") {
		t.Errorf("level filtering failed: %q", output.String())
	}
}
