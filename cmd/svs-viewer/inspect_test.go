// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/svsviewer/cmd/svs-viewer/cli"
	"github.com/bureau-foundation/svsviewer/lib/scene"
	"github.com/bureau-foundation/svsviewer/lib/snapshot"
)

func writeTestSnapshot(t *testing.T) string {
	t.Helper()
	registry := scene.New(scene.Options{})
	applyLine(t, registry, "draw +S1 +ball b 0.25")
	applyLine(t, registry, `draw +S1 +label t "hello"`)
	applyLine(t, registry, "draw +empty")
	applyLine(t, registry, "layer 2 w 1")

	path := filepath.Join(t.TempDir(), "demo.svss")
	if _, err := snapshot.WriteFile(path, registry.Snapshot(), snapshot.CompressionZstd); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func TestInspectSummary(t *testing.T) {
	t.Parallel()

	path := writeTestSnapshot(t)
	var stdout bytes.Buffer
	if err := rootCommand(&stdout, nil).Execute(context.Background(), []string{"inspect", path}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	output := stdout.String()
	for _, want := range []string{
		"scenes      2",
		"geometries  2",
		"layers      1",
		"S1",
		"ball",
		"sphere",
		"label",
		"text",
		"empty",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("summary missing %q:\n%s", want, output)
		}
	}
}

func TestInspectDiagnose(t *testing.T) {
	t.Parallel()

	path := writeTestSnapshot(t)
	var stdout bytes.Buffer
	if err := rootCommand(&stdout, nil).Execute(context.Background(), []string{"inspect", "--diagnose", path}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	output := stdout.String()
	if !strings.HasPrefix(output, "# ") {
		t.Errorf("diagnostic output should start with a header comment:\n%s", output)
	}
	if !strings.Contains(output, `"ball"`) {
		t.Errorf("diagnostic output missing geometry name:\n%s", output)
	}
}

func TestInspectCorrupt(t *testing.T) {
	t.Parallel()

	path := writeTestSnapshot(t)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	data[len(data)-1] ^= 0xff
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	err = rootCommand(&bytes.Buffer{}, nil).Execute(context.Background(), []string{"inspect", path})
	if cli.CategoryOf(err) != cli.CategoryValidation {
		t.Fatalf("Execute() error = %v, want validation error", err)
	}
}

func TestInspectArguments(t *testing.T) {
	t.Parallel()

	err := rootCommand(&bytes.Buffer{}, nil).Execute(context.Background(), []string{"inspect"})
	if cli.CategoryOf(err) != cli.CategoryValidation {
		t.Fatalf("Execute() error = %v, want validation error", err)
	}
	err = rootCommand(&bytes.Buffer{}, nil).Execute(context.Background(), []string{"inspect", filepath.Join(t.TempDir(), "absent")})
	if cli.CategoryOf(err) != cli.CategoryNotFound {
		t.Fatalf("Execute() error = %v, want not-found", err)
	}
}
