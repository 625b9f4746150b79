// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/svsviewer/cmd/svs-viewer/cli"
)

func TestLintLinesDescribe(t *testing.T) {
	t.Parallel()

	input := strings.NewReader("draw +S1 +foo\nS1 g1\nlayer x l 1\n")
	var output bytes.Buffer
	lines, failures, err := lintLines(input, &output, false, 1024)
	if err != nil {
		t.Fatalf("lintLines() error: %v", err)
	}
	if lines != 3 || failures != 1 {
		t.Fatalf("lintLines() = %d lines, %d failures, want 3 and 1", lines, failures)
	}

	got := strings.Split(strings.TrimRight(output.String(), "\n"), "\n")
	if len(got) != 4 {
		t.Fatalf("output has %d lines, want 4:\n%s", len(got), output.String())
	}
	if !strings.HasPrefix(got[0], `1: create-scene name="S1"`) {
		t.Errorf("line 0 = %q, want create-scene", got[0])
	}
	if !strings.HasPrefix(got[1], "1: create-geometry") {
		t.Errorf("line 1 = %q, want create-geometry", got[1])
	}
	if got[2] != "2: (no commands)" {
		t.Errorf("line 2 = %q, want no commands", got[2])
	}
	if !strings.HasPrefix(got[3], "3: error: ") {
		t.Errorf("line 3 = %q, want an error", got[3])
	}
}

func TestLintLinesCanonical(t *testing.T) {
	t.Parallel()

	input := strings.NewReader("draw   +S1   +foo\nlayer 4 d 1\n")
	var output bytes.Buffer
	_, failures, err := lintLines(input, &output, true, 1024)
	if err != nil {
		t.Fatalf("lintLines() error: %v", err)
	}
	if failures != 0 {
		t.Fatalf("failures = %d, want 0:\n%s", failures, output.String())
	}
	want := "1: draw +S1 +foo\n2: layer 4 d 1\n"
	if output.String() != want {
		t.Errorf("output = %q, want %q", output.String(), want)
	}
}

func TestLintLinesTooLong(t *testing.T) {
	t.Parallel()

	input := strings.NewReader(strings.Repeat("x", 100) + "\n")
	_, _, err := lintLines(input, &bytes.Buffer{}, false, 16)
	if err == nil {
		t.Fatal("lintLines() succeeded with an overlong line, want error")
	}
}

func TestParseCommandFailuresExit(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	root := rootCommand(&stdout, strings.NewReader("save\n"))
	err := root.Execute(context.Background(), []string{"parse"})
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("Execute() error = %v, want ExitError{1}", err)
	}
	if !strings.HasPrefix(stdout.String(), "1: error: ") {
		t.Errorf("stdout = %q, want an error line", stdout.String())
	}
}

func TestParseCommandFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "capture.txt")
	if err := os.WriteFile(path, []byte("draw -S1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var stdout bytes.Buffer
	root := rootCommand(&stdout, strings.NewReader(""))
	if err := root.Execute(context.Background(), []string{"parse", path}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.HasPrefix(stdout.String(), "1: delete-scene") {
		t.Errorf("stdout = %q, want delete-scene", stdout.String())
	}
}

func TestParseCommandMissingFile(t *testing.T) {
	t.Parallel()

	root := rootCommand(&bytes.Buffer{}, strings.NewReader(""))
	err := root.Execute(context.Background(), []string{"parse", filepath.Join(t.TempDir(), "absent")})
	if cli.CategoryOf(err) != cli.CategoryNotFound {
		t.Fatalf("Execute() error = %v, want not-found", err)
	}
}
