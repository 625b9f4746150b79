// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/bureau-foundation/svsviewer/cmd/svs-viewer/cli"
)

func TestCommandTreeHasSummaries(t *testing.T) {
	t.Parallel()

	var walk func(command *cli.Command, path string)
	walk = func(command *cli.Command, path string) {
		for _, sub := range command.Subcommands {
			name := path + " " + sub.Name
			if sub.Summary == "" {
				t.Errorf("%s has no summary", name)
			}
			if sub.Run == nil && len(sub.Subcommands) == 0 {
				t.Errorf("%s has neither Run nor subcommands", name)
			}
			walk(sub, name)
		}
	}
	walk(rootCommand(&bytes.Buffer{}, nil), "svs-viewer")
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	if err := rootCommand(&stdout, nil).Execute(context.Background(), []string{"version"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.HasPrefix(stdout.String(), "svs-viewer ") {
		t.Errorf("output = %q, want svs-viewer prefix", stdout.String())
	}
}

func TestUnknownCommandSuggests(t *testing.T) {
	t.Parallel()

	err := rootCommand(&bytes.Buffer{}, nil).Execute(context.Background(), []string{"serv"})
	if cli.CategoryOf(err) != cli.CategoryValidation {
		t.Fatalf("Execute() error = %v, want validation error", err)
	}
	if !strings.Contains(err.Error(), `"serve"`) {
		t.Errorf("error %q should suggest serve", err)
	}
}

func TestServeRejectsArguments(t *testing.T) {
	t.Parallel()

	err := rootCommand(&bytes.Buffer{}, nil).Execute(context.Background(), []string{"serve", "extra"})
	if cli.CategoryOf(err) != cli.CategoryValidation {
		t.Fatalf("Execute() error = %v, want validation error", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()

	_, err := loadConfig(t.TempDir() + "/absent.yaml")
	if cli.CategoryOf(err) != cli.CategoryNotFound {
		t.Fatalf("loadConfig() error = %v, want not-found", err)
	}
}
