// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "svs-viewer",
		Subcommands: []*Command{
			{
				Name: "serve",
				Run: func(_ context.Context, args []string) error {
					called = "serve"
					return nil
				},
			},
			{
				Name: "parse",
				Run: func(_ context.Context, args []string) error {
					called = "parse"
					return nil
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"parse"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "parse" {
		t.Errorf("dispatched to %q, want %q", called, "parse")
	}
}

type testParams struct {
	Config  string `flag:"config,c"  desc:"config file"`
	Echo    bool   `flag:"echo"      desc:"echo lines" default:"true"`
	Verbose bool   `flag:"verbose,v" desc:"more output"`
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var params testParams
	var receivedArgs []string

	command := &Command{
		Name:   "serve",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string) error {
			receivedArgs = args
			return nil
		},
	}

	err := command.Execute(context.Background(), []string{"-c", "/etc/viewer.yaml", "--echo=false", "scene.txt"})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if params.Config != "/etc/viewer.yaml" {
		t.Errorf("Config = %q, want /etc/viewer.yaml", params.Config)
	}
	if params.Echo {
		t.Error("Echo = true, want false")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "scene.txt" {
		t.Errorf("args = %v, want [scene.txt]", receivedArgs)
	}
}

func TestCommand_Execute_DefaultsApplied(t *testing.T) {
	var params testParams
	command := &Command{
		Name:   "serve",
		Params: func() any { return &params },
		Run:    func(context.Context, []string) error { return nil },
	}
	if err := command.Execute(context.Background(), nil); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !params.Echo {
		t.Error("Echo default not applied")
	}
}

func TestCommand_Execute_UnknownCommandSuggests(t *testing.T) {
	root := &Command{
		Name: "svs-viewer",
		Subcommands: []*Command{
			{Name: "serve", Run: func(context.Context, []string) error { return nil }},
			{Name: "inspect", Run: func(context.Context, []string) error { return nil }},
		},
	}

	err := root.Execute(context.Background(), []string{"inspet"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), `did you mean "inspect"`) {
		t.Errorf("error = %q, want suggestion for inspect", err)
	}
	if CategoryOf(err) != CategoryValidation {
		t.Errorf("category = %q, want validation", CategoryOf(err))
	}
}

func TestCommand_Execute_UnknownFlagSuggests(t *testing.T) {
	var params testParams
	command := &Command{
		Name:   "serve",
		Params: func() any { return &params },
		Run:    func(context.Context, []string) error { return nil },
	}

	err := command.Execute(context.Background(), []string{"--confg", "x"})
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if !strings.Contains(err.Error(), "did you mean --config?") {
		t.Errorf("error = %q, want --config suggestion", err)
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	var help bytes.Buffer
	root := &Command{
		Name:   "svs-viewer",
		Output: &help,
		Subcommands: []*Command{
			{Name: "serve", Summary: "Run the headless server", Run: func(context.Context, []string) error { return nil }},
		},
	}

	err := root.Execute(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("Execute() error = %v, want subcommand required", err)
	}
	if !strings.Contains(help.String(), "Run the headless server") {
		t.Errorf("help output missing subcommand summary:\n%s", help.String())
	}
}

func TestCommand_Execute_RunFallbackWithSubcommands(t *testing.T) {
	var params struct {
		Version bool `flag:"version" desc:"print version"`
	}
	root := &Command{
		Name:        "svs-viewer",
		Params:      func() any { return &params },
		Subcommands: []*Command{{Name: "serve", Run: func(context.Context, []string) error { return nil }}},
		Run:         func(context.Context, []string) error { return nil },
	}
	if err := root.Execute(context.Background(), []string{"--version"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !params.Version {
		t.Error("--version not parsed by the root command")
	}
}

func TestCommand_Execute_PropagatesRunError(t *testing.T) {
	sentinel := errors.New("boom")
	command := &Command{Name: "parse", Run: func(context.Context, []string) error { return sentinel }}
	if err := command.Execute(context.Background(), nil); !errors.Is(err, sentinel) {
		t.Errorf("Execute() error = %v, want sentinel", err)
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	var params testParams
	parent := &Command{Name: "svs-viewer"}
	command := &Command{
		Name:        "parse",
		Description: "Lint protocol lines.",
		Usage:       "svs-viewer parse [FILE]",
		Params:      func() any { return &params },
		Examples:    []Example{{Description: "Lint a capture", Command: "svs-viewer parse session.txt"}},
		parent:      parent,
	}

	var output bytes.Buffer
	command.PrintHelp(&output)
	help := output.String()

	for _, want := range []string{
		"Lint protocol lines.",
		"Usage:\n  svs-viewer parse [FILE]",
		"--config",
		"--verbose",
		"# Lint a capture",
		"svs-viewer parse session.txt",
	} {
		if !strings.Contains(help, want) {
			t.Errorf("help missing %q:\n%s", want, help)
		}
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	var output bytes.Buffer
	ran := false
	command := &Command{
		Name:    "inspect",
		Summary: "Summarize a snapshot",
		Output:  &output,
		Run:     func(context.Context, []string) error { ran = true; return nil },
	}
	if err := command.Execute(context.Background(), []string{"--help"}); err != nil {
		t.Fatalf("Execute(--help) error: %v", err)
	}
	if ran {
		t.Error("--help ran the command")
	}
	if !strings.Contains(output.String(), "Summarize a snapshot") {
		t.Errorf("help output = %q", output.String())
	}
}
