// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/bureau-foundation/svsviewer/cmd/svs-viewer/cli"
	"github.com/bureau-foundation/svsviewer/lib/config"
	"github.com/bureau-foundation/svsviewer/lib/version"
)

// rootCommand builds the command tree. stdout and stdin are the
// streams commands read and write data on; help and logs go to stderr.
func rootCommand(stdout io.Writer, stdin io.Reader) *cli.Command {
	var params struct {
		Version bool `flag:"version" desc:"print version information and exit"`
	}

	root := &cli.Command{
		Name: "svs-viewer",
		Description: `svs-viewer: live scene-graph viewer.

Clients connect over TCP and send newline-delimited commands that create,
update and delete scenes and geometries. The viewer keeps the resulting
registry in memory, can save it as a snapshot, and shows it in a terminal
inspector.`,
		Params: func() any { return &params },
		Subcommands: []*cli.Command{
			serveCommand(),
			viewCommand(),
			parseCommand(stdout, stdin),
			inspectCommand(stdout),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, _ []string) error {
					fmt.Fprintf(stdout, "svs-viewer %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Listen on the default port and log changes",
				Command:     "svs-viewer serve",
			},
			{
				Description: "Open the inspector, starting from a saved snapshot",
				Command:     "svs-viewer view --restore ~/.cache/svs-viewer/snapshots/demo.svss",
			},
			{
				Description: "Lint a captured session",
				Command:     "svs-viewer parse session.txt",
			},
			{
				Description: "Dump a snapshot's CBOR payload",
				Command:     "svs-viewer inspect demo.svss --diagnose",
			},
		},
	}

	root.Run = func(_ context.Context, args []string) error {
		if params.Version {
			fmt.Fprintf(stdout, "svs-viewer %s\n", version.Info())
			return nil
		}
		root.PrintHelp(root.HelpOutput())
		if len(args) > 0 {
			return cli.Validation("unexpected argument %q", args[0])
		}
		return cli.Validation("subcommand required")
	}
	return root
}

// configParams is embedded by every command that loads configuration.
type configParams struct {
	Config string `flag:"config" desc:"config file (default: $SVS_VIEWER_CONFIG, else built-in defaults)"`
}

// loadConfig loads and validates the configuration named by path, or
// by the environment when path is empty.
func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cli.NotFound("%w", err)
		}
		return nil, cli.Validation("%w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid config: %w", err)
	}
	return cfg, nil
}
