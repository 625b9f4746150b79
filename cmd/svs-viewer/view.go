// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/svsviewer/cmd/svs-viewer/cli"
	"github.com/bureau-foundation/svsviewer/lib/viewerui"
	"github.com/bureau-foundation/svsviewer/transport"
)

// connectionEventBuffer bounds transport events waiting for the UI.
// Events beyond it are dropped; the next one restores the state.
const connectionEventBuffer = 64

func viewCommand() *cli.Command {
	var params struct {
		listenParams
		Scene string `flag:"scene" desc:"initial scene filter (overrides viewer.scene)"`
	}

	return &cli.Command{
		Name:    "view",
		Summary: "Accept clients and show the registry in a terminal inspector",
		Description: `Run the same receive path as "serve", with a two-pane terminal view
of the registry instead of change logs. The inspector applies every
batch itself, so what it shows is always the registry's current state.

Keys: j/k move, g/G jump, / filter ("scene*" or "scene*/geom*"),
Esc clear filter, ]/[ resize, q quit. Warnings appear in the status line.`,
		Usage:  "svs-viewer view [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return cli.Validation("view takes no arguments, got %q", args[0])
			}
			cfg, err := loadConfig(params.Config)
			if err != nil {
				return err
			}
			if params.Scene != "" {
				cfg.Viewer.Scene = params.Scene
			}

			handler := viewerui.NewTUILogHandler(max(cfg.SlogLevel(), slog.LevelWarn))
			logger := slog.New(handler).With("command", "view")

			events := make(chan transport.Event, connectionEventBuffer)
			stack, err := newViewerStack(stackOptions{
				config: cfg,
				params: params.listenParams,
				logger: logger,
				onEvent: func(event transport.Event) {
					select {
					case events <- event:
					default:
					}
				},
			})
			if err != nil {
				return err
			}

			model := viewerui.NewModel(viewerui.Config{
				Applier:      stack.applier,
				Batches:      stack.queue.Batches(),
				Events:       events,
				Stats:        stack.pipeline.Stats,
				ScenePattern: cfg.Viewer.Scene,
				Highlight:    cfg.Viewer.Highlight,
			})

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			program := tea.NewProgram(model, tea.WithAltScreen())
			handler.SetProgram(program)
			stop := context.AfterFunc(ctx, program.Quit)
			defer stop()

			served := make(chan error, 1)
			go func() {
				err := stack.server.Serve(ctx)
				if err != nil {
					program.Quit()
				}
				served <- err
			}()

			_, runErr := program.Run()
			cancel()
			serveErr := <-served
			stack.queue.Close()

			if serveErr != nil {
				return cli.Internal("serving: %w", serveErr)
			}
			if runErr != nil {
				return cli.Internal("running inspector: %w", runErr)
			}
			return nil
		},
	}
}
