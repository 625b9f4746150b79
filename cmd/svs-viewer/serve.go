// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/bureau-foundation/svsviewer/cmd/svs-viewer/cli"
	"github.com/bureau-foundation/svsviewer/lib/scene"
	"github.com/bureau-foundation/svsviewer/lib/session"
)

func serveCommand() *cli.Command {
	var params listenParams

	return &cli.Command{
		Name:    "serve",
		Summary: "Accept clients and log every scene change",
		Description: `Listen for one client at a time, apply its commands to an in-memory
registry, and log each change. Malformed lines are logged and skipped;
the connection stays open. "save" commands write snapshots to the
configured snapshot directory.`,
		Usage:  "svs-viewer serve [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return cli.Validation("serve takes no arguments, got %q", args[0])
			}
			cfg, err := loadConfig(params.Config)
			if err != nil {
				return err
			}
			logger := cli.NewCommandLogger(os.Stderr, cfg.SlogLevel(), cfg.Log.Format).With("command", "serve")

			stack, err := newViewerStack(stackOptions{
				config:    cfg,
				params:    params,
				logger:    logger,
				onApplied: logChanges(logger),
			})
			if err != nil {
				return err
			}

			err = stack.run(ctx)
			stats := stack.pipeline.Stats()
			logger.Info("server stopped",
				"lines", stats.Lines,
				"commands", stats.Commands,
				"errors", stats.Errors,
				"scenes", stack.registry.Len(),
				"geometries", stack.registry.GeometryCount(),
			)
			return err
		},
		Examples: []cli.Example{
			{
				Description: "Listen on a different port",
				Command:     "svs-viewer serve --listen :9000",
			},
		},
	}
}

// logChanges returns an OnApplied hook that logs each change at info
// and the affected geometry keys at debug.
func logChanges(logger *slog.Logger) func(session.Batch, []scene.Change) {
	return func(batch session.Batch, changes []scene.Change) {
		for _, change := range changes {
			if change.Empty() {
				continue
			}
			attrs := []any{"kind", change.Kind.String()}
			if len(change.Scenes) > 0 {
				attrs = append(attrs, "scenes", change.Scenes)
			}
			if len(change.Geometries) > 0 {
				attrs = append(attrs, "geometries", len(change.Geometries))
			}
			if change.Kind == scene.ChangeLayer {
				attrs = append(attrs, "layer", change.Layer)
			}
			if change.Path != "" {
				attrs = append(attrs, "path", change.Path)
			}
			logger.Info("scene changed", attrs...)

			if logger.Enabled(context.Background(), slog.LevelDebug) {
				for _, key := range change.Geometries {
					logger.Debug("geometry changed", "kind", change.Kind.String(), "geometry", key.String())
				}
			}
		}
	}
}
