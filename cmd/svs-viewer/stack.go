// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/bureau-foundation/svsviewer/cmd/svs-viewer/cli"
	"github.com/bureau-foundation/svsviewer/lib/config"
	"github.com/bureau-foundation/svsviewer/lib/scene"
	"github.com/bureau-foundation/svsviewer/lib/session"
	"github.com/bureau-foundation/svsviewer/lib/snapshot"
	"github.com/bureau-foundation/svsviewer/transport"
)

// listenParams are the flags shared by serve and view.
type listenParams struct {
	configParams
	Listen  string `flag:"listen"  desc:"listen address (overrides server.address)"`
	Restore string `flag:"restore" desc:"snapshot to load before accepting clients"`
}

// viewerStack is the wired receive path:
// server -> pipeline -> queue -> applier -> registry -> snapshot store.
type viewerStack struct {
	registry *scene.Registry
	store    *snapshot.Store
	queue    *session.Queue
	pipeline *session.Pipeline
	applier  *session.Applier
	server   *transport.Server
}

type stackOptions struct {
	config    *config.Config
	params    listenParams
	logger    *slog.Logger
	onEvent   func(transport.Event)
	onApplied func(session.Batch, []scene.Change)
}

// newViewerStack builds the receive path and binds the listener.
func newViewerStack(options stackOptions) (*viewerStack, error) {
	cfg := options.config
	logger := options.logger

	compression, err := snapshot.ParseCompression(cfg.Snapshot.Compression)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	store := &snapshot.Store{
		Directory:   cfg.Snapshot.Directory,
		Compression: compression,
		Logger:      logger.With("component", "snapshot"),
	}

	registry := scene.New(scene.Options{
		Logger: logger.With("component", "registry"),
		Saver:  store,
	})
	if options.params.Restore != "" {
		if err := restoreSnapshot(registry, options.params.Restore, logger); err != nil {
			return nil, err
		}
	}

	queue := session.NewQueue(cfg.Server.QueueCapacity)
	pipeline := session.NewPipeline(session.PipelineConfig{
		Sink:   queue,
		Logger: logger.With("component", "pipeline"),
	})
	applier := &session.Applier{
		Registry:  registry,
		Logger:    logger.With("component", "applier"),
		OnApplied: options.onApplied,
	}

	address := cfg.Server.Address
	if options.params.Listen != "" {
		address = options.params.Listen
	}
	server, err := transport.NewServer(transport.ServerConfig{
		Address:      address,
		Handler:      pipeline,
		Echo:         cfg.Server.Echo,
		MaxLineBytes: cfg.Server.MaxLineBytes,
		RetryDelay:   cfg.Server.RetryDelay,
		OnEvent:      options.onEvent,
		Logger:       logger.With("component", "transport"),
	})
	if err != nil {
		return nil, cli.Internal("%w", err)
	}

	return &viewerStack{
		registry: registry,
		store:    store,
		queue:    queue,
		pipeline: pipeline,
		applier:  applier,
		server:   server,
	}, nil
}

// run serves clients and applies their batches until ctx is done.
func (stack *viewerStack) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var group sync.WaitGroup
	group.Go(func() {
		stack.applier.Run(ctx, stack.queue.Batches())
	})

	err := stack.server.Serve(ctx)
	stack.queue.Close()
	cancel()
	group.Wait()
	return err
}

func restoreSnapshot(registry *scene.Registry, path string, logger *slog.Logger) error {
	restored, header, err := snapshot.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cli.NotFound("%w", err)
		}
		return cli.Internal("%w", err)
	}
	if err := registry.Restore(restored); err != nil {
		return cli.Internal("restoring %s: %w", path, err)
	}
	logger.Info("snapshot restored",
		"path", path,
		"scenes", len(restored.Scenes),
		"geometries", restored.GeometryCount(),
		"digest", header.Digest.Short(),
	)
	return nil
}
