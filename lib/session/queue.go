// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bureau-foundation/svsviewer/lib/scene"
)

// ErrQueueClosed is returned by [Queue.Accept] after [Queue.Close].
var ErrQueueClosed = errors.New("session: queue closed")

// Queue is a [CommandSink] that buffers batches for a single consumer.
// Accept blocks while the buffer is full, which pushes back on the
// connection.
type Queue struct {
	batches chan Batch
	done    chan struct{}
}

// DefaultQueueCapacity is the buffer size used when NewQueue is given
// a non-positive capacity.
const DefaultQueueCapacity = 256

// NewQueue returns a queue buffering up to capacity batches.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &Queue{
		batches: make(chan Batch, capacity),
		done:    make(chan struct{}),
	}
}

// Accept enqueues batch, waiting for space until ctx is done or the
// queue is closed.
func (queue *Queue) Accept(ctx context.Context, batch Batch) error {
	select {
	case <-queue.done:
		return ErrQueueClosed
	default:
	}
	select {
	case queue.batches <- batch:
		return nil
	case <-queue.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Batches returns the receive side of the queue.
func (queue *Queue) Batches() <-chan Batch {
	return queue.batches
}

// Close stops further Accept calls. Batches already queued remain
// readable; the Batches channel itself is never closed, so consumers
// stop on their own context. Close must be called at most once.
func (queue *Queue) Close() {
	close(queue.done)
}

// Applier applies batches to a registry. It is the registry's single
// mutator.
type Applier struct {
	Registry *scene.Registry
	Logger   *slog.Logger

	// OnApplied, if set, is called after each batch with the changes
	// that were applied.
	OnApplied func(batch Batch, changes []scene.Change)
}

// ApplyBatch applies every command of batch in order. An interpreter
// error is logged and stops the batch; changes applied before it are
// returned.
func (applier *Applier) ApplyBatch(batch Batch) []scene.Change {
	changes, err := applier.Registry.ApplyAll(batch.Commands)
	if err != nil && applier.Logger != nil {
		applier.Logger.Warn("command failed", "error", err, "line", batch.Line)
	}
	if applier.OnApplied != nil {
		applier.OnApplied(batch, changes)
	}
	return changes
}

// Run applies batches until ctx is done. Batches already buffered when
// ctx ends are applied before Run returns.
func (applier *Applier) Run(ctx context.Context, batches <-chan Batch) error {
	for {
		select {
		case <-ctx.Done():
			applier.drain(batches)
			return ctx.Err()
		case batch := <-batches:
			applier.ApplyBatch(batch)
		}
	}
}

func (applier *Applier) drain(batches <-chan Batch) {
	for {
		select {
		case batch := <-batches:
			applier.ApplyBatch(batch)
		default:
			return
		}
	}
}
