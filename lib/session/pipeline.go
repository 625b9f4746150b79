// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/bureau-foundation/svsviewer/lib/clock"
	"github.com/bureau-foundation/svsviewer/lib/sgel"
)

// Batch is the parsed form of one protocol line.
type Batch struct {
	Line     string
	Commands []sgel.Command
	Received time.Time
}

// CommandSink consumes parsed lines in the order they arrived.
type CommandSink interface {
	Accept(ctx context.Context, batch Batch) error
}

// SinkFunc adapts a function to [CommandSink].
type SinkFunc func(ctx context.Context, batch Batch) error

// Accept calls f.
func (f SinkFunc) Accept(ctx context.Context, batch Batch) error {
	return f(ctx, batch)
}

// Stats counts pipeline activity. Blank lines are counted in Lines but
// produce neither commands nor errors.
type Stats struct {
	Lines    uint64
	Commands uint64
	Errors   uint64
}

// PipelineConfig configures a [Pipeline].
type PipelineConfig struct {
	// Sink receives every successfully parsed, non-empty line.
	Sink CommandSink

	// Clock stamps [Batch.Received]. Nil selects the real clock.
	Clock clock.Clock

	// Logger receives a warning per malformed line.
	Logger *slog.Logger
}

// Pipeline turns protocol lines into command batches. HandleLine may
// be called from one goroutine at a time; Stats may be called from any
// goroutine.
type Pipeline struct {
	sink   CommandSink
	clock  clock.Clock
	logger *slog.Logger

	lines    atomic.Uint64
	commands atomic.Uint64
	errors   atomic.Uint64
}

// NewPipeline returns a pipeline feeding config.Sink.
func NewPipeline(config PipelineConfig) *Pipeline {
	if config.Sink == nil {
		panic("session: PipelineConfig.Sink is required")
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		sink:   config.Sink,
		clock:  config.Clock,
		logger: config.Logger,
	}
}

// HandleLine processes one line. A line that fails to parse is logged
// and counted, and HandleLine returns nil: malformed input is not a
// session error. The returned error comes from the sink only.
func (pipeline *Pipeline) HandleLine(ctx context.Context, line string) error {
	pipeline.lines.Add(1)

	tokens := sgel.Tokenize(line)
	if len(tokens) == 0 {
		return nil
	}

	commands, err := sgel.Parse(tokens)
	if err != nil {
		pipeline.errors.Add(1)
		attrs := []any{"error", err, "line", line}
		var parseErr *sgel.ParseError
		if errors.As(err, &parseErr) {
			attrs = append(attrs, "kind", parseErr.Kind.String())
		}
		pipeline.logger.Warn("malformed command", attrs...)
		return nil
	}

	pipeline.commands.Add(uint64(len(commands)))
	if len(commands) == 0 {
		return nil
	}

	batch := Batch{Line: line, Commands: commands, Received: pipeline.clock.Now()}
	if err := pipeline.sink.Accept(ctx, batch); err != nil {
		return fmt.Errorf("delivering %d commands: %w", len(commands), err)
	}
	return nil
}

// Stats returns the current counters.
func (pipeline *Pipeline) Stats() Stats {
	return Stats{
		Lines:    pipeline.lines.Load(),
		Commands: pipeline.commands.Load(),
		Errors:   pipeline.errors.Load(),
	}
}
