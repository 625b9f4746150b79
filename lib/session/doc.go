// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package session connects the line transport to the scene registry.
//
// A [Pipeline] receives raw protocol lines, tokenizes and parses them,
// and hands each successfully parsed line to a [CommandSink] as one
// [Batch]. Parse errors are logged together with the offending line
// and counted; they never reach the sink and never end the session.
//
// A [Queue] is the usual sink: it carries batches from the connection
// goroutine to the single goroutine that owns the registry. That
// goroutine runs an [Applier], either through [Applier.Run] or by
// calling [Applier.ApplyBatch] from its own event loop.
package session
