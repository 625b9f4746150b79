// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package transport carries the line protocol between the reasoning
// process and the viewer.
//
// [Server] listens on TCP and serves one client at a time, the way the
// reasoning process expects: it connects, streams newline-delimited
// commands, and eventually hangs up. Each line is passed to a
// [LineHandler] in arrival order. When echo is enabled the server
// answers every line with "Received: <line>" after the handler
// returns. When the client disconnects the server goes back to
// accepting; only context cancellation or [Server.Close] ends Serve.
//
// Connection state changes are reported as [Event] values so a user
// interface can show whether a client is attached.
package transport
