// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"fmt"
	"time"
)

// LineHandler processes one line received from the client. A non-nil
// error ends the current connection; the server keeps accepting.
type LineHandler interface {
	HandleLine(ctx context.Context, line string) error
}

// LineHandlerFunc adapts a function to [LineHandler].
type LineHandlerFunc func(ctx context.Context, line string) error

// HandleLine calls f.
func (f LineHandlerFunc) HandleLine(ctx context.Context, line string) error {
	return f(ctx, line)
}

// EventKind identifies a connection state change.
type EventKind int

const (
	// EventListening: the server is waiting for a client.
	EventListening EventKind = iota + 1
	// EventConnected: a client connected.
	EventConnected
	// EventDisconnected: the client connection ended. Event.Err holds
	// the cause when it was not a normal close.
	EventDisconnected
)

func (kind EventKind) String() string {
	switch kind {
	case EventListening:
		return "listening"
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	default:
		return fmt.Sprintf("EventKind(%d)", int(kind))
	}
}

// Event reports a connection state change.
type Event struct {
	Kind EventKind
	Time time.Time

	// Address is the listening address for EventListening and the
	// client's address otherwise.
	Address string

	// Lines is the number of lines read from the client, set on
	// EventDisconnected.
	Lines uint64

	Err error
}
