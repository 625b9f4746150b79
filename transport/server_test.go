// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/svsviewer/lib/testutil"
)

const testTimeout = 5 * time.Second

type serverHarness struct {
	server *Server
	lines  chan string
	events chan Event
	done   chan error
	cancel context.CancelFunc
}

func startServer(t *testing.T, config ServerConfig) *serverHarness {
	t.Helper()
	harness := &serverHarness{
		lines:  make(chan string, 64),
		events: make(chan Event, 64),
		done:   make(chan error, 1),
	}
	config.Address = "127.0.0.1:0"
	if config.Handler == nil {
		config.Handler = LineHandlerFunc(func(_ context.Context, line string) error {
			harness.lines <- line
			return nil
		})
	}
	config.OnEvent = func(event Event) { harness.events <- event }

	server, err := NewServer(config)
	if err != nil {
		t.Fatalf("NewServer() error: %v", err)
	}
	harness.server = server

	ctx, cancel := context.WithCancel(context.Background())
	harness.cancel = cancel
	go func() { harness.done <- server.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		testutil.RequireReceive(t, harness.done, testTimeout, "waiting for Serve to return")
	})

	harness.expectEvent(t, EventListening)
	return harness
}

func (harness *serverHarness) expectEvent(t *testing.T, kind EventKind) Event {
	t.Helper()
	event := testutil.RequireReceive(t, harness.events, testTimeout, "waiting for %s event", kind)
	if event.Kind != kind {
		t.Fatalf("event = %s (%v), want %s", event.Kind, event.Err, kind)
	}
	return event
}

func TestServerEchoesLines(t *testing.T) {
	harness := startServer(t, ServerConfig{Echo: true})
	client := testutil.DialLines(t, harness.server.Address(), testTimeout)
	harness.expectEvent(t, EventConnected)

	for _, line := range []string{"draw +S1 +foo", `S1 foo t "hello world"`, ""} {
		client.Send(t, line)
		if got := testutil.RequireReceive(t, harness.lines, testTimeout, "waiting for handler"); got != line {
			t.Errorf("handler received %q, want %q", got, line)
		}
		if reply := client.Receive(t); reply != "Received: "+line {
			t.Errorf("reply = %q, want %q", reply, "Received: "+line)
		}
	}
}

func TestServerStripsCarriageReturn(t *testing.T) {
	harness := startServer(t, ServerConfig{})
	client := testutil.DialLines(t, harness.server.Address(), testTimeout)
	client.Send(t, "save out.svss\r")
	if got := testutil.RequireReceive(t, harness.lines, testTimeout, "waiting for handler"); got != "save out.svss" {
		t.Errorf("handler received %q", got)
	}
}

func TestServerAcceptsNextClientAfterDisconnect(t *testing.T) {
	harness := startServer(t, ServerConfig{})

	first := testutil.DialLines(t, harness.server.Address(), testTimeout)
	harness.expectEvent(t, EventConnected)
	first.Send(t, "one")
	first.Send(t, "two")
	testutil.RequireReceive(t, harness.lines, testTimeout, "first line")
	testutil.RequireReceive(t, harness.lines, testTimeout, "second line")
	first.Close()

	disconnected := harness.expectEvent(t, EventDisconnected)
	if disconnected.Err != nil || disconnected.Lines != 2 {
		t.Errorf("disconnect event = %+v, want clean close after 2 lines", disconnected)
	}
	harness.expectEvent(t, EventListening)

	second := testutil.DialLines(t, harness.server.Address(), testTimeout)
	harness.expectEvent(t, EventConnected)
	second.Send(t, "three")
	if got := testutil.RequireReceive(t, harness.lines, testTimeout, "line from second client"); got != "three" {
		t.Errorf("handler received %q, want three", got)
	}
}

func TestServerDropsOverlongLine(t *testing.T) {
	harness := startServer(t, ServerConfig{MaxLineBytes: 16})
	client := testutil.DialLines(t, harness.server.Address(), testTimeout)
	harness.expectEvent(t, EventConnected)

	client.Send(t, "short")
	testutil.RequireReceive(t, harness.lines, testTimeout, "short line")
	client.Send(t, strings.Repeat("x", 64))

	event := harness.expectEvent(t, EventDisconnected)
	if event.Err == nil || !strings.Contains(event.Err.Error(), "exceeds 16 bytes") {
		t.Errorf("disconnect error = %v, want line length error", event.Err)
	}
	harness.expectEvent(t, EventListening)
}

func TestServerHandlerErrorEndsConnection(t *testing.T) {
	failure := errors.New("sink closed")
	harness := startServer(t, ServerConfig{
		Handler: LineHandlerFunc(func(context.Context, string) error { return failure }),
	})
	client := testutil.DialLines(t, harness.server.Address(), testTimeout)
	harness.expectEvent(t, EventConnected)
	client.Send(t, "anything")

	event := harness.expectEvent(t, EventDisconnected)
	if !errors.Is(event.Err, failure) {
		t.Errorf("disconnect error = %v, want handler error", event.Err)
	}
}

func TestServerShutdownWithActiveClient(t *testing.T) {
	harness := startServer(t, ServerConfig{})
	testutil.DialLines(t, harness.server.Address(), testTimeout)
	harness.expectEvent(t, EventConnected)

	harness.cancel()
	if err := testutil.RequireReceive(t, harness.done, testTimeout, "waiting for Serve to return"); err != nil {
		t.Errorf("Serve() = %v, want nil", err)
	}
	// Cleanup expects a value on done.
	harness.done <- nil

	event := harness.expectEvent(t, EventDisconnected)
	if event.Err != nil {
		t.Errorf("shutdown disconnect error = %v, want nil", event.Err)
	}
}

func TestNewServerRequiresHandler(t *testing.T) {
	if _, err := NewServer(ServerConfig{Address: "127.0.0.1:0"}); err == nil {
		t.Fatal("NewServer() without handler succeeded")
	}
}
