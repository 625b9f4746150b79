// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/bureau-foundation/svsviewer/lib/clock"
	"github.com/bureau-foundation/svsviewer/lib/netutil"
)

// DefaultMaxLineBytes bounds a single protocol line when
// ServerConfig.MaxLineBytes is zero.
const DefaultMaxLineBytes = 4 << 20

// ServerConfig configures a [Server].
type ServerConfig struct {
	// Address is the TCP listen address, e.g. ":12122". Use
	// "127.0.0.1:0" for a random port in tests.
	Address string

	// Handler receives every line. Required.
	Handler LineHandler

	// Echo makes the server reply "Received: <line>" to each line.
	Echo bool

	// MaxLineBytes is the longest accepted line. A longer line ends
	// the connection. Zero selects DefaultMaxLineBytes.
	MaxLineBytes int

	// RetryDelay is how long Serve waits after a failed accept before
	// trying again. Zero selects one second.
	RetryDelay time.Duration

	// OnEvent, if set, is called synchronously on the serving
	// goroutine for each connection state change.
	OnEvent func(Event)

	Clock  clock.Clock
	Logger *slog.Logger
}

// Server is a single-client line server. Create with [NewServer],
// then call [Server.Serve].
type Server struct {
	config   ServerConfig
	listener net.Listener

	closeOnce sync.Once
	closed    chan struct{}
}

// NewServer binds config.Address. The listener is open when NewServer
// returns, so [Server.Address] reports the real port immediately.
func NewServer(config ServerConfig) (*Server, error) {
	if config.Handler == nil {
		return nil, errors.New("transport: ServerConfig.Handler is required")
	}
	if config.MaxLineBytes <= 0 {
		config.MaxLineBytes = DefaultMaxLineBytes
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = time.Second
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}

	listener, err := net.Listen("tcp", config.Address)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", config.Address, err)
	}
	return &Server{
		config:   config,
		listener: listener,
		closed:   make(chan struct{}),
	}, nil
}

// Address returns the bound address in "host:port" form.
func (s *Server) Address() string {
	return s.listener.Addr().String()
}

// Serve accepts clients one at a time until ctx is cancelled or Close
// is called, then returns nil. Clients that connect while another is
// being served wait in the listen backlog.
func (s *Server) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { s.Close() })
	defer stop()

	for {
		s.emit(Event{Kind: EventListening, Address: s.Address()})
		s.config.Logger.Info("waiting for client", "address", s.Address())

		conn, err := s.listener.Accept()
		if err != nil {
			if s.isClosed() || ctx.Err() != nil {
				return nil
			}
			s.config.Logger.Error("accept failed", "error", err, "retry_in", s.config.RetryDelay)
			select {
			case <-s.config.Clock.After(s.config.RetryDelay):
				continue
			case <-s.closed:
				return nil
			}
		}

		s.serveConnection(ctx, conn)
		if s.isClosed() || ctx.Err() != nil {
			return nil
		}
	}
}

// Close stops the listener and any active connection. Serve returns
// shortly after.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closed)
		err = s.listener.Close()
	})
	return err
}

func (s *Server) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

func (s *Server) serveConnection(ctx context.Context, conn net.Conn) {
	remote := conn.RemoteAddr().String()
	logger := s.config.Logger.With("client", remote)

	// Unblock the read loop when the server shuts down.
	connectionDone := make(chan struct{})
	defer close(connectionDone)
	go func() {
		select {
		case <-s.closed:
			conn.Close()
		case <-connectionDone:
		}
	}()
	defer conn.Close()

	logger.Info("client connected")
	s.emit(Event{Kind: EventConnected, Address: remote})

	lines, err := s.readLines(ctx, conn)
	switch {
	case err == nil, netutil.IsExpectedCloseError(err), s.isClosed():
		logger.Info("client disconnected", "lines", lines)
		err = nil
	default:
		logger.Warn("client connection ended", "lines", lines, "error", err)
	}
	s.emit(Event{Kind: EventDisconnected, Address: remote, Lines: lines, Err: err})
}

// readLines runs the line loop for one connection. It returns nil when
// the client closes its side cleanly.
func (s *Server) readLines(ctx context.Context, conn net.Conn) (uint64, error) {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, min(4096, s.config.MaxLineBytes)), s.config.MaxLineBytes)
	writer := bufio.NewWriter(conn)

	var lines uint64
	for scanner.Scan() {
		line := scanner.Text()
		lines++

		if err := s.config.Handler.HandleLine(ctx, line); err != nil {
			return lines, fmt.Errorf("handling line %d: %w", lines, err)
		}

		if s.config.Echo {
			if _, err := writer.WriteString("Received: " + line + "\n"); err != nil {
				return lines, err
			}
			if err := writer.Flush(); err != nil {
				return lines, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return lines, fmt.Errorf("line %d exceeds %d bytes: %w", lines+1, s.config.MaxLineBytes, err)
		}
		return lines, err
	}
	return lines, nil
}

func (s *Server) emit(event Event) {
	if s.config.OnEvent == nil {
		return
	}
	event.Time = s.config.Clock.Now()
	s.config.OnEvent(event)
}

