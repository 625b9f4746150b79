// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"bufio"
	"net"
	"strings"
	"time"
)

// LineConn is a client connection speaking a newline-delimited
// protocol.
type LineConn struct {
	conn    net.Conn
	reader  *bufio.Reader
	timeout time.Duration
}

// DialLines connects to address over TCP. The connection is closed
// when the test ends. timeout bounds the dial and every later read or
// write.
func DialLines(t interface {
	TB
	Cleanup(func())
}, address string, timeout time.Duration) *LineConn {
	t.Helper()
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		t.Fatalf("dialing %s: %v", address, err)
	}
	t.Cleanup(func() { conn.Close() })
	return &LineConn{conn: conn, reader: bufio.NewReader(conn), timeout: timeout}
}

// Send writes line followed by a newline.
func (c *LineConn) Send(t TB, line string) {
	t.Helper()
	c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	if _, err := c.conn.Write([]byte(line + "\n")); err != nil {
		t.Fatalf("sending %q: %v", line, err)
	}
}

// Receive reads one line and returns it without the trailing newline.
func (c *LineConn) Receive(t TB) string {
	t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(c.timeout))
	line, err := c.reader.ReadString('\n')
	if err != nil {
		t.Fatalf("receiving line: %v", err)
	}
	return strings.TrimRight(line, "\r\n")
}

// Close closes the connection.
func (c *LineConn) Close() error {
	return c.conn.Close()
}
