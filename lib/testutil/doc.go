// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil holds helpers shared by the viewer's tests.
//
// [RequireReceive], [RequireSend] and [RequireClosed] bound every
// channel wait in a test with a wall-clock timeout, so a broken
// goroutine fails the test instead of hanging it. They are the only
// place the test suite uses real time; everything else runs on
// clock.Fake.
//
// [DialLines] connects to a line-protocol server and returns a
// [LineConn] that sends and receives newline-terminated lines with
// the same timeouts.
//
// All helpers call t.Fatalf on failure.
package testutil
