// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock lets components take time as a dependency.
//
// Components that stamp events or wait for a delay hold a Clock
// instead of calling time.Now or time.After. Production code passes
// Real(); tests pass Fake(start) and move time with Advance:
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	server := transport.NewServer(transport.ServerConfig{Clock: fake, ...})
//	fake.WaitForTimers(1)       // the server is waiting out its retry delay
//	fake.Advance(time.Second)   // and now it is not
package clock
