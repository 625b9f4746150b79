// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package scene holds the viewer's two-level namespace of scenes and
// geometries and interprets parsed protocol commands against it.
//
// A [Registry] owns every [Scene]; each scene owns its [Geometry]
// values. Both levels are stored in a [wildcard.Map], so commands can
// address them by exact name or by glob pattern through an
// [sgel.NameMatcher].
//
// [Registry.Apply] is the interpreter: it switches over the closed
// set of [sgel.Command] types and reports what it touched as a
// [Change]. Commands are applied in the order the parser emitted them.
//
// A Registry has no internal locking. Exactly one goroutine may
// mutate it; readers either run on that goroutine or work from a
// [Snapshot].
package scene
