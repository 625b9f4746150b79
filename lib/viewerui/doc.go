// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package viewerui is a terminal inspector for a live scene registry.
//
// [Model] is a bubbletea model with two panes: a list of scenes and
// their geometries on the left, and the selected item's pose, colour,
// shape and layer on the right. The bottom line shows the connection
// state, pipeline counters, and recent warnings.
//
// The model is the registry's only mutator while it runs: parsed
// batches arrive on a channel and are applied inside Update, so every
// View sees a consistent registry without locking. Changed geometries
// glow briefly (see [HeatTracker]).
//
// Pressing / opens a wildcard filter. The input is a scene pattern,
// optionally followed by a slash and a geometry pattern ("robot*/arm*").
// Patterns are resolved through the registry's wildcard maps.
package viewerui
