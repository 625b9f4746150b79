// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// svs-viewer receives scene-graph edit commands over TCP and keeps a
// live registry of scenes, geometries and layers.
//
// Subcommands:
//
//   - serve: headless listener that logs every change
//   - view: the same listener with a terminal inspector
//   - parse: offline lint of protocol lines from a file or stdin
//   - inspect: verify and summarize a saved snapshot
//   - version: build information
//
// Configuration comes from --config, else $SVS_VIEWER_CONFIG, else the
// built-in defaults (listen on :12122, echo every line).
package main
