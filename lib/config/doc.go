// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the viewer's configuration file.
//
// Configuration comes from exactly one place: the file named by the
// --config flag ([LoadFile]), else the file named by the
// SVS_VIEWER_CONFIG environment variable ([Load]), else the built-in
// [Default]. Values in the file replace the defaults field by field;
// nothing else overrides them.
//
// Files are YAML. A file ending in .json or .jsonc is read as JSON
// with comments and trailing commas allowed.
//
// After loading, ${VAR} and ${VAR:-default} patterns in path fields
// are expanded from the environment. [Config.Validate] reports every
// problem at once.
//
// This package depends on no other viewer packages.
package config
