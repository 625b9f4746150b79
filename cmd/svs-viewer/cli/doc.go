// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework for svs-viewer.
//
// A [Command] tree dispatches on the first positional argument, parses
// flags with pflag, and prints structured help. Flags are declared on
// a params struct with flag/desc/default tags and bound by
// [FlagsFromParams]. Unknown commands and flags get "did you mean"
// suggestions by edit distance.
//
// Errors returned from Run are either categorized [ToolError] values
// or an [ExitError], which exits non-zero without printing.
package cli
