// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sgel implements the front end of the scene graph editing
// language spoken by a spatial-visual reasoning process to its viewer.
//
// The wire format is newline-delimited text. Each line is handled on
// its own, in three steps:
//
//   - [Tokenize] splits a line into fields. Fields are separated by
//     whitespace; a field starting with '"' runs to the next unescaped
//     '"' and may contain spaces. "\\" inside any field collapses to a
//     single backslash. "\"" inside a quoted field is kept as the two
//     characters '\' '"'.
//   - [Parse] turns the fields into an ordered list of [Command] values,
//     or a [*ParseError] whose [ErrorKind] classifies the failure.
//     Parsing is all-or-nothing: a line either yields every command it
//     describes or none.
//   - [Format] renders a command back into a line that parses to the
//     same command.
//
// The grammar:
//
//	line   := save | layer | draw
//	save   := "save" TOKEN
//	layer  := "layer" INT (OPTION INT)+     OPTION starts with l, f, d, n or w
//	draw   := ["draw"] scene [geom [update]]
//	scene  := "-" TOKEN | "+" TOKEN | TOKEN
//	geom   := "-" TOKEN | "+" TOKEN | TOKEN
//	update := (TAG ARGS)*                   TAG is one of p r s c v b t l w
//
// A "+" prefix creates the named scene or geometry and addresses it
// exactly in the rest of the line. A "-" prefix deletes everything the
// wildcard pattern matches and must end the line. A bare token is a
// wildcard pattern ([NameMatcher] with [MatchWildcard]).
//
// Everything here is a pure function of its input; nothing is shared
// between calls.
package sgel
