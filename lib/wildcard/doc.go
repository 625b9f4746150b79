// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package wildcard provides [Map], an associative container with
// string keys that supports shell-style wildcard lookup and removal.
//
// The backing structure is a character trie. Exact operations ([Map.Get],
// [Map.Put], [Map.Remove]) walk one node per character of the key.
// Wildcard operations ([Map.GetWithWildcards], [Map.RemoveWithWildcards])
// treat '*' in the pattern as "zero or more characters" and return every
// stored key the pattern matches. '*' is only special in those two
// methods; everywhere else it is an ordinary character.
//
// Keys handed to [Map.Put] should not contain '*'. Such keys are stored
// and retrievable by exact lookup, but a wildcard pattern cannot name
// them literally: a '*' in a pattern always means "any run".
//
// Removal prunes interior nodes that no longer lead to a value, so a
// long-lived map that sees many create/delete cycles does not grow
// without bound.
//
// A Map is not safe for concurrent use. Callers that mutate it from one
// goroutine and read it from another must provide their own
// happens-before edge.
package wildcard
