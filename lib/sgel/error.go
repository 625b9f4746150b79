// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sgel

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a [ParseError]. Kinds are also errors, so
// callers can test with errors.Is:
//
//	if errors.Is(err, sgel.ErrUnknownTag) { ... }
type ErrorKind int

const (
	// ErrEmptyInput: the token list was empty.
	ErrEmptyInput ErrorKind = iota + 1
	// ErrArityMismatch: a command or tag had too few or too many
	// arguments.
	ErrArityMismatch
	// ErrUnknownOption: a layer option did not start with a known
	// character.
	ErrUnknownOption
	// ErrMalformedNumber: a token that must be numeric was not.
	ErrMalformedNumber
	// ErrInvalidRange: a number parsed but is not allowed (NaN,
	// infinity, negative layer index).
	ErrInvalidRange
	// ErrConflictingShapeFields: more than one of vertices, radius
	// and text was given to a geometry update.
	ErrConflictingShapeFields
	// ErrUnknownTag: a geometry update contained an unrecognized tag.
	ErrUnknownTag
)

// String returns the kind's name, e.g. "unknown_tag".
func (kind ErrorKind) String() string {
	switch kind {
	case ErrEmptyInput:
		return "empty_input"
	case ErrArityMismatch:
		return "arity_mismatch"
	case ErrUnknownOption:
		return "unknown_option"
	case ErrMalformedNumber:
		return "malformed_number"
	case ErrInvalidRange:
		return "invalid_range"
	case ErrConflictingShapeFields:
		return "conflicting_shape_fields"
	case ErrUnknownTag:
		return "unknown_tag"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(kind))
	}
}

func (kind ErrorKind) Error() string {
	return strings.ReplaceAll(kind.String(), "_", " ")
}

// ParseError describes why a token list could not be parsed. Tokens
// holds the complete input so that a logged error identifies the
// offending line.
type ParseError struct {
	Kind    ErrorKind
	Message string
	Tokens  []string

	// Fields names the offending shape fields for
	// ErrConflictingShapeFields. Nil for other kinds.
	Fields []string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (tokens: %q)", e.Message, e.Tokens)
}

// Unwrap returns the error's kind so errors.Is can match on it.
func (e *ParseError) Unwrap() error {
	return e.Kind
}

func newParseError(kind ErrorKind, tokens []string, format string, args ...any) *ParseError {
	return &ParseError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Tokens:  tokens,
	}
}
