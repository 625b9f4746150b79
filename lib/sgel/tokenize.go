// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sgel

import (
	"regexp"
	"strings"
)

// fieldPattern matches one field preceded by the start of input or a
// whitespace run. The field is either a run of characters that are
// neither whitespace nor '"', or a '"'-delimited run in which a
// backslash may only appear as "\\" or "\"".
//
// A '"' that does not open a well-formed quoted field cannot start a
// match, so an unterminated quote and everything up to the next
// whitespace-preceded field is skipped.
var fieldPattern = regexp.MustCompile(`(?:^|\s+)([^"\s]+|"(?:\\\\|\\"|[^"\\])*")`)

// Tokenize splits line into fields. Leading and trailing whitespace is
// ignored and an empty or all-whitespace line yields no fields.
//
// Quoted fields lose their surrounding quotes. In every field "\\" is
// collapsed to "\"; inside quoted fields "\"" is left as the two
// characters '\' '"' rather than collapsed to '"'.
func Tokenize(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return []string{}
	}

	matches := fieldPattern.FindAllStringSubmatch(line, -1)
	fields := make([]string, 0, len(matches))
	for _, match := range matches {
		fields = append(fields, cleanField(match[1]))
	}
	return fields
}

func cleanField(field string) string {
	if strings.HasPrefix(field, `"`) {
		field = field[1 : len(field)-1]
	}
	return strings.ReplaceAll(field, `\\`, `\`)
}
