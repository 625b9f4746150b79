// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package viewerui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/svsviewer/lib/sgel"
)

// Filter holds the wildcard filter typed after /.
type Filter struct {
	// Input is the query text: "scenePattern" or
	// "scenePattern/geometryPattern".
	Input string

	// Active is true while the filter input has keyboard focus.
	Active bool
}

// Matchers resolves the query into scene and geometry matchers. An
// empty query uses fallback as the scene pattern. An empty part of the
// query matches everything. narrowed reports whether a geometry
// pattern was given, in which case scenes without a matching geometry
// are hidden.
func (filter *Filter) Matchers(fallback string) (scenes, geometries sgel.NameMatcher, narrowed bool) {
	query := filter.Input
	if query == "" {
		query = fallback
	}
	scenePattern, geometryPattern, narrowed := strings.Cut(query, "/")
	if scenePattern == "" {
		scenePattern = "*"
	}
	if geometryPattern == "" {
		geometryPattern = "*"
		narrowed = false
	}
	return sgel.Wildcard(scenePattern), sgel.Wildcard(geometryPattern), narrowed
}

// HandleRune appends a typed character.
func (filter *Filter) HandleRune(character rune) {
	filter.Input += string(character)
}

// HandleBackspace removes the last character. It reports whether the
// input changed.
func (filter *Filter) HandleBackspace() bool {
	if filter.Input == "" {
		return false
	}
	runes := []rune(filter.Input)
	filter.Input = string(runes[:len(runes)-1])
	return true
}

// Clear empties and deactivates the filter.
func (filter *Filter) Clear() {
	filter.Input = ""
	filter.Active = false
}

// View renders the filter bar, or "" when there is nothing to show.
func (filter *Filter) View(theme Theme, width int) string {
	if !filter.Active && filter.Input == "" {
		return ""
	}
	if filter.Active {
		cursor := lipgloss.NewStyle().
			Foreground(theme.HeaderForeground).
			Bold(true).
			Render("▎")
		return lipgloss.NewStyle().
			Foreground(theme.NormalText).
			Width(width).
			Render(" / " + filter.Input + cursor)
	}
	return lipgloss.NewStyle().
		Foreground(theme.FaintText).
		Width(width).
		Render(" filter: " + filter.Input)
}
