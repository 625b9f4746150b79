// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package viewerui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/svsviewer/lib/pose"
	"github.com/bureau-foundation/svsviewer/lib/scene"
	"github.com/bureau-foundation/svsviewer/lib/sgel"
)

// detailLines renders the right pane for the selected row. Lines are
// truncated to width and the result is padded to height.
func detailLines(registry *scene.Registry, selected *listRow, theme Theme, width, height int) []string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.FaintText)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground)

	var lines []string
	field := func(label, value string) {
		lines = append(lines, labelStyle.Render(fmt.Sprintf(" %-11s", label))+value)
	}

	switch {
	case selected == nil:
		lines = append(lines, labelStyle.Render(" nothing selected"))

	case selected.geometry == nil:
		lines = append(lines, titleStyle.Render(" "+selected.scene), "")
		if sceneEntry, ok := registry.Scene(selected.scene); ok {
			field("geometries", fmt.Sprint(sceneEntry.Len()))
		}
		layers := registry.Layers()
		if len(layers) == 0 {
			field("layers", "none configured")
		}
		for _, layer := range layers {
			field(fmt.Sprintf("layer %d", layer.Number), formatLayerOptions(layer.Options))
		}

	default:
		geometry := selected.geometry
		lines = append(lines, titleStyle.Render(" "+geometry.Key().String()), "")
		field("position", formatVec(geometry.Position))
		field("rotation", formatFloats(geometry.Rotation[:]))
		field("axis-angle", fmt.Sprintf("%s  %.2f°", formatVec(geometry.Axis), geometry.AngleDegrees))
		field("scale", formatVec(geometry.Scale))
		if geometry.Color != nil {
			field("colour", formatVec(*geometry.Color))
		} else {
			field("colour", "default")
		}
		field("shape", geometry.Shape.String())
		if bounds, ok := geometry.Shape.Mesh.(*scene.BoundsMesh); ok {
			field("bounds", formatVec(bounds.Min)+" .. "+formatVec(bounds.Max))
		}
		field("layer", fmt.Sprint(geometry.Layer))
		field("line width", formatFloats([]float64{geometry.LineWidth}))
	}

	for index, line := range lines {
		lines[index] = ansi.Truncate(line, width, "…")
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines[:max(height, 0)]
}

func formatVec(vector pose.Vec3) string {
	return formatFloats(vector[:])
}

func formatFloats(values []float64) string {
	parts := make([]string, len(values))
	for index, value := range values {
		parts[index] = fmt.Sprintf("%g", value)
	}
	return strings.Join(parts, " ")
}

// formatLayerOptions renders options in wire-tag order.
func formatLayerOptions(options map[sgel.LayerOption]int) string {
	if len(options) == 0 {
		return "defaults"
	}
	keys := make([]sgel.LayerOption, 0, len(options))
	for option := range options {
		keys = append(keys, option)
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for index, option := range keys {
		parts[index] = fmt.Sprintf("%s=%d", option, options[option])
	}
	return strings.Join(parts, " ")
}
