// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package viewerui

import "github.com/charmbracelet/lipgloss"

// Theme defines the inspector's colours. All colours use lipgloss ANSI
// 256-color codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	SceneForeground  lipgloss.Color
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Connection state in the status line.
	Connected    lipgloss.Color
	Disconnected lipgloss.Color

	// Status-line log records.
	Warning lipgloss.Color
	Error   lipgloss.Color

	// Background tint for recently changed rows.
	HotAccentPut    lipgloss.Color
	HotAccentRemove lipgloss.Color
}

// DefaultTheme is tuned for 256-color terminals with a dark background.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	SceneForeground:  lipgloss.Color("75"),
	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	Connected:    lipgloss.Color("114"),
	Disconnected: lipgloss.Color("245"),

	Warning: lipgloss.Color("220"),
	Error:   lipgloss.Color("196"),

	HotAccentPut:    lipgloss.Color("58"),
	HotAccentRemove: lipgloss.Color("52"),
}
