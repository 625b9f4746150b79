// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package viewerui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/svsviewer/lib/clock"
	"github.com/bureau-foundation/svsviewer/lib/scene"
	"github.com/bureau-foundation/svsviewer/lib/session"
	"github.com/bureau-foundation/svsviewer/transport"
)

// Split ratio bounds and step size.
const (
	splitRatioMin  = 0.20
	splitRatioMax  = 0.80
	splitRatioStep = 0.05
)

// batchMsg delivers one parsed protocol line to Update.
type batchMsg struct {
	batch session.Batch
}

// connectionMsg delivers a transport state change to Update.
type connectionMsg struct {
	event transport.Event
}

// heatTickMsg drives the heat decay animation while any row is hot.
type heatTickMsg struct{}

// listRow is a scene header (geometry == nil) or a geometry entry.
type listRow struct {
	scene    string
	count    int
	geometry *scene.Geometry
}

func (row listRow) key() string {
	if row.geometry == nil {
		return sceneHeatKey(row.scene)
	}
	return geometryHeatKey(row.geometry.Key())
}

func sceneHeatKey(name string) string { return name }

func geometryHeatKey(key scene.GeometryKey) string {
	return key.Scene + "\x00" + key.Geometry
}

// Config configures a [Model].
type Config struct {
	// Applier applies incoming batches. Its Registry is the registry
	// being displayed. Required.
	Applier *session.Applier

	// Batches delivers parsed lines, usually [session.Queue.Batches].
	Batches <-chan session.Batch

	// Events delivers connection state changes.
	Events <-chan transport.Event

	// Stats, if set, supplies the pipeline counters for the status line.
	Stats func() session.Stats

	// ScenePattern is the scene filter used while the filter input is
	// empty. Empty means "*".
	ScenePattern string

	// Highlight is how long a changed row stays tinted.
	Highlight time.Duration

	// Clock drives heat decay. Nil selects the real clock.
	Clock clock.Clock
}

// Model is the bubbletea model for the scene inspector.
type Model struct {
	applier  *session.Applier
	registry *scene.Registry
	batches  <-chan session.Batch
	events   <-chan transport.Event
	stats    func() session.Stats
	clock    clock.Clock
	theme    Theme
	keys     KeyMap

	scenePattern string

	width      int
	height     int
	ready      bool
	splitRatio float64

	filter       Filter
	rows         []listRow
	cursor       int
	scrollOffset int
	selectedKey  string

	heat        *HeatTracker
	tickRunning bool

	connection    transport.Event
	hasConnection bool
	batchesSeen   uint64

	logSummary  string
	logLevel    slog.Level
	logSequence uint64
}

// NewModel returns a model showing config.Applier.Registry.
func NewModel(config Config) Model {
	if config.Applier == nil || config.Applier.Registry == nil {
		panic("viewerui: Config.Applier with a Registry is required")
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.ScenePattern == "" {
		config.ScenePattern = "*"
	}

	model := Model{
		applier:      config.Applier,
		registry:     config.Applier.Registry,
		batches:      config.Batches,
		events:       config.Events,
		stats:        config.Stats,
		clock:        config.Clock,
		theme:        DefaultTheme,
		keys:         DefaultKeyMap,
		scenePattern: config.ScenePattern,
		splitRatio:   0.45,
		heat:         NewHeatTracker(config.Highlight),
	}
	model.rebuildRows()
	return model
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	var commands []tea.Cmd
	if model.batches != nil {
		commands = append(commands, listenForBatch(model.batches))
	}
	if model.events != nil {
		commands = append(commands, listenForEvent(model.events))
	}
	return tea.Batch(commands...)
}

func listenForBatch(channel <-chan session.Batch) tea.Cmd {
	return func() tea.Msg {
		batch, ok := <-channel
		if !ok {
			return nil
		}
		return batchMsg{batch: batch}
	}
}

func listenForEvent(channel <-chan transport.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-channel
		if !ok {
			return nil
		}
		return connectionMsg{event: event}
	}
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		if model.filter.Active {
			return model.handleFilterKeys(message)
		}
		return model.handleListKeys(message)

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.ensureCursorVisible()

	case batchMsg:
		return model.handleBatch(message.batch)

	case connectionMsg:
		model.connection = message.event
		model.hasConnection = true
		return model, listenForEvent(model.events)

	case heatTickMsg:
		if model.heat.HasHot(model.clock.Now()) {
			return model, scheduleHeatTick()
		}
		model.tickRunning = false

	case logRecordMsg:
		model.logSequence++
		model.logSummary = message.Summary
		model.logLevel = message.Level
		sequence := model.logSequence
		return model, tea.Tick(logRecordFadeDelay, func(time.Time) tea.Msg {
			return logRecordFadeMsg{sequence: sequence}
		})

	case logRecordFadeMsg:
		if message.sequence == model.logSequence {
			model.logSummary = ""
		}
	}
	return model, nil
}

// handleBatch applies batch, ignites the affected rows and re-listens.
func (model Model) handleBatch(batch session.Batch) (tea.Model, tea.Cmd) {
	changes := model.applier.ApplyBatch(batch)
	model.batchesSeen++

	now := model.clock.Now()
	for _, change := range changes {
		model.ignite(change, now)
	}
	model.rebuildRows()

	commands := []tea.Cmd{listenForBatch(model.batches)}
	if len(changes) > 0 && !model.tickRunning {
		model.tickRunning = true
		commands = append(commands, scheduleHeatTick())
	}
	return model, tea.Batch(commands...)
}

func (model *Model) ignite(change scene.Change, now time.Time) {
	if change.Kind == scene.ChangeGeometriesDeleted {
		for _, key := range change.Geometries {
			model.heat.Ignite(sceneHeatKey(key.Scene), HeatRemove, now)
		}
		return
	}
	for _, name := range change.Scenes {
		model.heat.Ignite(sceneHeatKey(name), HeatPut, now)
	}
	for _, key := range change.Geometries {
		model.heat.Ignite(geometryHeatKey(key), HeatPut, now)
	}
}

func scheduleHeatTick() tea.Cmd {
	return tea.Tick(heatTickInterval, func(time.Time) tea.Msg {
		return heatTickMsg{}
	})
}

func (model Model) handleListKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit
	case key.Matches(message, model.keys.Up):
		model.moveCursor(-1)
	case key.Matches(message, model.keys.Down):
		model.moveCursor(1)
	case key.Matches(message, model.keys.PageUp):
		model.moveCursor(-max(model.visibleHeight(), 1))
	case key.Matches(message, model.keys.PageDown):
		model.moveCursor(max(model.visibleHeight(), 1))
	case key.Matches(message, model.keys.Home):
		model.moveCursor(-len(model.rows))
	case key.Matches(message, model.keys.End):
		model.moveCursor(len(model.rows))
	case key.Matches(message, model.keys.SplitGrow):
		model.splitRatio = min(model.splitRatio+splitRatioStep, splitRatioMax)
	case key.Matches(message, model.keys.SplitShrink):
		model.splitRatio = max(model.splitRatio-splitRatioStep, splitRatioMin)
	case key.Matches(message, model.keys.FilterActivate):
		model.filter.Active = true
	case key.Matches(message, model.keys.FilterClear):
		if model.filter.Input != "" {
			model.filter.Clear()
			model.rebuildRows()
		}
	}
	return model, nil
}

func (model Model) handleFilterKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case message.Type == tea.KeyCtrlC:
		return model, tea.Quit

	case key.Matches(message, model.keys.FilterClear):
		if model.filter.Input != "" {
			model.filter.Input = ""
			model.rebuildRows()
		} else {
			model.filter.Active = false
		}

	case message.Type == tea.KeyEnter:
		model.filter.Active = false

	case message.Type == tea.KeyBackspace:
		if model.filter.HandleBackspace() {
			model.rebuildRows()
		}

	case message.Type == tea.KeyRunes || message.Type == tea.KeySpace:
		if message.Type == tea.KeySpace {
			model.filter.HandleRune(' ')
		}
		for _, character := range message.Runes {
			model.filter.HandleRune(character)
		}
		model.cursor = 0
		model.scrollOffset = 0
		model.selectedKey = ""
		model.rebuildRows()
	}
	return model, nil
}

// rebuildRows re-reads the registry through the current filter and
// keeps the selection on the same key when it still exists.
func (model *Model) rebuildRows() {
	sceneMatcher, geometryMatcher, narrowed := model.filter.Matchers(model.scenePattern)

	var rows []listRow
	for _, entry := range model.registry.FindScenes(sceneMatcher) {
		geometries := entry.Find(geometryMatcher)
		if narrowed && len(geometries) == 0 {
			continue
		}
		rows = append(rows, listRow{scene: entry.Name(), count: entry.Len()})
		for _, geometry := range geometries {
			rows = append(rows, listRow{scene: entry.Name(), geometry: geometry})
		}
	}
	model.rows = rows

	if model.selectedKey != "" {
		for index, row := range rows {
			if row.key() == model.selectedKey {
				model.cursor = index
				model.ensureCursorVisible()
				return
			}
		}
	}
	model.moveCursor(0)
}

// moveCursor moves the cursor by delta rows, clamped to the list.
func (model *Model) moveCursor(delta int) {
	model.cursor = max(min(model.cursor+delta, len(model.rows)-1), 0)
	model.selectedKey = ""
	if model.cursor < len(model.rows) {
		model.selectedKey = model.rows[model.cursor].key()
	}
	model.ensureCursorVisible()
}

func (model *Model) ensureCursorVisible() {
	visible := model.visibleHeight()
	if visible <= 0 {
		return
	}
	model.scrollOffset = min(model.scrollOffset, max(len(model.rows)-visible, 0))
	if model.cursor < model.scrollOffset {
		model.scrollOffset = model.cursor
	}
	if model.cursor >= model.scrollOffset+visible {
		model.scrollOffset = model.cursor - visible + 1
	}
}

// selected returns the row under the cursor, or nil for an empty list.
func (model Model) selected() *listRow {
	if model.cursor < 0 || model.cursor >= len(model.rows) {
		return nil
	}
	return &model.rows[model.cursor]
}

// visibleHeight is the number of content rows between the top line
// and the separator plus status line.
func (model Model) visibleHeight() int {
	return model.height - 3
}

func (model Model) listWidth() int {
	return max(int(float64(model.width)*model.splitRatio), 10)
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}

	var sections []string
	if filterView := model.filter.View(model.theme, model.width); filterView != "" {
		sections = append(sections, filterView)
	} else {
		sections = append(sections, model.renderHeader())
	}

	visible := max(model.visibleHeight(), 0)
	detailWidth := max(model.width-model.listWidth()-1, 10)
	detail := detailLines(model.registry, model.selected(), model.theme, detailWidth, visible)
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top,
		model.renderList(),
		model.renderDivider(),
		lipgloss.NewStyle().Width(detailWidth).Height(visible).Render(strings.Join(detail, "\n")),
	))

	sections = append(sections, lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Render(strings.Repeat("─", model.width)))
	sections = append(sections, model.renderStatus())

	return strings.Join(sections, "\n")
}

// renderHeader renders the title rule with registry totals on the right.
//
// Example: ─── svs-viewer ───────────── 3 scenes  12 geometries ─
func (model Model) renderHeader() string {
	separatorStyle := lipgloss.NewStyle().Foreground(model.theme.BorderColor)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	statsStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	title := "svs-viewer"
	stats := fmt.Sprintf("%d scenes  %d geometries", model.registry.Len(), model.registry.GeometryCount())

	fill := max(model.width-3-1-lipgloss.Width(title)-1-1-lipgloss.Width(stats)-1-1, 1)
	return separatorStyle.Render("─── ") +
		titleStyle.Render(title) +
		separatorStyle.Render(" "+strings.Repeat("─", fill)+" ") +
		statsStyle.Render(stats) +
		separatorStyle.Render(" ─")
}

func (model Model) renderList() string {
	width := model.listWidth()
	visible := max(model.visibleHeight(), 0)
	now := model.clock.Now()

	sceneStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.SceneForeground)
	faintStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	selectedStyle := lipgloss.NewStyle().
		Background(model.theme.SelectedBackground).
		Foreground(model.theme.SelectedForeground).
		Width(width).
		MaxWidth(width)

	rows := make([]string, 0, visible)
	for index := model.scrollOffset; index < model.scrollOffset+visible && index < len(model.rows); index++ {
		row := model.rows[index]
		var text string
		if row.geometry == nil {
			text = sceneStyle.Render("▾ "+row.scene) + faintStyle.Render(fmt.Sprintf(" (%d)", row.count))
		} else {
			text = "    " + row.geometry.Name + faintStyle.Render("  "+row.geometry.Shape.Kind.String())
		}
		text = ansi.Truncate(text, width, "…")

		switch heat := model.heat.Heat(row.key(), now); {
		case index == model.cursor:
			text = selectedStyle.Render(ansi.Strip(text))
		case heat > 0:
			accent := model.theme.HotAccentPut
			if model.heat.Kind(row.key()) == HeatRemove {
				accent = model.theme.HotAccentRemove
			}
			text = lipgloss.NewStyle().Background(accent).Width(width).MaxWidth(width).Render(text)
		}
		rows = append(rows, text)
	}

	if len(model.rows) == 0 && visible > 0 {
		rows = append(rows, faintStyle.Render(ansi.Truncate(" no scenes match", width, "…")))
	}

	return lipgloss.NewStyle().Width(width).Height(visible).Render(strings.Join(rows, "\n"))
}

func (model Model) renderDivider() string {
	visible := max(model.visibleHeight(), 0)
	lines := make([]string, visible)
	for index := range lines {
		lines[index] = "│"
	}
	return lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Width(1).
		Height(visible).
		Render(strings.Join(lines, "\n"))
}

// renderStatus renders the connection state, counters, and either the
// latest log record or the key help.
func (model Model) renderStatus() string {
	connectionStyle := lipgloss.NewStyle().Foreground(model.theme.Disconnected)
	connection := "waiting"
	if model.hasConnection {
		switch model.connection.Kind {
		case transport.EventListening:
			connection = "listening on " + model.connection.Address
		case transport.EventConnected:
			connection = "connected " + model.connection.Address
			connectionStyle = connectionStyle.Foreground(model.theme.Connected)
		case transport.EventDisconnected:
			connection = "disconnected"
			if model.connection.Err != nil {
				connection += ": " + model.connection.Err.Error()
			}
		}
	}

	status := " " + connectionStyle.Render(connection)
	if model.stats != nil {
		stats := model.stats()
		status += lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(
			fmt.Sprintf("  lines %d  commands %d  errors %d", stats.Lines, stats.Commands, stats.Errors))
	}

	if model.logSummary != "" {
		color := model.theme.Warning
		if model.logLevel >= slog.LevelError {
			color = model.theme.Error
		}
		status += "  " + lipgloss.NewStyle().Foreground(color).Bold(true).Render(model.logSummary)
	} else {
		status += lipgloss.NewStyle().Foreground(model.theme.HelpText).Render(
			"  q quit  ↑↓ navigate  ]/[ resize  / filter")
	}
	return ansi.Truncate(status, model.width, "…")
}
