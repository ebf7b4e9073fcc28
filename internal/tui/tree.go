package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Sid-Romero/tech-roadmap/internal/gamify"
	"github.com/Sid-Romero/tech-roadmap/internal/graph"
	"github.com/Sid-Romero/tech-roadmap/internal/roadmap"
	"github.com/Sid-Romero/tech-roadmap/internal/store"
	"github.com/Sid-Romero/tech-roadmap/internal/timer"
)

// One canvas cell covers 10×30 world units, so the 18×4 cell node box
// matches the engine's 180×120 hit box.
const (
	cellWidth  = 10.0
	cellHeight = 30.0
	nodeCols   = 18
	nodeRows   = 4
	moveStep   = 25.0 // world units per arrow press
)

// Canvas paint codes. Node cells use paintNodeBase plus the node's
// index in the working collection.
const (
	paintBlank byte = iota
	paintEdge
	paintEdgeActive
	paintEdgePending
	paintNodeBase
)

type treeMode int

const (
	treeBrowse treeMode = iota
	treeMove
	treeConnect
	treeDetach
)

// treeModel is the dependency-graph editor. Structural edits go through
// the graph engine; status changes and XP through store and awards.
type treeModel struct {
	store   *store.Store
	graph   *graph.Engine
	awards  *gamify.Engine
	tracker *timer.Timer

	width  int
	height int

	selectedID   string
	mode         treeMode
	pointer      roadmap.Coordinates // connect-mode free end
	detachCursor int
}

func newTreeModel(s *store.Store, g *graph.Engine, awards *gamify.Engine, tracker *timer.Timer) treeModel {
	m := treeModel{store: s, graph: g, awards: awards, tracker: tracker}
	if ps := g.Projects(); len(ps) > 0 {
		m.selectedID = ps[0].ID
	}
	return m
}

func (m *treeModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

// capturing reports whether the view is mid-gesture and should see
// every key before the global bindings do.
func (m treeModel) capturing() bool {
	return m.mode != treeBrowse
}

// syncSelection revalidates the selection after the collection changed.
func (m *treeModel) syncSelection() {
	ps := m.graph.Projects()
	if len(ps) == 0 {
		m.selectedID = ""
		return
	}
	for _, p := range ps {
		if p.ID == m.selectedID {
			return
		}
	}
	m.selectedID = ps[0].ID
}

func (m treeModel) refresh() tea.Cmd {
	return func() tea.Msg {
		projects, err := m.store.ListProjects()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		return projectsMsg{projects: projects}
	}
}

func (m treeModel) selected() (roadmap.Project, bool) {
	return m.graph.Project(m.selectedID)
}

func (m treeModel) selectStep(delta int) treeModel {
	ps := m.graph.Projects()
	if len(ps) == 0 {
		return m
	}
	idx := 0
	for i, p := range ps {
		if p.ID == m.selectedID {
			idx = (i + delta + len(ps)) % len(ps)
			break
		}
	}
	m.selectedID = ps[idx].ID
	return m
}

// resolvedDeps returns the selected node's dependencies that still
// resolve, in list order. Dangling ids are invisible here.
func (m treeModel) resolvedDeps(p roadmap.Project) []roadmap.Project {
	var deps []roadmap.Project
	for _, id := range p.Dependencies {
		if dep, ok := m.graph.Project(id); ok {
			deps = append(deps, dep)
		}
	}
	return deps
}

func (m treeModel) update(msg tea.Msg) (treeModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch m.mode {
	case treeMove:
		return m.updateMove(keyMsg)
	case treeConnect:
		return m.updateConnect(keyMsg)
	case treeDetach:
		return m.updateDetach(keyMsg)
	}
	return m.updateBrowse(keyMsg)
}

func (m treeModel) updateBrowse(msg tea.KeyMsg) (treeModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Left), key.Matches(msg, keys.Up):
		return m.selectStep(-1), nil
	case key.Matches(msg, keys.Right), key.Matches(msg, keys.Down):
		return m.selectStep(1), nil

	case key.Matches(msg, keys.Move):
		sel, ok := m.selected()
		if !ok {
			return m, nil
		}
		if m.graph.BeginMove(sel.ID, sel.Position) {
			m.mode = treeMove
		}
		return m, nil

	case key.Matches(msg, keys.Connect):
		sel, ok := m.selected()
		if !ok {
			return m, nil
		}
		if m.graph.BeginConnect(sel.ID, sel.Position) {
			m.mode = treeConnect
			m.pointer = sel.Position
		}
		return m, nil

	case key.Matches(msg, keys.Detach):
		sel, ok := m.selected()
		if !ok {
			return m, nil
		}
		if len(m.resolvedDeps(sel)) == 0 {
			return m, toast("No dependencies to detach", false)
		}
		m.mode = treeDetach
		m.detachCursor = 0
		return m, nil

	case key.Matches(msg, keys.Advance):
		return m.shiftStatus(true)

	case key.Matches(msg, keys.Regress):
		return m.shiftStatus(false)

	case key.Matches(msg, keys.Track):
		sel, ok := m.selected()
		if !ok {
			return m, nil
		}
		id := sel.ID
		if !m.tracker.Start(&id, nil) {
			return m, toast("Already tracking another project", true)
		}
		return m, toast("Tracking "+sel.Title, false)
	}
	return m, nil
}

func (m treeModel) updateMove(msg tea.KeyMsg) (treeModel, tea.Cmd) {
	if dx, dy, ok := arrowDelta(msg); ok {
		// BeginMove anchored the pointer at the node position, so the
		// staged position doubles as the pointer.
		if _, staged, moving := m.graph.Moving(); moving {
			m.graph.UpdateMove(roadmap.Coordinates{X: staged.X + dx, Y: staged.Y + dy})
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Enter):
		moved, err := m.graph.EndMove()
		if err != nil {
			// Staged state survives; enter retries, esc discards.
			return m, toast(fmt.Sprintf("Save error: %v", err), true)
		}
		m.mode = treeBrowse
		if !moved {
			return m, nil
		}
		projects := m.graph.Projects()
		return m, tea.Batch(
			func() tea.Msg { return projectsMsg{projects: projects} },
			toast("Position saved", false),
		)
	case key.Matches(msg, keys.Back):
		m.graph.CancelMove()
		m.mode = treeBrowse
		return m, nil
	}
	return m, nil
}

func (m treeModel) updateConnect(msg tea.KeyMsg) (treeModel, tea.Cmd) {
	if dx, dy, ok := arrowDelta(msg); ok {
		m.pointer = roadmap.Coordinates{X: m.pointer.X + dx, Y: m.pointer.Y + dy}
		m.graph.UpdateConnect(m.pointer)
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Tab):
		m.pointer = m.snapNext()
		m.graph.UpdateConnect(m.pointer)
		return m, nil

	case key.Matches(msg, keys.Enter):
		linked, err := m.graph.EndConnect(m.pointer)
		m.mode = treeBrowse
		if err != nil {
			return m, toast(fmt.Sprintf("Save error: %v", err), true)
		}
		if !linked {
			// Empty canvas, self-link, duplicate or cycle: no-op.
			return m, nil
		}
		projects := m.graph.Projects()
		return m, tea.Batch(
			func() tea.Msg { return projectsMsg{projects: projects} },
			toast("Dependency added", false),
		)
	case key.Matches(msg, keys.Back):
		m.graph.CancelConnect()
		m.mode = treeBrowse
		return m, nil
	}
	return m, nil
}

// snapNext moves the connect pointer to the next node after the one it
// currently sits on, skipping the source.
func (m treeModel) snapNext() roadmap.Coordinates {
	srcID, _, ok := m.graph.Pending()
	if !ok {
		return m.pointer
	}
	ps := m.graph.Projects()
	start := 0
	if cur, onNode := m.graph.NodeAt(m.pointer); onNode {
		for i, p := range ps {
			if p.ID == cur.ID {
				start = i + 1
				break
			}
		}
	}
	for i := 0; i < len(ps); i++ {
		p := ps[(start+i)%len(ps)]
		if p.ID == srcID {
			continue
		}
		return p.Position
	}
	return m.pointer
}

func (m treeModel) updateDetach(msg tea.KeyMsg) (treeModel, tea.Cmd) {
	sel, ok := m.selected()
	if !ok {
		m.mode = treeBrowse
		return m, nil
	}
	deps := m.resolvedDeps(sel)

	switch {
	case key.Matches(msg, keys.Up):
		if m.detachCursor > 0 {
			m.detachCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.detachCursor < len(deps)-1 {
			m.detachCursor++
		}
	case key.Matches(msg, keys.Enter):
		m.mode = treeBrowse
		if m.detachCursor >= len(deps) {
			return m, nil
		}
		dep := deps[m.detachCursor]
		removed, err := m.graph.Disconnect(dep.ID, sel.ID)
		if err != nil {
			return m, toast(fmt.Sprintf("Save error: %v", err), true)
		}
		if !removed {
			return m, nil
		}
		projects := m.graph.Projects()
		return m, tea.Batch(
			func() tea.Msg { return projectsMsg{projects: projects} },
			toast("Dependency removed", false),
		)
	case key.Matches(msg, keys.Back):
		m.mode = treeBrowse
	}
	return m, nil
}

// shiftStatus steps the selected project's lifecycle and routes
// completion XP when the step finishes the project.
func (m treeModel) shiftStatus(forward bool) (treeModel, tea.Cmd) {
	sel, ok := m.selected()
	if !ok {
		return m, nil
	}
	prev := sel.Status
	next := roadmap.NextStatus(prev)
	if !forward {
		next = roadmap.PrevStatus(prev)
	}
	if next == prev {
		return m, nil
	}

	roadmap.ApplyStatus(&sel, next, time.Now().UTC())
	projects, err := m.store.UpdateProject(sel)
	if err != nil {
		return m, toast(fmt.Sprintf("Save error: %v", err), true)
	}

	cmds := []tea.Cmd{
		func() tea.Msg { return projectsMsg{projects: projects} },
	}
	if roadmap.CompletionTriggered(prev, next) {
		award, err := m.awards.AwardCompletion(sel, projects)
		if err != nil {
			cmds = append(cmds, toast(fmt.Sprintf("XP error: %v", err), true))
		} else {
			cmds = append(cmds, func() tea.Msg { return awardMsg{award: award} })
		}
	} else {
		text := "Status: " + statusLabel(next)
		if !roadmap.DependenciesMet(sel, projects) {
			text += " · deps pending"
		}
		cmds = append(cmds, toast(text, false))
	}
	return m, tea.Batch(cmds...)
}

func arrowDelta(msg tea.KeyMsg) (float64, float64, bool) {
	switch {
	case key.Matches(msg, keys.Left):
		return -moveStep, 0, true
	case key.Matches(msg, keys.Right):
		return moveStep, 0, true
	case key.Matches(msg, keys.Up):
		return 0, -moveStep, true
	case key.Matches(msg, keys.Down):
		return 0, moveStep, true
	}
	return 0, 0, false
}

// ============================================================
// Rendering
// ============================================================

func (m treeModel) view() string {
	if m.width < 40 || m.height < 10 {
		return "Terminal too small"
	}

	parts := []string{m.renderStatusLine()}
	if m.mode == treeDetach {
		parts = append(parts, m.renderDetachPicker())
	}

	hint := m.renderHint()
	used := 1 // hint
	for _, p := range parts {
		used += lipgloss.Height(p)
	}
	canvasRows := m.height - used
	if canvasRows < 5 {
		canvasRows = 5
	}

	parts = append(parts, m.renderCanvas(m.width, canvasRows), hint)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m treeModel) renderStatusLine() string {
	sel, ok := m.selected()
	if !ok {
		return headerStyle.Render(
			titleStyle.Render("Roadmap") + "  " +
				mutedStyle.Render("No projects yet. Press 2 to create one."),
		)
	}

	glyph := nodeStyle(sel.Status).Render(statusGlyph(sel.Status))
	deps := successStyle.Render("deps met")
	if !roadmap.DependenciesMet(sel, m.graph.Projects()) {
		deps = warningStyle.Render("deps pending")
	}

	mode := ""
	switch m.mode {
	case treeMove:
		mode = "  " + nodeMovingStyle.Render("MOVE")
	case treeConnect:
		mode = "  " + accentStyle.Render("CONNECT")
	case treeDetach:
		mode = "  " + accentStyle.Render("DETACH")
	}

	return headerStyle.Render(fmt.Sprintf("%s %s  %s · %s · %s%s",
		glyph,
		titleStyle.Render(sel.Title),
		mutedStyle.Render(sel.Category),
		mutedStyle.Render(statusLabel(sel.Status)),
		deps,
		mode,
	))
}

func (m treeModel) renderHint() string {
	var hint string
	switch m.mode {
	case treeMove:
		hint = "arrows: drag  enter: save  esc: cancel"
	case treeConnect:
		hint = "arrows: aim  tab: snap to node  enter: link  esc: cancel"
	case treeDetach:
		hint = "↑/↓: choose  enter: detach  esc: cancel"
	default:
		hint = "←/→: select  m: move  c: connect  x: detach  space/S: status  t: track"
	}
	return footerStyle.Render(hint)
}

func (m treeModel) renderDetachPicker() string {
	sel, ok := m.selected()
	if !ok {
		return ""
	}
	deps := m.resolvedDeps(sel)

	var rows []string
	rows = append(rows, titleStyle.Render("Detach dependency"))
	for i, dep := range deps {
		cursor := "  "
		style := normalItemStyle
		if i == m.detachCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s", cursor, statusGlyph(dep.Status), dep.Title)))
	}
	return activePanelStyle.Width(m.width - 4).Render(strings.Join(rows, "\n"))
}

// renderCanvas rasterizes edges and node boxes onto a cell grid, then
// colors contiguous runs by their paint code.
func (m treeModel) renderCanvas(cols, rows int) string {
	grid := make([][]rune, rows)
	paint := make([][]byte, rows)
	for r := range grid {
		grid[r] = make([]rune, cols)
		paint[r] = make([]byte, cols)
		for c := range grid[r] {
			grid[r][c] = ' '
		}
	}

	focus := m.focusPoint()
	camX := focus.X - float64(cols)/2*cellWidth
	camY := focus.Y - float64(rows)/2*cellHeight
	toCell := func(pt roadmap.Coordinates) (int, int) {
		return int((pt.X - camX) / cellWidth), int((pt.Y - camY) / cellHeight)
	}

	// Dragged nodes render at their staged position so the preview
	// tracks the gesture; edges follow along.
	working := append([]roadmap.Project(nil), m.graph.Projects()...)
	if id, staged, moving := m.graph.Moving(); moving {
		for i := range working {
			if working[i].ID == id {
				working[i].Position = staged
			}
		}
	}

	for _, e := range graph.Edges(working) {
		ch, code := '·', paintEdge
		if e.Active {
			ch, code = '•', paintEdgeActive
		}
		plotCurve(grid, paint, e, toCell, ch, code)
	}

	if srcID, ptr, pending := m.graph.Pending(); pending {
		if src, found := m.graph.Project(srcID); found {
			start := roadmap.Coordinates{X: src.Position.X, Y: src.Position.Y + graph.HitHalfHeight}
			midY := (start.Y + ptr.Y) / 2
			preview := graph.Edge{
				Start: start,
				C1:    roadmap.Coordinates{X: start.X, Y: midY},
				C2:    roadmap.Coordinates{X: ptr.X, Y: midY},
				End:   ptr,
			}
			plotCurve(grid, paint, preview, toCell, '·', paintEdgePending)
			if col, row := toCell(ptr); row >= 0 && row < rows && col >= 0 && col < cols {
				grid[row][col] = '+'
				paint[row][col] = paintEdgePending
			}
		}
	}

	for i, p := range working {
		drawNode(grid, paint, p, paintNodeBase+byte(i), toCell)
	}

	styleFor := m.paintStyles(working)
	var b strings.Builder
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		runStart := 0
		for c := 1; c <= cols; c++ {
			if c == cols || paint[r][c] != paint[r][runStart] {
				segment := string(grid[r][runStart:c])
				if code := paint[r][runStart]; code == paintBlank {
					b.WriteString(segment)
				} else {
					b.WriteString(styleFor(code).Render(segment))
				}
				runStart = c
			}
		}
	}
	return b.String()
}

func (m treeModel) focusPoint() roadmap.Coordinates {
	if _, staged, moving := m.graph.Moving(); moving {
		return staged
	}
	if _, ptr, pending := m.graph.Pending(); pending {
		return ptr
	}
	if sel, ok := m.selected(); ok {
		return sel.Position
	}
	return roadmap.Coordinates{X: 400, Y: 400}
}

func (m treeModel) paintStyles(working []roadmap.Project) func(byte) lipgloss.Style {
	movingID, _, moving := m.graph.Moving()
	connectID, _, connecting := m.graph.Pending()

	return func(code byte) lipgloss.Style {
		switch code {
		case paintEdge:
			return edgeStyle
		case paintEdgeActive:
			return edgeActiveStyle
		case paintEdgePending:
			return edgePendingStyle
		}
		i := int(code - paintNodeBase)
		if i < 0 || i >= len(working) {
			return normalItemStyle
		}
		p := working[i]
		switch {
		case moving && p.ID == movingID:
			return nodeMovingStyle
		case connecting && p.ID == connectID:
			return accentStyle
		case p.ID == m.selectedID:
			return nodeSelectedStyle
		}
		return nodeStyle(p.Status)
	}
}

func plotCurve(grid [][]rune, paint [][]byte, e graph.Edge, toCell func(roadmap.Coordinates) (int, int), ch rune, code byte) {
	const steps = 32
	for i := 0; i <= steps; i++ {
		pt := graph.PointAt(e, float64(i)/steps)
		col, row := toCell(pt)
		if row < 0 || row >= len(grid) || col < 0 || col >= len(grid[row]) {
			continue
		}
		grid[row][col] = ch
		paint[row][col] = code
	}
}

func drawNode(grid [][]rune, paint [][]byte, p roadmap.Project, code byte, toCell func(roadmap.Coordinates) (int, int)) {
	centerCol, centerRow := toCell(p.Position)
	left := centerCol - nodeCols/2
	top := centerRow - nodeRows/2

	inner := nodeCols - 4
	title := pad(truncate(p.Title, inner), inner)
	meta := pad(fmt.Sprintf("%s c%d %.1fh", statusGlyph(p.Status), p.Complexity, p.TimeSpentHours), inner)

	lines := []string{
		"╭" + strings.Repeat("─", nodeCols-2) + "╮",
		"│ " + title + " │",
		"│ " + meta + " │",
		"╰" + strings.Repeat("─", nodeCols-2) + "╯",
	}
	for dr, line := range lines {
		row := top + dr
		if row < 0 || row >= len(grid) {
			continue
		}
		for dc, ch := range []rune(line) {
			col := left + dc
			if col < 0 || col >= len(grid[row]) {
				continue
			}
			grid[row][col] = ch
			paint[row][col] = code
		}
	}
}
