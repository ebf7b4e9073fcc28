package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Sid-Romero/tech-roadmap/internal/roadmap"
	"github.com/Sid-Romero/tech-roadmap/internal/store"
	"github.com/Sid-Romero/tech-roadmap/internal/timer"
)

var timerModes = []timer.Mode{timer.ModeFocus, timer.ModePomodoro, timer.ModeBreak}

// timerModel is the front panel for the shared tracker. The app owns
// the tick loop; this view only issues commands and renders state.
type timerModel struct {
	store   *store.Store
	tracker *timer.Timer
	width   int
	height  int

	projects []roadmap.Project
	recent   []store.SessionRecord

	picking      bool
	pickerCursor int
}

type sessionsMsg struct {
	recent []store.SessionRecord
}

func newTimerModel(s *store.Store, tracker *timer.Timer, projects []roadmap.Project) timerModel {
	return timerModel{store: s, tracker: tracker, projects: projects}
}

func (t *timerModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

func (t *timerModel) setProjects(projects []roadmap.Project) {
	t.projects = projects
	if t.pickerCursor >= len(t.projects) {
		t.pickerCursor = max(0, len(t.projects)-1)
	}
}

// refresh reloads the recent-session strip, newest first.
func (t timerModel) refresh() tea.Cmd {
	return func() tea.Msg {
		records, err := t.store.ListSessionRecords()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		recent := make([]store.SessionRecord, 0, 5)
		for i := len(records) - 1; i >= 0 && len(recent) < 5; i-- {
			recent = append(recent, records[i])
		}
		return sessionsMsg{recent: recent}
	}
}

func (t timerModel) update(msg tea.Msg) (timerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionsMsg:
		t.recent = msg.recent
		return t, nil

	case tea.KeyMsg:
		if t.picking {
			return t.updatePicker(msg)
		}

		switch {
		case key.Matches(msg, keys.Start):
			if t.tracker.State() == timer.StateRunning {
				return t, nil
			}
			if len(t.projects) == 0 {
				return t, toast("No projects yet. Press 2 to go to Projects and create one.", true)
			}
			if t.tracker.State() == timer.StatePaused {
				t.tracker.Start(t.tracker.ProjectID(), t.tracker.TaskID())
				return t, nil
			}
			if len(t.projects) == 1 {
				return t.startTracking(t.projects[0])
			}
			t.picking = true
			t.pickerCursor = 0
			return t, nil

		case key.Matches(msg, keys.Pause):
			switch t.tracker.State() {
			case timer.StateRunning:
				t.tracker.Pause()
			case timer.StatePaused:
				t.tracker.Start(t.tracker.ProjectID(), t.tracker.TaskID())
			}
			return t, nil

		case key.Matches(msg, keys.Stop):
			return t.stopTracking()

		case key.Matches(msg, keys.Mode):
			t.tracker.ChangeMode(nextMode(t.tracker.Mode()))
			return t, nil
		}
	}
	return t, nil
}

func (t timerModel) updatePicker(msg tea.KeyMsg) (timerModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if t.pickerCursor > 0 {
			t.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if t.pickerCursor < len(t.projects)-1 {
			t.pickerCursor++
		}
	case key.Matches(msg, keys.Enter):
		p := t.projects[t.pickerCursor]
		t.picking = false
		return t.startTracking(p)
	case key.Matches(msg, keys.Back):
		t.picking = false
	}
	return t, nil
}

func (t timerModel) startTracking(p roadmap.Project) (timerModel, tea.Cmd) {
	id := p.ID
	if !t.tracker.Start(&id, nil) {
		return t, toast("Already tracking another project", true)
	}
	return t, toast("Tracking "+p.Title, false)
}

func (t timerModel) stopTracking() (timerModel, tea.Cmd) {
	if t.tracker.State() == timer.StateIdle {
		return t, nil
	}
	res, err := t.tracker.Stop()
	if err != nil {
		return t, toast(fmt.Sprintf("Error: %v", err), true)
	}
	if !res.Recorded {
		return t, toast("Timer reset, nothing recorded", false)
	}

	projects := res.Projects
	award := res.Award
	return t, tea.Batch(
		func() tea.Msg { return projectsMsg{projects: projects} },
		func() tea.Msg { return awardMsg{award: award} },
		toast("Session recorded: "+formatSeconds(res.Session.DurationSeconds), false),
		t.refresh(),
	)
}

func nextMode(m timer.Mode) timer.Mode {
	for i, candidate := range timerModes {
		if candidate == m {
			return timerModes[(i+1)%len(timerModes)]
		}
	}
	return timer.ModeFocus
}

// ============================================================
// Rendering
// ============================================================

func (t timerModel) view() string {
	if t.width < 20 {
		return "Terminal too small"
	}

	contentWidth := t.width - 4
	clockPanel := t.renderClockPanel(contentWidth)

	var bottomPanel string
	if t.picking {
		bottomPanel = t.renderProjectPicker(contentWidth)
	} else {
		bottomPanel = t.renderRecentPanel(contentWidth)
	}

	return lipgloss.JoinVertical(lipgloss.Left, clockPanel, bottomPanel)
}

func (t timerModel) renderClockPanel(w int) string {
	modeLine := t.renderModeTabs()

	var clock string
	overrun := false
	remaining, countdown := t.tracker.Remaining()
	if countdown {
		clock = formatSeconds(remaining)
		overrun = remaining < 0
	} else {
		clock = formatSeconds(t.tracker.ElapsedSeconds())
	}

	style := timerStyle
	var indicator string
	switch t.tracker.State() {
	case timer.StateRunning:
		style = timerRunningStyle
		indicator = successStyle.Render("●  RUNNING")
	case timer.StatePaused:
		style = timerPausedStyle
		indicator = warningStyle.Render("⏸  PAUSED")
	default:
		indicator = mutedStyle.Render("■  IDLE")
	}
	if overrun {
		style = timerOverrunStyle
	}

	project := mutedStyle.Render("Press s to start tracking")
	if id := t.tracker.ProjectID(); id != nil {
		title := *id
		for _, p := range t.projects {
			if p.ID == *id {
				title = p.Title
				break
			}
		}
		project = highlightStyle.Render(title)
	}

	goal := ""
	if !countdown {
		target := t.tracker.Settings().GoalSeconds
		if target > 0 {
			pct := t.tracker.ElapsedSeconds() * 100 / target
			goal = mutedStyle.Render(fmt.Sprintf("goal %s · %d%%", formatSeconds(target), pct))
		}
	}

	lines := []string{
		modeLine,
		style.Width(w - 6).Render(clock),
		indicator,
		project,
	}
	if goal != "" {
		lines = append(lines, goal)
	}

	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	if t.tracker.State() == timer.StateIdle {
		return panelStyle.Width(w).Render(content)
	}
	return activePanelStyle.Width(w).Render(content)
}

func (t timerModel) renderModeTabs() string {
	var tabs []string
	for _, m := range timerModes {
		label := string(m)
		if m == t.tracker.Mode() {
			tabs = append(tabs, accentStyle.Render("["+label+"]"))
		} else {
			tabs = append(tabs, mutedStyle.Render(" "+label+" "))
		}
	}
	return strings.Join(tabs, " ") + mutedStyle.Render("  (m to switch)")
}

func (t timerModel) renderRecentPanel(w int) string {
	title := titleStyle.Render("Recent Sessions")
	if len(t.recent) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No sessions yet"),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	for _, r := range t.recent {
		startStr := time.UnixMilli(r.StartTime).Local().Format("Jan 02 15:04")
		row := fmt.Sprintf("  %s  %-24s %-9s %s",
			startStr,
			truncate(r.ProjectTitle, 24),
			r.Type,
			formatSeconds(r.DurationSeconds),
		)
		rows = append(rows, row)
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (t timerModel) renderProjectPicker(w int) string {
	title := titleStyle.Render("Select Project")

	var rows []string
	rows = append(rows, title)
	for i, p := range t.projects {
		glyph := nodeStyle(p.Status).Render(statusGlyph(p.Status))
		cursor := "  "
		style := normalItemStyle
		if i == t.pickerCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s", cursor, glyph, p.Title)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: select  esc: cancel"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
