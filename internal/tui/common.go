package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Sid-Romero/tech-roadmap/internal/gamify"
	"github.com/Sid-Romero/tech-roadmap/internal/roadmap"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTree viewState = iota
	viewProjects
	viewTimer
	viewProfile
	viewSettings
)

var viewNames = []string{"Tree", "Projects", "Timer", "Profile", "Settings"}

// --- Messages ---

// projectsMsg carries the refreshed collection a store mutation
// returned. The app routes it to every view and the graph engine.
type projectsMsg struct {
	projects []roadmap.Project
}

type awardMsg struct {
	award *gamify.Award
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatSeconds(secs int) string {
	sign := ""
	if secs < 0 {
		sign = "-"
		secs = -secs
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, h, m, s)
}

func formatHours(secs int) string {
	h := float64(secs) / 3600
	return fmt.Sprintf("%.1fh", h)
}

func statusGlyph(s roadmap.Status) string {
	switch s {
	case roadmap.StatusDone:
		return "✓"
	case roadmap.StatusInProgress:
		return "●"
	case roadmap.StatusUnlocked:
		return "○"
	}
	return "■"
}

func statusLabel(s roadmap.Status) string {
	switch s {
	case roadmap.StatusInProgress:
		return "active"
	case roadmap.StatusDone:
		return "done"
	case roadmap.StatusUnlocked:
		return "unlocked"
	}
	return "locked"
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

// pad left-aligns s in a field of n cells, clipping when it overflows.
func pad(s string, n int) string {
	runes := []rune(s)
	if len(runes) >= n {
		return string(runes[:n])
	}
	return s + strings.Repeat(" ", n-len(runes))
}

// awardStatus turns an XP award into one footer toast.
func awardStatus(a *gamify.Award) string {
	if a == nil {
		return ""
	}
	text := fmt.Sprintf("+%d XP", a.XP)
	if a.LeveledUp {
		text += fmt.Sprintf("  Level up! Now level %d", a.Level)
	}
	for _, b := range a.Unlocked {
		text += fmt.Sprintf("  Badge unlocked: %s", b.Title)
	}
	return text
}

func toast(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}
