package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Sid-Romero/tech-roadmap/internal/gamify"
	"github.com/Sid-Romero/tech-roadmap/internal/roadmap"
	"github.com/Sid-Romero/tech-roadmap/internal/store"
)

type profileModel struct {
	store  *store.Store
	width  int
	height int

	profile  *roadmap.Profile
	projects []roadmap.Project
	days     []store.DailyFocus
	chart    barchart.Model
}

type profileDataMsg struct {
	profile *roadmap.Profile
	days    []store.DailyFocus
}

func newProfileModel(s *store.Store, projects []roadmap.Project) profileModel {
	return profileModel{
		store:    s,
		projects: projects,
		chart:    barchart.New(60, 8),
	}
}

func (m *profileModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.buildChart()
}

func (m *profileModel) setProjects(projects []roadmap.Project) {
	m.projects = projects
}

func (m profileModel) refresh() tea.Cmd {
	return func() tea.Msg {
		profile, err := m.store.GetProfile()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		from, to := focusWeek(time.Now().UTC())
		days, err := m.store.DailyFocus(from, to)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		return profileDataMsg{profile: profile, days: days}
	}
}

// focusWeek is the seven-day window ending today, aligned to UTC days
// to match how the store buckets sessions.
func focusWeek(now time.Time) (time.Time, time.Time) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dayStart.AddDate(0, 0, -6), dayStart.Add(24 * time.Hour)
}

func (m profileModel) update(msg tea.Msg) (profileModel, tea.Cmd) {
	if data, ok := msg.(profileDataMsg); ok {
		m.profile = data.profile
		m.days = data.days
		m.buildChart()
	}
	return m, nil
}

func (m *profileModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 8

	m.chart = barchart.New(chartWidth, chartHeight)

	from, to := focusWeek(time.Now().UTC())
	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")
		label := d.Format("Mon 02")

		hours := 0.0
		sessions := 0
		for _, day := range m.days {
			if day.Date == dateStr {
				hours = float64(day.TotalSeconds) / 3600.0
				sessions = day.SessionCount
			}
		}

		style := lipgloss.NewStyle().Foreground(colorPrimary)
		if hours == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}
		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{
				{Name: fmt.Sprintf("%d sessions", sessions), Value: hours, Style: style},
			},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

// xpProgress is how far xp sits between the current level floor and the
// next level threshold, in [0,1].
func xpProgress(xp, level int) float64 {
	floor := gamify.NextLevelXP(level - 1)
	ceil := gamify.NextLevelXP(level)
	if ceil <= floor {
		return 1
	}
	frac := float64(xp-floor) / float64(ceil-floor)
	if frac < 0 {
		return 0
	}
	if frac > 1 {
		return 1
	}
	return frac
}

// ============================================================
// Rendering
// ============================================================

func (m profileModel) view() string {
	if m.width < 20 {
		return "Terminal too small"
	}
	if m.profile == nil {
		return panelStyle.Width(m.width - 4).Render(mutedStyle.Render("Loading..."))
	}
	w := m.width - 4

	sections := []string{
		m.renderRank(w),
		"",
		m.renderTotals(),
		"",
		titleStyle.Render("Badges"),
		m.renderBadges(),
		"",
		titleStyle.Render("Focus · last 7 days"),
		m.chart.View(),
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m profileModel) renderRank(w int) string {
	xp := m.profile.XP
	level := gamify.LevelForXP(xp)
	rank := gamify.RankForXP(xp)

	rankLine := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(rank.Color)).
		Render(rank.Title)
	rankLine += mutedStyle.Render(fmt.Sprintf("   Level %d · %d XP", level, xp))

	barWidth := w - 6
	if barWidth > 50 {
		barWidth = 50
	}
	if barWidth < 10 {
		barWidth = 10
	}
	bar := renderXPBar(barWidth, xp, level)
	bar += mutedStyle.Render(fmt.Sprintf("  %d / %d", xp, gamify.NextLevelXP(level)))

	nextLine := mutedStyle.Render("Top rank reached")
	if next, ok := gamify.NextRank(xp); ok {
		nextLine = mutedStyle.Render(fmt.Sprintf("Next rank: %s at %d XP (%d to go)",
			next.Title, next.MinXP, next.MinXP-xp))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rankLine, bar, nextLine)
}

// renderXPBar draws the level progress bar, blending from the current
// rank color toward the next so the bar hints at what is coming.
func renderXPBar(width, xp, level int) string {
	rank := gamify.RankForXP(xp)
	start, err := colorful.Hex(rank.Color)
	if err != nil {
		start, _ = colorful.Hex("#6C63FF")
	}
	end := start
	if next, ok := gamify.NextRank(xp); ok {
		if c, err := colorful.Hex(next.Color); err == nil {
			end = c
		}
	}

	filled := int(xpProgress(xp, level) * float64(width))
	var b strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			c := start.BlendLuv(end, t)
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("█"))
		} else {
			b.WriteString(mutedStyle.Render("░"))
		}
	}
	return b.String()
}

func (m profileModel) renderTotals() string {
	agg := gamify.BuildAggregates(m.projects)

	line := fmt.Sprintf("%s %s   %s %s",
		highlightStyle.Render(fmt.Sprintf("%d", agg.DoneCount)),
		mutedStyle.Render("projects done"),
		highlightStyle.Render(fmt.Sprintf("%.1fh", float64(agg.FocusSeconds)/3600)),
		mutedStyle.Render("tracked"),
	)

	if len(agg.DoneByCategory) == 0 {
		return line
	}
	cats := make([]string, 0, len(agg.DoneByCategory))
	for cat := range agg.DoneByCategory {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	parts := make([]string, 0, len(cats))
	for _, cat := range cats {
		parts = append(parts, fmt.Sprintf("%s %d", cat, agg.DoneByCategory[cat]))
	}
	return line + "\n" + mutedStyle.Render("By category: "+strings.Join(parts, " · "))
}

func (m profileModel) renderBadges() string {
	var rows []string
	for _, b := range roadmap.Badges {
		mark := mutedStyle.Render("○")
		title := mutedStyle.Render(pad(b.Title, 16))
		if m.profile.HasBadge(b.ID) {
			mark = successStyle.Render("●")
			title = highlightStyle.Render(pad(b.Title, 16))
		}
		rows = append(rows, fmt.Sprintf("  %s %s %s", mark, title, mutedStyle.Render(b.Description)))
	}
	return strings.Join(rows, "\n")
}
