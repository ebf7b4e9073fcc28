package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/Sid-Romero/tech-roadmap/internal/store"
	"github.com/Sid-Romero/tech-roadmap/internal/timer"
)

var settingKeys = []string{
	store.SettingPomodoroDuration,
	store.SettingBreakDuration,
	store.SettingDurationGoal,
	store.SettingCountdown,
}

type settingsModel struct {
	store   *store.Store
	tracker *timer.Timer
	width   int
	height  int

	values     map[string]string
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	pomodoroMin *string
	breakMin    *string
	goalMin     *string
	countdown   *bool
}

func newSettingsModel(s *store.Store, tracker *timer.Timer) settingsModel {
	pm, bm, gm := "", "", ""
	cd := false
	return settingsModel{
		store:       s,
		tracker:     tracker,
		values:      map[string]string{},
		pomodoroMin: &pm,
		breakMin:    &bm,
		goalMin:     &gm,
		countdown:   &cd,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	values map[string]string
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		values := make(map[string]string, len(settingKeys))
		for _, k := range settingKeys {
			v, err := s.store.GetSetting(k)
			if err != nil {
				continue
			}
			values[k] = v
		}
		return settingsDataMsg{values: values}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.values = msg.values
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	// Load current values
	*s.pomodoroMin = secsToMin(s.getVal(store.SettingPomodoroDuration, "1500"))
	*s.breakMin = secsToMin(s.getVal(store.SettingBreakDuration, "300"))
	*s.goalMin = secsToMin(s.getVal(store.SettingDurationGoal, "3600"))
	*s.countdown = s.getVal(store.SettingCountdown, "0") == "1"

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Pomodoro length (min)").Value(s.pomodoroMin),
			huh.NewInput().Title("Break length (min)").Value(s.breakMin),
			huh.NewInput().Title("Focus goal (min)").Value(s.goalMin),
			huh.NewConfirm().Title("Count down toward the goal").Value(s.countdown),
		).Title("Timer"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, tea.Batch(s.saveSettings(), s.refresh())
	}

	return s, cmd
}

// saveSettings persists the parsed form values and pushes the same
// patch into the live tracker. Unparseable inputs keep the stored value.
func (s settingsModel) saveSettings() tea.Cmd {
	patch := timer.SettingsPatch{}
	var firstErr error
	set := func(key, value string) {
		if err := s.store.SetSetting(key, value); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if secs, ok := parseMinutes(*s.pomodoroMin); ok {
		set(store.SettingPomodoroDuration, strconv.Itoa(secs))
		patch.PomodoroSeconds = &secs
	}
	if secs, ok := parseMinutes(*s.breakMin); ok {
		set(store.SettingBreakDuration, strconv.Itoa(secs))
		patch.BreakSeconds = &secs
	}
	if secs, ok := parseMinutes(*s.goalMin); ok {
		set(store.SettingDurationGoal, strconv.Itoa(secs))
		patch.GoalSeconds = &secs
	}
	countdown := *s.countdown
	flag := "0"
	if countdown {
		flag = "1"
	}
	set(store.SettingCountdown, flag)
	patch.Countdown = &countdown

	s.tracker.UpdateSettings(patch)

	if firstErr != nil {
		return toast(fmt.Sprintf("Save error: %v", firstErr), true)
	}
	return toast("Settings saved", false)
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, k := range settingKeys {
		label := lipgloss.NewStyle().Width(24).Render(k)
		value := highlightStyle.Render(formatSettingValue(k, s.values[k]))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case store.SettingPomodoroDuration, store.SettingBreakDuration, store.SettingDurationGoal:
		if secs, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d min", secs/60)
		}
	case store.SettingCountdown:
		if v == "1" {
			return "on"
		}
		return "off"
	}
	return v
}

func secsToMin(s string) string {
	if secs, err := strconv.Atoi(s); err == nil {
		return strconv.Itoa(secs / 60)
	}
	return s
}

// parseMinutes converts a whole-minute input to seconds.
func parseMinutes(s string) (int, bool) {
	mins, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || mins <= 0 {
		return 0, false
	}
	return mins * 60, true
}
