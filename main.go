package main

import (
	"fmt"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Sid-Romero/tech-roadmap/internal/config"
	"github.com/Sid-Romero/tech-roadmap/internal/gamify"
	"github.com/Sid-Romero/tech-roadmap/internal/graph"
	"github.com/Sid-Romero/tech-roadmap/internal/roadmap"
	"github.com/Sid-Romero/tech-roadmap/internal/store"
	"github.com/Sid-Romero/tech-roadmap/internal/timer"
	"github.com/Sid-Romero/tech-roadmap/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	s, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	var projects []roadmap.Project
	if cfg.Seed {
		projects, err = s.SeedStarter()
	} else {
		projects, err = s.ListProjects()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading projects: %v\n", err)
		os.Exit(1)
	}

	awards := gamify.NewEngine(s)
	tracker := timer.New(s, awards, loadTimerSettings(s))
	g := graph.NewEngine(s, projects)

	app := tui.NewApp(s, g, tracker, awards)

	var opts []tea.ProgramOption
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(app, opts...)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadTimerSettings reads the persisted timer durations, keeping the
// defaults for anything missing or malformed.
func loadTimerSettings(s *store.Store) timer.Settings {
	settings := timer.DefaultSettings()
	if secs, ok := settingSeconds(s, store.SettingPomodoroDuration); ok {
		settings.PomodoroSeconds = secs
	}
	if secs, ok := settingSeconds(s, store.SettingBreakDuration); ok {
		settings.BreakSeconds = secs
	}
	if secs, ok := settingSeconds(s, store.SettingDurationGoal); ok {
		settings.GoalSeconds = secs
	}
	if v, err := s.GetSetting(store.SettingCountdown); err == nil {
		settings.Countdown = v == "1"
	}
	return settings
}

func settingSeconds(s *store.Store, key string) (int, bool) {
	v, err := s.GetSetting(key)
	if err != nil {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0, false
	}
	return secs, true
}
