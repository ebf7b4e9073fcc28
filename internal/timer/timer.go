package timer

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Sid-Romero/tech-roadmap/internal/gamify"
	"github.com/Sid-Romero/tech-roadmap/internal/roadmap"
)

type Mode string

const (
	ModeFocus    Mode = "focus"
	ModePomodoro Mode = "pomodoro"
	ModeBreak    Mode = "break"
)

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

const (
	DefaultPomodoroSeconds = 25 * 60
	DefaultBreakSeconds    = 5 * 60
	DefaultGoalSeconds     = 60 * 60
)

// Settings are the user-tunable timer durations. They live in the
// store's settings table; the timer only holds the working copy.
type Settings struct {
	PomodoroSeconds int
	BreakSeconds    int
	GoalSeconds     int
	Countdown       bool
}

func DefaultSettings() Settings {
	return Settings{
		PomodoroSeconds: DefaultPomodoroSeconds,
		BreakSeconds:    DefaultBreakSeconds,
		GoalSeconds:     DefaultGoalSeconds,
	}
}

// SettingsPatch updates selected settings; nil fields stay as they are.
type SettingsPatch struct {
	PomodoroSeconds *int
	BreakSeconds    *int
	GoalSeconds     *int
	Countdown       *bool
}

// SessionStore appends a finished session to a project and returns the
// refreshed collection.
type SessionStore interface {
	AppendSession(projectID string, s roadmap.WorkSession) ([]roadmap.Project, error)
}

// Awarder converts tracked time into XP after a session is recorded.
type Awarder interface {
	AwardFocus(elapsedSeconds int, all []roadmap.Project) (*gamify.Award, error)
}

// StopResult reports what a Stop produced: the recorded session, the
// refreshed project collection and any XP outcome. Recorded is false
// when the run had nothing worth keeping.
type StopResult struct {
	Recorded bool
	Session  roadmap.WorkSession
	Projects []roadmap.Project
	Award    *gamify.Award
}

// Timer is the single session-in-progress owner. Elapsed time is a
// count of delivered ticks, not a wall-clock difference, so suspend and
// resume cannot smuggle in unseen seconds. At most one Timer exists per
// process and it is the only writer of its elapsed count.
type Timer struct {
	store    SessionStore
	awards   Awarder
	settings Settings

	projectID *string
	taskID    *string
	startMs   *int64
	elapsed   int
	running   bool
	mode      Mode
}

func New(store SessionStore, awards Awarder, settings Settings) *Timer {
	return &Timer{store: store, awards: awards, settings: settings, mode: ModeFocus}
}

// Start begins or resumes tracking. Only one project may be tracked at
// a time: starting for a different project while one is bound is a
// silent no-op. The original start timestamp survives pause cycles.
func (t *Timer) Start(projectID, taskID *string) bool {
	if t.projectID != nil && (projectID == nil || *projectID != *t.projectID) {
		return false
	}
	t.projectID = projectID
	t.taskID = taskID
	t.running = true
	if t.startMs == nil {
		ms := time.Now().UnixMilli()
		t.startMs = &ms
	}
	return true
}

// Pause freezes accumulation. Elapsed seconds and the start timestamp
// are preserved for the next Start.
func (t *Timer) Pause() {
	t.running = false
}

// Tick adds one whole second while running. The host delivers ticks at
// one-second cadence.
func (t *Timer) Tick() {
	if t.running {
		t.elapsed++
	}
}

// Stop finalizes the run. With tracked time and a bound project it
// records one WorkSession and routes focus XP through the awarder; in
// every completed case the timer returns to idle defaults. A failed
// session write leaves the run intact so the user can stop again.
func (t *Timer) Stop() (*StopResult, error) {
	res := &StopResult{}
	if t.elapsed > 0 && t.projectID != nil {
		now := time.Now().UnixMilli()
		start := now - int64(t.elapsed)*1000
		if t.startMs != nil {
			start = *t.startMs
		}
		session := roadmap.WorkSession{
			ID:              uuid.New().String(),
			StartTime:       start,
			EndTime:         &now,
			DurationSeconds: t.elapsed,
			Type:            t.sessionType(),
			TaskID:          t.taskID,
		}
		projects, err := t.store.AppendSession(*t.projectID, session)
		if err != nil {
			return nil, fmt.Errorf("record session: %w", err)
		}
		res.Recorded = true
		res.Session = session
		res.Projects = projects

		elapsed := t.elapsed
		t.reset()
		if t.awards != nil {
			award, err := t.awards.AwardFocus(elapsed, projects)
			if err != nil {
				return res, fmt.Errorf("award focus xp: %w", err)
			}
			res.Award = award
		}
		return res, nil
	}
	t.reset()
	return res, nil
}

// sessionType maps the running mode to the recorded session type. Break
// time is logged as a manual block rather than focus work.
func (t *Timer) sessionType() roadmap.SessionType {
	switch t.mode {
	case ModePomodoro:
		return roadmap.SessionPomodoro
	case ModeBreak:
		return roadmap.SessionManual
	}
	return roadmap.SessionFocus
}

// ChangeMode switches the timing mode without touching the accumulated
// run.
func (t *Timer) ChangeMode(mode Mode) {
	switch mode {
	case ModeFocus, ModePomodoro, ModeBreak:
		t.mode = mode
	}
}

// UpdateSettings applies a patch without affecting the running state.
func (t *Timer) UpdateSettings(patch SettingsPatch) {
	if patch.PomodoroSeconds != nil {
		t.settings.PomodoroSeconds = *patch.PomodoroSeconds
	}
	if patch.BreakSeconds != nil {
		t.settings.BreakSeconds = *patch.BreakSeconds
	}
	if patch.GoalSeconds != nil {
		t.settings.GoalSeconds = *patch.GoalSeconds
	}
	if patch.Countdown != nil {
		t.settings.Countdown = *patch.Countdown
	}
}

// Remaining returns target minus elapsed for the countdown display.
// Negative values signal overrun and are a valid state. The second
// return is false in focus mode without the countdown flag, where the
// clock counts up instead.
func (t *Timer) Remaining() (int, bool) {
	switch t.mode {
	case ModePomodoro:
		return t.settings.PomodoroSeconds - t.elapsed, true
	case ModeBreak:
		return t.settings.BreakSeconds - t.elapsed, true
	}
	if t.settings.Countdown {
		return t.settings.GoalSeconds - t.elapsed, true
	}
	return 0, false
}

func (t *Timer) reset() {
	t.projectID = nil
	t.taskID = nil
	t.startMs = nil
	t.elapsed = 0
	t.running = false
}

func (t *Timer) State() State {
	if t.running {
		return StateRunning
	}
	if t.startMs != nil {
		return StatePaused
	}
	return StateIdle
}

func (t *Timer) Mode() Mode             { return t.mode }
func (t *Timer) ElapsedSeconds() int    { return t.elapsed }
func (t *Timer) ProjectID() *string     { return t.projectID }
func (t *Timer) TaskID() *string        { return t.taskID }
func (t *Timer) StartUnixMilli() *int64 { return t.startMs }
func (t *Timer) Settings() Settings     { return t.settings }
