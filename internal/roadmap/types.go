package roadmap

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// SessionType records how a work session was produced.
type SessionType string

const (
	SessionFocus    SessionType = "focus"
	SessionPomodoro SessionType = "pomodoro"
	SessionManual   SessionType = "manual"
)

// Coordinates is a node position on the roadmap canvas, in layout units.
type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type SubTask struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"isCompleted"`
}

type Resource struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

// WorkSession is one logged block of work. Sessions are append-only;
// DurationSeconds is authoritative, the timestamps are informational.
type WorkSession struct {
	ID              string
	StartTime       int64 // unix millis
	EndTime         *int64
	DurationSeconds int
	Type            SessionType
	Notes           string
	TaskID          *string
}

// Project is one node on the roadmap. Dependencies holds the IDs of
// projects this one builds on; entries may dangle after a delete and
// readers skip the ones that no longer resolve.
type Project struct {
	ID             string
	Title          string
	Description    string
	Category       string
	Status         Status
	Level          int // display row on the canvas, 1 = foundations
	Position       Coordinates
	Dependencies   []string
	TechStack      []string
	Complexity     int // 1..5
	Priority       Priority
	Checklist      []SubTask
	Resources      []Resource
	Sessions       []WorkSession
	TimeSpentHours float64
	GitHubURL      string
	Notes          string
	CompletedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TotalSessionSeconds sums the durations of every logged session.
func (p Project) TotalSessionSeconds() int {
	total := 0
	for _, s := range p.Sessions {
		total += s.DurationSeconds
	}
	return total
}

// Profile is the single gamification record. Level caches the value
// derived from XP; UnlockedBadges only ever grows.
type Profile struct {
	XP             int
	Level          int
	UnlockedBadges []string
	UpdatedAt      time.Time
}

func (p Profile) HasBadge(id string) bool {
	for _, b := range p.UnlockedBadges {
		if b == id {
			return true
		}
	}
	return false
}

// ProfilePatch updates selected profile fields; nil fields stay as they
// are. Setting XP directly is reserved for explicit user resets.
type ProfilePatch struct {
	XP             *int
	Level          *int
	UnlockedBadges *[]string
}

type Rank struct {
	ID    string
	Title string
	MinXP int
	Color string
}

// BadgeCondition selects which aggregate a badge threshold applies to.
type BadgeCondition string

const (
	CondProjectCount  BadgeCondition = "project_count"
	CondHourCount     BadgeCondition = "hour_count"
	CondCategoryCount BadgeCondition = "category_count"
	CondTechStack     BadgeCondition = "tech_stack"
	CondStreak        BadgeCondition = "streak"
)

type Badge struct {
	ID          string
	Title       string
	Description string
	Condition   BadgeCondition
	Detail      string // category or tech name for the scoped conditions
	Threshold   int
}
