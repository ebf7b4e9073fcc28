package store

import "github.com/Sid-Romero/tech-roadmap/internal/roadmap"

// SessionRecord is a work session joined with its project, for exports
// and history views.
type SessionRecord struct {
	roadmap.WorkSession
	ProjectID    string
	ProjectTitle string
}

// DailyFocus is the aggregated tracked time for one calendar day.
type DailyFocus struct {
	Date         string // YYYY-MM-DD
	TotalSeconds int
	SessionCount int
}
