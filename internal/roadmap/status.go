package roadmap

import "time"

// Status tracks where a project sits in its lifecycle. Transitions are
// driven by the user; dependency state never flips a status on its own.
type Status string

const (
	StatusLocked     Status = "locked"
	StatusUnlocked   Status = "unlocked"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

var statusOrder = []Status{StatusLocked, StatusUnlocked, StatusInProgress, StatusDone}

func (s Status) Valid() bool {
	for _, v := range statusOrder {
		if s == v {
			return true
		}
	}
	return false
}

// NextStatus steps one stage forward in the lifecycle. Done stays done.
func NextStatus(s Status) Status {
	for i, v := range statusOrder {
		if s == v && i < len(statusOrder)-1 {
			return statusOrder[i+1]
		}
	}
	return s
}

// PrevStatus steps one stage back, for corrections. Locked stays locked.
func PrevStatus(s Status) Status {
	for i, v := range statusOrder {
		if s == v && i > 0 {
			return statusOrder[i-1]
		}
	}
	return s
}

// CompletionTriggered reports whether moving from prev to next counts as
// completing the project. Saving an already-done project does not.
func CompletionTriggered(prev, next Status) bool {
	return prev != StatusDone && next == StatusDone
}

// ApplyStatus sets the new status on p, stamping CompletedAt the first
// time the project reaches done. The stamp survives later regressions
// and re-completions.
func ApplyStatus(p *Project, next Status, now time.Time) {
	p.Status = next
	if next == StatusDone && p.CompletedAt == nil {
		t := now
		p.CompletedAt = &t
	}
}

// DependenciesMet reports whether every dependency of p that still
// resolves is done. Dangling IDs impose no constraint. Advisory only:
// the caller may surface it, but statuses stay user-driven.
func DependenciesMet(p Project, all []Project) bool {
	status := make(map[string]Status, len(all))
	for _, other := range all {
		status[other.ID] = other.Status
	}
	for _, dep := range p.Dependencies {
		if st, ok := status[dep]; ok && st != StatusDone {
			return false
		}
	}
	return true
}
