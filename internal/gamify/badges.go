package gamify

import (
	"strings"

	"github.com/Sid-Romero/tech-roadmap/internal/roadmap"
)

// Aggregates are the freshly computed totals badge conditions test
// against. Focus time counts every session on every project; the
// category and tech splits only count completed projects.
type Aggregates struct {
	DoneCount      int
	FocusSeconds   int
	DoneByCategory map[string]int
	doneStacks     [][]string
}

func BuildAggregates(projects []roadmap.Project) Aggregates {
	agg := Aggregates{DoneByCategory: map[string]int{}}
	for _, p := range projects {
		agg.FocusSeconds += p.TotalSessionSeconds()
		if p.Status != roadmap.StatusDone {
			continue
		}
		agg.DoneCount++
		agg.DoneByCategory[p.Category]++
		agg.doneStacks = append(agg.doneStacks, p.TechStack)
	}
	return agg
}

// TechCount counts completed projects whose stack mentions the given
// technology. Matching is a case-insensitive substring test, so
// "Kubernetes" also credits entries like "Kubernetes/ArgoCD".
func (a Aggregates) TechCount(tech string) int {
	needle := strings.ToLower(tech)
	n := 0
	for _, stack := range a.doneStacks {
		for _, entry := range stack {
			if strings.Contains(strings.ToLower(entry), needle) {
				n++
				break
			}
		}
	}
	return n
}

// FocusHours floors total tracked time to whole hours.
func (a Aggregates) FocusHours() int {
	return a.FocusSeconds / 3600
}

func (a Aggregates) satisfies(b roadmap.Badge) bool {
	switch b.Condition {
	case roadmap.CondProjectCount:
		return a.DoneCount >= b.Threshold
	case roadmap.CondHourCount:
		return a.FocusHours() >= b.Threshold
	case roadmap.CondCategoryCount:
		return a.DoneByCategory[b.Detail] >= b.Threshold
	case roadmap.CondTechStack:
		return a.TechCount(b.Detail) >= b.Threshold
	case roadmap.CondStreak:
		// Declared in the catalog types but no rule computes streaks.
		return false
	}
	return false
}

// EvaluateBadges returns catalog badges that newly qualify for the given
// project set, skipping any the profile already holds. Running it twice
// on the same state returns nothing the second time.
func EvaluateBadges(profile roadmap.Profile, projects []roadmap.Project) []roadmap.Badge {
	agg := BuildAggregates(projects)
	var unlocked []roadmap.Badge
	for _, b := range roadmap.Badges {
		if profile.HasBadge(b.ID) {
			continue
		}
		if agg.satisfies(b) {
			unlocked = append(unlocked, b)
		}
	}
	return unlocked
}
