package gamify

import (
	"math"

	"github.com/Sid-Romero/tech-roadmap/internal/roadmap"
)

const (
	completionBase   = 500
	complexityWeight = 150
	timeBonusCap     = 500
)

// CompletionXP is the one-time reward for finishing a project: a flat
// base, a complexity multiplier and a capped bonus for hours already
// logged on the node.
func CompletionXP(complexity int, timeSpentHours float64) int {
	if complexity < 1 {
		complexity = 1
	}
	if complexity > 5 {
		complexity = 5
	}
	bonus := int(timeSpentHours * 10)
	if bonus < 0 {
		bonus = 0
	}
	if bonus > timeBonusCap {
		bonus = timeBonusCap
	}
	return completionBase + complexity*complexityWeight + bonus
}

// FocusXP converts tracked seconds to XP at 100 per full hour, floored.
func FocusXP(elapsedSeconds int) int {
	if elapsedSeconds <= 0 {
		return 0
	}
	return elapsedSeconds * 100 / 3600
}

// LevelForXP derives the level from total XP. The persisted level field
// is only ever a cache of this function.
func LevelForXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	return int(math.Sqrt(float64(xp))/10) + 1
}

// NextLevelXP is the XP threshold at which the next level is reached.
// Display only.
func NextLevelXP(level int) int {
	n := level * 10
	return n * n
}

// RankForXP picks the highest rank whose floor the XP has reached.
func RankForXP(xp int) roadmap.Rank {
	for i := len(roadmap.Ranks) - 1; i >= 0; i-- {
		if xp >= roadmap.Ranks[i].MinXP {
			return roadmap.Ranks[i]
		}
	}
	return roadmap.Ranks[0]
}

// NextRank returns the rank above the current one, or false when the
// ladder is topped out.
func NextRank(xp int) (roadmap.Rank, bool) {
	cur := RankForXP(xp)
	for i, r := range roadmap.Ranks {
		if r.ID == cur.ID && i+1 < len(roadmap.Ranks) {
			return roadmap.Ranks[i+1], true
		}
	}
	return roadmap.Rank{}, false
}
