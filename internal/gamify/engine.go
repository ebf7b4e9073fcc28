package gamify

import (
	"fmt"

	"github.com/Sid-Romero/tech-roadmap/internal/roadmap"
)

// ProfileStore is the slice of the persistence layer the engine writes
// through.
type ProfileStore interface {
	GetProfile() (*roadmap.Profile, error)
	UpdateProfile(roadmap.ProfilePatch) (*roadmap.Profile, error)
	AddXP(amount int) (*roadmap.Profile, error)
}

// Award describes the outcome of one XP event: what was granted, where
// the profile landed and anything newly unlocked.
type Award struct {
	XP        int
	TotalXP   int
	Level     int
	LeveledUp bool
	Unlocked  []roadmap.Badge
}

// Engine routes XP events through the profile store, keeps the level
// cache honest and unlocks badges as aggregates cross thresholds.
type Engine struct {
	profiles ProfileStore
}

func NewEngine(profiles ProfileStore) *Engine {
	return &Engine{profiles: profiles}
}

// AwardCompletion grants the completion reward for a project. Callers
// invoke it only on a real non-done to done transition.
func (e *Engine) AwardCompletion(p roadmap.Project, all []roadmap.Project) (*Award, error) {
	return e.award(CompletionXP(p.Complexity, p.TimeSpentHours), all)
}

// AwardFocus grants XP for tracked seconds. Zero XP still runs badge
// evaluation: hour badges depend on the session that was just appended,
// not on the XP amount.
func (e *Engine) AwardFocus(elapsedSeconds int, all []roadmap.Project) (*Award, error) {
	return e.award(FocusXP(elapsedSeconds), all)
}

func (e *Engine) award(xp int, all []roadmap.Project) (*Award, error) {
	profile, err := e.profiles.AddXP(xp)
	if err != nil {
		return nil, fmt.Errorf("add xp: %w", err)
	}
	award := &Award{XP: xp, TotalXP: profile.XP, Level: profile.Level}

	if level := LevelForXP(profile.XP); level != profile.Level {
		award.LeveledUp = level > profile.Level
		award.Level = level
		profile, err = e.profiles.UpdateProfile(roadmap.ProfilePatch{Level: &level})
		if err != nil {
			return nil, fmt.Errorf("update level: %w", err)
		}
	}

	unlocked := EvaluateBadges(*profile, all)
	if len(unlocked) > 0 {
		ids := append([]string(nil), profile.UnlockedBadges...)
		for _, b := range unlocked {
			ids = append(ids, b.ID)
		}
		if _, err := e.profiles.UpdateProfile(roadmap.ProfilePatch{UnlockedBadges: &ids}); err != nil {
			return nil, fmt.Errorf("unlock badges: %w", err)
		}
		award.Unlocked = unlocked
	}
	return award, nil
}
