package gamify

import (
	"testing"

	"github.com/Sid-Romero/tech-roadmap/internal/roadmap"
)

// fakeProfiles implements ProfileStore in memory for engine tests.
type fakeProfiles struct {
	profile roadmap.Profile
	updates int
}

func (f *fakeProfiles) GetProfile() (*roadmap.Profile, error) {
	p := f.profile
	return &p, nil
}

func (f *fakeProfiles) UpdateProfile(patch roadmap.ProfilePatch) (*roadmap.Profile, error) {
	f.updates++
	if patch.XP != nil {
		f.profile.XP = *patch.XP
	}
	if patch.Level != nil {
		f.profile.Level = *patch.Level
	}
	if patch.UnlockedBadges != nil {
		f.profile.UnlockedBadges = append([]string(nil), (*patch.UnlockedBadges)...)
	}
	p := f.profile
	return &p, nil
}

func (f *fakeProfiles) AddXP(amount int) (*roadmap.Profile, error) {
	f.profile.XP += amount
	p := f.profile
	return &p, nil
}

func newTestEngine() (*Engine, *fakeProfiles) {
	fake := &fakeProfiles{profile: roadmap.Profile{XP: 0, Level: 1}}
	return NewEngine(fake), fake
}

// ============================================================
// Awarding
// ============================================================

func TestAwardCompletionLevelsUp(t *testing.T) {
	e, fake := newTestEngine()
	p := roadmap.Project{ID: "a", Status: roadmap.StatusDone, Complexity: 3, TimeSpentHours: 20, Category: "Network"}

	award, err := e.AwardCompletion(p, []roadmap.Project{p})
	if err != nil {
		t.Fatal(err)
	}
	if award.XP != 1150 {
		t.Fatalf("expected 1150 XP, got %d", award.XP)
	}
	if award.TotalXP != 1150 || fake.profile.XP != 1150 {
		t.Fatalf("total XP mismatch: award=%d stored=%d", award.TotalXP, fake.profile.XP)
	}
	if !award.LeveledUp || award.Level != LevelForXP(1150) {
		t.Fatalf("expected level-up to %d, got %+v", LevelForXP(1150), award)
	}
	if fake.profile.Level != award.Level {
		t.Fatalf("level cache not persisted: %d != %d", fake.profile.Level, award.Level)
	}
	if len(award.Unlocked) == 0 {
		t.Fatal("first completion should unlock b_first_step")
	}
	if !fake.profile.HasBadge("b_first_step") {
		t.Fatal("unlocked badge not persisted")
	}
}

func TestAwardFocusSmallGrant(t *testing.T) {
	e, fake := newTestEngine()

	award, err := e.AwardFocus(1800, nil)
	if err != nil {
		t.Fatal(err)
	}
	if award.XP != 50 || fake.profile.XP != 50 {
		t.Fatalf("expected 50 XP, got award=%d stored=%d", award.XP, fake.profile.XP)
	}
	if award.LeveledUp {
		t.Fatal("50 XP should not reach level 2")
	}
	if fake.profile.Level != 1 {
		t.Fatalf("level cache should stay 1, got %d", fake.profile.Level)
	}
}

func TestAwardZeroXPStillEvaluatesBadges(t *testing.T) {
	e, fake := newTestEngine()
	projects := []roadmap.Project{{
		ID:       "a",
		Status:   roadmap.StatusInProgress,
		Sessions: []roadmap.WorkSession{{DurationSeconds: 10 * 3600}},
	}}

	// 30 tracked seconds floor to zero XP, but the hour badge aggregate
	// already crossed its threshold via appended sessions.
	award, err := e.AwardFocus(30, projects)
	if err != nil {
		t.Fatal(err)
	}
	if award.XP != 0 {
		t.Fatalf("expected 0 XP, got %d", award.XP)
	}
	if !fake.profile.HasBadge("b_grinder") {
		t.Fatal("hour badge should unlock regardless of XP amount")
	}
}

func TestAwardRepairsStaleLevelCache(t *testing.T) {
	e, fake := newTestEngine()
	fake.profile = roadmap.Profile{XP: 10000, Level: 3}

	award, err := e.AwardFocus(3600, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := LevelForXP(10100)
	if award.Level != want || fake.profile.Level != want {
		t.Fatalf("stale cache not repaired: award=%d stored=%d want=%d", award.Level, fake.profile.Level, want)
	}
}

func TestAwardBadgeBatchAppends(t *testing.T) {
	e, fake := newTestEngine()
	fake.profile.UnlockedBadges = []string{"b_first_step"}

	projects := []roadmap.Project{
		doneProject("a", "Network", "Python"),
		doneProject("b", "Network", "Python"),
		doneProject("c", "Security", "Python"),
	}
	award, err := e.AwardCompletion(projects[2], projects)
	if err != nil {
		t.Fatal(err)
	}
	ids := badgeIDs(award.Unlocked)
	if ids["b_first_step"] {
		t.Fatal("already-held badge must not be re-awarded")
	}
	for _, want := range []string{"b_builder", "b_net_eng", "b_py_snake"} {
		if !ids[want] {
			t.Errorf("expected %s in the unlock batch", want)
		}
	}
	if !fake.profile.HasBadge("b_first_step") || !fake.profile.HasBadge("b_builder") {
		t.Fatal("badge list lost prior entries")
	}
}
