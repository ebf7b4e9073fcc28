package store

import (
	"fmt"
	"time"

	"github.com/Sid-Romero/tech-roadmap/internal/roadmap"
)

// GetProfile reads the single gamification record. The row is created
// by the schema migration, so it always exists.
func (s *Store) GetProfile() (*roadmap.Profile, error) {
	p := &roadmap.Profile{}
	var badges, updatedAt string
	err := s.db.QueryRow(`SELECT xp, level, unlocked_badges, updated_at FROM profile WHERE id = 1`).
		Scan(&p.XP, &p.Level, &badges, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	fromJSON(badges, &p.UnlockedBadges)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return p, nil
}

// UpdateProfile applies the patch and returns the resulting profile.
func (s *Store) UpdateProfile(patch roadmap.ProfilePatch) (*roadmap.Profile, error) {
	query := `UPDATE profile SET updated_at = ?`
	args := []any{time.Now().UTC().Format(time.RFC3339)}

	if patch.XP != nil {
		query += `, xp = ?`
		args = append(args, *patch.XP)
	}
	if patch.Level != nil {
		query += `, level = ?`
		args = append(args, *patch.Level)
	}
	if patch.UnlockedBadges != nil {
		query += `, unlocked_badges = ?`
		args = append(args, jsonText(*patch.UnlockedBadges))
	}
	query += ` WHERE id = 1`

	if _, err := s.db.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.GetProfile()
}

// AddXP atomically increments the XP total and returns the resulting
// profile. The stored level is not touched here; the gamification
// engine recomputes and repairs it after every award.
func (s *Store) AddXP(amount int) (*roadmap.Profile, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`UPDATE profile SET xp = xp + ?, updated_at = ? WHERE id = 1`, amount, now)
	if err != nil {
		return nil, fmt.Errorf("add xp: %w", err)
	}
	return s.GetProfile()
}
