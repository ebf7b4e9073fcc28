package store

import (
	"fmt"
	"time"

	"github.com/Sid-Romero/tech-roadmap/internal/roadmap"
)

// HasProjects reports whether any project rows exist.
func (s *Store) HasProjects() (bool, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM projects`).Scan(&n); err != nil {
		return false, fmt.Errorf("count projects: %w", err)
	}
	return n > 0, nil
}

// SeedStarter inserts the starter roadmap into an empty database and
// returns the collection. Calling it when projects already exist is a
// no-op, so a reopened database is never seeded twice.
func (s *Store) SeedStarter() ([]roadmap.Project, error) {
	seeded, err := s.HasProjects()
	if err != nil {
		return nil, err
	}
	if seeded {
		return s.ListProjects()
	}
	for _, p := range roadmap.StarterRoadmap(time.Now().UTC()) {
		if err := s.insertProject(p); err != nil {
			return nil, fmt.Errorf("seed starter roadmap: %w", err)
		}
	}
	return s.ListProjects()
}
