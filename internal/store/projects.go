package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Sid-Romero/tech-roadmap/internal/roadmap"
)

const projectColumns = `id, title, description, category, status, level, pos_x, pos_y,
	dependencies, tech_stack, complexity, priority, checklist, resources,
	time_spent_hours, github_url, notes, completed_at, created_at, updated_at`

// NewProjectID generates a fresh node id in the custom_<hex8> form.
func NewProjectID() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "custom_" + raw[:8]
}

// ListProjects returns every project with its sessions attached, in
// creation order.
func (s *Store) ListProjects() ([]roadmap.Project, error) {
	rows, err := s.db.Query(`SELECT ` + projectColumns + ` FROM projects ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []roadmap.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachSessions(projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *Store) GetProject(id string) (*roadmap.Project, error) {
	row := s.db.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get project %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	sessions, err := s.projectSessions(id)
	if err != nil {
		return nil, err
	}
	p.Sessions = sessions
	return p, nil
}

// CreateProject inserts a new node, filling defaults for anything the
// draft leaves empty, and returns the refreshed collection.
func (s *Store) CreateProject(draft roadmap.Project) ([]roadmap.Project, error) {
	if draft.ID == "" {
		draft.ID = NewProjectID()
	}
	if draft.Status == "" {
		draft.Status = roadmap.StatusLocked
	}
	if draft.Priority == "" {
		draft.Priority = roadmap.PriorityMedium
	}
	if draft.Level < 1 {
		draft.Level = 1
	}
	if draft.Complexity < 1 {
		draft.Complexity = 1
	}
	if draft.Position == (roadmap.Coordinates{}) {
		draft.Position = roadmap.Coordinates{X: 100, Y: 100}
	}
	now := time.Now().UTC()
	draft.CreatedAt = now
	draft.UpdatedAt = now

	if err := s.insertProject(draft); err != nil {
		return nil, err
	}
	return s.ListProjects()
}

func (s *Store) insertProject(p roadmap.Project) error {
	var completedAt *string
	if p.CompletedAt != nil {
		v := p.CompletedAt.UTC().Format(time.RFC3339)
		completedAt = &v
	}
	_, err := s.db.Exec(
		`INSERT INTO projects (`+projectColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Description, p.Category, string(p.Status), p.Level,
		p.Position.X, p.Position.Y,
		jsonText(p.Dependencies), jsonText(p.TechStack), p.Complexity, string(p.Priority),
		jsonText(p.Checklist), jsonText(p.Resources),
		p.TimeSpentHours, p.GitHubURL, p.Notes, completedAt,
		p.CreatedAt.UTC().Format(time.RFC3339), p.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert project %s: %w", p.ID, err)
	}
	return nil
}

// UpdateProject overwrites the stored row with p and returns the
// refreshed collection. Sessions are not written here; they only enter
// through AppendSession.
func (s *Store) UpdateProject(p roadmap.Project) ([]roadmap.Project, error) {
	var completedAt *string
	if p.CompletedAt != nil {
		v := p.CompletedAt.UTC().Format(time.RFC3339)
		completedAt = &v
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE projects SET title = ?, description = ?, category = ?, status = ?, level = ?,
			pos_x = ?, pos_y = ?, dependencies = ?, tech_stack = ?, complexity = ?, priority = ?,
			checklist = ?, resources = ?, time_spent_hours = ?, github_url = ?, notes = ?,
			completed_at = ?, updated_at = ?
		 WHERE id = ?`,
		p.Title, p.Description, p.Category, string(p.Status), p.Level,
		p.Position.X, p.Position.Y,
		jsonText(p.Dependencies), jsonText(p.TechStack), p.Complexity, string(p.Priority),
		jsonText(p.Checklist), jsonText(p.Resources),
		p.TimeSpentHours, p.GitHubURL, p.Notes, completedAt, now, p.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update project %s: %w", p.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("update project %s: %w", p.ID, ErrNotFound)
	}
	return s.ListProjects()
}

// DeleteProject removes the node and its sessions, then returns the
// refreshed collection. Dependency lists on other projects keep their
// entries; readers tolerate ids that no longer resolve.
func (s *Store) DeleteProject(id string) ([]roadmap.Project, error) {
	res, err := s.db.Exec(`DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("delete project %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("delete project %s: %w", id, ErrNotFound)
	}
	return s.ListProjects()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*roadmap.Project, error) {
	p := &roadmap.Project{}
	var status, priority string
	var deps, tech, checklist, resources string
	var completedAt sql.NullString
	var createdAt, updatedAt string
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Category, &status, &p.Level,
		&p.Position.X, &p.Position.Y,
		&deps, &tech, &p.Complexity, &priority, &checklist, &resources,
		&p.TimeSpentHours, &p.GitHubURL, &p.Notes, &completedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = roadmap.Status(status)
	p.Priority = roadmap.Priority(priority)
	fromJSON(deps, &p.Dependencies)
	fromJSON(tech, &p.TechStack)
	fromJSON(checklist, &p.Checklist)
	fromJSON(resources, &p.Resources)
	if completedAt.Valid {
		t, _ := time.Parse(time.RFC3339, completedAt.String)
		p.CompletedAt = &t
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return p, nil
}

func jsonText(v any) string {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return "[]"
	}
	return string(b)
}

func fromJSON(text string, target any) {
	if text == "" {
		return
	}
	_ = json.Unmarshal([]byte(text), target)
}
