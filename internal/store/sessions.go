package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Sid-Romero/tech-roadmap/internal/roadmap"
)

// AppendSession stores one finished work session on a project, refreshes
// the project's logged-hours rollup and returns the refreshed collection.
// Sessions are never updated or deleted afterward.
func (s *Store) AppendSession(projectID string, ws roadmap.WorkSession) ([]roadmap.Project, error) {
	var exists int
	err := s.db.QueryRow(`SELECT 1 FROM projects WHERE id = ?`, projectID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("append session to %s: %w", projectID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("append session to %s: %w", projectID, err)
	}

	if ws.ID == "" {
		ws.ID = uuid.New().String()
	}
	if ws.Type == "" {
		ws.Type = roadmap.SessionFocus
	}
	_, err = s.db.Exec(
		`INSERT INTO work_sessions (id, project_id, start_time, end_time, duration_seconds, type, notes, task_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ws.ID, projectID, ws.StartTime, ws.EndTime, ws.DurationSeconds, string(ws.Type), ws.Notes, ws.TaskID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	// Keep the displayed hour total in sync with the session log,
	// rounded to a tenth of an hour.
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(
		`UPDATE projects
		 SET time_spent_hours = ROUND(
			(SELECT COALESCE(SUM(duration_seconds), 0) FROM work_sessions WHERE project_id = ?) / 3600.0, 1),
		     updated_at = ?
		 WHERE id = ?`,
		projectID, now, projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("refresh logged hours: %w", err)
	}
	return s.ListProjects()
}

// projectSessions loads one project's sessions in chronological order.
func (s *Store) projectSessions(projectID string) ([]roadmap.WorkSession, error) {
	rows, err := s.db.Query(
		`SELECT id, start_time, end_time, duration_seconds, type, notes, task_id
		 FROM work_sessions WHERE project_id = ? ORDER BY start_time, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list sessions for %s: %w", projectID, err)
	}
	defer rows.Close()

	var sessions []roadmap.WorkSession
	for rows.Next() {
		var ws roadmap.WorkSession
		var endTime sql.NullInt64
		var taskID sql.NullString
		var sessionType string
		if err := rows.Scan(&ws.ID, &ws.StartTime, &endTime, &ws.DurationSeconds, &sessionType, &ws.Notes, &taskID); err != nil {
			return nil, err
		}
		ws.Type = roadmap.SessionType(sessionType)
		if endTime.Valid {
			v := endTime.Int64
			ws.EndTime = &v
		}
		if taskID.Valid {
			v := taskID.String
			ws.TaskID = &v
		}
		sessions = append(sessions, ws)
	}
	return sessions, rows.Err()
}

// attachSessions fills the Sessions slice of every project in one query.
func (s *Store) attachSessions(projects []roadmap.Project) error {
	if len(projects) == 0 {
		return nil
	}
	rows, err := s.db.Query(
		`SELECT id, project_id, start_time, end_time, duration_seconds, type, notes, task_id
		 FROM work_sessions ORDER BY start_time, id`)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	byProject := map[string][]roadmap.WorkSession{}
	for rows.Next() {
		var ws roadmap.WorkSession
		var projectID string
		var endTime sql.NullInt64
		var taskID sql.NullString
		var sessionType string
		if err := rows.Scan(&ws.ID, &projectID, &ws.StartTime, &endTime, &ws.DurationSeconds, &sessionType, &ws.Notes, &taskID); err != nil {
			return err
		}
		ws.Type = roadmap.SessionType(sessionType)
		if endTime.Valid {
			v := endTime.Int64
			ws.EndTime = &v
		}
		if taskID.Valid {
			v := taskID.String
			ws.TaskID = &v
		}
		byProject[projectID] = append(byProject[projectID], ws)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for i := range projects {
		projects[i].Sessions = byProject[projects[i].ID]
	}
	return nil
}

// ListSessionRecords returns every session joined with its project
// title, oldest first, for exports and history views.
func (s *Store) ListSessionRecords() ([]SessionRecord, error) {
	rows, err := s.db.Query(`
		SELECT w.id, w.start_time, w.end_time, w.duration_seconds, w.type, w.notes, w.task_id,
		       w.project_id, p.title
		FROM work_sessions w
		JOIN projects p ON p.id = w.project_id
		ORDER BY w.start_time, w.id`)
	if err != nil {
		return nil, fmt.Errorf("list session records: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var r SessionRecord
		var endTime sql.NullInt64
		var taskID sql.NullString
		var sessionType string
		if err := rows.Scan(&r.ID, &r.StartTime, &endTime, &r.DurationSeconds, &sessionType,
			&r.Notes, &taskID, &r.ProjectID, &r.ProjectTitle); err != nil {
			return nil, err
		}
		r.Type = roadmap.SessionType(sessionType)
		if endTime.Valid {
			v := endTime.Int64
			r.EndTime = &v
		}
		if taskID.Valid {
			v := taskID.String
			r.TaskID = &v
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// DailyFocus aggregates tracked seconds per calendar day over [from, to).
func (s *Store) DailyFocus(from, to time.Time) ([]DailyFocus, error) {
	rows, err := s.db.Query(`
		SELECT date(start_time / 1000, 'unixepoch') AS day,
		       COALESCE(SUM(duration_seconds), 0), COUNT(*)
		FROM work_sessions
		WHERE start_time >= ? AND start_time < ?
		GROUP BY day
		ORDER BY day`,
		from.UnixMilli(), to.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("daily focus: %w", err)
	}
	defer rows.Close()

	var days []DailyFocus
	for rows.Next() {
		var d DailyFocus
		if err := rows.Scan(&d.Date, &d.TotalSeconds, &d.SessionCount); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}
