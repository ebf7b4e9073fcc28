package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Sid-Romero/tech-roadmap/internal/store"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	Count      int           `json:"count"`
	Sessions   []jsonSession `json:"sessions"`
}

type jsonSession struct {
	ID          string `json:"id"`
	Project     string `json:"project"`
	ProjectID   string `json:"project_id"`
	Type        string `json:"type"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time,omitempty"`
	DurationSec int    `json:"duration_seconds"`
	Duration    string `json:"duration"`
	Notes       string `json:"notes,omitempty"`
}

func ToJSON(records []store.SessionRecord, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(records),
	}

	for _, r := range records {
		endStr := ""
		if r.EndTime != nil {
			endStr = time.UnixMilli(*r.EndTime).Local().Format(time.RFC3339)
		}

		export.Sessions = append(export.Sessions, jsonSession{
			ID:          r.ID,
			Project:     r.ProjectTitle,
			ProjectID:   r.ProjectID,
			Type:        string(r.Type),
			StartTime:   time.UnixMilli(r.StartTime).Local().Format(time.RFC3339),
			EndTime:     endStr,
			DurationSec: r.DurationSeconds,
			Duration:    formatDuration(r.DurationSeconds),
			Notes:       r.Notes,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
