package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/Sid-Romero/tech-roadmap/internal/store"
)

func ToCSV(records []store.SessionRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	// Header
	if err := w.Write([]string{"ID", "Project", "Type", "Start", "End", "Duration (s)", "Duration", "Notes"}); err != nil {
		return err
	}

	for _, r := range records {
		endStr := ""
		if r.EndTime != nil {
			endStr = time.UnixMilli(*r.EndTime).Local().Format(time.RFC3339)
		}
		dur := formatDuration(r.DurationSeconds)

		row := []string{
			r.ID,
			r.ProjectTitle,
			string(r.Type),
			time.UnixMilli(r.StartTime).Local().Format(time.RFC3339),
			endStr,
			fmt.Sprintf("%d", r.DurationSeconds),
			dur,
			r.Notes,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatDuration(secs int) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
