package store

import "fmt"

// Timer settings keys. The values are stored as strings; callers own
// the conversion.
const (
	SettingPomodoroDuration = "pomodoro_duration"
	SettingBreakDuration    = "break_duration"
	SettingDurationGoal     = "duration_goal"
	SettingCountdown        = "countdown"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}
