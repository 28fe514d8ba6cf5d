package project

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// backupState copies the current state file aside before it is
// overwritten. Backups live next to the state file under backups/ with a
// timestamped name.
func (s *Store) backupState() error {
	data, err := os.ReadFile(s.statePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read state for backup: %w", err)
	}

	dir := filepath.Join(filepath.Dir(s.statePath), "backups")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s", time.Now().Format("2006-01-02_15-04-05"), filepath.Base(s.statePath))
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}
