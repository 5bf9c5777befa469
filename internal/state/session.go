package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

func sessionPath(dir string) string {
	return filepath.Join(dir, "session.json")
}

// EnsureDir creates the session directory structure.
func EnsureDir(dir string) error {
	for _, d := range []string{dir, filepath.Join(dir, "logs")} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("creating session dir %s: %w", d, err)
		}
	}
	return nil
}

// Load reads the saved process from dir. Returns an empty state if none was saved.
func Load(dir string) (ProcessState, error) {
	data, err := os.ReadFile(sessionPath(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ProcessState{}, nil
		}
		return ProcessState{}, err
	}
	var ps ProcessState
	if err := json.Unmarshal(data, &ps); err != nil {
		return ProcessState{}, fmt.Errorf("parsing %s: %w", sessionPath(dir), err)
	}
	return ps, nil
}

// Save writes ps to dir, replacing any previously saved process.
func Save(dir string, ps ProcessState) error {
	data, err := json.MarshalIndent(ps, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(sessionPath(dir), data, 0644)
}

// Clear removes the saved process and its stage timing.
func Clear(dir string) error {
	for _, p := range []string{sessionPath(dir), timingPath(dir)} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}
