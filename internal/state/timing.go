package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type TimingEntry struct {
	Stage    string    `json:"stage"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end,omitempty"`
	Duration string    `json:"duration,omitempty"`
}

// Timing records how long each workflow stage took.
type Timing struct {
	mu      sync.Mutex
	Entries []TimingEntry `json:"entries"`
}

func timingPath(dir string) string {
	return filepath.Join(dir, "timing.json")
}

// LoadTiming reads timing data from the session directory.
func LoadTiming(dir string) (*Timing, error) {
	data, err := os.ReadFile(timingPath(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Timing{}, nil
		}
		return nil, err
	}
	var t Timing
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// AddStart opens a new entry for stage. An entry that is already open for
// the same stage is left as is.
func (t *Timing) AddStart(stage string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.open(stage) >= 0 {
		return
	}
	t.Entries = append(t.Entries, TimingEntry{Stage: stage, Start: time.Now()})
}

// AddEnd closes the most recent open entry for stage.
func (t *Timing) AddEnd(stage string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.open(stage)
	if i < 0 {
		return
	}
	t.Entries[i].End = time.Now()
	t.Entries[i].Duration = FormatDuration(t.Entries[i].End.Sub(t.Entries[i].Start))
}

// Reset drops every entry, for a new process.
func (t *Timing) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Entries = nil
}

// Last returns the most recent entry for stage.
func (t *Timing) Last(stage string) (TimingEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := len(t.Entries) - 1; i >= 0; i-- {
		if t.Entries[i].Stage == stage {
			return t.Entries[i], true
		}
	}
	return TimingEntry{}, false
}

func (t *Timing) open(stage string) int {
	for i := len(t.Entries) - 1; i >= 0; i-- {
		if t.Entries[i].Stage == stage && t.Entries[i].End.IsZero() {
			return i
		}
	}
	return -1
}

// Flush writes the in-memory timing data to disk.
func (t *Timing) Flush(dir string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(timingPath(dir), data, 0644)
}

// FormatDuration renders d as "Xm YYs".
func FormatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %02ds", m, s)
}
