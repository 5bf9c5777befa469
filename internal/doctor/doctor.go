// Package doctor inspects a project's quill setup and reports what is wrong
// with it: configuration, saved session, log file and backend health.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jorge-barreto/quill/internal/backend"
	"github.com/jorge-barreto/quill/internal/config"
	"github.com/jorge-barreto/quill/internal/state"
	"github.com/jorge-barreto/quill/internal/workflow"
)

const maxLogLines = 20

// Check is the outcome of one diagnostic.
type Check struct {
	Name   string
	OK     bool
	Detail string
}

// Report collects every check plus the tail of the log file.
type Report struct {
	Checks  []Check
	LogTail string
}

// Healthy reports whether every check passed.
func (r *Report) Healthy() bool {
	for _, c := range r.Checks {
		if !c.OK {
			return false
		}
	}
	return true
}

// Run checks cfg and the project it points at. b may be nil to skip the
// backend probe.
func Run(ctx context.Context, cfg *config.Config, b backend.Backend) *Report {
	r := &Report{}
	r.add(checkConfig(cfg))
	r.add(checkSession(cfg.StateDir()))
	r.add(checkTiming(cfg.StateDir()))
	r.add(checkLogDir(cfg.LogPath()))
	if b != nil {
		r.add(checkBackend(ctx, cfg, b))
	}
	if !r.Healthy() {
		r.LogTail = tailLog(cfg.LogPath(), maxLogLines)
	}
	return r
}

func (r *Report) add(c Check) {
	r.Checks = append(r.Checks, c)
}

func checkConfig(cfg *config.Config) Check {
	c := Check{Name: "config"}
	if err := config.Validate(cfg); err != nil {
		c.Detail = err.Error()
		return c
	}
	c.OK = true
	if _, err := os.Stat(config.Path(cfg.Root)); err != nil {
		c.Detail = "no config file, using defaults"
		return c
	}
	c.Detail = config.Path(cfg.Root)
	return c
}

func checkSession(dir string) Check {
	c := Check{Name: "session"}
	ps, err := state.Load(dir)
	if err != nil {
		c.Detail = err.Error()
		return c
	}
	c.OK = true
	if ps.ProcessID == "" {
		c.Detail = "no active process"
		return c
	}
	c.Detail = fmt.Sprintf("process %s (%s), stage %s", ps.ProcessID, ps.Topic, workflow.CurrentStage(ps))
	return c
}

func checkTiming(dir string) Check {
	c := Check{Name: "timing"}
	t, err := state.LoadTiming(dir)
	if err != nil {
		c.Detail = fmt.Sprintf("unreadable timing file: %v", err)
		return c
	}
	c.OK = true
	var open []string
	for _, e := range t.Entries {
		if e.End.IsZero() {
			open = append(open, fmt.Sprintf("%s started %s", e.Stage, e.Start.Format("15:04:05")))
		}
	}
	if len(open) == 0 {
		c.Detail = fmt.Sprintf("%d entries", len(t.Entries))
		return c
	}
	c.Detail = "in progress: " + strings.Join(open, "; ")
	return c
}

func checkLogDir(logPath string) Check {
	c := Check{Name: "logs"}
	dir := filepath.Dir(logPath)
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.OK = true
			c.Detail = dir + " not created yet"
			return c
		}
		c.Detail = err.Error()
		return c
	}
	f, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		c.Detail = fmt.Sprintf("%s is not writable: %v", dir, err)
		return c
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	c.OK = true
	c.Detail = logPath
	return c
}

func checkBackend(ctx context.Context, cfg *config.Config, b backend.Backend) Check {
	c := Check{Name: "backend"}
	start := time.Now()
	if err := workflow.CheckHealth(ctx, b); err != nil {
		c.Detail = err.Error()
		return c
	}
	c.OK = true
	c.Detail = fmt.Sprintf("%s healthy (%s)", cfg.Backend.BaseURL, time.Since(start).Round(time.Millisecond))
	return c
}

// tailLog returns the last n lines of the file at path.
func tailLog(path string, n int) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return "(no log file found)"
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
		return fmt.Sprintf("... (last %d lines)\n%s", n, strings.Join(lines, "\n"))
	}
	return strings.Join(lines, "\n")
}
