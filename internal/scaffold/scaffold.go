// Package scaffold creates the .quill/ directory for a new project.
package scaffold

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/jorge-barreto/quill/internal/config"
)

var configTemplate = `# quill project configuration. Run 'quill docs config' for every field.

backend:
  # Where the processing service listens. QUILL_BASE_URL overrides this.
  base-url: http://127.0.0.1:8000
  request-timeout: 30s

polling:
  # Delay between status requests while retrieval or composition runs.
  interval: 3s
  # Bound on a single status request.
  fetch-timeout: 10s

retrieval:
  use-web: true
  use-kb: true

log:
  file: .quill/logs/quill.log
  level: info
  console: false

stub:
  # Address for 'quill stub', the offline stand-in backend.
  addr: 127.0.0.1:8000
`

var gitignoreTemplate = `session.json
timing.json
logs/
`

var envTemplate = `# Copy to .env to override .quill/config.yaml locally.
# QUILL_BASE_URL=http://127.0.0.1:8000
# QUILL_POLL_INTERVAL=3s
# QUILL_LOG_LEVEL=debug
`

// Init creates .quill/ under targetDir with a default config and prints
// next steps to w.
func Init(targetDir string, w io.Writer) error {
	dir := filepath.Join(targetDir, config.DirName)
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("%s directory already exists in %s", config.DirName, targetDir)
	}
	if err := os.MkdirAll(filepath.Join(dir, "logs"), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	files := []struct {
		path    string
		content string
	}{
		{config.Path(targetDir), configTemplate},
		{filepath.Join(dir, ".gitignore"), gitignoreTemplate},
		{filepath.Join(targetDir, ".env.example"), envTemplate},
	}
	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil {
			continue
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", filepath.Base(f.path), err)
		}
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(w, "\n%s\n\n", color.New(color.Bold, color.FgGreen).Sprint("✓ Initialized .quill/ directory"))
	fmt.Fprintf(w, "  Created:\n")
	fmt.Fprintf(w, "    %s  backend, polling and logging settings\n", cyan(".quill/config.yaml"))
	fmt.Fprintf(w, "    %s        local overrides template\n\n", cyan(".env.example"))
	fmt.Fprintf(w, "  Next steps:\n")
	fmt.Fprintf(w, "    1. Point %s at your backend, or run %s\n", cyan("backend.base-url"), cyan("quill stub"))
	fmt.Fprintf(w, "    2. Run %s to write your first article\n\n", cyan("quill run \"<topic>\""))
	return nil
}
