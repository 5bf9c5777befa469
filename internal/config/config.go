package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DirName is the per-project directory holding config, session and logs.
const DirName = ".quill"

type Backend struct {
	BaseURL        string        `yaml:"base-url" validate:"required,url"`
	RequestTimeout time.Duration `yaml:"request-timeout" validate:"gte=0"`
}

type Polling struct {
	Interval     time.Duration `yaml:"interval" validate:"gt=0"`
	FetchTimeout time.Duration `yaml:"fetch-timeout"`
}

type Retrieval struct {
	UseWeb bool `yaml:"use-web"`
	UseKB  bool `yaml:"use-kb"`
}

type Log struct {
	File    string `yaml:"file" validate:"required"`
	Level   string `yaml:"level" validate:"oneof=debug info warn error"`
	Console bool   `yaml:"console"`
}

type Stub struct {
	Addr string `yaml:"addr" validate:"required,hostname_port"`
}

type Config struct {
	Backend   Backend   `yaml:"backend"`
	Polling   Polling   `yaml:"polling"`
	Retrieval Retrieval `yaml:"retrieval"`
	Log       Log       `yaml:"log"`
	Stub      Stub      `yaml:"stub"`

	// Root is the project directory containing .quill/.
	Root string `yaml:"-"`
}

// Default returns the configuration used when no config file exists.
func Default(root string) *Config {
	return &Config{
		Backend: Backend{
			BaseURL:        "http://127.0.0.1:8000",
			RequestTimeout: 30 * time.Second,
		},
		Polling: Polling{
			Interval:     3 * time.Second,
			FetchTimeout: 10 * time.Second,
		},
		Retrieval: Retrieval{UseWeb: true, UseKB: true},
		Log: Log{
			File:  filepath.Join(DirName, "logs", "quill.log"),
			Level: "info",
		},
		Stub: Stub{Addr: "127.0.0.1:8000"},
		Root: root,
	}
}

// Path returns the config file location under root.
func Path(root string) string {
	return filepath.Join(root, DirName, "config.yaml")
}

// Load reads root/.quill/config.yaml over the defaults, applies environment
// overrides and validates the result. A missing file is not an error.
func Load(root string) (*Config, error) {
	cfg := Default(root)

	data, err := os.ReadFile(Path(root))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", Path(root), err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}
	cfg.Root = root

	if err := applyEnv(cfg, filepath.Join(root, ".env")); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindRoot walks up from dir looking for .quill/config.yaml.
func FindRoot(dir string) (string, bool) {
	for {
		if _, err := os.Stat(Path(dir)); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// StateDir is where session and timing files live.
func (c *Config) StateDir() string {
	return filepath.Join(c.Root, DirName)
}

// LogPath resolves log.file against the project root.
func (c *Config) LogPath() string {
	if filepath.IsAbs(c.Log.File) {
		return c.Log.File
	}
	return filepath.Join(c.Root, c.Log.File)
}
