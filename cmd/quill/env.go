package main

import (
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/jorge-barreto/quill/internal/backend"
	"github.com/jorge-barreto/quill/internal/config"
	"github.com/jorge-barreto/quill/internal/logging"
	"github.com/jorge-barreto/quill/internal/ux"
	"github.com/jorge-barreto/quill/internal/workflow"
)

// env is what every process command needs: config, logger and the session
// restored from disk.
type env struct {
	cfg      *config.Config
	log      *zap.Logger
	closeLog func()
	session  *workflow.Session
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, ok := config.FindRoot(cwd)
	if !ok {
		root = cwd
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	if url := cmd.String("backend"); url != "" {
		cfg.Backend.BaseURL = url
	}
	if cmd.Bool("verbose") {
		cfg.Log.Console = true
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	return logging.New(logging.Options{
		File:    cfg.LogPath(),
		Level:   cfg.Log.Level,
		Console: cfg.Log.Console,
	})
}

func setup(cmd *cli.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	log, closeLog, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.RequestTimeout, log.Named("backend"))
	s, err := workflow.Open(client, cfg, log.Named("workflow"))
	if err != nil {
		closeLog()
		return nil, err
	}
	s.OnFetchError = func(err error) {
		ux.Warn("status request failed, retrying: %v", err)
	}
	return &env{cfg: cfg, log: log, closeLog: closeLog, session: s}, nil
}

func (e *env) Close() {
	e.session.Close()
	e.closeLog()
}

// withSession runs fn with a session and always releases it.
func withSession(cmd *cli.Command, fn func(*env) error) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(e)
}

// writeArticle saves content to path, or prints it when path is empty.
func writeArticle(path, content string) error {
	if path == "" {
		fmt.Fprintln(ux.Out)
		fmt.Fprintln(ux.Out, content)
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing article: %w", err)
	}
	ux.Hint("Article", path)
	return nil
}
