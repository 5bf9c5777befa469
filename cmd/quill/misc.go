package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/jorge-barreto/quill/internal/backend"
	"github.com/jorge-barreto/quill/internal/docs"
	"github.com/jorge-barreto/quill/internal/doctor"
	"github.com/jorge-barreto/quill/internal/scaffold"
	"github.com/jorge-barreto/quill/internal/stub"
	"github.com/jorge-barreto/quill/internal/ux"
)

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize a new .quill/ directory with the default config",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			return scaffold.Init(dir, os.Stdout)
		},
	}
}

func doctorCmd() *cli.Command {
	return &cli.Command{
		Name:  "doctor",
		Usage: "Check config, saved session, logs and backend health",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "offline", Usage: "Skip the backend health probe"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			var b backend.Backend
			if !cmd.Bool("offline") {
				b = backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.RequestTimeout, nil)
			}

			fmt.Fprintf(ux.Out, "\nquill doctor (%s)\n\n", cfg.Root)
			r := doctor.Run(ctx, cfg, b)
			for _, c := range r.Checks {
				ux.Check(c.OK, c.Name, c.Detail)
			}
			if r.Healthy() {
				ux.Success("All checks passed")
				return nil
			}
			fmt.Fprintf(ux.Out, "\nRecent log output:\n%s\n", r.LogTail)
			return errors.New("doctor: some checks failed")
		},
	}
}

func stubCmd() *cli.Command {
	return &cli.Command{
		Name:  "stub",
		Usage: "Serve an offline stand-in for the backend",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "Listen address (default from config)"},
			&cli.BoolFlag{Name: "fail-composition", Usage: "End every composition in an error"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg.Log.Console = true
			log, closeLog, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer closeLog()

			addr := cfg.Stub.Addr
			if cmd.IsSet("addr") {
				addr = cmd.String("addr")
			}
			srv := stub.New(stub.Options{
				FailComposition: cmd.Bool("fail-composition"),
				Logger:          log.Named("stub"),
			})

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Listen(addr) }()
			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				log.Info("shutting down stub backend")
				if err := srv.Shutdown(); err != nil {
					log.Warn("shutdown", zap.Error(err))
				}
				if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			}
		},
	}
}

func docsCmd() *cli.Command {
	return &cli.Command{
		Name:      "docs",
		Usage:     "Show documentation",
		ArgsUsage: "[topic]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				fmt.Print("\nAvailable topics:\n\n")
				for _, t := range docs.All() {
					fmt.Printf("  %-12s %s\n", t.Name, t.Summary)
				}
				fmt.Println("\nRun 'quill docs <topic>' to read a topic.")
				return nil
			}
			t, err := docs.Get(name)
			if err != nil {
				return err
			}
			fmt.Print(t.Content)
			return nil
		},
	}
}
