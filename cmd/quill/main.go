package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"github.com/jorge-barreto/quill/internal/ux"
	"github.com/jorge-barreto/quill/internal/workflow"
)

func main() {
	app := &cli.Command{
		Name:        "quill",
		Usage:       "Outline, research and compose articles with an AI writing backend",
		Description: "Run 'quill docs' for documentation on stages, configuration and the outline commands.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "backend", Usage: "Backend base URL (overrides config)"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Log debug output to stderr"},
		},
		Commands: []*cli.Command{
			initCmd(),
			newCmd(),
			adoptCmd(),
			outlineCmd(),
			retrieveCmd(),
			composeCmd(),
			watchCmd(),
			statusCmd(),
			resetCmd(),
			runCmd(),
			doctorCmd(),
			stubCmd(),
			docsCmd(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := app.Run(ctx, os.Args)
	stop()
	if err != nil {
		report(err)
		os.Exit(1)
	}
}

// report prints err with the command that recovers from it.
func report(err error) {
	ux.Out = os.Stderr
	ux.Error(os.Stderr, err)

	var pe *workflow.PrerequisiteError
	switch {
	case errors.As(err, &pe):
		ux.Hint("Next", fallbackCommand(pe.Fallback))
	case errors.Is(err, workflow.ErrCompositionFailed):
		ux.Hint("Retry", "quill compose")
	case errors.Is(err, workflow.ErrStalePath):
		ux.Hint("Next", "quill outline show")
	case errors.Is(err, workflow.ErrNotApproved):
		ux.Hint("Next", "edit with 'quill outline', then 'quill run'")
	case errors.Is(err, context.Canceled):
		ux.Hint("Resume", "quill run")
	}
}

func fallbackCommand(s workflow.Stage) string {
	switch s {
	case workflow.StageOutline:
		return "quill retrieve"
	case workflow.StageRetrieval:
		return "quill watch retrieval"
	case workflow.StageComposition:
		return "quill compose"
	}
	return fmt.Sprintf("quill new %q", "<topic>")
}
