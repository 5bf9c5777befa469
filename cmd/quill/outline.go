package main

import (
	"context"
	"fmt"
	"strings"

	cli "github.com/urfave/cli/v3"

	"github.com/jorge-barreto/quill/internal/outline"
	"github.com/jorge-barreto/quill/internal/ux"
	"github.com/jorge-barreto/quill/internal/workflow"
)

// isPath reports whether arg is written as a path ("root", "0", "1.2")
// rather than a node id.
func isPath(arg string) bool {
	if arg == "root" || arg == "/" {
		return true
	}
	return arg != "" && strings.Trim(arg, "0123456789.") == ""
}

func resolve(s *workflow.Session, arg string) (workflow.PathRef, error) {
	if arg == "" {
		return workflow.PathRef{}, fmt.Errorf("section id or path is required")
	}
	if isPath(arg) {
		p, err := outline.ParsePath(arg)
		if err != nil {
			return workflow.PathRef{}, err
		}
		return s.LocatePath(p)
	}
	return s.Locate(arg)
}

func outlineCmd() *cli.Command {
	return &cli.Command{
		Name:  "outline",
		Usage: "Show and edit the outline",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the outline with section paths and ids",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withSession(cmd, func(e *env) error {
						ps := e.session.Store.Snapshot()
						if ps.ProcessID == "" {
							return &workflow.PrerequisiteError{Need: "an active process", Fallback: workflow.StageNone}
						}
						ux.RenderOutline(ps.Outline)
						return nil
					})
				},
			},
			{
				Name:      "add",
				Usage:     "Add a section under a parent",
				ArgsUsage: "<parent-id|path> <title>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "summary", Usage: "Section summary"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withSession(cmd, func(e *env) error {
						ref, err := resolve(e.session, cmd.Args().First())
						if err != nil {
							return err
						}
						parent := outline.NodeAt(e.session.Store.Snapshot().Outline, ref.Path)
						title := strings.Join(cmd.Args().Tail(), " ")
						n, err := e.session.AddSection(parent.ID, title, cmd.String("summary"))
						if err != nil {
							return err
						}
						fmt.Fprintf(ux.Out, "Added %q [%s] under %q\n", n.Title, n.ID, parent.Title)
						return nil
					})
				},
			},
			{
				Name:      "edit",
				Usage:     "Change a section's title or summary",
				ArgsUsage: "<id|path>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "New title"},
					&cli.StringFlag{Name: "summary", Usage: "New summary"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withSession(cmd, func(e *env) error {
						ref, err := resolve(e.session, cmd.Args().First())
						if err != nil {
							return err
						}
						cur := outline.NodeAt(e.session.Store.Snapshot().Outline, ref.Path)
						title, summary := cur.Title, cur.Summary
						if cmd.IsSet("title") {
							title = cmd.String("title")
						}
						if cmd.IsSet("summary") {
							summary = cmd.String("summary")
						}
						return e.session.UpdateSection(ref, title, summary)
					})
				},
			},
			{
				Name:      "rm",
				Usage:     "Remove a section and everything under it",
				ArgsUsage: "<id|path>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withSession(cmd, func(e *env) error {
						ref, err := resolve(e.session, cmd.Args().First())
						if err != nil {
							return err
						}
						return e.session.DeleteSection(ref)
					})
				},
			},
			{
				Name:  "save",
				Usage: "Send the outline to the backend",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withSession(cmd, func(e *env) error {
						return e.session.SaveOutline(ctx)
					})
				},
			},
		},
	}
}
