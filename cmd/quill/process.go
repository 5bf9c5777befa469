package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/jorge-barreto/quill/internal/backend"
	"github.com/jorge-barreto/quill/internal/gate"
	"github.com/jorge-barreto/quill/internal/outline"
	"github.com/jorge-barreto/quill/internal/state"
	"github.com/jorge-barreto/quill/internal/ux"
	"github.com/jorge-barreto/quill/internal/workflow"
)

var topicFlags = []cli.Flag{
	&cli.StringFlag{Name: "description", Usage: "What the article should cover"},
	&cli.StringFlag{Name: "problem", Usage: "The question the article should answer"},
}

func createInput(cmd *cli.Command) backend.CreateProcessInput {
	return backend.CreateProcessInput{
		Topic:       strings.Join(cmd.Args().Slice(), " "),
		Description: cmd.String("description"),
		Problem:     cmd.String("problem"),
	}
}

func newCmd() *cli.Command {
	return &cli.Command{
		Name:      "new",
		Usage:     "Start a process and generate its outline",
		ArgsUsage: "<topic>",
		Flags:     topicFlags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withSession(cmd, func(e *env) error {
				resp, err := e.session.Create(ctx, createInput(cmd))
				if err != nil {
					return err
				}
				fmt.Fprintf(ux.Out, "\nProcess %s\n\n", resp.ProcessID)
				ux.RenderOutline(resp.InitialOutline)
				ux.Hint("Next", "quill retrieve")
				return nil
			})
		},
	}
}

func adoptCmd() *cli.Command {
	return &cli.Command{
		Name:      "adopt",
		Usage:     "Make an existing backend process the active one",
		ArgsUsage: "<process-id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withSession(cmd, func(e *env) error {
				if err := e.session.Adopt(ctx, cmd.Args().First()); err != nil {
					return err
				}
				ps := e.session.Store.Snapshot()
				ux.RenderStatus(ps, e.session.Timing)
				if hint := adoptHint(workflow.CurrentStage(ps)); hint != "" {
					ux.Hint("Next", hint)
				}
				return nil
			})
		},
	}
}

// adoptHint names the command that continues an adopted process. A process
// whose retrieval never started cannot be continued: its outline is not
// available from the backend.
func adoptHint(st workflow.Stage) string {
	switch st {
	case workflow.StageRetrieval:
		return "quill watch retrieval"
	case workflow.StageComposition:
		return "quill run"
	case workflow.StageDone:
		return "quill status --article"
	}
	return ""
}

func retrieveCmd() *cli.Command {
	return &cli.Command{
		Name:  "retrieve",
		Usage: "Save the outline and research every leaf section",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-web", Usage: "Skip web search"},
			&cli.BoolFlag{Name: "no-kb", Usage: "Skip the knowledge base"},
			&cli.BoolFlag{Name: "detach", Usage: "Start without watching progress"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withSession(cmd, func(e *env) error {
				opts := e.session.RetrievalOptions()
				opts.UseWeb = opts.UseWeb && !cmd.Bool("no-web")
				opts.UseKB = opts.UseKB && !cmd.Bool("no-kb")

				st, err := e.session.StartRetrieval(ctx, opts)
				if err != nil {
					return err
				}
				ux.RetrievalProgress(st)
				if cmd.Bool("detach") {
					ux.Hint("Watch", "quill watch retrieval")
					return nil
				}
				return watchRetrieval(ctx, e)
			})
		},
	}
}

func composeCmd() *cli.Command {
	return &cli.Command{
		Name:  "compose",
		Usage: "Compose the article from the research (retries a failed composition)",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "detach", Usage: "Start without watching progress"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write the article to `FILE`"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withSession(cmd, func(e *env) error {
				if err := e.session.StartComposition(ctx); err != nil {
					return err
				}
				if cmd.Bool("detach") {
					ux.Hint("Watch", "quill watch article")
					return nil
				}
				return watchArticle(ctx, e, cmd.String("output"))
			})
		},
	}
}

func watchCmd() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Follow a running stage until it finishes",
		Commands: []*cli.Command{
			{
				Name:  "retrieval",
				Usage: "Follow retrieval progress",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withSession(cmd, func(e *env) error {
						return watchRetrieval(ctx, e)
					})
				},
			},
			{
				Name:  "article",
				Usage: "Follow composition progress",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write the article to `FILE`"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withSession(cmd, func(e *env) error {
						return watchArticle(ctx, e, cmd.String("output"))
					})
				},
			},
		},
	}
}

func watchRetrieval(ctx context.Context, e *env) error {
	final, err := e.session.WatchRetrieval(ctx, ux.RetrievalProgress)
	if err != nil {
		return err
	}
	fmt.Fprintln(ux.Out)
	ux.RenderRetrieval(final)
	ux.Hint("Next", "quill compose")
	return nil
}

func watchArticle(ctx context.Context, e *env, output string) error {
	last := ""
	final, err := e.session.WatchComposition(ctx, func(a *backend.ArticleResponse) {
		// Repeated statuses add nothing to the display.
		if a.CompositionStatus != last {
			ux.RenderComposition(a.CompositionStatus)
			last = a.CompositionStatus
		}
	})
	if err != nil {
		return err
	}
	return writeArticle(output, final.ArticleContent)
}

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the active process",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "article", Usage: "Print the article if it is finished"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withSession(cmd, func(e *env) error {
				ps := e.session.Store.Snapshot()
				ux.RenderStatus(ps, e.session.Timing)
				if cmd.Bool("article") && ps.ArticleContent != "" {
					return writeArticle("", ps.ArticleContent)
				}
				return nil
			})
		},
	}
}

func resetCmd() *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Forget the active process",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withSession(cmd, func(e *env) error {
				return e.session.Reset()
			})
		},
	}
}

var stageDescriptions = map[workflow.Stage]string{
	workflow.StageOutline:     "review the generated outline",
	workflow.StageRetrieval:   "research each section",
	workflow.StageComposition: "write the article",
}

func runCmd() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Drive a process from topic to finished article",
		ArgsUsage: "[topic]",
		Description: "With a topic, starts a new process. Without one, resumes the active process " +
			"from its current stage.",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{Name: "auto", Usage: "Accept the outline without asking"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write the article to `FILE`"},
		}, topicFlags...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withSession(cmd, func(e *env) error {
				s := e.session
				g := &gate.Gate{In: os.Stdin, Out: ux.Out, Auto: cmd.Bool("auto")}
				approve := func(ctx context.Context, tree *outline.Node) (bool, error) {
					ux.RenderOutline(tree)
					d, err := g.Ask(ctx, "outline", "Start research with this outline?")
					if err != nil {
						return false, err
					}
					if d.Feedback != "" {
						e.log.Info("outline not approved", zap.String("feedback", d.Feedback))
					}
					return d.Approved, nil
				}

				prev := workflow.StageNone
				s.OnStage = func(st workflow.Stage) {
					if prev != workflow.StageNone {
						ux.StageComplete(prev.String(), stageDuration(s.Timing, prev))
					}
					prev = st
					if st != workflow.StageDone {
						ux.StageHeader(int(st), 3, st.String(), stageDescriptions[st])
					}
				}
				s.OnRetrieval = ux.RetrievalProgress
				last := ""
				s.OnComposition = func(a *backend.ArticleResponse) {
					if a.CompositionStatus != last {
						ux.RenderComposition(a.CompositionStatus)
						last = a.CompositionStatus
					}
				}

				var art *backend.ArticleResponse
				var err error
				if cmd.Args().Present() {
					art, err = s.Run(ctx, createInput(cmd), approve)
				} else {
					art, err = s.Resume(ctx, approve)
				}
				if err != nil {
					if prev != workflow.StageNone && prev != workflow.StageDone {
						ux.StageFail(prev.String(), err.Error())
					}
					return err
				}
				ux.Success("Article complete")
				return writeArticle(cmd.String("output"), art.ArticleContent)
			})
		},
	}
}

func stageDuration(t *state.Timing, st workflow.Stage) string {
	if t == nil {
		return ""
	}
	e, ok := t.Last(st.String())
	if !ok {
		return ""
	}
	return e.Duration
}
