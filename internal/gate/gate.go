// Package gate asks a human to approve a step before the workflow continues.
package gate

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Decision is the outcome of a prompt.
type Decision struct {
	Approved bool
	// Feedback is whatever was typed instead of approving.
	Feedback string
}

// Gate prompts on Out and reads one line from In.
type Gate struct {
	In   io.Reader
	Out  io.Writer
	Auto bool
}

// Ask shows description and waits for an answer. "y" or "yes" approves;
// any other input is returned as feedback. Auto mode approves without
// reading.
func (g *Gate) Ask(ctx context.Context, name, description string) (Decision, error) {
	if g.Auto {
		fmt.Fprintf(g.Out, "Gate %q auto-approved (--auto mode)\n", name)
		return Decision{Approved: true}, nil
	}

	if description != "" {
		fmt.Fprintf(g.Out, "\n  %s\n\n", description)
	}
	fmt.Fprint(g.Out, "  [y to continue / anything else to stop]: ")

	type readResult struct {
		input string
		err   error
	}
	ch := make(chan readResult, 1)
	go func() {
		line, err := bufio.NewReader(g.In).ReadString('\n')
		if err == io.EOF && line != "" {
			err = nil
		}
		ch <- readResult{input: strings.TrimSpace(line), err: err}
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(g.Out, "\nGate cancelled")
		return Decision{}, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return Decision{}, fmt.Errorf("gate %q: reading answer: %w", name, r.err)
		}
		switch strings.ToLower(r.input) {
		case "y", "yes":
			fmt.Fprintf(g.Out, "Gate %q approved\n", name)
			return Decision{Approved: true}, nil
		default:
			fmt.Fprintf(g.Out, "Gate %q: stopped\n", name)
			return Decision{Feedback: r.input}, nil
		}
	}
}
