// Package ux renders workflow progress on the terminal.
package ux

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

// Out receives all rendered output. Tests replace it.
var Out io.Writer = color.Output

var (
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

var now = time.Now

func timestamp() string {
	return dim("[" + now().Format("15:04:05") + "]")
}

// StageHeader prints a timestamped stage banner.
func StageHeader(index, total int, name, description string) {
	rule := cyan("══════════════════════════════════════")
	fmt.Fprintf(Out, "\n%s %s\n", timestamp(), rule)
	title := fmt.Sprintf("Stage %d/%d: %s", index, total, name)
	if description != "" {
		title += " (" + description + ")"
	}
	fmt.Fprintf(Out, "%s  %s\n", timestamp(), bold(title))
	fmt.Fprintf(Out, "%s %s\n", timestamp(), rule)
}

// StageComplete prints a stage completion line.
func StageComplete(name, duration string) {
	msg := fmt.Sprintf("✓ %s complete", name)
	if duration != "" {
		msg += " (" + duration + ")"
	}
	fmt.Fprintf(Out, "%s  %s\n", timestamp(), green(msg))
}

// StageFail prints a stage failure line.
func StageFail(name, errMsg string) {
	fmt.Fprintf(Out, "%s  %s\n", timestamp(), red(fmt.Sprintf("✗ %s failed: %s", name, errMsg)))
}

// Hint prints a suggested next command.
func Hint(label, command string) {
	fmt.Fprintf(Out, "\n%s %s\n", yellow(label+":"), command)
}

// Warn prints a non-fatal problem, such as a failed status fetch.
func Warn(format string, args ...any) {
	fmt.Fprintf(Out, "  %s\n", yellow("⚠ "+fmt.Sprintf(format, args...)))
}

// Success prints the final message of a run.
func Success(msg string) {
	fmt.Fprintf(Out, "\n%s  %s\n\n", timestamp(), bold(green("══ "+msg+" ══")))
}

// Error prints err the way the CLI reports failures.
func Error(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", red("error:"), err)
}

// Check prints one diagnostic line.
func Check(ok bool, name, detail string) {
	mark := green("✓")
	if !ok {
		mark = red("✗")
	}
	fmt.Fprintf(Out, "  %s %-10s %s\n", mark, name, dim(detail))
}
