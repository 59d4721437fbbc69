// Package console prints pipeline progress for humans.
//
// Output is styled with lipgloss when writing to a terminal and falls back
// to plain ASCII markers otherwise, so CI logs stay readable.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dkoosis/modrelease/internal/taskgraph"
)

// DefaultWidth is the fallback header width when terminal detection fails.
const DefaultWidth = 80

// Printer writes styled progress lines.
type Printer struct {
	out   io.Writer
	theme Theme
	width int
	title cases.Caser
}

// New returns a Printer writing to out. Colors are used only when out is a
// terminal and noColor is false.
func New(out io.Writer, noColor bool) *Printer {
	theme := PlainTheme()
	if !noColor && IsTerminal(out) {
		theme = DefaultTheme(lipgloss.NewRenderer(out))
	}
	return &Printer{
		out:   out,
		theme: theme,
		width: terminalWidth(out),
		title: cases.Title(language.English),
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the terminal width for w, defaulting to DefaultWidth.
func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
			return min(tw, DefaultWidth)
		}
	}
	return DefaultWidth
}

// Header prints a top-level header with decoration.
func (p *Printer) Header(title string) {
	rule := strings.Repeat("=", p.width)
	padding := max((p.width-runewidth.StringWidth(title))/2, 0)
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.theme.Muted.Render(rule))
	fmt.Fprintln(p.out, strings.Repeat(" ", padding)+p.theme.Header.Render(title))
	fmt.Fprintln(p.out, p.theme.Muted.Render(rule))
}

// Section prints a section header.
func (p *Printer) Section(title string) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.theme.Section.Render("=== "+title+" ==="))
}

// Module prints the heading of per-module work inside a section.
func (p *Printer) Module(key, detail string) {
	line := p.theme.Icons.Bullet + " " + p.theme.Bold.Render(p.title.String(key))
	if detail != "" {
		line += " " + p.theme.Muted.Render(detail)
	}
	fmt.Fprintln(p.out, line)
}

// Success prints a success message.
func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.out, p.theme.Icons.Success+" "+p.theme.Success.Render(msg))
}

// Warning prints a warning message.
func (p *Printer) Warning(msg string) {
	fmt.Fprintln(p.out, p.theme.Icons.Warning+" "+p.theme.Warning.Render(msg))
}

// Error prints an error message.
func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.out, p.theme.Icons.Error+" "+p.theme.Error.Render(msg))
}

// Info prints an info message.
func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.out, p.theme.Icons.Info+" "+msg)
}

// Hooks returns runner callbacks that announce each task as it starts and
// report how it ended.
func (p *Printer) Hooks() taskgraph.Hooks {
	return taskgraph.Hooks{
		OnStart: func(e taskgraph.Event) {
			p.Section(fmt.Sprintf("%s (%d/%d)", e.Task, e.Index, e.Total))
		},
		OnFinish: func(e taskgraph.Event) {
			if e.Err != nil {
				p.Error(fmt.Sprintf("%s failed after %s", e.Task, formatDuration(e.Duration)))
				return
			}
			p.Success(fmt.Sprintf("%s done in %s", e.Task, formatDuration(e.Duration)))
		},
	}
}

// Summary prints one line per planned task of a finished run.
func (p *Printer) Summary(report *taskgraph.Report) {
	if report == nil {
		return
	}
	width := 0
	for _, r := range report.Results {
		width = max(width, runewidth.StringWidth(r.Task))
	}

	p.Section("Summary")
	for _, r := range report.Results {
		name := runewidth.FillRight(r.Task, width)
		switch r.Status {
		case taskgraph.StatusSucceeded:
			fmt.Fprintf(p.out, "%s %s  %s\n", p.theme.Icons.Success, name, p.theme.Muted.Render(formatDuration(r.Duration)))
		case taskgraph.StatusFailed:
			fmt.Fprintf(p.out, "%s %s  %s\n", p.theme.Icons.Error, name, p.theme.Error.Render(r.Err.Error()))
		case taskgraph.StatusSkipped:
			fmt.Fprintf(p.out, "%s %s  %s\n", p.theme.Icons.Skipped, name, p.theme.Muted.Render("not run"))
		}
	}
}

// TaskList prints the registered tasks and what each depends on, marking
// the default target.
func TaskList[C any](p *Printer, tasks []taskgraph.Task[C], defaultTarget string) {
	width := 0
	for _, t := range tasks {
		width = max(width, runewidth.StringWidth(t.Name))
	}
	for _, t := range tasks {
		line := runewidth.FillRight(t.Name, width)
		if len(t.Deps) > 0 {
			line += "  " + p.theme.Muted.Render("<- "+strings.Join(t.Deps, ", "))
		}
		if t.Name == defaultTarget {
			line += "  " + p.theme.Bold.Render("(default)")
		}
		fmt.Fprintln(p.out, line)
	}
}

// Plan prints an execution order without running it.
func (p *Printer) Plan(target string, order []string) {
	p.Section("Plan for " + target)
	for i, name := range order {
		fmt.Fprintf(p.out, "%2d. %s\n", i+1, name)
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return d.String()
	}
	return d.Round(time.Millisecond).String()
}
