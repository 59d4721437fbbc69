package magetasks

import (
	"io"
	"os"

	"github.com/dkoosis/modrelease/internal/console"
)

var out = console.New(os.Stdout, os.Getenv("NO_COLOR") != "")

// SetOutput redirects task output, mainly for tests.
func SetOutput(w io.Writer, noColor bool) {
	out = console.New(w, noColor)
}

// PrintH1Header prints a top-level header with decoration.
func PrintH1Header(title string) { out.Header(title) }

// PrintH2Header prints a section header.
func PrintH2Header(title string) { out.Section(title) }

// PrintSuccess prints a success message.
func PrintSuccess(msg string) { out.Success(msg) }

// PrintWarning prints a warning message.
func PrintWarning(msg string) { out.Warning(msg) }

// PrintError prints an error message.
func PrintError(msg string) { out.Error(msg) }

// PrintInfo prints an info message.
func PrintInfo(msg string) { out.Info(msg) }
