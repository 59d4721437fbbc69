// Package toolchain invokes the external .NET CLI that compiles and
// publishes each module.
package toolchain

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/magefile/mage/sh"
)

// ErrNonZeroExit is returned when the command ran but exited with a non-zero code.
var ErrNonZeroExit = errors.New("command exited with non-zero code")

// ExitCodeError wraps an exit code for programmatic access.
type ExitCodeError struct {
	Command string
	Code    int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("%s: exit code %d", e.Command, e.Code)
}

func (e *ExitCodeError) Unwrap() error { return ErrNonZeroExit }

// Dotnet runs `dotnet clean` and `dotnet publish`. Output from the child
// process is streamed to Stdout and Stderr.
//
// Arguments go through sh.Exec, which expands $VAR and ${VAR} from Env and
// the process environment. Project paths and configuration names containing
// a literal '$' are therefore not passed through unchanged.
type Dotnet struct {
	Command string
	Stdout  io.Writer
	Stderr  io.Writer
	Env     map[string]string
}

// New returns a Dotnet that runs command, streaming its output to stdout and stderr.
func New(command string, stdout, stderr io.Writer) *Dotnet {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Dotnet{Command: command, Stdout: stdout, Stderr: stderr}
}

// Clean removes previous build output of project for the configuration.
func (d *Dotnet) Clean(project, configuration string) error {
	return d.run("clean", project, "--configuration", configuration)
}

// Publish builds and publishes project for the configuration.
func (d *Dotnet) Publish(project, configuration string) error {
	return d.run("publish", project, "--configuration", configuration)
}

func (d *Dotnet) run(args ...string) error {
	ran, err := sh.Exec(d.Env, d.Stdout, d.Stderr, d.Command, args...)
	if err == nil {
		return nil
	}
	line := d.Command + " " + strings.Join(args, " ")
	if !ran {
		return fmt.Errorf("%s: %w", line, err)
	}
	return &ExitCodeError{Command: line, Code: sh.ExitStatus(err)}
}

// IsCommandNotFound checks if the error indicates the command was not found.
// This handles exec.ErrNotFound and platform-specific string fallbacks.
func IsCommandNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	// Fallback string matching for edge cases
	errStr := err.Error()
	if strings.Contains(errStr, "executable file not found") {
		return true
	}
	if strings.Contains(errStr, "no such file or directory") {
		return true
	}
	return false
}
