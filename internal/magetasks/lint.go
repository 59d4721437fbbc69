package magetasks

import (
	"errors"
	"fmt"
)

// linter is one static check. Optional linters are skipped with a warning
// when their binary is not installed.
type linter struct {
	name     string
	cmd      string
	args     []string
	optional bool
	install  string
}

var golangciDisabled = "--disable=exhaustruct,varnamelen,ireturn,wrapcheck,nlreturn,gochecknoglobals,mnd,depguard,tagalign"

var (
	formatLinter      = linter{name: "Go Format", cmd: "go", args: []string{"fmt", "./..."}}
	vetLinter         = linter{name: "Go Vet", cmd: "go", args: []string{"vet", "./..."}}
	staticcheckLinter = linter{
		name:     "Staticcheck",
		cmd:      "staticcheck",
		args:     []string{"./..."},
		optional: true,
		install:  "honnef.co/go/tools/cmd/staticcheck@latest",
	}
	golangciLinter = linter{
		name:     "Golangci-lint",
		cmd:      "golangci-lint",
		args:     []string{"run", golangciDisabled, "--timeout=5m", "./..."},
		optional: true,
		install:  "github.com/golangci/golangci-lint/cmd/golangci-lint@latest",
	}
)

// run executes the linter. A missing optional linter yields an error that
// IsCommandNotFound recognises, after printing how to install it.
func (l linter) run() error {
	err := Run(l.name, l.cmd, l.args...)
	switch {
	case err == nil:
		return nil
	case l.optional && IsCommandNotFound(err):
		PrintWarning(fmt.Sprintf("%s not found (install: go install %s)", l.name, l.install))
		return err
	default:
		return fmt.Errorf("%s failed: %w", l.name, err)
	}
}

// LintAll runs every linter and reports all failures together. Missing
// optional linters do not fail the run.
func LintAll() error {
	var errs []error
	for _, l := range []linter{formatLinter, vetLinter, staticcheckLinter, golangciLinter} {
		if err := l.run(); err != nil && !(l.optional && IsCommandNotFound(err)) {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	PrintSuccess("All linters passed")
	return nil
}

// LintFormat formats the code.
func LintFormat() error { return formatLinter.run() }

// LintVet runs go vet.
func LintVet() error { return vetLinter.run() }

// LintStaticcheck runs staticcheck.
func LintStaticcheck() error { return staticcheckLinter.run() }

// LintGolangci runs golangci-lint.
func LintGolangci() error { return golangciLinter.run() }

// LintGolangciFix runs golangci-lint with auto-fixes.
func LintGolangciFix() error {
	fix := golangciLinter
	fix.name = "Golangci-lint Fix"
	fix.args = append([]string{"run", "--fix"}, fix.args[1:]...)
	return fix.run()
}
