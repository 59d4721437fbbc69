package magetasks

import (
	"fmt"
)

// QualityCheck runs all quality checks.
func QualityCheck() error {
	PrintH1Header("modrelease Quality Checks")

	// Run linters
	if err := LintAll(); err != nil {
		PrintWarning("Linting issues found")
	}

	// Run tests
	if err := TestAll(); err != nil {
		return fmt.Errorf("tests failed: %w", err)
	}

	// Build
	if err := BuildAll(); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	PrintSuccess("Quality checks complete")
	return nil
}
