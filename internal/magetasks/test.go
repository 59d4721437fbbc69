package magetasks

// TestAll runs all tests.
func TestAll() error {
	return Run("Tests", "go", "test", "./...")
}

// TestCoverage runs tests with coverage.
func TestCoverage() error {
	if err := Run("Test Coverage", "go", "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	// Ignore error for coverage display
	_ = Run("Coverage Report", "go", "tool", "cover", "-func=coverage.out")
	return nil
}

// TestRace runs tests with race detector.
func TestRace() error {
	return Run("Race Detector", "go", "test", "-race", "./...")
}
