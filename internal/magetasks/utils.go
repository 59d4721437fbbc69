package magetasks

import (
	"fmt"
	"time"

	"github.com/magefile/mage/sh"

	"github.com/dkoosis/modrelease/internal/toolchain"
)

// IsCommandNotFound checks if the error indicates the command was not found.
func IsCommandNotFound(err error) bool {
	return toolchain.IsCommandNotFound(err)
}

// Run runs a command under a section header, streaming its output, and
// reports how long it took.
func Run(name, cmd string, args ...string) error {
	PrintH2Header(name)
	start := time.Now()
	if err := sh.RunV(cmd, args...); err != nil {
		PrintError(fmt.Sprintf("%s failed after %s", name, time.Since(start).Round(time.Millisecond)))
		return err
	}
	PrintSuccess(fmt.Sprintf("%s done in %s", name, time.Since(start).Round(time.Millisecond)))
	return nil
}
