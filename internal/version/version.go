// Package version holds build information stamped in by the linker.
package version

import "fmt"

// Set with -ldflags "-X" by the Build mage target.
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// String formats the build information for --version.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, CommitHash, BuildDate)
}
