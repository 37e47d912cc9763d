// Package buildinfo exposes the version stamped into the binary.
package buildinfo

import "fmt"

// Set via -ldflags "-X github.com/cleared-dev/stmtnorm/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String renders the build stamp for --version output.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
