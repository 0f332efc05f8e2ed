// Package version holds build metadata injected via -ldflags.
package version

import "fmt"

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// Short returns a one-line version string for --version output.
func Short() string {
	return fmt.Sprintf("rustdiag %s (%s, %s)", Version, CommitHash, BuildDate)
}
