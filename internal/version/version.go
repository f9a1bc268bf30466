package version

import "fmt"

// Version contains the application version information.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X git.home.luguber.info/inful/docsnap/internal/version.Version=v1.0.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Info returns the one-line version string printed by --version.
func Info() string {
	return fmt.Sprintf("docsnap %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
