// Package version carries build metadata stamped in via -ldflags, reported
// by the devkit command line tools.
package version

import "fmt"

var (
	// Version is the devkit release version.
	Version = "dev"
	// GitSHA is the git commit the binary was built from.
	GitSHA = "unknown"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// String returns the full version line printed by the -version flag.
func String() string {
	return fmt.Sprintf("oncekit %s (%s, built %s)", Version, GitSHA, BuildTime)
}
