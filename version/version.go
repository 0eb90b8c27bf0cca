package version

import "fmt"

// Tagline is the application's tagline used in help text and documentation
const Tagline = "Line counts for the repository you are looking at"

// Build information injected at build time via ldflags
var (
	Commit    = "unknown" // Git commit hash
	Date      = "unknown" // Build date (RFC3339)
	GoVersion = "unknown" // Go version used
	Version   = "dev"     // Semantic version or "dev"
)

// Info returns formatted version information
func Info() string {
	return fmt.Sprintf("repolines %s (commit: %s, built: %s, go: %s)",
		Version, Commit, Date, GoVersion)
}
