package ui

import (
	"fmt"

	"repolines/internal/theme"
	"repolines/version"
)

// renderHeader creates the header shown above the page.
// In dev mode the build information follows the app name.
func renderHeader(devMode bool) string {
	appNameLine := theme.AppNameStyle.Render("repolines")
	if devMode {
		commit := version.Commit
		if len(commit) > 7 {
			commit = commit[:7] // Short commit hash
		}
		appNameLine += theme.VersionStyle.Render(fmt.Sprintf(" %s | %s | %s | %s",
			version.Version,
			commit,
			version.Date,
			version.GoVersion))
	}

	return appNameLine + "\n" + theme.TaglineStyle.Render(version.Tagline) + "\n"
}
