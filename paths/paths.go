package paths

import (
	"os"
	"path/filepath"
)

// GetHome returns REPOLINES_HOME or ~/.repolines default
func GetHome() string {
	home := os.Getenv("REPOLINES_HOME")
	if home == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".repolines"
		}
		return filepath.Join(homeDir, ".repolines")
	}
	return ExpandPath(home)
}

// GetDBPath returns $REPOLINES_HOME/state.db
func GetDBPath() string {
	return filepath.Join(GetHome(), "state.db")
}

// GetSettingsPath returns $REPOLINES_HOME/settings.json
func GetSettingsPath() string {
	return filepath.Join(GetHome(), "settings.json")
}

// GetLocationFilePath returns $REPOLINES_HOME/location, the default file
// a browser helper writes the active tab URL to
func GetLocationFilePath() string {
	return filepath.Join(GetHome(), "location")
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			if len(path) == 1 {
				return homeDir
			}
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}
