package cmd

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"repolines/internal/config"
	"repolines/logging"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Debug       bool             `help:"Enable debug logging to file" short:"d"`
	DebugFile   string           `help:"Custom path for debug log file (disables automatic cleanup)"`
	MaxLogFiles int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"100"`

	Run      RunCmd      `cmd:"" help:"Open the page view with the statistics widget (default)" default:"withargs"`
	Follow   FollowCmd   `cmd:"follow" help:"Follow a location file and print the widget as status lines"`
	Config   ConfigCmd   `cmd:"config" help:"Manage the statistics server and language"`
	Identify IdentifyCmd `cmd:"identify" help:"Show which repository a URL belongs to"`
	Stats    StatsCmd    `cmd:"stats" help:"Fetch the line count of a repository once"`
	Settings SettingsCmd `cmd:"settings" help:"Manage settings (meta)"`

	// Internal fields (not flags)
	Container *Container       `kong:"-"`
	settings  *config.Settings `kong:"-"`
}

// SetSettings sets the settings on the CLI struct
func (c *CLI) SetSettings(settings *config.Settings) {
	c.settings = settings
}

// LoadedSettings returns the loaded settings (never nil)
func (c *CLI) LoadedSettings() *config.Settings {
	if c.settings == nil {
		return &config.Settings{}
	}
	return c.settings
}

// AfterApply initializes logging after CLI parsing and applies settings
func (c *CLI) AfterApply() error {
	// Precedence: CLI flags > env vars > settings.json > defaults
	if c.settings != nil {
		if c.MaxLogFiles == config.DefaultMaxLogFiles {
			if _, hasEnv := os.LookupEnv("REPOLINES_MAX_LOG_FILES"); !hasEnv {
				if c.settings.MaxLogFiles != nil {
					c.MaxLogFiles = *c.settings.MaxLogFiles
				}
			}
		}

		if !c.Debug {
			if _, hasEnv := os.LookupEnv("REPOLINES_DEBUG"); !hasEnv {
				if c.settings.Debug != nil && *c.settings.Debug {
					c.Debug = true
				}
			}
		}
	}

	logFilePath, err := logging.Initialize(c.Debug, c.DebugFile, c.MaxLogFiles)
	if err != nil {
		return err
	}

	// GORM's logger reads REPOLINES_DEBUG, so it is exported after initialization
	if c.Debug || c.DebugFile != "" {
		os.Setenv("REPOLINES_DEBUG", "1")
		if logFilePath != "" {
			os.Setenv("REPOLINES_DEBUG_FILE", logFilePath)
		}
	}

	// Container is created after logging so adapters log to the right place
	container, err := NewContainer(c.LoadedSettings())
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	c.Container = container

	return nil
}

// Close closes all resources held by the CLI
func (c *CLI) Close() error {
	if c.Container != nil {
		return c.Container.Close()
	}
	return nil
}
