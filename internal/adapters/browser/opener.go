// Package browser opens pages in the user's web browser.
package browser

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"

	"repolines/internal/ports"
	"repolines/logging"
)

// Opener implements ports.URLOpener
type Opener struct {
	browser string
	start   func(name string, args ...string) error
}

var _ ports.URLOpener = (*Opener)(nil)

// NewOpener creates an opener. browser overrides the launcher when set.
// Priority: browser → $REPOLINES_BROWSER → $BROWSER → platform default
func NewOpener(browser string) *Opener {
	return &Opener{browser: browser, start: startDetached}
}

// Open opens rawURL in a new browser tab or window
func (o *Opener) Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("refusing to open %q: not an http(s) URL", rawURL)
	}

	name, args := o.command(rawURL)
	if name == "" {
		return fmt.Errorf("no browser found. Set $REPOLINES_BROWSER or $BROWSER")
	}

	logging.Logger.Info("Opening browser", "browser", name, "url", rawURL)
	if err := o.start(name, args...); err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	return nil
}

func (o *Opener) command(rawURL string) (string, []string) {
	if o.browser != "" {
		return o.browser, []string{rawURL}
	}
	if b := os.Getenv("REPOLINES_BROWSER"); b != "" {
		return b, []string{rawURL}
	}
	if b := os.Getenv("BROWSER"); b != "" {
		return b, []string{rawURL}
	}
	return platformCommand(rawURL)
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}

	go func() {
		if err := cmd.Wait(); err != nil {
			logging.Logger.Warn("Browser exited with error", "error", err, "browser", name)
		}
	}()
	return nil
}
