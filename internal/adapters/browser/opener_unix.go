//go:build !windows

package browser

import (
	"os/exec"
	"runtime"
)

func platformCommand(rawURL string) (string, []string) {
	if runtime.GOOS == "darwin" {
		return "open", []string{rawURL}
	}
	for _, launcher := range []string{"xdg-open", "sensible-browser", "x-www-browser"} {
		if _, err := exec.LookPath(launcher); err == nil {
			return launcher, []string{rawURL}
		}
	}
	return "", nil
}
