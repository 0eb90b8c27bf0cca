package config

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeServerURL validates a statistics server address and strips trailing slashes.
// An empty input is returned as-is and means "no server".
func NormalizeServerURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid server URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid server URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid server URL %q: missing host", raw)
	}

	return strings.TrimRight(raw, "/"), nil
}
