package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestEnvironment is an isolated REPOLINES_HOME plus extra variables.
type TestEnvironment struct {
	Home     string
	extraEnv map[string]string
	tb       testing.TB
}

// NewTestEnvironment creates a test environment rooted in a temp directory
// that is removed when the test completes.
func NewTestEnvironment(tb testing.TB) *TestEnvironment {
	tb.Helper()

	return &TestEnvironment{
		Home:     tb.TempDir(),
		extraEnv: make(map[string]string),
		tb:       tb,
	}
}

// Environ returns the process environment with REPOLINES_* replaced by the
// isolated values.
func (e *TestEnvironment) Environ() []string {
	isolated := map[string]string{
		"LANG":              "en_US.UTF-8",
		"LC_ALL":            "",
		"LC_MESSAGES":       "",
		"REPOLINES_BROWSER": "true",
		"REPOLINES_DEBUG":   "",
		"REPOLINES_HOME":    e.Home,
	}
	for k, v := range e.extraEnv {
		isolated[k] = v
	}

	env := make([]string, 0, len(os.Environ())+len(isolated))
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if _, ok := isolated[key]; ok || strings.HasPrefix(key, "REPOLINES_") {
			continue
		}
		env = append(env, kv)
	}
	for k, v := range isolated {
		env = append(env, k+"="+v)
	}
	return env
}

// DBPath returns the path to the test database.
func (e *TestEnvironment) DBPath() string {
	return filepath.Join(e.Home, "state.db")
}

// SettingsPath returns the path to the test settings.json.
func (e *TestEnvironment) SettingsPath() string {
	return filepath.Join(e.Home, "settings.json")
}

// WriteSettings writes settings.json into the test home.
func (e *TestEnvironment) WriteSettings(content string) {
	e.tb.Helper()
	if err := os.WriteFile(e.SettingsPath(), []byte(content), 0o644); err != nil {
		e.tb.Fatalf("Failed to write settings: %v", err)
	}
}

// SetEnv sets an additional environment variable for this test environment.
func (e *TestEnvironment) SetEnv(key, value string) {
	e.extraEnv[key] = value
}
