package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// BuildVersion is stamped into the test binary, so tests can tell it apart
// from an installed repolines
const BuildVersion = "integration"

const commandTimeout = 30 * time.Second

var binary struct {
	dir  string
	err  error
	once sync.Once
	path string
}

// CommandResult holds the exit code and output of one invocation
type CommandResult struct {
	ExitCode int
	Stderr   string
	Stdout   string
}

// BuildBinary compiles repolines from the module root once per test run.
func BuildBinary() (string, error) {
	binary.once.Do(func() {
		root, err := moduleRoot()
		if err != nil {
			binary.err = err
			return
		}

		binary.dir, err = os.MkdirTemp("", "repolines-it-*")
		if err != nil {
			binary.err = err
			return
		}
		binary.path = filepath.Join(binary.dir, "repolines")

		ldflags := "-X repolines/version.Version=" + BuildVersion
		build := exec.Command("go", "build", "-ldflags", ldflags, "-o", binary.path, ".")
		build.Dir = root
		if out, err := build.CombinedOutput(); err != nil {
			binary.err = fmt.Errorf("go build: %w\n%s", err, out)
		}
	})
	return binary.path, binary.err
}

// CleanupBinary removes the directory holding the test binary.
func CleanupBinary() {
	if binary.dir != "" {
		_ = os.RemoveAll(binary.dir)
	}
}

// RunCommand runs repolines with args inside env.
func RunCommand(tb testing.TB, env *TestEnvironment, args ...string) CommandResult {
	tb.Helper()
	return RunCommandWithTimeout(tb, env, commandTimeout, args...)
}

// RunCommandWithTimeout runs repolines inside env. A command that does not
// finish in time is killed and reports exit code -1.
func RunCommandWithTimeout(tb testing.TB, env *TestEnvironment, timeout time.Duration, args ...string) CommandResult {
	tb.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary.path, args...)
	cmd.Dir = env.Home
	cmd.Env = env.Environ()
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	result := CommandResult{}
	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		tb.Logf("repolines %s: timed out after %v", strings.Join(args, " "), timeout)
		result.ExitCode = -1
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	case err != nil:
		tb.Logf("repolines %s: %v", strings.Join(args, " "), err)
		result.ExitCode = -1
	}
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()
	return result
}

// SetServer stores url as the statistics server of env, or removes the
// server when url is empty. The first run of any command seeds the default.
func SetServer(tb testing.TB, env *TestEnvironment, url string) {
	tb.Helper()
	args := []string{"config", "unset-server"}
	if url != "" {
		args = []string{"config", "set-server", url}
	}
	if result := RunCommand(tb, env, args...); result.ExitCode != 0 {
		tb.Fatalf("failed to set server %q: %s", url, result)
	}
}

// moduleRoot locates the directory holding go.mod
func moduleRoot() (string, error) {
	out, err := exec.Command("go", "env", "GOMOD").Output()
	if err != nil {
		return "", fmt.Errorf("go env GOMOD: %w", err)
	}
	gomod := strings.TrimSpace(string(out))
	if gomod == "" || gomod == os.DevNull {
		return "", errors.New("not inside a Go module")
	}
	return filepath.Dir(gomod), nil
}
