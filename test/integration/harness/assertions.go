package harness

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// String renders the result for failure messages.
func (r CommandResult) String() string {
	return fmt.Sprintf("exit %d\nstdout:\n%s\nstderr:\n%s", r.ExitCode, r.Stdout, r.Stderr)
}

// AssertSuccess verifies the command exited with 0.
func AssertSuccess(tb testing.TB, result CommandResult) {
	tb.Helper()
	assert.Zero(tb, result.ExitCode, "expected success, got %s", result)
}

// AssertFailure verifies the command exited with a non-zero code.
func AssertFailure(tb testing.TB, result CommandResult) {
	tb.Helper()
	assert.NotZero(tb, result.ExitCode, "expected failure, got %s", result)
}

// AssertStdoutContains verifies stdout contains expected.
func AssertStdoutContains(tb testing.TB, result CommandResult, expected string) {
	tb.Helper()
	assert.Contains(tb, result.Stdout, expected, "stdout mismatch in %s", result)
}

// AssertStderrContains verifies stderr contains expected.
func AssertStderrContains(tb testing.TB, result CommandResult, expected string) {
	tb.Helper()
	assert.Contains(tb, result.Stderr, expected, "stderr mismatch in %s", result)
}

// AssertValidJSON decodes stdout into target.
func AssertValidJSON(tb testing.TB, result CommandResult, target any) {
	tb.Helper()
	require.NoError(tb, json.Unmarshal([]byte(result.Stdout), target), "invalid JSON in %s", result)
}

// AssertJSONContains decodes stdout as an object and checks one key.
func AssertJSONContains(tb testing.TB, result CommandResult, key string, expected any) {
	tb.Helper()
	var data map[string]any
	AssertValidJSON(tb, result, &data)
	assert.Equal(tb, expected, data[key], "JSON key %q", key)
}
