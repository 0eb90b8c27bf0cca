// Package integration_test runs the repolines binary end to end. The binary
// is compiled once in TestMain and every test gets its own REPOLINES_HOME.
package integration_test

import (
	"log"
	"os"
	"testing"

	"repolines/test/integration/harness"
)

func TestMain(m *testing.M) {
	if _, err := harness.BuildBinary(); err != nil {
		log.Fatalf("Failed to build binary: %v", err)
	}

	code := m.Run()

	harness.CleanupBinary()

	os.Exit(code)
}
