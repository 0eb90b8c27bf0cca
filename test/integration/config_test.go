package integration_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"repolines/test/integration/harness"
)

func TestConfig_ShowDefaults(t *testing.T) {
	env := harness.NewTestEnvironment(t)

	result := harness.RunCommand(t, env, "config", "show")
	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, "http://localhost:5000")
	harness.AssertStdoutContains(t, result, "github.com")
	harness.AssertStdoutContains(t, result, "en")
}

func TestConfig_ServerLifecycle(t *testing.T) {
	env := harness.NewTestEnvironment(t)

	result := harness.RunCommand(t, env, "config", "set-server", "https://stats.example.com/")
	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, "Server set to https://stats.example.com")

	result = harness.RunCommand(t, env, "config", "show")
	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, "https://stats.example.com")

	result = harness.RunCommand(t, env, "config", "unset-server")
	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, "Server removed")

	// the default is only seeded on first run
	result = harness.RunCommand(t, env, "config", "show")
	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, "(not set)")
}

func TestConfig_SetServerRejectsInvalidURL(t *testing.T) {
	env := harness.NewTestEnvironment(t)

	result := harness.RunCommand(t, env, "config", "set-server", "ftp://stats.example.com")
	harness.AssertFailure(t, result)
	harness.AssertStderrContains(t, result, "scheme must be http or https")
}

func TestConfig_Locale(t *testing.T) {
	env := harness.NewTestEnvironment(t)

	result := harness.RunCommand(t, env, "config", "locale", "zh")
	harness.AssertSuccess(t, result)

	result = harness.RunCommand(t, env, "config", "show")
	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, "Locale:  zh")
}

func TestConfig_Test(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	env := harness.NewTestEnvironment(t)

	result := harness.RunCommand(t, env, "config", "test", srv.URL)
	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, "is reachable")

	harness.SetServer(t, env, "")

	result = harness.RunCommand(t, env, "config", "test")
	harness.AssertFailure(t, result)
}
