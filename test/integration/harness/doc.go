// Package harness runs the compiled repolines binary against an isolated
// home directory.
//
// Environment variables managed:
//   - REPOLINES_HOME: a temp directory per test
//   - REPOLINES_DEBUG: disabled
//   - REPOLINES_BROWSER: "true", so nothing is opened
//   - LANG, LC_ALL, LC_MESSAGES: pinned to English output
package harness
