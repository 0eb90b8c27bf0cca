package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"repolines/internal/identify"
	"repolines/paths"
)

// Defaults applied when settings.json leaves a field unset
const (
	DefaultAutoHideSeconds       = 5
	DefaultExitTransitionMs      = 300
	DefaultHistoryDelayMs        = 100
	DefaultMaxLogFiles           = 100
	DefaultRequestTimeoutSeconds = 30
	DefaultServerURL             = "http://localhost:5000"
	DefaultSettleDelayMs         = 500
)

// Settings represents the structure of $REPOLINES_HOME/settings.json
type Settings struct {
	AutoHideSeconds       *int        `json:"auto_hide_seconds,omitempty"`
	Debug                 *bool       `json:"debug,omitempty"`
	ExitTransitionMs      *int        `json:"exit_transition_ms,omitempty"`
	HistoryDelayMs        *int        `json:"history_delay_ms,omitempty"`
	Locale                string      `json:"locale,omitempty"`
	MaxLogFiles           *int        `json:"max_log_files,omitempty"`
	NATSURL               string      `json:"nats_url,omitempty"`
	RequestTimeoutSeconds *int        `json:"request_timeout_seconds,omitempty"`
	ReservedOwners        StringArray `json:"reserved_owners,omitempty"`
	SettleDelayMs         *int        `json:"settle_delay_ms,omitempty"`
	SiteDomain            string      `json:"site_domain,omitempty"`
	SubPages              StringArray `json:"sub_pages,omitempty"`
}

// StringArray supports both JSON arrays and comma-separated strings
type StringArray []string

// UnmarshalJSON implements custom unmarshaling for StringArray
func (sa *StringArray) UnmarshalJSON(data []byte) error {
	// Try array format first
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*sa = arr
		return nil
	}

	// Fall back to comma-separated string
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*sa = parseCommaSeparated(str)
	return nil
}

// parseCommaSeparated splits comma-separated string and trims whitespace
func parseCommaSeparated(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// LoadSettings loads settings from $REPOLINES_HOME/settings.json.
// Returns empty Settings if the file doesn't exist (not an error).
func LoadSettings() (*Settings, error) {
	return LoadSettingsFrom(paths.GetSettingsPath())
}

// LoadSettingsFrom loads settings from an explicit path
func LoadSettingsFrom(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil // Not an error, use defaults
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	return &settings, nil
}

// IdentifyRules returns the repository matching rules with defaults applied
func (s *Settings) IdentifyRules() identify.Rules {
	rules := identify.DefaultRules()
	if s == nil {
		return rules
	}
	if s.SiteDomain != "" {
		rules.SiteDomain = s.SiteDomain
	}
	if len(s.ReservedOwners) > 0 {
		rules.ReservedOwners = s.ReservedOwners
	}
	if len(s.SubPages) > 0 {
		rules.SubPages = s.SubPages
	}
	return rules
}

// AutoHide returns how long a successful widget stays visible
func (s *Settings) AutoHide() time.Duration {
	return durationOr(s, func(s *Settings) *int { return s.AutoHideSeconds }, DefaultAutoHideSeconds, time.Second)
}

// ExitTransition returns the length of the widget exit transition
func (s *Settings) ExitTransition() time.Duration {
	return durationOr(s, func(s *Settings) *int { return s.ExitTransitionMs }, DefaultExitTransitionMs, time.Millisecond)
}

// HistoryDelay returns the settle delay after a history change
func (s *Settings) HistoryDelay() time.Duration {
	return durationOr(s, func(s *Settings) *int { return s.HistoryDelayMs }, DefaultHistoryDelayMs, time.Millisecond)
}

// SettleDelay returns the settle delay after a burst of page mutations
func (s *Settings) SettleDelay() time.Duration {
	return durationOr(s, func(s *Settings) *int { return s.SettleDelayMs }, DefaultSettleDelayMs, time.Millisecond)
}

// RequestTimeout returns the per-request HTTP timeout
func (s *Settings) RequestTimeout() time.Duration {
	return durationOr(s, func(s *Settings) *int { return s.RequestTimeoutSeconds }, DefaultRequestTimeoutSeconds, time.Second)
}

func durationOr(s *Settings, field func(*Settings) *int, def int, unit time.Duration) time.Duration {
	if s != nil {
		if v := field(s); v != nil && *v > 0 {
			return time.Duration(*v) * unit
		}
	}
	return time.Duration(def) * unit
}
