package config

import (
	"reflect"
	"strings"

	"repolines/paths"
)

// GetSettingsFilePath returns the path to the settings file
func GetSettingsFilePath() string {
	return paths.GetSettingsPath()
}

// GetSettingsExample uses reflection to generate example settings.
// This automatically stays in sync when new fields are added to Settings.
func GetSettingsExample() map[string]any {
	var s Settings
	t := reflect.TypeOf(s)
	example := make(map[string]any)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		jsonTag := field.Tag.Get("json")
		if jsonTag == "" {
			continue
		}

		jsonName := strings.Split(jsonTag, ",")[0]
		example[jsonName] = generateExampleValue(field.Type, jsonName)
	}

	return example
}

// generateExampleValue creates appropriate example values based on type and field name
func generateExampleValue(t reflect.Type, fieldName string) any {
	if t.Kind() == reflect.Ptr {
		switch t.Elem().Kind() {
		case reflect.Bool:
			return fieldName == "debug"
		case reflect.Int:
			switch fieldName {
			case "auto_hide_seconds":
				return DefaultAutoHideSeconds
			case "exit_transition_ms":
				return DefaultExitTransitionMs
			case "history_delay_ms":
				return DefaultHistoryDelayMs
			case "max_log_files":
				return DefaultMaxLogFiles
			case "request_timeout_seconds":
				return DefaultRequestTimeoutSeconds
			case "settle_delay_ms":
				return DefaultSettleDelayMs
			}
			return 10
		}
	}

	switch t.Kind() {
	case reflect.String:
		switch fieldName {
		case "locale":
			return "en"
		case "nats_url":
			return "nats://127.0.0.1:4222"
		case "site_domain":
			return "github.com"
		default:
			return "example"
		}
	case reflect.Slice:
		switch fieldName {
		case "reserved_owners":
			return []string{"settings", "notifications", "explore", "marketplace"}
		case "sub_pages":
			return []string{"tree", "blob", "issues", "pull", "wiki", "discussions"}
		default:
			return []string{"example1", "example2"}
		}
	}

	return nil
}
