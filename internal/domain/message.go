package domain

// Page message actions
const (
	ActionLocaleChanged = "localeChanged"
	ActionServerUpdated = "serverUpdated"
)

// PageMessage is a notification sent to every open page when a setting changes
type PageMessage struct {
	Action    string `json:"action"`
	Locale    string `json:"locale,omitempty"`
	ServerURL string `json:"serverUrl,omitempty"`
}

// ServerUpdated builds the message sent after the server URL was saved
func ServerUpdated(serverURL string) PageMessage {
	return PageMessage{Action: ActionServerUpdated, ServerURL: serverURL}
}

// LocaleChanged builds the message sent after the locale was switched
func LocaleChanged(locale string) PageMessage {
	return PageMessage{Action: ActionLocaleChanged, Locale: locale}
}
