package ports

import "context"

// ConfigSource provides the statistics server address and change notifications
type ConfigSource interface {
	// ServerURL returns the configured base URL ("" when unset)
	ServerURL(ctx context.Context) (string, error)

	// Subscribe delivers the new server URL every time it changes, whichever
	// process made the change. The channel is closed when ctx is done.
	Subscribe(ctx context.Context) <-chan string
}

// PreferenceReader reads persisted preferences
type PreferenceReader interface {
	Get(ctx context.Context, key string) (string, bool, error)
}

// PreferenceWriter writes persisted preferences
type PreferenceWriter interface {
	Delete(ctx context.Context, key string) error
	Set(ctx context.Context, key, value string) error
}

// PreferenceStore is the composite interface
type PreferenceStore interface {
	ConfigSource
	PreferenceReader
	PreferenceWriter
	Close() error
}
