package cmd

import (
	"context"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"repolines/internal/adapters/bus"
	"repolines/internal/adapters/storage"
	"repolines/internal/config"
	"repolines/internal/i18n"
	"repolines/internal/identify"
	"repolines/internal/statsclient"
	"repolines/logging"
	"repolines/paths"
)

// Container holds all dependencies for the application
type Container struct {
	Identifier  *identify.Identifier
	Registry    *prometheus.Registry
	Settings    *config.Settings
	StatsClient *statsclient.Client
	Store       *storage.SQLiteStore
	Translator  *i18n.Translator
}

// NewContainer creates a new Container with all dependencies wired
func NewContainer(settings *config.Settings) (*Container, error) {
	store, err := storage.NewSQLiteStore(paths.GetDBPath())
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	statsClient := statsclient.New(
		statsclient.WithMetrics(statsclient.NewMetrics(registry)),
		statsclient.WithTimeout(settings.RequestTimeout()),
	)

	return &Container{
		Identifier:  identify.New(settings.IdentifyRules()),
		Registry:    registry,
		Settings:    settings,
		StatsClient: statsClient,
		Store:       store,
		Translator:  i18n.New(detectLocale(store, settings)),
	}, nil
}

// detectLocale resolves the UI language: persisted choice, settings.json, then the environment
func detectLocale(store *storage.SQLiteStore, settings *config.Settings) string {
	persisted, err := store.Locale(context.Background())
	if err != nil {
		logging.Logger.Warn("Failed to read persisted locale", "error", err)
	}
	return i18n.Detect(persisted, settings.Locale, os.Getenv("LC_ALL"), os.Getenv("LC_MESSAGES"), os.Getenv("LANG"))
}

// Bus connects to the page message bus. natsURL overrides settings.json;
// with neither set it returns nil and no error.
func (c *Container) Bus(natsURL string) (*bus.Client, error) {
	if natsURL == "" {
		natsURL = c.Settings.NATSURL
	}
	if natsURL == "" {
		return nil, nil
	}
	return bus.Connect(natsURL, bus.DefaultSubject)
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.Store != nil {
		return c.Store.Close()
	}
	return nil
}
