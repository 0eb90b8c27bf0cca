package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"

	"repolines/internal/adapters/storage"
	"repolines/internal/config"
	"repolines/internal/domain"
	"repolines/internal/i18n"
	"repolines/logging"
)

// ConfigCmd manages the persisted configuration
type ConfigCmd struct {
	Edit        ConfigEditCmd        `cmd:"edit" help:"Edit server and language in a form"`
	Locale      ConfigLocaleCmd      `cmd:"locale" help:"Set the widget language"`
	SetServer   ConfigSetServerCmd   `cmd:"set-server" help:"Set the statistics server URL"`
	Show        ConfigShowCmd        `cmd:"show" help:"Show the current configuration" default:"1"`
	Test        ConfigTestCmd        `cmd:"test" help:"Check that the statistics server is reachable"`
	UnsetServer ConfigUnsetServerCmd `cmd:"unset-server" help:"Remove the statistics server URL"`
}

// ConfigShowCmd prints the configuration
type ConfigShowCmd struct{}

// Run executes the command
func (s *ConfigShowCmd) Run(cli *CLI) error {
	ctx := context.Background()
	url, err := cli.Container.Store.ServerURL(ctx)
	if err != nil {
		return err
	}
	if url == "" {
		url = "(not set)"
	}

	fmt.Printf("Server:  %s\n", url)
	fmt.Printf("Locale:  %s\n", cli.Container.Translator.Locale())
	fmt.Printf("Site:    %s\n", cli.Container.Identifier.SiteDomain())
	if nats := cli.Container.Settings.NATSURL; nats != "" {
		fmt.Printf("NATS:    %s\n", nats)
	}
	return nil
}

// ConfigSetServerCmd saves the server URL
type ConfigSetServerCmd struct {
	NATSURL string `name:"nats-url" help:"NATS server to notify open pages (overrides settings.json)"`
	URL     string `arg:"" help:"Statistics server base URL (e.g. http://localhost:5000)"`
}

// Run executes the command
func (s *ConfigSetServerCmd) Run(cli *CLI) error {
	url, err := config.NormalizeServerURL(s.URL)
	if err != nil {
		return err
	}
	if url == "" {
		return fmt.Errorf("server URL is empty, use unset-server to remove it")
	}
	return saveServer(cli, url, s.NATSURL)
}

// ConfigUnsetServerCmd removes the server URL
type ConfigUnsetServerCmd struct {
	NATSURL string `name:"nats-url" help:"NATS server to notify open pages (overrides settings.json)"`
}

// Run executes the command
func (s *ConfigUnsetServerCmd) Run(cli *CLI) error {
	return saveServer(cli, "", s.NATSURL)
}

// ConfigTestCmd probes the server health endpoint
type ConfigTestCmd struct {
	Timeout time.Duration `help:"How long to wait for the server" default:"5s"`
	URL     string        `arg:"" optional:"" help:"Server to test (default: the configured one)"`
}

// Run executes the command
func (s *ConfigTestCmd) Run(cli *CLI) error {
	url := s.URL
	if url == "" {
		configured, err := cli.Container.Store.ServerURL(context.Background())
		if err != nil {
			return err
		}
		url = configured
	}

	url, err := config.NormalizeServerURL(url)
	if err != nil {
		return err
	}
	if url == "" {
		return domain.ErrConfigurationMissing
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()
	if err := cli.Container.StatsClient.Health(ctx, url); err != nil {
		return fmt.Errorf("%s: %w", url, err)
	}

	fmt.Printf("✓ %s is reachable\n", url)
	return nil
}

// ConfigLocaleCmd saves the widget language
type ConfigLocaleCmd struct {
	Locale  string `arg:"" help:"Language code" enum:"en,zh"`
	NATSURL string `name:"nats-url" help:"NATS server to notify open pages (overrides settings.json)"`
}

// Run executes the command
func (s *ConfigLocaleCmd) Run(cli *CLI) error {
	return saveLocale(cli, s.Locale, s.NATSURL)
}

// ConfigEditCmd edits the configuration in an interactive form
type ConfigEditCmd struct {
	NATSURL string `name:"nats-url" help:"NATS server to notify open pages (overrides settings.json)"`
}

// Run executes the command
func (s *ConfigEditCmd) Run(cli *CLI) error {
	ctx := context.Background()
	current, err := cli.Container.Store.ServerURL(ctx)
	if err != nil {
		return err
	}

	server := current
	locale := cli.Container.Translator.Locale()
	testNow := true

	options := make([]huh.Option[string], 0, len(i18n.Locales()))
	for _, code := range i18n.Locales() {
		options = append(options, huh.NewOption(code, code))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Statistics server").
				Description("Base URL, leave empty to disable the widget").
				Placeholder(config.DefaultServerURL).
				Value(&server).
				Validate(func(v string) error {
					_, err := config.NormalizeServerURL(v)
					return err
				}),
			huh.NewSelect[string]().
				Title("Language").
				Options(options...).
				Value(&locale),
			huh.NewConfirm().
				Title("Test the connection after saving?").
				Value(&testNow),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return fmt.Errorf("form failed: %w", err)
	}

	server, err = config.NormalizeServerURL(server)
	if err != nil {
		return err
	}
	if server != current {
		if err := saveServer(cli, server, s.NATSURL); err != nil {
			return err
		}
	}
	if locale != cli.Container.Translator.Locale() {
		if err := saveLocale(cli, locale, s.NATSURL); err != nil {
			return err
		}
	}

	if testNow && server != "" {
		return (&ConfigTestCmd{Timeout: 5 * time.Second, URL: server}).Run(cli)
	}
	return nil
}

func saveServer(cli *CLI, url, natsURL string) error {
	ctx := context.Background()
	store := cli.Container.Store
	if url == "" {
		if err := store.Delete(ctx, storage.KeyServerURL); err != nil {
			return err
		}
		fmt.Println("✓ Server removed")
	} else {
		if err := store.Set(ctx, storage.KeyServerURL, url); err != nil {
			return err
		}
		fmt.Printf("✓ Server set to %s\n", url)
	}

	publish(cli, natsURL, domain.ServerUpdated(url))
	return nil
}

func saveLocale(cli *CLI, locale, natsURL string) error {
	if !cli.Container.Translator.SetLocale(locale) {
		return fmt.Errorf("unsupported locale %q", locale)
	}
	if err := cli.Container.Store.Set(context.Background(), storage.KeyLocale, locale); err != nil {
		return err
	}
	fmt.Printf("✓ Language set to %s\n", locale)

	publish(cli, natsURL, domain.LocaleChanged(locale))
	return nil
}

// publish notifies open pages. Failures are reported but do not fail the command.
func publish(cli *CLI, natsURL string, msg domain.PageMessage) {
	client, err := cli.Container.Bus(natsURL)
	if err != nil {
		logging.Logger.Warn("Failed to connect to message bus", "error", err)
		fmt.Fprintf(os.Stderr, "Warning: open pages were not notified: %v\n", err)
		return
	}
	if client == nil {
		return
	}
	defer client.Close()

	if err := client.Publish(msg); err != nil {
		logging.Logger.Warn("Failed to publish page message", "error", err)
		fmt.Fprintf(os.Stderr, "Warning: open pages were not notified: %v\n", err)
	}
}

