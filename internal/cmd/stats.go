package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"repolines/internal/config"
	"repolines/internal/domain"
	"repolines/internal/i18n"
	"repolines/internal/statsclient"
)

// StatsCmd runs one statistics fetch and prints the result
type StatsCmd struct {
	Format string `help:"Output format: text or json" enum:"text,json" default:"text"`
	Server string `help:"Statistics server (default: the configured one)"`
	URL    string `arg:"" help:"Repository page URL"`
}

// Run executes the command
func (s *StatsCmd) Run(cli *CLI) error {
	repo := cli.Container.Identifier.IdentifyURL(s.URL)
	if repo == nil {
		return fmt.Errorf("%s is not a repository page", s.URL)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	server := s.Server
	if server == "" {
		configured, err := cli.Container.Store.ServerURL(ctx)
		if err != nil {
			return err
		}
		server = configured
	}
	server, err := config.NormalizeServerURL(server)
	if err != nil {
		return err
	}

	tr := cli.Container.Translator
	announced := false
	out := cli.Container.StatsClient.Fetch(ctx, server, *repo, func(o domain.Outcome) {
		if !announced && o.Kind == domain.OutcomeProcessing {
			fmt.Fprintln(os.Stderr, tr.T(i18n.KeyLoading))
			announced = true
		}
	})
	if out.Kind != domain.OutcomeReady {
		return out.Err
	}

	if s.Format == "json" {
		data, err := json.MarshalIndent(map[string]any{
			"cached":      out.Stats.Cached,
			"details_url": statsclient.DetailsURL(server, *repo),
			"repository":  repo.FullName,
			"total_files": out.Stats.TotalFiles,
			"total_lines": out.Stats.TotalLines,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("%s: %s %s\n", repo.FullName, tr.FormatCount(out.Stats.TotalLines), tr.T(i18n.KeyLinesOfCode))
	fmt.Println(statsclient.DetailsURL(server, *repo))
	return nil
}
