package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"repolines/internal/navigation"
	"repolines/internal/ui"
	"repolines/logging"
)

// RunCmd starts the page view
type RunCmd struct {
	Browser string `help:"Browser command used to open details (overrides $REPOLINES_BROWSER, $BROWSER)"`
	Dev     bool   `help:"Enable development mode (shows version info in the header)"`
	NATSURL string `name:"nats-url" help:"NATS server for settings change notifications (overrides settings.json)"`
	URL     string `arg:"" optional:"" help:"Initial page address" default:"https://github.com/"`
}

// Run executes the command
func (r *RunCmd) Run(cli *CLI) error {
	logging.Logger.Info("Starting page view", "url", r.URL)
	settings := cli.Container.Settings

	history := navigation.NewMemoryHistory(r.URL)
	watcher := navigation.NewWatcher(navigation.WithDelays(settings.HistoryDelay(), settings.SettleDelay()))
	watcher.ListenPopState(history)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	params := widgetParams{
		browser:  r.Browser,
		location: history,
		natsURL:  r.NATSURL,
		settled:  watcher.Settled(),
	}
	surface := ui.NewProgramSurface()
	params.notifier = surface
	params.surface = surface
	ctrl := newWidget(cli.Container, params)

	p := tea.NewProgram(
		ui.NewModel(history, watcher.Wrap(history), ctrl, ui.NewKeyMap(), r.Dev),
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse support
		tea.WithContext(ctx),      // Unblocks surface sends once cancelled
	)
	// The widget may render as soon as it starts, so attach first
	surface.Attach(p)

	if err := startWidget(gctx, g, cli.Container, ctrl, params); err != nil {
		cancel()
		watcher.Close()
		_ = g.Wait()
		return err
	}

	logging.Logger.Info("Starting TUI program")
	_, runErr := p.Run()

	// Teardown renders after the program is gone
	surface.Attach(nil)
	cancel()
	watcher.Close()
	if err := g.Wait(); err != nil {
		logging.Logger.Error("Widget stopped with error", "error", err)
	}

	if runErr != nil {
		logging.Logger.Error("TUI program error", "error", runErr)
		return fmt.Errorf("error running program: %w", runErr)
	}

	logging.Logger.Info("TUI program exited normally")
	return nil
}
