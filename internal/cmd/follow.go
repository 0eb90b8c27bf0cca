package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"repolines/internal/adapters/terminal"
	"repolines/internal/navigation"
	"repolines/internal/statsclient"
	"repolines/logging"
	"repolines/paths"
)

// FollowCmd prints the widget for the page a browser helper writes to a file
type FollowCmd struct {
	Browser      string `help:"Browser command used to open details (overrides $REPOLINES_BROWSER, $BROWSER)"`
	LocationFile string `help:"File holding the current page URL (default: $REPOLINES_HOME/location)" type:"path"`
	MetricsAddr  string `help:"Serve Prometheus metrics on this address (e.g. :9090)"`
	NATSURL      string `name:"nats-url" help:"NATS server for settings change notifications (overrides settings.json)"`
}

// Run executes the command
func (f *FollowCmd) Run(cli *CLI) error {
	path := f.LocationFile
	if path == "" {
		path = paths.GetLocationFilePath()
	}
	settings := cli.Container.Settings

	feed, err := navigation.NewFileFeed(path)
	if err != nil {
		return err
	}
	defer feed.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	if err := feed.Start(gctx); err != nil {
		return err
	}

	watcher := navigation.NewWatcher(navigation.WithDelays(settings.HistoryDelay(), settings.SettleDelay()))
	defer watcher.Close()
	watcher.Observe(gctx, feed)

	printer := terminal.NewPrinter(os.Stdout)
	params := widgetParams{
		browser:  f.Browser,
		location: feed,
		natsURL:  f.NATSURL,
		notifier: printer,
		settled:  watcher.Settled(),
		surface:  printer,
	}
	ctrl := newWidget(cli.Container, params)
	if err := startWidget(gctx, g, cli.Container, ctrl, params); err != nil {
		stop()
		_ = g.Wait()
		return err
	}

	if f.MetricsAddr != "" {
		serveMetrics(gctx, g, f.MetricsAddr, cli.Container)
	}

	// Each line on stdin is a click on the widget
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			ctrl.Click()
		}
	}()

	fmt.Fprintf(os.Stderr, "Following %s (press Enter to click the widget, Ctrl+C to stop)\n", feed.Path())
	return g.Wait()
}

// serveMetrics exposes the container registry until ctx is done
func serveMetrics(ctx context.Context, g *errgroup.Group, addr string, c *Container) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", statsclient.MetricsHandler(c.Registry))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		logging.Logger.Info("Serving metrics", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
}
