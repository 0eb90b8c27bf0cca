package cmd

import (
	"context"

	"golang.org/x/sync/errgroup"

	"repolines/internal/adapters/browser"
	"repolines/internal/navigation"
	"repolines/internal/ports"
	"repolines/internal/widget"
	"repolines/logging"
)

// widgetParams describe the page a widget controller is attached to
type widgetParams struct {
	browser  string
	location ports.LocationProvider
	natsURL  string
	notifier ports.Notifier
	settled  <-chan navigation.Settled
	surface  ports.Surface
}

// newWidget builds a controller for the page described by p
func newWidget(c *Container, p widgetParams) *widget.Controller {
	return widget.New(widget.Dependencies{
		Config:     c.Store,
		Fetcher:    c.StatsClient,
		Identifier: c.Identifier,
		Location:   p.location,
		Notifier:   p.notifier,
		Opener:     browser.NewOpener(p.browser),
		Surface:    p.surface,
		Translator: c.Translator,
	}, widget.Options{
		AutoHide:       c.Settings.AutoHide(),
		ExitTransition: c.Settings.ExitTransition(),
	})
}

// startWidget runs ctrl on g until ctx is done. Settled navigation signals
// and bus messages are forwarded to it.
func startWidget(ctx context.Context, g *errgroup.Group, c *Container, ctrl *widget.Controller, p widgetParams) error {
	g.Go(func() error {
		return ctrl.Run(ctx)
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case s, ok := <-p.settled:
				if !ok {
					return nil
				}
				logging.Logger.Debug("Re-evaluating page", "source", s.Source)
				ctrl.Navigated()
			}
		}
	})

	client, err := c.Bus(p.natsURL)
	if err != nil {
		return err
	}
	if client != nil {
		if err := client.Subscribe(ctx, ctrl.HandleMessage); err != nil {
			client.Close()
			return err
		}
		g.Go(func() error {
			<-ctx.Done()
			client.Close()
			return nil
		})
	}

	return nil
}
