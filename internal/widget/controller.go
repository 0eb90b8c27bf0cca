// Package widget drives the floating statistics widget of a repository page.
package widget

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"

	"repolines/internal/domain"
	"repolines/internal/i18n"
	"repolines/internal/ports"
	"repolines/internal/statsclient"
	"repolines/logging"
)

// Default timings
const (
	DefaultAutoHide       = 5 * time.Second
	DefaultExitTransition = 300 * time.Millisecond
)

// Dependencies are the collaborators of a Controller.
// Config, Notifier and Opener are optional.
type Dependencies struct {
	Config     ports.ConfigSource
	Fetcher    ports.StatsFetcher
	Identifier ports.RepositoryIdentifier
	Location   ports.LocationProvider
	Notifier   ports.Notifier
	Opener     ports.URLOpener
	Surface    ports.Surface
	Translator ports.Translator
}

// Options tune a Controller. Zero values select the defaults.
type Options struct {
	AutoHide       time.Duration
	Clock          clockwork.Clock
	ExitTransition time.Duration
	ServerURL      string // used when no ConfigSource is set
}

// Snapshot is a consistent view of the controller state
type Snapshot struct {
	Attempt    int
	Err        error
	Mounted    bool
	Repository *domain.RepositoryRef
	ServerURL  string
	SessionID  string
	State      domain.WidgetState
	Stats      *domain.Stats
}

// Controller owns the widget lifecycle. All state lives on the goroutine
// running Run; every input is posted to it as an event.
type Controller struct {
	autoHide       time.Duration
	clock          clockwork.Clock
	deps           Dependencies
	done           chan struct{}
	events         chan func()
	exitTransition time.Duration

	// owned by the Run goroutine
	cancelFetch context.CancelFunc
	exitTimer   clockwork.Timer
	hideTimer   clockwork.Timer
	lastErr     error
	mounted     bool
	repo        *domain.RepositoryRef
	runCtx      context.Context
	server      domain.ServerConfig
	session     *domain.PollSession
	state       domain.WidgetState
	stats       *domain.Stats
	timerGen    uint64
}

// New creates a Controller. Run must be called to start processing events.
func New(deps Dependencies, opts Options) *Controller {
	c := &Controller{
		autoHide:       opts.AutoHide,
		clock:          opts.Clock,
		deps:           deps,
		done:           make(chan struct{}),
		events:         make(chan func(), 64),
		exitTransition: opts.ExitTransition,
		server:         domain.ServerConfig{BaseURL: opts.ServerURL},
		state:          domain.StateAbsent,
	}
	if c.autoHide <= 0 {
		c.autoHide = DefaultAutoHide
	}
	if c.exitTransition <= 0 {
		c.exitTransition = DefaultExitTransition
	}
	if c.clock == nil {
		c.clock = clockwork.NewRealClock()
	}
	return c
}

// Run processes events until ctx is done, then tears the widget down.
// The current location is evaluated once at start.
func (c *Controller) Run(ctx context.Context) error {
	c.runCtx = ctx
	defer close(c.done)
	defer c.teardown()

	var updates <-chan string
	if c.deps.Config != nil {
		url, err := c.deps.Config.ServerURL(ctx)
		if err != nil {
			logging.Logger.Warn("Failed to read server URL", "error", err)
		}
		c.server = domain.ServerConfig{BaseURL: url}
		updates = c.deps.Config.Subscribe(ctx)
	}

	logging.Logger.Info("Widget controller started", "server", c.server.BaseURL)
	c.handleNavigation()

	for {
		select {
		case <-ctx.Done():
			logging.Logger.Info("Widget controller stopped")
			return nil
		case ev := <-c.events:
			ev()
		case url, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			c.handleServerUpdated(url)
		}
	}
}

// Done is closed when Run has returned
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Navigated re-evaluates the current location
func (c *Controller) Navigated() {
	c.post(c.handleNavigation)
}

// Click handles a click on the widget
func (c *Controller) Click() {
	c.post(c.handleClick)
}

// ServerUpdated applies a new server URL ("" clears it)
func (c *Controller) ServerUpdated(url string) {
	c.post(func() { c.handleServerUpdated(url) })
}

// LocaleChanged switches the widget language
func (c *Controller) LocaleChanged(locale string) {
	c.post(func() { c.handleLocaleChanged(locale) })
}

// HandleMessage dispatches a page message. Unknown actions are ignored.
func (c *Controller) HandleMessage(msg domain.PageMessage) {
	switch msg.Action {
	case domain.ActionServerUpdated:
		c.ServerUpdated(msg.ServerURL)
	case domain.ActionLocaleChanged:
		c.LocaleChanged(msg.Locale)
	default:
		logging.Logger.Debug("Ignoring page message", "action", msg.Action)
	}
}

// Snapshot returns the current state. After Run has returned it reports an absent widget.
func (c *Controller) Snapshot() Snapshot {
	reply := make(chan Snapshot, 1)
	if !c.post(func() { reply <- c.snapshot() }) {
		return Snapshot{State: domain.StateAbsent}
	}
	select {
	case s := <-reply:
		return s
	case <-c.done:
		return Snapshot{State: domain.StateAbsent}
	}
}

// State returns the widget state
func (c *Controller) State() domain.WidgetState {
	return c.Snapshot().State
}

func (c *Controller) post(ev func()) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.events <- ev:
		return true
	case <-c.done:
		return false
	}
}

func (c *Controller) snapshot() Snapshot {
	s := Snapshot{
		Err:        c.lastErr,
		Mounted:    c.mounted,
		Repository: c.repo,
		ServerURL:  c.server.BaseURL,
		State:      c.state,
		Stats:      c.stats,
	}
	if c.session != nil {
		s.Attempt = c.session.Attempt
		s.SessionID = c.session.ID
	}
	return s
}

func (c *Controller) handleNavigation() {
	location := c.deps.Location.Location()
	repo := c.deps.Identifier.IdentifyURL(location)

	switch {
	case repo == nil:
		if c.repo != nil {
			logging.Logger.Debug("Left repository page", "repo", c.repo.FullName, "location", location)
		}
		c.teardown()
		c.repo = nil
	case domain.SameRepository(c.repo, repo):
		// same repository, keep whatever is shown
	default:
		logging.Logger.Info("Repository page detected", "repo", repo.FullName)
		c.teardown()
		c.repo = repo
		c.createWidget()
	}
}

func (c *Controller) createWidget() {
	c.deps.Surface.Mount()
	c.mounted = true

	if !c.server.Configured() {
		c.setState(domain.StateNoServer)
		return
	}
	c.startFetch()
}

func (c *Controller) handleClick() {
	switch c.state {
	case domain.StateSuccess, domain.StateLoading:
		c.openDetails()
	case domain.StateNoServer:
		if c.deps.Notifier != nil {
			c.deps.Notifier.Notify(c.deps.Translator.T(i18n.KeyConfigureServer))
		}
	case domain.StateError:
		if c.server.Configured() {
			c.startFetch()
		} else {
			c.setState(domain.StateNoServer)
		}
	}
}

func (c *Controller) openDetails() {
	if c.repo == nil || !c.server.Configured() {
		return
	}
	url := statsclient.DetailsURL(c.server.BaseURL, *c.repo)
	if c.deps.Opener == nil {
		logging.Logger.Warn("No URL opener configured", "url", url)
		return
	}
	if err := c.deps.Opener.Open(url); err != nil {
		logging.Logger.Error("Failed to open details", "url", url, "error", err)
	}
}

func (c *Controller) handleServerUpdated(url string) {
	// the same change can arrive from the store and from the bus
	if url == c.server.BaseURL && c.state == domain.StateLoading && c.session != nil {
		logging.Logger.Debug("Server unchanged, keeping current fetch", "server", url)
		return
	}
	c.server = domain.ServerConfig{BaseURL: url}
	logging.Logger.Info("Server updated", "server", url)

	if c.repo == nil || !c.mounted {
		return
	}
	if !c.server.Configured() {
		c.cancelSession()
		c.setState(domain.StateNoServer)
		return
	}
	c.startFetch()
}

func (c *Controller) handleLocaleChanged(locale string) {
	if !c.deps.Translator.SetLocale(locale) {
		logging.Logger.Warn("Unsupported locale", "locale", locale)
		return
	}
	if c.mounted {
		c.render()
	}
}

// startFetch cancels the live session, if any, and starts a new one for the tracked repository
func (c *Controller) startFetch() {
	c.cancelSession()

	repo := *c.repo
	session := domain.NewPollSession(repo, c.clock.Now())
	ctx, cancel := context.WithCancel(c.runCtx)
	c.session = session
	c.cancelFetch = cancel
	c.stats = nil
	c.lastErr = nil
	c.setState(domain.StateLoading)

	baseURL := c.server.BaseURL
	logging.Logger.Debug("Fetch started", "repo", repo.FullName, "session", session.ID)

	go func() {
		progress := func(o domain.Outcome) {
			c.post(func() { c.handleProgress(session.ID, repo, o) })
		}
		out := c.deps.Fetcher.Fetch(ctx, baseURL, repo, progress)
		c.post(func() { c.handleResult(session.ID, repo, out) })
	}()
}

func (c *Controller) live(sessionID string, repo domain.RepositoryRef) bool {
	return c.session != nil && c.session.ID == sessionID && domain.SameRepository(c.repo, &repo)
}

func (c *Controller) handleProgress(sessionID string, repo domain.RepositoryRef, o domain.Outcome) {
	if !c.live(sessionID, repo) || o.Kind != domain.OutcomeProcessing {
		return
	}
	c.session.Attempt++
}

func (c *Controller) handleResult(sessionID string, repo domain.RepositoryRef, out domain.Outcome) {
	if !c.live(sessionID, repo) {
		logging.Logger.Debug("Discarding stale result", "repo", repo.FullName, "session", sessionID)
		return
	}
	c.cancelSession()

	if out.Kind == domain.OutcomeReady && out.Stats != nil {
		logging.Logger.Info("Statistics ready", "repo", repo.FullName, "lines", out.Stats.TotalLines)
		c.stats = out.Stats
		c.setState(domain.StateSuccess)
		c.startAutoHide()
		return
	}

	err := out.Err
	if err == nil {
		err = domain.ErrTransportFailure
	}
	logging.Logger.Warn("Statistics fetch failed", "repo", repo.FullName, "error", err)
	c.lastErr = err
	if errors.Is(err, domain.ErrConfigurationMissing) {
		c.setState(domain.StateNoServer)
		return
	}
	c.setState(domain.StateError)
}

func (c *Controller) startAutoHide() {
	gen := c.timerGen
	c.hideTimer = c.clock.AfterFunc(c.autoHide, func() {
		c.post(func() { c.beginExit(gen) })
	})
}

func (c *Controller) beginExit(gen uint64) {
	if gen != c.timerGen || c.state != domain.StateSuccess {
		return
	}
	c.hideTimer = nil
	c.deps.Surface.BeginExit()
	c.exitTimer = c.clock.AfterFunc(c.exitTransition, func() {
		c.post(func() { c.finishExit(gen) })
	})
}

func (c *Controller) finishExit(gen uint64) {
	if gen != c.timerGen {
		return
	}
	c.exitTimer = nil
	c.unmount()
	c.state = domain.StateAbsent
	logging.Logger.Debug("Widget hidden", "repo", c.repo)
}

// setState moves to s. Leaving success stops the auto-hide and exit timers.
func (c *Controller) setState(s domain.WidgetState) {
	if c.state == domain.StateSuccess && s != domain.StateSuccess {
		c.stopTimers()
	}
	c.state = s
	if s.Visible() && c.mounted {
		c.render()
	}
}

func (c *Controller) render() {
	c.deps.Surface.Render(Content(c.deps.Translator, c.state, c.stats, c.lastErr))
}

func (c *Controller) stopTimers() {
	c.timerGen++
	if c.hideTimer != nil {
		c.hideTimer.Stop()
		c.hideTimer = nil
	}
	if c.exitTimer != nil {
		c.exitTimer.Stop()
		c.exitTimer = nil
	}
}

func (c *Controller) cancelSession() {
	if c.cancelFetch != nil {
		c.cancelFetch()
		c.cancelFetch = nil
	}
	c.session = nil
}

func (c *Controller) unmount() {
	if c.mounted {
		c.deps.Surface.Unmount()
		c.mounted = false
	}
}

// teardown removes the widget and releases its session and timers.
// The tracked repository is left to the caller.
func (c *Controller) teardown() {
	c.cancelSession()
	c.stopTimers()
	c.unmount()
	c.state = domain.StateAbsent
	c.stats = nil
	c.lastErr = nil
}
