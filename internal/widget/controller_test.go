package widget

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repolines/internal/domain"
	"repolines/internal/i18n"
	"repolines/internal/identify"
	"repolines/internal/ports"
)

const (
	repoA = "https://github.com/octocat/hello-world"
	repoB = "https://github.com/golang/go"
)

type fakeSurface struct {
	contents []ports.WidgetContent
	exits    int
	mounts   int
	mu       sync.Mutex
	unmounts int
}

func (s *fakeSurface) Mount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mounts++
}

func (s *fakeSurface) Render(content ports.WidgetContent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contents = append(s.contents, content)
}

func (s *fakeSurface) BeginExit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exits++
}

func (s *fakeSurface) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unmounts++
}

func (s *fakeSurface) counts() (mounts, exits, unmounts int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounts, s.exits, s.unmounts
}

func (s *fakeSurface) last() ports.WidgetContent {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.contents) == 0 {
		return ports.WidgetContent{}
	}
	return s.contents[len(s.contents)-1]
}

type fetchCall struct {
	baseURL  string
	ctx      context.Context
	progress func(domain.Outcome)
	repo     domain.RepositoryRef
	result   chan domain.Outcome
}

// fakeFetcher hands every fetch to the test, which completes it through result
type fakeFetcher struct {
	calls chan *fetchCall
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{calls: make(chan *fetchCall, 16)}
}

func (f *fakeFetcher) Fetch(ctx context.Context, baseURL string, repo domain.RepositoryRef, progress func(domain.Outcome)) domain.Outcome {
	call := &fetchCall{baseURL: baseURL, ctx: ctx, progress: progress, repo: repo, result: make(chan domain.Outcome, 1)}
	f.calls <- call
	select {
	case out := <-call.result:
		return out
	case <-ctx.Done():
		return domain.Failure(ctx.Err())
	}
}

func (f *fakeFetcher) next(t *testing.T) *fetchCall {
	t.Helper()
	select {
	case call := <-f.calls:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("expected a fetch")
		return nil
	}
}

func (f *fakeFetcher) none(t *testing.T) {
	t.Helper()
	select {
	case call := <-f.calls:
		t.Fatalf("unexpected fetch for %s", call.repo.FullName)
	case <-time.After(50 * time.Millisecond):
	}
}

type fakeLocation struct {
	mu  sync.Mutex
	url string
}

func (l *fakeLocation) Location() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.url
}

func (l *fakeLocation) set(url string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.url = url
}

type recorder struct {
	mu    sync.Mutex
	items []string
}

func (r *recorder) Open(url string) error {
	r.add(url)
	return nil
}

func (r *recorder) Notify(message string) {
	r.add(message)
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, s)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.items...)
}

type harness struct {
	clock    *clockwork.FakeClock
	ctrl     *Controller
	fetcher  *fakeFetcher
	location *fakeLocation
	notifier *recorder
	opener   *recorder
	stop     context.CancelFunc
	surface  *fakeSurface
}

// fakeConfig is a ConfigSource whose changes are pushed by the test
type fakeConfig struct {
	updates chan string
	url     string
}

func newFakeConfig(url string) *fakeConfig {
	return &fakeConfig{updates: make(chan string), url: url}
}

func (c *fakeConfig) ServerURL(context.Context) (string, error) {
	return c.url, nil
}

func (c *fakeConfig) Subscribe(context.Context) <-chan string {
	return c.updates
}

func newHarness(t *testing.T, initial, server string) *harness {
	t.Helper()
	return startHarness(t, initial, server, nil)
}

func newConfigHarness(t *testing.T, initial string, config *fakeConfig) *harness {
	t.Helper()
	return startHarness(t, initial, "", config)
}

func startHarness(t *testing.T, initial, server string, config ports.ConfigSource) *harness {
	t.Helper()
	h := &harness{
		clock:    clockwork.NewFakeClock(),
		fetcher:  newFakeFetcher(),
		location: &fakeLocation{url: initial},
		notifier: &recorder{},
		opener:   &recorder{},
		surface:  &fakeSurface{},
	}
	h.ctrl = New(Dependencies{
		Config:     config,
		Fetcher:    h.fetcher,
		Identifier: identify.New(identify.DefaultRules()),
		Location:   h.location,
		Notifier:   h.notifier,
		Opener:     h.opener,
		Surface:    h.surface,
		Translator: i18n.New(i18n.LocaleEnglish),
	}, Options{Clock: h.clock, ServerURL: server})

	ctx, cancel := context.WithCancel(context.Background())
	h.stop = cancel
	go h.ctrl.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-h.ctrl.Done()
	})
	return h
}

func (h *harness) navigate(url string) {
	h.location.set(url)
	h.ctrl.Navigated()
}

func (h *harness) waitState(t *testing.T, want domain.WidgetState) Snapshot {
	t.Helper()
	var snap Snapshot
	require.Eventually(t, func() bool {
		snap = h.ctrl.Snapshot()
		return snap.State == want
	}, 2*time.Second, 5*time.Millisecond, "state never became %s", want)
	return snap
}

func (h *harness) succeed(t *testing.T, call *fetchCall, lines int64) {
	t.Helper()
	call.result <- domain.Ready(domain.Stats{TotalLines: lines})
	h.waitState(t, domain.StateSuccess)
}

func TestController_NonRepositoryPageShowsNothing(t *testing.T) {
	h := newHarness(t, "https://github.com/settings/profile", "http://stats")

	assert.Equal(t, domain.StateAbsent, h.ctrl.State())
	h.fetcher.none(t)
	mounts, _, _ := h.surface.counts()
	assert.Zero(t, mounts)
}

func TestController_RepositoryWithServerLoadsThenSucceeds(t *testing.T) {
	h := newHarness(t, repoA, "http://stats")

	call := h.fetcher.next(t)
	assert.Equal(t, "octocat/hello-world", call.repo.FullName)
	assert.Equal(t, "http://stats", call.baseURL)
	snap := h.ctrl.Snapshot()
	assert.Equal(t, domain.StateLoading, snap.State)
	assert.True(t, snap.Mounted)
	assert.Equal(t, "Counting...", h.surface.last().Body)

	call.progress(domain.Processing())
	require.Eventually(t, func() bool { return h.ctrl.Snapshot().Attempt == 1 }, time.Second, 5*time.Millisecond)

	h.succeed(t, call, 1234567)
	content := h.surface.last()
	assert.Equal(t, "1,234,567", content.Body)
	assert.Equal(t, "lines of code", content.Unit)
}

func TestController_RepositoryWithoutServer(t *testing.T) {
	h := newHarness(t, repoA, "")

	h.waitState(t, domain.StateNoServer)
	h.fetcher.none(t)
	assert.Equal(t, "Configure a server first", h.surface.last().Body)

	h.ctrl.Click()
	require.Eventually(t, func() bool { return len(h.notifier.all()) == 1 }, time.Second, 5*time.Millisecond)
	h.fetcher.none(t)
}

func TestController_SameRepositoryDoesNotRecreate(t *testing.T) {
	h := newHarness(t, repoA, "http://stats")
	h.fetcher.next(t)

	h.navigate(repoA + "/tree/main")
	h.navigate(repoA + "/issues")
	h.ctrl.Snapshot()

	h.fetcher.none(t)
	mounts, _, unmounts := h.surface.counts()
	assert.Equal(t, 1, mounts)
	assert.Zero(t, unmounts)
}

func TestController_DifferentRepositoryRecreatesOnce(t *testing.T) {
	h := newHarness(t, repoA, "http://stats")
	first := h.fetcher.next(t)

	h.navigate(repoB)
	second := h.fetcher.next(t)
	assert.Equal(t, "golang/go", second.repo.FullName)

	// the superseded session is cancelled
	select {
	case <-first.ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("first session not cancelled")
	}

	mounts, _, unmounts := h.surface.counts()
	assert.Equal(t, 2, mounts)
	assert.Equal(t, 1, unmounts)
	assert.Equal(t, "golang/go", h.ctrl.Snapshot().Repository.FullName)
}

func TestController_StaleResultIsDiscarded(t *testing.T) {
	h := newHarness(t, repoA, "http://stats")
	first := h.fetcher.next(t)
	stale := first.progress

	h.navigate(repoB)
	h.fetcher.next(t)

	stale(domain.Processing())
	snap := h.ctrl.Snapshot()
	assert.Equal(t, domain.StateLoading, snap.State)
	assert.Zero(t, snap.Attempt)
	assert.Equal(t, "golang/go", snap.Repository.FullName)
}

func TestController_LeavingRepositoryRemovesWidget(t *testing.T) {
	h := newHarness(t, repoA, "http://stats")
	call := h.fetcher.next(t)

	h.navigate("https://github.com/explore")
	snap := h.waitState(t, domain.StateAbsent)
	assert.Nil(t, snap.Repository)
	assert.False(t, snap.Mounted)

	select {
	case <-call.ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("session not cancelled")
	}
}

func TestController_AutoHideAfterSuccess(t *testing.T) {
	h := newHarness(t, repoA, "http://stats")
	h.succeed(t, h.fetcher.next(t), 10)

	h.clock.Advance(DefaultAutoHide - time.Millisecond)
	_, exits, _ := h.surface.counts()
	assert.Zero(t, exits)

	h.clock.Advance(time.Millisecond)
	require.Eventually(t, func() bool {
		_, exits, _ := h.surface.counts()
		return exits == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, h.clock.BlockUntilContext(context.Background(), 1))
	h.clock.Advance(DefaultExitTransition)
	snap := h.waitState(t, domain.StateAbsent)
	assert.False(t, snap.Mounted)
	require.NotNil(t, snap.Repository)
	assert.Equal(t, "octocat/hello-world", snap.Repository.FullName)

	// still the same repository, nothing reappears
	h.navigate(repoA + "/blob/main/README.md")
	h.fetcher.none(t)
	assert.Equal(t, domain.StateAbsent, h.ctrl.State())
}

func TestController_NavigationCancelsAutoHide(t *testing.T) {
	h := newHarness(t, repoA, "http://stats")
	h.succeed(t, h.fetcher.next(t), 10)

	h.clock.Advance(time.Second)
	h.navigate(repoB)
	h.fetcher.next(t)
	h.waitState(t, domain.StateLoading)

	h.clock.Advance(10 * time.Second)
	assert.Never(t, func() bool {
		_, exits, _ := h.surface.counts()
		return exits > 0
	}, 100*time.Millisecond, 10*time.Millisecond)
	assert.Equal(t, domain.StateLoading, h.ctrl.State())
}

func TestController_ClickOpensDetails(t *testing.T) {
	h := newHarness(t, repoA, "http://stats/")
	call := h.fetcher.next(t)

	h.ctrl.Click()
	h.succeed(t, call, 1)
	h.ctrl.Click()

	require.Eventually(t, func() bool { return len(h.opener.all()) == 2 }, time.Second, 5*time.Millisecond)
	for _, url := range h.opener.all() {
		assert.Equal(t, "http://stats/stats?owner=octocat&repo=hello-world", url)
	}
}

func TestController_ClickOnErrorRetries(t *testing.T) {
	h := newHarness(t, repoA, "http://stats")
	call := h.fetcher.next(t)
	call.result <- domain.Failure(&domain.StatsError{Kind: domain.ErrPollTimeout, Attempts: 30})

	h.waitState(t, domain.StateError)
	assert.Equal(t, "Counting timed out, try again later", h.surface.last().Body)
	assert.Equal(t, "Click to retry", h.surface.last().Hint)

	h.ctrl.Click()
	retry := h.fetcher.next(t)
	assert.Equal(t, "octocat/hello-world", retry.repo.FullName)
	h.waitState(t, domain.StateLoading)

	mounts, _, _ := h.surface.counts()
	assert.Equal(t, 1, mounts)
}

func TestController_ServerConfiguredLater(t *testing.T) {
	h := newHarness(t, repoA, "")
	h.waitState(t, domain.StateNoServer)

	h.ctrl.HandleMessage(domain.ServerUpdated("http://stats"))
	call := h.fetcher.next(t)
	assert.Equal(t, "http://stats", call.baseURL)
	h.waitState(t, domain.StateLoading)
}

func TestController_ServerChangeRefetches(t *testing.T) {
	h := newHarness(t, repoA, "http://old")
	h.succeed(t, h.fetcher.next(t), 1)

	h.ctrl.ServerUpdated("http://new")
	call := h.fetcher.next(t)
	assert.Equal(t, "http://new", call.baseURL)
	h.waitState(t, domain.StateLoading)

	// the auto-hide timer of the old success is gone
	h.clock.Advance(time.Minute)
	assert.Never(t, func() bool {
		_, exits, _ := h.surface.counts()
		return exits > 0
	}, 100*time.Millisecond, 10*time.Millisecond)

	h.ctrl.ServerUpdated("")
	h.waitState(t, domain.StateNoServer)
	select {
	case <-call.ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("session not cancelled")
	}
}

func TestController_ServerUpdateWithoutRepositoryIsStored(t *testing.T) {
	h := newHarness(t, "https://github.com/", "")

	h.ctrl.ServerUpdated("http://stats")
	assert.Equal(t, "http://stats", h.ctrl.Snapshot().ServerURL)
	h.fetcher.none(t)

	h.navigate(repoA)
	call := h.fetcher.next(t)
	assert.Equal(t, "http://stats", call.baseURL)
}

func TestController_ReadsServerFromConfigSource(t *testing.T) {
	h := newConfigHarness(t, repoA, newFakeConfig("http://stats"))

	call := h.fetcher.next(t)
	assert.Equal(t, "http://stats", call.baseURL)
	assert.Equal(t, "http://stats", h.ctrl.Snapshot().ServerURL)
}

func TestController_FollowsConfigSourceChanges(t *testing.T) {
	config := newFakeConfig("")
	h := newConfigHarness(t, repoA, config)
	h.waitState(t, domain.StateNoServer)
	h.fetcher.none(t)

	config.updates <- "http://a"
	first := h.fetcher.next(t)
	assert.Equal(t, "http://a", first.baseURL)
	h.waitState(t, domain.StateLoading)

	config.updates <- ""
	h.waitState(t, domain.StateNoServer)
	select {
	case <-first.ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("session not cancelled")
	}

	config.updates <- "http://b"
	second := h.fetcher.next(t)
	assert.Equal(t, "http://b", second.baseURL)
	snap := h.waitState(t, domain.StateLoading)

	// the same change relayed over the bus keeps the running fetch
	h.ctrl.HandleMessage(domain.ServerUpdated("http://b"))
	h.fetcher.none(t)
	assert.Equal(t, snap.SessionID, h.ctrl.Snapshot().SessionID)
	assert.NoError(t, second.ctx.Err())

	// a closed subscription leaves the controller running
	close(config.updates)
	h.navigate(repoB)
	third := h.fetcher.next(t)
	assert.Equal(t, "golang/go", third.repo.FullName)
	assert.Equal(t, "http://b", third.baseURL)
}

func TestController_SameServerAfterErrorRefetches(t *testing.T) {
	h := newHarness(t, repoA, "http://stats")
	call := h.fetcher.next(t)
	call.result <- domain.Failure(&domain.StatsError{Kind: domain.ErrTransportFailure})
	h.waitState(t, domain.StateError)

	h.ctrl.ServerUpdated("http://stats")
	retry := h.fetcher.next(t)
	assert.Equal(t, "http://stats", retry.baseURL)
	h.waitState(t, domain.StateLoading)
}

func TestController_LocaleChangeRerenders(t *testing.T) {
	h := newHarness(t, repoA, "")
	h.waitState(t, domain.StateNoServer)

	h.ctrl.HandleMessage(domain.LocaleChanged("zh"))
	require.Eventually(t, func() bool {
		return h.surface.last().Body == "请先配置服务器"
	}, time.Second, 5*time.Millisecond)

	h.ctrl.HandleMessage(domain.PageMessage{Action: "unknown"})
	assert.Equal(t, domain.StateNoServer, h.ctrl.State())
}

func TestController_StopTearsDown(t *testing.T) {
	h := newHarness(t, repoA, "http://stats")
	call := h.fetcher.next(t)
	h.waitState(t, domain.StateLoading)

	h.stop()
	<-h.ctrl.Done()

	select {
	case <-call.ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("session not cancelled")
	}
	_, _, unmounts := h.surface.counts()
	assert.Equal(t, 1, unmounts)
	assert.Equal(t, domain.StateAbsent, h.ctrl.State())
}

func TestContent(t *testing.T) {
	tr := i18n.New(i18n.LocaleEnglish)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "timeout", err: &domain.StatsError{Kind: domain.ErrPollTimeout, Cause: domain.ErrPollTransientFailure}, want: "Counting timed out, try again later"},
		{name: "transient", err: domain.ErrPollTransientFailure, want: "Failed to fetch statistics"},
		{name: "transport", err: &domain.StatsError{Kind: domain.ErrTransportFailure}, want: "Could not reach the server"},
		{name: "other", err: context.Canceled, want: "Failed to fetch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := Content(tr, domain.StateError, nil, tt.err)
			assert.Equal(t, tt.want, content.Body)
			assert.Equal(t, "Code Stats", content.Title)
		})
	}
}
