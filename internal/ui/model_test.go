package ui

import (
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repolines/internal/domain"
	"repolines/internal/navigation"
	"repolines/internal/ports"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

type countingClicker struct {
	clicks int
}

func (c *countingClicker) Click() { c.clicks++ }

func newTestModel(t *testing.T) (*Model, *navigation.MemoryHistory, *countingClicker) {
	t.Helper()
	history := navigation.NewMemoryHistory("https://github.com/")
	clicker := &countingClicker{}
	m := NewModel(history, history, clicker, NewKeyMap(), false)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, history, clicker
}

func typeText(m *Model, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

var successContent = ports.WidgetContent{
	Body:  "1,234",
	Hint:  "Click for details",
	State: domain.StateSuccess,
	Title: "Code Stats",
	Unit:  "lines of code",
}

func TestModel_EnterPushesHistory(t *testing.T) {
	m, history, _ := newTestModel(t)

	m.address.SetValue("")
	typeText(m, "https://github.com/octocat/hello-world")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "https://github.com/octocat/hello-world", history.Location())
	assert.Equal(t, 2, history.Len())

	// same location is not pushed twice
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 2, history.Len())
}

func TestModel_BackAndForwardUpdateAddress(t *testing.T) {
	m, history, _ := newTestModel(t)
	history.PushState("https://github.com/a/b")

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlB})
	assert.Equal(t, "https://github.com/", m.address.Value())

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	assert.Equal(t, "https://github.com/a/b", m.address.Value())
}

func TestModel_WidgetLifecycle(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.NotContains(t, m.View(), "Code Stats")

	m.Update(widgetMountMsg{})
	m.Update(widgetRenderMsg{content: successContent})
	view := m.View()
	assert.Contains(t, view, "Code Stats")
	assert.Contains(t, view, "1,234 lines of code")

	m.Update(widgetExitMsg{})
	assert.True(t, m.widget.exiting)

	m.Update(widgetUnmountMsg{})
	assert.NotContains(t, m.View(), "Code Stats")
	assert.False(t, m.widget.mounted)
}

func TestModel_ClickOnWidget(t *testing.T) {
	m, _, clicker := newTestModel(t)

	// nothing mounted, clicks are ignored
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	assert.Zero(t, clicker.clicks)

	m.Update(widgetMountMsg{})
	m.Update(widgetRenderMsg{content: successContent})
	m.View()
	require.Positive(t, m.widgetArea.w)

	m.Update(tea.MouseMsg{X: m.widgetArea.x + 1, Y: m.widgetArea.y + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, 1, clicker.clicks)

	m.Update(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, 1, clicker.clicks)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	assert.Equal(t, 2, clicker.clicks)
}

func TestModel_NoticeClearsOnlyLatest(t *testing.T) {
	m, _, _ := newTestModel(t)

	_, cmd := m.Update(noticeMsg{text: "first"})
	require.NotNil(t, cmd)
	m.Update(noticeMsg{text: "second"})
	m.Update(clearNoticeMsg{gen: 1})
	assert.Contains(t, m.View(), "second")

	m.Update(clearNoticeMsg{gen: 2})
	assert.NotContains(t, m.View(), "second")
}

func TestModel_QuitKey(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

type recordingSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (s *recordingSender) Send(msg tea.Msg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
}

func TestProgramSurface(t *testing.T) {
	surface := NewProgramSurface()
	surface.Mount() // detached, dropped

	sender := &recordingSender{}
	surface.Attach(sender)
	surface.Mount()
	surface.Render(successContent)
	surface.BeginExit()
	surface.Unmount()
	surface.Notify("hi")

	assert.Equal(t, []tea.Msg{
		widgetMountMsg{},
		widgetRenderMsg{content: successContent},
		widgetExitMsg{},
		widgetUnmountMsg{},
		noticeMsg{text: "hi"},
	}, sender.msgs)
}

func TestPlaceBottomRight(t *testing.T) {
	background := strings.Join([]string{"aaaaaaaaaa", "bbbbbbbbbb", "cccccccccc"}, "\n")

	view, area := placeBottomRight(background, "XY\nZW", 10, 4, 1, 0)

	assert.Equal(t, rect{h: 2, w: 2, x: 7, y: 2}, area)
	assert.Equal(t, []string{"aaaaaaaaaa", "bbbbbbbbbb", "cccccccXYc", "       ZW"}, strings.Split(view, "\n"))
	assert.True(t, area.contains(8, 3))
	assert.False(t, area.contains(9, 3))
}
