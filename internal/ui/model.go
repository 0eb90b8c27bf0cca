package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"repolines/internal/navigation"
	"repolines/internal/theme"
	"repolines/logging"
)

const (
	noticeDuration = 4 * time.Second
	widgetMarginX  = 2
	widgetMarginY  = 1
)

// Clicker receives clicks on the widget
type Clicker interface {
	Click()
}

type clearNoticeMsg struct{ gen int }

// Model is the page: an address bar over a session history, with the widget
// floating in the bottom-right corner
type Model struct {
	address    textinput.Model
	devMode    bool
	help       help.Model
	height     int
	history    *navigation.MemoryHistory
	keys       KeyMap
	notice     string
	noticeGen  int
	page       navigation.History
	showHelp   bool
	spinner    spinner.Model
	widget     widgetView
	widgetArea rect
	widgetCtl  Clicker
	width      int
}

// NewModel creates the page model. page is the history the address bar
// writes through (normally history wrapped by the navigation watcher).
func NewModel(history *navigation.MemoryHistory, page navigation.History, widget Clicker, keys KeyMap, devMode bool) *Model {
	address := textinput.New()
	address.Prompt = theme.AddressLabelStyle.Render("address ") + "› "
	address.Placeholder = "https://github.com/owner/repo"
	address.SetValue(history.Location())
	address.Focus()

	h := help.New()
	h.Styles.ShortKey = theme.HelpShortcutStyle
	h.Styles.ShortDesc = theme.HelpLabelStyle
	h.Styles.FullKey = theme.HelpShortcutStyle
	h.Styles.FullDesc = theme.HelpLabelStyle

	return &Model{
		address:   address,
		devMode:   devMode,
		help:      h,
		history:   history,
		keys:      keys,
		page:      page,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(theme.SpinnerStyle)),
		widgetCtl: widget,
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.address.Width = max(msg.Width-12, 10)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft &&
			m.widget.mounted && m.widgetArea.contains(msg.X, msg.Y) {
			m.widgetCtl.Click()
		}
		return m, nil

	case widgetMountMsg:
		m.widget = widgetView{mounted: true}
		return m, nil

	case widgetRenderMsg:
		m.widget.content = msg.content
		m.widget.exiting = false
		return m, nil

	case widgetExitMsg:
		m.widget.exiting = true
		return m, nil

	case widgetUnmountMsg:
		m.widget = widgetView{}
		m.widgetArea = rect{}
		return m, nil

	case noticeMsg:
		m.notice = msg.text
		m.noticeGen++
		gen := m.noticeGen
		return m, tea.Tick(noticeDuration, func(time.Time) tea.Msg {
			return clearNoticeMsg{gen: gen}
		})

	case clearNoticeMsg:
		if msg.gen == m.noticeGen {
			m.notice = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.address, cmd = m.address.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Click):
		if m.widget.mounted {
			m.widgetCtl.Click()
		}
		return m, nil
	case key.Matches(msg, m.keys.Back):
		if m.history.Back() {
			m.address.SetValue(m.history.Location())
		}
		return m, nil
	case key.Matches(msg, m.keys.Forward):
		if m.history.Forward() {
			m.address.SetValue(m.history.Location())
		}
		return m, nil
	case key.Matches(msg, m.keys.Replace):
		if url := m.addressValue(); url != "" {
			logging.Logger.Debug("Replacing history entry", "url", url)
			m.page.ReplaceState(url)
		}
		return m, nil
	case key.Matches(msg, m.keys.Navigate):
		if url := m.addressValue(); url != "" && url != m.history.Location() {
			logging.Logger.Debug("Navigating", "url", url)
			m.page.PushState(url)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.address, cmd = m.address.Update(msg)
	return m, cmd
}

func (m *Model) addressValue() string {
	return strings.TrimSpace(m.address.Value())
}

// View implements tea.Model
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(renderHeader(m.devMode))
	b.WriteString("\n")
	b.WriteString(m.address.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderPage())

	if m.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.ErrorStyle.Render(m.notice))
	}

	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(theme.HelpStyle.Render(m.help.FullHelpView(m.keys.FullHelp())))
	} else {
		b.WriteString(theme.HelpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	}

	view := theme.PageStyle.Render(b.String())
	if !m.widget.mounted || m.width == 0 {
		m.widgetArea = rect{}
		return view
	}

	view, m.widgetArea = placeBottomRight(view, m.widget.render(m.spinner.View()), m.width, m.height, widgetMarginX, widgetMarginY)
	return view
}

// renderPage lists the history entries with the current one highlighted
func (m *Model) renderPage() string {
	current := m.history.Location()
	lines := []string{theme.TitleStyle.Render("History")}
	for _, entry := range m.history.Entries() {
		if entry == current {
			lines = append(lines, fmt.Sprintf("› %s", theme.LinkStyle.Render(entry)))
			continue
		}
		lines = append(lines, "  "+theme.NormalStyle.Render(entry))
	}
	return strings.Join(lines, "\n")
}
