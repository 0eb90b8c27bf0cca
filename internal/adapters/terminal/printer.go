// Package terminal renders the widget as status lines on a plain terminal.
package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"repolines/internal/ports"
	"repolines/internal/theme"
)

// Printer implements ports.Surface and ports.Notifier by writing one line
// per visible change
type Printer struct {
	last    ports.WidgetContent
	mounted bool
	mu      sync.Mutex
	out     io.Writer
}

var (
	_ ports.Notifier = (*Printer)(nil)
	_ ports.Surface  = (*Printer)(nil)
)

// NewPrinter creates a printer writing to out
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Mount implements ports.Surface
func (p *Printer) Mount() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mounted = true
	p.last = ports.WidgetContent{}
}

// Render implements ports.Surface. Identical consecutive content is printed once.
func (p *Printer) Render(content ports.WidgetContent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.mounted || content == p.last {
		return
	}
	p.last = content
	fmt.Fprintln(p.out, FormatLine(content))
}

// BeginExit implements ports.Surface
func (p *Printer) BeginExit() {}

// Unmount implements ports.Surface
func (p *Printer) Unmount() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.mounted {
		return
	}
	p.mounted = false
	p.last = ports.WidgetContent{}
	fmt.Fprintln(p.out, theme.DimmedStyle.Render("-"))
}

// Notify implements ports.Notifier
func (p *Printer) Notify(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, theme.ErrorStyle.Render(message))
}

// FormatLine renders content as a single styled line
func FormatLine(c ports.WidgetContent) string {
	parts := []string{
		theme.StateStyle(c.State).Render(c.State.Symbol()),
		theme.WidgetTitleStyle.Render(c.Title),
	}
	if c.Body != "" {
		parts = append(parts, theme.WidgetCountStyle.Render(c.Body))
	}
	if c.Unit != "" {
		parts = append(parts, theme.WidgetUnitStyle.Render(c.Unit))
	}
	if c.Hint != "" {
		parts = append(parts, theme.WidgetHintStyle.Render("("+c.Hint+")"))
	}
	return strings.Join(parts, " ")
}
