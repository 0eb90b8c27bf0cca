package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"repolines/internal/ports"
)

// Messages the surface sends to the page model
type (
	widgetMountMsg   struct{}
	widgetRenderMsg  struct{ content ports.WidgetContent }
	widgetExitMsg    struct{}
	widgetUnmountMsg struct{}
	noticeMsg        struct{ text string }
)

// Sender delivers messages to a running program (*tea.Program)
type Sender interface {
	Send(msg tea.Msg)
}

// ProgramSurface implements ports.Surface and ports.Notifier by forwarding
// every call to the page model as a message
type ProgramSurface struct {
	mu     sync.RWMutex
	sender Sender
}

var (
	_ ports.Notifier = (*ProgramSurface)(nil)
	_ ports.Surface  = (*ProgramSurface)(nil)
)

// NewProgramSurface creates a detached surface. Calls are dropped until Attach.
func NewProgramSurface() *ProgramSurface {
	return &ProgramSurface{}
}

// Attach connects the surface to a program
func (s *ProgramSurface) Attach(sender Sender) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sender = sender
}

// Mount implements ports.Surface
func (s *ProgramSurface) Mount() { s.send(widgetMountMsg{}) }

// Render implements ports.Surface
func (s *ProgramSurface) Render(content ports.WidgetContent) {
	s.send(widgetRenderMsg{content: content})
}

// BeginExit implements ports.Surface
func (s *ProgramSurface) BeginExit() { s.send(widgetExitMsg{}) }

// Unmount implements ports.Surface
func (s *ProgramSurface) Unmount() { s.send(widgetUnmountMsg{}) }

// Notify implements ports.Notifier
func (s *ProgramSurface) Notify(message string) {
	s.send(noticeMsg{text: message})
}

func (s *ProgramSurface) send(msg tea.Msg) {
	s.mu.RLock()
	sender := s.sender
	s.mu.RUnlock()
	if sender != nil {
		sender.Send(msg)
	}
}
