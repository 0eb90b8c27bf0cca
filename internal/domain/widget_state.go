package domain

// WidgetState represents the state of the floating widget
type WidgetState string

const (
	StateAbsent   WidgetState = "absent"
	StateError    WidgetState = "error"
	StateLoading  WidgetState = "loading"
	StateNoServer WidgetState = "no_server"
	StateSuccess  WidgetState = "success"
)

// Status symbols (Unicode)
const (
	SymbolError    = "✗"
	SymbolLoading  = "◐"
	SymbolNoServer = "○"
	SymbolSuccess  = "●"
)

// Symbol returns the icon shown in the widget title for the state
func (s WidgetState) Symbol() string {
	switch s {
	case StateError:
		return SymbolError
	case StateLoading:
		return SymbolLoading
	case StateNoServer:
		return SymbolNoServer
	case StateSuccess:
		return SymbolSuccess
	default:
		return ""
	}
}

// Visible reports whether a widget element exists in this state
func (s WidgetState) Visible() bool {
	return s != StateAbsent && s != ""
}
