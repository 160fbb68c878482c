package platform

import "context"

// WindowReader queries native window and display state.
type WindowReader interface {
	// ListWindows returns all top-level windows in z-order.
	ListWindows() ([]WindowInfo, error)

	// WindowInfo returns fresh metadata for a single window.
	WindowInfo(h Handle) (WindowInfo, error)

	// Monitors returns the connected displays.
	Monitors() ([]MonitorInfo, error)

	ForegroundWindow() (Handle, error)
	CursorPosition() (Point, error)
}

// WindowManager applies position, visibility and focus changes.
type WindowManager interface {
	SetRect(h Handle, r Rect) error
	SetWindowState(h Handle, s WindowState) error

	// SetForeground focuses a window. The zero handle focuses the desktop.
	SetForeground(h Handle) error

	// SetZOrder stacks the given windows bottom to top.
	SetZOrder(handles []Handle) error

	// SetFocusEffect applies the focused or unfocused decoration of a window.
	SetFocusEffect(h Handle, e FocusEffect) error

	SetOpacity(h Handle, opacity float64) error
	SetTitleBarVisible(h Handle, visible bool) error
	Close(h Handle) error
	SetCursorPosition(p Point) error
}

// EventSource hooks OS notifications.
type EventSource interface {
	// Events delivers notifications in the order the OS reports them until
	// ctx is cancelled, at which point the channel is closed.
	Events(ctx context.Context) (<-chan Event, error)
}
