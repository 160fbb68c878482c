package platform

import (
	"fmt"
	"strconv"
	"strings"
)

// Handle identifies a native window. The zero handle refers to the desktop.
type Handle uintptr

// Point is a screen coordinate.
type Point struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// Rect represents a screen rectangle.
type Rect struct {
	X      int `yaml:"x"      json:"x"`
	Y      int `yaml:"y"      json:"y"`
	Width  int `yaml:"width"  json:"width"`
	Height int `yaml:"height" json:"height"`
}

// ParseRect parses a "x,y,w,h" string into a Rect.
func ParseRect(s string) (Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Rect{}, fmt.Errorf("invalid rect %q: expected x,y,w,h", s)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Rect{}, fmt.Errorf("invalid rect %q: %w", s, err)
		}
		vals[i] = v
	}
	return Rect{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

func (r Rect) Right() int  { return r.X + r.Width }
func (r Rect) Bottom() int { return r.Y + r.Height }

// Center returns the midpoint of the rect.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside the rect (right/bottom edges exclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Inset shrinks the rect by the given edge amounts. Negative values grow it.
func (r Rect) Inset(top, right, bottom, left int) Rect {
	return Rect{
		X:      r.X + left,
		Y:      r.Y + top,
		Width:  max(r.Width-left-right, 0),
		Height: max(r.Height-top-bottom, 0),
	}
}

// TranslateToCenter keeps the size of r and centers it within outer.
func (r Rect) TranslateToCenter(outer Rect) Rect {
	return Rect{
		X:      outer.X + (outer.Width-r.Width)/2,
		Y:      outer.Y + (outer.Height-r.Height)/2,
		Width:  r.Width,
		Height: r.Height,
	}
}

// IntersectionArea returns the overlapping area of two rects.
func (r Rect) IntersectionArea(o Rect) int {
	w := min(r.Right(), o.Right()) - max(r.X, o.X)
	h := min(r.Bottom(), o.Bottom()) - max(r.Y, o.Y)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// WindowState is a show-state change applied to a native window.
type WindowState int

const (
	StateRestore WindowState = iota
	StateMinimize
	StateMaximize
	StateHide
	StateShow
)

// ParseWindowState converts a string value to WindowState.
func ParseWindowState(s string) (WindowState, error) {
	switch strings.ToLower(s) {
	case "restore":
		return StateRestore, nil
	case "minimize":
		return StateMinimize, nil
	case "maximize":
		return StateMaximize, nil
	case "hide":
		return StateHide, nil
	case "show":
		return StateShow, nil
	default:
		return StateRestore, fmt.Errorf("unknown window state: %q (expected restore, minimize, maximize, hide, or show)", s)
	}
}

func (s WindowState) String() string {
	switch s {
	case StateMinimize:
		return "minimize"
	case StateMaximize:
		return "maximize"
	case StateHide:
		return "hide"
	case StateShow:
		return "show"
	default:
		return "restore"
	}
}

// WindowInfo is the metadata the OS reports for a native window.
type WindowInfo struct {
	Handle      Handle `yaml:"handle"       json:"handle"`
	Title       string `yaml:"title"        json:"title"`
	ClassName   string `yaml:"class_name"   json:"className"`
	ProcessName string `yaml:"process_name" json:"processName"`
	Rect        Rect   `yaml:"rect"         json:"rect"`
	// Manageable is false for tool windows, cloaked windows and the like.
	Manageable bool `yaml:"manageable" json:"manageable"`
	Resizable  bool `yaml:"resizable"  json:"resizable"`
	Minimized  bool `yaml:"minimized"  json:"minimized"`
	Maximized  bool `yaml:"maximized"  json:"maximized"`
}

// MonitorInfo describes a physical display.
type MonitorInfo struct {
	DeviceName string `yaml:"device_name" json:"deviceName"`
	// Rect is the working area (excludes taskbars and docks).
	Rect    Rect `yaml:"rect"    json:"rect"`
	Primary bool `yaml:"primary" json:"primary"`
}

// EventKind enumerates the notifications delivered by an EventSource.
type EventKind int

const (
	EventWindowShown EventKind = iota + 1
	EventWindowHidden
	EventWindowDestroyed
	EventWindowFocused
	EventWindowMinimized
	EventWindowMinimizeEnded
	EventWindowMovedOrResizedStart
	EventWindowLocationChanged
	EventWindowMovedOrResizedEnd
	EventWindowTitleChanged
	EventDisplaySettingsChanged
	EventKeybindingTriggered
	EventCursorMoved
)

var eventKindNames = map[EventKind]string{
	EventWindowShown:               "window_shown",
	EventWindowHidden:              "window_hidden",
	EventWindowDestroyed:           "window_destroyed",
	EventWindowFocused:             "window_focused",
	EventWindowMinimized:           "window_minimized",
	EventWindowMinimizeEnded:       "window_minimize_ended",
	EventWindowMovedOrResizedStart: "window_moved_or_resized_start",
	EventWindowLocationChanged:     "window_location_changed",
	EventWindowMovedOrResizedEnd:   "window_moved_or_resized_end",
	EventWindowTitleChanged:        "window_title_changed",
	EventDisplaySettingsChanged:    "display_settings_changed",
	EventKeybindingTriggered:       "keybinding_triggered",
	EventCursorMoved:               "cursor_moved",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is a single OS notification.
type Event struct {
	Kind   EventKind
	Handle Handle
	// Binding is the key combination for EventKeybindingTriggered.
	Binding string
	// Cursor is the new position for EventCursorMoved.
	Cursor Point
}

// FocusEffect is the decoration applied to a window when focus changes.
// An empty BorderColor restores the system border.
type FocusEffect struct {
	Focused     bool
	BorderColor string
}
