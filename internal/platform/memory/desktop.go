// Package memory provides an in-memory desktop that satisfies every platform
// interface. It backs --dry-run and the test suites: windows live in a map,
// calls are recorded, and OS notifications are injected with Emit.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/mj1618/tilewm/internal/platform"
)

// Call is a recorded WindowManager invocation.
type Call struct {
	Op      string
	Handle  platform.Handle
	Rect    platform.Rect
	State   platform.WindowState
	Handles []platform.Handle
	Bool    bool
	Value   float64
	Color   string
}

// Desktop is a simulated native desktop.
type Desktop struct {
	mu         sync.Mutex
	windows    map[platform.Handle]*platform.WindowInfo
	hidden     map[platform.Handle]bool
	order      []platform.Handle
	monitors   []platform.MonitorInfo
	foreground platform.Handle
	cursor     platform.Point
	nextHandle platform.Handle
	calls      []Call
	failures   map[platform.Handle]error

	events chan platform.Event
}

// New creates a desktop with the given monitors.
func New(monitors ...platform.MonitorInfo) *Desktop {
	return &Desktop{
		windows:    make(map[platform.Handle]*platform.WindowInfo),
		hidden:     make(map[platform.Handle]bool),
		monitors:   monitors,
		nextHandle: 0x1000,
		failures:   make(map[platform.Handle]error),
		events:     make(chan platform.Event, 256),
	}
}

// Provider bundles the desktop as a platform.Provider.
func (d *Desktop) Provider() *platform.Provider {
	return &platform.Provider{
		Reader:        d,
		WindowManager: d,
		Events:        d,
	}
}

// AddWindow registers a window and returns its handle. A zero handle in info
// is replaced with a fresh one.
func (d *Desktop) AddWindow(info platform.WindowInfo) platform.Handle {
	d.mu.Lock()
	defer d.mu.Unlock()

	if info.Handle == 0 {
		d.nextHandle++
		info.Handle = d.nextHandle
	}
	w := info
	d.windows[info.Handle] = &w
	d.order = append(d.order, info.Handle)
	return info.Handle
}

// RemoveWindow forgets a window as if it had been destroyed.
func (d *Desktop) RemoveWindow(h platform.Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.windows, h)
	delete(d.hidden, h)
	for i, o := range d.order {
		if o == h {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	if d.foreground == h {
		d.foreground = 0
	}
}

// SetTitle changes a window's title.
func (d *Desktop) SetTitle(h platform.Handle, title string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if w, ok := d.windows[h]; ok {
		w.Title = title
	}
}

// SetMonitors replaces the connected displays.
func (d *Desktop) SetMonitors(monitors ...platform.MonitorInfo) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.monitors = monitors
}

// MoveCursor sets the simulated cursor position.
func (d *Desktop) MoveCursor(p platform.Point) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cursor = p
}

// Fail makes every WindowManager call on h return err until cleared with nil.
func (d *Desktop) Fail(h platform.Handle, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err == nil {
		delete(d.failures, h)
		return
	}
	d.failures[h] = err
}

// Emit injects an OS notification.
func (d *Desktop) Emit(ev platform.Event) {
	d.events <- ev
}

// IsHidden reports whether h was hidden by the last state change.
func (d *Desktop) IsHidden(h platform.Handle) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hidden[h]
}

// Calls returns a copy of the recorded calls.
func (d *Desktop) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Call, len(d.calls))
	copy(out, d.calls)
	return out
}

// CallsFor returns the recorded calls with the given op.
func (d *Desktop) CallsFor(op string) []Call {
	var out []Call
	for _, c := range d.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls clears the call log.
func (d *Desktop) ResetCalls() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = nil
}

func (d *Desktop) record(c Call) error {
	d.calls = append(d.calls, c)
	if err, ok := d.failures[c.Handle]; ok {
		return err
	}
	if c.Handle != 0 {
		if _, ok := d.windows[c.Handle]; !ok {
			return fmt.Errorf("no window with handle %d", c.Handle)
		}
	}
	return nil
}

// ListWindows implements platform.WindowReader.
func (d *Desktop) ListWindows() ([]platform.WindowInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]platform.WindowInfo, 0, len(d.order))
	for _, h := range d.order {
		out = append(out, *d.windows[h])
	}
	return out, nil
}

// WindowInfo implements platform.WindowReader.
func (d *Desktop) WindowInfo(h platform.Handle) (platform.WindowInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	w, ok := d.windows[h]
	if !ok {
		return platform.WindowInfo{}, fmt.Errorf("no window with handle %d", h)
	}
	return *w, nil
}

// Monitors implements platform.WindowReader.
func (d *Desktop) Monitors() ([]platform.MonitorInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]platform.MonitorInfo, len(d.monitors))
	copy(out, d.monitors)
	return out, nil
}

// ForegroundWindow implements platform.WindowReader.
func (d *Desktop) ForegroundWindow() (platform.Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.foreground, nil
}

// CursorPosition implements platform.WindowReader.
func (d *Desktop) CursorPosition() (platform.Point, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cursor, nil
}

// SetRect implements platform.WindowManager.
func (d *Desktop) SetRect(h platform.Handle, r platform.Rect) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.record(Call{Op: "set_rect", Handle: h, Rect: r}); err != nil {
		return err
	}
	d.windows[h].Rect = r
	return nil
}

// SetWindowState implements platform.WindowManager.
func (d *Desktop) SetWindowState(h platform.Handle, s platform.WindowState) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.record(Call{Op: "set_window_state", Handle: h, State: s}); err != nil {
		return err
	}
	w := d.windows[h]
	switch s {
	case platform.StateMinimize:
		w.Minimized = true
	case platform.StateMaximize:
		w.Maximized, w.Minimized = true, false
	case platform.StateRestore:
		w.Maximized, w.Minimized = false, false
	case platform.StateHide:
		d.hidden[h] = true
	case platform.StateShow:
		delete(d.hidden, h)
	}
	return nil
}

// SetForeground implements platform.WindowManager.
func (d *Desktop) SetForeground(h platform.Handle) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.record(Call{Op: "set_foreground", Handle: h}); err != nil {
		return err
	}
	d.foreground = h
	return nil
}

// SetZOrder implements platform.WindowManager.
func (d *Desktop) SetZOrder(handles []platform.Handle) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	hs := make([]platform.Handle, len(handles))
	copy(hs, handles)
	return d.record(Call{Op: "set_z_order", Handles: hs})
}

// SetFocusEffect implements platform.WindowManager.
func (d *Desktop) SetFocusEffect(h platform.Handle, e platform.FocusEffect) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.record(Call{Op: "set_focus_effect", Handle: h, Bool: e.Focused, Color: e.BorderColor})
}

// SetOpacity implements platform.WindowManager.
func (d *Desktop) SetOpacity(h platform.Handle, opacity float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.record(Call{Op: "set_opacity", Handle: h, Value: opacity})
}

// SetTitleBarVisible implements platform.WindowManager.
func (d *Desktop) SetTitleBarVisible(h platform.Handle, visible bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.record(Call{Op: "set_title_bar_visible", Handle: h, Bool: visible})
}

// Close implements platform.WindowManager. The window disappears but no
// destroy event is emitted; callers emit one if they need it.
func (d *Desktop) Close(h platform.Handle) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.record(Call{Op: "close", Handle: h})
}

// SetCursorPosition implements platform.WindowManager.
func (d *Desktop) SetCursorPosition(p platform.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.calls = append(d.calls, Call{Op: "set_cursor_position", Rect: platform.Rect{X: p.X, Y: p.Y}})
	d.cursor = p
	return nil
}

// Events implements platform.EventSource.
func (d *Desktop) Events(ctx context.Context) (<-chan platform.Event, error) {
	out := make(chan platform.Event)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-d.events:
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
