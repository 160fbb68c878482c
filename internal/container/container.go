// Package container holds the window manager's container tree: an arena of
// monitors, workspaces, split containers and windows addressed by stable ids.
//
// Parents own their children through ordered id slices; a child's parent link
// is an id looked up in the arena, never an owning pointer. Each container also
// keeps its children in focus order (most recently focused first), so the
// globally focused container is found by following the first entry of every
// focus order from the root. There is exactly one focus path by construction.
package container

import (
	"github.com/google/uuid"

	"github.com/mj1618/tilewm/internal/platform"
	"github.com/mj1618/tilewm/internal/units"
)

// ID identifies a container for its whole lifetime.
type ID = uuid.UUID

// Container is a node in the tree. Exactly one of the variant payloads is
// set, matching Kind (none for the root).
type Container struct {
	id         ID
	kind       Kind
	parent     ID
	children   []ID
	focusOrder []ID
	tilingSize float64

	Monitor   *Monitor
	Workspace *Workspace
	Split     *Split
	Window    *Window
}

// Monitor maps to one physical display.
type Monitor struct {
	DeviceName string
	Rect       platform.Rect
	Primary    bool
}

// Workspace is a named virtual desktop.
type Workspace struct {
	Name        string
	DisplayName string
	KeepAlive   bool
	Direction   TilingDirection
	Display     DisplayState
}

// Split arranges its children along Direction.
type Split struct {
	Direction TilingDirection
}

// ActiveDrag is recorded while the user moves or resizes a window.
type ActiveDrag struct {
	Operation    DragOperation
	IsFromTiling bool
}

// Window wraps a native window.
type Window struct {
	Handle      platform.Handle
	Title       string
	ClassName   string
	ProcessName string

	State TilingState
	// PrevState is restored when leaving fullscreen or minimized.
	PrevState TilingState
	Display   DisplayState

	FloatingPlacement platform.Rect
	ShownOnTop        bool
	Maximized         bool
	BorderDelta       units.RectDelta
	Opacity           float64

	ActiveDrag *ActiveDrag

	// RulesRun holds the indices of run_once window rules already applied.
	RulesRun map[int]bool
}

func newContainer(kind Kind) *Container {
	return &Container{id: uuid.New(), kind: kind}
}

// NewMonitor creates a detached monitor container.
func NewMonitor(info platform.MonitorInfo) *Container {
	c := newContainer(KindMonitor)
	c.Monitor = &Monitor{DeviceName: info.DeviceName, Rect: info.Rect, Primary: info.Primary}
	return c
}

// NewWorkspace creates a detached workspace container.
func NewWorkspace(name, displayName string, keepAlive bool, dir TilingDirection) *Container {
	c := newContainer(KindWorkspace)
	c.Workspace = &Workspace{Name: name, DisplayName: displayName, KeepAlive: keepAlive, Direction: dir, Display: Hidden}
	return c
}

// NewSplit creates a detached split container.
func NewSplit(dir TilingDirection) *Container {
	c := newContainer(KindSplit)
	c.Split = &Split{Direction: dir}
	return c
}

// NewWindow creates a detached window container from native metadata.
func NewWindow(info platform.WindowInfo, state TilingState) *Container {
	c := newContainer(KindWindow)
	c.Window = &Window{
		Handle:            info.Handle,
		Title:             info.Title,
		ClassName:         info.ClassName,
		ProcessName:       info.ProcessName,
		State:             state,
		PrevState:         Tiling,
		Display:           Hidden,
		FloatingPlacement: info.Rect,
		Opacity:           1,
		RulesRun:          make(map[int]bool),
	}
	return c
}

func (c *Container) ID() ID         { return c.id }
func (c *Container) Kind() Kind     { return c.kind }
func (c *Container) IsRoot() bool   { return c.kind == KindRoot }
func (c *Container) IsWindow() bool { return c.kind == KindWindow }

// IsWorkspace reports whether c is a workspace.
func (c *Container) IsWorkspace() bool { return c.kind == KindWorkspace }

// TilingSize is c's share of its parent's extent along the tiling axis.
// Non-participating containers report 0.
func (c *Container) TilingSize() float64 { return c.tilingSize }

// HasChildren reports whether the variant can own children.
func (c *Container) HasChildren() bool { return c.kind != KindWindow }

// ChildCount returns the number of direct children.
func (c *Container) ChildCount() int { return len(c.children) }

// ParticipatesInTiling reports whether c takes part in its parent's ratio
// division: split containers always do, windows only while tiling.
func (c *Container) ParticipatesInTiling() bool {
	switch c.kind {
	case KindSplit:
		return true
	case KindWindow:
		return c.Window.State == Tiling
	default:
		return false
	}
}

// IsTilingWindow reports whether c is a window in the Tiling state.
func (c *Container) IsTilingWindow() bool {
	return c.kind == KindWindow && c.Window.State == Tiling
}

// IsDirectionContainer reports whether c arranges children along an axis.
func (c *Container) IsDirectionContainer() bool {
	return c.kind == KindWorkspace || c.kind == KindSplit
}

// TilingDirection returns the axis of a workspace or split container.
func (c *Container) TilingDirection() (TilingDirection, bool) {
	switch c.kind {
	case KindWorkspace:
		return c.Workspace.Direction, true
	case KindSplit:
		return c.Split.Direction, true
	default:
		return Horizontal, false
	}
}

// SetTilingDirection changes the axis of a workspace or split container.
func (c *Container) SetTilingDirection(dir TilingDirection) bool {
	switch c.kind {
	case KindWorkspace:
		c.Workspace.Direction = dir
	case KindSplit:
		c.Split.Direction = dir
	default:
		return false
	}
	return true
}

// canContain enforces the Root > Monitor > Workspace > {Split, Window} nesting.
func canContain(parent, child *Container) bool {
	switch parent.kind {
	case KindRoot:
		return child.kind == KindMonitor
	case KindMonitor:
		return child.kind == KindWorkspace
	case KindWorkspace:
		return child.kind == KindSplit || child.kind == KindWindow
	case KindSplit:
		return (child.kind == KindSplit || child.kind == KindWindow) && child.ParticipatesInTiling()
	default:
		return false
	}
}
