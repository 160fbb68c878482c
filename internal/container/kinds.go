package container

import (
	"fmt"
	"strings"
)

// Kind is the variant of a Container.
type Kind int

const (
	KindRoot Kind = iota
	KindMonitor
	KindWorkspace
	KindSplit
	KindWindow
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindMonitor:
		return "monitor"
	case KindWorkspace:
		return "workspace"
	case KindSplit:
		return "split"
	case KindWindow:
		return "window"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// TilingDirection is the axis along which children are arranged.
type TilingDirection int

const (
	Horizontal TilingDirection = iota
	Vertical
)

// ParseTilingDirection converts "horizontal" or "vertical".
func ParseTilingDirection(s string) (TilingDirection, error) {
	switch strings.ToLower(s) {
	case "horizontal":
		return Horizontal, nil
	case "vertical":
		return Vertical, nil
	default:
		return Horizontal, fmt.Errorf("unknown tiling direction: %q (expected horizontal or vertical)", s)
	}
}

func (d TilingDirection) String() string {
	if d == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Inverse returns the other axis.
func (d TilingDirection) Inverse() TilingDirection {
	if d == Vertical {
		return Horizontal
	}
	return Vertical
}

// Direction is a cardinal direction used by focus and move.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

// ParseDirection converts "left", "right", "up" or "down".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	default:
		return Left, fmt.Errorf("unknown direction: %q (expected left, right, up, or down)", s)
	}
}

func (d Direction) String() string {
	switch d {
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "left"
	}
}

// Axis returns the tiling direction a move in d travels along.
func (d Direction) Axis() TilingDirection {
	if d == Up || d == Down {
		return Vertical
	}
	return Horizontal
}

// Backward reports whether d points towards lower indices.
func (d Direction) Backward() bool {
	return d == Left || d == Up
}

// Inverse returns the opposite direction.
func (d Direction) Inverse() Direction {
	switch d {
	case Left:
		return Right
	case Right:
		return Left
	case Up:
		return Down
	default:
		return Up
	}
}

// DisplayState tracks whether a window or workspace is on screen.
type DisplayState int

const (
	Shown DisplayState = iota
	Hiding
	Hidden
)

func (s DisplayState) String() string {
	switch s {
	case Hiding:
		return "hiding"
	case Hidden:
		return "hidden"
	default:
		return "shown"
	}
}

// TilingState is the placement mode of a window.
type TilingState int

const (
	Tiling TilingState = iota
	Floating
	Fullscreen
	Minimized
)

// ParseTilingState converts a config value such as "floating".
func ParseTilingState(s string) (TilingState, error) {
	switch strings.ToLower(s) {
	case "tiling":
		return Tiling, nil
	case "floating":
		return Floating, nil
	case "fullscreen":
		return Fullscreen, nil
	case "minimized":
		return Minimized, nil
	default:
		return Tiling, fmt.Errorf("unknown window state: %q (expected tiling, floating, fullscreen, or minimized)", s)
	}
}

func (s TilingState) String() string {
	switch s {
	case Floating:
		return "floating"
	case Fullscreen:
		return "fullscreen"
	case Minimized:
		return "minimized"
	default:
		return "tiling"
	}
}

// DragOperation is the kind of interactive drag in progress.
type DragOperation int

const (
	DragNone DragOperation = iota
	DragMove
	DragResize
)

func (o DragOperation) String() string {
	switch o {
	case DragMove:
		return "move"
	case DragResize:
		return "resize"
	default:
		return "none"
	}
}
