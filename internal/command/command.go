// Package command defines the invoke-command grammar shared by the IPC
// server, keybindings, window rules and startup commands.
//
// Commands are parsed with a throwaway cobra tree so argument groups such as
// "exactly one focus target" are validated by cobra before anything is
// executed. Parse errors wrap ErrInvalidCommandArguments and keep cobra's
// message as is.
package command

import (
	"errors"

	"github.com/mj1618/tilewm/internal/container"
	"github.com/mj1618/tilewm/internal/units"
)

// ErrInvalidCommandArguments is returned when an invoke command fails to parse.
var ErrInvalidCommandArguments = errors.New("invalid command arguments")

// Command is a parsed invoke command.
type Command interface {
	Name() string
}

// AdjustBorders changes a window's border delta. Nil edges are unchanged.
type AdjustBorders struct {
	Top, Right, Bottom, Left *units.LengthValue
}

type Close struct{}

// Focus moves focus. Exactly one target is set.
type Focus struct {
	Direction           *container.Direction
	Workspace           string
	Monitor             *int
	NextActiveWorkspace bool
	PrevActiveWorkspace bool
	NextWorkspace       bool
	PrevWorkspace       bool
	RecentWorkspace     bool
}

// Ignore stops managing a window without closing it.
type Ignore struct{}

// Move moves the subject window. Exactly one target is set.
type Move struct {
	Direction           *container.Direction
	Workspace           string
	NextActiveWorkspace bool
	PrevActiveWorkspace bool
	NextWorkspace       bool
	PrevWorkspace       bool
	RecentWorkspace     bool
}

// MoveWorkspace moves the focused workspace to the monitor in Direction.
type MoveWorkspace struct {
	Direction container.Direction
}

// Position places a floating window.
type Position struct {
	Centered bool
	XPos     *int
	YPos     *int
}

// Resize changes a window's size. An unsigned value sets the size, a signed
// value ("+5%", "-20px") adjusts it.
type Resize struct {
	Width  *units.LengthValue
	Height *units.LengthValue
}

type SetFloating struct {
	ShownOnTop *bool
	Centered   *bool
	XPos       *int
	YPos       *int
	Width      *units.LengthValue
	Height     *units.LengthValue
}

type SetFullscreen struct {
	ShownOnTop *bool
	Maximized  *bool
}

type SetMinimized struct{}

type SetTiling struct{}

type SetTitleBarVisibility struct {
	Visible bool
}

type SetOpacity struct {
	Opacity units.OpacityValue
}

// ShellExec runs an external program.
type ShellExec struct {
	HideWindow bool
	Command    []string
}

type ToggleFloating struct {
	ShownOnTop *bool
	Centered   *bool
}

type ToggleFullscreen struct {
	ShownOnTop *bool
	Maximized  *bool
}

type ToggleMinimized struct{}

type ToggleTiling struct{}

type ToggleTilingDirection struct{}

type SetTilingDirection struct {
	Direction container.TilingDirection
}

// WmCycleFocus cycles focus between tiling, floating and fullscreen windows.
type WmCycleFocus struct {
	OmitFullscreen bool
	OmitMinimized  bool
}

type WmDisableBindingMode struct{ Mode string }
type WmEnableBindingMode struct{ Mode string }
type WmExit struct{}
type WmRedraw struct{}
type WmReloadConfig struct{}
type WmTogglePause struct{}

func (AdjustBorders) Name() string         { return "adjust-borders" }
func (Close) Name() string                 { return "close" }
func (Focus) Name() string                 { return "focus" }
func (Ignore) Name() string                { return "ignore" }
func (Move) Name() string                  { return "move" }
func (MoveWorkspace) Name() string         { return "move-workspace" }
func (Position) Name() string              { return "position" }
func (Resize) Name() string                { return "resize" }
func (SetFloating) Name() string           { return "set-floating" }
func (SetFullscreen) Name() string         { return "set-fullscreen" }
func (SetMinimized) Name() string          { return "set-minimized" }
func (SetTiling) Name() string             { return "set-tiling" }
func (SetTitleBarVisibility) Name() string { return "set-title-bar-visibility" }
func (SetOpacity) Name() string            { return "set-opacity" }
func (ShellExec) Name() string             { return "shell-exec" }
func (ToggleFloating) Name() string        { return "toggle-floating" }
func (ToggleFullscreen) Name() string      { return "toggle-fullscreen" }
func (ToggleMinimized) Name() string       { return "toggle-minimized" }
func (ToggleTiling) Name() string          { return "toggle-tiling" }
func (ToggleTilingDirection) Name() string { return "toggle-tiling-direction" }
func (SetTilingDirection) Name() string    { return "set-tiling-direction" }
func (WmCycleFocus) Name() string          { return "wm-cycle-focus" }
func (WmDisableBindingMode) Name() string  { return "wm-disable-binding-mode" }
func (WmEnableBindingMode) Name() string   { return "wm-enable-binding-mode" }
func (WmExit) Name() string                { return "wm-exit" }
func (WmRedraw) Name() string              { return "wm-redraw" }
func (WmReloadConfig) Name() string        { return "wm-reload-config" }
func (WmTogglePause) Name() string         { return "wm-toggle-pause" }
