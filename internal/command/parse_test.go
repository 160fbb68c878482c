package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mj1618/tilewm/internal/container"
	"github.com/mj1618/tilewm/internal/units"
)

func TestParse_Focus(t *testing.T) {
	got, err := ParseString("focus --direction left")
	require.NoError(t, err)

	f, ok := got.(Focus)
	require.True(t, ok, "got %T", got)
	require.NotNil(t, f.Direction)
	assert.Equal(t, container.Left, *f.Direction)
	assert.Equal(t, "focus", got.Name())
}

func TestParse_FocusRequiresExactlyOneTarget(t *testing.T) {
	_, err := ParseString("focus")
	require.ErrorIs(t, err, ErrInvalidCommandArguments)
	assert.Contains(t, err.Error(), "at least one of the flags in the group")

	_, err = ParseString("focus --direction left --workspace 2")
	require.ErrorIs(t, err, ErrInvalidCommandArguments)
	assert.Contains(t, err.Error(), "none of the others can be")
}

func TestParse_FocusMonitor(t *testing.T) {
	got, err := ParseString("focus --monitor 1")
	require.NoError(t, err)
	f := got.(Focus)
	require.NotNil(t, f.Monitor)
	assert.Equal(t, 1, *f.Monitor)

	_, err = ParseString("move --monitor 1")
	assert.ErrorIs(t, err, ErrInvalidCommandArguments, "move has no --monitor target")
}

func TestParse_MoveWorkspace(t *testing.T) {
	got, err := ParseString("move --workspace 3")
	require.NoError(t, err)
	assert.Equal(t, Move{Workspace: "3"}, got)

	got, err = ParseString("move-workspace --direction up")
	require.NoError(t, err)
	assert.Equal(t, MoveWorkspace{Direction: container.Up}, got)

	_, err = ParseString("move-workspace")
	assert.ErrorIs(t, err, ErrInvalidCommandArguments)
}

func TestParse_InvalidDirection(t *testing.T) {
	_, err := ParseString("focus --direction sideways")
	require.ErrorIs(t, err, ErrInvalidCommandArguments)
	assert.Contains(t, err.Error(), "sideways")
}

func TestParse_Resize(t *testing.T) {
	got, err := ParseString("resize --width 30%")
	require.NoError(t, err)
	r := got.(Resize)
	require.NotNil(t, r.Width)
	assert.Equal(t, units.LengthValue{Amount: 30, Unit: units.Percentage}, *r.Width)
	assert.Nil(t, r.Height)

	got, err = ParseString("size --height -20px")
	require.NoError(t, err)
	r = got.(Resize)
	require.NotNil(t, r.Height)
	assert.Equal(t, units.LengthValue{Amount: -20, Unit: units.Pixel, Relative: true}, *r.Height)

	_, err = ParseString("resize")
	assert.ErrorIs(t, err, ErrInvalidCommandArguments)
}

func TestParse_SetFloatingOptionalBools(t *testing.T) {
	got, err := ParseString("set-floating --centered --shown-on-top=false --x-pos -100")
	require.NoError(t, err)
	f := got.(SetFloating)

	require.NotNil(t, f.Centered)
	assert.True(t, *f.Centered)
	require.NotNil(t, f.ShownOnTop)
	assert.False(t, *f.ShownOnTop)
	require.NotNil(t, f.XPos)
	assert.Equal(t, -100, *f.XPos)
	assert.Nil(t, f.YPos)
	assert.Nil(t, f.Width)
}

func TestParse_SetOpacity(t *testing.T) {
	got, err := ParseString("set-opacity -10%")
	require.NoError(t, err)
	o := got.(SetOpacity)
	assert.True(t, o.Opacity.Relative)
	assert.InDelta(t, -0.1, o.Opacity.Amount, 1e-9)

	_, err = ParseString("set-opacity")
	assert.ErrorIs(t, err, ErrInvalidCommandArguments)
}

func TestParse_ShellExec(t *testing.T) {
	got, err := ParseString(`shell-exec --hide-window code "my project" --new-window`)
	require.NoError(t, err)
	assert.Equal(t, ShellExec{HideWindow: true, Command: []string{"code", "my project", "--new-window"}}, got)
}

func TestParse_TilingDirectionAndTitleBar(t *testing.T) {
	got, err := ParseString("set-tiling-direction vertical")
	require.NoError(t, err)
	assert.Equal(t, SetTilingDirection{Direction: container.Vertical}, got)

	got, err = ParseString("set-title-bar-visibility hidden")
	require.NoError(t, err)
	assert.Equal(t, SetTitleBarVisibility{Visible: false}, got)

	_, err = ParseString("set-title-bar-visibility maybe")
	assert.ErrorIs(t, err, ErrInvalidCommandArguments)
}

func TestParse_CycleFocusDefaults(t *testing.T) {
	got, err := ParseString("wm-cycle-focus")
	require.NoError(t, err)
	assert.Equal(t, WmCycleFocus{OmitFullscreen: false, OmitMinimized: true}, got)

	got, err = ParseString("wm-cycle-focus --omit-fullscreen --omit-minimized=false")
	require.NoError(t, err)
	assert.Equal(t, WmCycleFocus{OmitFullscreen: true, OmitMinimized: false}, got)
}

func TestParse_BindingModes(t *testing.T) {
	got, err := ParseString("wm-enable-binding-mode --name resize")
	require.NoError(t, err)
	assert.Equal(t, WmEnableBindingMode{Mode: "resize"}, got)

	got, err = ParseString("wm-disable-binding-mode --name resize")
	require.NoError(t, err)
	assert.Equal(t, WmDisableBindingMode{Mode: "resize"}, got)
}

func TestParse_SimpleCommands(t *testing.T) {
	tests := map[string]Command{
		"close":                   Close{},
		"ignore":                  Ignore{},
		"set-minimized":           SetMinimized{},
		"set-tiling":              SetTiling{},
		"toggle-minimized":        ToggleMinimized{},
		"toggle-tiling":           ToggleTiling{},
		"toggle-tiling-direction": ToggleTilingDirection{},
		"wm-exit":                 WmExit{},
		"wm-redraw":               WmRedraw{},
		"wm-reload-config":        WmReloadConfig{},
		"wm-toggle-pause":         WmTogglePause{},
	}
	for in, want := range tests {
		got, err := ParseString(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
		assert.Equal(t, in, got.Name())
	}
}

func TestParse_Unknown(t *testing.T) {
	_, err := ParseString("teleport --far")
	require.ErrorIs(t, err, ErrInvalidCommandArguments)
	assert.Contains(t, err.Error(), `unknown command "teleport"`)

	_, err = ParseString("close extra")
	assert.ErrorIs(t, err, ErrInvalidCommandArguments)

	_, err = Parse(nil)
	assert.ErrorIs(t, err, ErrInvalidCommandArguments)

	_, err = ParseString(`focus --workspace "unterminated`)
	assert.ErrorIs(t, err, ErrInvalidCommandArguments)
}

func TestParseAll(t *testing.T) {
	cmds, err := ParseAll([]string{"wm-redraw", "focus --workspace 1"})
	require.NoError(t, err)
	assert.Len(t, cmds, 2)

	_, err = ParseAll([]string{"wm-redraw", "bogus"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"bogus"`)
}
