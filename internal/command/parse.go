package command

import (
	"fmt"
	"io"
	"strings"

	"github.com/anmitsu/go-shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mj1618/tilewm/internal/container"
	"github.com/mj1618/tilewm/internal/units"
)

// ParseString splits s with shell quoting rules and parses the result.
func ParseString(s string) (Command, error) {
	args, err := shlex.Split(s, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCommandArguments, err)
	}
	return Parse(args)
}

// Parse parses an invoke command such as
// ["focus", "--direction", "left"].
func Parse(args []string) (Command, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: no command given", ErrInvalidCommandArguments)
	}

	var parsed Command
	root := newGrammar(func(c Command) { parsed = c })
	root.SetArgs(append([]string{}, args...))
	if err := root.Execute(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCommandArguments, err.Error())
	}
	if parsed == nil {
		return nil, fmt.Errorf("%w: no command given", ErrInvalidCommandArguments)
	}
	return parsed, nil
}

// ParseAll parses every string, returning the first error.
func ParseAll(lines []string) ([]Command, error) {
	out := make([]Command, 0, len(lines))
	for _, l := range lines {
		c, err := ParseString(l)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", l, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// newGrammar builds a fresh command tree; emit receives the parsed command.
func newGrammar(emit func(Command)) *cobra.Command {
	root := &cobra.Command{
		Use:           "command",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("unknown command %q", strings.Join(args, " "))
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	// leaf registers a subcommand whose build func turns flags into a Command.
	leaf := func(use string, build func(fs *pflag.FlagSet, args []string) (Command, error)) *cobra.Command {
		c := &cobra.Command{
			Use:  use,
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				parsed, err := build(cmd.Flags(), args)
				if err != nil {
					return err
				}
				emit(parsed)
				return nil
			},
		}
		root.AddCommand(c)
		return c
	}
	simple := func(use string, c Command) {
		leaf(use, func(*pflag.FlagSet, []string) (Command, error) { return c, nil })
	}

	adjust := leaf("adjust-borders", func(fs *pflag.FlagSet, _ []string) (Command, error) {
		return AdjustBorders{
			Top:    optLength(fs, "top"),
			Right:  optLength(fs, "right"),
			Bottom: optLength(fs, "bottom"),
			Left:   optLength(fs, "left"),
		}, nil
	})
	addLengthFlags(adjust, "top", "right", "bottom", "left")
	adjust.MarkFlagsOneRequired("top", "right", "bottom", "left")

	simple("close", Close{})
	simple("ignore", Ignore{})

	focus := leaf("focus", func(fs *pflag.FlagSet, _ []string) (Command, error) {
		dir, err := optDirection(fs)
		if err != nil {
			return nil, err
		}
		f := Focus{Direction: dir}
		f.Workspace, _ = fs.GetString("workspace")
		if fs.Changed("monitor") {
			m, _ := fs.GetInt("monitor")
			if m < 0 {
				return nil, fmt.Errorf("invalid monitor index %d", m)
			}
			f.Monitor = &m
		}
		f.NextActiveWorkspace, _ = fs.GetBool("next-active-workspace")
		f.PrevActiveWorkspace, _ = fs.GetBool("prev-active-workspace")
		f.NextWorkspace, _ = fs.GetBool("next-workspace")
		f.PrevWorkspace, _ = fs.GetBool("prev-workspace")
		f.RecentWorkspace, _ = fs.GetBool("recent-workspace")
		return f, nil
	})
	addTargetFlags(focus)
	focus.Flags().Int("monitor", 0, "Index of the monitor to focus")
	targetGroup(focus, "monitor")

	move := leaf("move", func(fs *pflag.FlagSet, _ []string) (Command, error) {
		dir, err := optDirection(fs)
		if err != nil {
			return nil, err
		}
		m := Move{Direction: dir}
		m.Workspace, _ = fs.GetString("workspace")
		m.NextActiveWorkspace, _ = fs.GetBool("next-active-workspace")
		m.PrevActiveWorkspace, _ = fs.GetBool("prev-active-workspace")
		m.NextWorkspace, _ = fs.GetBool("next-workspace")
		m.PrevWorkspace, _ = fs.GetBool("prev-workspace")
		m.RecentWorkspace, _ = fs.GetBool("recent-workspace")
		return m, nil
	})
	addTargetFlags(move)
	targetGroup(move)

	moveWs := leaf("move-workspace", func(fs *pflag.FlagSet, _ []string) (Command, error) {
		dir, err := optDirection(fs)
		if err != nil {
			return nil, err
		}
		return MoveWorkspace{Direction: *dir}, nil
	})
	moveWs.Flags().String("direction", "", "Direction of the monitor to move the workspace to")
	_ = moveWs.MarkFlagRequired("direction")

	position := leaf("position", func(fs *pflag.FlagSet, _ []string) (Command, error) {
		p := Position{XPos: optInt(fs, "x-pos"), YPos: optInt(fs, "y-pos")}
		p.Centered, _ = fs.GetBool("centered")
		return p, nil
	})
	position.Flags().Bool("centered", false, "Center the window on its monitor")
	position.Flags().Int("x-pos", 0, "Left edge in screen coordinates")
	position.Flags().Int("y-pos", 0, "Top edge in screen coordinates")
	position.MarkFlagsOneRequired("centered", "x-pos", "y-pos")

	resize := leaf("resize", func(fs *pflag.FlagSet, _ []string) (Command, error) {
		return Resize{Width: optLength(fs, "width"), Height: optLength(fs, "height")}, nil
	})
	resize.Aliases = []string{"size"}
	addLengthFlags(resize, "width", "height")
	resize.MarkFlagsOneRequired("width", "height")

	setFloating := leaf("set-floating", func(fs *pflag.FlagSet, _ []string) (Command, error) {
		return SetFloating{
			ShownOnTop: optBool(fs, "shown-on-top"),
			Centered:   optBool(fs, "centered"),
			XPos:       optInt(fs, "x-pos"),
			YPos:       optInt(fs, "y-pos"),
			Width:      optLength(fs, "width"),
			Height:     optLength(fs, "height"),
		}, nil
	})
	setFloating.Flags().Bool("shown-on-top", false, "Keep the window above tiling windows")
	setFloating.Flags().Bool("centered", false, "Center the window on its monitor")
	setFloating.Flags().Int("x-pos", 0, "Left edge in screen coordinates")
	setFloating.Flags().Int("y-pos", 0, "Top edge in screen coordinates")
	addLengthFlags(setFloating, "width", "height")

	setFullscreen := leaf("set-fullscreen", func(fs *pflag.FlagSet, _ []string) (Command, error) {
		return SetFullscreen{ShownOnTop: optBool(fs, "shown-on-top"), Maximized: optBool(fs, "maximized")}, nil
	})
	setFullscreen.Flags().Bool("shown-on-top", false, "Keep the window above other windows")
	setFullscreen.Flags().Bool("maximized", false, "Use the native maximized state")

	simple("set-minimized", SetMinimized{})
	simple("set-tiling", SetTiling{})

	titleBar := leaf("set-title-bar-visibility", func(_ *pflag.FlagSet, args []string) (Command, error) {
		switch args[0] {
		case "shown":
			return SetTitleBarVisibility{Visible: true}, nil
		case "hidden":
			return SetTitleBarVisibility{Visible: false}, nil
		default:
			return nil, fmt.Errorf("invalid visibility %q (expected shown or hidden)", args[0])
		}
	})
	titleBar.Args = cobra.ExactArgs(1)

	opacity := leaf("set-opacity", func(_ *pflag.FlagSet, args []string) (Command, error) {
		v, err := units.ParseOpacity(args[0])
		if err != nil {
			return nil, err
		}
		return SetOpacity{Opacity: v}, nil
	})
	// Relative values start with '-', so the value is never a flag.
	opacity.DisableFlagParsing = true
	opacity.Args = cobra.ExactArgs(1)

	shell := leaf("shell-exec", func(fs *pflag.FlagSet, args []string) (Command, error) {
		hide, _ := fs.GetBool("hide-window")
		return ShellExec{HideWindow: hide, Command: args}, nil
	})
	shell.Flags().Bool("hide-window", false, "Run the program without a visible window")
	shell.Flags().SetInterspersed(false)
	shell.Args = cobra.MinimumNArgs(1)

	toggleFloating := leaf("toggle-floating", func(fs *pflag.FlagSet, _ []string) (Command, error) {
		return ToggleFloating{ShownOnTop: optBool(fs, "shown-on-top"), Centered: optBool(fs, "centered")}, nil
	})
	toggleFloating.Flags().Bool("shown-on-top", false, "Keep the window above tiling windows")
	toggleFloating.Flags().Bool("centered", false, "Center the window on its monitor")

	toggleFullscreen := leaf("toggle-fullscreen", func(fs *pflag.FlagSet, _ []string) (Command, error) {
		return ToggleFullscreen{ShownOnTop: optBool(fs, "shown-on-top"), Maximized: optBool(fs, "maximized")}, nil
	})
	toggleFullscreen.Flags().Bool("shown-on-top", false, "Keep the window above other windows")
	toggleFullscreen.Flags().Bool("maximized", false, "Use the native maximized state")

	simple("toggle-minimized", ToggleMinimized{})
	simple("toggle-tiling", ToggleTiling{})
	simple("toggle-tiling-direction", ToggleTilingDirection{})

	tilingDir := leaf("set-tiling-direction", func(_ *pflag.FlagSet, args []string) (Command, error) {
		dir, err := container.ParseTilingDirection(args[0])
		if err != nil {
			return nil, err
		}
		return SetTilingDirection{Direction: dir}, nil
	})
	tilingDir.Args = cobra.ExactArgs(1)

	cycle := leaf("wm-cycle-focus", func(fs *pflag.FlagSet, _ []string) (Command, error) {
		c := WmCycleFocus{}
		c.OmitFullscreen, _ = fs.GetBool("omit-fullscreen")
		c.OmitMinimized, _ = fs.GetBool("omit-minimized")
		return c, nil
	})
	cycle.Flags().Bool("omit-fullscreen", false, "Skip fullscreen windows")
	cycle.Flags().Bool("omit-minimized", true, "Skip minimized windows")

	for use, enable := range map[string]bool{"wm-enable-binding-mode": true, "wm-disable-binding-mode": false} {
		mode := leaf(use, func(fs *pflag.FlagSet, _ []string) (Command, error) {
			name, _ := fs.GetString("name")
			if enable {
				return WmEnableBindingMode{Mode: name}, nil
			}
			return WmDisableBindingMode{Mode: name}, nil
		})
		mode.Flags().String("name", "", "Binding mode name")
		_ = mode.MarkFlagRequired("name")
	}

	simple("wm-exit", WmExit{})
	simple("wm-redraw", WmRedraw{})
	simple("wm-reload-config", WmReloadConfig{})
	simple("wm-toggle-pause", WmTogglePause{})

	return root
}

var targetFlags = []string{
	"direction", "workspace",
	"next-active-workspace", "prev-active-workspace",
	"next-workspace", "prev-workspace", "recent-workspace",
}

func addTargetFlags(c *cobra.Command) {
	c.Flags().String("direction", "", "Direction: left, right, up, or down")
	c.Flags().String("workspace", "", "Workspace name")
	c.Flags().Bool("next-active-workspace", false, "Next workspace shown on any monitor")
	c.Flags().Bool("prev-active-workspace", false, "Previous workspace shown on any monitor")
	c.Flags().Bool("next-workspace", false, "Next workspace by name order")
	c.Flags().Bool("prev-workspace", false, "Previous workspace by name order")
	c.Flags().Bool("recent-workspace", false, "Most recently focused workspace")
}

// targetGroup requires exactly one target flag.
func targetGroup(c *cobra.Command, extra ...string) {
	names := append(append([]string{}, targetFlags...), extra...)
	c.MarkFlagsMutuallyExclusive(names...)
	c.MarkFlagsOneRequired(names...)
}

func addLengthFlags(c *cobra.Command, names ...string) {
	for _, n := range names {
		c.Flags().Var(new(units.LengthValue), n, "Length such as 20px, 10%, +5% or -8px")
	}
}

func optLength(fs *pflag.FlagSet, name string) *units.LengthValue {
	if !fs.Changed(name) {
		return nil
	}
	v := *fs.Lookup(name).Value.(*units.LengthValue)
	return &v
}

func optBool(fs *pflag.FlagSet, name string) *bool {
	if !fs.Changed(name) {
		return nil
	}
	v, _ := fs.GetBool(name)
	return &v
}

func optInt(fs *pflag.FlagSet, name string) *int {
	if !fs.Changed(name) {
		return nil
	}
	v, _ := fs.GetInt(name)
	return &v
}

func optDirection(fs *pflag.FlagSet) (*container.Direction, error) {
	if !fs.Changed("direction") {
		return nil, nil
	}
	s, _ := fs.GetString("direction")
	d, err := container.ParseDirection(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
