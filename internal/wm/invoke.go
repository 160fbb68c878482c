package wm

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/mj1618/tilewm/internal/command"
	"github.com/mj1618/tilewm/internal/config"
	"github.com/mj1618/tilewm/internal/container"
	"github.com/mj1618/tilewm/internal/platform"
)

// Invoke runs cmd against the container subjectID names, or the focused
// container when subjectID is nil, and returns the subject's id. Commands
// that only apply to windows do nothing when the subject is not one.
func (w *WM) Invoke(cmd command.Command, subjectID *container.ID) (container.ID, error) {
	t := w.tree
	subject := t.Focused()
	if subjectID != nil {
		c, err := t.Get(*subjectID)
		if err != nil {
			return uuid.Nil, err
		}
		subject = c
	}
	if w.paused {
		if _, ok := cmd.(command.WmTogglePause); !ok {
			w.logger.Debug("paused; command skipped", "command", cmd.Name())
			return subject.ID(), nil
		}
	}
	w.logger.Debug("invoke", "command", cmd.Name(), "subject", subject.ID())

	return subject.ID(), w.invoke(cmd, subject)
}

func (w *WM) invoke(cmd command.Command, subject *container.Container) error {
	win := subject
	if !subject.IsWindow() {
		win = nil
	}

	switch c := cmd.(type) {
	case command.Focus:
		return w.focus(subject, c)
	case command.MoveWorkspace:
		ws := w.tree.WorkspaceOf(subject)
		if ws == nil {
			return fmt.Errorf("%w: %s is not in a workspace", container.ErrInvalidOperation, subject.ID())
		}
		return w.moveWorkspace(ws, c.Direction)
	case command.SetTilingDirection:
		return w.setTilingDirection(subject, c.Direction)
	case command.ToggleTilingDirection:
		return w.toggleTilingDirection(subject)
	case command.ShellExec:
		if err := w.exec(c.Command, c.HideWindow); err != nil {
			return fmt.Errorf("shell-exec %v: %w", c.Command, err)
		}
		return nil
	case command.WmCycleFocus:
		return w.cycleFocus(c)
	case command.WmEnableBindingMode:
		return w.enableBindingMode(c.Mode)
	case command.WmDisableBindingMode:
		w.disableBindingMode(c.Mode)
		return nil
	case command.WmExit:
		return ErrExit
	case command.WmRedraw:
		w.pending.QueueFullRedraw()
		return nil
	case command.WmReloadConfig:
		return w.reloadConfig()
	case command.WmTogglePause:
		w.togglePause()
		return nil
	}

	if win == nil {
		return nil
	}
	switch c := cmd.(type) {
	case command.AdjustBorders:
		w.adjustBorders(win, c)
	case command.Close:
		h := win.Window.Handle
		if err := w.native.Close(h); err != nil {
			return platform.NativeError("close", h, err)
		}
	case command.Ignore:
		return w.ignore(win)
	case command.Move:
		return w.move(win, c)
	case command.Position:
		w.position(win, c)
	case command.Resize:
		return w.resize(win, c)
	case command.SetFloating:
		return w.setFloating(win, c)
	case command.SetFullscreen:
		return w.setFullscreen(win, c.ShownOnTop, c.Maximized)
	case command.SetMinimized:
		return w.setState(win, container.Minimized)
	case command.SetTiling:
		return w.setState(win, container.Tiling)
	case command.SetTitleBarVisibility:
		h := win.Window.Handle
		w.nativeCall("title bar", h, w.native.SetTitleBarVisible(h, c.Visible))
	case command.SetOpacity:
		w.setOpacity(win, c.Opacity)
	case command.ToggleFloating:
		return w.toggleState(win, container.Floating, func() error {
			return w.setFloating(win, command.SetFloating{ShownOnTop: c.ShownOnTop, Centered: c.Centered})
		})
	case command.ToggleFullscreen:
		return w.toggleState(win, container.Fullscreen, func() error {
			return w.setFullscreen(win, c.ShownOnTop, c.Maximized)
		})
	case command.ToggleMinimized:
		return w.toggleState(win, container.Minimized, func() error {
			return w.setState(win, container.Minimized)
		})
	case command.ToggleTiling:
		return w.toggleState(win, container.Tiling, func() error {
			return w.setState(win, container.Tiling)
		})
	default:
		return fmt.Errorf("%w: no handler for %q", command.ErrInvalidCommandArguments, cmd.Name())
	}
	return nil
}

func (w *WM) enableBindingMode(name string) error {
	mode, ok := w.cfg.BindingMode(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBindingMode, name)
	}
	w.bindingModes = []config.BindingModeConfig{mode}
	w.emit(Event{Type: EventBindingModesChanged, BindingModes: w.bindingModeDTOs()})
	return nil
}

func (w *WM) disableBindingMode(name string) {
	before := len(w.bindingModes)
	w.bindingModes = slices.DeleteFunc(w.bindingModes, func(m config.BindingModeConfig) bool {
		return m.Name == name
	})
	if len(w.bindingModes) != before {
		w.emit(Event{Type: EventBindingModesChanged, BindingModes: w.bindingModeDTOs()})
	}
}

func (w *WM) togglePause() {
	w.paused = !w.paused
	paused := w.paused
	w.emit(Event{Type: EventPauseChanged, Paused: &paused})
	w.logger.Info("pause toggled", "paused", paused)
}

// reloadConfig re-reads the config file and swaps it in. On error the
// current config stays active.
func (w *WM) reloadConfig() error {
	if w.configPath == "" {
		return fmt.Errorf("%w: no config file to reload", config.ErrInvalidConfig)
	}
	cfg, path, err := config.Load(w.configPath)
	if err != nil {
		return err
	}
	w.setConfig(cfg)

	for _, ws := range w.tree.Workspaces() {
		wsCfg, _ := cfg.Workspace(ws.Workspace.Name)
		ws.Workspace.DisplayName = wsCfg.DisplayName
		ws.Workspace.KeepAlive = wsCfg.KeepAlive
	}
	// Active modes pick up their new keybindings; removed modes end.
	var modes []config.BindingModeConfig
	for _, m := range w.bindingModes {
		if fresh, ok := cfg.BindingMode(m.Name); ok {
			modes = append(modes, fresh)
		}
	}
	if len(modes) != len(w.bindingModes) {
		w.emit(Event{Type: EventBindingModesChanged, BindingModes: bindingModeDTOsOf(modes)})
	}
	w.bindingModes = modes

	w.pending.QueueFullRedraw()
	w.pending.QueueAllEffectsUpdate()
	w.emit(Event{Type: EventUserConfigChanged, ConfigPath: path})
	w.logger.Info("config reloaded", "path", path)
	return nil
}
