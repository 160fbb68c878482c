package config

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/mj1618/tilewm/internal/command"
)

// hexColor matches #rgb, #rrggbb and #rrggbbaa.
var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Validate checks names, enum values, match predicates and every command
// string against the invoke-command grammar.
func (c *Config) Validate() error {
	var problems []error
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf(format, args...))
	}
	checkCommands := func(where string, cmds []string) {
		for _, s := range cmds {
			if _, err := command.ParseString(s); err != nil {
				add("%s: command %q: %w", where, s, err)
			}
		}
	}

	checkCommands("general.startup_commands", c.General.StartupCommands)
	checkCommands("general.shutdown_commands", c.General.ShutdownCommands)

	switch c.General.CursorJump.Trigger {
	case JumpOnMonitorFocus, JumpOnWindowFocus:
	default:
		add("general.cursor_jump.trigger: unknown value %q (expected monitor_focus or window_focus)", c.General.CursorJump.Trigger)
	}

	switch c.WindowBehavior.InitialState {
	case "tiling", "floating":
	default:
		add("window_behavior.initial_state: unknown value %q (expected tiling or floating)", c.WindowBehavior.InitialState)
	}

	checkBorder := func(where string, b BorderEffect) {
		if b.Enabled && !hexColor.MatchString(b.Color) {
			add("%s.border.color: %q is not a #rrggbb color", where, b.Color)
		}
	}
	checkBorder("window_effects.focused_window", c.WindowEffects.FocusedWindow.Border)
	checkBorder("window_effects.other_windows", c.WindowEffects.OtherWindows.Border)

	if len(c.Workspaces) == 0 {
		add("workspaces: at least one workspace is required")
	}
	seen := make(map[string]bool)
	for i, ws := range c.Workspaces {
		switch {
		case ws.Name == "":
			add("workspaces[%d]: name is required", i)
		case seen[ws.Name]:
			add("workspaces[%d]: duplicate name %q", i, ws.Name)
		}
		seen[ws.Name] = true
		if ws.BindToMonitor != nil && *ws.BindToMonitor < 0 {
			add("workspaces[%d]: bind_to_monitor must not be negative", i)
		}
	}

	for i := range c.WindowRules {
		rule := &c.WindowRules[i]
		where := fmt.Sprintf("window_rules[%d]", i)
		if len(rule.Commands) == 0 {
			add("%s: at least one command is required", where)
		}
		checkCommands(where, rule.Commands)
		if len(rule.Match) == 0 {
			add("%s: at least one match entry is required", where)
		}
		for j, m := range rule.Match {
			preds := m.predicates()
			if len(preds) == 0 {
				add("%s.match[%d]: needs window_process, window_class or window_title", where, j)
			}
			for _, p := range preds {
				if err := p.compile(); err != nil {
					add("%s.match[%d]: %w", where, j, err)
				}
			}
		}
		for _, on := range rule.On {
			switch on {
			case OnManage, OnFocus, OnTitleChange:
			default:
				add("%s.on: unknown event %q (expected manage, focus or title_change)", where, on)
			}
		}
	}

	checkKeybindings := func(where string, kbs []KeybindingConfig) {
		for i, kb := range kbs {
			w := fmt.Sprintf("%s[%d]", where, i)
			if len(kb.Bindings) == 0 {
				add("%s: at least one binding is required", w)
			}
			if len(kb.Commands) == 0 {
				add("%s: at least one command is required", w)
			}
			checkCommands(w, kb.Commands)
		}
	}
	checkKeybindings("keybindings", c.Keybindings)

	modes := make(map[string]bool)
	for i, m := range c.BindingModes {
		if m.Name == "" {
			add("binding_modes[%d]: name is required", i)
		} else if modes[m.Name] {
			add("binding_modes[%d]: duplicate name %q", i, m.Name)
		}
		modes[m.Name] = true
		checkKeybindings(fmt.Sprintf("binding_modes[%d].keybindings", i), m.Keybindings)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(problems...))
	}
	return nil
}
