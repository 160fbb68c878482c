// Package config loads and validates the user's config.yaml.
//
// A loaded *Config is treated as immutable: the window manager swaps the
// whole pointer on wm-reload-config instead of mutating it in place.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/tilewm/internal/units"
)

//go:embed default_config.yaml
var defaultConfig []byte

// DefaultIPCAddress is used when general.ipc_address is empty.
const DefaultIPCAddress = "127.0.0.1:6123"

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the root of config.yaml.
type Config struct {
	General        GeneralConfig        `yaml:"general"`
	Gaps           GapsConfig           `yaml:"gaps"`
	WindowEffects  WindowEffectsConfig  `yaml:"window_effects"`
	WindowBehavior WindowBehaviorConfig `yaml:"window_behavior"`
	Workspaces     []WorkspaceConfig    `yaml:"workspaces"`
	WindowRules    []WindowRuleConfig   `yaml:"window_rules"`
	BindingModes   []BindingModeConfig  `yaml:"binding_modes"`
	Keybindings    []KeybindingConfig   `yaml:"keybindings"`
}

// GeneralConfig holds process-wide behavior: lifecycle commands, focus
// and cursor handling, and the IPC endpoint.
type GeneralConfig struct {
	StartupCommands      []string         `yaml:"startup_commands"`
	ShutdownCommands     []string         `yaml:"shutdown_commands"`
	FocusFollowsCursor   bool             `yaml:"focus_follows_cursor"`
	CursorJump           CursorJumpConfig `yaml:"cursor_jump"`
	IPCAddress           string           `yaml:"ipc_address"`
	ConfigReloadOnChange bool             `yaml:"config_reload_on_change"`
}

// CursorJumpTrigger controls when the cursor follows focus.
type CursorJumpTrigger string

const (
	JumpOnMonitorFocus CursorJumpTrigger = "monitor_focus"
	JumpOnWindowFocus  CursorJumpTrigger = "window_focus"
)

// CursorJumpConfig moves the cursor along with focus.
type CursorJumpConfig struct {
	Enabled bool              `yaml:"enabled"`
	Trigger CursorJumpTrigger `yaml:"trigger"`
}

// GapsConfig is the spacing around tiled windows.
type GapsConfig struct {
	InnerGap units.LengthValue `yaml:"inner_gap"`
	OuterGap units.RectDelta   `yaml:"outer_gap"`
}

// WindowEffectsConfig holds the decorations for focused and other windows.
type WindowEffectsConfig struct {
	FocusedWindow EffectsConfig `yaml:"focused_window"`
	OtherWindows  EffectsConfig `yaml:"other_windows"`
}

// EffectsConfig is the set of effects applied to one class of window.
type EffectsConfig struct {
	Border       BorderEffect       `yaml:"border"`
	HideTitleBar ToggleEffect       `yaml:"hide_title_bar"`
	Transparency TransparencyEffect `yaml:"transparency"`
}

// BorderEffect colors the window border. Color is a #rrggbb hex value.
type BorderEffect struct {
	Enabled bool   `yaml:"enabled"`
	Color   string `yaml:"color"`
}

// ToggleEffect is an effect with no settings beyond on or off.
type ToggleEffect struct {
	Enabled bool `yaml:"enabled"`
}

// TransparencyEffect changes window opacity.
type TransparencyEffect struct {
	Enabled bool               `yaml:"enabled"`
	Opacity units.OpacityValue `yaml:"opacity"`
}

// WindowBehaviorConfig sets how new windows and state changes behave.
type WindowBehaviorConfig struct {
	// InitialState is "tiling" or "floating".
	InitialState       string              `yaml:"initial_state"`
	StateDefaults      StateDefaultsConfig `yaml:"state_defaults"`
	FloatingMoveAmount units.LengthValue   `yaml:"floating_move_amount"`
}

// StateDefaultsConfig holds the defaults for set-floating and set-fullscreen.
type StateDefaultsConfig struct {
	Floating   FloatingDefaults   `yaml:"floating"`
	Fullscreen FullscreenDefaults `yaml:"fullscreen"`
}

// FloatingDefaults applies when set-floating omits a flag.
type FloatingDefaults struct {
	Centered   bool `yaml:"centered"`
	ShownOnTop bool `yaml:"shown_on_top"`
}

// FullscreenDefaults applies when set-fullscreen omits a flag.
type FullscreenDefaults struct {
	Maximized  bool `yaml:"maximized"`
	ShownOnTop bool `yaml:"shown_on_top"`
}

// WorkspaceConfig declares a named workspace.
type WorkspaceConfig struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"display_name,omitempty"`
	// BindToMonitor is a monitor index; nil lets the WM pick.
	BindToMonitor *int `yaml:"bind_to_monitor,omitempty"`
	// KeepAlive keeps the workspace when it becomes empty and unfocused.
	KeepAlive bool `yaml:"keep_alive,omitempty"`
}

// RuleEvent is a lifecycle hook at which window rules run.
type RuleEvent string

const (
	OnManage      RuleEvent = "manage"
	OnFocus       RuleEvent = "focus"
	OnTitleChange RuleEvent = "title_change"
)

// WindowRuleConfig runs Commands on windows matching any Match entry.
type WindowRuleConfig struct {
	Commands []string            `yaml:"commands"`
	Match    []WindowMatchConfig `yaml:"match"`
	// On defaults to [manage].
	On      []RuleEvent `yaml:"on,omitempty"`
	RunOnce bool        `yaml:"run_once,omitempty"`
}

// RunsOn reports whether the rule is registered for ev.
func (r WindowRuleConfig) RunsOn(ev RuleEvent) bool {
	if len(r.On) == 0 {
		return ev == OnManage
	}
	for _, on := range r.On {
		if on == ev {
			return true
		}
	}
	return false
}

// BindingModeConfig is a named set of keybindings enabled on demand.
type BindingModeConfig struct {
	Name        string             `yaml:"name"`
	DisplayName string             `yaml:"display_name,omitempty"`
	Keybindings []KeybindingConfig `yaml:"keybindings"`
}

// KeybindingConfig maps key combinations to commands.
type KeybindingConfig struct {
	Commands []string `yaml:"commands"`
	Bindings []string `yaml:"bindings"`
}

// DefaultPath returns $XDG_CONFIG_HOME/tilewm/config.yaml, creating the
// parent directory if needed.
func DefaultPath() (string, error) {
	return xdg.ConfigFile(filepath.Join("tilewm", "config.yaml"))
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := Parse(defaultConfig)
	if err != nil {
		panic(fmt.Sprintf("embedded default config is invalid: %v", err))
	}
	return cfg
}

// DefaultYAML returns the embedded default config file.
func DefaultYAML() []byte {
	return bytes.Clone(defaultConfig)
}

// Load reads the config at path. An empty path resolves to DefaultPath. A
// missing file is created from the embedded default.
func Load(path string) (*Config, string, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, "", fmt.Errorf("resolve config path: %w", err)
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, path, fmt.Errorf("create config directory: %w", err)
		}
		if err := os.WriteFile(path, defaultConfig, 0o644); err != nil {
			return nil, path, fmt.Errorf("write default config: %w", err)
		}
		data = defaultConfig
	} else if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, path, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, path, nil
}

// Parse decodes and validates YAML config data. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.General.IPCAddress == "" {
		c.General.IPCAddress = DefaultIPCAddress
	}
	if c.General.CursorJump.Trigger == "" {
		c.General.CursorJump.Trigger = JumpOnMonitorFocus
	}
	if c.WindowBehavior.InitialState == "" {
		c.WindowBehavior.InitialState = "tiling"
	}
	if c.WindowBehavior.FloatingMoveAmount == (units.LengthValue{}) {
		c.WindowBehavior.FloatingMoveAmount = units.LengthValue{Amount: 5, Unit: units.Percentage}
	}
}

// Workspace returns the config of the named workspace.
func (c *Config) Workspace(name string) (WorkspaceConfig, bool) {
	for _, ws := range c.Workspaces {
		if ws.Name == name {
			return ws, true
		}
	}
	return WorkspaceConfig{}, false
}

// BindingMode returns the named binding mode.
func (c *Config) BindingMode(name string) (BindingModeConfig, bool) {
	for _, m := range c.BindingModes {
		if m.Name == name {
			return m, true
		}
	}
	return BindingModeConfig{}, false
}
