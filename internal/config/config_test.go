package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mj1618/tilewm/internal/logging"
	"github.com/mj1618/tilewm/internal/units"
)

func TestDefault_Parses(t *testing.T) {
	cfg := Default()
	if len(cfg.Workspaces) != 5 {
		t.Errorf("workspaces: got %d, want 5", len(cfg.Workspaces))
	}
	if cfg.General.IPCAddress != DefaultIPCAddress {
		t.Errorf("ipc address: got %q", cfg.General.IPCAddress)
	}
	if cfg.Gaps.InnerGap != units.Px(20) {
		t.Errorf("inner gap: got %v", cfg.Gaps.InnerGap)
	}
	if got := cfg.WindowEffects.OtherWindows.Transparency.Opacity.Amount; got != 0.9 {
		t.Errorf("opacity: got %v, want 0.9", got)
	}
	if _, ok := cfg.BindingMode("resize"); !ok {
		t.Error("resize binding mode missing")
	}
	if _, ok := cfg.Workspace("3"); !ok {
		t.Error("workspace 3 missing")
	}
}

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("workspaces:\n  - name: main\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.General.IPCAddress != DefaultIPCAddress {
		t.Errorf("ipc address: got %q", cfg.General.IPCAddress)
	}
	if cfg.WindowBehavior.InitialState != "tiling" {
		t.Errorf("initial state: got %q", cfg.WindowBehavior.InitialState)
	}
	if cfg.General.CursorJump.Trigger != JumpOnMonitorFocus {
		t.Errorf("trigger: got %q", cfg.General.CursorJump.Trigger)
	}
	if cfg.WindowBehavior.FloatingMoveAmount.Unit != units.Percentage {
		t.Errorf("floating move amount: got %v", cfg.WindowBehavior.FloatingMoveAmount)
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown key", "workspaces: [{name: a}]\nbogus: true\n", "bogus"},
		{"no workspaces", "general: {}\n", "at least one workspace"},
		{"duplicate workspace", "workspaces: [{name: a}, {name: a}]\n", "duplicate name"},
		{"bad command", "workspaces: [{name: a}]\nkeybindings: [{commands: [\"frobnicate\"], bindings: [\"alt+x\"]}]\n", "frobnicate"},
		{"bad flag", "workspaces: [{name: a}]\ngeneral: {startup_commands: [\"focus --direction sideways\"]}\n", "sideways"},
		{"bad regex", "workspaces: [{name: a}]\nwindow_rules: [{commands: [ignore], match: [{window_title: {regex: \"(\"}}]}]\n", "regex"},
		{"empty match", "workspaces: [{name: a}]\nwindow_rules: [{commands: [ignore], match: [{}]}]\n", "needs window_process"},
		{"bad rule event", "workspaces: [{name: a}]\nwindow_rules: [{commands: [ignore], on: [blur], match: [{window_class: {equals: x}}]}]\n", "blur"},
		{"bad initial state", "workspaces: [{name: a}]\nwindow_behavior: {initial_state: minimized}\n", "initial_state"},
		{"bad length", "workspaces: [{name: a}]\ngaps: {inner_gap: wide}\n", "wide"},
		{"bad opacity", "workspaces: [{name: a}]\nwindow_effects: {focused_window: {transparency: {opacity: \"150%\"}}}\n", "opacity"},
		{"bad border color", "workspaces: [{name: a}]\nwindow_effects: {other_windows: {border: {enabled: true, color: blue}}}\n", "other_windows.border.color"},
		{"negative monitor", "workspaces: [{name: a, bind_to_monitor: -1}]\n", "bind_to_monitor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error %v does not wrap ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_WritesDefaultWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, resolved, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != path {
		t.Errorf("path: got %q, want %q", resolved, path)
	}
	if len(cfg.Workspaces) == 0 {
		t.Error("expected default workspaces")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if string(data) != string(DefaultYAML()) {
		t.Error("written config differs from the embedded default")
	}
}

func TestLoad_ReportsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("workspaces: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error mentioning %s, got %v", path, err)
	}
}

func TestMatchString(t *testing.T) {
	tests := []struct {
		name  string
		match MatchString
		value string
		want  bool
	}{
		{"equals", MatchString{Equals: "firefox"}, "firefox", true},
		{"equals miss", MatchString{Equals: "firefox"}, "Firefox", false},
		{"includes", MatchString{Includes: "fox"}, "firefox", true},
		{"regex", MatchString{Regex: "^fire"}, "firefox", true},
		{"regex miss", MatchString{Regex: "^fox"}, "firefox", false},
		{"not equals", MatchString{NotEquals: "firefox"}, "chrome", true},
		{"not regex", MatchString{NotRegex: "fox$"}, "firefox", false},
		{"combined", MatchString{Includes: "fire", NotEquals: "firefox"}, "firefox", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.match
			if got := m.Matches(tt.value); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestWindowRule_Matches(t *testing.T) {
	rule := WindowRuleConfig{
		Commands: []string{"ignore"},
		Match: []WindowMatchConfig{
			{WindowProcess: &MatchString{Equals: "zoom"}, WindowTitle: &MatchString{Includes: "Meeting"}},
			{WindowClass: &MatchString{Equals: "Popup"}},
		},
	}

	tests := []struct {
		props WindowProps
		want  bool
	}{
		{WindowProps{Process: "zoom", Title: "Meeting with Sam"}, true},
		{WindowProps{Process: "zoom", Title: "Settings"}, false},
		{WindowProps{Process: "code", Class: "Popup"}, true},
		{WindowProps{Process: "code", Class: "Main"}, false},
	}
	for _, tt := range tests {
		if got := rule.Matches(tt.props); got != tt.want {
			t.Errorf("Matches(%+v) = %v, want %v", tt.props, got, tt.want)
		}
	}

	if (WindowMatchConfig{}).Matches(WindowProps{Process: "x"}) {
		t.Error("empty match entry should never match")
	}
}

func TestWindowRule_RunsOn(t *testing.T) {
	r := WindowRuleConfig{}
	if !r.RunsOn(OnManage) || r.RunsOn(OnFocus) {
		t.Error("a rule without events should run on manage only")
	}
	r.On = []RuleEvent{OnFocus, OnTitleChange}
	if r.RunsOn(OnManage) || !r.RunsOn(OnTitleChange) {
		t.Errorf("unexpected RunsOn for %v", r.On)
	}
}

func TestWatch_NotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, DefaultYAML(), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, logging.Discard(), func() { changed <- struct{}{} })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, DefaultYAML(), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
