package wm

import (
	"fmt"

	"github.com/mj1618/tilewm/internal/version"
)

// QueryNames lists the supported query subcommands.
var QueryNames = []string{
	"app_metadata",
	"binding_modes",
	"focused",
	"tiling_direction",
	"monitors",
	"windows",
	"workspaces",
	"paused",
}

// AppMetadata is returned by the app_metadata query.
type AppMetadata struct {
	Version string `yaml:"version" json:"version"`
}

// TilingDirectionResult is returned by the tiling_direction query.
type TilingDirectionResult struct {
	TilingDirection    string    `yaml:"tiling_direction"    json:"tilingDirection"`
	DirectionContainer Container `yaml:"direction_container" json:"directionContainer"`
}

// Query builds the snapshot DTO for one query subcommand.
func (w *WM) Query(name string) (any, error) {
	t := w.tree
	switch name {
	case "app_metadata":
		return AppMetadata{Version: version.Version}, nil
	case "binding_modes":
		return map[string]any{"bindingModes": w.bindingModeDTOs()}, nil
	case "focused":
		return map[string]any{"focused": w.snapshot(t.Focused())}, nil
	case "tiling_direction":
		dc := w.directionContainerOf(t.Focused())
		dir, _ := dc.TilingDirection()
		return TilingDirectionResult{TilingDirection: dir.String(), DirectionContainer: w.snapshot(dc)}, nil
	case "monitors":
		out := []Container{}
		for _, m := range t.Monitors() {
			out = append(out, w.snapshot(m))
		}
		return map[string]any{"monitors": out}, nil
	case "windows":
		out := []Container{}
		for _, win := range t.Windows() {
			out = append(out, w.snapshot(win))
		}
		return map[string]any{"windows": out}, nil
	case "workspaces":
		out := []Container{}
		for _, ws := range t.Workspaces() {
			out = append(out, w.snapshot(ws))
		}
		return map[string]any{"workspaces": out}, nil
	case "paused":
		return map[string]any{"paused": w.paused}, nil
	default:
		return nil, fmt.Errorf("unknown query %q (expected one of %v)", name, QueryNames)
	}
}
