package wm

import (
	"github.com/mj1618/tilewm/internal/config"
	"github.com/mj1618/tilewm/internal/container"
	"github.com/mj1618/tilewm/internal/platform"
)

// Container is the serialized form of a container handed to IPC clients.
// It is a copy: nothing in it aliases the live tree.
type Container struct {
	Type       string        `yaml:"type"                 json:"type"`
	ID         container.ID  `yaml:"id"                   json:"id"`
	ParentID   *container.ID `yaml:"parent_id,omitempty"  json:"parentId,omitempty"`
	TilingSize float64       `yaml:"tiling_size"          json:"tilingSize"`
	Rect       platform.Rect `yaml:"rect"                 json:"rect"`
	HasFocus   bool          `yaml:"has_focus"            json:"hasFocus"`
	Children   []Container   `yaml:"children,omitempty"   json:"children,omitempty"`

	// Monitor
	DeviceName string `yaml:"device_name,omitempty" json:"deviceName,omitempty"`
	Primary    bool   `yaml:"primary,omitempty"     json:"primary,omitempty"`

	// Workspace and split
	Name            string `yaml:"name,omitempty"             json:"name,omitempty"`
	DisplayName     string `yaml:"display_name,omitempty"     json:"displayName,omitempty"`
	TilingDirection string `yaml:"tiling_direction,omitempty" json:"tilingDirection,omitempty"`
	IsDisplayed     bool   `yaml:"is_displayed,omitempty"     json:"isDisplayed,omitempty"`

	// Window
	Handle            platform.Handle `yaml:"handle,omitempty"             json:"handle,omitempty"`
	Title             string          `yaml:"title,omitempty"              json:"title,omitempty"`
	ClassName         string          `yaml:"class_name,omitempty"         json:"className,omitempty"`
	ProcessName       string          `yaml:"process_name,omitempty"       json:"processName,omitempty"`
	State             string          `yaml:"state,omitempty"              json:"state,omitempty"`
	DisplayState      string          `yaml:"display_state,omitempty"      json:"displayState,omitempty"`
	FloatingPlacement *platform.Rect  `yaml:"floating_placement,omitempty" json:"floatingPlacement,omitempty"`
	ShownOnTop        bool            `yaml:"shown_on_top,omitempty"       json:"shownOnTop,omitempty"`
	Opacity           float64         `yaml:"opacity,omitempty"            json:"opacity,omitempty"`
	ActiveDrag        *ActiveDrag     `yaml:"active_drag,omitempty"        json:"activeDrag,omitempty"`
}

// ActiveDrag mirrors container.ActiveDrag.
type ActiveDrag struct {
	Operation    string `yaml:"operation"      json:"operation"`
	IsFromTiling bool   `yaml:"is_from_tiling" json:"isFromTiling"`
}

// BindingMode is the serialized form of an active binding mode.
type BindingMode struct {
	Name        string `yaml:"name"                   json:"name"`
	DisplayName string `yaml:"display_name,omitempty" json:"displayName,omitempty"`
}

// snapshot serializes c and, for every variant except windows, its
// children. Rects come from the last computed layout.
func (w *WM) snapshot(c *container.Container) Container {
	t := w.tree
	dto := Container{
		Type:       c.Kind().String(),
		ID:         c.ID(),
		TilingSize: c.TilingSize(),
		Rect:       w.rectOf(c),
		HasFocus:   t.Contains(c) && t.Focused() == c,
	}
	if p := t.Parent(c); p != nil {
		id := p.ID()
		dto.ParentID = &id
	}

	switch c.Kind() {
	case container.KindMonitor:
		dto.DeviceName = c.Monitor.DeviceName
		dto.Primary = c.Monitor.Primary
	case container.KindWorkspace:
		dto.Name = c.Workspace.Name
		dto.DisplayName = c.Workspace.DisplayName
		dto.TilingDirection = c.Workspace.Direction.String()
		dto.IsDisplayed = t.Contains(c) && t.IsDisplayed(c)
	case container.KindSplit:
		dto.TilingDirection = c.Split.Direction.String()
	case container.KindWindow:
		win := c.Window
		fp := win.FloatingPlacement
		dto.Handle = win.Handle
		dto.Title = win.Title
		dto.ClassName = win.ClassName
		dto.ProcessName = win.ProcessName
		dto.State = win.State.String()
		dto.DisplayState = win.Display.String()
		dto.FloatingPlacement = &fp
		dto.ShownOnTop = win.ShownOnTop
		dto.Opacity = win.Opacity
		if d := win.ActiveDrag; d != nil {
			dto.ActiveDrag = &ActiveDrag{Operation: d.Operation.String(), IsFromTiling: d.IsFromTiling}
		}
	}

	if c.HasChildren() && t.Contains(c) {
		for _, ch := range t.ChildrenOf(c) {
			dto.Children = append(dto.Children, w.snapshot(ch))
		}
	}
	return dto
}

func (w *WM) rectOf(c *container.Container) platform.Rect {
	if r, ok := w.lastLayout[c.ID()]; ok {
		return r
	}
	if c.IsWindow() {
		return c.Window.FloatingPlacement
	}
	return platform.Rect{}
}

func (w *WM) bindingModeDTOs() []BindingMode {
	return bindingModeDTOsOf(w.bindingModes)
}

func bindingModeDTOsOf(modes []config.BindingModeConfig) []BindingMode {
	out := make([]BindingMode, 0, len(modes))
	for _, m := range modes {
		out = append(out, BindingMode{Name: m.Name, DisplayName: m.DisplayName})
	}
	return out
}
