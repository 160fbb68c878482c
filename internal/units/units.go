// Package units parses the length and opacity values used by the user
// config and the command grammar ("20px", "10%", "+5%", "0.8").
package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Unit is the unit of a LengthValue.
type Unit int

const (
	Pixel Unit = iota
	Percentage
)

// LengthValue is a pixel or percentage amount. Relative is set when the
// value was written with an explicit sign and should be applied as a delta.
type LengthValue struct {
	Amount   float64
	Unit     Unit
	Relative bool
}

// Px returns an absolute pixel length.
func Px(n int) LengthValue {
	return LengthValue{Amount: float64(n), Unit: Pixel}
}

// ParseLength parses values such as "20px", "20", "10%", "+5%" or "-8px".
func ParseLength(s string) (LengthValue, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return LengthValue{}, fmt.Errorf("invalid length %q: empty value", s)
	}

	var v LengthValue
	if raw[0] == '+' || raw[0] == '-' {
		v.Relative = true
	}

	num := raw
	switch {
	case strings.HasSuffix(raw, "%"):
		v.Unit = Percentage
		num = strings.TrimSuffix(raw, "%")
	case strings.HasSuffix(raw, "px"):
		num = strings.TrimSuffix(raw, "px")
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return LengthValue{}, fmt.Errorf("invalid length %q: expected a number with optional px or %% suffix", s)
	}
	v.Amount = amount
	return v, nil
}

// ToPixels resolves the value against a reference extent (used for
// percentages).
func (l LengthValue) ToPixels(extent int) int {
	if l.Unit == Percentage {
		return int(math.Round(l.Amount / 100 * float64(extent)))
	}
	return int(math.Round(l.Amount))
}

// ToFraction resolves the value as a fraction of extent.
func (l LengthValue) ToFraction(extent int) float64 {
	if l.Unit == Percentage {
		return l.Amount / 100
	}
	if extent <= 0 {
		return 0
	}
	return l.Amount / float64(extent)
}

func (l LengthValue) String() string {
	num := strconv.FormatFloat(l.Amount, 'f', -1, 64)
	if l.Relative && l.Amount >= 0 {
		num = "+" + num
	}
	if l.Unit == Percentage {
		return num + "%"
	}
	return num + "px"
}

// Set implements pflag.Value so lengths can be used directly as flags.
func (l *LengthValue) Set(s string) error {
	v, err := ParseLength(s)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Type implements pflag.Value.
func (l *LengthValue) Type() string { return "length" }

// UnmarshalYAML accepts scalars like "20px" or plain numbers.
func (l *LengthValue) UnmarshalYAML(node *yaml.Node) error {
	v, err := ParseLength(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*l = v
	return nil
}

// MarshalYAML writes the value back in its textual form.
func (l LengthValue) MarshalYAML() (interface{}, error) {
	return l.String(), nil
}

// MarshalText implements encoding.TextMarshaler for JSON output.
func (l LengthValue) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// RectDelta holds one length per edge, used for gaps and border deltas.
type RectDelta struct {
	Top    LengthValue `yaml:"top"    json:"top"`
	Right  LengthValue `yaml:"right"  json:"right"`
	Bottom LengthValue `yaml:"bottom" json:"bottom"`
	Left   LengthValue `yaml:"left"   json:"left"`
}

// UniformDelta applies the same length to every edge.
func UniformDelta(l LengthValue) RectDelta {
	return RectDelta{Top: l, Right: l, Bottom: l, Left: l}
}

// UnmarshalYAML accepts either a single length for all edges or a mapping
// with top/right/bottom/left keys. Missing keys default to zero.
func (d *RectDelta) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		v, err := ParseLength(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*d = UniformDelta(v)
		return nil
	}
	type plain RectDelta
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*d = RectDelta(p)
	return nil
}

// Pixels resolves every edge; percentages are relative to the width for
// left/right and to the height for top/bottom.
func (d RectDelta) Pixels(width, height int) (top, right, bottom, left int) {
	return d.Top.ToPixels(height), d.Right.ToPixels(width), d.Bottom.ToPixels(height), d.Left.ToPixels(width)
}

// OpacityValue is an opacity between 0 and 1, optionally relative.
type OpacityValue struct {
	Amount   float64
	Relative bool
}

// ParseOpacity parses "0.8", "80%", "+10%" or "-0.1".
func ParseOpacity(s string) (OpacityValue, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return OpacityValue{}, fmt.Errorf("invalid opacity %q: empty value", s)
	}

	var v OpacityValue
	if raw[0] == '+' || raw[0] == '-' {
		v.Relative = true
	}

	num := raw
	percent := strings.HasSuffix(raw, "%")
	if percent {
		num = strings.TrimSuffix(raw, "%")
	}
	amount, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(amount) {
		return OpacityValue{}, fmt.Errorf("invalid opacity %q: expected a fraction or percentage", s)
	}
	if percent {
		amount /= 100
	}
	if !v.Relative && (amount < 0 || amount > 1) {
		return OpacityValue{}, fmt.Errorf("invalid opacity %q: must be between 0 and 1 (or 0%% and 100%%)", s)
	}
	v.Amount = amount
	return v, nil
}

// UnmarshalYAML accepts the same forms as ParseOpacity.
func (o *OpacityValue) UnmarshalYAML(node *yaml.Node) error {
	v, err := ParseOpacity(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*o = v
	return nil
}

// Apply resolves the value against the current opacity and clamps to [0, 1].
func (o OpacityValue) Apply(current float64) float64 {
	next := o.Amount
	if o.Relative {
		next = current + o.Amount
	}
	return math.Min(math.Max(next, 0), 1)
}
