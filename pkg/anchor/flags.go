package anchor

import (
	"fmt"
	"strings"
)

// Flags describes how a widget's rectangle responds to a container resize.
//
// Edge-hold flags keep the distance to a parent edge constant: both edges on
// an axis stretch the widget, one edge translates it, neither floats it by
// half the delta. Dock flags snap the widget to the current client rectangle
// and override edge-hold on the axes they touch.
type Flags uint32

const (
	Top Flags = 1 << iota
	Bottom
	Left
	Right
	DockTop
	DockBottom
	DockLeft
	DockRight
	DockTopEx
	DockBottomEx
	DockLeftEx
	DockRightEx
	// Automatic is replaced at initialization by the edge-hold flags of the
	// client quadrant containing the widget's midpoint.
	Automatic

	None    Flags = 0
	DockAll       = DockTop | DockBottom | DockLeft | DockRight
	All           = Top | Bottom | Left | Right
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{DockAll, "dock_all"},
	{All, "all"},
	{Top, "top"},
	{Bottom, "bottom"},
	{Left, "left"},
	{Right, "right"},
	{DockTop, "dock_top"},
	{DockBottom, "dock_bottom"},
	{DockLeft, "dock_left"},
	{DockRight, "dock_right"},
	{DockTopEx, "dock_top_ex"},
	{DockBottomEx, "dock_bottom_ex"},
	{DockLeftEx, "dock_left_ex"},
	{DockRightEx, "dock_right_ex"},
	{Automatic, "automatic"},
}

// Has reports whether every bit of mask is set.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}

// Any reports whether any bit of mask is set.
func (f Flags) Any(mask Flags) bool {
	return f&mask != 0
}

func (f Flags) String() string {
	if f == None {
		return "none"
	}
	var parts []string
	rest := f
	for _, fn := range flagNames {
		if rest.Has(fn.flag) {
			parts = append(parts, fn.name)
			rest &^= fn.flag
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("%#x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// ParseFlags parses a "|"-separated flag expression such as "top|left" or
// "dock_all". Names are case-insensitive; "none" and "" yield None.
func ParseFlags(s string) (Flags, error) {
	var f Flags
	for _, part := range strings.Split(s, "|") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" || name == "none" {
			continue
		}
		found := false
		for _, fn := range flagNames {
			if fn.name == name {
				f |= fn.flag
				found = true
				break
			}
		}
		if !found {
			return None, fmt.Errorf("anchor: unknown flag %q", name)
		}
	}
	return f, nil
}

// MarshalText implements encoding.TextMarshaler.
func (f Flags) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Flags) UnmarshalText(text []byte) error {
	parsed, err := ParseFlags(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
