package core

import (
	"fmt"

	"github.com/go-drift/retain/pkg/native"
	"github.com/go-drift/retain/pkg/props"
)

// Init counter values.
const (
	// Created means the native widget exists but, for containers, has not
	// had its first layout.
	Created = 1
	// Established is the steady state.
	Established = 2
)

// WidgetState is what the engine remembers about the widget at one path.
type WidgetState struct {
	Handle native.Handle
	// Font is the font last applied, zero for the system default.
	Font native.Font
	// Init is the initialization counter: Created, then Established.
	Init int
	// Listeners is the listener subset of the node's last view state. It
	// is only replaced by Apply renders.
	Listeners props.Set
	Kind      props.RenderKind
	Class     string
	Parent    native.Handle
	ID        int
	// Destroyed is set once the native widget disappeared without the
	// engine asking for it. The path then stays inert.
	Destroyed bool
}

func (s WidgetState) String() string {
	return fmt.Sprintf("%s %s #%d handle=%#x init=%d", s.Kind, s.Class, s.ID, uintptr(s.Handle), s.Init)
}
