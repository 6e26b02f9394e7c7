// Package native defines the contract between the engine and a native
// window-system backend.
//
// The backend owns real widgets (windows, buttons, edit boxes) and the
// message pump. The engine only ever talks to it through [Backend], so the
// same engine runs against a real window system, the channel bridge in
// package platform, or the in-memory backend in package headless.
//
// Every Backend method is called from the UI thread only. Implementations
// need no locking beyond what their own plumbing requires.
package native

import (
	"errors"

	"github.com/go-drift/retain/pkg/geom"
)

// Handle identifies a native widget. The zero Handle is the null/root
// sentinel: it is the parent of every top-level window.
type Handle uintptr

// Font identifies a native font object. Zero means the system default.
type Font uintptr

// Style is a native style bitmask passed at creation time.
type Style uint32

const (
	StyleChild Style = 1 << iota
	StyleVisible
	StyleTabStop
	StyleBorder
	StyleCaption
	StyleSizeBox
	StylePushButton
	StyleCheckBox
	StyleRadioButton
	StyleGroupBox
	StyleDropDownList
	StyleMultiLine

	// StyleOverlapped is the style of a resizable top-level window.
	StyleOverlapped = StyleCaption | StyleSizeBox | StyleBorder
)

// Native class names understood by every backend.
const (
	ClassWindow   = "RetainWindow"
	ClassPanel    = "RetainPanel"
	ClassButton   = "Button"
	ClassStatic   = "Static"
	ClassEdit     = "Edit"
	ClassComboBox = "ComboBox"
	ClassSizeGrip = "SizeGrip"
)

// CreateParams describes a widget to create.
type CreateParams struct {
	Class  string
	Style  Style
	Parent Handle
	ID     int
	Title  string
	// Rect is in parent client coordinates for child widgets and in screen
	// coordinates for top-level windows.
	Rect geom.Rect
}

// Batch is a deferred geometry transaction. Nothing is presented until
// Commit; a failed Commit leaves every widget where it was.
type Batch interface {
	Move(h Handle, r geom.Rect)
	Commit() error
}

// Hook is invoked with every raw native message before default processing.
type Hook func(msg Msg)

// Backend is the native window-system collaborator.
type Backend interface {
	// Init prepares the backend. A failure here is fatal for the engine.
	Init() error

	CreateWidget(p CreateParams) (Handle, error)
	Destroy(h Handle) error
	ClassName(h Handle) (string, error)
	Parent(h Handle) (Handle, error)
	// Children returns the direct native children of h in creation order.
	Children(h Handle) ([]Handle, error)

	Text(h Handle) (string, error)
	SetText(h Handle, text string) error

	CreateFont(face string) (Font, error)
	FontFace(f Font) (string, error)
	Font(h Handle) (Font, error)
	SetFont(h Handle, f Font) error
	// MeasureText returns the extent of text rendered in f.
	MeasureText(f Font, text string) (width, height int, err error)

	// WindowRect returns the outer rectangle of h in screen coordinates.
	WindowRect(h Handle) (geom.Rect, error)
	// SetWindowRect moves h. The rectangle is in parent client coordinates
	// for children and screen coordinates for top-level windows.
	SetWindowRect(h Handle, r geom.Rect) error
	// ClientRect returns the client area of h; Left and Top are always zero.
	ClientRect(h Handle) (geom.Rect, error)
	ScreenToClient(h Handle, r geom.Rect) (geom.Rect, error)
	IsMaximized(h Handle) (bool, error)
	SetVisible(h Handle, visible bool) error

	Checked(h Handle) (bool, error)
	SetChecked(h Handle, checked bool) error
	Items(h Handle) ([]string, error)
	SetItems(h Handle, items []string) error
	SelectedIndex(h Handle) (int, error)
	SetSelectedIndex(h Handle, index int) error
	ItemText(h Handle, index int) (string, error)

	BeginBatch(n int) (Batch, error)

	// SetHook installs the notification hook. Passing nil removes it.
	SetHook(hook Hook)
	// Peek removes and returns the next pending message, if any.
	Peek() (Msg, bool)
	Translate(msg Msg)
	// Dispatch delivers msg: the hook first, then default processing.
	Dispatch(msg Msg)
}

// Sentinel errors shared by backends.
var (
	// ErrInvalidHandle is returned when a handle does not name a live widget.
	ErrInvalidHandle = errors.New("native: invalid handle")
	// ErrUnsupported is returned when a widget class lacks the capability.
	ErrUnsupported = errors.New("native: operation not supported by widget class")
	// ErrIndexOutOfRange is returned by list operations given a bad index.
	ErrIndexOutOfRange = errors.New("native: index out of range")
)
