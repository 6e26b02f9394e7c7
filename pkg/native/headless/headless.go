// Package headless provides an in-memory native backend.
//
// It models a small window system faithfully enough to drive the engine
// deterministically: a widget tree with parent-relative geometry, frames
// around top-level windows, synchronous create/size/destroy notifications
// delivered through the hook (so engine re-entrancy is real), a posted
// message queue for user input, atomic geometry batches, and bitmap fonts
// from golang.org/x/image for text measurement.
//
// Tests inject native failures with FailNext.
package headless

import (
	stderrors "errors"
	"fmt"
	"slices"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/go-drift/retain/pkg/geom"
	"github.com/go-drift/retain/pkg/native"
)

// ErrInjected is returned by operations failed through FailNext.
var ErrInjected = stderrors.New("headless: injected failure")

// Frame is the non-client border of top-level windows.
type Frame struct {
	Left, Top, Right, Bottom int
}

// DefaultFrame is a caption plus thin sizing borders.
var DefaultFrame = Frame{Left: 8, Top: 31, Right: 8, Bottom: 8}

// Screen is the rectangle maximized windows fill.
var Screen = geom.RectFromLTWH(0, 0, 1920, 1080)

type widget struct {
	handle    native.Handle
	class     string
	style     native.Style
	parent    native.Handle
	id        int
	text      string
	rect      geom.Rect
	restore   geom.Rect
	font      native.Font
	checked   bool
	items     []string
	selected  int
	visible   bool
	maximized bool
	children  []native.Handle
}

// Backend is an in-memory native.Backend.
type Backend struct {
	Frame Frame

	widgets  map[native.Handle]*widget
	next     native.Handle
	fonts    map[native.Font]string
	byFace   map[string]native.Font
	nextFont native.Font
	queue    []native.Msg
	hook     native.Hook
	failures map[string]int
	initErr  error
	commits  int
	sent     []native.Msg
}

var _ native.Backend = (*Backend)(nil)

// New creates an empty backend.
func New() *Backend {
	return &Backend{
		Frame:    DefaultFrame,
		widgets:  make(map[native.Handle]*widget),
		next:     0x100,
		fonts:    make(map[native.Font]string),
		byFace:   make(map[string]native.Font),
		failures: make(map[string]int),
	}
}

// FailInit makes Init return err.
func (b *Backend) FailInit(err error) {
	b.initErr = err
}

// FailNext makes the next n calls of op fail with ErrInjected. Op names are
// Backend method names ("SetText", "WindowRect", "Commit", ...).
func (b *Backend) FailNext(op string, n int) {
	b.failures[op] += n
}

func (b *Backend) fail(op string) error {
	if b.failures[op] > 0 {
		b.failures[op]--
		return fmt.Errorf("%s: %w", op, ErrInjected)
	}
	return nil
}

func (b *Backend) lookup(h native.Handle) (*widget, error) {
	w, ok := b.widgets[h]
	if !ok {
		return nil, fmt.Errorf("%w: %#x", native.ErrInvalidHandle, uintptr(h))
	}
	return w, nil
}

// Init implements native.Backend.
func (b *Backend) Init() error {
	return b.initErr
}

// CreateWidget implements native.Backend. A create notification is sent
// through the hook before it returns.
func (b *Backend) CreateWidget(p native.CreateParams) (native.Handle, error) {
	if err := b.fail("CreateWidget"); err != nil {
		return 0, err
	}
	if p.Class == "" {
		return 0, fmt.Errorf("headless: empty class name")
	}
	var parent *widget
	if p.Parent != 0 {
		var err error
		if parent, err = b.lookup(p.Parent); err != nil {
			return 0, err
		}
	}
	b.next++
	w := &widget{
		handle:   b.next,
		class:    p.Class,
		style:    p.Style,
		parent:   p.Parent,
		id:       p.ID,
		text:     p.Title,
		rect:     p.Rect,
		selected: -1,
		visible:  p.Style&native.StyleVisible != 0,
	}
	b.widgets[w.handle] = w
	if parent != nil {
		parent.children = append(parent.children, w.handle)
	}
	b.send(native.Msg{Type: native.MsgCreate, Handle: w.handle})
	return w.handle, nil
}

// Destroy implements native.Backend. Destroy notifications are sent for h
// and then for each descendant.
func (b *Backend) Destroy(h native.Handle) error {
	if err := b.fail("Destroy"); err != nil {
		return err
	}
	w, err := b.lookup(h)
	if err != nil {
		return err
	}
	if w.parent != 0 {
		if p, ok := b.widgets[w.parent]; ok {
			p.children = slices.DeleteFunc(p.children, func(c native.Handle) bool { return c == h })
		}
	}
	b.destroyTree(w)
	return nil
}

func (b *Backend) destroyTree(w *widget) {
	b.send(native.Msg{Type: native.MsgDestroy, Handle: w.handle})
	for _, c := range slices.Clone(w.children) {
		if cw, ok := b.widgets[c]; ok {
			b.destroyTree(cw)
		}
	}
	delete(b.widgets, w.handle)
}

// ClassName implements native.Backend.
func (b *Backend) ClassName(h native.Handle) (string, error) {
	if err := b.fail("ClassName"); err != nil {
		return "", err
	}
	w, err := b.lookup(h)
	if err != nil {
		return "", err
	}
	return w.class, nil
}

// Parent implements native.Backend.
func (b *Backend) Parent(h native.Handle) (native.Handle, error) {
	if err := b.fail("Parent"); err != nil {
		return 0, err
	}
	w, err := b.lookup(h)
	if err != nil {
		return 0, err
	}
	return w.parent, nil
}

// Children implements native.Backend.
func (b *Backend) Children(h native.Handle) ([]native.Handle, error) {
	if err := b.fail("Children"); err != nil {
		return nil, err
	}
	w, err := b.lookup(h)
	if err != nil {
		return nil, err
	}
	return slices.Clone(w.children), nil
}

// Text implements native.Backend.
func (b *Backend) Text(h native.Handle) (string, error) {
	if err := b.fail("Text"); err != nil {
		return "", err
	}
	w, err := b.lookup(h)
	if err != nil {
		return "", err
	}
	return w.text, nil
}

// SetText implements native.Backend.
func (b *Backend) SetText(h native.Handle, text string) error {
	if err := b.fail("SetText"); err != nil {
		return err
	}
	w, err := b.lookup(h)
	if err != nil {
		return err
	}
	w.text = text
	return nil
}

// CreateFont implements native.Backend. Faces are interned by name.
func (b *Backend) CreateFont(face string) (native.Font, error) {
	if err := b.fail("CreateFont"); err != nil {
		return 0, err
	}
	if f, ok := b.byFace[face]; ok {
		return f, nil
	}
	b.nextFont++
	b.fonts[b.nextFont] = face
	b.byFace[face] = b.nextFont
	return b.nextFont, nil
}

// FontFace implements native.Backend.
func (b *Backend) FontFace(f native.Font) (string, error) {
	if f == 0 {
		return "", nil
	}
	face, ok := b.fonts[f]
	if !ok {
		return "", fmt.Errorf("headless: unknown font %d", f)
	}
	return face, nil
}

// Font implements native.Backend.
func (b *Backend) Font(h native.Handle) (native.Font, error) {
	if err := b.fail("Font"); err != nil {
		return 0, err
	}
	w, err := b.lookup(h)
	if err != nil {
		return 0, err
	}
	return w.font, nil
}

// SetFont implements native.Backend.
func (b *Backend) SetFont(h native.Handle, f native.Font) error {
	if err := b.fail("SetFont"); err != nil {
		return err
	}
	w, err := b.lookup(h)
	if err != nil {
		return err
	}
	if _, ok := b.fonts[f]; f != 0 && !ok {
		return fmt.Errorf("headless: unknown font %d", f)
	}
	w.font = f
	return nil
}

// face resolves a native font to a measurable face. Every face name maps
// to the same 7x13 bitmap font.
func (b *Backend) face(native.Font) font.Face {
	return basicfont.Face7x13
}

// MeasureText implements native.Backend.
func (b *Backend) MeasureText(f native.Font, text string) (int, int, error) {
	if err := b.fail("MeasureText"); err != nil {
		return 0, 0, err
	}
	face := b.face(f)
	width := font.MeasureString(face, text).Ceil()
	height := face.Metrics().Height.Ceil()
	return width, height, nil
}

func (b *Backend) isTopLevel(w *widget) bool {
	return w.parent == 0
}

// clientOrigin returns the screen position of the client area of w.
func (b *Backend) clientOrigin(w *widget) geom.Point {
	if b.isTopLevel(w) {
		return geom.Point{X: w.rect.Left + b.Frame.Left, Y: w.rect.Top + b.Frame.Top}
	}
	o := geom.Point{X: w.rect.Left, Y: w.rect.Top}
	if p, ok := b.widgets[w.parent]; ok {
		po := b.clientOrigin(p)
		o.X += po.X
		o.Y += po.Y
	}
	return o
}

func (b *Backend) clientRect(w *widget) geom.Rect {
	width, height := w.rect.Width(), w.rect.Height()
	if b.isTopLevel(w) {
		width -= b.Frame.Left + b.Frame.Right
		height -= b.Frame.Top + b.Frame.Bottom
	}
	return geom.Rect{Right: max(width, 0), Bottom: max(height, 0)}
}

// WindowRect implements native.Backend.
func (b *Backend) WindowRect(h native.Handle) (geom.Rect, error) {
	if err := b.fail("WindowRect"); err != nil {
		return geom.Rect{}, err
	}
	w, err := b.lookup(h)
	if err != nil {
		return geom.Rect{}, err
	}
	if b.isTopLevel(w) {
		return w.rect, nil
	}
	p, err := b.lookup(w.parent)
	if err != nil {
		return geom.Rect{}, err
	}
	o := b.clientOrigin(p)
	return w.rect.Translate(o.X, o.Y), nil
}

// SetWindowRect implements native.Backend. A size notification is sent
// when the size changes.
func (b *Backend) SetWindowRect(h native.Handle, r geom.Rect) error {
	if err := b.fail("SetWindowRect"); err != nil {
		return err
	}
	w, err := b.lookup(h)
	if err != nil {
		return err
	}
	b.move(w, r)
	return nil
}

func (b *Backend) move(w *widget, r geom.Rect) {
	resized := w.rect.Width() != r.Width() || w.rect.Height() != r.Height()
	w.rect = r
	if resized {
		b.send(native.Msg{Type: native.MsgSize, Handle: w.handle, Rect: b.clientRect(w)})
	}
}

// ClientRect implements native.Backend.
func (b *Backend) ClientRect(h native.Handle) (geom.Rect, error) {
	if err := b.fail("ClientRect"); err != nil {
		return geom.Rect{}, err
	}
	w, err := b.lookup(h)
	if err != nil {
		return geom.Rect{}, err
	}
	return b.clientRect(w), nil
}

// ScreenToClient implements native.Backend.
func (b *Backend) ScreenToClient(h native.Handle, r geom.Rect) (geom.Rect, error) {
	if err := b.fail("ScreenToClient"); err != nil {
		return geom.Rect{}, err
	}
	w, err := b.lookup(h)
	if err != nil {
		return geom.Rect{}, err
	}
	o := b.clientOrigin(w)
	return r.Translate(-o.X, -o.Y), nil
}

// IsMaximized implements native.Backend.
func (b *Backend) IsMaximized(h native.Handle) (bool, error) {
	if err := b.fail("IsMaximized"); err != nil {
		return false, err
	}
	w, err := b.lookup(h)
	if err != nil {
		return false, err
	}
	return w.maximized, nil
}

// SetVisible implements native.Backend.
func (b *Backend) SetVisible(h native.Handle, visible bool) error {
	if err := b.fail("SetVisible"); err != nil {
		return err
	}
	w, err := b.lookup(h)
	if err != nil {
		return err
	}
	w.visible = visible
	return nil
}

func isCheckable(w *widget) bool {
	return w.class == native.ClassButton && w.style&(native.StyleCheckBox|native.StyleRadioButton) != 0
}

// Checked implements native.Backend.
func (b *Backend) Checked(h native.Handle) (bool, error) {
	if err := b.fail("Checked"); err != nil {
		return false, err
	}
	w, err := b.lookup(h)
	if err != nil {
		return false, err
	}
	if !isCheckable(w) {
		return false, native.ErrUnsupported
	}
	return w.checked, nil
}

// SetChecked implements native.Backend.
func (b *Backend) SetChecked(h native.Handle, checked bool) error {
	if err := b.fail("SetChecked"); err != nil {
		return err
	}
	w, err := b.lookup(h)
	if err != nil {
		return err
	}
	if !isCheckable(w) {
		return native.ErrUnsupported
	}
	w.checked = checked
	return nil
}

func (b *Backend) list(h native.Handle) (*widget, error) {
	w, err := b.lookup(h)
	if err != nil {
		return nil, err
	}
	if w.class != native.ClassComboBox {
		return nil, native.ErrUnsupported
	}
	return w, nil
}

// Items implements native.Backend.
func (b *Backend) Items(h native.Handle) ([]string, error) {
	if err := b.fail("Items"); err != nil {
		return nil, err
	}
	w, err := b.list(h)
	if err != nil {
		return nil, err
	}
	return slices.Clone(w.items), nil
}

// SetItems implements native.Backend. The selection is cleared when it no
// longer points at an item.
func (b *Backend) SetItems(h native.Handle, items []string) error {
	if err := b.fail("SetItems"); err != nil {
		return err
	}
	w, err := b.list(h)
	if err != nil {
		return err
	}
	w.items = slices.Clone(items)
	if w.selected >= len(w.items) {
		w.selected = -1
	}
	return nil
}

// SelectedIndex implements native.Backend. It returns -1 for no selection.
func (b *Backend) SelectedIndex(h native.Handle) (int, error) {
	if err := b.fail("SelectedIndex"); err != nil {
		return 0, err
	}
	w, err := b.list(h)
	if err != nil {
		return 0, err
	}
	return w.selected, nil
}

// SetSelectedIndex implements native.Backend.
func (b *Backend) SetSelectedIndex(h native.Handle, index int) error {
	if err := b.fail("SetSelectedIndex"); err != nil {
		return err
	}
	w, err := b.list(h)
	if err != nil {
		return err
	}
	if index < -1 || index >= len(w.items) {
		return native.ErrIndexOutOfRange
	}
	w.selected = index
	return nil
}

// ItemText implements native.Backend.
func (b *Backend) ItemText(h native.Handle, index int) (string, error) {
	if err := b.fail("ItemText"); err != nil {
		return "", err
	}
	w, err := b.list(h)
	if err != nil {
		return "", err
	}
	if index < 0 || index >= len(w.items) {
		return "", native.ErrIndexOutOfRange
	}
	return w.items[index], nil
}
