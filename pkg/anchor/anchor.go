// Package anchor implements constraint layout for native child widgets.
//
// Each container owns a [Map] of the widgets placed in its client area,
// together with their anchor [Flags]. Whenever the container's client
// rectangle changes, [Map.HandleAnchors] recomputes every widget's rectangle
// from the accumulated delta and applies all of them in one deferred native
// transaction, so no intermediate layout is ever presented.
//
// A Map is touched only from the UI thread. Auto-discovery enumerates the
// native children first and mutates the map afterwards, so it never runs
// from inside a backend enumeration callback.
package anchor

import (
	"fmt"

	"cogentcore.org/core/base/keylist"

	"github.com/go-drift/retain/pkg/errors"
	"github.com/go-drift/retain/pkg/geom"
	"github.com/go-drift/retain/pkg/native"
)

// DiscoveredID is the control id given to widgets found by auto-discovery.
const DiscoveredID = -1

// GripID is the control id of the resize grip.
const GripID = -2

// Border is a bitmask of client-rectangle borders.
type Border uint8

const (
	BorderLeft Border = 1 << iota
	BorderTop
	BorderRight
	BorderBottom
)

// Entry is one managed widget.
type Entry struct {
	ID     int
	Flags  Flags
	Handle native.Handle
	// Rect is the tracked rectangle in parent client coordinates. It keeps
	// fractional positions produced by floating widgets.
	Rect geom.RectF

	resolved bool
}

// Options control Map initialization.
type Options struct {
	// AutoDiscover adds native children that were never registered, using
	// DefaultFlags.
	AutoDiscover bool
	DefaultFlags Flags
	// SizeGrip inserts a resize grip in the bottom-right corner.
	SizeGrip bool
	GripSize int
	// FitParent resizes the parent so its client area exactly holds the
	// union of every widget's extent.
	FitParent bool
}

// DefaultGripSize is used when Options.GripSize is zero.
const DefaultGripSize = 16

// Map is the anchor layout of one container.
type Map struct {
	backend native.Backend
	errs    errors.ErrorHandler
	parent  native.Handle

	entries keylist.List[native.Handle, *Entry]

	initialized bool
	prev        geom.Rect
	cur         geom.Rect
	dx, dy      int
	changed     Border
	grip        native.Handle
}

// NewMap creates an uninitialized map for parent.
func NewMap(backend native.Backend, parent native.Handle, errs errors.ErrorHandler) *Map {
	return &Map{backend: backend, parent: parent, errs: errs}
}

// Parent returns the container handle.
func (m *Map) Parent() native.Handle {
	return m.parent
}

// Initialized reports whether Initialize has completed.
func (m *Map) Initialized() bool {
	return m.initialized
}

// Client returns the tracked client rectangle.
func (m *Map) Client() geom.Rect {
	return m.cur
}

// Delta returns the client extent change computed by the last PreProcess.
func (m *Map) Delta() (dx, dy int) {
	return m.dx, m.dy
}

// Changed returns the borders that moved in the last PreProcess.
func (m *Map) Changed() Border {
	return m.changed
}

// Grip returns the resize grip handle, or zero.
func (m *Map) Grip() native.Handle {
	return m.grip
}

// Len returns the number of managed widgets.
func (m *Map) Len() int {
	return m.entries.Len()
}

// Entries returns a snapshot of the managed widgets in registration order.
func (m *Map) Entries() []Entry {
	out := make([]Entry, 0, m.entries.Len())
	for _, e := range m.entries.Values {
		out = append(out, *e)
	}
	return out
}

// Entry returns the entry managing h.
func (m *Map) Entry(h native.Handle) (Entry, bool) {
	e, ok := m.entries.AtTry(h)
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Add registers h. Registering a handle twice replaces its flags. Widgets
// added after initialization are resolved immediately.
func (m *Map) Add(id int, h native.Handle, flags Flags) {
	if e, ok := m.entries.AtTry(h); ok {
		e.ID = id
		e.Flags = flags
		return
	}
	e := &Entry{ID: id, Handle: h, Flags: flags}
	m.entries.Set(h, e)
	if m.initialized {
		m.resolve(e, m.cur)
	}
}

// Remove unregisters h.
func (m *Map) Remove(h native.Handle) bool {
	if h == m.grip {
		m.grip = 0
	}
	return m.entries.DeleteByKey(h)
}

// Initialize captures the parent geometry and resolves every registered
// widget into client coordinates.
func (m *Map) Initialize(opts Options) error {
	client, err := m.backend.ClientRect(m.parent)
	if err != nil {
		return fmt.Errorf("anchor: client rect of %#x: %w", m.parent, err)
	}

	if opts.AutoDiscover {
		m.discover(opts.DefaultFlags)
	}
	for _, e := range m.entries.Values {
		m.resolve(e, client)
	}

	if opts.FitParent {
		if fitted, ok := m.fitParent(client); ok {
			client = fitted
		}
	}
	if opts.SizeGrip && m.grip == 0 {
		m.insertGrip(client, opts.GripSize)
	}

	m.prev = client
	m.cur = client
	m.dx, m.dy = 0, 0
	m.initialized = true
	return nil
}

// discover registers native children nobody registered. The child list is
// fully collected before the map is touched.
func (m *Map) discover(flags Flags) {
	children, err := m.backend.Children(m.parent)
	if err != nil {
		m.report("anchor.discover", m.parent, err)
		return
	}
	for _, child := range children {
		if _, ok := m.entries.AtTry(child); ok {
			continue
		}
		m.entries.Set(child, &Entry{ID: DiscoveredID, Handle: child, Flags: flags})
	}
}

// resolve converts the widget's screen rectangle into client coordinates
// and resolves Automatic flags against client.
func (m *Map) resolve(e *Entry, client geom.Rect) bool {
	screen, err := m.backend.WindowRect(e.Handle)
	if err != nil {
		m.report("anchor.resolve", e.Handle, err)
		return false
	}
	local, err := m.backend.ScreenToClient(m.parent, screen)
	if err != nil {
		m.report("anchor.resolve", e.Handle, err)
		return false
	}
	e.Rect = local.Float()
	e.Flags = resolveAutomatic(e.Flags, e.Rect, client)
	e.resolved = true
	return true
}

func resolveAutomatic(f Flags, r geom.RectF, client geom.Rect) Flags {
	if !f.Has(Automatic) {
		return f
	}
	f &^= Automatic
	cx, cy := r.Center()
	if cx < float64(client.Left)+float64(client.Width())/2 {
		f |= Left
	} else {
		f |= Right
	}
	if cy < float64(client.Top)+float64(client.Height())/2 {
		f |= Top
	} else {
		f |= Bottom
	}
	return f
}

func (m *Map) fitParent(client geom.Rect) (geom.Rect, bool) {
	var extent geom.Rect
	for _, e := range m.entries.Values {
		if e.resolved {
			extent = extent.Union(e.Rect.Round())
		}
	}
	if extent.IsEmpty() {
		return client, false
	}

	outer, err := m.backend.WindowRect(m.parent)
	if err != nil {
		m.report("anchor.fitParent", m.parent, err)
		return client, false
	}
	frameW := outer.Width() - client.Width()
	frameH := outer.Height() - client.Height()

	// Children are placed in their parent's client coordinates.
	if gp, err := m.backend.Parent(m.parent); err == nil && gp != 0 {
		if outer, err = m.backend.ScreenToClient(gp, outer); err != nil {
			m.report("anchor.fitParent", m.parent, err)
			return client, false
		}
	}

	target := geom.RectFromLTWH(outer.Left, outer.Top, extent.Right+frameW, extent.Bottom+frameH)
	if err := m.backend.SetWindowRect(m.parent, target); err != nil {
		m.report("anchor.fitParent", m.parent, err)
		return client, false
	}
	fitted, err := m.backend.ClientRect(m.parent)
	if err != nil {
		m.report("anchor.fitParent", m.parent, err)
		return client, false
	}
	return fitted, true
}

func (m *Map) insertGrip(client geom.Rect, size int) {
	if size <= 0 {
		size = DefaultGripSize
	}
	r := geom.RectFromLTWH(client.Right-size, client.Bottom-size, size, size)
	h, err := m.backend.CreateWidget(native.CreateParams{
		Class:  native.ClassSizeGrip,
		Style:  native.StyleChild | native.StyleVisible,
		Parent: m.parent,
		ID:     GripID,
		Rect:   r,
	})
	if err != nil {
		m.report("anchor.insertGrip", m.parent, err)
		return
	}
	m.grip = h
	m.entries.Set(h, &Entry{ID: GripID, Handle: h, Flags: Bottom | Right, Rect: r.Float(), resolved: true})
}

// PreProcess records which borders moved since the previous call and the
// signed change of the client extent.
func (m *Map) PreProcess(client geom.Rect) {
	m.changed = 0
	if client.Left != m.prev.Left {
		m.changed |= BorderLeft
	}
	if client.Top != m.prev.Top {
		m.changed |= BorderTop
	}
	if client.Right != m.prev.Right {
		m.changed |= BorderRight
	}
	if client.Bottom != m.prev.Bottom {
		m.changed |= BorderBottom
	}
	m.dx = client.Width() - m.prev.Width()
	m.dy = client.Height() - m.prev.Height()
	m.cur = geom.Rect{
		Left:   client.Left,
		Top:    client.Top,
		Right:  client.Left + m.prev.Width() + m.dx,
		Bottom: client.Top + m.prev.Height() + m.dy,
	}
}

// PostProcess makes the current client rectangle the baseline of the next
// call.
func (m *Map) PostProcess() {
	m.prev = m.cur
}

// HandleAnchors re-applies the layout. With a nil client the parent's
// client rectangle is queried. It does nothing before Initialize.
func (m *Map) HandleAnchors(client *geom.Rect) {
	if !m.initialized {
		return
	}
	var rc geom.Rect
	if client != nil {
		rc = *client
	} else {
		var err error
		if rc, err = m.backend.ClientRect(m.parent); err != nil {
			m.report("anchor.HandleAnchors", m.parent, err)
			return
		}
	}

	m.PreProcess(rc)
	m.updateGrip()

	batch, err := m.backend.BeginBatch(m.entries.Len())
	if err != nil {
		m.report("anchor.HandleAnchors", m.parent, err)
		return
	}

	type move struct {
		entry *Entry
		rect  geom.RectF
	}
	moves := make([]move, 0, m.entries.Len())
	for _, e := range m.entries.Values {
		if !e.resolved && !m.resolve(e, m.prev) {
			continue
		}
		if _, err := m.backend.WindowRect(e.Handle); err != nil {
			m.report("anchor.HandleAnchors", e.Handle, err)
			continue
		}
		r := Layout(e.Flags, e.Rect, m.cur, m.dx, m.dy)
		batch.Move(e.Handle, r.Round())
		moves = append(moves, move{entry: e, rect: r})
	}

	// Nothing moved on a failed commit, so the baseline stays put and the
	// whole delta is retried next call.
	if err := batch.Commit(); err != nil {
		m.report("anchor.HandleAnchors", m.parent, err)
		return
	}
	for _, mv := range moves {
		mv.entry.Rect = mv.rect
	}
	m.PostProcess()
}

func (m *Map) updateGrip() {
	if m.grip == 0 {
		return
	}
	maximized, err := m.backend.IsMaximized(m.parent)
	if err != nil {
		m.report("anchor.updateGrip", m.parent, err)
		return
	}
	if err := m.backend.SetVisible(m.grip, !maximized); err != nil {
		m.report("anchor.updateGrip", m.grip, err)
	}
}

func (m *Map) report(op string, h native.Handle, err error) {
	errors.Report(m.errs, &errors.EngineError{
		Op:     op,
		Kind:   errors.KindLayout,
		Handle: uintptr(h),
		Err:    err,
	})
}
