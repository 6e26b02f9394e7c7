package anchor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/retain/pkg/errors"
	"github.com/go-drift/retain/pkg/geom"
	"github.com/go-drift/retain/pkg/native"
	"github.com/go-drift/retain/pkg/native/headless"
)

// fixture is a 400x300 client window on the headless backend.
type fixture struct {
	b    *headless.Backend
	win  native.Handle
	errs *errors.Collector
	m    *Map
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	b := headless.New()
	win, err := b.CreateWidget(native.CreateParams{
		Class: native.ClassWindow,
		Style: native.StyleOverlapped | native.StyleVisible,
		Rect:  geom.RectFromLTWH(0, 0, 416, 339),
	})
	require.NoError(t, err)
	errs := &errors.Collector{}
	return &fixture{b: b, win: win, errs: errs, m: NewMap(b, win, errs)}
}

func (f *fixture) child(t *testing.T, r geom.Rect) native.Handle {
	t.Helper()
	h, err := f.b.CreateWidget(native.CreateParams{
		Class:  native.ClassStatic,
		Style:  native.StyleChild | native.StyleVisible,
		Parent: f.win,
		Rect:   r,
	})
	require.NoError(t, err)
	return h
}

func (f *fixture) add(t *testing.T, r geom.Rect, flags Flags) native.Handle {
	t.Helper()
	h := f.child(t, r)
	f.m.Add(f.m.Len()+1, h, flags)
	return h
}

// resize grows the client area by (dx, dy) and re-applies anchors.
func (f *fixture) resize(t *testing.T, dx, dy int) {
	t.Helper()
	outer, err := f.b.WindowRect(f.win)
	require.NoError(t, err)
	require.NoError(t, f.b.Resize(f.win, outer.Width()+dx, outer.Height()+dy))
	f.m.HandleAnchors(nil)
}

func (f *fixture) rect(t *testing.T, h native.Handle) geom.Rect {
	t.Helper()
	info, ok := f.b.Widget(h)
	require.True(t, ok)
	return info.Rect
}

func TestEdgeHolds(t *testing.T) {
	start := geom.RectFromLTWH(40, 30, 100, 50)
	tests := []struct {
		name  string
		flags Flags
		want  geom.Rect
	}{
		{"top left stays", Top | Left, start},
		{"left right stretches", Top | Left | Right, geom.RectFromLTWH(40, 30, 200, 50)},
		{"right translates", Top | Right, geom.RectFromLTWH(140, 30, 100, 50)},
		{"all stretches both", All, geom.RectFromLTWH(40, 30, 200, 110)},
		{"bottom alone translates and floats", Bottom, geom.RectFromLTWH(90, 90, 100, 50)},
		{"none floats", None, geom.RectFromLTWH(90, 60, 100, 50)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			h := f.add(t, start, tt.flags)
			require.NoError(t, f.m.Initialize(Options{}))
			f.resize(t, 100, 60)
			assert.Equal(t, tt.want, f.rect(t, h))
			assert.Empty(t, f.errs.Errors)
		})
	}
}

func TestDocks(t *testing.T) {
	start := geom.RectFromLTWH(40, 30, 100, 50)
	tests := []struct {
		name  string
		flags Flags
		want  geom.Rect
	}{
		{"dock all fills", DockAll, geom.Rect{Right: 500, Bottom: 360}},
		{"dock top", DockTop, geom.Rect{Right: 500, Bottom: 50}},
		{"dock bottom", DockBottom, geom.Rect{Top: 310, Right: 500, Bottom: 360}},
		{"dock left", DockLeft, geom.Rect{Right: 100, Bottom: 360}},
		{"dock right", DockRight, geom.Rect{Left: 400, Right: 500, Bottom: 360}},
		{"dock wins over hold", DockLeft | Right | Bottom, geom.Rect{Right: 100, Bottom: 360}},
		{"left ex snaps one edge", DockLeftEx | Top, geom.Rect{Top: 30, Right: 140, Bottom: 80}},
		{"right ex snaps one edge", DockRightEx | Top, geom.Rect{Left: 40, Top: 30, Right: 500, Bottom: 80}},
		{"bottom ex", DockBottomEx | Left, geom.Rect{Left: 40, Top: 30, Right: 140, Bottom: 360}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			h := f.add(t, start, tt.flags)
			require.NoError(t, f.m.Initialize(Options{}))
			f.resize(t, 100, 60)
			assert.Equal(t, tt.want, f.rect(t, h))
		})
	}
}

func TestFloatKeepsFraction(t *testing.T) {
	f := newFixture(t)
	h := f.add(t, geom.RectFromLTWH(10, 10, 20, 20), Top)
	require.NoError(t, f.m.Initialize(Options{}))

	f.resize(t, 1, 0)
	e, ok := f.m.Entry(h)
	require.True(t, ok)
	assert.InDelta(t, 10.5, e.Rect.Left, 1e-9)

	f.resize(t, 1, 0)
	e, _ = f.m.Entry(h)
	assert.InDelta(t, 11.0, e.Rect.Left, 1e-9)
	assert.Equal(t, geom.RectFromLTWH(11, 10, 20, 20), f.rect(t, h))
}

func TestShrinkThenGrowRoundTrips(t *testing.T) {
	f := newFixture(t)
	start := geom.RectFromLTWH(40, 30, 100, 50)
	h := f.add(t, start, Left|Right|Bottom)
	require.NoError(t, f.m.Initialize(Options{}))

	f.resize(t, -50, -20)
	assert.Equal(t, geom.RectFromLTWH(40, 10, 50, 50), f.rect(t, h))
	dx, dy := f.m.Delta()
	assert.Equal(t, -50, dx)
	assert.Equal(t, -20, dy)
	assert.Equal(t, BorderRight|BorderBottom, f.m.Changed())

	f.resize(t, 50, 20)
	assert.Equal(t, start, f.rect(t, h))
}

func TestAutomaticResolvesQuadrant(t *testing.T) {
	f := newFixture(t)
	topLeft := f.add(t, geom.RectFromLTWH(10, 10, 20, 20), Automatic)
	bottomRight := f.add(t, geom.RectFromLTWH(300, 250, 20, 20), Automatic)
	require.NoError(t, f.m.Initialize(Options{}))

	e, _ := f.m.Entry(topLeft)
	assert.Equal(t, Top|Left, e.Flags)
	e, _ = f.m.Entry(bottomRight)
	assert.Equal(t, Bottom|Right, e.Flags)
}

func TestAddAfterInitializeResolves(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.m.Initialize(Options{}))
	h := f.add(t, geom.RectFromLTWH(350, 10, 20, 20), Automatic)

	e, ok := f.m.Entry(h)
	require.True(t, ok)
	assert.Equal(t, Top|Right, e.Flags)
	assert.Equal(t, geom.RectFromLTWH(350, 10, 20, 20).Float(), e.Rect)
}

func TestAutoDiscover(t *testing.T) {
	f := newFixture(t)
	known := f.add(t, geom.RectFromLTWH(0, 0, 10, 10), Top|Left)
	stray := f.child(t, geom.RectFromLTWH(20, 0, 10, 10))
	require.NoError(t, f.m.Initialize(Options{AutoDiscover: true, DefaultFlags: Right}))

	assert.Equal(t, 2, f.m.Len())
	e, ok := f.m.Entry(stray)
	require.True(t, ok)
	assert.Equal(t, DiscoveredID, e.ID)
	assert.Equal(t, Right, e.Flags)
	e, _ = f.m.Entry(known)
	assert.Equal(t, 1, e.ID)
}

func TestSizeGrip(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.m.Initialize(Options{SizeGrip: true}))
	grip := f.m.Grip()
	require.NotZero(t, grip)

	info, _ := f.b.Widget(grip)
	assert.Equal(t, native.ClassSizeGrip, info.Class)
	assert.Equal(t, geom.RectFromLTWH(384, 284, 16, 16), info.Rect)

	require.NoError(t, f.b.Maximize(f.win))
	f.m.HandleAnchors(nil)
	info, _ = f.b.Widget(grip)
	assert.False(t, info.Visible, "grip hides while maximized")
	assert.Equal(t, geom.RectFromLTWH(1904-16, 1041-16, 16, 16), info.Rect)

	require.NoError(t, f.b.Restore(f.win))
	f.m.HandleAnchors(nil)
	info, _ = f.b.Widget(grip)
	assert.True(t, info.Visible)
	assert.Equal(t, geom.RectFromLTWH(384, 284, 16, 16), info.Rect)
}

func TestFitParent(t *testing.T) {
	f := newFixture(t)
	f.add(t, geom.RectFromLTWH(10, 10, 90, 30), Top|Left)
	f.add(t, geom.RectFromLTWH(10, 50, 190, 30), Top|Left)
	require.NoError(t, f.m.Initialize(Options{FitParent: true}))

	client, err := f.b.ClientRect(f.win)
	require.NoError(t, err)
	assert.Equal(t, geom.Rect{Right: 200, Bottom: 80}, client)
	assert.Equal(t, client, f.m.Client())
}

func TestFitParentWithGrip(t *testing.T) {
	f := newFixture(t)
	f.add(t, geom.RectFromLTWH(10, 10, 190, 70), Top|Left)
	require.NoError(t, f.m.Initialize(Options{FitParent: true, SizeGrip: true}))

	info, _ := f.b.Widget(f.m.Grip())
	assert.Equal(t, geom.RectFromLTWH(184, 64, 16, 16), info.Rect, "grip sits in the fitted corner")
}

func TestWidgetQueryFailureSkipsOnlyThatWidget(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, geom.RectFromLTWH(0, 0, 10, 10), Right)
	b := f.add(t, geom.RectFromLTWH(0, 20, 10, 10), Right)
	require.NoError(t, f.m.Initialize(Options{}))

	outer, _ := f.b.WindowRect(f.win)
	require.NoError(t, f.b.Resize(f.win, outer.Width()+50, outer.Height()))
	f.b.FailNext("WindowRect", 1)
	f.m.HandleAnchors(nil)

	assert.Equal(t, geom.RectFromLTWH(0, 0, 10, 10), f.rect(t, a))
	assert.Equal(t, geom.RectFromLTWH(50, 20, 10, 10), f.rect(t, b))
	assert.Equal(t, []errors.ErrorKind{errors.KindLayout}, f.errs.Kinds())
}

func TestCommitFailureRetriesWholeDelta(t *testing.T) {
	f := newFixture(t)
	h := f.add(t, geom.RectFromLTWH(0, 0, 10, 10), Right)
	require.NoError(t, f.m.Initialize(Options{}))

	f.b.FailNext("Commit", 1)
	f.resize(t, 50, 0)
	assert.Equal(t, geom.RectFromLTWH(0, 0, 10, 10), f.rect(t, h))
	assert.Equal(t, []errors.ErrorKind{errors.KindLayout}, f.errs.Kinds())

	f.m.HandleAnchors(nil)
	assert.Equal(t, geom.RectFromLTWH(50, 0, 10, 10), f.rect(t, h))
}

func TestHandleAnchorsBeforeInitialize(t *testing.T) {
	f := newFixture(t)
	h := f.add(t, geom.RectFromLTWH(0, 0, 10, 10), Right)
	f.resize(t, 50, 0)
	assert.Equal(t, geom.RectFromLTWH(0, 0, 10, 10), f.rect(t, h))
	assert.Zero(t, f.b.Commits())
}

func TestInitializeFailure(t *testing.T) {
	f := newFixture(t)
	f.b.FailNext("ClientRect", 1)
	require.Error(t, f.m.Initialize(Options{}))
	assert.False(t, f.m.Initialized())
}

func TestRegistry(t *testing.T) {
	f := newFixture(t)
	r := NewRegistry(f.b, f.errs)
	h := f.child(t, geom.RectFromLTWH(0, 0, 10, 10))

	r.Register(0, 1, f.win, All)
	assert.Zero(t, r.Len(), "top-level windows are not managed")

	r.Register(f.win, 1, h, Right)
	m, ok := r.Lookup(f.win)
	require.True(t, ok)
	assert.Equal(t, 1, m.Len())
	assert.False(t, r.HandleResize(f.win, geom.Rect{Right: 450, Bottom: 300}))

	require.NoError(t, m.Initialize(Options{}))
	assert.True(t, r.HandleResize(f.win, geom.Rect{Right: 450, Bottom: 300}))
	assert.Equal(t, geom.RectFromLTWH(50, 0, 10, 10), f.rect(t, h))

	r.Unregister(h)
	assert.Zero(t, m.Len())
	r.Unregister(f.win)
	_, ok = r.Lookup(f.win)
	assert.False(t, ok)
}

func TestFlagsText(t *testing.T) {
	tests := []struct {
		in   string
		want Flags
		str  string
	}{
		{"", None, "none"},
		{"none", None, "none"},
		{"top|left", Top | Left, "top|left"},
		{"Left | TOP", Top | Left, "top|left"},
		{"dock_all", DockAll, "dock_all"},
		{"top|bottom|left|right", All, "all"},
		{"automatic|dock_left_ex", Automatic | DockLeftEx, "dock_left_ex|automatic"},
	}
	for _, tt := range tests {
		got, err := ParseFlags(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.str, got.String(), tt.in)
	}

	_, err := ParseFlags("top|sideways")
	assert.Error(t, err)

	var f Flags
	require.NoError(t, f.UnmarshalText([]byte("right|bottom")))
	text, _ := f.MarshalText()
	assert.Equal(t, "bottom|right", string(text))
}
