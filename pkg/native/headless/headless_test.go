package headless

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/retain/pkg/geom"
	"github.com/go-drift/retain/pkg/native"
)

func newWindow(t *testing.T, b *Backend) native.Handle {
	t.Helper()
	h, err := b.CreateWidget(native.CreateParams{
		Class: native.ClassWindow,
		Style: native.StyleOverlapped | native.StyleVisible,
		Title: "main",
		Rect:  geom.RectFromLTWH(100, 50, 416, 339),
	})
	require.NoError(t, err)
	return h
}

func newChild(t *testing.T, b *Backend, parent native.Handle, class string, style native.Style, r geom.Rect) native.Handle {
	t.Helper()
	h, err := b.CreateWidget(native.CreateParams{
		Class:  class,
		Style:  native.StyleChild | native.StyleVisible | style,
		Parent: parent,
		Rect:   r,
	})
	require.NoError(t, err)
	return h
}

func TestCreateSendsThroughHook(t *testing.T) {
	b := New()
	var got []native.Msg
	b.SetHook(func(msg native.Msg) { got = append(got, msg) })

	win := newWindow(t, b)
	require.Len(t, got, 1)
	assert.Equal(t, native.MsgCreate, got[0].Type)
	assert.Equal(t, win, got[0].Handle)
	assert.Zero(t, b.Pending(), "create is sent, not posted")
}

func TestGeometry(t *testing.T) {
	b := New()
	win := newWindow(t, b)
	btn := newChild(t, b, win, native.ClassButton, native.StylePushButton, geom.RectFromLTWH(10, 20, 80, 24))

	client, err := b.ClientRect(win)
	require.NoError(t, err)
	assert.Equal(t, geom.Rect{Right: 400, Bottom: 300}, client)

	screen, err := b.WindowRect(btn)
	require.NoError(t, err)
	assert.Equal(t, geom.RectFromLTWH(100+8+10, 50+31+20, 80, 24), screen)

	local, err := b.ScreenToClient(win, screen)
	require.NoError(t, err)
	assert.Equal(t, geom.RectFromLTWH(10, 20, 80, 24), local)

	parent, err := b.Parent(btn)
	require.NoError(t, err)
	assert.Equal(t, win, parent)
}

func TestResizeSendsClientRect(t *testing.T) {
	b := New()
	win := newWindow(t, b)
	var sizes []geom.Rect
	b.SetHook(func(msg native.Msg) {
		if msg.Type == native.MsgSize {
			sizes = append(sizes, msg.Rect)
		}
	})

	require.NoError(t, b.Resize(win, 516, 339))
	require.NoError(t, b.SetWindowRect(win, geom.RectFromLTWH(0, 0, 516, 339)))
	assert.Equal(t, []geom.Rect{{Right: 500, Bottom: 300}}, sizes, "a pure move sends nothing")
}

func TestMaximizeRestore(t *testing.T) {
	b := New()
	win := newWindow(t, b)
	require.NoError(t, b.Maximize(win))
	maximized, err := b.IsMaximized(win)
	require.NoError(t, err)
	assert.True(t, maximized)
	r, _ := b.WindowRect(win)
	assert.Equal(t, Screen, r)

	require.NoError(t, b.Restore(win))
	r, _ = b.WindowRect(win)
	assert.Equal(t, geom.RectFromLTWH(100, 50, 416, 339), r)
}

func TestBatchIsAtomic(t *testing.T) {
	b := New()
	win := newWindow(t, b)
	a := newChild(t, b, win, native.ClassStatic, 0, geom.RectFromLTWH(0, 0, 10, 10))

	batch, err := b.BeginBatch(2)
	require.NoError(t, err)
	batch.Move(a, geom.RectFromLTWH(5, 5, 10, 10))
	batch.Move(native.Handle(0xdead), geom.Rect{})
	require.ErrorIs(t, batch.Commit(), native.ErrInvalidHandle)

	info, _ := b.Widget(a)
	assert.Equal(t, geom.RectFromLTWH(0, 0, 10, 10), info.Rect)
	assert.Zero(t, b.Commits())

	batch, _ = b.BeginBatch(1)
	batch.Move(a, geom.RectFromLTWH(5, 5, 20, 10))
	b.FailNext("Commit", 1)
	require.ErrorIs(t, batch.Commit(), ErrInjected)
	require.NoError(t, batch.Commit())
	info, _ = b.Widget(a)
	assert.Equal(t, geom.RectFromLTWH(5, 5, 20, 10), info.Rect)
	assert.Equal(t, 1, b.Commits())
}

func TestDestroyCascades(t *testing.T) {
	b := New()
	win := newWindow(t, b)
	panel := newChild(t, b, win, native.ClassPanel, 0, geom.RectFromLTWH(0, 0, 100, 100))
	inner := newChild(t, b, panel, native.ClassStatic, 0, geom.RectFromLTWH(0, 0, 10, 10))

	var destroyed []native.Handle
	b.SetHook(func(msg native.Msg) {
		if msg.Type == native.MsgDestroy {
			destroyed = append(destroyed, msg.Handle)
		}
	})
	require.NoError(t, b.Destroy(panel))
	assert.Equal(t, []native.Handle{panel, inner}, destroyed)
	assert.Equal(t, 1, b.Live())

	children, err := b.Children(win)
	require.NoError(t, err)
	assert.Empty(t, children)

	_, err = b.ClassName(inner)
	assert.ErrorIs(t, err, native.ErrInvalidHandle)
}

func TestClickPostsNotification(t *testing.T) {
	b := New()
	win := newWindow(t, b)
	check := newChild(t, b, win, native.ClassButton, native.StyleCheckBox, geom.Rect{})
	r1 := newChild(t, b, win, native.ClassButton, native.StyleRadioButton, geom.Rect{})
	r2 := newChild(t, b, win, native.ClassButton, native.StyleRadioButton, geom.Rect{})

	require.NoError(t, b.Click(check))
	msg, ok := b.Peek()
	require.True(t, ok)
	assert.Equal(t, native.Msg{Type: native.MsgCommand, Handle: win, Source: check, Code: native.BNClicked}, msg)
	checked, _ := b.Checked(check)
	assert.True(t, checked)

	require.NoError(t, b.Click(r1))
	require.NoError(t, b.Click(r2))
	c1, _ := b.Checked(r1)
	c2, _ := b.Checked(r2)
	assert.False(t, c1)
	assert.True(t, c2)
}

func TestComboBox(t *testing.T) {
	b := New()
	win := newWindow(t, b)
	combo := newChild(t, b, win, native.ClassComboBox, native.StyleDropDownList, geom.Rect{})

	require.NoError(t, b.SetItems(combo, []string{"a", "b"}))
	idx, _ := b.SelectedIndex(combo)
	assert.Equal(t, -1, idx)
	assert.ErrorIs(t, b.SetSelectedIndex(combo, 2), native.ErrIndexOutOfRange)
	require.NoError(t, b.Select(combo, 1))
	text, err := b.ItemText(combo, 1)
	require.NoError(t, err)
	assert.Equal(t, "b", text)

	require.NoError(t, b.SetItems(combo, []string{"only"}))
	idx, _ = b.SelectedIndex(combo)
	assert.Equal(t, -1, idx, "selection past the end is cleared")

	_, err = b.Items(win)
	assert.ErrorIs(t, err, native.ErrUnsupported)
}

func TestCloseLastWindowQuits(t *testing.T) {
	b := New()
	win := newWindow(t, b)
	b.Close(win)
	msg, ok := b.Peek()
	require.True(t, ok)
	b.Dispatch(msg)
	assert.Zero(t, b.Live())

	msg, ok = b.Peek()
	require.True(t, ok)
	assert.Equal(t, native.MsgQuit, msg.Type)
}

func TestMeasureText(t *testing.T) {
	b := New()
	f, err := b.CreateFont("Segoe UI")
	require.NoError(t, err)
	again, _ := b.CreateFont("Segoe UI")
	assert.Equal(t, f, again)

	w, h, err := b.MeasureText(f, "abc")
	require.NoError(t, err)
	assert.Equal(t, 21, w)
	assert.Equal(t, 13, h)

	face, err := b.FontFace(f)
	require.NoError(t, err)
	assert.Equal(t, "Segoe UI", face)
}

func TestFailNext(t *testing.T) {
	b := New()
	win := newWindow(t, b)
	b.FailNext("SetText", 2)
	assert.ErrorIs(t, b.SetText(win, "x"), ErrInjected)
	assert.ErrorIs(t, b.SetText(win, "x"), ErrInjected)
	require.NoError(t, b.SetText(win, "x"))
	text, _ := b.Text(win)
	assert.Equal(t, "x", text)
}

func TestDump(t *testing.T) {
	b := New()
	win := newWindow(t, b)
	newChild(t, b, win, native.ClassButton, native.StylePushButton, geom.RectFromLTWH(1, 2, 3, 4))
	var buf bytes.Buffer
	b.Dump(&buf)
	assert.Equal(t, "RetainWindow \"main\" #0 (100,50 416x339)\n  Button \"\" #0 (1,2 3x4)\n", buf.String())
}
