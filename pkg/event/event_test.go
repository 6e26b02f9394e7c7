package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/retain/pkg/errors"
	"github.com/go-drift/retain/pkg/geom"
	"github.com/go-drift/retain/pkg/native"
	"github.com/go-drift/retain/pkg/native/headless"
	"github.com/go-drift/retain/pkg/props"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		msg  native.Msg
		want props.Tag
		ok   bool
	}{
		{native.Msg{Type: native.MsgCreate}, props.TagOnCreate, true},
		{native.Msg{Type: native.MsgSize}, props.TagOnResize, true},
		{native.Msg{Type: native.MsgDestroy}, props.TagOnDestroy, true},
		{native.Msg{Type: native.MsgCommand, Code: native.BNClicked}, props.TagOnClick, true},
		{native.Msg{Type: native.MsgCommand, Code: native.CBNSelChange}, props.TagOnChange, true},
		{native.Msg{Type: native.MsgCommand, Code: native.LBNSelChange}, props.TagOnChange, true},
		{native.Msg{Type: native.MsgCommand, Code: native.ENChange}, props.TagOnChange, true},
		{native.Msg{Type: native.MsgCommand, Code: native.ENSetFocus}, 0, false},
		{native.Msg{Type: native.MsgKeyDown, Key: native.KeyReturn}, props.TagOnClick, true},
		{native.Msg{Type: native.MsgKeyDown, Key: native.KeySpace}, props.TagOnClick, true},
		{native.Msg{Type: native.MsgKeyDown, Key: native.KeyEscape}, 0, false},
		{native.Msg{Type: native.MsgClose}, 0, false},
		{native.Msg{Type: native.MsgIdle}, 0, false},
	}
	for _, tt := range tests {
		got, ok := Classify(tt.msg)
		assert.Equal(t, tt.ok, ok, "%v", tt.msg)
		if ok {
			assert.Equal(t, tt.want, got, "%v", tt.msg)
		}
	}
}

type fixture struct {
	b      *headless.Backend
	cb     *props.Callbacks
	errs   *errors.Collector
	hub    *Hub
	win    native.Handle
	panel  native.Handle
	button native.Handle
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	b := headless.New()
	create := func(class string, style native.Style, parent native.Handle, title string) native.Handle {
		h, err := b.CreateWidget(native.CreateParams{
			Class:  class,
			Style:  style | native.StyleVisible,
			Parent: parent,
			Title:  title,
			Rect:   geom.RectFromLTWH(10, 10, 100, 50),
		})
		require.NoError(t, err)
		return h
	}
	f := &fixture{b: b, cb: props.NewCallbacks(), errs: &errors.Collector{}}
	f.win = create(native.ClassWindow, native.StyleOverlapped, 0, "main")
	f.panel = create(native.ClassPanel, native.StyleChild, f.win, "")
	f.button = create(native.ClassButton, native.StyleChild|native.StyleCheckBox, f.panel, "check")
	f.hub = NewHub(b, f.cb, f.errs)
	return f
}

// pump enqueues every posted message.
func (f *fixture) pump() {
	for {
		msg, ok := f.b.Peek()
		if !ok {
			return
		}
		f.hub.Enqueue(msg)
	}
}

func TestBubblingRecordsEveryAncestor(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.b.Click(f.button))
	f.pump()

	records := f.hub.Records()
	require.Len(t, records, 3, "target plus two ancestors")
	assert.Equal(t, []native.Handle{f.button, f.panel, f.win},
		[]native.Handle{records[0].Handle, records[1].Handle, records[2].Handle})
	for _, rec := range records {
		assert.Equal(t, []props.Tag{props.TagOnClick}, rec.Kinds.Tags())
	}
}

func TestEnqueueUnionsKinds(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.b.Click(f.button))
	require.NoError(t, f.b.Click(f.button))
	require.NoError(t, f.b.PressKey(f.button, native.KeyEscape))
	f.pump()
	f.hub.Enqueue(native.Msg{Type: native.MsgSize, Handle: f.panel, Rect: geom.Rect{Right: 30, Bottom: 20}})

	rec, ok := f.hub.Record(f.panel)
	require.True(t, ok)
	assert.ElementsMatch(t, []props.Tag{props.TagOnClick, props.TagOnResize}, rec.Kinds.Tags())
	rec, _ = f.hub.Record(f.button)
	assert.Equal(t, []props.Tag{props.TagOnClick}, rec.Kinds.Tags())
	assert.Equal(t, 3, f.hub.Len())
}

func TestPutListenerAttachesOnlyQueuedKinds(t *testing.T) {
	f := newFixture(t)
	var clicks, resizes int
	listeners := props.Set{
		props.Listener(props.TagOnClick, f.cb.Bind(func(props.Set) { clicks++ })),
		props.Listener(props.TagOnResize, f.cb.Bind(func(props.Set) { resizes++ })),
		props.Title("ignored"),
	}

	f.hub.PutListener(f.button, listeners)
	assert.Zero(t, f.hub.Len(), "unknown handles get no record")

	require.NoError(t, f.b.Click(f.button))
	f.pump()
	f.hub.PutListener(f.button, listeners)
	rec, _ := f.hub.Record(f.button)
	assert.Equal(t, []props.Tag{props.TagOnClick}, rec.Kinds.Tags())

	assert.True(t, f.hub.Dispatch())
	assert.Equal(t, 1, clicks)
	assert.Zero(t, resizes)
}

func TestDispatchIsIdempotent(t *testing.T) {
	f := newFixture(t)
	var got []props.Set
	id := f.cb.Bind(func(data props.Set) { got = append(got, data) })

	require.NoError(t, f.b.Click(f.button))
	f.pump()
	f.hub.PutListener(f.button, props.Set{props.Listener(props.TagOnClick, id)})
	assert.True(t, f.hub.Pending())

	assert.True(t, f.hub.Dispatch())
	assert.False(t, f.hub.Pending())
	assert.False(t, f.hub.Dispatch(), "nothing is queued any more")
	require.Len(t, got, 1)

	data := got[0]
	class, _ := data.Text(props.TagClass)
	assert.Equal(t, native.ClassButton, class)
	title, _ := data.Text(props.TagTitle)
	assert.Equal(t, "check", title)
	checked, ok := data.Bool(props.TagSelected)
	require.True(t, ok)
	assert.True(t, checked)

	// A queued kind with no listener attached clears without firing.
	require.NoError(t, f.b.Click(f.button))
	f.pump()
	assert.False(t, f.hub.Dispatch())
	assert.False(t, f.hub.Pending())
}

func TestReEnqueueKeepsAttachedListener(t *testing.T) {
	f := newFixture(t)
	fired := 0
	id := f.cb.Bind(func(props.Set) { fired++ })

	require.NoError(t, f.b.Click(f.button))
	f.pump()
	f.hub.PutListener(f.button, props.Set{props.Listener(props.TagOnClick, id)})
	require.NoError(t, f.b.PressKey(f.button, native.KeySpace))
	f.pump()

	got, _ := f.hub.Record(f.button)
	lid, _ := got.Kinds.Listener(props.TagOnClick)
	assert.Equal(t, id, lid)
	f.hub.Dispatch()
	assert.Equal(t, 1, fired, "coalesced into one invocation")
}

func TestChangeData(t *testing.T) {
	f := newFixture(t)
	combo, err := f.b.CreateWidget(native.CreateParams{Class: native.ClassComboBox, Style: native.StyleChild, Parent: f.win})
	require.NoError(t, err)
	require.NoError(t, f.b.SetItems(combo, []string{"a", "b", "c"}))

	var data props.Set
	require.NoError(t, f.b.Select(combo, 2))
	f.pump()
	f.hub.PutListener(combo, props.Set{props.Listener(props.TagOnChange, f.cb.Bind(func(d props.Set) { data = d }))})
	require.True(t, f.hub.Dispatch())

	idx, ok := data.Int(props.TagSelectedIndex)
	require.True(t, ok)
	assert.Equal(t, 2, idx)
}

func TestResizeData(t *testing.T) {
	f := newFixture(t)
	var data props.Set
	require.NoError(t, f.b.Resize(f.win, 316, 239))
	f.hub.Enqueue(native.Msg{Type: native.MsgSize, Handle: f.win, Rect: geom.Rect{Right: 300, Bottom: 200}})
	f.hub.PutListener(f.win, props.Set{props.Listener(props.TagOnResize, f.cb.Bind(func(d props.Set) { data = d }))})
	require.True(t, f.hub.Dispatch())

	w, _ := data.Int(props.TagWidth)
	h, _ := data.Int(props.TagHeight)
	assert.Equal(t, 300, w, "the client size carried by the message wins")
	assert.Equal(t, 200, h)
	x, ok := data.Int(props.TagX)
	require.True(t, ok)
	assert.Equal(t, 10, x)
}

func TestResizeDataStaysOnTarget(t *testing.T) {
	f := newFixture(t)
	f.hub.Enqueue(native.Msg{Type: native.MsgSize, Handle: f.panel, Rect: geom.Rect{Right: 30, Bottom: 20}})

	rec, _ := f.hub.Record(f.panel)
	w, _ := rec.Data.Int(props.TagWidth)
	assert.Equal(t, 30, w)
	rec, ok := f.hub.Record(f.win)
	require.True(t, ok)
	assert.Equal(t, []props.Tag{props.TagOnResize}, rec.Kinds.Tags())
	assert.Empty(t, rec.Data, "the window keeps its own size")
}

func TestDestroyDropsRecord(t *testing.T) {
	f := newFixture(t)
	destroyed := 0
	id := f.cb.Bind(func(props.Set) { destroyed++ })
	f.b.SetHook(func(msg native.Msg) {
		if f.hub.Enqueue(msg) {
			f.hub.PutListener(msg.Handle, props.Set{props.Listener(props.TagOnDestroy, id)})
		}
	})
	require.NoError(t, f.b.Destroy(f.button))
	f.b.SetHook(nil)

	assert.True(t, f.hub.Dispatch())
	assert.Equal(t, 1, destroyed)
	_, ok := f.hub.Record(f.button)
	assert.False(t, ok)
	rec, ok := f.hub.Record(f.panel)
	require.True(t, ok, "ancestors only saw the kind bubble through")
	assert.Empty(t, rec.Kinds)
}

func TestDestroyCascadeNotifiesContainerOnce(t *testing.T) {
	f := newFixture(t)
	destroyed := 0
	id := f.cb.Bind(func(props.Set) { destroyed++ })
	// Each notification is its own tick, as in the engine.
	f.b.SetHook(func(msg native.Msg) {
		if f.hub.Enqueue(msg) {
			f.hub.PutListener(f.win, props.Set{props.Listener(props.TagOnDestroy, id)})
			f.hub.Dispatch()
		}
	})
	require.NoError(t, f.b.Destroy(f.win))
	f.b.SetHook(nil)

	assert.Equal(t, 1, destroyed, "children destroyed after the window do not queue on it again")
	assert.Zero(t, f.hub.Len())
	assert.Len(t, f.hub.gone, 3)

	// Any other message ends the run.
	win, err := f.b.CreateWidget(native.CreateParams{Class: native.ClassWindow, Style: native.StyleOverlapped})
	require.NoError(t, err)
	f.hub.Enqueue(native.Msg{Type: native.MsgSize, Handle: win, Rect: geom.Rect{Right: 10, Bottom: 10}})
	assert.Empty(t, f.hub.gone)
}

func TestPanickingListenerIsContained(t *testing.T) {
	f := newFixture(t)
	ran := false
	require.NoError(t, f.b.Click(f.button))
	f.pump()
	f.hub.PutListener(f.button, props.Set{props.Listener(props.TagOnClick, f.cb.Bind(func(props.Set) { panic("bad listener") }))})
	f.hub.PutListener(f.panel, props.Set{props.Listener(props.TagOnClick, f.cb.Bind(func(props.Set) { ran = true }))})

	assert.True(t, f.hub.Dispatch())
	assert.True(t, ran)
	require.Len(t, f.errs.Panics, 1)
	assert.Equal(t, "bad listener", f.errs.Panics[0].Value)
}

func TestStaleListenerIDsResolveToNothing(t *testing.T) {
	f := newFixture(t)
	fired := false
	id := f.cb.Bind(func(props.Set) { fired = true })
	f.cb.Reset()

	require.NoError(t, f.b.Click(f.button))
	f.pump()
	f.hub.PutListener(f.button, props.Set{props.Listener(props.TagOnClick, id)})
	assert.False(t, f.hub.Dispatch())
	assert.False(t, fired)
}

func TestParentFailureStopsBubbling(t *testing.T) {
	f := newFixture(t)
	f.b.FailNext("Parent", 1)
	f.hub.Enqueue(native.Msg{Type: native.MsgKeyDown, Handle: f.button, Key: native.KeyReturn})
	assert.Equal(t, 1, f.hub.Len())
	assert.Equal(t, []errors.ErrorKind{errors.KindEvent}, f.errs.Kinds())
}
