package headless

import (
	"github.com/go-drift/retain/pkg/geom"
	"github.com/go-drift/retain/pkg/native"
)

type move struct {
	h native.Handle
	r geom.Rect
}

type batch struct {
	b     *Backend
	moves []move
	done  bool
}

// BeginBatch implements native.Backend.
func (b *Backend) BeginBatch(n int) (native.Batch, error) {
	if err := b.fail("BeginBatch"); err != nil {
		return nil, err
	}
	return &batch{b: b, moves: make([]move, 0, n)}, nil
}

func (bt *batch) Move(h native.Handle, r geom.Rect) {
	bt.moves = append(bt.moves, move{h: h, r: r})
}

// Commit applies every move or none of them. Size notifications go out
// after all widgets are in their final place.
func (bt *batch) Commit() error {
	b := bt.b
	if bt.done {
		return nil
	}
	if err := b.fail("Commit"); err != nil {
		return err
	}
	targets := make([]*widget, len(bt.moves))
	for i, m := range bt.moves {
		w, err := b.lookup(m.h)
		if err != nil {
			return err
		}
		targets[i] = w
	}
	bt.done = true
	b.commits++
	var resized []*widget
	for i, m := range bt.moves {
		w := targets[i]
		if w.rect.Width() != m.r.Width() || w.rect.Height() != m.r.Height() {
			resized = append(resized, w)
		}
		w.rect = m.r
	}
	for _, w := range resized {
		if _, ok := b.widgets[w.handle]; ok {
			b.send(native.Msg{Type: native.MsgSize, Handle: w.handle, Rect: b.clientRect(w)})
		}
	}
	return nil
}

// SetHook implements native.Backend.
func (b *Backend) SetHook(hook native.Hook) {
	b.hook = hook
}

// Peek implements native.Backend.
func (b *Backend) Peek() (native.Msg, bool) {
	if len(b.queue) == 0 {
		return native.Msg{}, false
	}
	msg := b.queue[0]
	b.queue = b.queue[1:]
	return msg, true
}

// Translate implements native.Backend. The headless backend has no
// keyboard layout, so it does nothing.
func (b *Backend) Translate(native.Msg) {}

// Dispatch implements native.Backend.
func (b *Backend) Dispatch(msg native.Msg) {
	b.send(msg)
}

// send delivers msg synchronously: hook first, then default processing.
func (b *Backend) send(msg native.Msg) {
	b.sent = append(b.sent, msg)
	if b.hook != nil {
		b.hook(msg)
	}
	b.defaultProc(msg)
}

func (b *Backend) defaultProc(msg native.Msg) {
	switch msg.Type {
	case native.MsgClose:
		w, ok := b.widgets[msg.Handle]
		if !ok {
			return
		}
		top := b.isTopLevel(w)
		_ = b.Destroy(msg.Handle)
		if top && b.topLevelCount() == 0 {
			b.Post(native.Msg{Type: native.MsgQuit})
		}
	}
}

func (b *Backend) topLevelCount() int {
	n := 0
	for _, w := range b.widgets {
		if w.parent == 0 {
			n++
		}
	}
	return n
}

// Post appends msg to the message queue.
func (b *Backend) Post(msg native.Msg) {
	b.queue = append(b.queue, msg)
}

// Pending returns the number of queued messages.
func (b *Backend) Pending() int {
	return len(b.queue)
}

// Sent returns every message delivered so far, in order.
func (b *Backend) Sent() []native.Msg {
	return append([]native.Msg(nil), b.sent...)
}

// Commits returns the number of committed geometry batches.
func (b *Backend) Commits() int {
	return b.commits
}
