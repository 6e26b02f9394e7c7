package core

import (
	"fmt"

	"github.com/go-drift/retain/pkg/errors"
	"github.com/go-drift/retain/pkg/native"
	"github.com/go-drift/retain/pkg/props"
)

// ListenerSink receives the listeners refreshed by an Apply render.
type ListenerSink interface {
	PutListener(h native.Handle, listeners props.Set)
}

// Tree renders a virtual tree against a Context.
type Tree struct {
	rec    *Reconciler
	binder props.Binder
	sink   ListenerSink
	errs   errors.ErrorHandler
}

// NewTree creates a tree. Apply renders bind listeners through binder and
// forward them to sink; either may be nil.
func NewTree(rec *Reconciler, binder props.Binder, sink ListenerSink, errs errors.ErrorHandler) *Tree {
	if binder == nil {
		binder = props.Discard
	}
	return &Tree{rec: rec, binder: binder, sink: sink, errs: errs}
}

// Render walks root and returns the updated context. With a nil msg it is
// a Full render; otherwise an Apply render that makes no native calls.
func (t *Tree) Render(ctx Context, root Node, msg *native.Msg) Context {
	if root == nil {
		return ctx
	}
	if msg == nil {
		return t.full(ctx, root, 0, RootPath)
	}
	return t.apply(ctx, root, RootPath)
}

// viewState calls n.ViewState, turning a panic into a report.
func (t *Tree) viewState(n Node, b props.Binder, path Path) (set props.Set, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			errors.ReportPanic(t.errs, &errors.PanicError{
				Op:         fmt.Sprintf("core.ViewState %q", path),
				Value:      r,
				StackTrace: errors.CaptureStack(),
			})
			set, ok = nil, false
		}
	}()
	return n.ViewState(b), true
}

func (t *Tree) full(ctx Context, n Node, parent native.Handle, path Path) Context {
	set, ok := t.viewState(n, props.Discard, path)
	prev, exists := ctx.Lookup(path)
	if !ok {
		// Keep whatever was there and leave the subtree alone.
		return ctx
	}

	next := parent
	if set.Kind() != props.KindNone {
		s, live := t.rec.Reconcile(path, prev, exists, set, parent)
		if !live {
			if exists {
				ctx = ctx.Without(path)
			}
			return ctx
		}
		ctx = ctx.With(path, s)
		if s.Destroyed {
			return ctx
		}
		next = s.Handle
	}

	for _, c := range children(n, path) {
		ctx = t.full(ctx, c.node, next, c.path)
	}

	if s, ok := ctx.Lookup(path); ok && set.Kind().IsContainer() {
		ctx = ctx.With(path, t.rec.Establish(path, s, set))
	}
	return ctx
}

func (t *Tree) apply(ctx Context, n Node, path Path) Context {
	set, ok := t.viewState(n, t.binder, path)
	if ok {
		if s, exists := ctx.Lookup(path); exists && !s.Destroyed {
			s.Listeners = set.Listeners()
			ctx = ctx.With(path, s)
			if t.sink != nil {
				t.sink.PutListener(s.Handle, s.Listeners)
			}
		}
	}
	for _, c := range children(n, path) {
		ctx = t.apply(ctx, c.node, c.path)
	}
	return ctx
}
