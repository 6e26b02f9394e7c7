// Package engine runs the render loop: it owns the reconciliation context,
// the event hub, the anchor registry and the listener table of one
// application, and drives them from the native message pump.
//
// Each classified native message triggers one tick:
//
//  1. an Apply render refreshes every listener closure,
//  2. the hub dispatches queued events,
//  3. a Full render follows if any listener ran.
//
// Messages that arrive while a tick is running (the backend sends create
// and size notifications synchronously) are queued and handled by
// follow-up ticks, up to Options.Settle ticks in all. When the queue is
// empty, Run issues an idle tick for whatever is still pending.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-drift/retain/pkg/anchor"
	"github.com/go-drift/retain/pkg/core"
	"github.com/go-drift/retain/pkg/errors"
	"github.com/go-drift/retain/pkg/event"
	"github.com/go-drift/retain/pkg/native"
	"github.com/go-drift/retain/pkg/props"
)

// DefaultIdle is the pump sleep when no message is pending.
const DefaultIdle = 10 * time.Millisecond

// DefaultSettle is the default number of follow-up ticks per message.
const DefaultSettle = 4

// Options configure an Engine.
type Options struct {
	// Idle is how long Run sleeps when the queue is empty.
	Idle time.Duration
	// Settle bounds the ticks run for one message, the first included.
	// Messages that arrive during a tick get the remaining ones. Anything
	// left stays queued for the next message or idle tick.
	Settle int
	// Layout configures the first layout of every container.
	Layout anchor.Options
	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger
	// Errors receives every reported failure. Defaults to an
	// errors.LogHandler on Logger.
	Errors  errors.ErrorHandler
	Verbose bool
}

// View builds the virtual tree. It is called on every render and must be
// cheap and free of native side effects.
type View func() core.Node

// Engine is one running application.
type Engine struct {
	backend native.Backend
	view    View
	opts    Options
	log     *slog.Logger
	errs    errors.ErrorHandler

	callbacks *props.Callbacks
	hub       *event.Hub
	anchors   *anchor.Registry
	tree      *core.Tree
	ctx       core.Context

	// busy is set while a tick or render is running.
	busy     bool
	deferred int
	dirty    bool

	stats   Stats
	timings *TimingBuffer
}

// New creates an engine rendering view onto backend.
func New(backend native.Backend, view View, opts Options) *Engine {
	if opts.Idle <= 0 {
		opts.Idle = DefaultIdle
	}
	if opts.Settle <= 0 {
		opts.Settle = DefaultSettle
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	errs := opts.Errors
	if errs == nil {
		errs = errors.NewLogHandler(opts.Logger, opts.Verbose)
	}

	e := &Engine{
		backend:   backend,
		view:      view,
		opts:      opts,
		log:       opts.Logger,
		errs:      errs,
		callbacks: props.NewCallbacks(),
		anchors:   anchor.NewRegistry(backend, errs),
		ctx:       core.NewContext(),
		timings:   NewTimingBuffer(DefaultTimingSamples),
	}
	e.hub = event.NewHub(backend, e.callbacks, errs)
	rec := core.NewReconciler(backend, e.anchors, errs)
	rec.Layout = opts.Layout
	e.tree = core.NewTree(rec, e.callbacks, e.hub, errs)
	return e
}

// Context returns the current reconciliation context.
func (e *Engine) Context() core.Context {
	return e.ctx
}

// Anchors returns the anchor registry.
func (e *Engine) Anchors() *anchor.Registry {
	return e.anchors
}

// Hub returns the event hub.
func (e *Engine) Hub() *event.Hub {
	return e.hub
}

// Handle returns the native handle rendered at path.
func (e *Engine) Handle(path core.Path) (native.Handle, bool) {
	s, ok := e.ctx.Lookup(path)
	if !ok || s.Destroyed {
		return 0, false
	}
	return s.Handle, true
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	return e.stats
}

// Timings returns the durations of recent Full renders.
func (e *Engine) Timings() *TimingBuffer {
	return e.timings
}

// Start initializes the backend, installs the hook and runs the first
// Full render. A backend initialization failure is returned as a
// KindInit *errors.EngineError.
func (e *Engine) Start() error {
	if err := e.backend.Init(); err != nil {
		ee := &errors.EngineError{Op: "engine.Start", Kind: errors.KindInit, Err: err}
		errors.Report(e.errs, ee)
		return ee
	}
	e.backend.SetHook(e.notify)
	e.Render()
	return nil
}

// Run starts the engine and pumps messages until a quit message arrives
// or ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.Start(); err != nil {
		return err
	}
	defer e.backend.SetHook(nil)

	timer := time.NewTimer(e.opts.Idle)
	defer timer.Stop()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		handled, quit := e.Step()
		if quit {
			e.log.Debug("engine: quit", "stats", e.stats)
			return nil
		}
		if handled {
			continue
		}
		timer.Reset(e.opts.Idle)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		e.Idle()
	}
}

// Idle runs a tick without a message if events are still queued or a
// render was requested, as left behind by a settle limit hit. It reports
// whether a tick ran.
func (e *Engine) Idle() bool {
	if e.busy || (!e.hub.Pending() && !e.dirty) {
		return false
	}
	e.stats.IdleTicks++
	e.settle(native.Msg{Type: native.MsgIdle})
	return true
}

// Step handles at most one pending message. It reports whether a message
// was handled and whether it was a quit message.
func (e *Engine) Step() (handled, quit bool) {
	msg, ok := e.backend.Peek()
	if !ok {
		return false, false
	}
	if msg.Type == native.MsgQuit {
		return true, true
	}
	e.backend.Translate(msg)
	e.backend.Dispatch(msg)
	return true, false
}

// Render runs a Full render now, followed by any ticks it triggered. From
// inside a listener it only schedules the render.
func (e *Engine) Render() {
	if e.busy {
		e.dirty = true
		return
	}
	e.busy = true
	e.full()
	e.busy = false
	if e.deferred > 0 {
		e.settle(native.Msg{Type: native.MsgIdle})
	}
}

// notify is the backend hook.
func (e *Engine) notify(msg native.Msg) {
	e.stats.Messages++
	busy := e.busy
	// Relayout sends size notifications for the moved children; they are
	// queued like any other message arriving mid-tick.
	e.busy = true
	switch msg.Type {
	case native.MsgSize:
		e.anchors.HandleResize(msg.Handle, msg.Rect)
	case native.MsgDestroy:
		e.anchors.Unregister(msg.Handle)
	}
	e.busy = busy

	kept := e.hub.Enqueue(msg)
	if e.busy {
		if kept {
			e.deferred++
			e.stats.Deferred++
		}
		return
	}
	if kept || e.deferred > 0 {
		e.settle(msg)
	}
}

// settle runs the tick for msg and the follow-up ticks for messages
// queued meanwhile.
func (e *Engine) settle(msg native.Msg) {
	e.busy = true
	defer func() { e.busy = false }()

	for pass := 0; ; pass++ {
		e.deferred = 0
		e.apply(msg)
		fired := e.hub.Dispatch()
		e.stats.Dispatches++
		if fired {
			e.stats.Fired++
		}
		if fired || e.dirty {
			e.dirty = false
			e.full()
		}
		if e.deferred == 0 {
			return
		}
		if pass+1 >= e.opts.Settle {
			e.stats.SettleLimitHits++
			e.log.Warn("engine: settle limit reached", "limit", e.opts.Settle, "deferred", e.deferred)
			e.deferred = 0
			return
		}
	}
}

func (e *Engine) root() core.Node {
	defer errors.Recover(e.errs, "engine.View")
	return e.view()
}

func (e *Engine) apply(msg native.Msg) {
	root := e.root()
	if root == nil {
		return
	}
	e.callbacks.Reset()
	e.ctx = e.tree.Render(e.ctx, root, &msg)
	e.stats.ApplyPasses++
}

func (e *Engine) full() {
	root := e.root()
	if root == nil {
		return
	}
	start := time.Now()
	e.ctx = e.tree.Render(e.ctx, root, nil)
	d := time.Since(start)
	e.timings.Add(d)
	e.stats.FullPasses++
	e.log.Debug("engine: full render", "paths", e.ctx.Len(), "duration", d)
}
