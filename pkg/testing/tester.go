package testing

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/go-drift/retain/pkg/anchor"
	"github.com/go-drift/retain/pkg/core"
	"github.com/go-drift/retain/pkg/engine"
	reterrors "github.com/go-drift/retain/pkg/errors"
	"github.com/go-drift/retain/pkg/native/headless"
)

// MaxPumpSteps bounds the messages a single Pump handles.
const MaxPumpSteps = 1000

// ErrSettleTimeout is returned when Pump exceeds MaxPumpSteps.
var ErrSettleTimeout = errors.New("Pump: message queue did not drain")

// ErrNotPumped is returned by operations that need PumpWidget first.
var ErrNotPumped = errors.New("tester: no view pumped")

// WidgetTester drives a view on the headless backend.
type WidgetTester struct {
	backend *headless.Backend
	engine  *engine.Engine
	errs    *reterrors.Collector
	layout  anchor.Options
	quit    bool
}

// NewWidgetTester creates a tester with a fresh headless backend.
// Call Cleanup() when done, or use NewWidgetTesterWithT() instead.
func NewWidgetTester() *WidgetTester {
	return &WidgetTester{
		backend: headless.New(),
		errs:    &reterrors.Collector{},
	}
}

// NewWidgetTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewWidgetTesterWithT(t *testing.T) *WidgetTester {
	tester := NewWidgetTester()
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup detaches the engine from the backend.
func (t *WidgetTester) Cleanup() {
	t.backend.SetHook(nil)
}

// SetLayout sets the first-layout options. It must be called before
// PumpWidget.
func (t *WidgetTester) SetLayout(opts anchor.Options) {
	t.layout = opts
}

// Backend returns the headless backend.
func (t *WidgetTester) Backend() *headless.Backend {
	return t.backend
}

// Engine returns the engine, or nil before PumpWidget.
func (t *WidgetTester) Engine() *engine.Engine {
	return t.engine
}

// Errors returns everything reported so far.
func (t *WidgetTester) Errors() *reterrors.Collector {
	return t.errs
}

// Context returns the current reconciliation context.
func (t *WidgetTester) Context() core.Context {
	if t.engine == nil {
		return core.NewContext()
	}
	return t.engine.Context()
}

// Quit reports whether a quit message has been pumped.
func (t *WidgetTester) Quit() bool {
	return t.quit
}

// PumpWidget starts an engine rendering view and handles every message
// the first render produced.
func (t *WidgetTester) PumpWidget(view engine.View) error {
	t.engine = engine.New(t.backend, view, engine.Options{
		Layout: t.layout,
		Errors: t.errs,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err := t.engine.Start(); err != nil {
		return err
	}
	return t.Pump()
}

// Pump handles pending messages until the queue is empty or a quit
// message arrives.
func (t *WidgetTester) Pump() error {
	if t.engine == nil {
		return ErrNotPumped
	}
	for range MaxPumpSteps {
		handled, quit := t.engine.Step()
		if quit {
			t.quit = true
			return nil
		}
		if !handled {
			return nil
		}
	}
	return ErrSettleTimeout
}

// Render runs a Full render, as after a state change made outside any
// listener, and pumps what it produced.
func (t *WidgetTester) Render() error {
	if t.engine == nil {
		return ErrNotPumped
	}
	t.engine.Render()
	return t.Pump()
}

// Find evaluates finder against the live widgets.
func (t *WidgetTester) Find(finder Finder) FinderResult {
	return FinderResult{
		elements: finder.Evaluate(t.elements()),
		finder:   finder,
	}
}

// elements lists every live rendered widget in path order.
func (t *WidgetTester) elements() []Element {
	ctx := t.Context()
	var out []Element
	for _, p := range ctx.Paths() {
		s, _ := ctx.Lookup(p)
		if s.Destroyed {
			continue
		}
		info, ok := t.backend.Widget(s.Handle)
		if !ok {
			continue
		}
		out = append(out, Element{Path: p, State: s, Info: info})
	}
	return out
}
