package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/go-drift/retain/pkg/anchor"
	"github.com/go-drift/retain/pkg/core"
	"github.com/go-drift/retain/pkg/engine"
	"github.com/go-drift/retain/pkg/native"
	"github.com/go-drift/retain/pkg/native/headless"
	"github.com/go-drift/retain/pkg/widgets"
)

func init() {
	RegisterCommand(&Command{
		Name:  "demo",
		Short: "Run the scripted counter demo",
		Long: `Run a small counter application on the in-memory window system.

The demo clicks the increment button, resizes the window so the anchored
widgets move, prints the path index and the native widget tree, then closes
the window and waits for the quit message.

Flags:
  --clicks N    Number of increment clicks (default: 3)
  --double      Tick the "Double step" box before clicking
  --verbose     Log every render pass to stderr`,
		Usage: "retain demo [--clicks N] [--double] [--verbose]",
		Run:   runDemo,
	})
}

type demoOptions struct {
	clicks  int
	double  bool
	verbose bool
}

func parseDemoArgs(args []string) (demoOptions, error) {
	opts := demoOptions{clicks: 3}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		value := ""
		switch {
		case arg == "--double":
			opts.double = true
			continue
		case arg == "--verbose":
			opts.verbose = true
			continue
		case arg == "--clicks":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("--clicks requires a number")
			}
			value = args[i+1]
			i++
		case strings.HasPrefix(arg, "--clicks="):
			value = strings.TrimPrefix(arg, "--clicks=")
		default:
			return opts, fmt.Errorf("unknown demo flag %q", arg)
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return opts, fmt.Errorf("--clicks must be a non-negative number (got %q)", value)
		}
		opts.clicks = n
	}
	return opts, nil
}

// counterApp is the demo application state.
type counterApp struct {
	title  string
	count  int
	double bool
}

func (a *counterApp) view() core.Node {
	step := 1
	if a.double {
		step = 2
	}
	return widgets.Window(a.title).
		WithBounds(40, 40, 336, 219).
		WithContent(
			widgets.Label(fmt.Sprintf("Count: %d", a.count)).
				WithBounds(12, 12, 200, 20).
				WithAnchor(anchor.Top|anchor.Left),
			widgets.Button("Increment").
				WithBounds(12, 40, 100, 28).
				WithAnchor(anchor.Top|anchor.Left).
				OnClick(func(widgets.Event) { a.count += step }),
			widgets.CheckBox("Double step", a.double).
				WithBounds(124, 44, 120, 20).
				WithAnchor(anchor.Top|anchor.Left).
				OnClick(func(ev widgets.Event) { a.double = ev.Checked() }),
			widgets.Button("Reset").
				WithBounds(208, 144, 100, 28).
				WithAnchor(anchor.Bottom|anchor.Right).
				OnClick(func(widgets.Event) { a.count = 0 }),
		)
}

// pump handles every pending message. It reports whether a quit message
// was seen.
func pump(e *engine.Engine) bool {
	for {
		handled, quit := e.Step()
		if quit {
			return true
		}
		if !handled {
			return false
		}
	}
}

func demoHandle(e *engine.Engine, path core.Path) (native.Handle, error) {
	h, ok := e.Handle(path)
	if !ok {
		return 0, fmt.Errorf("demo: no widget at %q", path)
	}
	return h, nil
}

// newLogger logs text to a terminal and JSON lines anywhere else.
func newLogger(f *os.File, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return slog.New(slog.NewTextHandler(f, opts))
	}
	return slog.New(slog.NewJSONHandler(f, opts))
}

func runDemo(args []string) error {
	opts, err := parseDemoArgs(args)
	if err != nil {
		return err
	}
	r, err := resolveConfig()
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if opts.verbose || r.Verbose {
		level = slog.LevelDebug
	}
	logger := newLogger(os.Stderr, level)

	b := headless.New()
	app := &counterApp{title: r.AppTitle}
	e := engine.New(b, app.view, r.EngineOptions(logger))
	if err := e.Start(); err != nil {
		return err
	}

	if opts.double {
		box, err := demoHandle(e, ":0:2")
		if err != nil {
			return err
		}
		if err := b.Click(box); err != nil {
			return err
		}
		pump(e)
	}
	inc, err := demoHandle(e, ":0:1")
	if err != nil {
		return err
	}
	for range opts.clicks {
		if err := b.Click(inc); err != nil {
			return err
		}
		pump(e)
	}

	win, err := demoHandle(e, "")
	if err != nil {
		return err
	}
	if err := b.Resize(win, 436, 279); err != nil {
		return err
	}
	pump(e)

	fmt.Fprintf(stdout, "Count: %d\n\n", app.count)
	fmt.Fprintln(stdout, "Paths:")
	ctx := e.Context()
	for _, p := range ctx.Paths() {
		s, _ := ctx.Lookup(p)
		fmt.Fprintf(stdout, "  %-8q %s\n", string(p), s)
	}
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Widgets:")
	b.Dump(stdout)

	stats := e.Stats()
	fmt.Fprintf(stdout, "\nRenders: full=%d apply=%d dispatches=%d fired=%d\n",
		stats.FullPasses, stats.ApplyPasses, stats.Dispatches, stats.Fired)

	b.Close(win)
	if !pump(e) {
		return fmt.Errorf("demo: closing the window did not quit")
	}
	return nil
}
