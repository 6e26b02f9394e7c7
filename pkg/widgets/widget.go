package widgets

import (
	"slices"

	"github.com/go-drift/retain/pkg/anchor"
	"github.com/go-drift/retain/pkg/core"
	"github.com/go-drift/retain/pkg/props"
)

type listener struct {
	tag props.Tag
	fn  func(Event)
}

// Widget is a native widget node. The zero Widget renders nothing.
type Widget struct {
	props     props.Set
	listeners []listener
	content   core.Node
}

func newWidget(kind props.RenderKind, records ...props.Record) Widget {
	return Widget{props: props.Merge(props.Set{props.Render(kind)}, records)}
}

// Window creates a top-level window.
func Window(title string) Widget {
	return newWidget(props.KindWindow, props.Title(title))
}

// Panel creates a plain child container.
func Panel() Widget {
	return newWidget(props.KindPanel)
}

// Button creates a push button.
func Button(title string) Widget {
	return newWidget(props.KindButton, props.Title(title))
}

// Label creates static text.
func Label(text string) Widget {
	return newWidget(props.KindLabel, props.Title(text))
}

// TextBox creates a single-line edit box holding text.
func TextBox(text string) Widget {
	return newWidget(props.KindTextBox, props.Title(text))
}

// CheckBox creates a check box.
func CheckBox(title string, checked bool) Widget {
	return newWidget(props.KindCheckBox, props.Title(title), props.Selected(checked))
}

// RadioBox creates a radio button.
func RadioBox(title string, selected bool) Widget {
	return newWidget(props.KindRadioBox, props.Title(title), props.Selected(selected))
}

// GroupBox creates a captioned frame.
func GroupBox(title string) Widget {
	return newWidget(props.KindGroupBox, props.Title(title))
}

// Select creates a drop-down list with nothing selected.
func Select(items ...string) Widget {
	return newWidget(props.KindSelect, props.Items(items...), props.SelectedIndex(-1))
}

// ViewState implements core.Node.
func (w Widget) ViewState(b props.Binder) props.Set {
	set := w.props
	for _, l := range w.listeners {
		fn := l.fn
		id := b.Bind(func(data props.Set) { fn(Event{Data: data}) })
		set = set.With(props.Listener(l.tag, id))
	}
	return set
}

// Child implements the single-child shape of core.Node.
func (w Widget) Child() core.Node {
	return w.content
}

// Props returns the widget's properties, listeners excluded.
func (w Widget) Props() props.Set {
	return w.props
}

func (w Widget) with(records ...props.Record) Widget {
	w.props = w.props.With(records...)
	return w
}

func (w Widget) on(tag props.Tag, fn func(Event)) Widget {
	w.listeners = slices.DeleteFunc(slices.Clone(w.listeners), func(l listener) bool { return l.tag == tag })
	if fn != nil {
		w.listeners = append(w.listeners, listener{tag: tag, fn: fn})
	}
	return w
}

// WithX returns a copy of the widget at horizontal position x.
func (w Widget) WithX(x int) Widget { return w.with(props.X(x)) }

// WithY returns a copy of the widget at vertical position y.
func (w Widget) WithY(y int) Widget { return w.with(props.Y(y)) }

// WithPos returns a copy of the widget at (x, y) in its parent's client area.
func (w Widget) WithPos(x, y int) Widget { return w.with(props.X(x), props.Y(y)) }

// WithWidth returns a copy of the widget with the given width.
func (w Widget) WithWidth(width int) Widget { return w.with(props.Width(width)) }

// WithHeight returns a copy of the widget with the given height.
func (w Widget) WithHeight(height int) Widget { return w.with(props.Height(height)) }

// WithSize returns a copy of the widget with the given size. Without a
// size, widgets take the natural extent of their title.
func (w Widget) WithSize(width, height int) Widget {
	return w.with(props.Width(width), props.Height(height))
}

// WithBounds returns a copy of the widget placed at the given rectangle.
func (w Widget) WithBounds(x, y, width, height int) Widget {
	return w.with(props.X(x), props.Y(y), props.Width(width), props.Height(height))
}

// WithTitle returns a copy of the widget with the given title or text.
func (w Widget) WithTitle(title string) Widget { return w.with(props.Title(title)) }

// WithFont returns a copy of the widget using the named font face.
func (w Widget) WithFont(face string) Widget { return w.with(props.Font(face)) }

// WithAnchor returns a copy of the widget with the given anchor flags.
func (w Widget) WithAnchor(flags anchor.Flags) Widget { return w.with(props.Anchor(flags)) }

// WithChecked returns a copy of a check box or radio button with the given
// check state.
func (w Widget) WithChecked(checked bool) Widget { return w.with(props.Selected(checked)) }

// WithItems returns a copy of a drop-down list with the given items.
func (w Widget) WithItems(items ...string) Widget { return w.with(props.Items(items...)) }

// WithSelectedIndex returns a copy of a drop-down list with item i
// selected; -1 selects nothing.
func (w Widget) WithSelectedIndex(i int) Widget { return w.with(props.SelectedIndex(i)) }

// WithClass returns a copy of the widget created with a custom native
// class.
func (w Widget) WithClass(class string) Widget { return w.with(props.Class(class)) }

// WithContent returns a copy of the widget with the given children. More
// than one child is wrapped in a core.Group.
func (w Widget) WithContent(children ...core.Node) Widget {
	switch len(children) {
	case 0:
		w.content = nil
	case 1:
		w.content = children[0]
	default:
		w.content = core.Group(slices.Clone(children))
	}
	return w
}

// OnCreate returns a copy of the widget calling fn once its native widget
// exists.
func (w Widget) OnCreate(fn func(Event)) Widget { return w.on(props.TagOnCreate, fn) }

// OnClick returns a copy of the widget calling fn when it or a descendant
// is clicked or activated from the keyboard.
func (w Widget) OnClick(fn func(Event)) Widget { return w.on(props.TagOnClick, fn) }

// OnChange returns a copy of the widget calling fn when its text or
// selection changes.
func (w Widget) OnChange(fn func(Event)) Widget { return w.on(props.TagOnChange, fn) }

// OnResize returns a copy of the widget calling fn when its size changes.
func (w Widget) OnResize(fn func(Event)) Widget { return w.on(props.TagOnResize, fn) }

// OnDestroy returns a copy of the widget calling fn when its native widget
// is destroyed.
func (w Widget) OnDestroy(fn func(Event)) Widget { return w.on(props.TagOnDestroy, fn) }
