package headless

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/go-drift/retain/pkg/geom"
	"github.com/go-drift/retain/pkg/native"
)

// Info is a snapshot of one widget.
type Info struct {
	Handle   native.Handle
	Class    string
	Style    native.Style
	Parent   native.Handle
	ID       int
	Text     string
	Rect     geom.Rect
	Font     native.Font
	Checked  bool
	Items    []string
	Selected int
	Visible  bool
}

func (w *widget) info() Info {
	return Info{
		Handle:   w.handle,
		Class:    w.class,
		Style:    w.style,
		Parent:   w.parent,
		ID:       w.id,
		Text:     w.text,
		Rect:     w.rect,
		Font:     w.font,
		Checked:  w.checked,
		Items:    slices.Clone(w.items),
		Selected: w.selected,
		Visible:  w.visible,
	}
}

// Widget returns a snapshot of h. Rect is in the coordinates h was placed in.
func (b *Backend) Widget(h native.Handle) (Info, bool) {
	w, ok := b.widgets[h]
	if !ok {
		return Info{}, false
	}
	return w.info(), true
}

// Live returns the number of live widgets.
func (b *Backend) Live() int {
	return len(b.widgets)
}

// Handles returns every live handle in creation order.
func (b *Backend) Handles() []native.Handle {
	hs := make([]native.Handle, 0, len(b.widgets))
	for h := range b.widgets {
		hs = append(hs, h)
	}
	slices.Sort(hs)
	return hs
}

// Find returns the first live widget, in creation order, of the given
// class whose text is text.
func (b *Backend) Find(class, text string) (native.Handle, bool) {
	for _, h := range b.Handles() {
		w := b.widgets[h]
		if w.class == class && w.text == text {
			return h, true
		}
	}
	return 0, false
}

// Dump writes the widget tree to out, one widget per line.
func (b *Backend) Dump(out io.Writer) {
	for _, h := range b.Handles() {
		if w := b.widgets[h]; w.parent == 0 {
			b.dump(out, w, 0)
		}
	}
}

func (b *Backend) dump(out io.Writer, w *widget, depth int) {
	r := w.rect
	fmt.Fprintf(out, "%s%s %q #%d (%d,%d %dx%d)\n",
		strings.Repeat("  ", depth), w.class, w.text, w.id, r.Left, r.Top, r.Width(), r.Height())
	for _, c := range w.children {
		if cw, ok := b.widgets[c]; ok {
			b.dump(out, cw, depth+1)
		}
	}
}
