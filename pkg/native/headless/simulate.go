package headless

import (
	"github.com/go-drift/retain/pkg/geom"
	"github.com/go-drift/retain/pkg/native"
)

func (b *Backend) notifyParent(w *widget, code native.NotifyCode) {
	b.Post(native.Msg{Type: native.MsgCommand, Handle: w.parent, Source: w.handle, Code: code})
}

// Click simulates a mouse click on a button. Check boxes toggle and radio
// buttons become the only checked radio among their siblings.
func (b *Backend) Click(h native.Handle) error {
	w, err := b.lookup(h)
	if err != nil {
		return err
	}
	switch {
	case w.style&native.StyleCheckBox != 0:
		w.checked = !w.checked
	case w.style&native.StyleRadioButton != 0:
		if p, ok := b.widgets[w.parent]; ok {
			for _, c := range p.children {
				if cw, ok := b.widgets[c]; ok && cw.style&native.StyleRadioButton != 0 {
					cw.checked = false
				}
			}
		}
		w.checked = true
	}
	b.notifyParent(w, native.BNClicked)
	return nil
}

// PressKey simulates a key press delivered to h.
func (b *Backend) PressKey(h native.Handle, key native.KeyCode) error {
	if _, err := b.lookup(h); err != nil {
		return err
	}
	b.Post(native.Msg{Type: native.MsgKeyDown, Handle: h, Key: key})
	return nil
}

// Select simulates the user picking item index of a combo box.
func (b *Backend) Select(h native.Handle, index int) error {
	w, err := b.list(h)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(w.items) {
		return native.ErrIndexOutOfRange
	}
	w.selected = index
	b.notifyParent(w, native.CBNSelChange)
	return nil
}

// Type simulates the user replacing the text of an edit box.
func (b *Backend) Type(h native.Handle, text string) error {
	w, err := b.lookup(h)
	if err != nil {
		return err
	}
	if w.class != native.ClassEdit {
		return native.ErrUnsupported
	}
	w.text = text
	b.notifyParent(w, native.ENChange)
	return nil
}

// Resize simulates the user dragging the frame of h to the given outer size.
func (b *Backend) Resize(h native.Handle, width, height int) error {
	w, err := b.lookup(h)
	if err != nil {
		return err
	}
	w.maximized = false
	b.move(w, geom.RectFromLTWH(w.rect.Left, w.rect.Top, width, height))
	return nil
}

// Maximize makes the top-level window h fill the screen.
func (b *Backend) Maximize(h native.Handle) error {
	w, err := b.lookup(h)
	if err != nil {
		return err
	}
	if !b.isTopLevel(w) {
		return native.ErrUnsupported
	}
	if w.maximized {
		return nil
	}
	w.restore = w.rect
	w.maximized = true
	b.move(w, Screen)
	return nil
}

// Restore undoes Maximize.
func (b *Backend) Restore(h native.Handle) error {
	w, err := b.lookup(h)
	if err != nil {
		return err
	}
	if !w.maximized {
		return nil
	}
	w.maximized = false
	b.move(w, w.restore)
	return nil
}

// Close posts a close request for h. Closing the last top-level window
// posts a quit message.
func (b *Backend) Close(h native.Handle) {
	b.Post(native.Msg{Type: native.MsgClose, Handle: h})
}

// Quit posts a quit message.
func (b *Backend) Quit() {
	b.Post(native.Msg{Type: native.MsgQuit})
}
