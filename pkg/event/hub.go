package event

import (
	stderrors "errors"

	"cogentcore.org/core/base/keylist"

	"github.com/go-drift/retain/pkg/errors"
	"github.com/go-drift/retain/pkg/native"
	"github.com/go-drift/retain/pkg/props"
)

// Resolver resolves listener ids to callbacks.
type Resolver interface {
	Lookup(id props.ListenerID) (props.Callback, bool)
}

// Record is the pending event state of one handle.
type Record struct {
	Handle native.Handle
	// Kinds holds one listener record per queued kind. The id is zero until
	// PutListener attaches a callback.
	Kinds props.Set
	// Data is the extra data collected while enqueueing.
	Data props.Set
	// Destroyed is set once the handle itself was destroyed. The record
	// is dropped after its next dispatch.
	Destroyed bool
}

// Hub collects classified events per handle and dispatches them.
type Hub struct {
	backend   native.Backend
	callbacks Resolver
	errs      errors.ErrorHandler

	records keylist.List[native.Handle, *Record]
	// gone holds the handles destroyed during the current run of destroy
	// messages. A native destroy cascade notifies the parent before its
	// children, so later children must not queue on the parent again.
	gone map[native.Handle]bool
}

// NewHub creates a hub that resolves listeners through callbacks.
func NewHub(backend native.Backend, callbacks Resolver, errs errors.ErrorHandler) *Hub {
	return &Hub{
		backend:   backend,
		callbacks: callbacks,
		errs:      errs,
		gone:      make(map[native.Handle]bool),
	}
}

func (h *Hub) report(op string, handle native.Handle, err error) {
	errors.Report(h.errs, &errors.EngineError{
		Op:     op,
		Kind:   errors.KindEvent,
		Handle: uintptr(handle),
		Err:    err,
	})
}

// msgData is the extra data carried by the message itself.
func msgData(msg native.Msg) props.Set {
	if msg.Type == native.MsgSize {
		return props.Set{props.Width(msg.Rect.Width()), props.Height(msg.Rect.Height())}
	}
	return nil
}

// Enqueue classifies msg and records its kind against the target and every
// native ancestor of it. It reports whether msg was kept.
//
// Data carried by the message itself (the new client size of a Size
// message) is recorded against the target only. An ancestor's listener
// would otherwise receive a descendant's size as its own.
//
// Within one run of consecutive destroy messages, handles already
// destroyed are skipped while bubbling, so a destroyed container is
// notified once for its whole subtree.
func (h *Hub) Enqueue(msg native.Msg) bool {
	kind, ok := Classify(msg)
	if !ok {
		return false
	}
	target := msg.Target()
	if msg.Type == native.MsgDestroy {
		h.gone[target] = true
	} else if len(h.gone) > 0 {
		clear(h.gone)
	}
	queued := props.Set{props.Listener(kind, 0)}
	data := msgData(msg)

	for handle := target; handle != 0; {
		if handle == target || !h.gone[handle] {
			rec, ok := h.records.AtTry(handle)
			if !ok {
				rec = &Record{Handle: handle}
				h.records.Set(handle, rec)
			}
			// Merging the existing kinds last keeps ids already attached.
			rec.Kinds = props.Merge(queued, rec.Kinds)
			if handle == target {
				rec.Data = props.Merge(rec.Data, data)
				rec.Destroyed = rec.Destroyed || msg.Type == native.MsgDestroy
			}
		}

		parent, err := h.backend.Parent(handle)
		if err != nil {
			h.report("event.Enqueue", handle, err)
			break
		}
		handle = parent
	}
	return true
}

// PutListener attaches listeners to the queued kinds of handle. Listeners
// of kinds not queued for handle, and handles never enqueued, are ignored.
func (h *Hub) PutListener(handle native.Handle, listeners props.Set) {
	rec, ok := h.records.AtTry(handle)
	if !ok || len(rec.Kinds) == 0 {
		return
	}
	rec.Kinds = props.Update(rec.Kinds, listeners.Listeners())
}

// Pending reports whether any record has queued kinds.
func (h *Hub) Pending() bool {
	for _, rec := range h.records.Values {
		if len(rec.Kinds) > 0 {
			return true
		}
	}
	return false
}

// Len returns the number of tracked handles.
func (h *Hub) Len() int {
	return h.records.Len()
}

// Record returns a copy of the record of handle.
func (h *Hub) Record(handle native.Handle) (Record, bool) {
	rec, ok := h.records.AtTry(handle)
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// Records returns copies of every record, in first-observation order.
func (h *Hub) Records() []Record {
	out := make([]Record, 0, h.records.Len())
	for _, rec := range h.records.Values {
		out = append(out, *rec)
	}
	return out
}

// Dispatch fires every attached listener at most once and clears the
// queue. It reports whether any listener ran. Records of destroyed handles
// are dropped.
func (h *Hub) Dispatch() bool {
	fired := false
	handles := append([]native.Handle(nil), h.records.Keys...)
	for _, handle := range handles {
		rec, ok := h.records.AtTry(handle)
		if !ok || len(rec.Kinds) == 0 {
			continue
		}
		kinds, queued := rec.Kinds, rec.Data
		rec.Kinds, rec.Data = nil, nil

		var data props.Set
		for _, r := range kinds {
			id, _ := r.Value.(props.ListenerID)
			fn, ok := h.callbacks.Lookup(id)
			if !ok {
				continue
			}
			if data == nil {
				data = props.Merge(h.extras(handle, kinds), queued)
			}
			h.invoke(r.Tag, fn, data)
			fired = true
		}

		if rec.Destroyed {
			h.records.DeleteByKey(handle)
		}
	}
	return fired
}

func (h *Hub) invoke(tag props.Tag, fn props.Callback, data props.Set) {
	defer errors.Recover(h.errs, "event.Dispatch "+tag.String())
	fn(data)
}

// extras queries the live widget for the data handed to listeners. A
// widget that is already gone simply yields less data.
func (h *Hub) extras(handle native.Handle, kinds props.Set) props.Set {
	var out props.Set
	keep := func(err error) bool {
		if err == nil {
			return true
		}
		if !stderrors.Is(err, native.ErrInvalidHandle) && !stderrors.Is(err, native.ErrUnsupported) {
			h.report("event.extras", handle, err)
		}
		return false
	}

	if class, err := h.backend.ClassName(handle); keep(err) {
		out = append(out, props.Class(class))
	}
	if text, err := h.backend.Text(handle); keep(err) {
		out = append(out, props.Title(text))
	}
	if kinds.Has(props.TagOnCreate) || kinds.Has(props.TagOnResize) {
		if r, err := h.backend.WindowRect(handle); keep(err) {
			if parent, err := h.backend.Parent(handle); keep(err) && parent != 0 {
				if local, err := h.backend.ScreenToClient(parent, r); keep(err) {
					r = local
				}
			}
			out = append(out, props.X(r.Left), props.Y(r.Top), props.Width(r.Width()), props.Height(r.Height()))
		}
	}
	if kinds.Has(props.TagOnChange) {
		if class, _ := props.Lookup(out, props.TagClass); class.Value == native.ClassComboBox {
			if idx, err := h.backend.SelectedIndex(handle); keep(err) {
				out = append(out, props.SelectedIndex(idx))
			}
		}
	}
	if kinds.Has(props.TagOnClick) {
		if checked, err := h.backend.Checked(handle); keep(err) {
			out = append(out, props.Selected(checked))
		}
	}
	return out
}
