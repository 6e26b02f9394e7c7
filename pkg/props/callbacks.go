package props

// ListenerID is an opaque reference to a callback in a [Callbacks] table.
// The zero ID names no callback: a listener record holding it only marks
// that the listener kind is present.
type ListenerID uint64

// Callback receives the merged extra data of a dispatched event.
type Callback func(data Set)

// Binder allocates listener ids for callbacks.
type Binder interface {
	Bind(fn Callback) ListenerID
}

// Discard is a Binder that binds nothing. Passes that never read listeners
// use it so computing a view state has no side effect at all.
var Discard Binder = discardBinder{}

type discardBinder struct{}

func (discardBinder) Bind(Callback) ListenerID { return 0 }

// Callbacks is the side table from listener id to callback. It is owned by
// one engine and only touched from the UI thread.
//
// Ids are never reused: Reset drops every callback but keeps counting, so a
// stale id left in some widget state resolves to nothing rather than to an
// unrelated closure.
type Callbacks struct {
	next ListenerID
	fns  map[ListenerID]Callback
}

// NewCallbacks creates an empty table.
func NewCallbacks() *Callbacks {
	return &Callbacks{fns: make(map[ListenerID]Callback)}
}

// Bind stores fn and returns its id. A nil fn yields the zero id.
func (c *Callbacks) Bind(fn Callback) ListenerID {
	if fn == nil {
		return 0
	}
	if c.fns == nil {
		c.fns = make(map[ListenerID]Callback)
	}
	c.next++
	c.fns[c.next] = fn
	return c.next
}

// Lookup resolves id.
func (c *Callbacks) Lookup(id ListenerID) (Callback, bool) {
	if id == 0 {
		return nil, false
	}
	fn, ok := c.fns[id]
	return fn, ok
}

// Reset drops every callback.
func (c *Callbacks) Reset() {
	clear(c.fns)
}

// Len returns the number of live callbacks.
func (c *Callbacks) Len() int {
	return len(c.fns)
}
