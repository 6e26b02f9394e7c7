package platform

import (
	"fmt"
	"sync"

	"github.com/go-drift/retain/pkg/errors"
	"github.com/go-drift/retain/pkg/geom"
	"github.com/go-drift/retain/pkg/native"
)

// ChannelName is the method channel carrying widget operations.
const ChannelName = "retain/native"

// Rect is the wire form of a rectangle.
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

func wireRect(r geom.Rect) Rect {
	return Rect{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom}
}

func (r Rect) geom() geom.Rect {
	return geom.Rect{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom}
}

// Bridge is a native.Backend whose widgets live on the far side of a
// NativeBridge.
//
// Posted notifications may arrive through HandleEvent from any goroutine
// and are queued for Peek. Sent notifications (create, size and destroy
// produced by a widget operation) must be delivered synchronously, on the
// UI thread, while that operation's InvokeMethod call is in progress.
type Bridge struct {
	channel *MethodChannel
	errs    errors.ErrorHandler

	mu     sync.Mutex
	queue  []native.Msg
	hook   native.Hook
	closed bool
}

// NewBridge creates a backend invoking methods over nb. Failures of
// Translate and Dispatch, which cannot return errors, are reported to errs.
func NewBridge(nb NativeBridge, errs errors.ErrorHandler) *Bridge {
	return &Bridge{
		channel: NewMethodChannel(ChannelName, nb),
		errs:    errs,
	}
}

func (b *Bridge) invoke(method string, args map[string]any, out any) error {
	return b.channel.InvokeInto(method, args, out)
}

func (b *Bridge) report(op string, h native.Handle, err error) {
	errors.Report(b.errs, &errors.EngineError{
		Op:     op,
		Kind:   errors.KindBackend,
		Handle: uintptr(h),
		Err:    err,
	})
}

// Init implements native.Backend.
func (b *Bridge) Init() error {
	return b.invoke("init", nil, nil)
}

// CreateWidget implements native.Backend.
func (b *Bridge) CreateWidget(p native.CreateParams) (native.Handle, error) {
	var h native.Handle
	err := b.invoke("createWidget", map[string]any{
		"class":  p.Class,
		"style":  p.Style,
		"parent": p.Parent,
		"id":     p.ID,
		"title":  p.Title,
		"rect":   wireRect(p.Rect),
	}, &h)
	if err != nil {
		return 0, err
	}
	if h == 0 {
		return 0, fmt.Errorf("createWidget %s: native side returned a null handle", p.Class)
	}
	return h, nil
}

// Destroy implements native.Backend.
func (b *Bridge) Destroy(h native.Handle) error {
	return b.invoke("destroy", map[string]any{"handle": h}, nil)
}

// ClassName implements native.Backend.
func (b *Bridge) ClassName(h native.Handle) (string, error) {
	var class string
	err := b.invoke("className", map[string]any{"handle": h}, &class)
	return class, err
}

// Parent implements native.Backend.
func (b *Bridge) Parent(h native.Handle) (native.Handle, error) {
	var parent native.Handle
	err := b.invoke("parent", map[string]any{"handle": h}, &parent)
	return parent, err
}

// Children implements native.Backend.
func (b *Bridge) Children(h native.Handle) ([]native.Handle, error) {
	var children []native.Handle
	err := b.invoke("children", map[string]any{"handle": h}, &children)
	return children, err
}

// Text implements native.Backend.
func (b *Bridge) Text(h native.Handle) (string, error) {
	var text string
	err := b.invoke("text", map[string]any{"handle": h}, &text)
	return text, err
}

// SetText implements native.Backend.
func (b *Bridge) SetText(h native.Handle, text string) error {
	return b.invoke("setText", map[string]any{"handle": h, "text": text}, nil)
}

// CreateFont implements native.Backend.
func (b *Bridge) CreateFont(face string) (native.Font, error) {
	var f native.Font
	err := b.invoke("createFont", map[string]any{"face": face}, &f)
	return f, err
}

// FontFace implements native.Backend.
func (b *Bridge) FontFace(f native.Font) (string, error) {
	var face string
	err := b.invoke("fontFace", map[string]any{"font": f}, &face)
	return face, err
}

// Font implements native.Backend.
func (b *Bridge) Font(h native.Handle) (native.Font, error) {
	var f native.Font
	err := b.invoke("font", map[string]any{"handle": h}, &f)
	return f, err
}

// SetFont implements native.Backend.
func (b *Bridge) SetFont(h native.Handle, f native.Font) error {
	return b.invoke("setFont", map[string]any{"handle": h, "font": f}, nil)
}

// MeasureText implements native.Backend.
func (b *Bridge) MeasureText(f native.Font, text string) (int, int, error) {
	var extent struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	err := b.invoke("measureText", map[string]any{"font": f, "text": text}, &extent)
	return extent.Width, extent.Height, err
}

func (b *Bridge) rect(method string, h native.Handle) (geom.Rect, error) {
	var r Rect
	if err := b.invoke(method, map[string]any{"handle": h}, &r); err != nil {
		return geom.Rect{}, err
	}
	return r.geom(), nil
}

// WindowRect implements native.Backend.
func (b *Bridge) WindowRect(h native.Handle) (geom.Rect, error) {
	return b.rect("windowRect", h)
}

// SetWindowRect implements native.Backend.
func (b *Bridge) SetWindowRect(h native.Handle, r geom.Rect) error {
	return b.invoke("setWindowRect", map[string]any{"handle": h, "rect": wireRect(r)}, nil)
}

// ClientRect implements native.Backend.
func (b *Bridge) ClientRect(h native.Handle) (geom.Rect, error) {
	return b.rect("clientRect", h)
}

// ScreenToClient implements native.Backend.
func (b *Bridge) ScreenToClient(h native.Handle, r geom.Rect) (geom.Rect, error) {
	var out Rect
	if err := b.invoke("screenToClient", map[string]any{"handle": h, "rect": wireRect(r)}, &out); err != nil {
		return geom.Rect{}, err
	}
	return out.geom(), nil
}

// IsMaximized implements native.Backend.
func (b *Bridge) IsMaximized(h native.Handle) (bool, error) {
	var maximized bool
	err := b.invoke("isMaximized", map[string]any{"handle": h}, &maximized)
	return maximized, err
}

// SetVisible implements native.Backend.
func (b *Bridge) SetVisible(h native.Handle, visible bool) error {
	return b.invoke("setVisible", map[string]any{"handle": h, "visible": visible}, nil)
}

// Checked implements native.Backend.
func (b *Bridge) Checked(h native.Handle) (bool, error) {
	var checked bool
	err := b.invoke("checked", map[string]any{"handle": h}, &checked)
	return checked, err
}

// SetChecked implements native.Backend.
func (b *Bridge) SetChecked(h native.Handle, checked bool) error {
	return b.invoke("setChecked", map[string]any{"handle": h, "checked": checked}, nil)
}

// Items implements native.Backend.
func (b *Bridge) Items(h native.Handle) ([]string, error) {
	var items []string
	err := b.invoke("items", map[string]any{"handle": h}, &items)
	return items, err
}

// SetItems implements native.Backend.
func (b *Bridge) SetItems(h native.Handle, items []string) error {
	if items == nil {
		items = []string{}
	}
	return b.invoke("setItems", map[string]any{"handle": h, "items": items}, nil)
}

// SelectedIndex implements native.Backend.
func (b *Bridge) SelectedIndex(h native.Handle) (int, error) {
	index := -1
	err := b.invoke("selectedIndex", map[string]any{"handle": h}, &index)
	return index, err
}

// SetSelectedIndex implements native.Backend.
func (b *Bridge) SetSelectedIndex(h native.Handle, index int) error {
	return b.invoke("setSelectedIndex", map[string]any{"handle": h, "index": index}, nil)
}

// ItemText implements native.Backend.
func (b *Bridge) ItemText(h native.Handle, index int) (string, error) {
	var text string
	err := b.invoke("itemText", map[string]any{"handle": h, "index": index}, &text)
	return text, err
}

// Move is one entry of a committed batch.
type Move struct {
	Handle native.Handle `json:"handle"`
	Rect   Rect          `json:"rect"`
}

type batch struct {
	bridge *Bridge
	moves  []Move
	done   bool
}

// BeginBatch implements native.Backend. Moves are buffered locally and
// sent in a single commitBatch call.
func (b *Bridge) BeginBatch(n int) (native.Batch, error) {
	return &batch{bridge: b, moves: make([]Move, 0, n)}, nil
}

func (bt *batch) Move(h native.Handle, r geom.Rect) {
	bt.moves = append(bt.moves, Move{Handle: h, Rect: wireRect(r)})
}

func (bt *batch) Commit() error {
	if bt.done {
		return nil
	}
	bt.done = true
	return bt.bridge.invoke("commitBatch", map[string]any{"moves": bt.moves}, nil)
}

// SetHook implements native.Backend.
func (b *Bridge) SetHook(hook native.Hook) {
	b.mu.Lock()
	b.hook = hook
	b.mu.Unlock()
}

// Peek implements native.Backend.
func (b *Bridge) Peek() (native.Msg, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queue) == 0 {
		return native.Msg{}, false
	}
	msg := b.queue[0]
	b.queue = b.queue[1:]
	return msg, true
}

// Translate implements native.Backend.
func (b *Bridge) Translate(msg native.Msg) {
	if err := b.invoke("translate", encodeMsg(msg, false), nil); err != nil {
		b.report("platform.Translate", msg.Handle, err)
	}
}

// Dispatch implements native.Backend: the hook sees msg first, then the
// native side runs its default processing.
func (b *Bridge) Dispatch(msg native.Msg) {
	b.send(msg)
	if err := b.invoke("defaultProc", encodeMsg(msg, false), nil); err != nil {
		b.report("platform.Dispatch", msg.Handle, err)
	}
}

func (b *Bridge) send(msg native.Msg) {
	b.mu.Lock()
	hook := b.hook
	b.mu.Unlock()
	if hook != nil {
		hook(msg)
	}
}

// Pending returns the number of queued notifications.
func (b *Bridge) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// HandleEvent is called by the embedder when native sends a notification.
// The payload is a codec-encoded object with the fields "type", "handle",
// "source", "code", "key", "rect" and "sent".
func (b *Bridge) HandleEvent(eventData []byte) error {
	data, err := b.channel.codec.Decode(eventData)
	if err != nil {
		return err
	}
	m := parseMap(data)
	if m == nil {
		return fmt.Errorf("%w: event is not an object", ErrInvalidArguments)
	}
	msg, sent, err := decodeMsg(m)
	if err != nil {
		return err
	}

	if sent {
		b.send(msg)
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	b.queue = append(b.queue, msg)
	return nil
}

// Close stops accepting posted notifications and queues a quit message.
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.queue = append(b.queue, native.Msg{Type: native.MsgQuit})
}

func encodeMsg(msg native.Msg, sent bool) map[string]any {
	return map[string]any{
		"type":   msg.Type.String(),
		"handle": msg.Handle,
		"source": msg.Source,
		"code":   msg.Code,
		"key":    msg.Key,
		"rect":   wireRect(msg.Rect),
		"sent":   sent,
	}
}

func decodeMsg(m map[string]any) (native.Msg, bool, error) {
	name := parseString(m["type"])
	t, ok := parseMsgType(name)
	if !ok {
		return native.Msg{}, false, fmt.Errorf("%w: unknown message type %q", ErrInvalidArguments, name)
	}
	handle, _ := toInt(m["handle"])
	source, _ := toInt(m["source"])
	code, _ := toInt(m["code"])
	key, _ := toInt(m["key"])
	return native.Msg{
		Type:   t,
		Handle: native.Handle(handle),
		Source: native.Handle(source),
		Code:   native.NotifyCode(code),
		Key:    native.KeyCode(key),
		Rect:   parseRect(m["rect"]),
	}, parseBool(m["sent"]), nil
}

func parseMsgType(name string) (native.MsgType, bool) {
	for t := native.MsgNone; t <= native.MsgQuit; t++ {
		if t.String() == name {
			return t, true
		}
	}
	return native.MsgNone, false
}
