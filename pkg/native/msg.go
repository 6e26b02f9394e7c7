package native

import (
	"fmt"

	"github.com/go-drift/retain/pkg/geom"
)

// MsgType is the kind of a raw native message.
type MsgType int

const (
	MsgNone MsgType = iota
	MsgCreate
	MsgDestroy
	MsgSize
	MsgCommand
	MsgKeyDown
	MsgClose
	MsgIdle
	MsgQuit
)

var msgTypeNames = [...]string{
	MsgNone:    "none",
	MsgCreate:  "create",
	MsgDestroy: "destroy",
	MsgSize:    "size",
	MsgCommand: "command",
	MsgKeyDown: "keydown",
	MsgClose:   "close",
	MsgIdle:    "idle",
	MsgQuit:    "quit",
}

func (t MsgType) String() string {
	if t >= 0 && int(t) < len(msgTypeNames) {
		return msgTypeNames[t]
	}
	return fmt.Sprintf("MsgType(%d)", int(t))
}

// NotifyCode is the secondary discriminant of a MsgCommand.
type NotifyCode int

const (
	NotifyNone NotifyCode = iota
	BNClicked
	ENChange
	CBNSelChange
	LBNSelChange
	ENSetFocus
	ENKillFocus
)

// KeyCode is a virtual key code carried by MsgKeyDown.
type KeyCode int

const (
	KeyNone   KeyCode = 0
	KeyReturn KeyCode = 0x0D
	KeyEscape KeyCode = 0x1B
	KeySpace  KeyCode = 0x20
	KeyTab    KeyCode = 0x09
)

// Msg is a raw native message.
type Msg struct {
	Type MsgType
	// Handle is the window the message was delivered to.
	Handle Handle
	// Source is the originating control for notifications delivered to a
	// parent (MsgCommand). Zero otherwise.
	Source Handle
	Code   NotifyCode
	Key    KeyCode
	// Rect is the new client rectangle for MsgSize.
	Rect geom.Rect
}

// Target returns the widget the message is about: the source control for
// parent notifications, the receiving window otherwise.
func (m Msg) Target() Handle {
	if m.Source != 0 {
		return m.Source
	}
	return m.Handle
}
