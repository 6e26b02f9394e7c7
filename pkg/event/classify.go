// Package event turns raw native messages into listener invocations.
//
// Messages are classified into at most one listener kind, bubbled up the
// native parent chain, coalesced per handle, and dispatched once per tick.
package event

import (
	"github.com/go-drift/retain/pkg/native"
	"github.com/go-drift/retain/pkg/props"
)

// Classify maps a native message to the listener kind it triggers.
func Classify(msg native.Msg) (props.Tag, bool) {
	switch msg.Type {
	case native.MsgCreate:
		return props.TagOnCreate, true
	case native.MsgSize:
		return props.TagOnResize, true
	case native.MsgDestroy:
		return props.TagOnDestroy, true
	case native.MsgCommand:
		switch msg.Code {
		case native.BNClicked:
			return props.TagOnClick, true
		case native.CBNSelChange, native.LBNSelChange, native.ENChange:
			return props.TagOnChange, true
		}
	case native.MsgKeyDown:
		switch msg.Key {
		case native.KeyReturn, native.KeySpace:
			return props.TagOnClick, true
		}
	}
	return 0, false
}
