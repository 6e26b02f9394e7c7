// Package props implements the property-set algebra used to describe and
// diff widget state.
//
// A [Set] is an ordered list of [Record] values with at most one record per
// [Tag]. Sets are plain data: listener records carry an opaque [ListenerID]
// that is resolved through a [Callbacks] side table, never a Go func, so two
// sets can always be compared with [Set.Equal].
//
// Builder-style mutators compose through [Merge]. Refreshing the listeners
// of an existing widget goes through [Update], which never grows the key set.
package props

import (
	"fmt"
	"slices"

	"github.com/go-drift/retain/pkg/anchor"
)

// Tag identifies the kind of a property record.
type Tag uint8

const (
	TagRender Tag = iota
	TagClass
	TagTitle
	TagX
	TagY
	TagWidth
	TagHeight
	TagFont
	TagAnchor
	TagSelected
	TagItems
	TagSelectedIndex
	TagOnCreate
	TagOnClick
	TagOnChange
	TagOnResize
	TagOnDestroy

	numTags
)

var tagNames = [numTags]string{
	TagRender:        "render",
	TagClass:         "class",
	TagTitle:         "title",
	TagX:             "x",
	TagY:             "y",
	TagWidth:         "width",
	TagHeight:        "height",
	TagFont:          "font",
	TagAnchor:        "anchor",
	TagSelected:      "selected",
	TagItems:         "items",
	TagSelectedIndex: "selectedIndex",
	TagOnCreate:      "onCreate",
	TagOnClick:       "onClick",
	TagOnChange:      "onChange",
	TagOnResize:      "onResize",
	TagOnDestroy:     "onDestroy",
}

func (t Tag) String() string {
	if t < numTags {
		return tagNames[t]
	}
	return fmt.Sprintf("Tag(%d)", uint8(t))
}

// ListenerTags lists the lifecycle listener tags in dispatch order.
var ListenerTags = []Tag{TagOnCreate, TagOnClick, TagOnChange, TagOnResize, TagOnDestroy}

// IsListener reports whether t is a lifecycle listener tag.
func (t Tag) IsListener() bool {
	return t >= TagOnCreate && t <= TagOnDestroy
}

// RenderKind names the widget variant a node renders to.
type RenderKind uint8

const (
	KindNone RenderKind = iota
	KindWindow
	KindPanel
	KindButton
	KindLabel
	KindTextBox
	KindCheckBox
	KindRadioBox
	KindGroupBox
	KindSelect
)

var kindNames = [...]string{
	KindNone:     "none",
	KindWindow:   "window",
	KindPanel:    "panel",
	KindButton:   "button",
	KindLabel:    "label",
	KindTextBox:  "textbox",
	KindCheckBox: "checkbox",
	KindRadioBox: "radiobox",
	KindGroupBox: "groupbox",
	KindSelect:   "select",
}

func (k RenderKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("RenderKind(%d)", uint8(k))
}

// IsContainer reports whether widgets of kind k own a layout of their own.
func (k RenderKind) IsContainer() bool {
	return k == KindWindow || k == KindPanel
}

// Record is a single tagged property value.
type Record struct {
	Tag   Tag
	Value any
}

// Equal reports whether two records carry the same tag and value.
func (r Record) Equal(o Record) bool {
	if r.Tag != o.Tag {
		return false
	}
	if a, ok := r.Value.([]string); ok {
		b, ok := o.Value.([]string)
		return ok && slices.Equal(a, b)
	}
	return r.Value == o.Value
}

func (r Record) String() string {
	return fmt.Sprintf("%s=%v", r.Tag, r.Value)
}

func Render(k RenderKind) Record    { return Record{Tag: TagRender, Value: k} }
func Class(name string) Record      { return Record{Tag: TagClass, Value: name} }
func Title(text string) Record      { return Record{Tag: TagTitle, Value: text} }
func X(v int) Record                { return Record{Tag: TagX, Value: v} }
func Y(v int) Record                { return Record{Tag: TagY, Value: v} }
func Width(v int) Record            { return Record{Tag: TagWidth, Value: v} }
func Height(v int) Record           { return Record{Tag: TagHeight, Value: v} }
func Font(face string) Record       { return Record{Tag: TagFont, Value: face} }
func Anchor(f anchor.Flags) Record  { return Record{Tag: TagAnchor, Value: f} }
func Selected(v bool) Record        { return Record{Tag: TagSelected, Value: v} }
func SelectedIndex(i int) Record    { return Record{Tag: TagSelectedIndex, Value: i} }

// Items returns a list-items record holding a copy of items.
func Items(items ...string) Record {
	return Record{Tag: TagItems, Value: slices.Clone(items)}
}

// Listener returns a listener record. It panics if tag is not a listener tag.
func Listener(tag Tag, id ListenerID) Record {
	if !tag.IsListener() {
		panic(fmt.Sprintf("props: %s is not a listener tag", tag))
	}
	return Record{Tag: tag, Value: id}
}
