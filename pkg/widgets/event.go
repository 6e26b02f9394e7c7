package widgets

import "github.com/go-drift/retain/pkg/props"

// Event is the data handed to a listener.
type Event struct {
	Data props.Set
}

// Class returns the native class of the widget.
func (e Event) Class() string {
	s, _ := e.Data.Text(props.TagClass)
	return s
}

// Text returns the widget's current title or text.
func (e Event) Text() string {
	s, _ := e.Data.Text(props.TagTitle)
	return s
}

// Checked returns the check state of a check box or radio button.
func (e Event) Checked() bool {
	v, _ := e.Data.Bool(props.TagSelected)
	return v
}

// SelectedIndex returns the selection of a drop-down list, or -1.
func (e Event) SelectedIndex() int {
	if v, ok := e.Data.Int(props.TagSelectedIndex); ok {
		return v
	}
	return -1
}

// Size returns the widget size carried by create and resize events.
func (e Event) Size() (width, height int) {
	width, _ = e.Data.Int(props.TagWidth)
	height, _ = e.Data.Int(props.TagHeight)
	return width, height
}
