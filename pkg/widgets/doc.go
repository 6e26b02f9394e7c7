// Package widgets provides the native widget kinds as virtual tree nodes.
//
// Every constructor returns a [Widget] value. WithX methods return a copy
// with one property replaced, so partial widgets can be shared and
// specialized freely:
//
//	ok := widgets.Button("OK").WithSize(80, 24).WithAnchor(anchor.Right | anchor.Bottom)
//
//	widgets.Window("Counter").WithSize(320, 200).WithContent(
//	    widgets.Label(fmt.Sprintf("Count: %d", count)).WithPos(10, 10),
//	    ok.WithPos(220, 150).OnClick(func(widgets.Event) { count++ }),
//	)
//
// Listener functions are bound afresh on every render, so they may close
// over state that the application replaces between renders.
package widgets
