// Package core provides the virtual tree and its reconciliation against live
// native widgets.
//
// An application describes its UI as a tree of [Node] values rebuilt from
// scratch on every render. Each node contributes a [props.Set] and may have
// children. [Tree.Render] walks the tree and reconciles it against a
// [Context], the persistent map from tree position to [WidgetState].
//
// # Identity
//
// A node's identity is its position. The root lives at path "", the single
// child of a node at slot 0, group children at "{path}:{slot}" and list
// children at "{path}[{index}]":
//
//	window            ""
//	  group           ":0"
//	    label         ":0:0"
//	    list          ":0:1"
//	      button      ":0:1[0]"
//	      button      ":0:1[1]"
//
// Removing an element from the middle of a list shifts every later element
// onto its predecessor's widget.
//
// # Render modes
//
// A Full render (no incoming message) creates or updates native widgets
// and runs the first layout of every newly established container. An Apply
// render (incoming message) touches no native state at all: it only
// refreshes the listener subset of every existing WidgetState and hands the
// fresh listeners to the event hub.
package core
