package core

import "github.com/go-drift/retain/pkg/props"

// Node is one element of the virtual tree.
//
// ViewState must not touch native state. Listener callbacks are bound
// through b, which hands back the id to store in the listener record.
//
// A node may also implement one of the child shapes:
//
//	interface{ Child() Node }    // one child at slot 0
//	interface{ Slots() []Node }  // fixed group, child paths "{path}:{slot}"
//	interface{ Items() []Node }  // list, child paths "{path}[{index}]"
type Node interface {
	ViewState(b props.Binder) props.Set
}

// NodeBase gives a node the empty view state.
type NodeBase struct{}

func (NodeBase) ViewState(props.Binder) props.Set { return nil }

// Empty is a node that renders nothing.
type Empty struct{ NodeBase }

// Group is a fixed sequence of children. It renders nothing itself.
type Group []Node

func (Group) ViewState(props.Binder) props.Set { return nil }

// Slots returns the group's children.
func (g Group) Slots() []Node { return g }

// List is a dynamic sequence of children whose identity is their index.
type List []Node

func (List) ViewState(props.Binder) props.Set { return nil }

// Items returns the list's elements.
func (l List) Items() []Node { return l }

// Map builds a List from items.
func Map[T any](items []T, fn func(i int, item T) Node) List {
	out := make(List, len(items))
	for i, item := range items {
		out[i] = fn(i, item)
	}
	return out
}

type child struct {
	node Node
	path Path
}

// children returns the children of n with their paths. Nil children keep
// their position but are skipped.
func children(n Node, path Path) []child {
	var out []child
	switch n := n.(type) {
	case interface{ Child() Node }:
		if c := n.Child(); c != nil {
			out = append(out, child{node: c, path: SlotPath(path, 0)})
		}
	case interface{ Slots() []Node }:
		for i, c := range n.Slots() {
			if c != nil {
				out = append(out, child{node: c, path: SlotPath(path, i)})
			}
		}
	case interface{ Items() []Node }:
		for i, c := range n.Items() {
			if c != nil {
				out = append(out, child{node: c, path: IndexPath(path, i)})
			}
		}
	}
	return out
}
