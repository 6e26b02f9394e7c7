package core

import "strconv"

// Path is the position of a node in the virtual tree. The root is "".
type Path string

// RootPath is the path of the root node.
const RootPath Path = ""

// SlotPath returns the path of the child at slot i of a fixed group.
func SlotPath(p Path, i int) Path {
	return p + ":" + Path(strconv.Itoa(i))
}

// IndexPath returns the path of the element at index i of a list.
func IndexPath(p Path, i int) Path {
	return p + "[" + Path(strconv.Itoa(i)) + "]"
}
