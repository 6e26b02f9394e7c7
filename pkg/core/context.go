package core

import (
	"slices"

	"src.elv.sh/pkg/persistent/hash"
	"src.elv.sh/pkg/persistent/hashmap"

	"github.com/go-drift/retain/pkg/native"
)

// Context is the immutable map from Path to WidgetState. Every With or
// Without returns a new Context sharing structure with the old one, so a
// render can be abandoned halfway without corrupting the previous value.
//
// The zero Context is empty and ready to use.
type Context struct {
	m hashmap.Map
}

var emptyMap = hashmap.New(equalPath, hashPath)

func equalPath(a, b any) bool { return a.(Path) == b.(Path) }
func hashPath(k any) uint32   { return hash.String(string(k.(Path))) }

func (c Context) inner() hashmap.Map {
	if c.m == nil {
		return emptyMap
	}
	return c.m
}

// NewContext returns an empty context.
func NewContext() Context {
	return Context{m: emptyMap}
}

// Lookup returns the state stored at p.
func (c Context) Lookup(p Path) (WidgetState, bool) {
	v, ok := c.inner().Index(p)
	if !ok {
		return WidgetState{}, false
	}
	return v.(WidgetState), true
}

// With returns a context that maps p to s.
func (c Context) With(p Path, s WidgetState) Context {
	return Context{m: c.inner().Assoc(p, s)}
}

// Without returns a context with no state at p.
func (c Context) Without(p Path) Context {
	return Context{m: c.inner().Dissoc(p)}
}

// Len returns the number of stored states.
func (c Context) Len() int {
	return c.inner().Len()
}

// Each calls fn for every entry, in no particular order.
func (c Context) Each(fn func(Path, WidgetState)) {
	for it := c.inner().Iterator(); it.HasElem(); it.Next() {
		k, v := it.Elem()
		fn(k.(Path), v.(WidgetState))
	}
}

// Paths returns every stored path, sorted.
func (c Context) Paths() []Path {
	paths := make([]Path, 0, c.Len())
	c.Each(func(p Path, _ WidgetState) { paths = append(paths, p) })
	slices.Sort(paths)
	return paths
}

// Find returns the path and state owning handle h.
func (c Context) Find(h native.Handle) (Path, WidgetState, bool) {
	for it := c.inner().Iterator(); it.HasElem(); it.Next() {
		k, v := it.Elem()
		if s := v.(WidgetState); s.Handle == h {
			return k.(Path), s, true
		}
	}
	return "", WidgetState{}, false
}
