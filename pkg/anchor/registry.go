package anchor

import (
	"github.com/go-drift/retain/pkg/errors"
	"github.com/go-drift/retain/pkg/geom"
	"github.com/go-drift/retain/pkg/native"
)

// Registry holds the anchor maps of every container of one engine.
type Registry struct {
	backend native.Backend
	errs    errors.ErrorHandler
	maps    map[native.Handle]*Map
}

// NewRegistry creates an empty registry.
func NewRegistry(backend native.Backend, errs errors.ErrorHandler) *Registry {
	return &Registry{
		backend: backend,
		errs:    errs,
		maps:    make(map[native.Handle]*Map),
	}
}

// For returns the map of parent, creating it on first use.
func (r *Registry) For(parent native.Handle) *Map {
	m, ok := r.maps[parent]
	if !ok {
		m = NewMap(r.backend, parent, r.errs)
		r.maps[parent] = m
	}
	return m
}

// Lookup returns the map of parent, if any.
func (r *Registry) Lookup(parent native.Handle) (*Map, bool) {
	m, ok := r.maps[parent]
	return m, ok
}

// Register adds widget h with control id to the map of parent. Top-level
// widgets (parent zero) are not managed.
func (r *Registry) Register(parent native.Handle, id int, h native.Handle, flags Flags) {
	if parent == 0 {
		return
	}
	r.For(parent).Add(id, h, flags)
}

// Unregister forgets h: its entry in any parent map and its own map.
func (r *Registry) Unregister(h native.Handle) {
	delete(r.maps, h)
	for _, m := range r.maps {
		if m.Remove(h) {
			return
		}
	}
}

// HandleResize re-applies the layout of parent for a new client rectangle.
// It reports whether parent has an initialized map.
func (r *Registry) HandleResize(parent native.Handle, client geom.Rect) bool {
	m, ok := r.maps[parent]
	if !ok || !m.Initialized() {
		return false
	}
	m.HandleAnchors(&client)
	return true
}

// Len returns the number of maps.
func (r *Registry) Len() int {
	return len(r.maps)
}
