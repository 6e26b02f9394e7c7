package props

import (
	"strings"

	"github.com/go-drift/retain/pkg/anchor"
)

// Set is an ordered sequence of records with at most one record per tag.
// Order carries no meaning; it only keeps output deterministic.
type Set []Record

// Merge keeps every record of a whose tag is absent from b, then appends b.
// The later record wins on any repeated tag, across a and b or within
// either of them, so the result never holds duplicate tags.
func Merge(a, b Set) Set {
	out := make(Set, 0, len(a)+len(b))
	put := func(r Record) {
		if i, ok := out.index(r.Tag); ok {
			out[i] = r
			return
		}
		out = append(out, r)
	}
	for _, r := range a {
		if !b.Has(r.Tag) {
			put(r)
		}
	}
	for _, r := range b {
		put(r)
	}
	return out
}

// Update replaces the records of a whose tags appear in b and drops every
// other record of b. The tag set of the result always equals that of a.
func Update(a, b Set) Set {
	kept := make(Set, 0, len(b))
	for _, r := range b {
		if a.Has(r.Tag) {
			kept = append(kept, r)
		}
	}
	return Merge(a, kept)
}

// Lookup returns the record for tag, if present.
func Lookup(s Set, tag Tag) (Record, bool) {
	if i, ok := s.index(tag); ok {
		return s[i], true
	}
	return Record{}, false
}

func (s Set) index(tag Tag) (int, bool) {
	for i, r := range s {
		if r.Tag == tag {
			return i, true
		}
	}
	return -1, false
}

// With merges records into s.
func (s Set) With(records ...Record) Set {
	return Merge(s, Set(records))
}

// Has reports whether s holds a record for tag.
func (s Set) Has(tag Tag) bool {
	_, ok := s.index(tag)
	return ok
}

// Tags returns the tags of s in order.
func (s Set) Tags() []Tag {
	tags := make([]Tag, len(s))
	for i, r := range s {
		tags[i] = r.Tag
	}
	return tags
}

// Filter returns the records of s for which keep returns true.
func (s Set) Filter(keep func(Record) bool) Set {
	var out Set
	for _, r := range s {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Listeners returns the lifecycle listener records of s.
func (s Set) Listeners() Set {
	return s.Filter(func(r Record) bool { return r.Tag.IsListener() })
}

// Equal reports whether s and o hold equal records, regardless of order.
func (s Set) Equal(o Set) bool {
	if len(s) != len(o) {
		return false
	}
	for _, r := range s {
		other, ok := Lookup(o, r.Tag)
		if !ok || !r.Equal(other) {
			return false
		}
	}
	return true
}

func (s Set) String() string {
	parts := make([]string, len(s))
	for i, r := range s {
		parts[i] = r.String()
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// Kind returns the render kind, or KindNone when absent.
func (s Set) Kind() RenderKind {
	if r, ok := Lookup(s, TagRender); ok {
		if k, ok := r.Value.(RenderKind); ok {
			return k
		}
	}
	return KindNone
}

// Text returns the string value stored under tag.
func (s Set) Text(tag Tag) (string, bool) {
	r, ok := Lookup(s, tag)
	if !ok {
		return "", false
	}
	v, ok := r.Value.(string)
	return v, ok
}

// Int returns the int value stored under tag.
func (s Set) Int(tag Tag) (int, bool) {
	r, ok := Lookup(s, tag)
	if !ok {
		return 0, false
	}
	v, ok := r.Value.(int)
	return v, ok
}

// Bool returns the bool value stored under tag.
func (s Set) Bool(tag Tag) (bool, bool) {
	r, ok := Lookup(s, tag)
	if !ok {
		return false, false
	}
	v, ok := r.Value.(bool)
	return v, ok
}

// Strings returns the list value stored under tag.
func (s Set) Strings(tag Tag) ([]string, bool) {
	r, ok := Lookup(s, tag)
	if !ok {
		return nil, false
	}
	v, ok := r.Value.([]string)
	return v, ok
}

// AnchorFlags returns the anchor flags, or anchor.None when absent.
func (s Set) AnchorFlags() anchor.Flags {
	if r, ok := Lookup(s, TagAnchor); ok {
		if f, ok := r.Value.(anchor.Flags); ok {
			return f
		}
	}
	return anchor.None
}

// Listener returns the listener id stored under tag.
func (s Set) Listener(tag Tag) (ListenerID, bool) {
	r, ok := Lookup(s, tag)
	if !ok {
		return 0, false
	}
	v, ok := r.Value.(ListenerID)
	return v, ok
}
