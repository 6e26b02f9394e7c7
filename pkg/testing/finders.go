package testing

import (
	"fmt"
	"strings"

	"github.com/go-drift/retain/pkg/core"
	"github.com/go-drift/retain/pkg/native"
	"github.com/go-drift/retain/pkg/native/headless"
	"github.com/go-drift/retain/pkg/props"
)

// Element is one rendered widget: its path, its reconciliation state and
// a snapshot of the native widget.
type Element struct {
	Path  core.Path
	State core.WidgetState
	Info  headless.Info
}

// Handle returns the native handle of e.
func (e Element) Handle() native.Handle {
	return e.State.Handle
}

// Finder locates rendered widgets.
type Finder interface {
	// Evaluate returns the matching elements, keeping their path order.
	Evaluate(elements []Element) []Element
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	elements []Element
	finder   Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() Element {
	if len(r.elements) == 0 {
		desc := "unknown"
		if r.finder != nil {
			desc = r.finder.Description()
		}
		panic(fmt.Sprintf("finder matched no elements: %s", desc))
	}
	return r.elements[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) Element {
	if index < 0 || index >= len(r.elements) {
		panic(fmt.Sprintf("index %d out of range [0, %d)", index, len(r.elements)))
	}
	return r.elements[index]
}

// All returns every match.
func (r FinderResult) All() []Element {
	return r.elements
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.elements)
}

// Exists reports whether anything matched.
func (r FinderResult) Exists() bool {
	return len(r.elements) > 0
}

type predicateFinder struct {
	match func(Element) bool
	desc  string
}

func (f *predicateFinder) Evaluate(elements []Element) []Element {
	var out []Element
	for _, e := range elements {
		if f.match(e) {
			out = append(out, e)
		}
	}
	return out
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByText finds widgets whose native text equals text.
func ByText(text string) Finder {
	return &predicateFinder{
		match: func(e Element) bool { return e.Info.Text == text },
		desc:  fmt.Sprintf("ByText(%q)", text),
	}
}

// ByTextContaining finds widgets whose native text contains substring.
func ByTextContaining(substring string) Finder {
	return &predicateFinder{
		match: func(e Element) bool { return strings.Contains(e.Info.Text, substring) },
		desc:  fmt.Sprintf("ByTextContaining(%q)", substring),
	}
}

// ByClass finds widgets of a native class.
func ByClass(class string) Finder {
	return &predicateFinder{
		match: func(e Element) bool { return e.Info.Class == class },
		desc:  fmt.Sprintf("ByClass(%q)", class),
	}
}

// ByKind finds widgets rendered from a given render kind.
func ByKind(kind props.RenderKind) Finder {
	return &predicateFinder{
		match: func(e Element) bool { return e.State.Kind == kind },
		desc:  fmt.Sprintf("ByKind(%s)", kind),
	}
}

// ByPath finds the widget rendered at path.
func ByPath(path core.Path) Finder {
	return &predicateFinder{
		match: func(e Element) bool { return e.Path == path },
		desc:  fmt.Sprintf("ByPath(%q)", path),
	}
}

// ByPredicate finds widgets matching fn.
func ByPredicate(fn func(Element) bool) Finder {
	return &predicateFinder{match: fn, desc: "ByPredicate"}
}

type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(elements []Element) []Element {
	ancestors := f.of.Evaluate(elements)
	var out []Element
	for _, e := range f.matching.Evaluate(elements) {
		for _, a := range ancestors {
			if isAncestorOf(a.Path, e.Path) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant finds widgets matching matching below a widget matching of.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

// isAncestorOf reports whether path descends from ancestor. Paths extend
// their parent's path by a ":slot" or "[index]" segment.
func isAncestorOf(ancestor, path core.Path) bool {
	a, p := string(ancestor), string(path)
	if len(p) <= len(a) || !strings.HasPrefix(p, a) {
		return false
	}
	next := p[len(a)]
	return next == ':' || next == '['
}
