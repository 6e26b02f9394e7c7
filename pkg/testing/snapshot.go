package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/retain/pkg/core"
	"github.com/go-drift/retain/pkg/native"
)

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the native widget tree.
type Snapshot struct {
	Widgets []*WidgetNode `json:"widgets"`
}

// WidgetNode represents a native widget in the serialized tree.
type WidgetNode struct {
	ID       string        `json:"id"`
	Path     *string       `json:"path,omitempty"`
	Class    string        `json:"class"`
	Text     string        `json:"text,omitempty"`
	Rect     [4]int        `json:"rect"`
	Checked  bool          `json:"checked,omitempty"`
	Items    []string      `json:"items,omitempty"`
	Selected *int          `json:"selected,omitempty"`
	Hidden   bool          `json:"hidden,omitempty"`
	Children []*WidgetNode `json:"children,omitempty"`
}

// CaptureSnapshot captures every live native widget. Widgets that were not
// rendered by the engine (such as a size grip) carry no path.
func (t *WidgetTester) CaptureSnapshot() *Snapshot {
	snap := &Snapshot{}
	counter := &typeCounter{}
	ctx := t.Context()
	for _, h := range t.backend.Handles() {
		info, _ := t.backend.Widget(h)
		if info.Parent == 0 {
			snap.Widgets = append(snap.Widgets, t.captureNode(ctx, h, counter))
		}
	}
	return snap
}

func (t *WidgetTester) captureNode(ctx core.Context, h native.Handle, counter *typeCounter) *WidgetNode {
	info, _ := t.backend.Widget(h)
	r := info.Rect
	node := &WidgetNode{
		ID:      counter.next(info.Class),
		Class:   info.Class,
		Text:    info.Text,
		Rect:    [4]int{r.Left, r.Top, r.Width(), r.Height()},
		Checked: info.Checked,
		Items:   info.Items,
		Hidden:  !info.Visible,
	}
	if info.Class == native.ClassComboBox {
		selected := info.Selected
		node.Selected = &selected
	}
	if p, _, ok := ctx.Find(h); ok {
		path := string(p)
		node.Path = &path
	}
	children, _ := t.backend.Children(h)
	for _, c := range children {
		node.Children = append(node.Children, t.captureNode(ctx, c, counter))
	}
	return node
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When RETAIN_UPDATE_SNAPSHOTS=1
// is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv("RETAIN_UPDATE_SNAPSHOTS") == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: RETAIN_UPDATE_SNAPSHOTS=1 go test -run %s", path, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: RETAIN_UPDATE_SNAPSHOTS=1 go test -run %s", path, diff, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a diff from other (expected) to this snapshot (actual).
// Returns empty string if equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	return cmp.Diff(other, s)
}

// typeCounter assigns stable IDs like "Button#0", "Button#1".
type typeCounter struct {
	counts map[string]int
}

func (c *typeCounter) next(typeName string) string {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	n := c.counts[typeName]
	c.counts[typeName] = n + 1
	return fmt.Sprintf("%s#%d", typeName, n)
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
