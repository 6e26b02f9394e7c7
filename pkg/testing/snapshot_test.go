package testing

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/retain/pkg/native"
)

type fakeT struct {
	errors []string
	fatals []string
}

func (f *fakeT) Helper() {}

func (f *fakeT) Fatalf(format string, args ...any) {
	f.fatals = append(f.fatals, fmt.Sprintf(format, args...))
}

func (f *fakeT) Errorf(format string, args ...any) {
	f.errors = append(f.errors, fmt.Sprintf(format, args...))
}

func (f *fakeT) Name() string { return "TestFake" }

func TestCaptureSnapshot(t *testing.T) {
	tester, _ := pumpForm(t)
	snap := tester.CaptureSnapshot()

	require.Len(t, snap.Widgets, 1)
	win := snap.Widgets[0]
	assert.Equal(t, native.ClassWindow+"#0", win.ID)
	require.NotNil(t, win.Path)
	assert.Equal(t, "", *win.Path)

	var combo *WidgetNode
	for _, c := range win.Children {
		if c.Class == native.ClassComboBox {
			combo = c
		}
	}
	require.NotNil(t, combo)
	assert.Equal(t, []string{"Red", "Green", "Blue"}, combo.Items)
	require.NotNil(t, combo.Selected)
	assert.Equal(t, 0, *combo.Selected)
}

func TestSnapshotRoundTrip(t *testing.T) {
	t.Setenv("RETAIN_UPDATE_SNAPSHOTS", "")
	tester, _ := pumpForm(t)
	path := filepath.Join(t.TempDir(), "golden", "form.snapshot.json")

	snap := tester.CaptureSnapshot()
	require.NoError(t, snap.UpdateFile(path))

	ft := &fakeT{}
	snap.MatchesFile(ft, path)
	assert.Empty(t, ft.errors)
	assert.Empty(t, ft.fatals)

	require.NoError(t, tester.Tap(ByText("Greet")))
	changed := tester.CaptureSnapshot()
	assert.NotEmpty(t, changed.Diff(snap))

	changed.MatchesFile(ft, path)
	require.Len(t, ft.errors, 1)
	assert.Contains(t, ft.errors[0], "snapshot mismatch")
}

func TestSnapshotMissingFile(t *testing.T) {
	t.Setenv("RETAIN_UPDATE_SNAPSHOTS", "")
	ft := &fakeT{}
	(&Snapshot{}).MatchesFile(ft, filepath.Join(t.TempDir(), "missing.json"))
	require.Len(t, ft.fatals, 1)
	assert.Contains(t, ft.fatals[0], "RETAIN_UPDATE_SNAPSHOTS=1")
}

func TestSnapshotUpdateMode(t *testing.T) {
	t.Setenv("RETAIN_UPDATE_SNAPSHOTS", "1")
	path := filepath.Join(t.TempDir(), "new.json")
	ft := &fakeT{}
	(&Snapshot{}).MatchesFile(ft, path)
	assert.Empty(t, ft.fatals)

	loaded, err := loadSnapshot(path)
	require.NoError(t, err)
	assert.Empty(t, loaded.Diff(&Snapshot{}))
}

func TestTypeCounter(t *testing.T) {
	c := &typeCounter{}
	assert.Equal(t, "Button#0", c.next("Button"))
	assert.Equal(t, "Static#0", c.next("Static"))
	assert.Equal(t, "Button#1", c.next("Button"))
}
