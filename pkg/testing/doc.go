// Package testing provides a widget testing harness for retain.
//
// # Quick Start
//
// Create a tester, pump a view, and make assertions:
//
//	func TestMyView(t *testing.T) {
//	    tester := retaintest.NewWidgetTesterWithT(t)
//	    tester.PumpWidget(app.View)
//
//	    // Simulate input
//	    tester.Tap(retaintest.ByText("Submit"))
//
//	    // Assert state
//	    if !tester.Find(retaintest.ByText("Submitted")).Exists() {
//	        t.Error("expected 'Submitted' label")
//	    }
//	}
//
// The tester renders onto the in-memory backend of package headless, so
// every native message takes the same path it does in a running
// application.
//
// # Snapshot Testing
//
// Capture and compare native widget tree snapshots:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/my_view.snapshot.json")
//
// Update snapshots with:
//
//	RETAIN_UPDATE_SNAPSHOTS=1 go test ./...
package testing
