package session

import "testing"

func TestReleaseTrimsAndArms(t *testing.T) {
	var c Capture
	ev, ok := c.Release("  ubiquitous  ", Rect{X: 4, Y: 2, Width: 10, Height: 1}, "a ubiquitous pattern")
	if !ok {
		t.Fatal("non-empty release should arm the capture")
	}
	if ev.Text != "ubiquitous" {
		t.Fatalf("text not trimmed: %q", ev.Text)
	}
	if ev.Raw != "  ubiquitous  " {
		t.Fatalf("raw selection should be preserved: %q", ev.Raw)
	}
	if !c.Armed() {
		t.Fatal("capture should be armed after a release")
	}
}

func TestWhitespaceReleaseIsNoOp(t *testing.T) {
	var c Capture
	if _, ok := c.Release("   ", Rect{}, ""); ok {
		t.Fatal("whitespace-only release should not arm")
	}
	if c.Armed() {
		t.Fatal("capture should stay idle")
	}
}

func TestDismissCommitsOnlyWithCurrentToken(t *testing.T) {
	var c Capture
	c.Release("word", Rect{}, "")

	token := c.ScheduleDismiss()
	// A new selection lands before the delay elapses.
	c.Release("another", Rect{}, "")

	if c.ConfirmDismiss(token, true) {
		t.Fatal("stale dismissal token must not commit")
	}
	if !c.Armed() || c.Current().Text != "another" {
		t.Fatalf("newer selection should survive: %+v", c.Current())
	}
}

func TestDismissCommitsWhenStillEmpty(t *testing.T) {
	var c Capture
	c.Release("word", Rect{}, "")

	token := c.ScheduleDismiss()
	if !c.ConfirmDismiss(token, true) {
		t.Fatal("current token with empty selection should commit")
	}
	if c.Armed() {
		t.Fatal("capture should be idle after dismissal")
	}
	if c.Current() != (SelectionEvent{}) {
		t.Fatalf("current selection should be cleared: %+v", c.Current())
	}
}

func TestDismissSkippedWhenSelectionReturned(t *testing.T) {
	var c Capture
	c.Release("word", Rect{}, "")

	token := c.ScheduleDismiss()
	if c.ConfirmDismiss(token, false) {
		t.Fatal("dismissal must re-verify emptiness before committing")
	}
	if !c.Armed() {
		t.Fatal("capture should remain armed")
	}
}

func TestLaterScheduleInvalidatesEarlier(t *testing.T) {
	var c Capture
	c.Release("word", Rect{}, "")

	first := c.ScheduleDismiss()
	second := c.ScheduleDismiss()
	if c.ConfirmDismiss(first, true) {
		t.Fatal("earlier token should be stale once a later one is issued")
	}
	if !c.ConfirmDismiss(second, true) {
		t.Fatal("latest token should commit")
	}
}
