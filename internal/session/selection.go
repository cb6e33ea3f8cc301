package session

import (
	"strings"
	"time"
)

// DismissDelay is how long an empty selection must persist before the
// popover is dismissed. Pointer drags briefly report an empty selection
// while settling; committing immediately would flicker the popover away.
const DismissDelay = 120 * time.Millisecond

// Rect is the bounding box of a selection in screen cells.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Point is a popover anchor position.
type Point struct {
	X int
	Y int
}

// SelectionEvent describes one resolved text selection. A new event
// supersedes the previous one; an empty-selection release eventually
// dismisses it.
type SelectionEvent struct {
	Raw     string
	Text    string
	Anchor  Rect
	Context string
}

type captureState int

const (
	captureIdle captureState = iota
	captureArmed
)

// Capture is the two-state (Idle/Armed) machine fed by pointer releases.
// Dismissal is token-guarded: only the most recently scheduled dismissal
// may commit, and only if the selection is still empty when it fires.
type Capture struct {
	state        captureState
	current      SelectionEvent
	dismissToken int
}

// Release feeds a pointer-release with the resolved selection text. A
// non-empty trimmed selection arms the capture (invalidating any pending
// dismissal) and returns the new event. An empty one returns false; the
// caller should schedule a verified dismissal via ScheduleDismiss.
func (c *Capture) Release(raw string, anchor Rect, context string) (SelectionEvent, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return SelectionEvent{}, false
	}
	c.dismissToken++
	c.state = captureArmed
	c.current = SelectionEvent{Raw: raw, Text: text, Anchor: anchor, Context: context}
	return c.current, true
}

// ScheduleDismiss registers intent to dismiss after DismissDelay and
// returns the token the eventual ConfirmDismiss must present.
func (c *Capture) ScheduleDismiss() int {
	c.dismissToken++
	return c.dismissToken
}

// ConfirmDismiss commits a scheduled dismissal. It reports true only when
// the token is still current and the selection is still empty; a newer
// selection or a newer scheduled dismissal makes the token stale.
func (c *Capture) ConfirmDismiss(token int, stillEmpty bool) bool {
	if token != c.dismissToken || !stillEmpty {
		return false
	}
	if c.state != captureArmed {
		return false
	}
	c.state = captureIdle
	c.current = SelectionEvent{}
	return true
}

// Armed reports whether a selection is currently held.
func (c *Capture) Armed() bool {
	return c.state == captureArmed
}

// Current returns the active selection event.
func (c *Capture) Current() SelectionEvent {
	return c.current
}
