package session

import "github.com/tdnguyen/bandup/internal/groq"

// Popover is the render state of the dictionary popover. Which selection a
// result belongs to is identified by Query: responses for any other query
// are dropped without touching the state.
type Popover struct {
	Visible bool
	Anchor  Point
	Query   string
	Result  *groq.LookupResult
	Phase   Phase
}

// LookupRequest is what the collaborator needs to answer a selection.
type LookupRequest struct {
	Text    string
	Context string
}

// Lookup owns the popover and guards it against out-of-order responses.
// There is no network cancellation; an in-flight call for a superseded
// query completes and its result is discarded at Resolve.
type Lookup struct {
	pop Popover
}

// Begin shows the popover immediately in its loading state, anchored above
// the selection midpoint, and returns the request to send.
func (l *Lookup) Begin(ev SelectionEvent) LookupRequest {
	l.pop = Popover{
		Visible: true,
		Anchor:  anchorFor(ev.Anchor),
		Query:   ev.Text,
		Phase:   PhaseLoading,
	}
	return LookupRequest{Text: ev.Text, Context: ev.Context}
}

func anchorFor(r Rect) Point {
	return Point{X: r.X + r.Width/2, Y: r.Y - 1}
}

// Resolve applies a lookup response. Responses whose originating query no
// longer matches the current one are dropped silently: completion order is
// not issue order, so a slow early lookup must never overwrite a fast
// later one. Failures hide the popover instead of showing an error panel.
func (l *Lookup) Resolve(query string, result groq.LookupResult, err error) bool {
	if query != l.pop.Query {
		return false
	}
	if err != nil {
		l.pop.Phase = PhaseFailed
		l.pop.Visible = false
		l.pop.Result = nil
		return true
	}
	l.pop.Phase = PhaseLoaded
	l.pop.Result = &result
	return true
}

// Dismiss hides the popover and forgets the query.
func (l *Lookup) Dismiss() {
	l.pop = Popover{}
}

// Snapshot returns the current popover state for rendering.
func (l *Lookup) Snapshot() Popover {
	return l.pop
}
