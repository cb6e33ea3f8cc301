// Package session holds the interaction state machines behind the UI:
// selection capture, the lookup popover, and the generate/refine lifecycle.
// Everything here is driven from the single event loop; the machines keep
// the identity of the current request and silently drop any response that
// no longer matches it.
package session

// Phase is the lifecycle stage of a session. Exactly one phase holds at a
// time and all visible loading/error state derives from it.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}
