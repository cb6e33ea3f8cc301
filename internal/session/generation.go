package session

import (
	"errors"
	"strings"

	"github.com/tdnguyen/bandup/internal/groq"
)

// User-facing failure messages. Transport and schema failures collapse to
// the Failed phase with one of these; blank input is a silent no-op.
const (
	ErrMsgGeneric         = "Something went wrong. Please try again."
	ErrMsgInvalidResponse = "Invalid response format"
	ErrMsgRandomFailed    = "Failed to generate random word. Please try again."
)

// RefineSeed carries the draft fields a refine request must echo.
type RefineSeed struct {
	Question string
	Answer   string
}

// Generation drives both the vocabulary and the speaking flow on a single
// phase machine. Every Start bumps a monotonic token; a Resolve carrying
// an older token is dropped, never queued. That is the whole overlap
// story: rapid re-submission simply strands the older request's response.
type Generation struct {
	token      uint64
	phase      Phase
	errMsg     string
	sentences  []groq.ExampleSentence
	draft      *groq.SpeakingDraft
	refineOpen bool
}

// StartSearch begins a vocabulary search. Blank phrases are rejected
// without touching any state. The prior batch and error clear immediately
// so stale cards never show under the skeletons.
func (g *Generation) StartSearch(phrase string) (uint64, bool) {
	if strings.TrimSpace(phrase) == "" {
		return 0, false
	}
	g.token++
	g.phase = PhaseLoading
	g.errMsg = ""
	g.sentences = nil
	return g.token, true
}

// ResolveSearch applies a search response if the token is still current.
func (g *Generation) ResolveSearch(token uint64, sentences []groq.ExampleSentence, err error) bool {
	if token != g.token {
		return false
	}
	if err != nil {
		g.phase = PhaseFailed
		if errors.Is(err, groq.ErrNoSentences) {
			g.errMsg = ErrMsgInvalidResponse
		} else {
			g.errMsg = ErrMsgGeneric
		}
		return true
	}
	g.phase = PhaseLoaded
	g.sentences = sentences
	return true
}

// StartRandom begins the random-word flow: a seed request whose sentence
// is then fed into the search under the same token.
func (g *Generation) StartRandom() (uint64, bool) {
	g.token++
	g.phase = PhaseLoading
	g.errMsg = ""
	g.sentences = nil
	return g.token, true
}

// ResolveRandomSeed applies the seed response. On success the session
// stays Loading and hands the sentence back so the caller can mirror it
// into the query field and issue the search with the same token.
func (g *Generation) ResolveRandomSeed(token uint64, sentence string, err error) (string, bool) {
	if token != g.token {
		return "", false
	}
	if err != nil {
		g.phase = PhaseFailed
		g.errMsg = ErrMsgRandomFailed
		return "", false
	}
	return sentence, true
}

// StartSpeaking begins generating a fresh question/answer draft. The
// prior draft clears and any refine panel closes.
func (g *Generation) StartSpeaking(topic string) (uint64, bool) {
	if strings.TrimSpace(topic) == "" {
		return 0, false
	}
	g.token++
	g.phase = PhaseLoading
	g.errMsg = ""
	g.draft = nil
	g.refineOpen = false
	return g.token, true
}

// ResolveSpeaking applies a generation response, replacing the draft
// wholesale on success.
func (g *Generation) ResolveSpeaking(token uint64, draft groq.SpeakingDraft, err error) bool {
	if token != g.token {
		return false
	}
	if err != nil {
		g.phase = PhaseFailed
		g.errMsg = ErrMsgGeneric
		return true
	}
	g.phase = PhaseLoaded
	g.draft = &draft
	return true
}

// OpenRefine shows the refine input. It is a no-op without a draft.
func (g *Generation) OpenRefine() bool {
	if g.draft == nil {
		return false
	}
	g.refineOpen = true
	return true
}

// CloseRefine hides the refine input.
func (g *Generation) CloseRefine() {
	g.refineOpen = false
}

// StartRefine begins rewriting the current draft under an instruction.
// Rejected when the instruction is blank or no draft exists. The returned
// seed carries the question and answer the request must include; the
// prior draft stays in place until a successful response replaces it.
func (g *Generation) StartRefine(instruction string) (uint64, RefineSeed, bool) {
	if strings.TrimSpace(instruction) == "" || g.draft == nil {
		return 0, RefineSeed{}, false
	}
	g.token++
	g.phase = PhaseLoading
	g.errMsg = ""
	return g.token, RefineSeed{Question: g.draft.Question, Answer: g.draft.Answer}, true
}

// ResolveRefine applies a refine response. Success replaces the draft and
// closes the refine panel; failure keeps the last good draft untouched.
func (g *Generation) ResolveRefine(token uint64, draft groq.SpeakingDraft, err error) bool {
	if token != g.token {
		return false
	}
	if err != nil {
		g.phase = PhaseFailed
		g.errMsg = ErrMsgGeneric
		return true
	}
	g.phase = PhaseLoaded
	g.draft = &draft
	g.refineOpen = false
	return true
}

// Phase returns the current lifecycle stage.
func (g *Generation) Phase() Phase { return g.phase }

// Error returns the message to show while Failed.
func (g *Generation) Error() string { return g.errMsg }

// Sentences returns the current example batch.
func (g *Generation) Sentences() []groq.ExampleSentence { return g.sentences }

// Draft returns the current speaking draft, nil when none exists.
func (g *Generation) Draft() *groq.SpeakingDraft { return g.draft }

// RefineOpen reports whether the refine input is showing.
func (g *Generation) RefineOpen() bool { return g.refineOpen }
