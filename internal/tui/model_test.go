package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tdnguyen/bandup/internal/groq"
	"github.com/tdnguyen/bandup/internal/session"
)

func newTestModel(t *testing.T) *model {
	t.Helper()
	teaModel, ok := New(Config{Client: fakeClient{}}).(*model)
	if !ok {
		t.Fatalf("expected *model, got %T", teaModel)
	}
	return teaModel
}

func pressKey(t *testing.T, m *model, key string) tea.Cmd {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+r":
		msg = tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+f":
		msg = tea.KeyMsg{Type: tea.KeyCtrlF}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func TestEnterStartsSearchAndShowsSkeleton(t *testing.T) {
	m := newTestModel(t)
	m.queryInput.SetValue("take after")

	if cmd := pressKey(t, m, "enter"); cmd == nil {
		t.Fatal("submitting a phrase should start a search job")
	}
	if m.gen.Phase() != session.PhaseLoading {
		t.Fatalf("expected loading phase, got %v", m.gen.Phase())
	}
	if view := m.View(); !strings.Contains(view, "░") {
		t.Fatal("loading view should show skeleton placeholders")
	}
}

func TestBlankSearchIsRejected(t *testing.T) {
	m := newTestModel(t)
	m.queryInput.SetValue("   ")
	if cmd := pressKey(t, m, "enter"); cmd != nil {
		t.Fatal("blank phrase should not start a job")
	}
	if m.gen.Phase() != session.PhaseIdle {
		t.Fatalf("phase should stay idle, got %v", m.gen.Phase())
	}
}

func TestStaleSearchResultIsIgnored(t *testing.T) {
	m := newTestModel(t)
	m.queryInput.SetValue("first")
	pressKey(t, m, "enter")
	m.queryInput.SetValue("second")
	pressKey(t, m, "enter")

	// token 1 belongs to the superseded search
	m.Update(searchResultMsg{token: 1, sentences: []groq.ExampleSentence{{Original: "stale"}}})
	if m.gen.Phase() != session.PhaseLoading {
		t.Fatalf("stale result should leave the model loading, got %v", m.gen.Phase())
	}

	m.Update(searchResultMsg{token: 2, sentences: []groq.ExampleSentence{
		{Original: "A fresh sentence.", MatchOriginal: "fresh"},
	}})
	if m.gen.Phase() != session.PhaseLoaded {
		t.Fatalf("current result should land, got %v", m.gen.Phase())
	}
	if view := m.View(); !strings.Contains(view, "A fresh sentence.") {
		t.Fatal("loaded view should render the sentence")
	}
}

func TestSearchFailureShowsBanner(t *testing.T) {
	m := newTestModel(t)
	m.queryInput.SetValue("word")
	pressKey(t, m, "enter")

	m.Update(searchResultMsg{token: 1, err: errors.New("boom")})
	if view := m.View(); !strings.Contains(view, session.ErrMsgGeneric) {
		t.Fatal("failure banner missing from view")
	}
}

func TestRandomSeedMirrorsIntoQuery(t *testing.T) {
	m := newTestModel(t)
	cmd := pressKey(t, m, "ctrl+r")
	if cmd == nil {
		t.Fatal("random should start a seed job")
	}

	_, followUp := m.Update(randomSeedMsg{token: 1, sentence: "serendipity"})
	if followUp == nil {
		t.Fatal("seed success should chain into a search job")
	}
	if m.queryInput.Value() != "serendipity" {
		t.Fatalf("seed should mirror into the query field, got %q", m.queryInput.Value())
	}
	if m.gen.Phase() != session.PhaseLoading {
		t.Fatalf("model should stay loading through the seed hop, got %v", m.gen.Phase())
	}
}

func TestDragSelectionOpensLookupPopover(t *testing.T) {
	m := newTestModel(t)
	m.plainLines = []string{"The quick brown fox jumps."}
	m.bodyTop = 0
	m.dragStart = cellPos{line: 0, col: 4}
	m.dragEnd = cellPos{line: 0, col: 8}

	_, cmd := m.finishSelection()
	if cmd == nil {
		t.Fatal("selection release should start a lookup job")
	}
	pop := m.lookup.Snapshot()
	if !pop.Visible || pop.Query != "quick" || pop.Phase != session.PhaseLoading {
		t.Fatalf("popover not armed for the selection: %+v", pop)
	}

	// A response for an older query must not replace the current one.
	m.Update(lookupResultMsg{query: "brown", result: groq.LookupResult{Meaning: "old"}})
	if m.lookup.Snapshot().Phase != session.PhaseLoading {
		t.Fatal("stale lookup response should be ignored")
	}

	m.Update(lookupResultMsg{query: "quick", result: groq.LookupResult{Meaning: "fast"}})
	pop = m.lookup.Snapshot()
	if pop.Phase != session.PhaseLoaded || pop.Result == nil || pop.Result.Meaning != "fast" {
		t.Fatalf("current lookup response should land: %+v", pop)
	}
	if view := m.View(); !strings.Contains(view, "fast") {
		t.Fatal("popover content missing from view")
	}
}

func TestEmptyReleaseDismissesAfterDelay(t *testing.T) {
	m := newTestModel(t)
	m.plainLines = []string{"The quick brown fox jumps."}
	m.dragStart = cellPos{line: 0, col: 4}
	m.dragEnd = cellPos{line: 0, col: 8}
	m.finishSelection()
	if !m.lookup.Snapshot().Visible {
		t.Fatal("popover should be visible after a selection")
	}

	// An empty release schedules a verified dismissal.
	m.dragStart = cellPos{line: 0, col: 3}
	m.dragEnd = cellPos{line: 0, col: 3}
	_, cmd := m.finishSelection()
	if cmd == nil {
		t.Fatal("empty release should schedule a dismissal tick")
	}
	msg := cmd() // blocks for the dismiss delay
	m.Update(msg)
	if m.lookup.Snapshot().Visible {
		t.Fatal("popover should dismiss once the empty selection persists")
	}
}

func TestSpeakingGenerateThenRefine(t *testing.T) {
	m := newTestModel(t)
	pressKey(t, m, "tab")
	if m.tab != tabSpeaking {
		t.Fatalf("tab should switch panes, got %v", m.tab)
	}
	m.topicInput.SetValue("hometown")
	if cmd := pressKey(t, m, "enter"); cmd == nil {
		t.Fatal("topic submission should start a speaking job")
	}
	m.Update(speakingResultMsg{token: 1, draft: groq.SpeakingDraft{
		Question: "What do you like about your hometown?",
		Answer:   "Plenty.",
	}})
	if m.gen.Draft() == nil {
		t.Fatal("draft should be stored")
	}

	pressKey(t, m, "ctrl+f")
	if !m.gen.RefineOpen() {
		t.Fatal("refine panel should open with a draft present")
	}
	m.refineInput.SetValue("make it longer")
	if cmd := pressKey(t, m, "enter"); cmd == nil {
		t.Fatal("refine submission should start a refine job")
	}

	// Failure keeps the old draft on screen.
	m.Update(refineResultMsg{token: 2, err: errors.New("boom")})
	if m.gen.Draft() == nil || m.gen.Draft().Answer != "Plenty." {
		t.Fatalf("failed refine must keep the last good draft: %+v", m.gen.Draft())
	}

	m.refineInput.SetValue("shorter")
	pressKey(t, m, "enter")
	m.Update(refineResultMsg{token: 3, draft: groq.SpeakingDraft{
		Question: "What do you like about your hometown?",
		Answer:   "Plenty, truly.",
	}})
	if m.gen.Draft().Answer != "Plenty, truly." {
		t.Fatalf("successful refine should replace the draft: %+v", m.gen.Draft())
	}
	if m.gen.RefineOpen() {
		t.Fatal("refine panel should close after success")
	}
}

func TestRefineWithoutDraftIsRejected(t *testing.T) {
	m := newTestModel(t)
	pressKey(t, m, "tab")
	pressKey(t, m, "ctrl+f")
	if m.gen.RefineOpen() {
		t.Fatal("refine panel should not open without a draft")
	}
}

func TestNoClientShowsHint(t *testing.T) {
	teaModel, _ := New(Config{}).(*model)
	teaModel.queryInput.SetValue("word")
	if cmd := pressKey(t, teaModel, "enter"); cmd != nil {
		t.Fatal("no job should start without a client")
	}
	if teaModel.infoMessage != msgNoClient {
		t.Fatalf("expected missing-key hint, got %q", teaModel.infoMessage)
	}
}

func TestMouseInsidePopoverIsIgnored(t *testing.T) {
	m := newTestModel(t)
	m.popTop, m.popBottom = 2, 6
	m.dragActive = false
	m.Update(tea.MouseMsg{Type: tea.MouseLeft, X: 3, Y: 4})
	if m.dragActive {
		t.Fatal("press inside the popover must not start a drag")
	}
	m.Update(tea.MouseMsg{Type: tea.MouseLeft, X: 3, Y: 10})
	if !m.dragActive {
		t.Fatal("press outside the popover should start a drag")
	}
}
