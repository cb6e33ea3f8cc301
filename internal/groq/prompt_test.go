package groq

import (
	"errors"
	"strings"
	"testing"
)

func TestCriteriaFallsBackForHalfBands(t *testing.T) {
	if criteriaFor(Band65) != bandCriteria[Band70] {
		t.Fatal("6.5 should fall back to the 7.0 descriptor")
	}
	if criteriaFor(Band("5.5")) != bandCriteria[Band70] {
		t.Fatal("unknown band should fall back to the 7.0 descriptor")
	}
	if criteriaFor(Band90) != bandCriteria[Band90] {
		t.Fatal("known band should use its own descriptor")
	}
}

func TestParseExampleSentencesExtractsEmbeddedJSON(t *testing.T) {
	raw := "Here you go:\n{\"sentences\":[{\"original\":\"A sentence.\",\"translation\":\"Một câu.\",\"match_original\":\"sentence\",\"match_translation\":\"câu\"}]}\nEnjoy!"
	sentences, err := parseExampleSentences(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(sentences) != 1 || sentences[0].MatchOriginal != "sentence" {
		t.Fatalf("unexpected result: %#v", sentences)
	}
}

func TestParseExampleSentencesDropsBlankEntries(t *testing.T) {
	raw := `{"sentences":[{"original":"  "},{"original":"Kept.","translation":"Giữ lại."}]}`
	sentences, err := parseExampleSentences(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(sentences) != 1 || sentences[0].Original != "Kept." {
		t.Fatalf("unexpected result: %#v", sentences)
	}
}

func TestParseExampleSentencesMissingField(t *testing.T) {
	if _, err := parseExampleSentences(`{"results":[]}`); !errors.Is(err, ErrNoSentences) {
		t.Fatalf("expected ErrNoSentences, got %v", err)
	}
	if _, err := parseExampleSentences("not json at all"); !errors.Is(err, ErrNoSentences) {
		t.Fatalf("expected ErrNoSentences for garbage, got %v", err)
	}
}

func TestParseRandomSeedEmptyValueIsSchemaError(t *testing.T) {
	if _, err := parseRandomSeed(`{"sentence":"  "}`); !errors.Is(err, ErrNoSentence) {
		t.Fatalf("expected ErrNoSentence, got %v", err)
	}
}

func TestParseSpeakingDraftTrimsFields(t *testing.T) {
	raw := `{"question":" Q? ","answer":" A. ","key_features":[" one ","","two"]}`
	draft, err := parseSpeakingDraft(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if draft.Question != "Q?" || draft.Answer != "A." {
		t.Fatalf("fields not trimmed: %#v", draft)
	}
	if len(draft.KeyFeatures) != 2 {
		t.Fatalf("blank features not dropped: %#v", draft.KeyFeatures)
	}
}

func TestParseSpeakingDraftRejectsEmptyShape(t *testing.T) {
	if _, err := parseSpeakingDraft(`{"something":"else"}`); err == nil {
		t.Fatal("expected error for draft with no question or answer")
	}
}

func TestBuildRefinePromptDemandsVerbatimQuestion(t *testing.T) {
	prompt := buildRefinePrompt(RefineRequest{
		Topic:          "hometown",
		Band:           Band60,
		Part:           Part3,
		Instruction:    "make it more formal",
		Question:       "How has your hometown changed?",
		OriginalAnswer: "It changed a lot.",
	})
	if !strings.Contains(prompt, "VERBATIM") {
		t.Fatal("refine prompt should instruct the model to echo the question")
	}
	if !strings.Contains(prompt, "How has your hometown changed?") {
		t.Fatal("refine prompt missing the question")
	}
	if !strings.Contains(prompt, bandCriteria[Band60]) {
		t.Fatal("refine prompt missing band criteria")
	}
}
