// Package wordbook persists items the learner chooses to keep: dictionary
// lookups, example sentences, and speaking drafts. The store is a single
// JSON file that only ever grows by explicit saves.
package wordbook

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/tdnguyen/bandup/internal/groq"
)

// Kind tags what an entry holds.
type Kind string

const (
	KindLookup  Kind = "lookup"
	KindExample Kind = "example"
	KindDraft   Kind = "draft"
)

// Entry is one saved item. Exactly one of Lookup, Example, or Draft is
// set, matching Kind.
type Entry struct {
	Kind    Kind                  `json:"kind"`
	Phrase  string                `json:"phrase,omitempty"`
	Lookup  *groq.LookupResult    `json:"lookup,omitempty"`
	Example *groq.ExampleSentence `json:"example,omitempty"`
	Draft   *groq.SpeakingDraft   `json:"draft,omitempty"`
	Band    groq.Band             `json:"band,omitempty"`
	Part    groq.Part             `json:"part,omitempty"`
	SavedAt time.Time             `json:"savedAt"`
}

// FromLookup builds an entry for a dictionary result.
func FromLookup(phrase string, result groq.LookupResult) Entry {
	return Entry{Kind: KindLookup, Phrase: phrase, Lookup: &result, SavedAt: time.Now()}
}

// FromExample builds an entry for a generated example sentence.
func FromExample(phrase string, sentence groq.ExampleSentence) Entry {
	return Entry{Kind: KindExample, Phrase: phrase, Example: &sentence, SavedAt: time.Now()}
}

// FromDraft builds an entry for a speaking draft.
func FromDraft(topic string, draft groq.SpeakingDraft) Entry {
	return Entry{
		Kind:    KindDraft,
		Phrase:  topic,
		Draft:   &draft,
		Band:    draft.Band,
		Part:    draft.Part,
		SavedAt: time.Now(),
	}
}

// DefaultPath returns the wordbook location under the user's home
// directory, or a working-directory fallback when home is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "wordbook.json"
	}
	return filepath.Join(home, ".bandup", "wordbook.json")
}

// Save appends entries to the wordbook file, creating it if necessary.
func Save(path string, newEntries ...Entry) error {
	if len(newEntries) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	existing, err := Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	payload := append(existing, newEntries...)
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load returns all stored entries.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
