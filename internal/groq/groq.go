// Package groq talks to an OpenAI-compatible chat-completions service and
// maps its JSON answers onto the shapes the practice sessions expect.
package groq

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	// DefaultModel is used whenever a call arrives with a blank model id.
	DefaultModel = "llama-3.3-70b-versatile"

	defaultBaseURL     = "https://api.groq.com/openai/v1"
	defaultHTTPTimeout = 2 * time.Minute
)

// Band is an IELTS band score carried as an opaque wire string.
type Band string

const (
	Band60 Band = "6.0"
	Band65 Band = "6.5"
	Band70 Band = "7.0"
	Band75 Band = "7.5"
	Band80 Band = "8.0"
	Band90 Band = "9.0"
)

// Bands lists the selectable band scores in ascending order.
var Bands = []Band{Band60, Band65, Band70, Band75, Band80, Band90}

// Part identifies the IELTS speaking part.
type Part string

const (
	Part1 Part = "1"
	Part2 Part = "2"
	Part3 Part = "3"
)

// Parts lists the speaking parts in order.
var Parts = []Part{Part1, Part2, Part3}

// LookupResult is a dictionary-style answer for a selected piece of text.
// Every field is optional; an all-empty result means "no definition found"
// and is not an error.
type LookupResult struct {
	IPA          string   `json:"ipa,omitempty"`
	PartOfSpeech string   `json:"part_of_speech,omitempty"`
	Meaning      string   `json:"meaning,omitempty"`
	Translation  string   `json:"translation,omitempty"`
	Synonyms     []string `json:"synonyms,omitempty"`
}

// Empty reports whether the lookup carried no usable fields at all.
func (r LookupResult) Empty() bool {
	return r.IPA == "" && r.PartOfSpeech == "" && r.Meaning == "" &&
		r.Translation == "" && len(r.Synonyms) == 0
}

// ExampleSentence pairs a generated sentence with its translation and the
// exact substrings that correspond to the searched phrase on each side.
type ExampleSentence struct {
	Original         string `json:"original"`
	Translation      string `json:"translation"`
	MatchOriginal    string `json:"match_original"`
	MatchTranslation string `json:"match_translation"`
}

// SpeakingDraft is a generated question/answer pair for spoken practice.
type SpeakingDraft struct {
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	KeyFeatures []string `json:"key_features,omitempty"`
	Band        Band     `json:"-"`
	Part        Part     `json:"-"`
}

// RefineRequest rewrites a prior draft under a free-text instruction. The
// service is contractually required to echo Question back unchanged.
type RefineRequest struct {
	Topic          string
	Band           Band
	Part           Part
	Instruction    string
	Question       string
	OriginalAnswer string
}

// Model describes one entry of the service's model listing.
type Model struct {
	ID     string `json:"id"`
	Object string `json:"object"`
}

// Client is the boundary to the generation/lookup collaborator.
type Client interface {
	Lookup(ctx context.Context, model, text, context string) (LookupResult, error)
	GenerateExamples(ctx context.Context, model, phrase string) ([]ExampleSentence, error)
	RandomSeed(ctx context.Context, model string) (string, error)
	SpeakingAnswer(ctx context.Context, model, topic string, band Band, part Part) (SpeakingDraft, error)
	RefineAnswer(ctx context.Context, model string, req RefineRequest) (SpeakingDraft, error)
	ListModels(ctx context.Context) ([]Model, error)
	Name() string
}

// Config describes how to build a client.
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewFromEnv builds a client from explicit config with environment
// fallbacks (GROQ_API_KEY, GROQ_BASE_URL).
func NewFromEnv(cfg Config) (Client, error) {
	key := cfg.APIKey
	if key == "" {
		key = strings.TrimSpace(os.Getenv("GROQ_API_KEY"))
	}
	if key == "" {
		return nil, ErrMissingAPIKey
	}
	base := cfg.BaseURL
	if base == "" {
		if env := strings.TrimSpace(os.Getenv("GROQ_BASE_URL")); env != "" {
			base = env
		} else {
			base = defaultBaseURL
		}
	}
	return &chatClient{
		apiKey: key,
		base:   strings.TrimRight(base, "/"),
		client: pickHTTPClient(cfg.HTTPClient),
	}, nil
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	// Generations regularly exceed 60s; the caller's context still cancels.
	return &http.Client{Timeout: defaultHTTPTimeout}
}
