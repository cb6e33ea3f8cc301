package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Sentinel errors for responses missing a field the sessions require.
var (
	ErrMissingAPIKey = errors.New("groq: API key not configured")
	ErrNoSentences   = errors.New("groq: response missing sentences field")
	ErrNoSentence    = errors.New("groq: response missing sentence field")
)

type chatClient struct {
	apiKey string
	base   string
	client *http.Client
}

func (c *chatClient) Name() string {
	return "Groq"
}

func (c *chatClient) Lookup(ctx context.Context, model, text, context_ string) (LookupResult, error) {
	if strings.TrimSpace(text) == "" {
		return LookupResult{}, fmt.Errorf("lookup text cannot be empty")
	}
	raw, err := c.chat(ctx, model, lookupSystemPrompt, buildLookupPrompt(text, context_), 0.3)
	if err != nil {
		return LookupResult{}, err
	}
	return parseLookupResult(raw)
}

func (c *chatClient) GenerateExamples(ctx context.Context, model, phrase string) ([]ExampleSentence, error) {
	if strings.TrimSpace(phrase) == "" {
		return nil, fmt.Errorf("phrase cannot be empty")
	}
	raw, err := c.chat(ctx, model, vocabSystemPrompt, buildExamplesPrompt(phrase), 0.7)
	if err != nil {
		return nil, err
	}
	return parseExampleSentences(raw)
}

func (c *chatClient) RandomSeed(ctx context.Context, model string) (string, error) {
	// Higher temperature for more variety between draws.
	raw, err := c.chat(ctx, model, vocabSystemPrompt, buildRandomSeedPrompt(), 1.2)
	if err != nil {
		return "", err
	}
	return parseRandomSeed(raw)
}

func (c *chatClient) SpeakingAnswer(ctx context.Context, model, topic string, band Band, part Part) (SpeakingDraft, error) {
	if strings.TrimSpace(topic) == "" {
		return SpeakingDraft{}, fmt.Errorf("topic cannot be empty")
	}
	raw, err := c.chat(ctx, model, speakingSystemPrompt, buildSpeakingPrompt(topic, band, part), 0.7)
	if err != nil {
		return SpeakingDraft{}, err
	}
	draft, err := parseSpeakingDraft(raw)
	if err != nil {
		return SpeakingDraft{}, err
	}
	draft.Band = band
	draft.Part = part
	return draft, nil
}

func (c *chatClient) RefineAnswer(ctx context.Context, model string, req RefineRequest) (SpeakingDraft, error) {
	if strings.TrimSpace(req.Instruction) == "" {
		return SpeakingDraft{}, fmt.Errorf("refine instruction cannot be empty")
	}
	raw, err := c.chat(ctx, model, speakingSystemPrompt, buildRefinePrompt(req), 0.7)
	if err != nil {
		return SpeakingDraft{}, err
	}
	draft, err := parseSpeakingDraft(raw)
	if err != nil {
		return SpeakingDraft{}, err
	}
	draft.Band = req.Band
	draft.Part = req.Part
	return draft, nil
}

func (c *chatClient) ListModels(ctx context.Context) ([]Model, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/models", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("groq API error: %s (%s)", resp.Status, string(body))
	}

	var parsed struct {
		Data []Model `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	return parsed.Data, nil
}

func (c *chatClient) chat(ctx context.Context, model, system, user string, temperature float64) (string, error) {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	payload := map[string]any{
		"model": model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"temperature":     temperature,
		"response_format": map[string]string{"type": "json_object"},
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := c.base + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("groq API error: %s (%s)", resp.Status, string(body))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("groq API returned no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
