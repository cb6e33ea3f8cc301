package groq

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	lookupSystemPrompt   = "You are a helpful dictionary assistant. Output JSON only."
	vocabSystemPrompt    = "You are a helpful language learning assistant. specific output format: JSON."
	speakingSystemPrompt = "You are an IELTS Examiner. Output JSON only."
)

// Simplified band descriptor guidelines threaded into the speaking prompt.
// Half bands and unrecognised values fall back to the 7.0 descriptor so
// stale stored preferences degrade instead of failing.
var bandCriteria = map[Band]string{
	Band60: "Competent. Mix of simple and complex structures. Meaning is clear but with some inaccuracies. Vocabulary is sufficient.",
	Band70: "Good. Frequent error-free sentences. Uses less common and idiomatic items with some awareness of style. Flexible.",
	Band80: "Very Good. Fluent and sophisticated. Wide range of structures. Majority of sentences are error-free. Occasional minor errors only.",
	Band90: "Expert. Native-like fluency. Precise and accurate. Full flexibility. No noticeable errors.",
}

func criteriaFor(band Band) string {
	if c, ok := bandCriteria[band]; ok {
		return c
	}
	return bandCriteria[Band70]
}

func buildLookupPrompt(text, context string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Provide a concise dictionary definition for the text: %q.\n", text)
	if strings.TrimSpace(context) != "" {
		fmt.Fprintf(&b, "It was selected inside this passage, use it to disambiguate: %q.\n", context)
	}
	b.WriteString(`1. "ipa": IPA pronunciation (if applicable).
2. "part_of_speech": Part of speech (e.g., Verb, Noun).
3. "meaning": A simple, easy-to-understand English explanation.
4. "translation": Vietnamese translation of the meaning.
5. "synonyms": Up to four close synonyms.

Return STRICTLY a JSON object with this format (no other text):
{
  "ipa": "/.../",
  "part_of_speech": "...",
  "meaning": "...",
  "translation": "...",
  "synonyms": ["..."]
}`)
	return b.String()
}

func buildExamplesPrompt(phrase string) string {
	return fmt.Sprintf(`Generate 5 distinct, IELTS Academic level English sentences using the phrase or word: %[1]q.
The input %[1]q can be in English or Vietnamese.
The sentences should be sophisticated, suitable for an IELTS Writing or Speaking exam (Band 7+).

For each sentence:
1. "original": The English sentence.
2. "translation": The Vietnamese translation.
3. "match_original": The exact substring within the "original" English sentence that corresponds to the meaning of %[1]q.
4. "match_translation": The exact substring within the "translation" Vietnamese sentence that corresponds to the meaning of %[1]q.

Return STRICTLY a JSON object with this format (no other text):
{
  "sentences": [
    {
      "original": "The kids were fighting over the toy.",
      "translation": "Những đứa trẻ đã đánh nhau vì đồ chơi đó.",
      "match_original": "fighting",
      "match_translation": "đánh nhau"
    }
  ]
}`, phrase)
}

func buildRandomSeedPrompt() string {
	return `Generate a SINGLE, sophisticated English vocabulary word or short idiom suitable for the IELTS Academic exam (Band 8.0+).

Output strictly a JSON object with this format:
{
  "sentence": "serendipity"
}

Do not output any other text or explanation.`
}

func buildSpeakingPrompt(topic string, band Band, part Part) string {
	return fmt.Sprintf(`Act as an expert IELTS Examiner.
Task: Generate a generic IELTS Speaking Part %[3]s question about the topic: %[1]q.
Then, provide a Sample Answer that strictly matches a Band %[2]s score.

Criteria for Band %[2]s:
%[4]s

Requirements:
1. "question": An authentic Part %[3]s question.
2. "answer": A spoken response (natural, conversational) that demonstrates the exact level of vocabulary, grammar, and fluency for Band %[2]s. DO NOT make it better or worse than Band %[2]s.
3. "key_features": Briefly list 3-4 keywords or grammatical structures used in the answer that justify this band score.

Return STRICTLY a JSON object with this format (no other text):
{
  "question": "...",
  "answer": "...",
  "key_features": ["...", "..."]
}`, topic, band, part, criteriaFor(band))
}

func buildRefinePrompt(req RefineRequest) string {
	return fmt.Sprintf(`Act as an expert IELTS Examiner.
The candidate already has a Band %[2]s Part %[3]s answer for the topic %[1]q and wants it rewritten.

Question (return it VERBATIM in the "question" field, do not change a single character):
%[4]s

Current answer:
%[5]s

Rewrite instruction: %[6]s

Requirements:
1. "question": The question above, unchanged.
2. "answer": The rewritten spoken response, still strictly Band %[2]s. Criteria: %[7]s
3. "key_features": 3-4 keywords or structures in the rewritten answer that justify the band score.

Return STRICTLY a JSON object with this format (no other text):
{
  "question": "...",
  "answer": "...",
  "key_features": ["...", "..."]
}`, req.Topic, req.Band, req.Part, req.Question, req.OriginalAnswer, req.Instruction, criteriaFor(req.Band))
}

// jsonCandidates returns the raw payload plus the widest {...} slice inside
// it, so answers wrapped in stray prose still parse.
func jsonCandidates(raw string) []string {
	raw = strings.TrimSpace(raw)
	candidates := []string{raw}
	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			candidates = append(candidates, raw[start:end+1])
		}
	}
	return candidates
}

func parseLookupResult(raw string) (LookupResult, error) {
	if strings.TrimSpace(raw) == "" {
		return LookupResult{}, fmt.Errorf("empty lookup response")
	}
	var lastErr error
	for _, candidate := range jsonCandidates(raw) {
		var result LookupResult
		if err := json.Unmarshal([]byte(candidate), &result); err != nil {
			lastErr = err
			continue
		}
		result.IPA = strings.TrimSpace(result.IPA)
		result.PartOfSpeech = strings.TrimSpace(result.PartOfSpeech)
		result.Meaning = strings.TrimSpace(result.Meaning)
		result.Translation = strings.TrimSpace(result.Translation)
		result.Synonyms = sanitizeList(result.Synonyms)
		// An empty object is a valid "no definition found" answer.
		return result, nil
	}
	return LookupResult{}, fmt.Errorf("unable to parse lookup payload: %w", lastErr)
}

func parseExampleSentences(raw string) ([]ExampleSentence, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("empty generation response")
	}
	for _, candidate := range jsonCandidates(raw) {
		var wrapper struct {
			Sentences []ExampleSentence `json:"sentences"`
		}
		if err := json.Unmarshal([]byte(candidate), &wrapper); err != nil {
			continue
		}
		if wrapper.Sentences == nil {
			return nil, ErrNoSentences
		}
		return sanitizeSentences(wrapper.Sentences), nil
	}
	return nil, ErrNoSentences
}

func parseRandomSeed(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("empty random response")
	}
	for _, candidate := range jsonCandidates(raw) {
		var wrapper struct {
			Sentence string `json:"sentence"`
		}
		if err := json.Unmarshal([]byte(candidate), &wrapper); err != nil {
			continue
		}
		if sentence := strings.TrimSpace(wrapper.Sentence); sentence != "" {
			return sentence, nil
		}
		return "", ErrNoSentence
	}
	return "", ErrNoSentence
}

func parseSpeakingDraft(raw string) (SpeakingDraft, error) {
	if strings.TrimSpace(raw) == "" {
		return SpeakingDraft{}, fmt.Errorf("empty speaking response")
	}
	for _, candidate := range jsonCandidates(raw) {
		var draft SpeakingDraft
		if err := json.Unmarshal([]byte(candidate), &draft); err != nil {
			continue
		}
		draft.Question = strings.TrimSpace(draft.Question)
		draft.Answer = strings.TrimSpace(draft.Answer)
		draft.KeyFeatures = sanitizeList(draft.KeyFeatures)
		if draft.Question == "" && draft.Answer == "" {
			continue
		}
		return draft, nil
	}
	return SpeakingDraft{}, fmt.Errorf("unable to parse speaking payload")
}

func sanitizeSentences(entries []ExampleSentence) []ExampleSentence {
	result := make([]ExampleSentence, 0, len(entries))
	for _, entry := range entries {
		e := ExampleSentence{
			Original:         strings.TrimSpace(entry.Original),
			Translation:      strings.TrimSpace(entry.Translation),
			MatchOriginal:    strings.TrimSpace(entry.MatchOriginal),
			MatchTranslation: strings.TrimSpace(entry.MatchTranslation),
		}
		if e.Original == "" {
			continue
		}
		result = append(result, e)
	}
	return result
}

func sanitizeList(items []string) []string {
	var cleaned []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		cleaned = append(cleaned, item)
	}
	return cleaned
}
