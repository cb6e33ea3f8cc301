// Package reading loads practice passages from plain-text or PDF files.
package reading

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var extraneousWhitespace = regexp.MustCompile(`\s+`)

// Passage is a loaded practice text, split into display paragraphs.
type Passage struct {
	Source     string
	Paragraphs []string
}

// Text joins the paragraphs with blank lines for rendering.
func (p *Passage) Text() string {
	return strings.Join(p.Paragraphs, "\n\n")
}

// Load reads a passage from a .txt or .pdf file.
func Load(path string) (*Passage, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		return loadText(path)
	case ".pdf":
		return loadPDF(path)
	default:
		return nil, fmt.Errorf("unsupported passage format %q (want .txt or .pdf)", filepath.Ext(path))
	}
}

func loadText(path string) (*Passage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	paragraphs := splitParagraphs(string(data))
	if len(paragraphs) == 0 {
		return nil, fmt.Errorf("passage %s is empty", path)
	}
	return &Passage{Source: path, Paragraphs: paragraphs}, nil
}

func loadPDF(path string) (*Passage, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("failed to extract pdf text: %w", err)
	}

	var builder strings.Builder
	if _, err := io.Copy(&builder, content); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(extraneousWhitespace.ReplaceAllString(builder.String(), " "))
	if text == "" {
		return nil, fmt.Errorf("passage %s has no extractable text", path)
	}
	return &Passage{Source: path, Paragraphs: []string{text}}, nil
}

// splitParagraphs splits on blank lines and collapses the whitespace
// inside each paragraph to single spaces.
func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, block := range strings.Split(text, "\n\n") {
		block = extraneousWhitespace.ReplaceAllString(strings.TrimSpace(block), " ")
		if block != "" {
			paragraphs = append(paragraphs, block)
		}
	}
	return paragraphs
}

// SentenceAround returns the sentence of text containing byte offset idx,
// used as disambiguation context for dictionary lookups. Boundaries are
// the usual terminators; a passage with none returns the whole text.
func SentenceAround(text string, idx int) string {
	if idx < 0 || idx >= len(text) {
		return strings.TrimSpace(text)
	}
	start := 0
	for i := idx - 1; i >= 0; i-- {
		if isTerminator(text[i]) {
			start = i + 1
			break
		}
	}
	end := len(text)
	for i := idx; i < len(text); i++ {
		if isTerminator(text[i]) {
			end = i + 1
			break
		}
	}
	return strings.TrimSpace(text[start:end])
}

func isTerminator(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}
