package tui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/tdnguyen/bandup/internal/groq"
	"github.com/tdnguyen/bandup/internal/highlight"
	"github.com/tdnguyen/bandup/internal/session"
)

const headerTagline = "Practice vocabulary and speaking, one band at a time."

func (m *model) View() string {
	m.refreshContentIfDirty()

	var topParts []string
	topParts = append(topParts, m.headerView())
	m.popTop, m.popBottom = 0, 0
	if pop := m.lookup.Snapshot(); pop.Visible {
		box := m.popoverView(pop)
		m.popTop = countLines(strings.Join(topParts, "\n"))
		topParts = append(topParts, box)
		m.popBottom = m.popTop + countLines(box)
	}
	topParts = append(topParts, m.inputView())

	top := strings.Join(topParts, "\n")
	m.bodyTop = countLines(top)

	return strings.Join([]string{top, m.viewport.View(), m.footerView()}, "\n")
}

func (m *model) headerView() string {
	title := titleStyle.Render("bandup")
	tagline := taglineStyle.Render(headerTagline)

	vocabTab := tabStyle.Render("Vocabulary")
	speakTab := tabStyle.Render("Speaking")
	if m.tab == tabVocab {
		vocabTab = activeTabStyle.Render("Vocabulary")
	} else {
		speakTab = activeTabStyle.Render("Speaking")
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top, vocabTab, " ", speakTab)

	meta := helperStyle.Render("model " + m.modelID)
	if m.config.Client != nil {
		meta = helperStyle.Render(fmt.Sprintf("%s via %s", m.modelID, m.config.Client.Name()))
	}
	return strings.Join([]string{
		lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", tagline),
		lipgloss.JoinHorizontal(lipgloss.Top, tabs, "  ", meta),
	}, "\n")
}

func (m *model) popoverView(pop session.Popover) string {
	var b strings.Builder
	b.WriteString(popoverTitleStyle.Render(pop.Query))
	b.WriteRune('\n')
	switch {
	case pop.Phase == session.PhaseLoading:
		b.WriteString(helperStyle.Render(m.spinner.View() + " Looking up…"))
	case pop.Result == nil || pop.Result.Empty():
		b.WriteString(helperStyle.Render("No definition found."))
	default:
		r := pop.Result
		if r.IPA != "" {
			b.WriteString(ipaStyle.Render("/" + strings.Trim(r.IPA, "/") + "/"))
			if r.PartOfSpeech != "" {
				b.WriteString(helperStyle.Render("  " + r.PartOfSpeech))
			}
			b.WriteRune('\n')
		} else if r.PartOfSpeech != "" {
			b.WriteString(helperStyle.Render(r.PartOfSpeech))
			b.WriteRune('\n')
		}
		if r.Meaning != "" {
			b.WriteString(wordwrap.String(r.Meaning, popoverWrapWidth))
			b.WriteRune('\n')
		}
		if r.Translation != "" {
			b.WriteString(translationStyle.Render(wordwrap.String(r.Translation, popoverWrapWidth)))
			b.WriteRune('\n')
		}
		if len(r.Synonyms) > 0 {
			b.WriteString(helperStyle.Render("≈ " + strings.Join(r.Synonyms, ", ")))
		}
	}
	return popoverBoxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m *model) inputView() string {
	if m.tab == tabVocab {
		return strings.Join([]string{
			m.queryInput.View(),
			helperStyle.Render("Enter to search · Ctrl+R random word · Ctrl+S save batch"),
		}, "\n")
	}
	lines := []string{
		m.topicInput.View(),
		helperStyle.Render(fmt.Sprintf("Band %s (Ctrl+B) · Part %s (Ctrl+P) · Enter to generate",
			groq.Bands[m.bandIdx], groq.Parts[m.partIdx])),
	}
	if m.gen.RefineOpen() {
		lines = append(lines,
			m.refineInput.View(),
			helperStyle.Render("Enter to refine · Esc to close"))
	}
	return strings.Join(lines, "\n")
}

func (m *model) footerView() string {
	var parts []string
	if m.gen.Phase() == session.PhaseFailed && m.gen.Error() != "" {
		parts = append(parts, errorStyle.Render(m.gen.Error()))
	}
	if m.infoMessage != "" {
		parts = append(parts, helperStyle.Render(m.infoMessage))
	}
	parts = append(parts, helperStyle.Render("Tab switch pane · Ctrl+O cycle model · Ctrl+C quit"))
	if line := m.jobLogLine(); line != "" {
		parts = append(parts, line)
	}
	return strings.Join(parts, "\n")
}

func (m *model) jobLogLine() string {
	if len(m.jobLog) == 0 {
		return ""
	}
	entries := make([]string, 0, len(m.jobLog))
	for _, s := range m.jobLog {
		entry := fmt.Sprintf("%s %s", s.Kind, s.Status)
		if s.Status != jobStatusRunning {
			entry += " " + s.Duration.Round(time.Millisecond).String()
		}
		entries = append(entries, entry)
	}
	return jobLogStyle.Render("jobs: " + strings.Join(entries, " · "))
}

func (m *model) refreshContentIfDirty() {
	if !m.contentDirty {
		return
	}
	m.contentDirty = false
	var content string
	if m.tab == tabVocab {
		content = m.vocabContent()
	} else {
		content = m.speakingContent()
	}
	m.viewport.SetContent(content)
	styled := strings.Split(content, "\n")
	m.plainLines = make([]string, len(styled))
	for i, line := range styled {
		m.plainLines[i] = stripANSI(line)
	}
}

func (m *model) vocabContent() string {
	var b strings.Builder
	switch m.gen.Phase() {
	case session.PhaseLoading:
		b.WriteString(m.skeletonView())
		b.WriteRune('\n')
	case session.PhaseFailed:
		// The failure banner lives in the footer; keep the results area calm.
	case session.PhaseLoaded:
		for i, s := range m.gen.Sentences() {
			if i > 0 {
				b.WriteRune('\n')
			}
			b.WriteString(m.sentenceCard(s))
			b.WriteRune('\n')
		}
	default:
		b.WriteString(helperStyle.Render("Search a phrase to see it used in sentences."))
		b.WriteRune('\n')
	}
	if m.config.Passage != nil {
		b.WriteRune('\n')
		b.WriteString(sectionHeaderStyle.Render("Passage"))
		b.WriteRune('\n')
		for _, para := range m.config.Passage.Paragraphs {
			b.WriteString(wordwrap.String(para, m.wrapWidth(0)))
			b.WriteString("\n\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *model) speakingContent() string {
	var b strings.Builder
	switch m.gen.Phase() {
	case session.PhaseLoading:
		b.WriteString(m.skeletonView())
	default:
		draft := m.gen.Draft()
		if draft == nil {
			b.WriteString(helperStyle.Render("Enter a topic to draft a question and model answer."))
			break
		}
		b.WriteString(questionStyle.Render(wordwrap.String(draft.Question, m.wrapWidth(0))))
		b.WriteString("\n\n")
		b.WriteString(wordwrap.String(draft.Answer, m.wrapWidth(0)))
		b.WriteRune('\n')
		if len(draft.KeyFeatures) > 0 {
			b.WriteRune('\n')
			b.WriteString(sectionHeaderStyle.Render("Key features"))
			b.WriteRune('\n')
			for _, feature := range draft.KeyFeatures {
				b.WriteString(" • ")
				b.WriteString(wordwrap.String(feature, m.wrapWidth(4)))
				b.WriteRune('\n')
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *model) sentenceCard(s groq.ExampleSentence) string {
	width := m.wrapWidth(2)
	original := renderHighlighted(wordwrap.String(s.Original, width), s.MatchOriginal, m.lastPhrase)
	translation := renderHighlighted(wordwrap.String(s.Translation, width), s.MatchTranslation, "")
	return original + "\n" + translationStyle.Render(translation)
}

// renderHighlighted styles every occurrence of needle inside text. When
// the needle is blank or absent it falls back to the searched phrase so a
// sloppy response still gets some emphasis.
func renderHighlighted(text, needle, fallback string) string {
	segments := highlight.Align(text, strings.TrimSpace(needle))
	if !hasMatch(segments) && strings.TrimSpace(fallback) != "" {
		segments = highlight.Align(text, strings.TrimSpace(fallback))
	}
	var b strings.Builder
	for _, seg := range segments {
		if seg.Match {
			b.WriteString(matchStyle.Render(seg.Text))
		} else {
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}

func hasMatch(segments []highlight.Segment) bool {
	for _, seg := range segments {
		if seg.Match {
			return true
		}
	}
	return false
}

func (m *model) skeletonView() string {
	bar := skeletonStyle.Render(strings.Repeat("░", m.wrapWidth(10)))
	var b strings.Builder
	for i := 0; i < 3; i++ {
		b.WriteString(bar)
		b.WriteRune('\n')
		b.WriteString(bar)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *model) wrapWidth(padding int) int {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	if padding < 0 {
		padding = 0
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}

func countLines(s string) int {
	return strings.Count(s, "\n") + 1
}

var ansiEscapeCodes = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

func stripANSI(text string) string {
	return ansiEscapeCodes.ReplaceAllString(text, "")
}

const popoverWrapWidth = 44

var (
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	taglineStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffb347")).Italic(true)
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	matchStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("190"))
	translationStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	questionStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147"))
	skeletonStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	jobLogStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	ipaStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	popoverTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff8c00"))
	popoverBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#ff8c00")).Padding(0, 1)
	tabStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 1)
	activeTabStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
)
