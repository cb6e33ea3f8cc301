// Package tui renders the practice interface: a vocabulary pane where any
// generated or imported text can be swept with the mouse for a dictionary
// popover, and a speaking pane that drafts and refines band-targeted
// answers. All request/response ordering is delegated to the session
// machines; the model only wires their decisions to jobs and pixels.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tdnguyen/bandup/internal/groq"
	"github.com/tdnguyen/bandup/internal/reading"
	"github.com/tdnguyen/bandup/internal/session"
	"github.com/tdnguyen/bandup/internal/wordbook"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Client       groq.Client
	Model        string
	WordbookPath string
	Passage      *reading.Passage
}

type tabID int

const (
	tabVocab tabID = iota
	tabSpeaking
)

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	jobLogLimit               = 3
)

const msgNoClient = "Set GROQ_API_KEY to enable lookups and generation."

type cellPos struct {
	line int
	col  int
}

type model struct {
	config Config
	bus    *jobBus
	tab    tabID

	queryInput  textinput.Model
	topicInput  textinput.Model
	refineInput textinput.Model
	spinner     spinner.Model
	viewport    viewport.Model

	modelID      string
	models       []groq.Model
	modelIdx     int
	pendingCycle bool

	bandIdx int
	partIdx int

	capture session.Capture
	lookup  session.Lookup
	gen     session.Generation

	// lastPhrase is the phrase the current example batch was generated
	// for; it doubles as the highlight fallback when a card carries no
	// usable match substring.
	lastPhrase string

	plainLines []string
	bodyTop    int
	popTop     int
	popBottom  int

	dragActive bool
	dragStart  cellPos
	dragEnd    cellPos

	contentDirty bool
	infoMessage  string
	jobLog       []jobSnapshot
	width        int
	height       int
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	queryInput := textinput.New()
	queryInput.Placeholder = "Type a word or phrase to practice…"
	queryInput.Focus()
	queryInput.CharLimit = 120
	queryInput.Width = 60

	topicInput := textinput.New()
	topicInput.Placeholder = "Speaking topic, e.g. hometown…"
	topicInput.CharLimit = 120
	topicInput.Width = 60

	refineInput := textinput.New()
	refineInput.Placeholder = "How should the answer change?"
	refineInput.CharLimit = 200
	refineInput.Width = 60

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	modelID := config.Model
	if modelID == "" {
		modelID = groq.DefaultModel
	}

	m := &model{
		config:       config,
		bus:          newJobBus(),
		tab:          tabVocab,
		queryInput:   queryInput,
		topicInput:   topicInput,
		refineInput:  refineInput,
		spinner:      spin,
		viewport:     vp,
		modelID:      modelID,
		bandIdx:      bandIndex(groq.Band70),
		partIdx:      0,
		contentDirty: true,
		infoMessage:  "Search a phrase, or drag over any text to look it up.",
	}
	if config.Client == nil {
		m.infoMessage = msgNoClient
	}
	return m
}

func bandIndex(band groq.Band) int {
	for i, b := range groq.Bands {
		if b == band {
			return i
		}
	}
	return 0
}

type searchResultMsg struct {
	token     uint64
	sentences []groq.ExampleSentence
	err       error
}

type randomSeedMsg struct {
	token    uint64
	sentence string
	err      error
}

type speakingResultMsg struct {
	token uint64
	draft groq.SpeakingDraft
	err   error
}

type refineResultMsg struct {
	token uint64
	draft groq.SpeakingDraft
	err   error
}

type lookupResultMsg struct {
	query  string
	result groq.LookupResult
	err    error
}

type modelsResultMsg struct {
	models []groq.Model
	err    error
}

type saveResultMsg struct {
	count int
	err   error
}

type dismissTickMsg struct {
	token int
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			m.markDirty()
			return m, cmd
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		newWidth := msg.Width - viewportHorizontalPadding
		if newWidth < minViewportWidth {
			newWidth = minViewportWidth
		}
		m.viewport.Width = newWidth
		height := msg.Height - 12
		if height < 5 {
			height = 5
		}
		m.viewport.Height = height
		m.markDirty()
		return m, nil
	case jobSignalMsg:
		m.recordJob(msg.Snapshot)
		return m, nil
	case jobResultEnvelope:
		m.recordJob(msg.Snapshot)
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case dismissTickMsg:
		if m.capture.ConfirmDismiss(msg.token, !m.dragActive) {
			m.lookup.Dismiss()
			m.markDirty()
		}
		return m, nil
	case lookupResultMsg:
		if m.lookup.Resolve(msg.query, msg.result, msg.err) {
			m.markDirty()
		}
		return m, nil
	case searchResultMsg:
		if m.gen.ResolveSearch(msg.token, msg.sentences, msg.err) {
			if m.gen.Phase() == session.PhaseLoaded {
				m.infoMessage = "Drag over a sentence to look words up."
			}
			m.markDirty()
		}
		return m, nil
	case randomSeedMsg:
		sentence, ok := m.gen.ResolveRandomSeed(msg.token, msg.sentence, msg.err)
		if !ok {
			m.markDirty()
			return m, nil
		}
		m.queryInput.SetValue(sentence)
		m.lastPhrase = sentence
		m.markDirty()
		return m, m.bus.Start(jobKindSearch,
			searchJob(msg.token, m.config.Client, m.modelID, sentence))
	case speakingResultMsg:
		if m.gen.ResolveSpeaking(msg.token, msg.draft, msg.err) {
			if m.gen.Phase() == session.PhaseLoaded {
				m.infoMessage = "Draft ready. Ctrl+F to refine, Ctrl+S to save."
			}
			m.markDirty()
		}
		return m, nil
	case refineResultMsg:
		if m.gen.ResolveRefine(msg.token, msg.draft, msg.err) {
			if m.gen.Phase() == session.PhaseLoaded {
				m.infoMessage = "Answer refined."
			}
			m.markDirty()
		}
		return m, nil
	case modelsResultMsg:
		if msg.err != nil {
			m.infoMessage = "Could not list models: " + msg.err.Error()
			return m, nil
		}
		m.models = msg.models
		if m.pendingCycle {
			m.pendingCycle = false
			m.cycleModel()
		}
		return m, nil
	case saveResultMsg:
		if msg.err != nil {
			m.infoMessage = "Saving failed: " + msg.err.Error()
			return m, nil
		}
		m.infoMessage = fmt.Sprintf("Saved %d item(s) to %s", msg.count, m.config.WordbookPath)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.tab == tabSpeaking && m.gen.RefineOpen() {
			m.gen.CloseRefine()
			m.refineInput.Blur()
			m.refineInput.SetValue("")
			m.topicInput.Focus()
			m.markDirty()
			return m, nil
		}
		if m.lookup.Snapshot().Visible {
			m.lookup.Dismiss()
			m.markDirty()
			return m, nil
		}
		return m, tea.Quit
	case "tab":
		m.switchTab()
		return m, nil
	case "enter":
		return m.submit()
	case "ctrl+r":
		if m.tab == tabVocab {
			return m.startRandom()
		}
	case "ctrl+b":
		if m.tab == tabSpeaking {
			m.bandIdx = (m.bandIdx + 1) % len(groq.Bands)
			m.markDirty()
		}
		return m, nil
	case "ctrl+p":
		if m.tab == tabSpeaking {
			m.partIdx = (m.partIdx + 1) % len(groq.Parts)
			m.markDirty()
		}
		return m, nil
	case "ctrl+f":
		if m.tab == tabSpeaking {
			m.toggleRefinePanel()
		}
		return m, nil
	case "ctrl+o":
		return m.cycleModelOrFetch()
	case "ctrl+s":
		return m.saveCurrent()
	}
	return m.routeToInput(key)
}

func (m *model) routeToInput(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.tab == tabVocab:
		m.queryInput, cmd = m.queryInput.Update(key)
	case m.gen.RefineOpen():
		m.refineInput, cmd = m.refineInput.Update(key)
	default:
		m.topicInput, cmd = m.topicInput.Update(key)
	}
	return m, cmd
}

func (m *model) switchTab() {
	if m.tab == tabVocab {
		m.tab = tabSpeaking
		m.queryInput.Blur()
		if m.gen.RefineOpen() {
			m.refineInput.Focus()
		} else {
			m.topicInput.Focus()
		}
	} else {
		m.tab = tabVocab
		m.topicInput.Blur()
		m.refineInput.Blur()
		m.queryInput.Focus()
	}
	m.markDirty()
}

func (m *model) submit() (tea.Model, tea.Cmd) {
	if m.tab == tabVocab {
		return m.submitSearch(strings.TrimSpace(m.queryInput.Value()))
	}
	if m.gen.RefineOpen() {
		return m.submitRefine(strings.TrimSpace(m.refineInput.Value()))
	}
	return m.submitSpeaking(strings.TrimSpace(m.topicInput.Value()))
}

func (m *model) submitSearch(phrase string) (tea.Model, tea.Cmd) {
	if m.config.Client == nil && strings.TrimSpace(phrase) != "" {
		m.infoMessage = msgNoClient
		return m, nil
	}
	token, ok := m.gen.StartSearch(phrase)
	if !ok {
		m.infoMessage = "Type a word or phrase first."
		return m, nil
	}
	m.lastPhrase = phrase
	m.markDirty()
	return m, tea.Batch(m.spinner.Tick,
		m.bus.Start(jobKindSearch, searchJob(token, m.config.Client, m.modelID, phrase)))
}

func (m *model) startRandom() (tea.Model, tea.Cmd) {
	if m.config.Client == nil {
		m.infoMessage = msgNoClient
		return m, nil
	}
	token, _ := m.gen.StartRandom()
	m.queryInput.SetValue("")
	m.markDirty()
	return m, tea.Batch(m.spinner.Tick,
		m.bus.Start(jobKindRandom, randomSeedJob(token, m.config.Client, m.modelID)))
}

func (m *model) submitSpeaking(topic string) (tea.Model, tea.Cmd) {
	if m.config.Client == nil && strings.TrimSpace(topic) != "" {
		m.infoMessage = msgNoClient
		return m, nil
	}
	token, ok := m.gen.StartSpeaking(topic)
	if !ok {
		m.infoMessage = "Enter a topic first."
		return m, nil
	}
	m.refineInput.SetValue("")
	m.markDirty()
	return m, tea.Batch(m.spinner.Tick,
		m.bus.Start(jobKindSpeaking, speakingJob(token, m.config.Client, m.modelID,
			topic, groq.Bands[m.bandIdx], groq.Parts[m.partIdx])))
}

func (m *model) submitRefine(instruction string) (tea.Model, tea.Cmd) {
	if m.config.Client == nil && strings.TrimSpace(instruction) != "" {
		m.infoMessage = msgNoClient
		return m, nil
	}
	token, seed, ok := m.gen.StartRefine(instruction)
	if !ok {
		m.infoMessage = "Describe a change, or Esc to close."
		return m, nil
	}
	req := groq.RefineRequest{
		Topic:          strings.TrimSpace(m.topicInput.Value()),
		Band:           groq.Bands[m.bandIdx],
		Part:           groq.Parts[m.partIdx],
		Instruction:    instruction,
		Question:       seed.Question,
		OriginalAnswer: seed.Answer,
	}
	m.refineInput.SetValue("")
	m.markDirty()
	return m, tea.Batch(m.spinner.Tick,
		m.bus.Start(jobKindRefine, refineJob(token, m.config.Client, m.modelID, req)))
}

func (m *model) toggleRefinePanel() {
	if m.gen.RefineOpen() {
		m.gen.CloseRefine()
		m.refineInput.Blur()
		m.topicInput.Focus()
	} else if m.gen.OpenRefine() {
		m.topicInput.Blur()
		m.refineInput.Focus()
	} else {
		m.infoMessage = "Generate an answer before refining."
	}
	m.markDirty()
}

func (m *model) cycleModelOrFetch() (tea.Model, tea.Cmd) {
	if m.config.Client == nil {
		m.infoMessage = msgNoClient
		return m, nil
	}
	if len(m.models) == 0 {
		m.pendingCycle = true
		m.infoMessage = "Fetching model list…"
		return m, tea.Batch(m.spinner.Tick,
			m.bus.Start(jobKindModels, listModelsJob(m.config.Client)))
	}
	m.cycleModel()
	return m, nil
}

func (m *model) cycleModel() {
	if len(m.models) == 0 {
		return
	}
	m.modelIdx = (m.modelIdx + 1) % len(m.models)
	m.modelID = m.models[m.modelIdx].ID
	m.infoMessage = "Model: " + m.modelID
	m.markDirty()
}

func (m *model) saveCurrent() (tea.Model, tea.Cmd) {
	if m.config.WordbookPath == "" {
		m.infoMessage = "No wordbook path configured."
		return m, nil
	}
	entries := m.collectEntries()
	if len(entries) == 0 {
		m.infoMessage = "Nothing to save yet."
		return m, nil
	}
	return m, m.bus.Start(jobKindSave, saveEntriesJob(m.config.WordbookPath, entries))
}

func (m *model) collectEntries() []wordbook.Entry {
	if m.tab == tabSpeaking {
		if draft := m.gen.Draft(); draft != nil {
			return []wordbook.Entry{wordbook.FromDraft(strings.TrimSpace(m.topicInput.Value()), *draft)}
		}
		return nil
	}
	if pop := m.lookup.Snapshot(); pop.Visible && pop.Result != nil {
		return []wordbook.Entry{wordbook.FromLookup(pop.Query, *pop.Result)}
	}
	sentences := m.gen.Sentences()
	entries := make([]wordbook.Entry, 0, len(sentences))
	for _, s := range sentences {
		entries = append(entries, wordbook.FromExample(m.lastPhrase, s))
	}
	return entries
}

func (m *model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Y >= m.popTop && msg.Y < m.popBottom {
		return m, nil
	}
	switch msg.Type {
	case tea.MouseWheelUp, tea.MouseWheelDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case tea.MouseLeft, tea.MouseMotion:
		if msg.Type == tea.MouseMotion && !m.dragActive {
			return m, nil
		}
		pos := m.cellAt(msg.X, msg.Y)
		if !m.dragActive {
			m.dragActive = true
			m.dragStart = pos
		}
		m.dragEnd = pos
		return m, nil
	case tea.MouseRelease:
		if !m.dragActive {
			return m, nil
		}
		m.dragActive = false
		return m.finishSelection()
	}
	return m, nil
}

func (m *model) finishSelection() (tea.Model, tea.Cmd) {
	raw, rect, context := m.resolveSelection()
	if ev, ok := m.capture.Release(raw, rect, context); ok {
		req := m.lookup.Begin(ev)
		m.markDirty()
		if m.config.Client == nil {
			m.lookup.Dismiss()
			m.infoMessage = msgNoClient
			return m, nil
		}
		return m, tea.Batch(m.spinner.Tick,
			m.bus.Start(jobKindLookup, lookupJob(m.config.Client, m.modelID, req)))
	}
	token := m.capture.ScheduleDismiss()
	return m, tea.Tick(session.DismissDelay, func(time.Time) tea.Msg {
		return dismissTickMsg{token: token}
	})
}

// cellAt maps a screen coordinate into the selectable body content.
func (m *model) cellAt(x, y int) cellPos {
	line := y - m.bodyTop + m.viewport.YOffset
	if line < 0 {
		line = 0
	}
	if line >= len(m.plainLines) && len(m.plainLines) > 0 {
		line = len(m.plainLines) - 1
	}
	if x < 0 {
		x = 0
	}
	return cellPos{line: line, col: x}
}

// resolveSelection extracts the dragged text from the unstyled body lines
// along with its on-screen bounding box and the sentence around it.
func (m *model) resolveSelection() (string, session.Rect, string) {
	if len(m.plainLines) == 0 {
		return "", session.Rect{}, ""
	}
	start, end := m.dragStart, m.dragEnd
	if start.line > end.line || (start.line == end.line && start.col > end.col) {
		start, end = end, start
	}
	if start.line >= len(m.plainLines) {
		return "", session.Rect{}, ""
	}
	if end.line >= len(m.plainLines) {
		end.line = len(m.plainLines) - 1
		end.col = len([]rune(m.plainLines[end.line]))
	}

	if start.line == end.line {
		runes := []rune(m.plainLines[start.line])
		a, b := clampSpan(start.col, end.col+1, len(runes))
		raw := string(runes[a:b])
		rect := session.Rect{
			X:      a,
			Y:      start.line - m.viewport.YOffset + m.bodyTop,
			Width:  b - a,
			Height: 1,
		}
		context := reading.SentenceAround(m.plainLines[start.line], len(string(runes[:a])))
		return raw, rect, context
	}

	var parts []string
	for i := start.line; i <= end.line; i++ {
		runes := []rune(m.plainLines[i])
		switch i {
		case start.line:
			a, b := clampSpan(start.col, len(runes), len(runes))
			parts = append(parts, string(runes[a:b]))
		case end.line:
			a, b := clampSpan(0, end.col+1, len(runes))
			parts = append(parts, string(runes[a:b]))
		default:
			parts = append(parts, string(runes))
		}
	}
	raw := strings.Join(parts, " ")
	rect := session.Rect{
		X:      start.col,
		Y:      start.line - m.viewport.YOffset + m.bodyTop,
		Width:  len([]rune(parts[0])),
		Height: end.line - start.line + 1,
	}
	context := strings.TrimSpace(m.plainLines[start.line])
	return raw, rect, context
}

func clampSpan(a, b, limit int) (int, int) {
	if a < 0 {
		a = 0
	}
	if a > limit {
		a = limit
	}
	if b < a {
		b = a
	}
	if b > limit {
		b = limit
	}
	return a, b
}

func (m *model) busy() bool {
	if m.gen.Phase() == session.PhaseLoading {
		return true
	}
	pop := m.lookup.Snapshot()
	return pop.Visible && pop.Phase == session.PhaseLoading
}

func (m *model) recordJob(snapshot jobSnapshot) {
	for i := range m.jobLog {
		if m.jobLog[i].ID == snapshot.ID {
			m.jobLog[i] = snapshot
			return
		}
	}
	m.jobLog = append(m.jobLog, snapshot)
	if len(m.jobLog) > jobLogLimit {
		m.jobLog = m.jobLog[len(m.jobLog)-jobLogLimit:]
	}
}

func (m *model) markDirty() {
	m.contentDirty = true
}
