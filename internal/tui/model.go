package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docsum/internal/domain"
	"docsum/internal/languages"
)

// PipelinePort is the TUI-facing subset of the document pipeline.
type PipelinePort interface {
	ProcessFile(ctx context.Context, path, target string, summarize bool) (*domain.Report, error)
}

// SaveFunc persists a report and returns where it went.
type SaveFunc func(rep *domain.Report) (string, error)

type processedMsg struct {
	report *domain.Report
	err    error
}

type savedMsg struct {
	path string
	err  error
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	pipeline PipelinePort
	save     SaveFunc
	ctx      context.Context
	input    textinput.Model
	viewport viewport.Model
	langs    []languages.Language
	langIdx  int
	history  []*domain.Report
	cursor   int
	status   string
	busy     bool
	ready    bool
	initial  string
}

// New creates a new TUI model instance. target preselects a language; path,
// when non-empty, is processed on start. save may be nil.
func New(ctx context.Context, pipeline PipelinePort, save SaveFunc, target, path string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Path to a PDF or image, Enter to translate, Ctrl+S to summarize"
	ti.Focus()
	ti.CharLimit = 0
	ti.SetValue(path)

	langs := languages.All()
	idx := 0
	for i, l := range langs {
		if l.Code == target {
			idx = i
		}
	}
	return Model{
		pipeline: pipeline,
		save:     save,
		ctx:      ctx,
		input:    ti,
		viewport: viewport.New(0, 0),
		langs:    langs,
		langIdx:  idx,
		status:   "Tab/Shift+Tab: language  Up/Down: history  Ctrl+O: save report  Ctrl+C: quit",
		initial:  strings.TrimSpace(path),
	}
}

// Init starts the cursor blink and processes the initial file, if any.
func (m Model) Init() tea.Cmd {
	if m.initial == "" {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, m.process(m.initial, false))
}

// Target is the currently selected language.
func (m Model) Target() languages.Language { return m.langs[m.langIdx] }

func (m Model) process(path string, summarize bool) tea.Cmd {
	target := m.Target().Code
	return func() tea.Msg {
		rep, err := m.pipeline.ProcessFile(m.ctx, path, target, summarize)
		return processedMsg{report: rep, err: err}
	}
}

func (m Model) saveCurrent() tea.Cmd {
	rep := m.history[m.cursor]
	return func() tea.Msg {
		path, err := m.save(rep)
		return savedMsg{path: path, err: err}
	}
}

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around report and input boxes
		_, rh := reportBoxStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		totalHeaderLines := 2                                    // header + language
		totalFooterLines := 1                                    // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrent())
		return m, nil

	case processedMsg:
		m.busy = false
		if msg.report != nil {
			m.history = append(m.history, msg.report)
			m.cursor = len(m.history) - 1
			m.status = fmt.Sprintf("Processed %s", msg.report.Path)
		}
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		}
		m.viewport.SetContent(m.renderCurrent())
		m.viewport.GotoTop()
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.status = "Saved " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter", "ctrl+s":
			if m.busy {
				return m, nil
			}
			path := strings.TrimSpace(m.input.Value())
			summarize := msg.String() == "ctrl+s"
			if path == "" && len(m.history) > 0 {
				path = m.history[m.cursor].Path
			}
			if path == "" {
				m.status = "Enter a file path first"
				return m, nil
			}
			m.busy = true
			if summarize {
				m.status = fmt.Sprintf("Summarizing %s into %s...", path, m.Target().Name)
			} else {
				m.status = fmt.Sprintf("Translating %s into %s...", path, m.Target().Name)
			}
			return m, m.process(path, summarize)
		case "ctrl+o":
			if len(m.history) == 0 || m.save == nil {
				m.status = "Nothing to save"
				return m, nil
			}
			return m, m.saveCurrent()
		case "tab":
			m.langIdx = (m.langIdx + 1) % len(m.langs)
			return m, nil
		case "shift+tab":
			m.langIdx = (m.langIdx - 1 + len(m.langs)) % len(m.langs)
			return m, nil
		case "down":
			if len(m.history) > 0 {
				m.cursor = (m.cursor + 1) % len(m.history)
				m.viewport.SetContent(m.renderCurrent())
				return m, nil
			}
		case "up":
			if len(m.history) > 0 {
				m.cursor = (m.cursor - 1 + len(m.history)) % len(m.history)
				m.viewport.SetContent(m.renderCurrent())
				return m, nil
			}
		case "pgdown":
			m.viewport.HalfViewDown()
			return m, nil
		case "pgup":
			m.viewport.HalfViewUp()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and current report.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("docsum")
	t := m.Target()
	lang := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).
		Render(fmt.Sprintf("Target: %s (%s)  estimated accuracy %d%%", t.Name, t.Code, t.Accuracy))
	input := inputBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	body := reportBoxStyle.Render(m.viewport.View())
	return header + "\n" + lang + "\n" + body + "\n" + input + "\n" + status
}

func (m Model) renderCurrent() string {
	if len(m.history) == 0 {
		return "No documents yet."
	}
	r := m.history[m.cursor]
	var b strings.Builder
	title := r.Title
	if title == "" {
		title = r.Path
	}
	fmt.Fprintf(&b, "History %d/%d  %s\n", m.cursor+1, len(m.history), title)
	fmt.Fprintf(&b, "Detected language: %s\n", r.SourceLanguage)

	writeSection(&b, "Summary", r.Summary)
	writeSection(&b, fmt.Sprintf("Summary (%s)", r.TargetLanguage), r.TranslatedSummary)
	writeSection(&b, fmt.Sprintf("Translated Text (%s)  est. accuracy %d%%", r.TargetLanguage, r.Accuracy), r.TranslatedText)
	writeSection(&b, "Original Text", highlightSummary(r.Text, r.Summary))
	if len(r.Keywords) > 0 {
		writeSection(&b, "Keywords", strings.Join(r.Keywords, ", "))
	}
	if len(r.Diagnostics) > 0 {
		writeSection(&b, "Diagnostics", "- "+strings.Join(r.Diagnostics, "\n- "))
	}
	return b.String()
}

func writeSection(b *strings.Builder, heading, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render(heading))
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
}

var (
	reportBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	sectionStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	sentenceRe     = regexp.MustCompile(`(?m)(?U)([^.!?।]+[.!?।])`)
)

// highlightSummary marks the sentences of text that made it into summary.
func highlightSummary(text, summary string) string {
	if strings.TrimSpace(text) == "" || strings.TrimSpace(summary) == "" {
		return text
	}
	locs := sentenceRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return text
	}
	sentences := make([]string, 0, len(locs)+1)
	for _, loc := range locs {
		sentences = append(sentences, text[loc[0]:loc[1]])
	}
	if rest := text[locs[len(locs)-1][1]:]; strings.TrimSpace(rest) != "" {
		sentences = append(sentences, rest)
	}
	for i := range sentences {
		sent := strings.TrimSpace(sentences[i])
		if sent != "" && strings.Contains(summary, sent) {
			sentences[i] = highlightStyle.Render(sent)
		} else {
			sentences[i] = sent
		}
	}
	return strings.Join(sentences, " ")
}
