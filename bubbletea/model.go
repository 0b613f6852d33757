package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	bprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/sitesmith/sitesmith"
	"github.com/sitesmith/sitesmith/edit"
	"github.com/sitesmith/sitesmith/pipeline"
)

var _ tea.Model = Model{}

// phase is the TUI's position in the generate/edit flow.
type phase int

const (
	phaseDescribe phase = iota // waiting for a site description
	phaseGenerating
	phaseQuestion // clarification interrupt: waiting for an answer
	phaseApproval // plan interrupt: waiting for approve/feedback
	phaseEdit     // artifact ready: waiting for an edit instruction
	phaseProposing
	phaseReview // pending update: waiting for accept/reject
)

// Config carries settings for the TUI.
type Config struct {
	ServerURL string
	ExportDir string
	// RequestTimeout bounds each edit proposal call. Zero means no bound.
	// Generation streams are bounded by their own cancellation instead.
	RequestTimeout time.Duration
}

// Model is the Bubble Tea model for the sitesmith TUI.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model

	orch   *pipeline.Orchestrator
	edits  *edit.Session
	store  *sitesmith.Store
	events <-chan tea.Msg
	theme  sitesmith.Theme
	styles Styles
	config Config

	spin spinner.Model
	bar  bprogress.Model

	phase        phase
	percent      float64
	stageLabel   string
	statusText   string
	questions    []string
	plan         string
	designSystem string
	summary      string
	err          error
	width        int
	cancel       context.CancelFunc
}

// New creates a TUI Model. events receives ProgressMsg and StageMsg from
// the orchestrator's handlers; the caller owns the channel and the
// animator's tick goroutine.
func New(orch *pipeline.Orchestrator, edits *edit.Session, store *sitesmith.Store, events <-chan tea.Msg, theme sitesmith.Theme, config Config) Model {
	ti := textinput.New()
	ti.Placeholder = "Describe the website you want..."
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		Input:  ti,
		orch:   orch,
		edits:  edits,
		store:  store,
		events: events,
		theme:  theme,
		styles: NewStyles(theme),
		config: config,
		spin:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		bar:    bprogress.New(bprogress.WithDefaultGradient()),
	}
}

// Phase helpers for tests.

// Generating reports whether a generation or proposal is in flight.
func (m Model) Generating() bool { return m.phase == phaseGenerating || m.phase == phaseProposing }

// Err returns the last error, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, listen(m.events))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.Input.Width = msg.Width - 4
		m.bar.Width = min(msg.Width-10, 60)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case ProgressMsg:
		if float64(msg) > m.percent {
			m.percent = float64(msg)
		}
		return m, listen(m.events)

	case StageMsg:
		m.stageLabel = msg.Stage.Label
		m.statusText = msg.Message
		return m, listen(m.events)

	case OutcomeMsg:
		return m.handleOutcome(msg)

	case UpdateMsg:
		return m.handleUpdate(msg)
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		text := strings.TrimSpace(m.Input.Value())
		switch m.phase {
		case phaseDescribe:
			if text == "" {
				return m, nil
			}
			return m.startGeneration(text, false)
		case phaseQuestion, phaseApproval:
			if text == "" {
				return m, nil
			}
			return m.resumeGeneration(text)
		case phaseEdit:
			if text == "" {
				return m, nil
			}
			return m.startProposal(text)
		case phaseReview:
			return m.resolveReview(text)
		}
		return m, nil
	}

	if m.phase != phaseGenerating && m.phase != phaseProposing {
		var cmd tea.Cmd
		m.Input, cmd = m.Input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) startGeneration(description string, followUp bool) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.Input.Blur()
	m.err = nil
	m.phase = phaseGenerating
	m.stageLabel = "Starting"
	m.statusText = ""

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	orch := m.orch
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		outcome, err := orch.Start(ctx, description, followUp)
		return OutcomeMsg{Outcome: outcome, Err: err}
	})
}

func (m Model) resumeGeneration(answer string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.Input.Blur()
	m.err = nil
	m.phase = phaseGenerating

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	orch := m.orch
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		outcome, err := orch.Resume(ctx, answer)
		return OutcomeMsg{Outcome: outcome, Err: err}
	})
}

func (m Model) startProposal(instruction string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.Input.Blur()
	m.err = nil
	m.phase = phaseProposing

	ctx := context.Background()
	var cancel context.CancelFunc
	if m.config.RequestTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, m.config.RequestTimeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	m.cancel = cancel
	edits := m.edits
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		res, err := edits.Propose(ctx, instruction, "")
		return UpdateMsg{Result: res, Err: err}
	})
}

// resolveReview accepts or rejects the pending update. "y"/"yes"/""
// commits, anything else discards.
func (m Model) resolveReview(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	var err error
	switch strings.ToLower(text) {
	case "", "y", "yes":
		err = m.edits.Commit()
		m.statusText = "Change applied."
	default:
		err = m.edits.Discard()
		m.statusText = "Change discarded."
	}
	if err != nil {
		m.err = err
	}
	m.summary = ""
	m.phase = phaseEdit
	m.Input.Placeholder = "Describe another change, or Ctrl+C to quit..."
	return m, m.Input.Focus()
}

func (m Model) handleOutcome(msg OutcomeMsg) (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if msg.Err != nil {
		if errors.Is(msg.Err, context.Canceled) {
			m.statusText = "Generation cancelled."
		} else {
			m.err = msg.Err
		}
		m.phase = phaseDescribe
		return m, m.Input.Focus()
	}

	switch msg.Outcome.State {
	case pipeline.StateAwaitingClarification:
		m.phase = phaseQuestion
		m.questions = msg.Outcome.Questions
		m.Input.Placeholder = "Your answer..."
	case pipeline.StateAwaitingApproval:
		m.phase = phaseApproval
		m.plan = msg.Outcome.Plan
		m.designSystem = msg.Outcome.DesignSystem
		m.Input.Placeholder = `Type "Approve" or describe changes to the plan...`
	case pipeline.StateComplete:
		m.phase = phaseEdit
		m.percent = 100
		m.statusText = "Website generated."
		m.Input.Placeholder = "Describe a change to the site..."
	default:
		m.phase = phaseDescribe
	}
	return m, m.Input.Focus()
}

func (m Model) handleUpdate(msg UpdateMsg) (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if msg.Err != nil {
		m.err = msg.Err
		m.phase = phaseEdit
		return m, m.Input.Focus()
	}
	m.phase = phaseReview
	m.summary = msg.Result.ChangesSummary
	m.Input.Placeholder = "Apply this change? [Y/n]"
	return m, m.Input.Focus()
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Accent.Render("sitesmith"))
	if m.config.ServerURL != "" {
		b.WriteString(m.styles.Muted.Render("  " + m.config.ServerURL))
	}
	b.WriteString("\n\n")

	switch m.phase {
	case phaseDescribe:
		if m.statusText != "" {
			b.WriteString(m.styles.Muted.Render(m.statusText))
			b.WriteString("\n\n")
		}

	case phaseGenerating, phaseProposing:
		b.WriteString(m.spin.View())
		b.WriteString(" ")
		b.WriteString(m.styles.Stage.Render(m.stageLabel))
		b.WriteString("\n")
		b.WriteString(m.bar.ViewAs(m.percent / 100))
		b.WriteString("\n")
		if m.statusText != "" {
			b.WriteString(m.styles.Muted.Render(m.statusText))
			b.WriteString("\n")
		}

	case phaseQuestion:
		b.WriteString(m.styles.Question.Render("A few questions before we continue:"))
		b.WriteString("\n")
		for _, q := range m.questions {
			b.WriteString("  • " + q + "\n")
		}
		b.WriteString("\n")

	case phaseApproval:
		b.WriteString(m.styles.Question.Render("Proposed plan"))
		b.WriteString("\n")
		b.WriteString(renderMarkdown(m.plan, m.width))
		if m.designSystem != "" {
			b.WriteString(m.styles.Plan.Render("Design system: " + m.designSystem))
			b.WriteString("\n")
		}
		b.WriteString("\n")

	case phaseEdit:
		b.WriteString(m.styles.Success.Render(m.statusText))
		b.WriteString("\n")
		b.WriteString(m.pageList())
		b.WriteString("\n")

	case phaseReview:
		b.WriteString(m.styles.Question.Render("Proposed change"))
		b.WriteString("\n")
		b.WriteString(renderMarkdown(m.summary, m.width))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) pageList() string {
	pages := m.store.Pages()
	names := make([]string, 0, len(pages))
	for name := range pages {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString("  ")
		b.WriteString(m.styles.Accent.Render(name))
		b.WriteString("\n")
	}
	return b.String()
}

// renderMarkdown renders markdown to ANSI output, falling back to the
// raw text when rendering fails.
func renderMarkdown(src string, width int) string {
	if src == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(min(width, 100)),
	)
	if err != nil {
		return src + "\n"
	}
	out, err := r.Render(src)
	if err != nil {
		return src + "\n"
	}
	return out
}

// listen waits for the next handler message from the channel.
func listen(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}
