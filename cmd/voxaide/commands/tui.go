package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	dialogue "github.com/voxaide/voxaide-core/core"
	"github.com/voxaide/voxaide-core/core/capture"
	"github.com/voxaide/voxaide-core/core/events"
)

// typedCapture is a capture client backed by the keyboard: each submitted
// line is one utterance. It lets the full dialogue run on machines without
// a microphone or a speech key.
type typedCapture struct {
	lines chan string
}

func newTypedCapture() *typedCapture {
	return &typedCapture{lines: make(chan string, 1)}
}

func (c *typedCapture) Listen(ctx context.Context) capture.Result {
	select {
	case <-ctx.Done():
		return capture.Failure(capture.CodeOther)
	case line := <-c.lines:
		if strings.TrimSpace(line) == "" {
			return capture.Failure(capture.CodeNoSpeech)
		}
		return capture.Transcript(line)
	}
}

func (c *typedCapture) Stop() {}

func (c *typedCapture) submit(line string) {
	select {
	case c.lines <- line:
	default:
	}
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	userStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	statusStyle   = lipgloss.NewStyle().Faint(true)
	degradedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

type eventMsg struct{ event events.Event }

type sessionDoneMsg struct{ err error }

type tuiModel struct {
	orchestrator *dialogue.Orchestrator
	mic          *typedCapture
	cancel       context.CancelFunc

	input textinput.Model
	log   []string
	width int

	listening bool
	done      bool
	err       error
}

func newTUIModel(orchestrator *dialogue.Orchestrator, mic *typedCapture, cancel context.CancelFunc) tuiModel {
	input := textinput.New()
	input.Placeholder = "speak by typing…"
	input.CharLimit = 256
	input.Focus()

	return tuiModel{
		orchestrator: orchestrator,
		mic:          mic,
		cancel:       cancel,
		input:        input,
		width:        80,
	}
}

func (m tuiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancel()
			m.orchestrator.Stop()
			return m, tea.Quit
		case "enter":
			line := m.input.Value()
			m.input.SetValue("")
			m.log = append(m.log, userStyle.Render("you: "+line))
			m.mic.submit(line)
			return m, nil
		}

	case eventMsg:
		m = m.applyEvent(msg.event)
		return m, nil

	case sessionDoneMsg:
		m.done = true
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.err = msg.err
		}
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m tuiModel) applyEvent(event events.Event) tuiModel {
	switch event := event.(type) {
	case events.SynthesisStarted:
		m.log = append(m.log, promptStyle.Render("voxaide: "+event.Text))
	case events.SynthesisEnded:
		if event.Degraded {
			m.listening = false
		}
	case events.Listening:
		m.listening = true
	case events.Transcription:
		m.listening = false
	case events.CaptureFailed:
		m.log = append(m.log, degradedStyle.Render(event.Guidance))
	case events.SessionCompleted:
		m.log = append(m.log, statusStyle.Render("session complete"))
	}
	return m
}

func (m tuiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("voxaide"))
	b.WriteString("\n\n")

	for _, line := range m.log {
		b.WriteString(wordwrap.String(line, m.width))
		b.WriteString("\n")
	}

	session := m.orchestrator.Session()
	status := "state: " + string(session.TurnState)
	if !session.TTSAvailable {
		status += "  (voice output unavailable, showing text)"
	}
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	return b.String()
}

func runTUI(ctx context.Context, kind sessionKind) error {
	if configErr != nil {
		return configErr
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	mic := newTypedCapture()

	var program *tea.Program
	orchestrator, err := buildOrchestrator(globalConfig, mic, nil, func(event events.Event) {
		if program != nil {
			program.Send(eventMsg{event: event})
		}
	})
	if err != nil {
		return err
	}

	model := newTUIModel(orchestrator, mic, cancel)
	program = tea.NewProgram(model)

	go func() {
		var err error
		if kind == sessionSetup {
			err = orchestrator.RunSetup(ctx)
		} else {
			err = orchestrator.RunCommands(ctx)
		}
		program.Send(sessionDoneMsg{err: err})
	}()

	final, err := program.Run()
	if err != nil {
		return err
	}
	if finished, ok := final.(tuiModel); ok {
		return finished.err
	}
	return nil
}
