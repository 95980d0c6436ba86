package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/unbound-force/clpmix/internal/classify"
)

// ErrAborted is returned when the user leaves a TUI question without
// answering.
var ErrAborted = errors.New("question aborted")

// TUI asks each question in a small Bubble Tea program with inline
// validation.
type TUI struct {
	opts []tea.ProgramOption
}

var _ classify.Asker = (*TUI)(nil)

// NewTUI returns a TUI asker. opts are passed to every tea.Program,
// e.g. tea.WithInput and tea.WithOutput.
func NewTUI(opts ...tea.ProgramOption) *TUI {
	return &TUI{opts: opts}
}

// Ask implements classify.Asker.
func (t *TUI) Ask(ctx context.Context, q classify.Question) (string, error) {
	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, t.opts...)
	final, err := tea.NewProgram(newQuestionModel(q), opts...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("running prompt: %w", err)
	}
	m, ok := final.(questionModel)
	if !ok || m.aborted || !m.done {
		return "", ErrAborted
	}
	return m.answer, nil
}

type questionKeys struct {
	Submit key.Binding
	Cancel key.Binding
}

func (k questionKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Cancel}
}

func (k questionKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Submit, k.Cancel}}
}

var defaultQuestionKeys = questionKeys{
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
	Cancel: key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "abort")),
}

// questionModel is the Bubble Tea model for a single question.
type questionModel struct {
	question classify.Question
	input    textinput.Model
	help     help.Model
	keys     questionKeys

	errMsg  string
	answer  string
	done    bool
	aborted bool
}

func newQuestionModel(q classify.Question) questionModel {
	in := textinput.New()
	in.Prompt = cursorStyle.Render("> ")
	in.CharLimit = 64
	in.Focus()
	return questionModel{
		question: q,
		input:    in,
		help:     help.New(),
		keys:     defaultQuestionKeys,
	}
}

func (m questionModel) Init() tea.Cmd {
	return nil
}

func (m questionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.aborted = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Submit):
			answer := strings.TrimSpace(m.input.Value())
			if m.question.Validate != nil {
				if ok, reason := m.question.Validate(answer); !ok {
					m.errMsg = reason
					return m, nil
				}
			}
			m.answer = answer
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m questionModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(questionStyle.Render(m.question.Prompt))
	sb.WriteString("\n")
	if m.question.Description != "" {
		sb.WriteString(hintStyle.Render(m.question.Description))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n")
	if m.errMsg != "" {
		sb.WriteString(errorStyle.Render(m.errMsg))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}
