package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/unbound-force/clpmix/internal/report"
)

// keyMap defines keybindings for the interactive TUI.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
	Help     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Quit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Quit, k.Help},
	}
}

var defaultKeyMap = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("^/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("v/j", "down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

// Styles for the TUI.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	tuiHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	tuiBorderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))

	tokenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// classifyModel is the Bubble Tea model for browsing a classification
// result and its label.
type classifyModel struct {
	report   report.Report
	viewport viewport.Model
	help     help.Model
	keys     keyMap
	ready    bool
	content  string
}

func newClassifyModel(r report.Report) classifyModel {
	return classifyModel{
		report:  r,
		help:    help.New(),
		keys:    defaultKeyMap,
		content: renderClassifyContent(r),
	}
}

func renderClassifyContent(r report.Report) string {
	var sb strings.Builder

	name := r.Mixture.Name
	if name == "" {
		name = "Mixture"
	}
	sb.WriteString(titleStyle.Render(
		fmt.Sprintf("%s: %d hazard class(es), %d advisory note(s)",
			name, len(r.Result.Classification), len(r.Result.Advisories))))
	sb.WriteString("\n\n")

	sb.WriteString(tuiHeaderStyle.Render("=== Classification ==="))
	sb.WriteString("\n")
	if len(r.Result.Classification) == 0 {
		sb.WriteString(statusStyle.Render("    Not classified."))
		sb.WriteString("\n\n")
	} else {
		rows := make([][]string, 0, len(r.Result.Classification))
		for _, tok := range r.Result.Classification {
			rows = append(rows, []string{tok.String(), tok.Class.Description()})
		}

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(tuiBorderStyle).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return tuiHeaderStyle
				}
				if col == 0 {
					return tokenStyle
				}
				return lipgloss.NewStyle()
			}).
			Headers("TOKEN", "HAZARD CLASS").
			Rows(rows...)

		sb.WriteString(t.String())
		sb.WriteString("\n\n")
	}

	if len(r.Result.Advisories) > 0 {
		sb.WriteString(tuiHeaderStyle.Render("=== Requires test data ==="))
		sb.WriteString("\n")
		for _, a := range r.Result.Advisories {
			sb.WriteString(statusStyle.Render("    " + a.Message))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	_ = report.WriteLabelText(&sb, r.Label)
	return sb.String()
}

func (m classifyModel) Init() tea.Cmd {
	return nil
}

func (m classifyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		footerHeight := 2

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-footerHeight)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - footerHeight
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m classifyModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	footer := statusStyle.Render(
		fmt.Sprintf(" %3.f%% ", m.viewport.ScrollPercent()*100)) +
		" " + m.help.View(m.keys)

	return m.viewport.View() + "\n" + footer
}

// runInteractiveClassify launches the Bubble Tea TUI for browsing a
// classification report.
func runInteractiveClassify(r report.Report) error {
	p := tea.NewProgram(newClassifyModel(r), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
