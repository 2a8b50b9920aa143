package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(AnsiBlue))
	blurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(AnsiGray))
	cursorStyle  = focusedStyle
	noStyle      = lipgloss.NewStyle()
)

type PromptInputType string

const (
	PromptString   PromptInputType = "string"
	PromptPassword PromptInputType = "password"
)

type PromptInput struct {
	Id          string
	Type        PromptInputType
	Placeholder string
	Value       string
}

type PromptOpts struct {
	Title  string
	Inputs []PromptInput
}

type PromptExitCode int

const (
	PromptCompleted PromptExitCode = 0
	PromptCancelled PromptExitCode = 1
)

// CreatePrompt builds a form from the requested inputs; inputs that
// arrive with a value already set are passed through without being
// shown so commands can mix flags and interactive entry.
func CreatePrompt(opts PromptOpts) *PromptModel {
	m := PromptModel{
		inputIds: []string{},
		outputs:  map[string]string{},
	}
	if opts.Title != "" {
		m.title = &opts.Title
	}

	for _, input := range opts.Inputs {
		if input.Value != "" {
			m.outputs[input.Id] = input.Value
			continue
		}
		t := textinput.New()
		t.Cursor.Style = cursorStyle
		t.Width = 64
		t.CharLimit = 256
		t.Placeholder = input.Placeholder
		if input.Type == PromptPassword {
			t.EchoMode = textinput.EchoPassword
			t.EchoCharacter = '*'
		}
		if len(m.inputs) == 0 {
			t.Focus()
			t.PromptStyle = focusedStyle
			t.TextStyle = focusedStyle
		}
		m.inputIds = append(m.inputIds, input.Id)
		m.inputs = append(m.inputs, t)
	}

	return &m
}

type PromptModel struct {
	focusIndex int
	inputs     []textinput.Model
	inputIds   []string
	isQuitting bool
	outputs    map[string]string
	title      *string

	exitCode PromptExitCode
}

func (m PromptModel) GetExitCode() PromptExitCode {
	return m.exitCode
}

func (m PromptModel) GetValue(id string) string {
	return m.outputs[id]
}

func (m PromptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if len(m.inputs) == 0 {
		m.exitCode = PromptCompleted
		return m, tea.Quit
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.exitCode = PromptCancelled
			m.isQuitting = true
			return m, tea.Quit

		case "tab", "shift+tab", "enter", "up", "down":
			s := msg.String()

			if s == "enter" && m.focusIndex == len(m.inputs)-1 {
				for i, input := range m.inputs {
					m.outputs[m.inputIds[i]] = input.Value()
				}
				m.exitCode = PromptCompleted
				m.isQuitting = true
				return m, tea.Quit
			}

			if s == "up" || s == "shift+tab" {
				m.focusIndex--
			} else {
				m.focusIndex++
			}
			if m.focusIndex > len(m.inputs)-1 {
				m.focusIndex = 0
			} else if m.focusIndex < 0 {
				m.focusIndex = len(m.inputs) - 1
			}

			cmds := make([]tea.Cmd, len(m.inputs))
			for i := range m.inputs {
				if i == m.focusIndex {
					cmds[i] = m.inputs[i].Focus()
					m.inputs[i].PromptStyle = focusedStyle
					m.inputs[i].TextStyle = focusedStyle
					continue
				}
				m.inputs[i].Blur()
				m.inputs[i].PromptStyle = noStyle
				m.inputs[i].TextStyle = noStyle
			}
			return m, tea.Batch(cmds...)
		}
	}

	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

func (m PromptModel) View() string {
	var b strings.Builder

	if m.title != nil {
		fmt.Fprintf(&b, "%s\n\n", *m.title)
	}

	for i := range m.inputs {
		b.WriteString(m.inputs[i].View())
		b.WriteRune('\n')
	}
	if !m.isQuitting && len(m.inputs) > 0 {
		fmt.Fprintf(&b, "\n%s\n", blurredStyle.Render("(enter on the last field submits, esc cancels)"))
	}

	return b.String()
}
