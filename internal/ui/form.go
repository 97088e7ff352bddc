// Package ui implements the interactive terminal surfaces: the variable
// form shown when a generation is missing required variables, and the
// rendered prompt preview.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// VariableForm collects values for a fixed set of variable names, one
// text input per variable.
type VariableForm struct {
	names     []string
	inputs    []textinput.Model
	focused   int
	submitted bool
	cancelled bool
}

// NewVariableForm creates a form with one input per variable name
func NewVariableForm(names []string) *VariableForm {
	inputs := make([]textinput.Model, len(names))
	for i, name := range names {
		input := textinput.New()
		input.Placeholder = name
		input.CharLimit = 0
		input.Width = 60
		if i == 0 {
			input.Focus()
		}
		inputs[i] = input
	}
	return &VariableForm{names: names, inputs: inputs}
}

// Values returns the entered values keyed by variable name. Empty
// entries are omitted.
func (f *VariableForm) Values() map[string]string {
	values := make(map[string]string)
	for i, name := range f.names {
		if value := strings.TrimSpace(f.inputs[i].Value()); value != "" {
			values[name] = value
		}
	}
	return values
}

// Cancelled reports whether the user abandoned the form
func (f *VariableForm) Cancelled() bool {
	return f.cancelled
}

func (f *VariableForm) Init() tea.Cmd {
	return textinput.Blink
}

func (f *VariableForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			f.cancelled = true
			return f, tea.Quit

		case tea.KeyEnter:
			if f.focused == len(f.inputs)-1 {
				f.submitted = true
				return f, tea.Quit
			}
			f.nextField()
			return f, nil

		case tea.KeyTab, tea.KeyDown:
			f.nextField()
			return f, nil

		case tea.KeyShiftTab, tea.KeyUp:
			f.prevField()
			return f, nil
		}
	}

	cmd := f.updateFocused(msg)
	return f, cmd
}

func (f *VariableForm) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Missing variables") + "\n\n")
	for i, name := range f.names {
		label := labelStyle.Render(name)
		if i == f.focused {
			label = focusedLabelStyle.Render(name)
		}
		b.WriteString(fmt.Sprintf("%s\n%s\n\n", label, f.inputs[i].View()))
	}
	b.WriteString(helpStyle.Render("tab: next field • enter: submit • esc: cancel"))
	return b.String()
}

func (f *VariableForm) nextField() {
	f.inputs[f.focused].Blur()
	f.focused = (f.focused + 1) % len(f.inputs)
	f.inputs[f.focused].Focus()
}

func (f *VariableForm) prevField() {
	f.inputs[f.focused].Blur()
	f.focused--
	if f.focused < 0 {
		f.focused = len(f.inputs) - 1
	}
	f.inputs[f.focused].Focus()
}

func (f *VariableForm) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return cmd
}

// RunVariableForm runs the form to completion and returns the entered
// values, or nil when the user cancelled.
func RunVariableForm(names []string) (map[string]string, error) {
	if len(names) == 0 {
		return map[string]string{}, nil
	}

	form := NewVariableForm(names)
	program := tea.NewProgram(form)
	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("running variable form: %w", err)
	}

	result, ok := final.(*VariableForm)
	if !ok || result.cancelled {
		return nil, nil
	}
	return result.Values(), nil
}
