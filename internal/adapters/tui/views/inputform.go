package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"renextract/internal/adapters/tui/styles"
	"renextract/internal/i18n"
)

// InputFormKeyMap defines key bindings for input forms
type InputFormKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
	Next   key.Binding
	Prev   key.Binding
}

// inputFormKeys builds the bindings in the current language. Submit gets
// its description from the form's caller.
func inputFormKeys() InputFormKeyMap {
	return InputFormKeyMap{
		Submit: key.NewBinding(key.WithKeys("enter")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", i18n.T("form.cancel"))),
		Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", i18n.T("form.next"))),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", i18n.T("form.previous"))),
	}
}

// InputField is a labelled text input. Check, when set, vets the trimmed
// value on submit.
type InputField struct {
	Label string
	Input textinput.Model
	Check func(string) error

	err string
}

// NewInputField creates a field with a placeholder and an optional
// character limit
func NewInputField(label, placeholder string, charLimit int) InputField {
	input := textinput.New()
	input.Placeholder = placeholder
	if charLimit > 0 {
		input.CharLimit = charLimit
	}
	return InputField{Label: label, Input: input}
}

// WithCheck returns f with a submit-time check.
func (f InputField) WithCheck(check func(string) error) InputField {
	f.Check = check
	return f
}

// InputForm is a column of fields with one focused at a time
type InputForm struct {
	Fields  []InputField
	Keys    InputFormKeyMap
	focused int
}

// NewInputForm focuses the first field
func NewInputForm(fields ...InputField) *InputForm {
	f := &InputForm{Fields: fields, Keys: inputFormKeys()}
	f.focus(0)
	return f
}

// Init returns the blink command for the focused input
func (f *InputForm) Init() tea.Cmd {
	return textinput.Blink
}

// Focused returns the index of the focused field.
func (f *InputForm) Focused() int {
	return f.focused
}

// Update moves the focus or feeds the focused input. handled is true for
// focus keys.
func (f *InputForm) Update(msg tea.Msg) (handled bool, cmd tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && len(f.Fields) > 1 {
		switch {
		case key.Matches(k, f.Keys.Next):
			f.focus(f.focused + 1)
			return true, nil
		case key.Matches(k, f.Keys.Prev):
			f.focus(f.focused - 1)
			return true, nil
		}
	}
	if len(f.Fields) == 0 {
		return false, nil
	}
	field := &f.Fields[f.focused]
	field.Input, cmd = field.Input.Update(msg)
	return false, cmd
}

func (f *InputForm) focus(index int) {
	if len(f.Fields) == 0 {
		return
	}
	f.Fields[f.focused].Input.Blur()
	f.focused = (index%len(f.Fields) + len(f.Fields)) % len(f.Fields)
	f.Fields[f.focused].Input.Focus()
}

// Value returns the trimmed value of a field
func (f *InputForm) Value(index int) string {
	if index < 0 || index >= len(f.Fields) {
		return ""
	}
	return strings.TrimSpace(f.Fields[index].Input.Value())
}

// SetValue sets the value of a field
func (f *InputForm) SetValue(index int, value string) {
	if index < 0 || index >= len(f.Fields) {
		return
	}
	f.Fields[index].Input.SetValue(value)
}

// Submit runs every check. On failure the first failing field gets the
// focus and ok is false.
func (f *InputForm) Submit() (values []string, ok bool) {
	values = make([]string, len(f.Fields))
	first := -1
	for i := range f.Fields {
		field := &f.Fields[i]
		values[i] = f.Value(i)
		field.err = ""
		if field.Check == nil {
			continue
		}
		if err := field.Check(values[i]); err != nil {
			field.err = err.Error()
			if first < 0 {
				first = i
			}
		}
	}
	if first >= 0 {
		f.focus(first)
		return nil, false
	}
	return values, true
}

// Reset empties every field and focuses the first
func (f *InputForm) Reset() {
	for i := range f.Fields {
		f.Fields[i].Input.SetValue("")
		f.Fields[i].err = ""
	}
	f.focus(0)
}

// RenderField renders a label, the input and its last check error
func (f *InputForm) RenderField(index int) string {
	if index < 0 || index >= len(f.Fields) {
		return ""
	}
	field := f.Fields[index]

	style := styles.InputField
	if index == f.focused {
		style = styles.InputFocused
	}
	out := styles.InputLabel.Render(field.Label) + "\n" + style.Render(field.Input.View())
	if field.err != "" {
		out += "\n" + styles.ErrorMsg.Render(field.err)
	}
	return out
}

// RenderHelp renders the key bindings with submitText for enter
func (f *InputForm) RenderHelp(submitText string) string {
	submit := f.Keys.Submit
	submit.SetHelp("enter", submitText)

	bindings := []key.Binding{submit, f.Keys.Cancel}
	if len(f.Fields) > 1 {
		bindings = append([]key.Binding{f.Keys.Next, f.Keys.Prev}, bindings...)
	}
	return RenderHelpLine(bindings...)
}
