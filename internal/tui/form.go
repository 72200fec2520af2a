package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// field is either a text input or a choice cycled with left and right.
type field struct {
	label string
	input textinput.Model

	// Choice fields only.
	labels []string
	values []string
	choice int
}

func textField(label, value string) field {
	in := textinput.New()
	in.Prompt = ""
	in.SetValue(value)
	return field{label: label, input: in}
}

// choiceField preselects the entry whose value is current, or the first one.
func choiceField(label string, labels, values []string, current string) field {
	f := field{label: label, labels: labels, values: values}
	for i, v := range values {
		if v == current {
			f.choice = i
			break
		}
	}
	return f
}

func (f *field) isChoice() bool {
	return f.values != nil
}

func (f *field) value() string {
	if f.isChoice() {
		if len(f.values) == 0 {
			return ""
		}
		return f.values[f.choice]
	}
	return strings.TrimSpace(f.input.Value())
}

func (f *field) cycle(n int) {
	if len(f.values) == 0 {
		return
	}
	f.choice = (f.choice + n + len(f.values)) % len(f.values)
}

// form is a vertical list of fields with one focused at a time.
type form struct {
	title  string
	fields []field
	focus  int
}

func newForm(title string, fields ...field) form {
	f := form{title: title, fields: fields}
	f.setFocus(0)
	return f
}

func (f *form) setFocus(i int) {
	f.focus = (i + len(f.fields)) % len(f.fields)
	for j := range f.fields {
		if j == f.focus && !f.fields[j].isChoice() {
			f.fields[j].input.Focus()
		} else {
			f.fields[j].input.Blur()
		}
	}
}

func (f *form) value(i int) string {
	return f.fields[i].value()
}

// formResult is what a key press asks of the owner of the form.
type formResult int

const (
	formEditing formResult = iota
	formSubmit
	formCancel
)

func (f *form) update(msg tea.KeyMsg) (formResult, tea.Cmd) {
	cur := &f.fields[f.focus]

	switch msg.String() {
	case "esc":
		return formCancel, nil
	case "ctrl+s":
		return formSubmit, nil
	case "enter":
		if f.focus == len(f.fields)-1 {
			return formSubmit, nil
		}
		f.setFocus(f.focus + 1)
		return formEditing, nil
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return formEditing, nil
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return formEditing, nil
	case "left", "right", " ":
		if cur.isChoice() {
			if msg.String() == "left" {
				cur.cycle(-1)
			} else {
				cur.cycle(1)
			}
			return formEditing, nil
		}
	}

	if cur.isChoice() {
		return formEditing, nil
	}
	var cmd tea.Cmd
	cur.input, cmd = cur.input.Update(msg)
	return formEditing, cmd
}

func (f *form) view() string {
	width := 0
	for _, fl := range f.fields {
		width = max(width, len(fl.label))
	}

	lines := []string{titleStyle.Render(f.title), ""}
	for i, fl := range f.fields {
		marker := "  "
		if i == f.focus {
			marker = "> "
		}
		var v string
		if fl.isChoice() {
			v = fmt.Sprintf("< %s >", fl.labels[fl.choice])
		} else {
			v = fl.input.View()
		}
		lines = append(lines, fmt.Sprintf("%s%-*s  %s", marker, width, fl.label, v))
	}
	return strings.Join(lines, "\n")
}
