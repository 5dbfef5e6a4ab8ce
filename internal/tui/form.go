package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/scribe/internal/errors"
	"github.com/felixgeelhaar/scribe/internal/ux"
)

type fieldSpec struct {
	name        string
	label       string
	placeholder string
	password    bool
	limit       int
}

// form is a column of single-line inputs. Enter on the last field submits.
type form struct {
	specs  []fieldSpec
	inputs []textinput.Model
	focus  int
	errs   errors.FieldErrors
}

func newForm(specs ...fieldSpec) form {
	f := form{specs: specs, inputs: make([]textinput.Model, len(specs))}
	for i, s := range specs {
		in := textinput.New()
		in.Placeholder = s.placeholder
		in.Prompt = ""
		in.Cursor.SetMode(cursor.CursorStatic)
		if s.limit > 0 {
			in.CharLimit = s.limit
		}
		if s.password {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		f.inputs[i] = in
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

func (f form) value(name string) string {
	for i, s := range f.specs {
		if s.name == name {
			return f.inputs[i].Value()
		}
	}
	return ""
}

func (f *form) setValue(name, v string) {
	for i, s := range f.specs {
		if s.name == name {
			f.inputs[i].SetValue(v)
		}
	}
}

func (f *form) setFocus(i int) {
	f.inputs[f.focus].Blur()
	f.focus = (i + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// update routes msg to the focused input and reports a submit
func (f form) update(msg tea.Msg) (form, tea.Cmd, bool) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case k.Type == tea.KeyEnter:
			if f.focus == len(f.inputs)-1 {
				return f, nil, true
			}
			f.setFocus(f.focus + 1)
			return f, nil, false
		case key.Matches(k, keys.Next):
			f.setFocus(f.focus + 1)
			return f, nil, false
		case key.Matches(k, keys.Prev):
			f.setFocus(f.focus - 1)
			return f, nil, false
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}

func (f form) view(styles ux.Styles) string {
	var b strings.Builder
	for i, s := range f.specs {
		label := s.label
		if i == f.focus {
			label = styles.Selected.Render("› " + label)
		} else {
			label = "  " + label
		}
		b.WriteString(label)
		b.WriteString("\n  ")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
		if msg := f.errs.Get(s.name); msg != "" {
			b.WriteString("  " + styles.Error.Render(msg) + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}
