package modes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"usergrip/internal/domain"
	"usergrip/internal/ui/input/types"
)

// PasswordMode asks for a new password twice
type PasswordMode struct {
	user   domain.User
	inputs [2]textinput.Model
	focus  int
	err    error
}

func NewPasswordMode() *PasswordMode {
	m := &PasswordMode{}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Width = 40
		ti.EchoMode = textinput.EchoPassword
		ti.Cursor.SetMode(cursor.CursorStatic)
		m.inputs[i] = ti
	}
	return m
}

func (m *PasswordMode) Name() string {
	return "password"
}

// Seed takes the domain.User whose password changes
func (m *PasswordMode) Seed(data interface{}) {
	m.user, _ = data.(domain.User)
	m.err = nil
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
}

func (m *PasswordMode) Enter(ctx types.Context) []types.Action {
	m.focusInput(0)
	return nil
}

func (m *PasswordMode) Exit(ctx types.Context) []types.Action {
	for i := range m.inputs {
		m.inputs[i].Blur()
		m.inputs[i].Reset()
	}
	return nil
}

// SetError shows a failed submission below the inputs
func (m *PasswordMode) SetError(err error) {
	m.err = err
}

func (m *PasswordMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "esc":
		return []types.Action{
			types.CloseModalAction{},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	case "tab", "shift+tab", "up", "down":
		m.focusInput(1 - m.focus)
		return nil, true
	case "enter":
		if m.focus == 0 {
			m.focusInput(1)
			return nil, true
		}
		m.err = nil
		return []types.Action{types.SubmitPasswordAction{
			Name:     m.user.Name(),
			Password: m.inputs[0].Value(),
			Confirm:  m.inputs[1].Value(),
		}}, true
	}

	m.inputs[m.focus], _ = m.inputs[m.focus].Update(msg)
	return nil, true
}

func (m *PasswordMode) focusInput(i int) {
	m.focus = i
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

func (m *PasswordMode) View() string {
	var b strings.Builder
	b.WriteString(formTitleStyle.Render(fmt.Sprintf("Change password of %s", m.user.Name())))
	b.WriteString("\n\n")

	for i, label := range []string{"Password", "Confirm"} {
		style := formLabelStyle
		if i == m.focus {
			style = formFocusStyle
		}
		b.WriteString(style.Render(label))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(formErrStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(formHintStyle.Render("enter next/save • esc cancel"))
	return b.String()
}
