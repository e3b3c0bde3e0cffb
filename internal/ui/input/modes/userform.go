package modes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"usergrip/internal/ui/input/types"
	"usergrip/internal/ui/services/actions"
)

var (
	formTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	formLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Width(14)
	formFocusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Width(14)
	formErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	formHintStyle  = lipgloss.NewStyle().Faint(true)
)

type formField int

const (
	fieldName formField = iota
	fieldDisplayName
	fieldEmail
	fieldPhone
	fieldBio
	fieldPassword
	fieldRoles
)

var fieldLabels = map[formField]string{
	fieldName:        "Username",
	fieldDisplayName: "Display name",
	fieldEmail:       "Email",
	fieldPhone:       "Phone",
	fieldBio:         "Bio",
	fieldPassword:    "Password",
	fieldRoles:       "Roles",
}

// UserFormMode edits the attributes of a new or existing user
type UserFormMode struct {
	create bool
	name   string
	fields []formField
	inputs map[formField]*textinput.Model
	focus  int
	err    error
}

func NewUserFormMode() *UserFormMode {
	return &UserFormMode{}
}

func (m *UserFormMode) Name() string {
	return "user-form"
}

// Seed builds the inputs from a types.FormData
func (m *UserFormMode) Seed(data interface{}) {
	fd, _ := data.(types.FormData)
	m.create = fd.Create
	m.name = fd.User.Name()
	m.err = nil
	m.focus = 0

	if m.create {
		m.fields = []formField{fieldName, fieldDisplayName, fieldEmail, fieldPhone, fieldBio, fieldPassword, fieldRoles}
	} else {
		m.fields = []formField{fieldDisplayName, fieldEmail, fieldPhone, fieldBio}
	}

	spec := fd.User.Spec
	values := map[formField]string{
		fieldName:        fd.User.Name(),
		fieldDisplayName: spec.DisplayName,
		fieldEmail:       spec.Email,
		fieldPhone:       spec.Phone,
		fieldBio:         spec.Bio,
	}

	m.inputs = make(map[formField]*textinput.Model, len(m.fields))
	for _, f := range m.fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.Width = 40
		ti.Cursor.SetMode(cursor.CursorStatic)
		ti.SetValue(values[f])
		switch f {
		case fieldPassword:
			ti.EchoMode = textinput.EchoPassword
		case fieldRoles:
			ti.Placeholder = "comma separated role names"
		}
		m.inputs[f] = &ti
	}
}

func (m *UserFormMode) Enter(ctx types.Context) []types.Action {
	m.focusField(0)
	return nil
}

func (m *UserFormMode) Exit(ctx types.Context) []types.Action {
	for _, ti := range m.inputs {
		ti.Blur()
	}
	return nil
}

// SetError shows a failed submission below the fields
func (m *UserFormMode) SetError(err error) {
	m.err = err
}

func (m *UserFormMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "esc":
		return []types.Action{
			types.CloseModalAction{},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	case "tab", "down":
		m.focusField(m.focus + 1)
		return nil, true
	case "shift+tab", "up":
		m.focusField(m.focus - 1)
		return nil, true
	case "enter":
		if m.focus < len(m.fields)-1 {
			m.focusField(m.focus + 1)
			return nil, true
		}
		return m.submit(), true
	case "ctrl+s":
		return m.submit(), true
	}

	if len(m.fields) > 0 {
		ti := m.inputs[m.fields[m.focus]]
		*ti, _ = ti.Update(msg)
	}
	return nil, true
}

func (m *UserFormMode) submit() []types.Action {
	m.err = nil
	return []types.Action{types.SubmitFormAction{Form: m.Form()}}
}

// Form returns the typed values
func (m *UserFormMode) Form() actions.UserForm {
	form := actions.UserForm{
		Create:      m.create,
		Name:        m.name,
		DisplayName: m.value(fieldDisplayName),
		Email:       m.value(fieldEmail),
		Phone:       m.value(fieldPhone),
		Bio:         m.value(fieldBio),
	}
	if m.create {
		form.Name = m.value(fieldName)
		form.Password = m.value(fieldPassword)
		for _, r := range strings.Split(m.value(fieldRoles), ",") {
			if r = strings.TrimSpace(r); r != "" {
				form.Roles = append(form.Roles, r)
			}
		}
	}
	return form
}

func (m *UserFormMode) value(f formField) string {
	if ti, ok := m.inputs[f]; ok {
		return strings.TrimSpace(ti.Value())
	}
	return ""
}

func (m *UserFormMode) focusField(i int) {
	if len(m.fields) == 0 {
		return
	}
	// wrap around
	i = (i + len(m.fields)) % len(m.fields)
	for j, f := range m.fields {
		if j == i {
			m.inputs[f].Focus()
		} else {
			m.inputs[f].Blur()
		}
	}
	m.focus = i
}

func (m *UserFormMode) View() string {
	var b strings.Builder
	if m.create {
		b.WriteString(formTitleStyle.Render("New user"))
	} else {
		b.WriteString(formTitleStyle.Render(fmt.Sprintf("Edit %s", m.name)))
	}
	b.WriteString("\n\n")

	for i, f := range m.fields {
		label := formLabelStyle
		if i == m.focus {
			label = formFocusStyle
		}
		b.WriteString(label.Render(fieldLabels[f]))
		b.WriteString(m.inputs[f].View())
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(formErrStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(formHintStyle.Render("tab/↓ next • shift+tab/↑ previous • ctrl+s save • esc cancel"))
	return b.String()
}
