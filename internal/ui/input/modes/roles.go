package modes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"usergrip/internal/domain"
	"usergrip/internal/ui/input/types"
)

var roleCursorStyle = lipgloss.NewStyle().Background(lipgloss.Color("238"))

// RolesMode picks the roles granted to a user
type RolesMode struct {
	user    domain.User
	roles   []domain.Role
	checked map[string]bool
	cursor  int
	err     error
}

func NewRolesMode() *RolesMode {
	return &RolesMode{checked: make(map[string]bool)}
}

func (m *RolesMode) Name() string {
	return "roles"
}

// Seed takes a types.RolesData
func (m *RolesMode) Seed(data interface{}) {
	rd, _ := data.(types.RolesData)
	m.user = rd.User
	m.roles = rd.Roles
	m.cursor = 0
	m.err = nil
	if rd.Err != nil {
		m.err = fmt.Errorf("current roles are unreadable, saving replaces them: %w", rd.Err)
	}
	m.checked = make(map[string]bool, len(rd.Granted))
	for _, r := range rd.Granted {
		m.checked[r] = true
	}
}

func (m *RolesMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *RolesMode) Exit(ctx types.Context) []types.Action {
	return nil
}

// SetError shows a failed submission below the list
func (m *RolesMode) SetError(err error) {
	m.err = err
}

func (m *RolesMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "esc", "q":
		return []types.Action{
			types.CloseModalAction{},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.roles)-1 {
			m.cursor++
		}
	case " ", "x":
		if m.cursor < len(m.roles) {
			name := m.roles[m.cursor].Metadata.Name
			m.checked[name] = !m.checked[name]
		}
	case "enter":
		m.err = nil
		return []types.Action{types.SubmitRolesAction{Name: m.user.Name(), Roles: m.Granted()}}, true
	}
	return nil, true
}

// Granted returns the checked role names in list order
func (m *RolesMode) Granted() []string {
	granted := []string{}
	for _, r := range m.roles {
		if m.checked[r.Metadata.Name] {
			granted = append(granted, r.Metadata.Name)
		}
	}
	return granted
}

func (m *RolesMode) View() string {
	var b strings.Builder
	b.WriteString(formTitleStyle.Render(fmt.Sprintf("Roles of %s", m.user.Name())))
	b.WriteString("\n\n")

	if len(m.roles) == 0 {
		b.WriteString(formHintStyle.Render("No roles available"))
		b.WriteString("\n")
	}
	for i, r := range m.roles {
		box := "[ ]"
		if m.checked[r.Metadata.Name] {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s", box, r.DisplayName())
		if r.DisplayName() != r.Metadata.Name {
			line += formHintStyle.Render(" (" + r.Metadata.Name + ")")
		}
		if i == m.cursor {
			line = roleCursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(formErrStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(formHintStyle.Render("space toggle • enter save • esc cancel"))
	return b.String()
}
