package types

import (
	tea "github.com/charmbracelet/bubbletea"

	"usergrip/internal/domain"
)

// Mode represents an input mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeConfirm
	ModeUserForm
	ModePassword
	ModeRoles
)

func (m Mode) String() string {
	switch m {
	case ModeSearch:
		return "search"
	case ModeConfirm:
		return "confirm"
	case ModeUserForm:
		return "user-form"
	case ModePassword:
		return "password"
	case ModeRoles:
		return "roles"
	default:
		return "normal"
	}
}

// Action represents a command the model should execute
type Action interface {
	Type() string
}

// Context provides read-only access to model state needed for input handling
type Context interface {
	CurrentIndex() int
	TotalItems() int
	HasSelection() bool
	SelectedCount() int
	SelectedNames() []string
	CurrentUser() (domain.User, bool)
	CanManage() bool
	SearchQuery() string
	Roles() []domain.Role
}

// ModeHandler handles input for a specific mode
type ModeHandler interface {
	// HandleKey processes a key message and returns actions and whether to consume the event
	HandleKey(msg tea.KeyMsg, ctx Context) ([]Action, bool)

	// Enter is called when entering this mode
	Enter(ctx Context) []Action

	// Exit is called when leaving this mode
	Exit(ctx Context) []Action

	// Name returns the mode name for display
	Name() string
}

// Seeder is implemented by modes that start from the Data of a ChangeModeAction
type Seeder interface {
	Seed(data interface{})
}

// Viewer is implemented by modes that draw their own popup
type Viewer interface {
	View() string
}

// ErrorSetter is implemented by forms that show a failed submission inline
type ErrorSetter interface {
	SetError(err error)
}

// FormData seeds the user form
type FormData struct {
	Create bool
	User   domain.User
}

// RolesData seeds the role grant list
type RolesData struct {
	User    domain.User
	Roles   []domain.Role
	Granted []string
	// Err is the decode error of a malformed role annotation
	Err error
}
