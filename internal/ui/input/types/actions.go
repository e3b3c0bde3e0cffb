package types

import (
	"usergrip/internal/domain"
	"usergrip/internal/ui/services/actions"
)

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// Selection actions
type SelectAction struct{}

func (a SelectAction) Type() string { return "select" }

type ToggleAllAction struct{}

func (a ToggleAllAction) Type() string { return "toggle_all" }

type DeselectAllAction struct{}

func (a DeselectAllAction) Type() string { return "deselect_all" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
	Data interface{} // Optional data for the mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct{}

func (a CancelTextAction) Type() string { return "cancel_text" }

// List actions
type RefreshAction struct{}

func (a RefreshAction) Type() string { return "refresh" }

type PageAction struct {
	Direction string // "next" or "prev"
}

func (a PageAction) Type() string { return "page" }

type CyclePageSizeAction struct{}

func (a CyclePageSizeAction) Type() string { return "cycle_page_size" }

// Deletion actions
type RequestDeleteAction struct {
	Names []string // empty for the user under the cursor
	User  domain.User
}

func (a RequestDeleteAction) Type() string { return "request_delete" }

type ConfirmAction struct{}

func (a ConfirmAction) Type() string { return "confirm" }

type CancelConfirmAction struct{}

func (a CancelConfirmAction) Type() string { return "cancel_confirm" }

// Modal actions
type OpenModalAction struct {
	Kind actions.ModalKind
	User domain.User
}

func (a OpenModalAction) Type() string { return "open_modal" }

type CloseModalAction struct{}

func (a CloseModalAction) Type() string { return "close_modal" }

type SubmitFormAction struct {
	Form actions.UserForm
}

func (a SubmitFormAction) Type() string { return "submit_form" }

type SubmitPasswordAction struct {
	Name     string
	Password string
	Confirm  string
}

func (a SubmitPasswordAction) Type() string { return "submit_password" }

type SubmitRolesAction struct {
	Name  string
	Roles []string
}

func (a SubmitRolesAction) Type() string { return "submit_roles" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
