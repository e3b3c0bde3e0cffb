package actions

import "fmt"

// ModalKind identifies the form currently open on top of the list
type ModalKind int

const (
	ModalNone ModalKind = iota
	ModalCreate
	ModalEdit
	ModalPassword
	ModalRoles
)

func (m ModalKind) String() string {
	switch m {
	case ModalCreate:
		return "create"
	case ModalEdit:
		return "edit"
	case ModalPassword:
		return "password"
	case ModalRoles:
		return "roles"
	default:
		return "none"
	}
}

// PendingKind is the destructive action awaiting confirmation
type PendingKind int

const (
	PendingDeleteOne PendingKind = iota
	PendingDeleteMany
)

// Pending is an action that runs on Confirm
type Pending struct {
	Kind   PendingKind
	Names  []string
	Prompt string
}

// State holds dispatcher state
type State struct {
	Modal   ModalKind
	Pending *Pending
}

// UserForm is the content of the create and edit forms
type UserForm struct {
	Create      bool
	Name        string
	DisplayName string
	Email       string
	Phone       string
	Bio         string
	Password    string   // create only
	Roles       []string // create only
}

// Validate checks the fields the server requires
func (f UserForm) Validate() error {
	switch {
	case f.Name == "":
		return fmt.Errorf("%w: username is required", ErrInvalidForm)
	case f.DisplayName == "":
		return fmt.Errorf("%w: display name is required", ErrInvalidForm)
	case f.Email == "":
		return fmt.Errorf("%w: email is required", ErrInvalidForm)
	}
	return nil
}
