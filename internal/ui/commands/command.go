package commands

import (
	"context"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"usergrip/internal/ui/coordinator"
	"usergrip/internal/ui/services/actions"
)

// Command represents an executable action
type Command interface {
	Execute() tea.Cmd
}

// CommandContext provides context for command execution
type CommandContext struct {
	Coordinator *coordinator.Coordinator
}

func (c *CommandContext) ctx() context.Context {
	return c.Coordinator.Context()
}

// FetchDoneMsg reports the end of a list request
type FetchDoneMsg struct {
	Err error
}

// DeleteDoneMsg reports the end of a confirmed deletion
type DeleteDoneMsg struct {
	Err error
}

// FormDoneMsg reports the end of a form submission
type FormDoneMsg struct {
	Modal actions.ModalKind
	Err   error
}

// BootstrapDoneMsg reports that the actor has been loaded
type BootstrapDoneMsg struct {
	Err error
}

// BootstrapCommand loads the actor and its permissions, then the first page
type BootstrapCommand struct {
	ctx *CommandContext
}

// NewBootstrapCommand creates a new bootstrap command
func NewBootstrapCommand(ctx *CommandContext) *BootstrapCommand {
	return &BootstrapCommand{ctx: ctx}
}

// Execute runs the bootstrap in the background
func (c *BootstrapCommand) Execute() tea.Cmd {
	return func() tea.Msg {
		co := c.ctx.Coordinator
		if err := co.Bootstrap(c.ctx.ctx()); err != nil {
			return BootstrapDoneMsg{Err: err}
		}
		if err := co.Listing.Refresh(c.ctx.ctx()); err != nil {
			log.Printf("Initial fetch failed: %v", err)
		}
		return BootstrapDoneMsg{}
	}
}

// PageCommand fetches the current, next or previous page, or a new page size
type PageCommand struct {
	ctx       *CommandContext
	direction string
	size      int
}

// NewRefreshCommand re-fetches the current page
func NewRefreshCommand(ctx *CommandContext) *PageCommand {
	return &PageCommand{ctx: ctx}
}

// NewPageCommand moves to the "next" or "prev" page
func NewPageCommand(ctx *CommandContext, direction string) *PageCommand {
	return &PageCommand{ctx: ctx, direction: direction}
}

// NewPageSizeCommand changes the page size and returns to the first page
func NewPageSizeCommand(ctx *CommandContext, size int) *PageCommand {
	return &PageCommand{ctx: ctx, size: size}
}

// Execute performs the fetch
func (c *PageCommand) Execute() tea.Cmd {
	return func() tea.Msg {
		listing := c.ctx.Coordinator.Listing
		ctx := c.ctx.ctx()

		var err error
		switch {
		case c.size > 0:
			err = listing.SetPageSize(ctx, c.size)
		case c.direction == "next":
			err = listing.Next(ctx)
		case c.direction == "prev":
			err = listing.Previous(ctx)
		default:
			err = listing.Refresh(ctx)
		}
		return FetchDoneMsg{Err: err}
	}
}

// ConfirmCommand runs the action awaiting confirmation
type ConfirmCommand struct {
	ctx *CommandContext
}

// NewConfirmCommand creates a new confirm command
func NewConfirmCommand(ctx *CommandContext) *ConfirmCommand {
	return &ConfirmCommand{ctx: ctx}
}

// Execute confirms in the background
func (c *ConfirmCommand) Execute() tea.Cmd {
	return func() tea.Msg {
		return DeleteDoneMsg{Err: c.ctx.Coordinator.Actions.Confirm(c.ctx.ctx())}
	}
}

// SubmitCommand saves one of the forms
type SubmitCommand struct {
	ctx   *CommandContext
	modal actions.ModalKind
	run   func(ctx context.Context, d *actions.Dispatcher) error
}

// NewSaveUserCommand creates or updates a user
func NewSaveUserCommand(ctx *CommandContext, form actions.UserForm) *SubmitCommand {
	modal := actions.ModalEdit
	if form.Create {
		modal = actions.ModalCreate
	}
	return &SubmitCommand{ctx: ctx, modal: modal, run: func(cx context.Context, d *actions.Dispatcher) error {
		return d.SaveUser(cx, form)
	}}
}

// NewPasswordCommand changes the password of name
func NewPasswordCommand(ctx *CommandContext, name, password, confirm string) *SubmitCommand {
	return &SubmitCommand{ctx: ctx, modal: actions.ModalPassword, run: func(cx context.Context, d *actions.Dispatcher) error {
		return d.ChangePassword(cx, name, password, confirm)
	}}
}

// NewGrantRolesCommand replaces the roles of name
func NewGrantRolesCommand(ctx *CommandContext, name string, roles []string) *SubmitCommand {
	return &SubmitCommand{ctx: ctx, modal: actions.ModalRoles, run: func(cx context.Context, d *actions.Dispatcher) error {
		return d.GrantRoles(cx, name, roles)
	}}
}

// Execute submits in the background
func (c *SubmitCommand) Execute() tea.Cmd {
	return func() tea.Msg {
		err := c.run(c.ctx.ctx(), c.ctx.Coordinator.Actions)
		return FormDoneMsg{Modal: c.modal, Err: err}
	}
}
