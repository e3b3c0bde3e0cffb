package commands

import (
	tea "github.com/charmbracelet/bubbletea"

	"usergrip/internal/domain"
	"usergrip/internal/ui/coordinator"
	"usergrip/internal/ui/services/actions"
)

// Executor handles command execution
type Executor struct {
	ctx *CommandContext
}

// NewExecutor creates a new command executor
func NewExecutor(c *coordinator.Coordinator) *Executor {
	return &Executor{
		ctx: &CommandContext{Coordinator: c},
	}
}

// ExecuteBootstrap loads the actor and the first page
func (e *Executor) ExecuteBootstrap() tea.Cmd {
	return NewBootstrapCommand(e.ctx).Execute()
}

// ExecuteRefresh re-fetches the current page
func (e *Executor) ExecuteRefresh() tea.Cmd {
	return NewRefreshCommand(e.ctx).Execute()
}

// ExecutePage moves to the "next" or "prev" page
func (e *Executor) ExecutePage(direction string) tea.Cmd {
	return NewPageCommand(e.ctx, direction).Execute()
}

// ExecuteCyclePageSize switches to the page size after current
func (e *Executor) ExecuteCyclePageSize(current int) tea.Cmd {
	return NewPageSizeCommand(e.ctx, NextPageSize(current)).Execute()
}

// ExecuteConfirm runs the action awaiting confirmation
func (e *Executor) ExecuteConfirm() tea.Cmd {
	return NewConfirmCommand(e.ctx).Execute()
}

// ExecuteSaveUser submits the user form
func (e *Executor) ExecuteSaveUser(form actions.UserForm) tea.Cmd {
	return NewSaveUserCommand(e.ctx, form).Execute()
}

// ExecuteChangePassword submits the password form
func (e *Executor) ExecuteChangePassword(name, password, confirm string) tea.Cmd {
	return NewPasswordCommand(e.ctx, name, password, confirm).Execute()
}

// ExecuteGrantRoles submits the role list
func (e *Executor) ExecuteGrantRoles(name string, roles []string) tea.Cmd {
	return NewGrantRolesCommand(e.ctx, name, roles).Execute()
}

// NextPageSize returns the offered page size that follows current
func NextPageSize(current int) int {
	for i, s := range domain.PageSizes {
		if s == current {
			return domain.PageSizes[(i+1)%len(domain.PageSizes)]
		}
	}
	return domain.PageSizes[0]
}
