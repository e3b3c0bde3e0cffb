package ui

import (
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"usergrip/internal/domain"
	"usergrip/internal/eventbus"
	"usergrip/internal/ui/commands"
	"usergrip/internal/ui/coordinator"
	"usergrip/internal/ui/input"
	inputtypes "usergrip/internal/ui/input/types"
	"usergrip/internal/ui/services/actions"
	"usergrip/internal/ui/services/navigation"
	"usergrip/internal/ui/state"
	"usergrip/internal/ui/views"
)

// StartActionCreate opens the create form once the actor is known
const StartActionCreate = "create"

// Options configure the UI model
type Options struct {
	// StartAction is run after bootstrap; only StartActionCreate is known
	StartAction string
}

// Model represents the UI state
type Model struct {
	bus   eventbus.EventBus
	coord *coordinator.Coordinator
	state *state.AppState
	opts  Options

	width     int
	height    int
	help      help.Model
	spinner   spinner.Model
	paginator paginator.Model

	renderer     *views.Renderer
	helpRender   *HelpRenderer
	helpOps      *HelpOps
	cmdExecutor  *commands.Executor
	inputHandler *input.Handler

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(c *coordinator.Coordinator, bus eventbus.EventBus, opts Options) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))

	pg := paginator.New()
	pg.Type = paginator.Arabic

	m := &Model{
		bus:          bus,
		coord:        c,
		state:        state.NewAppState(),
		opts:         opts,
		help:         help.New(),
		spinner:      sp,
		paginator:    pg,
		renderer:     views.NewRenderer(),
		cmdExecutor:  commands.NewExecutor(c),
		inputHandler: input.New(),
	}
	m.helpRender = NewHelpRenderer(m.inputHandler.Keys())

	// nothing that changes users until the permissions are known
	m.inputHandler.Keys().SetCanManage(false)
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.helpOps = NewHelpOps(p)
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.cmdExecutor.ExecuteBootstrap(), m.spinner.Tick)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.coord.SetViewportHeight(msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.state.ShowHelp {
			switch msg.String() {
			case "esc", "?", "q":
				m.state.ShowHelp = false
			case "ctrl+c":
				return m, m.quit()
			}
			return m, nil
		}

		ctx := m.context()
		actions, cmd := m.inputHandler.HandleKey(msg, ctx)

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, action := range actions {
			if actionCmd := m.processAction(action); actionCmd != nil {
				cmds = append(cmds, actionCmd)
			}
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	default:
		// Handle non-keyboard messages; the text input may want cursor blinks too
		inputCmd := m.inputHandler.Update(msg)
		model, cmd := m.handleNonKeyboardMsg(msg)
		return model, tea.Batch(inputCmd, cmd)
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.state.InPagerMode {
		return ""
	}

	snap := m.coord.Snapshot()

	vs := views.ViewState{
		Width:         m.width,
		Height:        m.height,
		Snapshot:      snap,
		StatusMessage: m.state.StatusMessage,
		StatusLevel:   m.state.StatusLevel,
		ShowHelp:      m.state.ShowHelp,
		Spinner:       m.spinner.View(),
		Error:         m.state.Error,
	}

	if snap.Page.Total > 0 {
		m.paginator.PerPage = snap.PageSize
		m.paginator.SetTotalPages(int(snap.Page.Total))
		m.paginator.Page = snap.PageNum - 1
		vs.Paginator = m.paginator.View()
	}

	mode := m.inputHandler.CurrentMode()
	switch {
	case mode == inputtypes.ModeNormal:
		vs.ShortHelp = m.help.View(m.inputHandler.Keys())
	case mode == inputtypes.ModeSearch:
		vs.InputMode = mode.String()
		vs.InputPrompt = m.inputHandler.Prompt()
		if ti := m.inputHandler.TextInput(); ti != nil {
			vs.TextInput = ti.View()
		}
		vs.ShortHelp = "enter keep • esc clear"
	case mode == inputtypes.ModeConfirm:
		vs.InputMode = mode.String()
		vs.ShortHelp = "y confirm • n cancel"
	case m.inputHandler.IsModalMode(mode):
		vs.InputMode = mode.String()
		vs.ModalView = m.inputHandler.ModeView()
	}

	if m.state.ShowHelp {
		vs.HelpView = m.helpRender.RenderHelpContent()
	}

	return m.renderer.Render(vs)
}

// context builds the read-only view of the state used by input modes
func (m *Model) context() *input.ModelContext {
	return &input.ModelContext{
		Snapshot: m.coord.Snapshot(),
		AllRoles: m.coord.Roles(),
	}
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		m.coord.Navigate(navigation.Direction(a.Direction))

	case inputtypes.SelectAction:
		m.coord.ToggleCurrent()

	case inputtypes.ToggleAllAction:
		m.coord.ToggleAll()

	case inputtypes.DeselectAllAction:
		m.coord.ClearSelection()

	case inputtypes.UpdateTextAction:
		if m.inputHandler.CurrentMode() == inputtypes.ModeSearch {
			m.coord.SetQuery(a.Text)
		}

	case inputtypes.SubmitTextAction:
		if a.Mode == inputtypes.ModeSearch {
			m.coord.SetQuery(a.Text)
		}

	case inputtypes.CancelTextAction:
		m.coord.SetQuery("")

	case inputtypes.RefreshAction:
		return m.cmdExecutor.ExecuteRefresh()

	case inputtypes.PageAction:
		return m.cmdExecutor.ExecutePage(a.Direction)

	case inputtypes.CyclePageSizeAction:
		_, size := m.pagePosition()
		return m.cmdExecutor.ExecuteCyclePageSize(size)

	case inputtypes.RequestDeleteAction:
		if len(a.Names) == 0 {
			m.coord.Actions.RequestDeleteOne(a.User)
			return nil
		}
		if err := m.coord.Actions.RequestDeleteMany(a.Names); err != nil {
			m.inputHandler.SetMode(inputtypes.ModeNormal, nil, m.context())
			return m.setStatus(domain.LevelInfo, err.Error())
		}

	case inputtypes.ConfirmAction:
		return m.cmdExecutor.ExecuteConfirm()

	case inputtypes.CancelConfirmAction:
		m.coord.Actions.Cancel()

	case inputtypes.OpenModalAction:
		switch a.Kind {
		case actions.ModalCreate:
			m.coord.Actions.OpenCreate()
		case actions.ModalEdit:
			m.coord.Actions.OpenEdit(a.User)
		case actions.ModalPassword:
			m.coord.Actions.OpenPassword(a.User)
		case actions.ModalRoles:
			m.coord.Actions.OpenRoles(a.User)
		}

	case inputtypes.CloseModalAction:
		m.coord.Actions.CloseModal()

	case inputtypes.SubmitFormAction:
		return m.cmdExecutor.ExecuteSaveUser(a.Form)

	case inputtypes.SubmitPasswordAction:
		return m.cmdExecutor.ExecuteChangePassword(a.Name, a.Password, a.Confirm)

	case inputtypes.SubmitRolesAction:
		return m.cmdExecutor.ExecuteGrantRoles(a.Name, a.Roles)

	case inputtypes.ToggleHelpAction:
		if m.program != nil {
			return m.fetchHelpPager(m.helpRender.RenderHelpContent())
		}
		m.state.ShowHelp = !m.state.ShowHelp

	case inputtypes.QuitAction:
		return m.quit()
	}

	return nil
}

func (m *Model) pagePosition() (int, int) {
	snap := m.coord.Snapshot()
	return snap.PageNum, snap.PageSize
}

func (m *Model) quit() tea.Cmd {
	return func() tea.Msg { return quitMsg{} }
}

// setStatus shows a message in the status bar for a while
func (m *Model) setStatus(level domain.NotificationLevel, message string) tea.Cmd {
	id := m.state.SetStatus(level, message)
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{id: id} })
}

// fetchHelpPager returns a command that shows help using ov pager
func (m *Model) fetchHelpPager(helpContent string) tea.Cmd {
	return func() tea.Msg {
		m.program.Send(pauseRenderingMsg{})
		err := m.helpOps.ShowHelpInPager(helpContent)
		m.program.Send(resumeRenderingMsg{})
		return helpPagerMsg{err: err}
	}
}

func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		return m, m.handleEvent(msg.Event)

	case commands.BootstrapDoneMsg:
		if msg.Err != nil {
			log.Printf("Bootstrap failed: %v", msg.Err)
			m.state.Error = fmt.Sprintf("Cannot load the current user: %v", msg.Err)
			return m, nil
		}
		m.state.Bootstrapped = true
		m.state.Error = ""
		canManage := m.coord.CanManage()
		m.inputHandler.Keys().SetCanManage(canManage)
		if m.opts.StartAction == StartActionCreate {
			if !canManage {
				return m, m.setStatus(domain.LevelError, "You are not allowed to create users")
			}
			m.processAction(inputtypes.OpenModalAction{Kind: actions.ModalCreate})
			m.inputHandler.SetMode(inputtypes.ModeUserForm, inputtypes.FormData{Create: true}, m.context())
		}
		return m, nil

	case commands.FetchDoneMsg:
		if msg.Err != nil {
			log.Printf("Fetch failed: %v", msg.Err)
		}
		return m, nil

	case commands.DeleteDoneMsg:
		// the dispatcher already notified the outcome
		return m, nil

	case commands.FormDoneMsg:
		if !m.inputHandler.IsModalMode(m.inputHandler.CurrentMode()) {
			return m, nil
		}
		if msg.Err != nil {
			m.inputHandler.SetError(msg.Err)
			return m, nil
		}
		m.inputHandler.SetMode(inputtypes.ModeNormal, nil, m.context())
		return m, nil

	case helpPagerMsg:
		if msg.err != nil {
			// Pager failed, fall back to the popup
			log.Printf("Help pager failed: %v", msg.err)
			m.state.ShowHelp = true
		}
		return m, nil

	case pauseRenderingMsg:
		m.state.InPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.state.InPagerMode = false
		return m, nil

	case clearStatusMsg:
		m.state.ClearStatus(msg.id)
		return m, nil

	case quitMsg:
		return m, tea.Quit

	default:
		return m, nil
	}
}

// handleEvent reacts to domain events forwarded from the bus. Anything not
// handled here only needs a re-render, which every message triggers.
func (m *Model) handleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.NotificationEvent:
		return m.setStatus(e.Level, e.Message)

	case eventbus.FetchFailedEvent:
		// background refreshes fail silently
		if !e.Muted {
			return m.setStatus(domain.LevelError, fmt.Sprintf("Failed to load users: %v", e.Err))
		}

	case eventbus.UsersFetchedEvent:
		if m.state.Error != "" && m.state.Bootstrapped {
			m.state.Error = ""
		}
	}
	return nil
}
