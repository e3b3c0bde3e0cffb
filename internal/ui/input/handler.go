package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"usergrip/internal/ui/input/modes"
	"usergrip/internal/ui/input/types"
)

type Handler struct {
	currentMode types.Mode
	modes       map[types.Mode]types.ModeHandler
	textInput   *textinput.Model // Shared text input for text modes
	keys        *modes.KeyMap
}

func New() *Handler {
	ti := textinput.New()
	keys := modes.DefaultKeyMap()

	h := &Handler{
		currentMode: types.ModeNormal,
		textInput:   &ti,
		keys:        keys,
		modes:       make(map[types.Mode]types.ModeHandler),
	}

	// Register all mode handlers
	h.modes[types.ModeNormal] = modes.NewNormalMode(keys)
	h.modes[types.ModeSearch] = modes.NewSearchMode(h.textInput)
	h.modes[types.ModeConfirm] = modes.NewConfirmMode()
	h.modes[types.ModeUserForm] = modes.NewUserFormMode()
	h.modes[types.ModePassword] = modes.NewPasswordMode()
	h.modes[types.ModeRoles] = modes.NewRolesMode()

	return h
}

// Keys returns the normal mode bindings, also used to render help
func (h *Handler) Keys() *modes.KeyMap {
	return h.keys
}

func (h *Handler) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, tea.Cmd) {
	handler := h.modes[h.currentMode]
	if handler == nil {
		return nil, nil
	}

	actions, consumed := handler.HandleKey(msg, ctx)

	// If not consumed and we're in text mode, we'll handle it below
	if !consumed && !h.isTextMode(h.currentMode) {
		return nil, nil
	}

	var cmd tea.Cmd
	var allActions []types.Action

	for _, action := range actions {
		if changeMode, ok := action.(types.ChangeModeAction); ok {
			enterActions, focusCmd := h.switchMode(changeMode, ctx)
			allActions = append(allActions, enterActions...)
			if focusCmd != nil {
				cmd = focusCmd
			}
		} else {
			allActions = append(allActions, action)
		}
	}

	// If we're in a text mode and didn't handle the key, pass it to text input
	if h.isTextMode(h.currentMode) && !consumed {
		var textCmd tea.Cmd
		*h.textInput, textCmd = h.textInput.Update(msg)
		cmd = textCmd
		// Always append an update action when in text mode to keep view in sync
		allActions = append(allActions, types.UpdateTextAction{Text: h.textInput.Value()})
	}

	return allActions, cmd
}

// SetMode switches modes outside of key handling, e.g. after a form was saved
func (h *Handler) SetMode(mode types.Mode, data interface{}, ctx types.Context) []types.Action {
	actions, _ := h.switchMode(types.ChangeModeAction{Mode: mode, Data: data}, ctx)
	return actions
}

func (h *Handler) switchMode(change types.ChangeModeAction, ctx types.Context) ([]types.Action, tea.Cmd) {
	var actions []types.Action

	if current := h.modes[h.currentMode]; current != nil {
		actions = append(actions, current.Exit(ctx)...)
	}

	oldMode := h.currentMode
	h.currentMode = change.Mode

	next := h.modes[h.currentMode]
	if seeder, ok := next.(types.Seeder); ok {
		seeder.Seed(change.Data)
	}

	var cmd tea.Cmd
	if h.isTextMode(h.currentMode) {
		h.textInput.Reset()
		if text, ok := change.Data.(string); ok {
			h.textInput.SetValue(text)
			h.textInput.CursorEnd()
		}
		cmd = textinput.Blink
	} else if h.isTextMode(oldMode) {
		h.textInput.Blur()
	}

	if next != nil {
		actions = append(actions, next.Enter(ctx)...)
	}
	return actions, cmd
}

func (h *Handler) CurrentMode() types.Mode {
	if h == nil {
		return types.ModeNormal
	}
	return h.currentMode
}

// TextInput returns the shared text input while a text mode is active
func (h *Handler) TextInput() *textinput.Model {
	if h.isTextMode(h.currentMode) {
		return h.textInput
	}
	return nil
}

// Prompt returns the label of the active text mode
func (h *Handler) Prompt() string {
	if p, ok := h.modes[h.currentMode].(interface{ Prompt() string }); ok {
		return p.Prompt()
	}
	return ""
}

// ModeView returns the popup of the active mode, if it draws one
func (h *Handler) ModeView() string {
	if v, ok := h.modes[h.currentMode].(types.Viewer); ok {
		return v.View()
	}
	return ""
}

// SetError reports a failed submission to the active form
func (h *Handler) SetError(err error) {
	if s, ok := h.modes[h.currentMode].(types.ErrorSetter); ok {
		s.SetError(err)
	}
}

// IsModalMode reports whether mode belongs to an open form
func (h *Handler) IsModalMode(mode types.Mode) bool {
	switch mode {
	case types.ModeUserForm, types.ModePassword, types.ModeRoles:
		return true
	default:
		return false
	}
}

func (h *Handler) RegisterMode(mode types.Mode, handler types.ModeHandler) {
	h.modes[mode] = handler
}

func (h *Handler) isTextMode(mode types.Mode) bool {
	return mode == types.ModeSearch
}

func (h *Handler) Reset() {
	h.currentMode = types.ModeNormal
	h.textInput.Reset()
	h.textInput.Blur()
}

// Update handles non-keyboard messages for text input
func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	if h.isTextMode(h.currentMode) {
		var cmd tea.Cmd
		*h.textInput, cmd = h.textInput.Update(msg)
		return cmd
	}
	return nil
}
