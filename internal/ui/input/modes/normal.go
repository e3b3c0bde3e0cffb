package modes

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"usergrip/internal/ui/input/types"
	"usergrip/internal/ui/services/actions"
)

type NormalMode struct {
	keys        *KeyMap
	lastKeyWasG bool
	lastGTime   time.Time
}

func NewNormalMode(keys *KeyMap) *NormalMode {
	return &NormalMode{keys: keys}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	m.lastKeyWasG = false
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	k := m.keys

	// gg - go to top
	if msg.String() == "g" {
		if m.lastKeyWasG && time.Since(m.lastGTime) < 500*time.Millisecond {
			m.lastKeyWasG = false
			return []types.Action{types.NavigateAction{Direction: "home"}}, true
		}
		m.lastKeyWasG = true
		m.lastGTime = time.Now()
		return nil, true
	}
	m.lastKeyWasG = false

	switch {
	case key.Matches(msg, k.ForceQuit):
		return []types.Action{types.QuitAction{Force: true}}, true
	case key.Matches(msg, k.Quit):
		return []types.Action{types.QuitAction{}}, true
	case key.Matches(msg, k.Help):
		return []types.Action{types.ToggleHelpAction{}}, true

	case key.Matches(msg, k.Up):
		return []types.Action{types.NavigateAction{Direction: "up"}}, true
	case key.Matches(msg, k.Down):
		return []types.Action{types.NavigateAction{Direction: "down"}}, true
	case key.Matches(msg, k.PageUp):
		return []types.Action{types.NavigateAction{Direction: "pageup"}}, true
	case key.Matches(msg, k.PageDown):
		return []types.Action{types.NavigateAction{Direction: "pagedown"}}, true
	case key.Matches(msg, k.Top):
		return []types.Action{types.NavigateAction{Direction: "home"}}, true
	case key.Matches(msg, k.Bottom):
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case key.Matches(msg, k.NextPage):
		return []types.Action{types.PageAction{Direction: "next"}}, true
	case key.Matches(msg, k.PrevPage):
		return []types.Action{types.PageAction{Direction: "prev"}}, true
	case key.Matches(msg, k.PageSize):
		return []types.Action{types.CyclePageSizeAction{}}, true
	case key.Matches(msg, k.Refresh):
		return []types.Action{types.RefreshAction{}}, true

	case key.Matches(msg, k.Search):
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch, Data: ctx.SearchQuery()}}, true

	case key.Matches(msg, k.Toggle):
		if ctx.TotalItems() == 0 {
			return nil, true
		}
		return []types.Action{types.SelectAction{}}, true
	case key.Matches(msg, k.ToggleAll):
		return []types.Action{types.ToggleAllAction{}}, true
	case key.Matches(msg, k.Clear):
		if ctx.HasSelection() {
			return []types.Action{types.DeselectAllAction{}}, true
		}
		return nil, true

	case key.Matches(msg, k.Delete):
		return m.delete(ctx)

	case key.Matches(msg, k.Create):
		return []types.Action{
			types.OpenModalAction{Kind: actions.ModalCreate},
			types.ChangeModeAction{Mode: types.ModeUserForm, Data: types.FormData{Create: true}},
		}, true
	case key.Matches(msg, k.Edit):
		u, ok := ctx.CurrentUser()
		if !ok {
			return nil, true
		}
		return []types.Action{
			types.OpenModalAction{Kind: actions.ModalEdit, User: u},
			types.ChangeModeAction{Mode: types.ModeUserForm, Data: types.FormData{User: u}},
		}, true
	case key.Matches(msg, k.Password):
		u, ok := ctx.CurrentUser()
		if !ok {
			return nil, true
		}
		return []types.Action{
			types.OpenModalAction{Kind: actions.ModalPassword, User: u},
			types.ChangeModeAction{Mode: types.ModePassword, Data: u},
		}, true
	case key.Matches(msg, k.Roles):
		u, ok := ctx.CurrentUser()
		if !ok {
			return nil, true
		}
		granted, err := u.RoleNames()
		return []types.Action{
			types.OpenModalAction{Kind: actions.ModalRoles, User: u},
			types.ChangeModeAction{Mode: types.ModeRoles, Data: types.RolesData{
				User:    u,
				Roles:   ctx.Roles(),
				Granted: granted,
				Err:     err,
			}},
		}, true
	}

	return nil, false
}

// delete asks to remove the checked users, or the one under the cursor when none are checked
func (m *NormalMode) delete(ctx types.Context) ([]types.Action, bool) {
	if ctx.HasSelection() {
		return []types.Action{
			types.RequestDeleteAction{Names: ctx.SelectedNames()},
			types.ChangeModeAction{Mode: types.ModeConfirm},
		}, true
	}
	u, ok := ctx.CurrentUser()
	if !ok {
		return nil, true
	}
	return []types.Action{
		types.RequestDeleteAction{User: u},
		types.ChangeModeAction{Mode: types.ModeConfirm},
	}, true
}
