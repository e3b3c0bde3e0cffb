package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"usergrip/internal/ui/input/types"
)

// ConfirmMode answers the pending deletion prompt
type ConfirmMode struct{}

func NewConfirmMode() *ConfirmMode {
	return &ConfirmMode{}
}

func (m *ConfirmMode) Name() string {
	return "delete-confirm"
}

func (m *ConfirmMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *ConfirmMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *ConfirmMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "y", "Y":
		return []types.Action{
			types.ConfirmAction{},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	case "n", "N", "esc", "q":
		return []types.Action{
			types.CancelConfirmAction{},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	}

	// swallow everything else so nothing happens behind the prompt
	return nil, true
}
