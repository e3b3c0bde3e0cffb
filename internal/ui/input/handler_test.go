package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usergrip/internal/domain"
	"usergrip/internal/ui/coordinator"
	"usergrip/internal/ui/input/types"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newContext(names ...string) *ModelContext {
	snap := coordinator.Snapshot{CanManage: true}
	for _, n := range names {
		snap.Rows = append(snap.Rows, coordinator.Row{User: domain.User{Metadata: domain.Metadata{Name: n}}})
	}
	return &ModelContext{Snapshot: snap}
}

func TestSearchModeRoundTrip(t *testing.T) {
	h := New()
	ctx := newContext("alice")

	_, cmd := h.HandleKey(runes("/"), ctx)
	assert.Equal(t, types.ModeSearch, h.CurrentMode())
	assert.NotNil(t, cmd)
	require.NotNil(t, h.TextInput())

	acts, _ := h.HandleKey(runes("a"), ctx)
	require.Len(t, acts, 1)
	assert.Equal(t, types.UpdateTextAction{Text: "a"}, acts[0])

	acts, _ = h.HandleKey(runes("l"), ctx)
	assert.Equal(t, types.UpdateTextAction{Text: "al"}, acts[0])

	acts, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, ctx)
	require.Len(t, acts, 1)
	assert.Equal(t, types.SubmitTextAction{Text: "al", Mode: types.ModeSearch}, acts[0])
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
	assert.Nil(t, h.TextInput())
}

func TestSearchModeStartsWithActiveQuery(t *testing.T) {
	h := New()
	ctx := newContext("alice")
	ctx.Snapshot.Query = "ali"

	h.HandleKey(runes("/"), ctx)
	require.NotNil(t, h.TextInput())
	assert.Equal(t, "ali", h.TextInput().Value())

	acts, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)
	assert.Equal(t, types.CancelTextAction{}, acts[0])
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
}

func TestDeleteEntersConfirmMode(t *testing.T) {
	h := New()
	ctx := newContext("alice", "bob")

	acts, _ := h.HandleKey(runes("d"), ctx)
	require.Len(t, acts, 1)
	assert.Equal(t, "alice", acts[0].(types.RequestDeleteAction).User.Name())
	assert.Equal(t, types.ModeConfirm, h.CurrentMode())

	// confirm swallows navigation
	acts, _ = h.HandleKey(runes("j"), ctx)
	assert.Empty(t, acts)

	acts, _ = h.HandleKey(runes("y"), ctx)
	assert.Equal(t, []types.Action{types.ConfirmAction{}}, acts)
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
}

func TestBulkDeleteIncludesHiddenSelection(t *testing.T) {
	h := New()
	ctx := newContext("alice")
	ctx.Snapshot.SelectedCount = 2
	ctx.Snapshot.Selected = []string{"alice", "zed"}

	acts, _ := h.HandleKey(runes("d"), ctx)
	require.Len(t, acts, 1)
	assert.Equal(t, []string{"alice", "zed"}, acts[0].(types.RequestDeleteAction).Names)
}

func TestCreateOpensForm(t *testing.T) {
	h := New()
	ctx := newContext()

	acts, _ := h.HandleKey(runes("c"), ctx)
	require.Len(t, acts, 1)
	assert.IsType(t, types.OpenModalAction{}, acts[0])
	assert.Equal(t, types.ModeUserForm, h.CurrentMode())
	assert.True(t, h.IsModalMode(h.CurrentMode()))
	assert.Contains(t, h.ModeView(), "New user")

	h.SetError(assert.AnError)
	assert.Contains(t, h.ModeView(), assert.AnError.Error())

	h.SetMode(types.ModeNormal, nil, ctx)
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
	assert.Empty(t, h.ModeView())
}

func TestReadOnlyIgnoresManagementKeys(t *testing.T) {
	h := New()
	h.Keys().SetCanManage(false)
	ctx := newContext("alice")

	acts, cmd := h.HandleKey(runes("d"), ctx)
	assert.Empty(t, acts)
	assert.Nil(t, cmd)
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
}
