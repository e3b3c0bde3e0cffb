package actions

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usergrip/internal/domain"
	"usergrip/internal/eventbus"
	"usergrip/internal/logic"
	"usergrip/internal/ui/services/events"
	"usergrip/internal/ui/services/selection"
)

type recordingBus struct {
	mu     sync.Mutex
	events []eventbus.DomainEvent
}

func (b *recordingBus) Publish(e eventbus.DomainEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *recordingBus) Subscribe(eventbus.EventType, eventbus.EventHandler) func() {
	return func() {}
}

func (b *recordingBus) Close() {}

func (b *recordingBus) notifications() []domain.NotificationEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []domain.NotificationEvent
	for _, e := range b.events {
		if n, ok := e.(domain.NotificationEvent); ok {
			out = append(out, n)
		}
	}
	return out
}

func (b *recordingBus) last(t eventbus.EventType) eventbus.DomainEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.events) - 1; i >= 0; i-- {
		if b.events[i].Type() == t {
			return b.events[i]
		}
	}
	return nil
}

type countingRefresher struct {
	calls int
}

func (r *countingRefresher) Refresh(context.Context) error {
	r.calls++
	return nil
}

type fixture struct {
	d     *Dispatcher
	api   *logic.MemoryUserAPI
	list  *countingRefresher
	sel   *selection.Service
	bus   *recordingBus
	actor string
}

func newFixture(t *testing.T, names ...string) *fixture {
	t.Helper()
	f := &fixture{
		api:   logic.NewMemoryUserAPI("admin"),
		list:  &countingRefresher{},
		sel:   selection.NewService(&events.NullBus{}),
		bus:   &recordingBus{},
		actor: "admin",
	}
	for _, n := range names {
		f.api.Add(domain.User{
			Metadata: domain.Metadata{Name: n},
			Spec:     domain.UserSpec{DisplayName: n, Email: n + "@example.com"},
		})
	}
	f.sel.Reconcile(append([]string{"admin"}, names...))
	f.d = NewDispatcher(Deps{
		API:       f.api,
		List:      f.list,
		Selection: f.sel,
		Bus:       f.bus,
		Lock:      &sync.Mutex{},
		Actor:     func() string { return f.actor },
	})
	return f
}

func named(name string) domain.User {
	return domain.User{Metadata: domain.Metadata{Name: name}}
}

func TestConfirmWithoutRequest(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.d.Confirm(context.Background()), ErrNothingPending)
}

func TestDeleteOneRequiresConfirmation(t *testing.T) {
	f := newFixture(t, "bob")
	ctx := context.Background()

	f.d.RequestDeleteOne(named("bob"))
	pending, ok := f.d.Pending()
	require.True(t, ok)
	assert.Equal(t, []string{"bob"}, pending.Names)
	assert.Contains(t, pending.Prompt, "bob")
	assert.Empty(t, f.api.DeleteCalls())

	f.d.Cancel()
	_, ok = f.d.Pending()
	assert.False(t, ok)
	assert.ErrorIs(t, f.d.Confirm(ctx), ErrNothingPending)

	f.d.RequestDeleteOne(named("bob"))
	require.NoError(t, f.d.Confirm(ctx))
	assert.Equal(t, []string{"bob"}, f.api.DeleteCalls())
	assert.Equal(t, 1, f.list.calls)

	notes := f.bus.notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, domain.LevelSuccess, notes[0].Level)
}

func TestDeleteOneRefreshesAfterFailure(t *testing.T) {
	f := newFixture(t, "bob")
	boom := errors.New("forbidden")
	f.api.SetDeleteError("bob", boom)

	f.d.RequestDeleteOne(named("bob"))
	err := f.d.Confirm(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, f.list.calls)

	notes := f.bus.notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, domain.LevelError, notes[0].Level)

	deleted := f.bus.last(eventbus.EventUserDeleted).(domain.UserDeletedEvent)
	assert.Equal(t, "bob", deleted.Name)
	assert.ErrorIs(t, deleted.Err, boom)
}

func TestDeleteOneRefusesActor(t *testing.T) {
	f := newFixture(t, "bob")

	f.d.RequestDeleteOne(named("admin"))
	require.NoError(t, f.d.Confirm(context.Background()))
	assert.Empty(t, f.api.DeleteCalls())
	assert.Zero(t, f.list.calls)

	notes := f.bus.notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, domain.LevelInfo, notes[0].Level)
}

func TestDeleteManyExcludesActor(t *testing.T) {
	f := newFixture(t, "bob")
	f.sel.Toggle("admin")
	f.sel.Toggle("bob")

	require.NoError(t, f.d.RequestDeleteMany([]string{"admin", "bob"}))
	require.NoError(t, f.d.Confirm(context.Background()))

	assert.Equal(t, []string{"bob"}, f.api.DeleteCalls())
	assert.Equal(t, 1, f.list.calls)
	assert.False(t, f.sel.HasSelection())

	deleted := f.bus.last(eventbus.EventUsersDeleted).(domain.UsersDeletedEvent)
	assert.Equal(t, []string{"bob"}, deleted.Names)
	assert.Empty(t, deleted.Failed)
}

func TestDeleteManyOnlyActor(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.d.RequestDeleteMany([]string{"admin"}))
	require.NoError(t, f.d.Confirm(context.Background()))
	assert.Empty(t, f.api.DeleteCalls())
	assert.Equal(t, 0, f.list.calls)
}

func TestDeleteManyNothingSelected(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.d.RequestDeleteMany(nil), ErrNothingSelected)
}

func TestDeleteManyAggregatesFailures(t *testing.T) {
	f := newFixture(t, "bob", "carol", "dave")
	boom := errors.New("conflict")
	f.api.SetDeleteError("carol", boom)

	require.NoError(t, f.d.RequestDeleteMany([]string{"bob", "carol", "dave"}))
	err := f.d.Confirm(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	// every removal was attempted and settled
	assert.Equal(t, []string{"bob", "carol", "dave"}, f.api.DeleteCalls())
	assert.Equal(t, 1, f.list.calls)

	deleted := f.bus.last(eventbus.EventUsersDeleted).(domain.UsersDeletedEvent)
	require.Len(t, deleted.Failed, 1)
	assert.ErrorIs(t, deleted.Failed["carol"], boom)

	notes := f.bus.notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, domain.LevelError, notes[0].Level)
	assert.Contains(t, notes[0].Message, "1 of 3 failed: carol")
}

func TestModalsSetActiveWithoutRemoteCalls(t *testing.T) {
	f := newFixture(t, "bob")

	f.d.OpenEdit(named("bob"))
	assert.Equal(t, ModalEdit, f.d.Modal())
	active, ok := f.sel.Active()
	require.True(t, ok)
	assert.Equal(t, "bob", active.Name())
	assert.False(t, f.sel.IsChecked("bob"))

	f.d.OpenPassword(named("bob"))
	assert.Equal(t, ModalPassword, f.d.Modal())
	f.d.OpenRoles(named("bob"))
	assert.Equal(t, ModalRoles, f.d.Modal())

	f.d.OpenCreate()
	assert.Equal(t, ModalCreate, f.d.Modal())
	_, ok = f.sel.Active()
	assert.False(t, ok)

	f.d.CloseModal()
	assert.Equal(t, ModalNone, f.d.Modal())
	assert.Equal(t, 0, f.list.calls)
	assert.Equal(t, 0, f.api.ListCalls())
}

func TestSaveUserCreateAndUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.d.SaveUser(ctx, UserForm{Create: true, Name: "carol"})
	assert.ErrorIs(t, err, ErrInvalidForm)

	f.d.OpenCreate()
	require.NoError(t, f.d.SaveUser(ctx, UserForm{
		Create:      true,
		Name:        "carol",
		DisplayName: "Carol",
		Email:       "carol@example.com",
		Password:    "s3cret",
		Roles:       []string{"editor"},
	}))
	assert.Equal(t, ModalNone, f.d.Modal())
	assert.Equal(t, 1, f.list.calls)
	assert.Equal(t, "s3cret", f.api.Password("carol"))

	carol, err := f.api.GetUser(ctx, "carol")
	require.NoError(t, err)
	roles, err := carol.RoleNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"editor"}, roles)

	require.NoError(t, f.d.SaveUser(ctx, UserForm{
		Name:        "carol",
		DisplayName: "Caroline",
		Email:       "caroline@example.com",
	}))
	carol, err = f.api.GetUser(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, "Caroline", carol.Spec.DisplayName)
	roles, err = carol.RoleNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"editor"}, roles, "update keeps annotations")

	saved := f.bus.last(eventbus.EventUserSaved).(domain.UserSavedEvent)
	assert.Equal(t, "update", saved.Action)
}

func TestSaveUserCreateConflict(t *testing.T) {
	f := newFixture(t, "bob")
	err := f.d.SaveUser(context.Background(), UserForm{
		Create: true, Name: "bob", DisplayName: "Bob", Email: "bob@example.com",
	})
	assert.ErrorIs(t, err, logic.ErrUserExists)
	assert.Equal(t, 0, f.list.calls)
	assert.Equal(t, domain.LevelError, f.bus.notifications()[0].Level)
}

type grantFailingAPI struct {
	*logic.MemoryUserAPI
}

func (grantFailingAPI) GrantRoles(context.Context, string, []string) error {
	return errors.New("boom")
}

func TestSaveUserCreateGrantFailure(t *testing.T) {
	f := newFixture(t)
	f.d.API = grantFailingAPI{f.api}
	ctx := context.Background()

	f.d.OpenCreate()
	require.NoError(t, f.d.SaveUser(ctx, UserForm{
		Create:      true,
		Name:        "carol",
		DisplayName: "Carol",
		Email:       "carol@example.com",
		Password:    "s3cret",
		Roles:       []string{"editor"},
	}))

	assert.True(t, f.api.Exists("carol"))
	assert.Equal(t, ModalNone, f.d.Modal(), "create form closes once the user exists")
	assert.Equal(t, 1, f.list.calls)

	notes := f.bus.notifications()
	require.NotEmpty(t, notes)
	last := notes[len(notes)-1]
	assert.Equal(t, domain.LevelError, last.Level)
	assert.Contains(t, last.Message, "granting roles failed")

	saved := f.bus.last(eventbus.EventUserSaved).(domain.UserSavedEvent)
	assert.Equal(t, "create", saved.Action)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t, "bob")
	ctx := context.Background()

	assert.ErrorIs(t, f.d.ChangePassword(ctx, "bob", "", ""), ErrEmptyPassword)
	assert.ErrorIs(t, f.d.ChangePassword(ctx, "bob", "abc", "abd"), ErrPasswordMismatch)
	assert.Empty(t, f.api.Password("bob"))

	require.NoError(t, f.d.ChangePassword(ctx, "bob", "abc", "abc"))
	assert.Equal(t, "abc", f.api.Password("bob"))
	assert.Equal(t, 1, f.list.calls)
}

func TestGrantRoles(t *testing.T) {
	f := newFixture(t, "bob")
	ctx := context.Background()

	f.d.OpenRoles(named("bob"))
	require.NoError(t, f.d.GrantRoles(ctx, "bob", []string{"guest"}))
	assert.Equal(t, ModalNone, f.d.Modal())

	bob, err := f.api.GetUser(ctx, "bob")
	require.NoError(t, err)
	roles, err := bob.RoleNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"guest"}, roles)

	err = f.d.GrantRoles(ctx, "nobody", nil)
	assert.ErrorIs(t, err, logic.ErrUserNotFound)
}
