package logic

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usergrip/internal/domain"
)

func fixtureUsers(names ...string) []domain.User {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	users := make([]domain.User, 0, len(names))
	for i, n := range names {
		ts := base.Add(time.Duration(i+1) * time.Minute)
		users = append(users, domain.User{
			Metadata: domain.Metadata{Name: n, CreationTimestamp: &ts},
			Spec:     domain.UserSpec{DisplayName: n, Email: n + "@example.com"},
		})
	}
	return users
}

func TestMemoryListPaginates(t *testing.T) {
	m := NewMemoryUserAPI("admin")
	m.Add(fixtureUsers("u1", "u2", "u3", "u4")...)

	page, err := m.ListUsers(context.Background(), 2, 20)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(5), page.Total)

	page, err = m.ListUsers(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Items, 5)
	assert.LessOrEqual(t, len(page.Items), page.Size)
	assert.True(t, page.First)
	assert.True(t, page.Last)
	assert.False(t, page.HasNext)
	assert.Equal(t, 2, m.ListCalls())
}

func TestMemoryListOrderIsStable(t *testing.T) {
	m := NewMemoryUserAPI("admin")
	m.Add(fixtureUsers("carol", "alice", "bob")...)

	first, err := m.ListUsers(context.Background(), 1, 20)
	require.NoError(t, err)
	second, err := m.ListUsers(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, first.Names(), second.Names())
	// the fixtures predate the actor created at construction time
	assert.Equal(t, []string{"carol", "alice", "bob", "admin"}, first.Names())
}

func TestMemoryDeleteIsEventual(t *testing.T) {
	m := NewMemoryUserAPI("admin")
	m.Add(fixtureUsers("bob")...)
	ctx := context.Background()

	require.NoError(t, m.DeleteUser(ctx, "bob"))

	page, err := m.ListUsers(ctx, 1, 20)
	require.NoError(t, err)
	assert.Positive(t, page.PendingDeletions())
	assert.Contains(t, page.Names(), "bob")

	page, err = m.ListUsers(ctx, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, page.PendingDeletions())
	assert.NotContains(t, page.Names(), "bob")
	assert.False(t, m.Exists("bob"))
}

func TestMemoryPurgeAfter(t *testing.T) {
	m := NewMemoryUserAPI("admin")
	m.PurgeAfter = 3
	m.Add(fixtureUsers("bob")...)
	ctx := context.Background()
	require.NoError(t, m.DeleteUser(ctx, "bob"))

	for i := 0; i < 3; i++ {
		page, err := m.ListUsers(ctx, 1, 20)
		require.NoError(t, err)
		assert.Positive(t, page.PendingDeletions(), "list call %d", i+1)
	}
	page, err := m.ListUsers(ctx, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, page.PendingDeletions())
}

func TestMemoryFailureInjection(t *testing.T) {
	m := NewMemoryUserAPI("admin")
	m.Add(fixtureUsers("bob")...)
	ctx := context.Background()
	boom := errors.New("boom")

	m.SetListError(boom)
	_, err := m.ListUsers(ctx, 1, 20)
	assert.ErrorIs(t, err, boom)
	m.SetListError(nil)

	m.SetDeleteError("bob", boom)
	assert.ErrorIs(t, m.DeleteUser(ctx, "bob"), boom)
	assert.Equal(t, []string{"bob"}, m.DeleteCalls())
	assert.True(t, m.Exists("bob"))

	assert.ErrorIs(t, m.DeleteUser(ctx, "nobody"), ErrUserNotFound)
}

func TestMemoryCreateUpdateAndPassword(t *testing.T) {
	m := NewMemoryUserAPI("admin")
	ctx := context.Background()

	created, err := m.CreateUser(ctx, domain.User{
		Metadata: domain.Metadata{Name: "carol"},
		Spec:     domain.UserSpec{DisplayName: "Carol", Password: "s3cret"},
	})
	require.NoError(t, err)
	assert.Equal(t, "User", created.Kind)
	assert.Empty(t, created.Spec.Password)
	assert.Equal(t, "s3cret", m.Password("carol"))

	_, err = m.CreateUser(ctx, domain.User{Metadata: domain.Metadata{Name: "carol"}})
	assert.ErrorIs(t, err, ErrUserExists)

	updated, err := m.UpdateUser(ctx, domain.User{
		Metadata: domain.Metadata{Name: "carol"},
		Spec:     domain.UserSpec{DisplayName: "Caroline", Email: "c@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Caroline", updated.Spec.DisplayName)

	require.NoError(t, m.ChangePassword(ctx, "carol", "n3w"))
	assert.Equal(t, "n3w", m.Password("carol"))
	assert.ErrorIs(t, m.ChangePassword(ctx, "nobody", "x"), ErrUserNotFound)
}

func TestMemoryConcurrentCreateSameName(t *testing.T) {
	m := NewMemoryUserAPI("admin")
	ctx := context.Background()

	var created, conflicts atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.CreateUser(ctx, domain.User{Metadata: domain.Metadata{Name: "dave"}})
			switch {
			case err == nil:
				created.Add(1)
			case errors.Is(err, ErrUserExists):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
	assert.Equal(t, int32(15), conflicts.Load())
}

func TestMemoryGrantRolesAndPermissions(t *testing.T) {
	m := NewMemoryUserAPI("admin")
	m.Add(fixtureUsers("bob")...)
	ctx := context.Background()

	require.NoError(t, m.GrantRoles(ctx, "bob", []string{"editor", "guest"}))
	bob, err := m.GetUser(ctx, "bob")
	require.NoError(t, err)
	roles, err := bob.RoleNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"editor", "guest"}, roles)

	perms, err := m.Permissions(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, perms.Roles, 2)
	assert.Empty(t, perms.UIPermissions)

	actor, err := m.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin", actor.Name())

	perms, err = m.Permissions(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, CanManageUsers(perms))

	m.SetPermissions("system:posts:manage")
	perms, err = m.Permissions(ctx, "admin")
	require.NoError(t, err)
	assert.False(t, CanManageUsers(perms))

	all, err := m.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestMemorySeedDemo(t *testing.T) {
	m := NewMemoryUserAPI("admin")
	m.SeedDemo(45)

	page, err := m.ListUsers(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(46), page.Total)
	assert.Len(t, page.Items, 20)
	assert.True(t, page.HasNext)
}

func TestMemoryListHonoursContext(t *testing.T) {
	m := NewMemoryUserAPI("admin")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.ListUsers(ctx, 1, 20)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, m.ListCalls())
}
