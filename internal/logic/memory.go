package logic

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/0x6flab/namegenerator"

	"usergrip/internal/domain"
)

// MemoryUserAPI is an in-memory implementation of UserAPI. Deletion is
// eventual like on a real server: a deleted user is listed with a deletion
// timestamp for PurgeAfter list calls before it disappears.
type MemoryUserAPI struct {
	mu          sync.Mutex
	users       map[string]*domain.User
	passwords   map[string]string
	purgeIn     map[string]int
	roles       []domain.Role
	actor       string
	permissions []string
	now         func() time.Time

	// PurgeAfter is the number of list calls a deleted user stays visible for
	PurgeAfter int

	listErr     error
	deleteErrs  map[string]error
	listCalls   int
	deleteCalls []string
}

// NewMemoryUserAPI creates a backend whose authenticated actor is actor
func NewMemoryUserAPI(actor string) *MemoryUserAPI {
	m := &MemoryUserAPI{
		users:       make(map[string]*domain.User),
		passwords:   make(map[string]string),
		purgeIn:     make(map[string]int),
		deleteErrs:  make(map[string]error),
		actor:       actor,
		permissions: []string{"*"},
		now:         time.Now,
		PurgeAfter:  1,
		roles: []domain.Role{
			newRole("super-role", "Super Administrator"),
			newRole("editor", "Editor"),
			newRole("contributor", "Contributor"),
			newRole("guest", "Guest"),
		},
	}
	m.addUser(domain.User{
		Metadata: domain.Metadata{Name: actor},
		Spec:     domain.UserSpec{DisplayName: "Administrator", Email: actor + "@example.com"},
	}, []string{"super-role"})
	return m
}

func newRole(name, display string) domain.Role {
	return domain.Role{
		APIVersion: "v1alpha1",
		Kind:       "Role",
		Metadata: domain.Metadata{
			Name:        name,
			Annotations: map[string]string{domain.DisplayNameAnnotation: display},
		},
	}
}

// SeedDemo adds count generated users
func (m *MemoryUserAPI) SeedDemo(count int) {
	gen := namegenerator.NewNameGenerator()
	roleNames := []string{"editor", "contributor", "guest"}

	for i := 0; i < count; i++ {
		display := gen.Generate()
		name := strings.ToLower(display)
		m.mu.Lock()
		if _, taken := m.users[name]; taken {
			name = fmt.Sprintf("%s-%d", name, i)
		}
		m.mu.Unlock()

		m.addUser(domain.User{
			Metadata: domain.Metadata{Name: name},
			Spec: domain.UserSpec{
				DisplayName: strings.ReplaceAll(display, "-", " "),
				Email:       name + "@example.com",
			},
		}, []string{roleNames[i%len(roleNames)]})
	}
}

// Add inserts users as-is; used to build fixtures
func (m *MemoryUserAPI) Add(users ...domain.User) {
	for _, u := range users {
		m.addUser(u, nil)
	}
}

func (m *MemoryUserAPI) addUser(u domain.User, roles []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addUserLocked(u, roles)
}

func (m *MemoryUserAPI) addUserLocked(u domain.User, roles []string) {
	if u.APIVersion == "" {
		u.APIVersion = "v1alpha1"
	}
	if u.Kind == "" {
		u.Kind = "User"
	}
	if u.Metadata.CreationTimestamp == nil {
		// keep insertion order stable even within the same clock tick
		ts := m.now().Add(time.Duration(len(m.users)) * time.Millisecond)
		u.Metadata.CreationTimestamp = &ts
	}
	if roles != nil {
		_ = u.SetRoleNames(roles)
	}
	m.users[u.Name()] = &u
	if u.PendingDeletion() {
		m.purgeIn[u.Name()] = m.PurgeAfter
	}
}

// SetPermissions replaces the UI permissions of the actor
func (m *MemoryUserAPI) SetPermissions(perms ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.permissions = perms
}

// SetListError makes every following ListUsers call fail with err (nil clears it)
func (m *MemoryUserAPI) SetListError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErr = err
}

// SetDeleteError makes DeleteUser(name) fail with err
func (m *MemoryUserAPI) SetDeleteError(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteErrs[name] = err
}

// ListCalls returns how many times ListUsers was called
func (m *MemoryUserAPI) ListCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

// DeleteCalls returns the names passed to DeleteUser, sorted
func (m *MemoryUserAPI) DeleteCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := append([]string(nil), m.deleteCalls...)
	sort.Strings(calls)
	return calls
}

// Exists reports whether a user is still stored (pending users included)
func (m *MemoryUserAPI) Exists(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[name]
	return ok
}

// Password returns the last password set for name
func (m *MemoryUserAPI) Password(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.passwords[name]
}

func (m *MemoryUserAPI) ListUsers(ctx context.Context, page, size int) (domain.UserPage, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserPage{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.listCalls++
	if m.listErr != nil {
		return domain.UserPage{}, m.listErr
	}
	m.agePending()

	all := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		all = append(all, *u)
	}
	sort.SliceStable(all, func(i, j int) bool {
		ti, tj := all[i].Metadata.CreationTimestamp, all[j].Metadata.CreationTimestamp
		if !ti.Equal(*tj) {
			return ti.Before(*tj)
		}
		return all[i].Name() < all[j].Name()
	})

	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = domain.DefaultPageSize
	}
	start := (page - 1) * size
	if start > len(all) {
		start = len(all)
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	items := append([]domain.User(nil), all[start:end]...)
	return domain.NewUserPage(page, size, int64(len(all)), items), nil
}

// agePending purges users whose grace period ran out and counts down the rest
func (m *MemoryUserAPI) agePending() {
	for name, left := range m.purgeIn {
		if left <= 0 {
			delete(m.users, name)
			delete(m.purgeIn, name)
			delete(m.passwords, name)
			continue
		}
		m.purgeIn[name] = left - 1
	}
}

func (m *MemoryUserAPI) GetUser(ctx context.Context, name string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[name]
	if !ok {
		return domain.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, name)
	}
	return *u, nil
}

func (m *MemoryUserAPI) CurrentUser(ctx context.Context) (domain.User, error) {
	return m.GetUser(ctx, m.actor)
}

func (m *MemoryUserAPI) Permissions(ctx context.Context, name string) (domain.Permissions, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[name]
	if !ok {
		return domain.Permissions{}, fmt.Errorf("%w: %s", ErrUserNotFound, name)
	}

	perms := domain.Permissions{Roles: []domain.Role{}, UIPermissions: []string{}}
	if names, err := u.RoleNames(); err == nil {
		for _, rn := range names {
			for _, r := range m.roles {
				if r.Metadata.Name == rn {
					perms.Roles = append(perms.Roles, r)
				}
			}
		}
	}
	if name == m.actor {
		perms.UIPermissions = append(perms.UIPermissions, m.permissions...)
	}
	return perms, nil
}

func (m *MemoryUserAPI) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	name := user.Name()
	if name == "" {
		return domain.User{}, fmt.Errorf("user name is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[name]; exists {
		return domain.User{}, fmt.Errorf("%w: %s", ErrUserExists, name)
	}

	password := user.Spec.Password
	user.Spec.Password = ""
	m.addUserLocked(user, nil)
	if password != "" {
		m.passwords[name] = password
	}
	return *m.users[name], nil
}

func (m *MemoryUserAPI) UpdateUser(ctx context.Context, user domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.users[user.Name()]
	if !ok {
		return domain.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, user.Name())
	}

	updated := *existing
	updated.Spec.DisplayName = user.Spec.DisplayName
	updated.Spec.Email = user.Spec.Email
	updated.Spec.Phone = user.Spec.Phone
	updated.Spec.Bio = user.Spec.Bio
	updated.Spec.Avatar = user.Spec.Avatar
	if user.Metadata.Annotations != nil {
		updated.Metadata.Annotations = user.Metadata.Annotations
	}
	m.users[user.Name()] = &updated
	return updated, nil
}

func (m *MemoryUserAPI) DeleteUser(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleteCalls = append(m.deleteCalls, name)
	if err := m.deleteErrs[name]; err != nil {
		return err
	}
	u, ok := m.users[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUserNotFound, name)
	}
	if u.PendingDeletion() {
		return nil
	}

	ts := m.now()
	marked := *u
	marked.Metadata.DeletionTimestamp = &ts
	m.users[name] = &marked
	m.purgeIn[name] = m.PurgeAfter
	return nil
}

func (m *MemoryUserAPI) ChangePassword(ctx context.Context, name, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUserNotFound, name)
	}
	m.passwords[name] = password
	return nil
}

func (m *MemoryUserAPI) GrantRoles(ctx context.Context, name string, roles []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUserNotFound, name)
	}

	updated := *u
	annotations := make(map[string]string, len(u.Metadata.Annotations)+1)
	for k, v := range u.Metadata.Annotations {
		annotations[k] = v
	}
	updated.Metadata.Annotations = annotations
	if err := updated.SetRoleNames(roles); err != nil {
		return err
	}
	m.users[name] = &updated
	return nil
}

func (m *MemoryUserAPI) ListRoles(ctx context.Context) ([]domain.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Role(nil), m.roles...), nil
}
