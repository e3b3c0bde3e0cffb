package input

import (
	"usergrip/internal/domain"
	"usergrip/internal/ui/coordinator"
)

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	Snapshot coordinator.Snapshot
	AllRoles []domain.Role
}

// CurrentIndex returns the cursor position
func (c *ModelContext) CurrentIndex() int {
	return c.Snapshot.Cursor
}

// TotalItems returns the number of rows left by the search
func (c *ModelContext) TotalItems() int {
	return len(c.Snapshot.Rows)
}

// HasSelection returns true if any users are checked
func (c *ModelContext) HasSelection() bool {
	return c.Snapshot.SelectedCount > 0
}

// SelectedCount returns the number of checked users
func (c *ModelContext) SelectedCount() int {
	return c.Snapshot.SelectedCount
}

// SelectedNames returns the checked users in page order
func (c *ModelContext) SelectedNames() []string {
	return append([]string(nil), c.Snapshot.Selected...)
}

// CurrentUser returns the user under the cursor
func (c *ModelContext) CurrentUser() (domain.User, bool) {
	i := c.Snapshot.Cursor
	if i < 0 || i >= len(c.Snapshot.Rows) {
		return domain.User{}, false
	}
	return c.Snapshot.Rows[i].User, true
}

// CanManage reports whether the actor may change users
func (c *ModelContext) CanManage() bool {
	return c.Snapshot.CanManage
}

// SearchQuery returns the active search query
func (c *ModelContext) SearchQuery() string {
	return c.Snapshot.Query
}

// Roles returns the grantable roles
func (c *ModelContext) Roles() []domain.Role {
	return c.AllRoles
}
