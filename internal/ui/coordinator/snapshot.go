package coordinator

import (
	"usergrip/internal/domain"
	"usergrip/internal/logic"
	"usergrip/internal/ui/services/actions"
)

// Row is one rendered user
type Row struct {
	User     domain.User
	Checked  bool
	Selected bool // checked or the target of the open form
	Roles    []string
	RoleErr  error
}

// Snapshot is a consistent copy of everything the views render
type Snapshot struct {
	Rows           []Row
	Cursor         int
	ViewportOffset int
	ViewportHeight int

	Page     domain.UserPage
	PageNum  int
	PageSize int

	Query      string
	MatchCount int

	SelectedAll   bool
	SelectedCount int
	Selected      []string // checked names in page order, hidden rows included

	Loading   bool
	PollArmed bool

	Modal   actions.ModalKind
	Active  *domain.User
	Pending *actions.Pending

	Actor     string
	CanManage bool
}

// Snapshot copies the current state under the lock
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	users := c.visibleLocked()
	rows := make([]Row, 0, len(users))
	for _, u := range users {
		roles, err := u.RoleNames()
		rows = append(rows, Row{
			User:     u,
			Checked:  c.Selection.IsChecked(u.Name()),
			Selected: c.Selection.IsSelected(u),
			Roles:    roles,
			RoleErr:  err,
		})
	}

	pageNum, size := c.store.Position()
	snap := Snapshot{
		Rows:           rows,
		Cursor:         c.Navigation.GetCursor(),
		ViewportOffset: c.Navigation.GetViewportOffset(),
		ViewportHeight: c.Navigation.GetViewportHeight(),
		Page:           c.store.Current(),
		PageNum:        pageNum,
		PageSize:       size,
		Query:          c.Search.Query(),
		MatchCount:     c.Search.MatchCount(),
		SelectedAll:    c.Selection.SelectedAll(),
		SelectedCount:  c.Selection.Count(),
		Selected:       c.Selection.Selected(),
		Loading:        c.Listing.Loading(),
		PollArmed:      c.Poller.Armed(),
		Modal:          c.Actions.Modal(),
		Actor:          c.actor.Name(),
		CanManage:      logic.CanManageUsers(c.permissions),
	}
	if u, ok := c.Selection.Active(); ok {
		snap.Active = &u
	}
	if p, ok := c.Actions.Pending(); ok {
		snap.Pending = &p
	}
	return snap
}
