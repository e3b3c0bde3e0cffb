package coordinator

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"usergrip/internal/domain"
	"usergrip/internal/eventbus"
	"usergrip/internal/logic"
	"usergrip/internal/ui/services/actions"
	"usergrip/internal/ui/services/events"
	"usergrip/internal/ui/services/listing"
	"usergrip/internal/ui/services/navigation"
	"usergrip/internal/ui/services/poller"
	"usergrip/internal/ui/services/search"
	"usergrip/internal/ui/services/selection"
)

// Options configure a Coordinator
type Options struct {
	API          logic.UserAPI
	Bus          eventbus.EventBus
	PageSize     int
	PollInterval time.Duration
	PollOptions  []poller.Option
}

// Coordinator owns the state of the user screen and manages all UI
// services and their interactions. One mutex guards every service; remote
// calls are made without holding it.
type Coordinator struct {
	// Services
	Navigation *navigation.Service
	Selection  *selection.Service
	Search     *search.Service
	Listing    *listing.Service
	Actions    *actions.Dispatcher
	Poller     *poller.Poller

	mu    sync.Mutex
	bus   eventbus.EventBus
	uiBus events.EventBus
	api   logic.UserAPI
	store *logic.PageStore

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	actor       domain.User
	permissions domain.Permissions
	roles       []domain.Role
}

// New creates a coordinator with all services
func New(opts Options) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	uiBus := events.NewBus()

	c := &Coordinator{
		Navigation: navigation.NewService(uiBus),
		Selection:  selection.NewService(uiBus),
		Search:     search.NewService(),
		bus:        opts.Bus,
		uiBus:      uiBus,
		api:        opts.API,
		store:      logic.NewPageStore(opts.PageSize),
		ctx:        ctx,
		cancel:     cancel,
	}

	c.Poller = poller.New(opts.PollInterval, c.poll, opts.PollOptions...)
	c.Listing = listing.NewService(listing.Deps{
		API:       opts.API,
		Store:     c.store,
		Search:    c.Search,
		Selection: c.Selection,
		Poller:    c.Poller,
		Bus:       opts.Bus,
		Lock:      &c.mu,
	})
	c.Actions = actions.NewDispatcher(actions.Deps{
		API:       opts.API,
		List:      c.Listing,
		Selection: c.Selection,
		Bus:       opts.Bus,
		Lock:      &c.mu,
		Actor:     c.ActorName,
	})

	c.subscribeToEvents()
	return c
}

// subscribeToEvents sets up event handlers
func (c *Coordinator) subscribeToEvents() {
	c.uiBus.Subscribe(events.TypeOf(selection.SelectionChangedEvent{}), func(e interface{}) {
		changed := e.(selection.SelectionChangedEvent)
		if len(changed.Removed) > 0 {
			log.Printf("Selection: %d users left the page, %d still selected", len(changed.Removed), changed.Total)
		}
	})

	c.bus.Subscribe(eventbus.EventUsersFetched, func(eventbus.DomainEvent) {
		// malformed role annotations break their row; make them visible in the log
		for _, u := range c.store.Current().Items {
			if _, err := u.RoleNames(); err != nil {
				log.Printf("User %s: %v", u.Name(), err)
			}
		}
	})
}

// Bootstrap loads the actor, its permissions and the grantable roles
func (c *Coordinator) Bootstrap(ctx context.Context) error {
	actor, err := c.api.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to load current user: %w", err)
	}

	perms, err := c.api.Permissions(ctx, actor.Name())
	if err != nil {
		log.Printf("Failed to load permissions of %s: %v", actor.Name(), err)
	}

	roles, err := c.api.ListRoles(ctx)
	if err != nil {
		log.Printf("Failed to load roles: %v", err)
	}

	c.mu.Lock()
	c.actor = actor
	c.permissions = perms
	c.roles = roles
	c.mu.Unlock()

	log.Printf("Signed in as %s (manage users: %t)", actor.Name(), logic.CanManageUsers(perms))
	return nil
}

// Context is cancelled when the coordinator is closed
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// Close cancels the poller and every request started from Context
func (c *Coordinator) Close() {
	c.closeOnce.Do(func() {
		c.Poller.Close()
		c.cancel()
		c.mu.Lock()
		c.Search.Drop()
		c.mu.Unlock()
	})
}

func (c *Coordinator) poll() {
	_ = c.Listing.Fetch(c.ctx, listing.FetchOptions{Mute: true})
}

// ActorName returns the name of the authenticated user
func (c *Coordinator) ActorName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.actor.Name()
}

// CanManage reports whether the actor may change users
func (c *Coordinator) CanManage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return logic.CanManageUsers(c.permissions)
}

// Roles returns the roles that can be granted
func (c *Coordinator) Roles() []domain.Role {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Role(nil), c.roles...)
}

// Page returns the page currently shown
func (c *Coordinator) Page() domain.UserPage {
	return c.store.Current()
}

// SetQuery filters the shown page
func (c *Coordinator) SetQuery(query string) {
	c.mu.Lock()
	c.Search.SetQuery(query)
	c.Navigation.MoveToIndex(0)
	c.mu.Unlock()
	c.bus.Publish(domain.StateChangedEvent{})
}

// ToggleAll checks every user of the page unless all are checked already
func (c *Coordinator) ToggleAll() {
	c.mu.Lock()
	c.Selection.ToggleAll(!c.Selection.SelectedAll())
	c.mu.Unlock()
	c.bus.Publish(domain.StateChangedEvent{})
}

// ToggleCurrent flips the checkbox of the user under the cursor
func (c *Coordinator) ToggleCurrent() {
	c.mu.Lock()
	if u, ok := c.currentLocked(); ok {
		c.Selection.Toggle(u.Name())
	}
	c.mu.Unlock()
	c.bus.Publish(domain.StateChangedEvent{})
}

// ClearSelection unchecks every user
func (c *Coordinator) ClearSelection() {
	c.mu.Lock()
	c.Selection.Clear()
	c.mu.Unlock()
	c.bus.Publish(domain.StateChangedEvent{})
}

// Selected returns the checked names in page order
func (c *Coordinator) Selected() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Selection.Selected()
}

// Navigate moves the cursor
func (c *Coordinator) Navigate(direction navigation.Direction) {
	c.mu.Lock()
	c.visibleLocked()
	c.Navigation.Navigate(direction)
	c.mu.Unlock()
	c.bus.Publish(domain.StateChangedEvent{})
}

// SetViewportHeight updates viewport height across services
func (c *Coordinator) SetViewportHeight(height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Navigation.SetViewportHeight(height)
}

// Current returns the user under the cursor
func (c *Coordinator) Current() (domain.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentLocked()
}

func (c *Coordinator) currentLocked() (domain.User, bool) {
	rows := c.visibleLocked()
	cursor := c.Navigation.GetCursor()
	if cursor < 0 || cursor >= len(rows) {
		return domain.User{}, false
	}
	return rows[cursor], true
}

// visibleLocked returns the rows left by the search and keeps the cursor on them
func (c *Coordinator) visibleLocked() []domain.User {
	rows := c.Search.Results()
	c.Navigation.SetRowCount(len(rows))
	return rows
}
