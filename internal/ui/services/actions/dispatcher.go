// Package actions turns user intents into confirmations, remote calls and
// a refresh of the list.
package actions

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"usergrip/internal/domain"
	"usergrip/internal/eventbus"
	"usergrip/internal/logic"
	"usergrip/internal/ui/services/selection"
)

var (
	// ErrNothingPending is returned by Confirm when no action awaits confirmation
	ErrNothingPending = errors.New("no action awaiting confirmation")

	// ErrNothingSelected is returned when a bulk action has no targets
	ErrNothingSelected = errors.New("no users selected")

	// ErrPasswordMismatch is returned when the confirmation differs from the password
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrEmptyPassword is returned for a blank password
	ErrEmptyPassword = errors.New("password must not be empty")

	// ErrInvalidForm wraps user form validation failures
	ErrInvalidForm = errors.New("invalid user form")
)

// Refresher re-fetches the shown page
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Deps are the collaborators of the dispatcher. Lock guards Selection and
// the dispatcher state; it must not be held when calling into the dispatcher.
type Deps struct {
	API       logic.UserAPI
	List      Refresher
	Selection *selection.Service
	Bus       eventbus.EventBus
	Lock      sync.Locker
	// Actor returns the name of the authenticated user
	Actor func() string
}

// Dispatcher runs the actions of the user screen
type Dispatcher struct {
	Deps
	state *State
}

// NewDispatcher creates a dispatcher with no open modal and nothing pending
func NewDispatcher(deps Deps) *Dispatcher {
	return &Dispatcher{
		Deps:  deps,
		state: &State{},
	}
}

// Modal returns the open modal. Callers hold Lock.
func (d *Dispatcher) Modal() ModalKind {
	return d.state.Modal
}

// Pending returns the action awaiting confirmation, if any. Callers hold Lock.
func (d *Dispatcher) Pending() (Pending, bool) {
	if d.state.Pending == nil {
		return Pending{}, false
	}
	p := *d.state.Pending
	p.Names = append([]string(nil), p.Names...)
	return p, true
}

// RequestDeleteOne asks for confirmation before deleting u
func (d *Dispatcher) RequestDeleteOne(u domain.User) {
	d.request(&Pending{
		Kind:   PendingDeleteOne,
		Names:  []string{u.Name()},
		Prompt: fmt.Sprintf("Delete user %q? This cannot be undone.", displayName(u)),
	})
}

// RequestDeleteMany asks for confirmation before deleting every name
func (d *Dispatcher) RequestDeleteMany(names []string) error {
	if len(names) == 0 {
		return ErrNothingSelected
	}
	d.request(&Pending{
		Kind:   PendingDeleteMany,
		Names:  append([]string(nil), names...),
		Prompt: fmt.Sprintf("Delete %d selected users? This cannot be undone.", len(names)),
	})
	return nil
}

func (d *Dispatcher) request(p *Pending) {
	d.Lock.Lock()
	d.state.Pending = p
	d.Lock.Unlock()

	d.Bus.Publish(domain.ConfirmRequestedEvent{Prompt: p.Prompt})
	d.Bus.Publish(domain.StateChangedEvent{})
}

// Cancel drops the action awaiting confirmation
func (d *Dispatcher) Cancel() {
	d.Lock.Lock()
	d.state.Pending = nil
	d.Lock.Unlock()
	d.Bus.Publish(domain.StateChangedEvent{})
}

// Confirm runs the action awaiting confirmation
func (d *Dispatcher) Confirm(ctx context.Context) error {
	d.Lock.Lock()
	p := d.state.Pending
	d.state.Pending = nil
	d.Lock.Unlock()

	if p == nil {
		return ErrNothingPending
	}
	d.Bus.Publish(domain.StateChangedEvent{})

	switch p.Kind {
	case PendingDeleteOne:
		return d.deleteOne(ctx, p.Names[0])
	default:
		return d.deleteMany(ctx, p.Names)
	}
}

func (d *Dispatcher) deleteOne(ctx context.Context, name string) error {
	if name == d.Actor() {
		log.Printf("Refusing to delete the current user %s", name)
		d.notify(domain.LevelInfo, "You cannot delete yourself")
		return nil
	}

	err := d.API.DeleteUser(ctx, name)
	if err != nil {
		log.Printf("Failed to delete user %s: %v", name, err)
		d.notify(domain.LevelError, fmt.Sprintf("Failed to delete %s: %v", name, err))
	} else {
		log.Printf("Deleted user %s", name)
		d.notify(domain.LevelSuccess, fmt.Sprintf("Deleted %s", name))
	}
	d.Bus.Publish(domain.UserDeletedEvent{Name: name, Err: err})

	// refresh even after a failure so the list reflects the server
	d.refresh(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", name, err)
	}
	return nil
}

// deleteMany removes names concurrently, never the actor. Any failure fails
// the whole operation; which names failed is logged and carried on the event.
func (d *Dispatcher) deleteMany(ctx context.Context, names []string) error {
	actor := d.Actor()
	targets := make([]string, 0, len(names))
	for _, n := range names {
		if n == actor {
			log.Printf("Skipping bulk deletion of the current user %s", n)
			continue
		}
		targets = append(targets, n)
	}
	if len(targets) == 0 {
		d.notify(domain.LevelInfo, "Nothing to delete: you cannot delete yourself")
		return nil
	}

	var (
		g      errgroup.Group
		mu     sync.Mutex
		failed = make(map[string]error)
	)
	for _, name := range targets {
		g.Go(func() error {
			if err := d.API.DeleteUser(ctx, name); err != nil {
				mu.Lock()
				failed[name] = err
				mu.Unlock()
				log.Printf("Failed to delete user %s: %v", name, err)
				return err
			}
			return nil
		})
	}
	err := g.Wait()

	d.refresh(ctx)

	d.Lock.Lock()
	d.Selection.Clear()
	d.Lock.Unlock()

	d.Bus.Publish(domain.UsersDeletedEvent{Names: targets, Failed: failed})

	if err != nil {
		d.notify(domain.LevelError, fmt.Sprintf("Failed to delete users (%d of %d failed: %s)",
			len(failed), len(targets), strings.Join(failedNames(failed), ", ")))
		return fmt.Errorf("failed to delete users: %w", err)
	}
	d.notify(domain.LevelSuccess, fmt.Sprintf("Deleted %d users", len(targets)))
	return nil
}

// OpenCreate opens the create form
func (d *Dispatcher) OpenCreate() {
	d.Lock.Lock()
	d.Selection.ClearActive()
	d.state.Modal = ModalCreate
	d.Lock.Unlock()
	d.Bus.Publish(domain.StateChangedEvent{})
}

// OpenEdit opens the edit form for u
func (d *Dispatcher) OpenEdit(u domain.User) {
	d.open(ModalEdit, u)
}

// OpenPassword opens the password form for u
func (d *Dispatcher) OpenPassword(u domain.User) {
	d.open(ModalPassword, u)
}

// OpenRoles opens the role grant form for u
func (d *Dispatcher) OpenRoles(u domain.User) {
	d.open(ModalRoles, u)
}

func (d *Dispatcher) open(kind ModalKind, u domain.User) {
	d.Lock.Lock()
	d.Selection.SetActive(u)
	d.state.Modal = kind
	d.Lock.Unlock()
	d.Bus.Publish(domain.StateChangedEvent{})
}

// CloseModal closes the open form and forgets its target
func (d *Dispatcher) CloseModal() {
	d.Lock.Lock()
	d.state.Modal = ModalNone
	d.Selection.ClearActive()
	d.Lock.Unlock()
	d.Bus.Publish(domain.StateChangedEvent{})
}

// SaveUser creates or updates a user from form
func (d *Dispatcher) SaveUser(ctx context.Context, form UserForm) error {
	if err := form.Validate(); err != nil {
		return err
	}

	action := "update"
	if form.Create {
		action = "create"
		user := domain.User{
			Metadata: domain.Metadata{Name: form.Name},
			Spec: domain.UserSpec{
				DisplayName: form.DisplayName,
				Email:       form.Email,
				Phone:       form.Phone,
				Bio:         form.Bio,
				Password:    form.Password,
			},
		}
		if _, err := d.API.CreateUser(ctx, user); err != nil {
			return d.fail("create", form.Name, err)
		}
		if len(form.Roles) > 0 {
			if err := d.API.GrantRoles(ctx, form.Name, form.Roles); err != nil {
				// the user exists now, so the create form must not be resubmitted
				log.Printf("Created user %s but failed to grant roles: %v", form.Name, err)
				d.finish(ctx, form.Name, action, domain.LevelError,
					fmt.Sprintf("Created %s, but granting roles failed: %v", form.Name, err))
				return nil
			}
		}
	} else {
		// start from the server copy to keep its version and annotations
		user, err := d.API.GetUser(ctx, form.Name)
		if err != nil {
			return d.fail("update", form.Name, err)
		}
		user.Spec.DisplayName = form.DisplayName
		user.Spec.Email = form.Email
		user.Spec.Phone = form.Phone
		user.Spec.Bio = form.Bio
		if _, err := d.API.UpdateUser(ctx, user); err != nil {
			return d.fail("update", form.Name, err)
		}
	}

	return d.saved(ctx, form.Name, action, fmt.Sprintf("Saved %s", form.Name))
}

// ChangePassword sets a new password once it has been typed twice
func (d *Dispatcher) ChangePassword(ctx context.Context, name, password, confirm string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	if err := d.API.ChangePassword(ctx, name, password); err != nil {
		return d.fail("change the password of", name, err)
	}
	return d.saved(ctx, name, "password", fmt.Sprintf("Changed the password of %s", name))
}

// GrantRoles replaces the roles of name
func (d *Dispatcher) GrantRoles(ctx context.Context, name string, roles []string) error {
	if err := d.API.GrantRoles(ctx, name, roles); err != nil {
		return d.fail("grant roles to", name, err)
	}
	return d.saved(ctx, name, "roles", fmt.Sprintf("Updated the roles of %s", name))
}

func (d *Dispatcher) saved(ctx context.Context, name, action, message string) error {
	log.Printf("User %s: %s succeeded", name, action)
	d.finish(ctx, name, action, domain.LevelSuccess, message)
	return nil
}

// finish closes the modal and re-fetches once the server has the user
func (d *Dispatcher) finish(ctx context.Context, name, action string, level domain.NotificationLevel, message string) {
	d.notify(level, message)
	d.Bus.Publish(domain.UserSavedEvent{Name: name, Action: action})
	d.CloseModal()
	d.refresh(ctx)
}

func (d *Dispatcher) fail(verb, name string, err error) error {
	log.Printf("Failed to %s user %s: %v", verb, name, err)
	d.notify(domain.LevelError, fmt.Sprintf("Failed to %s %s: %v", verb, name, err))
	return fmt.Errorf("failed to %s user %s: %w", verb, name, err)
}

func (d *Dispatcher) refresh(ctx context.Context) {
	if err := d.List.Refresh(ctx); err != nil {
		log.Printf("Refresh after action failed: %v", err)
	}
}

func (d *Dispatcher) notify(level domain.NotificationLevel, message string) {
	d.Bus.Publish(domain.NotificationEvent{Level: level, Message: message})
}

func displayName(u domain.User) string {
	if u.Spec.DisplayName != "" {
		return u.Spec.DisplayName
	}
	return u.Name()
}

func failedNames(failed map[string]error) []string {
	names := make([]string, 0, len(failed))
	for n := range failed {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
