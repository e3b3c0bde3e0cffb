// Package listing keeps the shown page of users in sync with the server.
package listing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"usergrip/internal/domain"
	"usergrip/internal/eventbus"
	"usergrip/internal/logic"
	"usergrip/internal/ui/services/search"
	"usergrip/internal/ui/services/selection"
)

// ErrPageOverflow is returned when the server sends more items than requested
var ErrPageOverflow = errors.New("page holds more items than its size")

// ErrInvalidPageSize is returned for sizes outside domain.PageSizes
var ErrInvalidPageSize = errors.New("invalid page size")

// FetchOptions tune a single fetch
type FetchOptions struct {
	// Mute skips the loading indicator and keeps failures out of the UI
	Mute bool
}

// Poller is the part of the deletion poller the service drives
type Poller interface {
	Arm() bool
	Cancel()
}

// Deps are the collaborators of the service. Lock guards Search, Selection
// and the loading flag; it must not be held when calling into the service.
type Deps struct {
	API       logic.UserAPI
	Store     *logic.PageStore
	Search    *search.Service
	Selection *selection.Service
	Poller    Poller
	Bus       eventbus.EventBus
	Lock      sync.Locker
}

// Service fetches pages and applies them to the page store, the search
// index and the selection in one step
type Service struct {
	Deps
	loading bool
}

// NewService creates a listing service
func NewService(deps Deps) *Service {
	return &Service{Deps: deps}
}

// Loading reports whether a visible fetch is in flight. Callers hold Lock.
func (s *Service) Loading() bool {
	return s.loading
}

// Fetch loads the stored page position from the server
func (s *Service) Fetch(ctx context.Context, opts FetchOptions) error {
	s.Poller.Cancel()

	page, size := s.Store.Position()
	if !opts.Mute {
		s.Lock.Lock()
		s.loading = true
		s.Lock.Unlock()
		s.Bus.Publish(domain.StateChangedEvent{})
	}

	defer func() {
		s.Lock.Lock()
		s.loading = false
		s.Selection.ClearActive()
		s.Lock.Unlock()
		s.Bus.Publish(domain.StateChangedEvent{})
	}()

	result, err := s.API.ListUsers(ctx, page, size)
	if err == nil && len(result.Items) > size {
		err = fmt.Errorf("%w: got %d items for size %d", ErrPageOverflow, len(result.Items), size)
	}
	if err != nil {
		log.Printf("Failed to fetch users (page %d, size %d): %v", page, size, err)
		s.Bus.Publish(domain.FetchFailedEvent{Err: err, Muted: opts.Mute})
		return fmt.Errorf("failed to fetch users: %w", err)
	}

	pending := result.PendingDeletions()

	s.Lock.Lock()
	s.Store.Replace(result)
	s.Search.Rebuild(result.Items)
	s.Selection.Reconcile(result.Names())
	s.Lock.Unlock()

	if pending > 0 && s.Poller.Arm() {
		s.Bus.Publish(domain.PollScheduledEvent{Pending: pending})
	}

	s.Bus.Publish(domain.UsersFetchedEvent{
		Page:    result.Page,
		Size:    size,
		Count:   len(result.Items),
		Pending: pending,
		Muted:   opts.Mute,
	})
	return nil
}

// Refresh re-fetches the current position with the loading indicator
func (s *Service) Refresh(ctx context.Context) error {
	return s.Fetch(ctx, FetchOptions{})
}

// ChangePage stores a new position and fetches it once
func (s *Service) ChangePage(ctx context.Context, page, size int) error {
	s.Store.SetPosition(page, size)
	return s.Fetch(ctx, FetchOptions{})
}

// SetPageSize switches to size, starting over at the first page
func (s *Service) SetPageSize(ctx context.Context, size int) error {
	if !domain.ValidPageSize(size) {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, size)
	}
	return s.ChangePage(ctx, 1, size)
}

// Next moves to the following page when there is one
func (s *Service) Next(ctx context.Context) error {
	cur := s.Store.Current()
	if !cur.HasNext {
		return nil
	}
	page, size := s.Store.Position()
	return s.ChangePage(ctx, page+1, size)
}

// Previous moves to the preceding page when there is one
func (s *Service) Previous(ctx context.Context) error {
	cur := s.Store.Current()
	if !cur.HasPrevious {
		return nil
	}
	page, size := s.Store.Position()
	return s.ChangePage(ctx, page-1, size)
}
