package selection

import (
	"usergrip/internal/domain"
	"usergrip/internal/ui/services/events"
)

// Service tracks the checked users of the current page and the single
// active user targeted by edit, password and role actions.
type Service struct {
	state *State
	bus   events.EventBus
}

// NewService creates a new selection service
func NewService(bus events.EventBus) *Service {
	return &Service{
		state: &State{
			Names:       make(map[string]bool),
			SelectedAll: true,
		},
		bus: bus,
	}
}

// Reconcile makes names the current page and drops every checked name not on it
func (s *Service) Reconcile(names []string) {
	s.state.Page = append([]string(nil), names...)

	onPage := make(map[string]bool, len(names))
	for _, n := range names {
		onPage[n] = true
	}

	var removed []string
	for n := range s.state.Names {
		if !onPage[n] {
			delete(s.state.Names, n)
			removed = append(removed, n)
		}
	}
	s.recompute()

	if len(removed) > 0 {
		s.bus.Publish(SelectionChangedEvent{
			Removed: removed,
			Total:   len(s.state.Names),
		})
	}
}

// ToggleAll checks every user of the current page, or none
func (s *Service) ToggleAll(checked bool) {
	s.state.Names = make(map[string]bool)
	if !checked {
		s.recompute()
		s.bus.Publish(SelectionClearedEvent{})
		return
	}

	for _, n := range s.state.Page {
		s.state.Names[n] = true
	}
	s.recompute()
	s.bus.Publish(AllSelectedEvent{Names: append([]string(nil), s.state.Page...)})
}

// Toggle flips the checkbox of one user of the current page
func (s *Service) Toggle(name string) {
	if !s.onPage(name) {
		return
	}

	var added, removed []string
	if s.state.Names[name] {
		delete(s.state.Names, name)
		removed = append(removed, name)
	} else {
		s.state.Names[name] = true
		added = append(added, name)
	}
	s.recompute()

	s.bus.Publish(SelectionChangedEvent{
		Added:   added,
		Removed: removed,
		Total:   len(s.state.Names),
	})
}

// Clear unchecks everything
func (s *Service) Clear() {
	if len(s.state.Names) == 0 {
		return
	}
	s.ToggleAll(false)
}

// IsSelected reports whether u renders as selected: it is checked or active
func (s *Service) IsSelected(u domain.User) bool {
	if s.state.Active != nil && s.state.Active.Name() == u.Name() {
		return true
	}
	return s.state.Names[u.Name()]
}

// IsChecked reports whether name is in the bulk selection
func (s *Service) IsChecked(name string) bool {
	return s.state.Names[name]
}

// SetActive records the target of a non-bulk action. The bulk selection is untouched.
func (s *Service) SetActive(u domain.User) {
	s.state.Active = &u
}

// ClearActive forgets the active user
func (s *Service) ClearActive() {
	s.state.Active = nil
}

// Active returns the active user, if any
func (s *Service) Active() (domain.User, bool) {
	if s.state.Active == nil {
		return domain.User{}, false
	}
	return *s.state.Active, true
}

// Selected returns the checked names in page order
func (s *Service) Selected() []string {
	selected := []string{}
	for _, n := range s.state.Page {
		if s.state.Names[n] {
			selected = append(selected, n)
		}
	}
	return selected
}

// SelectedAll reports whether every user of the page is checked
func (s *Service) SelectedAll() bool {
	return s.state.SelectedAll
}

// Count returns the number of checked users
func (s *Service) Count() int {
	return len(s.state.Names)
}

// HasSelection returns true if anything is checked
func (s *Service) HasSelection() bool {
	return len(s.state.Names) > 0
}

func (s *Service) onPage(name string) bool {
	for _, n := range s.state.Page {
		if n == name {
			return true
		}
	}
	return false
}

func (s *Service) recompute() {
	s.state.SelectedAll = len(s.state.Names) == len(s.state.Page)
}
