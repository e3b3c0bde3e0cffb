package selection

import "usergrip/internal/domain"

// State holds selection state
type State struct {
	Names       map[string]bool // checked user names, always a subset of Page
	Page        []string        // names of the current page in page order
	SelectedAll bool
	Active      *domain.User // target of a non-bulk action
}

// Event types
type SelectionChangedEvent struct {
	Added   []string
	Removed []string
	Total   int
}

type SelectionClearedEvent struct{}

type AllSelectedEvent struct {
	Names []string
}
