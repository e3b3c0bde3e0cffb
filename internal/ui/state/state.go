package state

import (
	"usergrip/internal/domain"
)

// AppState contains the terminal-only state of the UI. Everything about
// users, pages and selection lives in the coordinator.
type AppState struct {
	// Status bar
	StatusMessage string
	StatusLevel   domain.NotificationLevel
	statusID      int

	// Popups
	ShowHelp    bool
	InPagerMode bool // an external pager owns the terminal

	// Fatal error shown instead of the list, e.g. an unreachable server
	Error string

	// Bootstrapped is set once the actor has been loaded
	Bootstrapped bool
}

// NewAppState creates a new application state
func NewAppState() *AppState {
	return &AppState{}
}

// SetStatus shows message and returns an id that ClearStatus must match
func (s *AppState) SetStatus(level domain.NotificationLevel, message string) int {
	s.statusID++
	s.StatusLevel = level
	s.StatusMessage = message
	return s.statusID
}

// ClearStatus removes the status message unless a newer one replaced it
func (s *AppState) ClearStatus(id int) bool {
	if id != s.statusID {
		return false
	}
	s.StatusMessage = ""
	s.StatusLevel = domain.LevelInfo
	return true
}
