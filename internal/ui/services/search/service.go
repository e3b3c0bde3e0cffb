package search

import (
	"log"

	"usergrip/internal/domain"
	"usergrip/internal/search"
)

// Service owns the fuzzy index over the current page and the active query.
// It is not safe for concurrent use; the coordinator serializes access.
type Service struct {
	state *State
	index *search.Index
	users []domain.User
}

// NewService creates a search service without an index
func NewService() *Service {
	return &Service{
		state: &State{},
	}
}

// Rebuild destroys the index and builds a new one over users
func (s *Service) Rebuild(users []domain.User) {
	s.users = append([]domain.User(nil), users...)
	s.index = search.NewIndex(s.users)
	s.performSearch()
}

// Drop destroys the index; searches return the page unfiltered until the next Rebuild
func (s *Service) Drop() {
	s.index = nil
	s.users = nil
	s.state.Matches = nil
}

// SetQuery sets the active query and recomputes the matches
func (s *Service) SetQuery(query string) {
	if query == s.state.Query {
		return
	}
	s.state.Query = query
	s.performSearch()
}

// Clear removes the active query
func (s *Service) Clear() {
	s.SetQuery("")
}

// Query returns the active query
func (s *Service) Query() string {
	return s.state.Query
}

// MatchCount returns the number of users matching the active query
func (s *Service) MatchCount() int {
	return len(s.state.Matches)
}

// Results returns the users matching the active query
func (s *Service) Results() []domain.User {
	if s.index == nil {
		return append([]domain.User(nil), s.users...)
	}
	out := make([]domain.User, 0, len(s.state.Matches))
	for _, i := range s.state.Matches {
		out = append(out, s.users[i])
	}
	return out
}

// Search runs keyword against the index without touching the active query.
// With no keyword or no index the indexed page is returned in its original order.
func (s *Service) Search(keyword string) []domain.User {
	if keyword == "" || s.index == nil {
		return append([]domain.User(nil), s.users...)
	}
	positions := s.index.Search(keyword)
	out := make([]domain.User, 0, len(positions))
	for _, i := range positions {
		out = append(out, s.users[i])
	}
	return out
}

func (s *Service) performSearch() {
	if s.index == nil {
		s.state.Matches = nil
		return
	}
	s.state.Matches = s.index.Search(s.state.Query)
	if s.state.Query != "" {
		log.Printf("Search completed for '%s': found %d matches", s.state.Query, len(s.state.Matches))
	}
}
