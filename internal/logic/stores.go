package logic

import (
	"sync"

	"usergrip/internal/domain"
)

// PageStore holds the page currently shown. The page is only ever
// replaced wholesale, never patched.
type PageStore struct {
	mu   sync.RWMutex
	page domain.UserPage
	// requested position, which may differ from page.Page until the next fetch lands
	pageNum int
	size    int
}

// NewPageStore creates an empty store positioned at page 1
func NewPageStore(size int) *PageStore {
	if !domain.ValidPageSize(size) {
		size = domain.DefaultPageSize
	}
	return &PageStore{
		page:    domain.NewUserPage(1, size, 0, nil),
		pageNum: 1,
		size:    size,
	}
}

// Current returns a copy of the stored page
func (s *PageStore) Current() domain.UserPage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.page
	p.Items = append([]domain.User(nil), s.page.Items...)
	return p
}

// Replace swaps in a freshly fetched page
func (s *PageStore) Replace(page domain.UserPage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = page
}

// Position returns the requested page number and size
func (s *PageStore) Position() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pageNum, s.size
}

// SetPosition records the page number and size the next fetch should request
func (s *PageStore) SetPosition(page, size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page < 1 {
		page = 1
	}
	if domain.ValidPageSize(size) {
		s.size = size
	}
	s.pageNum = page
}
