package search

// State holds search state
type State struct {
	Query   string
	Matches []int // positions in the current page, best match first
}
