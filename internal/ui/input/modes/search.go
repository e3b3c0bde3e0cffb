package modes

import (
	"github.com/charmbracelet/bubbles/textinput"

	"usergrip/internal/ui/input/types"
)

// SearchMode filters the shown page while typing
type SearchMode struct {
	TextInputMode
}

func NewSearchMode(ti *textinput.Model) *SearchMode {
	return &SearchMode{
		TextInputMode: NewTextInputMode(types.ModeSearch, "search", "Search: ", ti),
	}
}
