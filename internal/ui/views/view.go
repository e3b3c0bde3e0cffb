package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"usergrip/internal/domain"
	"usergrip/internal/ui/coordinator"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width    int
	Height   int
	Snapshot coordinator.Snapshot

	// InputMode is the name of the active input mode, "" for normal
	InputMode   string
	InputPrompt string
	TextInput   string
	ModalView   string

	StatusMessage string
	StatusLevel   domain.NotificationLevel

	ShowHelp  bool
	HelpView  string // full help
	ShortHelp string
	Spinner   string
	Paginator string
	Error     string // fatal bootstrap error
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	userRender  *UserRenderer
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		userRender:  NewUserRenderer(styles),
		popupRender: NewPopupRenderer(styles),
	}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	snap := state.Snapshot
	content := &strings.Builder{}

	content.WriteString(r.renderTitle(state))
	content.WriteString("\n")

	// One line for the search input, the active query or the delete prompt
	switch {
	case snap.Pending != nil:
		content.WriteString(r.styles.Confirm.Render(snap.Pending.Prompt + " (y/n)"))
	case state.InputMode == "search":
		content.WriteString(r.styles.Search.Render(state.InputPrompt) + state.TextInput)
	case snap.Query != "":
		content.WriteString(r.styles.Search.Render(fmt.Sprintf("[Search: %s] %d of %d", snap.Query, snap.MatchCount, len(snap.Page.Items))))
	}
	content.WriteString("\n")

	// Main content
	switch {
	case state.Error != "":
		content.WriteString(r.styles.StatusError.Render(state.Error))
	case snap.Loading && len(snap.Page.Items) == 0:
		content.WriteString(r.styles.Dim.Render("Loading users..."))
	case len(snap.Page.Items) == 0:
		content.WriteString(r.styles.Dim.Render("No users found."))
	case len(snap.Rows) == 0:
		content.WriteString(r.styles.Dim.Render("No users match the search."))
	default:
		content.WriteString(r.renderUserList(state))
	}

	// Push the footer to the bottom
	footer := r.renderFooter(state)
	currentLines := strings.Count(content.String(), "\n") + 1
	availableLines := state.Height - 2 // container padding
	if availableLines <= 0 {
		availableLines = 22
	}
	if padding := availableLines - currentLines - lipgloss.Height(footer); padding > 0 {
		content.WriteString(strings.Repeat("\n", padding))
	}
	content.WriteString("\n")
	content.WriteString(footer)

	mainStyle := r.styles.Main.MaxHeight(state.Height)
	finalContent := mainStyle.Render(content.String())

	// Overlay popups on top of main content
	if state.ModalView != "" {
		return r.popupRender.RenderPopupOverlay(finalContent, state.ModalView, state.Height, state.Width, r.styles.Popup)
	}
	if state.ShowHelp && state.HelpView != "" {
		return r.popupRender.RenderPopupOverlay(finalContent, state.HelpView, state.Height, state.Width, r.styles.HelpBox)
	}
	return finalContent
}

// renderTitle renders the logo with right-aligned indicators
func (r *Renderer) renderTitle(state ViewState) string {
	snap := state.Snapshot
	logo := r.styles.Title.Render("usergrip")
	if snap.Actor != "" {
		logo += r.styles.Dim.Render(fmt.Sprintf("  signed in as %s", snap.Actor))
		if !snap.CanManage {
			logo += r.styles.Dim.Render(" (read only)")
		}
	}

	var indicators []string
	if snap.Loading {
		indicators = append(indicators, fmt.Sprintf("%s Loading", state.Spinner))
	}
	if snap.PollArmed {
		indicators = append(indicators, "⟳ Waiting for deletion")
	}
	if len(indicators) == 0 {
		return logo
	}

	right := r.styles.StatusLoading.Render(strings.Join(indicators, " | "))
	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	padding := termWidth - 4 - lipgloss.Width(logo) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + right
}

// renderUserList renders the header and the rows inside the viewport
func (r *Renderer) renderUserList(state ViewState) string {
	snap := state.Snapshot
	lines := []string{r.userRender.RenderHeader(snap.CanManage, snap.SelectedAll, state.Width)}

	effectiveHeight := snap.ViewportHeight
	needsTopIndicator := snap.ViewportOffset > 0
	needsBottomIndicator := len(snap.Rows) > snap.ViewportOffset+snap.ViewportHeight
	if needsTopIndicator {
		effectiveHeight--
	}
	if needsBottomIndicator {
		effectiveHeight--
	}
	if effectiveHeight < 1 {
		effectiveHeight = 1
	}

	if needsTopIndicator {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↑ %d more above ↑", snap.ViewportOffset)))
	}

	start := snap.ViewportOffset
	end := start + effectiveHeight
	if end > len(snap.Rows) {
		end = len(snap.Rows)
	}
	for i := start; i < end; i++ {
		lines = append(lines, r.userRender.RenderUser(snap.Rows[i], i == snap.Cursor, snap.CanManage, snap.Actor, snap.Query, state.Width))
	}

	if needsBottomIndicator {
		itemsBelow := len(snap.Rows) - end
		if itemsBelow < 0 {
			itemsBelow = 0
		}
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more below ↓", itemsBelow)))
	}

	return strings.Join(lines, "\n")
}

// renderFooter renders the status line, pagination and the short help
func (r *Renderer) renderFooter(state ViewState) string {
	snap := state.Snapshot

	status := ""
	if state.StatusMessage != "" {
		style := r.styles.StatusInfo
		switch state.StatusLevel {
		case domain.LevelError:
			style = r.styles.StatusError
		case domain.LevelSuccess:
			style = r.styles.StatusSuccess
		}
		status = style.Render(state.StatusMessage)
	}

	parts := []string{}
	if state.Paginator != "" {
		parts = append(parts, "page "+state.Paginator)
	}
	parts = append(parts,
		fmt.Sprintf("%d per page", snap.PageSize),
		fmt.Sprintf("%d users", snap.Page.Total),
	)
	if snap.SelectedCount > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", snap.SelectedCount))
	}
	pagination := r.styles.Dim.Render(strings.Join(parts, " • "))

	return strings.Join([]string{status, pagination, r.styles.Help.Render(state.ShortHelp)}, "\n")
}
