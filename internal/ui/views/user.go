package views

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"usergrip/internal/search"
	"usergrip/internal/ui/coordinator"
)

// column widths, the email column takes what is left
const (
	checkWidth   = 4
	nameWidth    = 18
	displayWidth = 20
	rolesWidth   = 24
	createdWidth = 16
	minEmail     = 12
)

// UserRenderer handles rendering of user rows
type UserRenderer struct {
	styles *Styles
}

// NewUserRenderer creates a new user renderer
func NewUserRenderer(styles *Styles) *UserRenderer {
	return &UserRenderer{styles: styles}
}

func emailWidth(width int) int {
	w := width - 4 - checkWidth - nameWidth - displayWidth - rolesWidth - createdWidth
	if w < minEmail {
		return minEmail
	}
	return w
}

// RenderHeader renders the column titles
func (r *UserRenderer) RenderHeader(showCheckbox, allChecked bool, width int) string {
	var parts []string
	if showCheckbox {
		box := "[ ]"
		if allChecked {
			box = "[x]"
		}
		parts = append(parts, cell(box, checkWidth))
	}
	parts = append(parts,
		cell("USERNAME", nameWidth),
		cell("DISPLAY NAME", displayWidth),
		cell("EMAIL", emailWidth(width)),
		cell("ROLES", rolesWidth),
		cell("CREATED", createdWidth),
	)
	return r.styles.Header.Render(strings.Join(parts, ""))
}

// RenderUser renders one user row
func (r *UserRenderer) RenderUser(row coordinator.Row, isCursor, showCheckbox bool, actor, query string, width int) string {
	u := row.User

	base := lipgloss.NewStyle()
	if isCursor || row.Selected {
		base = base.Inherit(r.styles.SelectionBg)
	}
	if u.PendingDeletion() {
		base = base.Inherit(r.styles.Pending)
	}

	var parts []string
	if showCheckbox {
		box := "[ ]"
		if row.Checked {
			box = "[x]"
		}
		parts = append(parts, base.Render(cell(box, checkWidth)))
	}

	name := u.Name()
	if name == actor {
		name += " (you)"
	}
	parts = append(parts, r.highlight(cell(name, nameWidth), query, base))
	parts = append(parts, r.highlight(cell(u.Spec.DisplayName, displayWidth), query, base))
	parts = append(parts, r.highlight(cell(u.Spec.Email, emailWidth(width)), query, base))
	parts = append(parts, r.renderRoles(row, base))

	created := ""
	if u.PendingDeletion() {
		created = "deleting…"
	} else if ts := u.Metadata.CreationTimestamp; ts != nil {
		created = ts.Local().Format("2006-01-02 15:04")
	}
	parts = append(parts, base.Render(cell(created, createdWidth)))

	return strings.Join(parts, "")
}

// renderRoles shows the role names, or a marker when the annotation is broken
func (r *UserRenderer) renderRoles(row coordinator.Row, base lipgloss.Style) string {
	if row.RoleErr != nil {
		return base.Inherit(r.styles.RoleError).Render(cell("⚠ invalid roles", rolesWidth))
	}
	if len(row.Roles) == 0 {
		return base.Inherit(r.styles.Dim).Render(cell("-", rolesWidth))
	}
	return base.Inherit(r.styles.RoleTag).Render(cell(strings.Join(row.Roles, ", "), rolesWidth))
}

// highlight marks the literal parts of the query inside text
func (r *UserRenderer) highlight(text, query string, normal lipgloss.Style) string {
	if query == "" {
		return normal.Render(text)
	}
	hl := normal.Inherit(r.styles.Highlight)
	for _, group := range search.Parse(query) {
		for _, term := range group {
			if term.Inverse || term.Text == "" {
				continue
			}
			i := strings.Index(strings.ToLower(text), strings.ToLower(term.Text))
			if end := i + len(term.Text); i >= 0 && end <= len(text) {
				return normal.Render(text[:i]) + hl.Render(text[i:end]) + normal.Render(text[end:])
			}
		}
	}
	return normal.Render(text)
}

// cell truncates s to width runes and pads it, leaving one column of spacing
func cell(s string, width int) string {
	limit := width - 1
	if utf8.RuneCountInString(s) > limit {
		runes := []rune(s)
		s = string(runes[:limit-1]) + "…"
	}
	return fmt.Sprintf("%-*s", width, s)
}
