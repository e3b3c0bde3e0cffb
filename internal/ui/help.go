package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"

	"usergrip/internal/ui/input/modes"
)

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}

// helpSections names the groups of KeyMap.FullHelp in order
var helpSections = []string{"Navigation", "Pages & Search", "Selection", "Users", "Other"}

// searchExamples documents the query syntax
var searchExamples = [][2]string{
	{"ann", "fuzzy match"},
	{"=bob", "exact match"},
	{"'ali", "contains"},
	{"^a", "starts with"},
	{".com$", "ends with"},
	{"!guest", "does not contain"},
	{"a b", "both terms"},
	{"a | b", "either term"},
}

// HelpRenderer handles help content rendering
type HelpRenderer struct {
	keys *modes.KeyMap
}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer(keys *modes.KeyMap) *HelpRenderer {
	return &HelpRenderer{keys: keys}
}

// RenderHelpContent renders the full help. Disabled bindings are left out.
func (r *HelpRenderer) RenderHelpContent() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder

	help.WriteString(titleStyle.Render("usergrip Help"))
	help.WriteString("\n")

	for i, group := range r.keys.FullHelp() {
		var lines []string
		for _, b := range group {
			if !b.Enabled() {
				continue
			}
			h := b.Help()
			lines = append(lines, fmt.Sprintf("  %s %s", keyStyle.Render(h.Key), descStyle.Render(h.Desc)))
		}
		if len(lines) == 0 {
			continue
		}
		title := "Other"
		if i < len(helpSections) {
			title = helpSections[i]
		}
		help.WriteString(sectionStyle.Render(title))
		help.WriteString("\n")
		help.WriteString(strings.Join(lines, "\n"))
		help.WriteString("\n")
	}

	help.WriteString(sectionStyle.Render("Search syntax"))
	help.WriteString("\n")
	for _, ex := range searchExamples {
		help.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(ex[0]), descStyle.Render(ex[1])))
	}

	return strings.TrimRight(help.String(), "\n")
}

// HelpOps handles help operations
type HelpOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewHelpOps creates a new help operations instance
func NewHelpOps(program *tea.Program) *HelpOps {
	return &HelpOps{
		program: program,
	}
}

// ShowHelpInPager shows help content using ov pager
func (h *HelpOps) ShowHelpInPager(helpContent string) error {
	if h == nil || h.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := h.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = h.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(helpContent))
	if err != nil {
		return err
	}

	// Don't write the content back to our screen on exit
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	configureVimKeyBindings(&config)
	root.SetConfig(config)

	return root.Run()
}

// configureVimKeyBindings adds j/k/g/G on top of ov's defaults
func configureVimKeyBindings(config *oviewer.Config) {
	if config.Keybind == nil {
		config.Keybind = make(map[string][]string)
	}
	config.Keybind["down"] = []string{"Enter", "Down", "ctrl+n", "j"}
	config.Keybind["up"] = []string{"Up", "ctrl+p", "k"}
	config.Keybind["top"] = []string{"Home", "g"}
	config.Keybind["bottom"] = []string{"End", "G"}
	config.Keybind["exit"] = []string{"Escape", "q", "?"}
}
