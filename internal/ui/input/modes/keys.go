package modes

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings of normal mode. Bindings that change users are
// disabled for actors without the manage permission, which also hides them
// from help.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Top       key.Binding
	Bottom    key.Binding
	NextPage  key.Binding
	PrevPage  key.Binding
	PageSize  key.Binding
	Refresh   key.Binding
	Search    key.Binding
	Toggle    key.Binding
	ToggleAll key.Binding
	Clear     key.Binding
	Delete    key.Binding
	Create    key.Binding
	Edit      key.Binding
	Password  key.Binding
	Roles     key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the bindings with every management key enabled
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:    key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "scroll up")),
		PageDown:  key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "scroll down")),
		Top:       key.NewBinding(key.WithKeys("home"), key.WithHelp("gg/home", "top")),
		Bottom:    key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G/end", "bottom")),
		NextPage:  key.NewBinding(key.WithKeys("right", "l", "]"), key.WithHelp("→/l", "next page")),
		PrevPage:  key.NewBinding(key.WithKeys("left", "h", "["), key.WithHelp("←/h", "previous page")),
		PageSize:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "page size")),
		Refresh:   key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "refresh")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		ToggleAll: key.NewBinding(key.WithKeys("a", "A"), key.WithHelp("a", "select all")),
		Clear:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		Delete:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Create:    key.NewBinding(key.WithKeys("c", "n"), key.WithHelp("c", "new user")),
		Edit:      key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Password:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "password")),
		Roles:     key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "roles")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// SetCanManage enables or disables every binding that changes users
func (k *KeyMap) SetCanManage(ok bool) {
	for _, b := range k.managed() {
		b.SetEnabled(ok)
	}
}

func (k *KeyMap) managed() []*key.Binding {
	return []*key.Binding{&k.Toggle, &k.ToggleAll, &k.Clear, &k.Delete, &k.Create, &k.Edit, &k.Password, &k.Roles}
}

// ShortHelp implements help.KeyMap
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Toggle, k.Delete, k.Create, k.NextPage, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.NextPage, k.PrevPage, k.PageSize, k.Refresh, k.Search},
		{k.Toggle, k.ToggleAll, k.Clear, k.Delete},
		{k.Create, k.Edit, k.Password, k.Roles},
		{k.Help, k.Quit},
	}
}
