package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the browse-mode bindings. It implements help.KeyMap.
type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Search     key.Binding
	Category   key.Binding
	Sort       key.Binding
	RatingUp   key.Binding
	RatingDown key.Binding
	Title      key.Binding
	Facets     key.Binding
	Clear      key.Binding
	More       key.Binding
	View       key.Binding
	Quick      key.Binding
	Debug      key.Binding
	Help       key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Left:       key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/h", "left")),
		Right:      key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→/l", "right")),
		Top:        key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:     key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Category:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "category")),
		Sort:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		RatingUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "min rating")),
		RatingDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "lower min rating")),
		Title:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "title filter")),
		Facets:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "facets")),
		Clear:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
		More:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "load more")),
		View:       key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "list/grid")),
		Quick:      key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "quick search")),
		Debug:      key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "debug")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Category, k.Sort, k.Facets, k.More, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Top, k.Bottom},
		{k.Search, k.Category, k.Quick, k.More},
		{k.Sort, k.RatingUp, k.Title, k.Facets, k.Clear},
		{k.View, k.Debug, k.Help, k.Quit},
	}
}

// panelKeys are the bindings active while the facet panel has focus.
type panelKeys struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Clear  key.Binding
	Close  key.Binding
}

func defaultPanelKeys() panelKeys {
	return panelKeys{
		Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Toggle: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle")),
		Clear:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Close:  key.NewBinding(key.WithKeys("esc", "f"), key.WithHelp("esc", "close")),
	}
}

// ShortHelp implements help.KeyMap.
func (k panelKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Clear, k.Close}
}

// FullHelp implements help.KeyMap.
func (k panelKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
