package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	back     key.Binding
	search   key.Binding
	prev     key.Binding
	next     key.Binding
	refresh  key.Binding
	newBook  key.Binding
	edit     key.Binding
	del      key.Binding
	save     key.Binding
	login    key.Binding
	logout   key.Binding
	register key.Binding
	tab      key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		prev:     key.NewBinding(key.WithKeys("left", "["), key.WithHelp("←/[", "prev page")),
		next:     key.NewBinding(key.WithKeys("right", "]"), key.WithHelp("→/]", "next page")),
		refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		newBook:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new book")),
		edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		del:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		login:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "login")),
		logout:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
		register: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "register")),
		tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.search, k.prev, k.next, k.refresh},
		{k.newBook, k.edit, k.del, k.save},
		{k.login, k.logout, k.register, k.quit},
	}
}
