package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit     key.Binding
	Back     key.Binding
	Logout   key.Binding
	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Refresh  key.Binding
	Create   key.Binding
	Comment  key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Remove   key.Binding
	Login    key.Binding
	Register key.Binding
	Feed     key.Binding
	Next     key.Binding
	Prev     key.Binding
	Submit   key.Binding
	Yes      key.Binding
	No       key.Binding
}

var keys = keyMap{
	Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Logout:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "logout")),
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	PrevPage: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev page")),
	NextPage: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Create:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new post")),
	Comment:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "comment")),
	Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit comment")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete comment")),
	Remove:   key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete post")),
	Login:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "login")),
	Register: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "register")),
	Feed:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "feed")),
	Next:     key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	Prev:     key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
	Submit:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
	Yes:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
	No:       key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "cancel")),
}
