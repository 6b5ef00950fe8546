package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up        key.Binding
	down      key.Binding
	left      key.Binding
	right     key.Binding
	moveUp    key.Binding
	moveDown  key.Binding
	moveLeft  key.Binding
	moveRight key.Binding
	enter     key.Binding
	esc       key.Binding
	quit      key.Binding
	addCard   key.Binding
	addList   key.Binding
	edit      key.Binding
	delete    key.Binding
	sync      key.Binding
	copy      key.Binding
	info      key.Binding
	yes       key.Binding
	no        key.Binding

	keepLocal  key.Binding
	keepRemote key.Binding
}

var keys = keyMap{
	up:        key.NewBinding(key.WithKeys("up", "k")),
	down:      key.NewBinding(key.WithKeys("down", "j")),
	left:      key.NewBinding(key.WithKeys("left", "h")),
	right:     key.NewBinding(key.WithKeys("right", "l")),
	moveUp:    key.NewBinding(key.WithKeys("shift+up", "K")),
	moveDown:  key.NewBinding(key.WithKeys("shift+down", "J")),
	moveLeft:  key.NewBinding(key.WithKeys("shift+left", "H")),
	moveRight: key.NewBinding(key.WithKeys("shift+right", "L")),
	enter:     key.NewBinding(key.WithKeys("enter")),
	esc:       key.NewBinding(key.WithKeys("esc")),
	quit:      key.NewBinding(key.WithKeys("q", "ctrl+c")),
	addCard:   key.NewBinding(key.WithKeys("a")),
	addList:   key.NewBinding(key.WithKeys("A")),
	edit:      key.NewBinding(key.WithKeys("e")),
	delete:    key.NewBinding(key.WithKeys("d")),
	sync:      key.NewBinding(key.WithKeys("s")),
	copy:      key.NewBinding(key.WithKeys("c")),
	info:      key.NewBinding(key.WithKeys("v")),
	yes:       key.NewBinding(key.WithKeys("y")),
	no:        key.NewBinding(key.WithKeys("n", "esc")),

	keepLocal:  key.NewBinding(key.WithKeys("l")),
	keepRemote: key.NewBinding(key.WithKeys("r")),
}
