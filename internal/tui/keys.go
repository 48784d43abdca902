package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines key bindings used across the TUI.
type KeyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Quit     key.Binding

	// Analyzer
	OpenPicker   key.Binding
	ClosePicker  key.Binding
	FastAnalysis key.Binding
	DeepAnalysis key.Binding

	// Chat
	Send      key.Binding
	ResetChat key.Binding
}

// DefaultKeyMap provides the default key bindings for the TUI.
var DefaultKeyMap = KeyMap{
	Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
	ShiftTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "sair")),

	OpenPicker:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "abrir imagem")),
	ClosePicker:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancelar")),
	FastAnalysis: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "análise rápida")),
	DeepAnalysis: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "análise aprofundada (pro)")),

	Send:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "enviar")),
	ResetChat: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "nova conversa")),
}
