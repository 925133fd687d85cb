// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program for the player and server
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// NewModel creates a new TUI model
func NewModel(title, backend string, ctrl Controller) Model {
	m := Model{
		title:   title,
		backend: backend,
		ctrl:    ctrl,
	}
	m.refresh()
	return m
}

// New creates the bubbletea program. The caller runs it.
func New(title, backend string, ctrl Controller) *tea.Program {
	return tea.NewProgram(NewModel(title, backend, ctrl), tea.WithAltScreen())
}
