package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// confirmation is the text and wording of one prompt.
type confirmation struct {
	message     string
	destructive bool // yes is rendered as the dangerous choice
}

// ConfirmationModel handles y/n prompts for deletes, archives and unsaved
// changes.
type ConfirmationModel struct {
	active    bool
	config    confirmation
	onConfirm func() tea.Cmd
	onCancel  func() tea.Cmd
	styles    Styles
}

// NewConfirmation creates a new confirmation model
func NewConfirmation(styles Styles) *ConfirmationModel {
	return &ConfirmationModel{styles: styles}
}

// ShowInline activates a one line prompt under the panes.
func (m *ConfirmationModel) ShowInline(message string, destructive bool, onConfirm, onCancel func() tea.Cmd) {
	m.active = true
	m.config = confirmation{message: message, destructive: destructive}
	m.onConfirm = onConfirm
	m.onCancel = onCancel
}

func (m *ConfirmationModel) Active() bool {
	return m.active
}

// Update handles key events for the confirmation
func (m *ConfirmationModel) Update(msg tea.KeyMsg) tea.Cmd {
	if !m.active {
		return nil
	}

	switch msg.String() {
	case "y", "Y":
		m.active = false
		if m.onConfirm != nil {
			return m.onConfirm()
		}
	case "n", "N", "esc":
		m.active = false
		if m.onCancel != nil {
			return m.onCancel()
		}
	}
	return nil
}

func (m *ConfirmationModel) View() string {
	if !m.active {
		return ""
	}
	style := m.styles.Warning.Bold(true)
	if m.config.destructive {
		style = m.styles.Error.Bold(true)
	}
	return style.Render(m.config.message) + " " + m.options()
}

// options renders [y] and [n], coloured by which choice is the safe one.
func (m *ConfirmationModel) options() string {
	yes := m.styles.Success
	no := m.styles.Error
	if m.config.destructive {
		yes, no = no, yes
	}
	return fmt.Sprintf("%s yes / %s no", yes.Bold(true).Render("[y]"), no.Bold(true).Render("[n]"))
}
