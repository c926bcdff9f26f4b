package tui

import (
	"github.com/charmbracelet/lipgloss"
)

const logo = `┏━┓┏━┓┏━┓┏━┓╺┳┓┏━┓╻ ╻
┃ ┃┣━┛┣┳┛┣━┫ ┃┃┃ ┃┏╋┛
┗━┛╹  ╹┗╸╹ ╹╺┻┛┗━┛╹ ╹`

// renderHeader puts title on the left and the logo on the right.
func renderHeader(s Styles, width int, title string) string {
	logoRendered := lipgloss.NewStyle().
		Foreground(s.Theme.Active).
		Bold(true).
		Render(logo)

	contentWidth := width - 2
	if title == "" {
		return s.ContentPadding.Render(
			lipgloss.NewStyle().Width(contentWidth).Align(lipgloss.Right).Render(logoRendered))
	}

	// title sits on the last logo row
	titleRendered := lipgloss.NewStyle().
		Foreground(s.Theme.Active).
		Bold(true).
		Render("\n\n" + title)

	gap := contentWidth - lipgloss.Width(titleRendered) - lipgloss.Width(logoRendered)
	if gap < 1 {
		gap = 1
	}
	return s.ContentPadding.Render(lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		lipgloss.NewStyle().Width(gap).Render(""),
		logoRendered,
	))
}

// headerHeight is the number of rows renderHeader produces.
func headerHeight() int {
	return 3
}
