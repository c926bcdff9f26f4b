package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the palette of one UI theme.
type Theme struct {
	Name     string
	Active   lipgloss.Color // focused borders, cursor
	Inactive lipgloss.Color
	Selected lipgloss.Color // background of the selected row
	Normal   lipgloss.Color
	Dim      lipgloss.Color
	Warning  lipgloss.Color
	Danger   lipgloss.Color
	Success  lipgloss.Color
	Title    lipgloss.Color
	TitleBg  lipgloss.Color
	Status   lipgloss.Color
	StatusBg lipgloss.Color
}

var nightTheme = Theme{
	Name:     "night",
	Active:   "170", // purple
	Inactive: "240",
	Selected: "236",
	Normal:   "245",
	Dim:      "241",
	Warning:  "214",
	Danger:   "196",
	Success:  "28",
	Title:    "255",
	TitleBg:  "0",
	Status:   "230",
	StatusBg: "62",
}

// dayTheme keeps the same roles with darker foregrounds for light terminals.
var dayTheme = Theme{
	Name:     "day",
	Active:   "91",
	Inactive: "250",
	Selected: "254",
	Normal:   "236",
	Dim:      "243",
	Warning:  "130",
	Danger:   "160",
	Success:  "28",
	Title:    "232",
	TitleBg:  "253",
	Status:   "255",
	StatusBg: "61",
}

// ThemeFor returns the theme for a settings value. Anything but "day" is night.
func ThemeFor(name string) Theme {
	if name == "day" {
		return dayTheme
	}
	return nightTheme
}

// Styles are the lipgloss styles derived from a theme.
type Styles struct {
	Theme Theme

	ActiveBorder   lipgloss.Style
	InactiveBorder lipgloss.Style
	Selected       lipgloss.Style
	Normal         lipgloss.Style
	TypeHeader     lipgloss.Style
	Header         lipgloss.Style
	Description    lipgloss.Style
	Error          lipgloss.Style
	Success        lipgloss.Style
	Warning        lipgloss.Style
	Cursor         lipgloss.Style
	Placeholder    lipgloss.Style
	Input          lipgloss.Style
	Title          lipgloss.Style
	StatusBar      lipgloss.Style
	Help           lipgloss.Style
	ContentPadding lipgloss.Style
}

// NewStyles builds the style set for t.
func NewStyles(t Theme) Styles {
	return Styles{
		Theme: t,
		ActiveBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Active),
		InactiveBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Inactive),
		Selected: lipgloss.NewStyle().
			Foreground(t.Active).
			Background(t.Selected).
			Bold(true),
		Normal: lipgloss.NewStyle().
			Foreground(t.Normal),
		TypeHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Warning),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Dim),
		Description: lipgloss.NewStyle().
			Foreground(t.Dim),
		Error: lipgloss.NewStyle().
			Foreground(t.Danger),
		Success: lipgloss.NewStyle().
			Foreground(t.Success),
		Warning: lipgloss.NewStyle().
			Foreground(t.Warning),
		Cursor: lipgloss.NewStyle().
			Foreground(t.Active).
			Bold(true),
		Placeholder: lipgloss.NewStyle().
			Foreground(t.Dim).
			Italic(true),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Active).
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Foreground(t.Title).
			Background(t.TitleBg).
			Bold(true).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Background(t.StatusBg).
			Foreground(t.Status).
			Padding(0, 1),
		Help: lipgloss.NewStyle().
			Foreground(t.Dim),
		ContentPadding: lipgloss.NewStyle().
			PaddingLeft(1).
			PaddingRight(1),
	}
}

// pane renders content in a bordered box, highlighted when focused.
func (s Styles) pane(content string, width, height int, focused bool) string {
	style := s.InactiveBorder
	if focused {
		style = s.ActiveBorder
	}
	// border takes one cell on each side
	if width > 2 {
		style = style.Width(width - 2)
	}
	if height > 2 {
		style = style.Height(height - 2)
	}
	return style.Render(content)
}
