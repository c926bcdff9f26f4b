package tui

// ViewTitle is the heading on the first line of a builder pane.
type ViewTitle struct {
	text   string
	styles Styles
}

func NewViewTitle(text string, styles Styles) *ViewTitle {
	return &ViewTitle{text: text, styles: styles}
}

func (v *ViewTitle) View() string {
	if v.text == "" {
		return ""
	}
	return v.styles.Title.Render(" " + v.text + " ")
}
