package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/opradox/opradox-cli/pkg/export"
	"github.com/opradox/opradox-cli/pkg/form"
	"github.com/opradox/opradox-cli/pkg/models"
	"github.com/opradox/opradox-cli/pkg/schema"
	"github.com/opradox/opradox-cli/pkg/validate"
)

func (m *BuilderModel) View() string {
	if m.width == 0 || m.height == 0 || m.pipeline == nil {
		return "Loading..."
	}
	s := m.styles

	title := "BUILDER: " + m.pipeline.Name
	if m.dirty {
		title += " *"
	}
	header := renderHeader(s, m.width, title)

	footer := m.footerView()
	paneHeight := m.height - headerHeight() - lipgloss.Height(footer) - 1
	if paneHeight < 6 {
		paneHeight = 6
	}

	paletteWidth := m.width / 4
	blocksWidth := m.width / 3
	settingsWidth := m.width - paletteWidth - blocksWidth

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		s.pane(m.paletteView(paletteWidth-2, paneHeight-2), paletteWidth, paneHeight, m.focus == palettePane),
		s.pane(m.blocksView(blocksWidth-2, paneHeight-2), blocksWidth, paneHeight, m.focus == blocksPane),
		s.pane(m.settingsView(settingsWidth-2, paneHeight-2), settingsWidth, paneHeight, m.focus == settingsPane),
	)

	return lipgloss.JoinVertical(lipgloss.Left, header, panes, footer)
}

func (m *BuilderModel) paletteView(width, height int) string {
	s := m.styles
	lines := []string{NewViewTitle("ADD BLOCK", s).View()}
	cursorLine := 0

	category := ""
	for i, spec := range schema.Specs() {
		if spec.Category != category {
			category = spec.Category
			lines = append(lines, s.TypeHeader.Render(strings.ToUpper(category)))
		}
		label := truncate(spec.Label, width-2)
		if i == m.paletteCursor {
			cursorLine = len(lines)
			if m.focus == palettePane {
				lines = append(lines, s.Selected.Render("▸ "+label))
				continue
			}
		}
		lines = append(lines, s.Normal.Render("  "+label))
	}
	return strings.Join(visible(lines, cursorLine, height), "\n")
}

func (m *BuilderModel) blocksView(width, height int) string {
	s := m.styles
	blocks := m.session.Blocks()
	lines := []string{NewViewTitle(fmt.Sprintf("PIPELINE (%d)", len(blocks)), s).View()}
	if len(blocks) == 0 {
		lines = append(lines, s.Placeholder.Render("Pick a block type from the palette"))
		return strings.Join(lines, "\n")
	}

	sel, _ := m.session.Selected()
	cursorLine := 0
	for i, blk := range blocks {
		status := s.Success.Render("✓")
		if len(validate.Block(blk)) > 0 {
			status = s.Warning.Render("✗")
		}
		label := truncate(fmt.Sprintf("%d. %s #%d", i+1, validate.BlockName(blk.Type), blk.ID), width-4)
		detail := truncate(describe(blk), width-5)

		if blk.ID == sel.ID {
			cursorLine = len(lines)
			lines = append(lines, s.Selected.Render(label)+" "+status)
		} else {
			lines = append(lines, s.Normal.Render(label)+" "+status)
		}
		lines = append(lines, s.Description.Render("   "+detail))
	}
	return strings.Join(visible(lines, cursorLine, height), "\n")
}

// describe is the one line summary under each block.
func describe(blk models.Block) string {
	act := export.Block(blk)
	desc := schema.DescribeAction(act)
	for _, key := range []string{"column", "name", "sheet", "main_key"} {
		if v := blk.Config.String(key); v != "" {
			return desc + " " + v
		}
	}
	return desc
}

func (m *BuilderModel) settingsView(width, height int) string {
	s := m.styles
	sel, ok := m.session.Selected()
	if !ok {
		return NewViewTitle("SETTINGS", s).View() + "\n" + s.Placeholder.Render("Select a block to edit")
	}
	f, ok := form.Render(m.session, sel.ID)
	if !ok {
		return ""
	}

	lines := []string{NewViewTitle(fmt.Sprintf("SETTINGS: %s #%d", f.Title, f.BlockID), s).View()}
	cursorLine := 0
	for i, in := range f.Inputs {
		label := in.Field.Label
		if in.Required {
			label += "*"
		}
		value := m.inputValue(in)

		line := fmt.Sprintf("%-18s %s", truncate(label, 18), truncate(value, max(width-22, 4)))
		switch {
		case i == m.fieldCursor && m.focus == settingsPane:
			cursorLine = len(lines)
			line = s.Selected.Render("▸ " + line)
		case in.Missing:
			line = s.Warning.Render("  " + line)
		default:
			line = s.Normal.Render("  " + line)
		}
		lines = append(lines, line)

		if i == m.fieldCursor && m.focus == settingsPane {
			if hint := m.inputHint(sel.ID, in); hint != "" {
				lines = append(lines, s.Description.Render("    "+hint))
			}
		}
	}
	return strings.Join(visible(lines, cursorLine, height), "\n")
}

func (m *BuilderModel) inputValue(in form.Input) string {
	if in.Hybrid != nil {
		ref := in.Hybrid.Resolve()
		if ref.IsZero() {
			return "—"
		}
		if ref.Source == models.RefManual {
			return ref.Value + " (manual)"
		}
		return ref.Value
	}
	if in.Value == "" {
		return "—"
	}
	return in.Value
}

func (m *BuilderModel) inputHint(id int, in form.Input) string {
	var parts []string
	if m.session.Pending(id, in.Field.Key) {
		parts = append(parts, "loading columns…")
	}
	switch in.Field.Kind {
	case schema.FieldColumn:
		if len(in.Options) > 0 {
			parts = append(parts, fmt.Sprintf("←/→ %d columns", len(in.Options)))
		}
		parts = append(parts, Shortcuts.Manual.Get()+" type manually")
	case schema.FieldSelect, schema.FieldSheet:
		if len(in.Options) > 0 {
			parts = append(parts, fmt.Sprintf("←/→ %s", strings.Join(in.Options, " | ")))
		}
	case schema.FieldColumns:
		parts = append(parts, "comma separated")
	case schema.FieldBool:
		parts = append(parts, "enter toggles")
	}
	if in.Field.Help != "" {
		parts = append(parts, in.Field.Help)
	}
	return strings.Join(parts, " • ")
}

func (m *BuilderModel) footerView() string {
	s := m.styles
	var rows []string

	switch {
	case m.running:
		rows = append(rows, m.spinner.View()+" Running pipeline on "+m.cfg.Settings.Backend.URL+"… (esc cancels)")
	case m.runErr != nil:
		rows = append(rows, s.Error.Render(wordwrap.String("Run failed: "+m.runErr.Error(), max(m.width-4, 20))))
	case m.result != nil:
		summary := m.result.Summary
		if summary == "" {
			summary = "Pipeline finished"
		}
		if m.result.RowCount > 0 {
			summary += fmt.Sprintf(" (%d rows)", m.result.RowCount)
		}
		rows = append(rows, s.Success.Render(wordwrap.String(summary, max(m.width-4, 20))))
	}

	switch {
	case m.confirm.Active():
		rows = append(rows, m.confirm.View())
	case m.editing:
		prefix := ""
		if m.manual {
			prefix = s.Warning.Render("manual ")
		}
		rows = append(rows, prefix+s.Input.Render(m.input.View()))
	default:
		rows = append(rows, s.Help.Render(m.helpText()))
	}
	return s.ContentPadding.Render(strings.Join(rows, "\n"))
}

func (m *BuilderModel) helpText() string {
	common := []string{
		"tab pane",
		FormatShortcutForHelp(Shortcuts.Save) + " save",
		FormatShortcutForHelp(Shortcuts.Run) + " run",
		Shortcuts.Validate.Get() + " validate",
		Shortcuts.Copy.Get() + " copy json",
		"esc back",
	}
	var local []string
	switch m.focus {
	case palettePane:
		local = []string{"enter add"}
	case blocksPane:
		local = []string{"enter edit", "K/J move", "x remove"}
	case settingsPane:
		local = []string{"enter edit", "←/→ choose"}
	}
	return strings.Join(append(local, common...), " • ")
}

// visible clips lines to height, keeping the cursor line in view. The first
// line is a heading and always stays.
func visible(lines []string, cursor, height int) []string {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	head, body := lines[0], lines[1:]
	room := height - 1
	start := 0
	if cursor-1 >= room {
		start = cursor - room
	}
	end := min(start+room, len(body))
	return append([]string{head}, body[start:end]...)
}
