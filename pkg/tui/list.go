package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/opradox/opradox-cli/pkg/files"
	"github.com/opradox/opradox-cli/pkg/models"
	"github.com/opradox/opradox-cli/pkg/validate"
)

type pipelineItem struct {
	name  string
	path  string
	steps int
	valid bool
}

// PipelineListModel lists the saved pipelines of the project.
type PipelineListModel struct {
	styles  Styles
	items   []pipelineItem
	cursor  int
	width   int
	height  int
	err     error
	confirm *ConfirmationModel

	creating  bool
	nameInput textinput.Model
}

func NewPipelineListModel(styles Styles) *PipelineListModel {
	ti := textinput.New()
	ti.Placeholder = "pipeline name"
	ti.CharLimit = 80

	m := &PipelineListModel{
		styles:    styles,
		confirm:   NewConfirmation(styles),
		nameInput: ti,
	}
	m.loadPipelines()
	return m
}

func (m *PipelineListModel) Init() tea.Cmd {
	return nil
}

func (m *PipelineListModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.nameInput.Width = width / 2
}

func (m *PipelineListModel) SetStyles(s Styles) {
	m.styles = s
	m.confirm.styles = s
}

func (m *PipelineListModel) loadPipelines() {
	m.items = nil
	m.err = nil

	paths, err := files.ListPipelines()
	if err != nil {
		m.err = err
		return
	}
	for _, path := range paths {
		p, err := files.ReadPipeline(path)
		if err != nil {
			m.items = append(m.items, pipelineItem{name: filepath.Base(path) + " (unreadable)", path: path})
			continue
		}
		m.items = append(m.items, pipelineItem{
			name:  p.Name,
			path:  path,
			steps: len(p.Steps),
			valid: validate.Pipeline(stepBlocks(p)).Valid,
		})
	}
	if m.cursor >= len(m.items) {
		m.cursor = max(len(m.items)-1, 0)
	}
}

// stepBlocks gives the saved steps positional ids for validation.
func stepBlocks(p *models.Pipeline) []models.Block {
	out := make([]models.Block, len(p.Steps))
	for i, s := range p.Steps {
		out[i] = models.Block{ID: i + 1, Type: s.Type, Config: s.Config}
	}
	return out
}

func (m *PipelineListModel) selected() (pipelineItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return pipelineItem{}, false
	}
	return m.items[m.cursor], true
}

func (m *PipelineListModel) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.creating {
			var cmd tea.Cmd
			m.nameInput, cmd = m.nameInput.Update(msg)
			return cmd
		}
		return nil
	}

	if m.confirm.Active() {
		return m.confirm.Update(keyMsg)
	}
	if m.creating {
		return m.updateCreate(keyMsg)
	}

	key := keyMsg.String()
	switch {
	case key == "up" || key == "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case key == "down" || key == "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key == "q":
		return tea.Quit
	case Shortcuts.Confirm.Matches(key) || key == "e":
		if item, ok := m.selected(); ok {
			return func() tea.Msg { return SwitchViewMsg{view: pipelineBuilderView, pipeline: item.path} }
		}
	case Shortcuts.New.Matches(key):
		m.creating = true
		m.nameInput.SetValue("")
		return m.nameInput.Focus()
	case Shortcuts.Archive.Matches(key):
		if item, ok := m.selected(); ok {
			m.confirm.ShowInline(fmt.Sprintf("Archive %q?", item.name), false,
				func() tea.Cmd { return m.archive(item) }, nil)
		}
	case Shortcuts.Delete.Matches(key):
		if item, ok := m.selected(); ok {
			m.confirm.ShowInline(fmt.Sprintf("Delete %q?", item.name), true,
				func() tea.Cmd { return m.delete(item) }, nil)
		}
	}
	return nil
}

func (m *PipelineListModel) updateCreate(msg tea.KeyMsg) tea.Cmd {
	switch {
	case Shortcuts.Cancel.Matches(msg.String()):
		m.creating = false
		m.nameInput.Blur()
		return nil
	case Shortcuts.Confirm.Matches(msg.String()):
		name := strings.TrimSpace(m.nameInput.Value())
		if name == "" {
			return statusCmd("× Pipeline name cannot be empty")
		}
		if files.PipelineExists(files.PipelineFileName(name)) {
			return statusCmd(fmt.Sprintf("× Pipeline %q already exists", name))
		}
		m.creating = false
		m.nameInput.Blur()
		return func() tea.Msg { return SwitchViewMsg{view: pipelineBuilderView, name: name} }
	}
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return cmd
}

func (m *PipelineListModel) archive(item pipelineItem) tea.Cmd {
	if err := files.ArchivePipeline(item.path); err != nil {
		return statusCmd("× Failed to archive: " + err.Error())
	}
	m.loadPipelines()
	return statusCmd(fmt.Sprintf("✓ Archived %s", item.name))
}

func (m *PipelineListModel) delete(item pipelineItem) tea.Cmd {
	if err := files.DeletePipeline(item.path); err != nil {
		return statusCmd("× Failed to delete: " + err.Error())
	}
	m.loadPipelines()
	return statusCmd(fmt.Sprintf("✓ Deleted %s", item.name))
}

func (m *PipelineListModel) View() string {
	s := m.styles
	var b strings.Builder

	b.WriteString(renderHeader(s, m.width, "PIPELINES"))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(s.Error.Render("Error: " + m.err.Error()))
	case len(m.items) == 0:
		b.WriteString(s.TypeHeader.Render("No pipelines yet. Press n to create one."))
	default:
		nameWidth := 40
		if m.width > 0 && m.width/2 < nameWidth {
			nameWidth = max(m.width/2, 10)
		}
		b.WriteString(s.Header.Render(fmt.Sprintf("  %-*s %6s  %s", nameWidth, "NAME", "STEPS", "STATUS")))
		b.WriteString("\n")
		for i, item := range m.items {
			status := s.Success.Render("✓ valid")
			if !item.valid {
				status = s.Warning.Render("✗ incomplete")
			}
			row := fmt.Sprintf("%-*s %6d  ", nameWidth, truncate(item.name, nameWidth), item.steps)
			if i == m.cursor {
				b.WriteString(s.Cursor.Render("▸ ") + s.Selected.Render(row) + status)
			} else {
				b.WriteString("  " + s.Normal.Render(row) + status)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	switch {
	case m.confirm.Active():
		b.WriteString(m.confirm.View())
	case m.creating:
		b.WriteString(s.Input.Render(m.nameInput.View()))
		b.WriteString("\n")
		b.WriteString(s.Help.Render("enter create • esc cancel"))
	default:
		b.WriteString(s.Help.Render(strings.Join([]string{
			"enter open",
			Shortcuts.New.Get() + " new",
			Shortcuts.Archive.Get() + " archive",
			FormatShortcutForHelp(Shortcuts.Delete) + " delete",
			Shortcuts.Theme.Get() + " theme",
			"q quit",
		}, " • ")))
	}

	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}

// truncate shortens s to width runes with an ellipsis.
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
