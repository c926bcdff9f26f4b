package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/opradox/opradox-cli/pkg/builder"
	"github.com/opradox/opradox-cli/pkg/client"
	"github.com/opradox/opradox-cli/pkg/export"
	"github.com/opradox/opradox-cli/pkg/files"
	"github.com/opradox/opradox-cli/pkg/form"
	"github.com/opradox/opradox-cli/pkg/models"
	"github.com/opradox/opradox-cli/pkg/runner"
	"github.com/opradox/opradox-cli/pkg/schema"
	"github.com/opradox/opradox-cli/pkg/validate"
	"github.com/opradox/opradox-cli/pkg/workbook"
)

type pane int

const (
	palettePane pane = iota
	blocksPane
	settingsPane
)

// BuilderConfig wires a BuilderModel to its collaborators.
type BuilderConfig struct {
	Settings   *models.Settings
	Client     *client.Client
	Recorder   runner.Recorder
	MainFile   string
	SecondFile string
	Logger     *slog.Logger
	Styles     Styles
	// Send delivers messages from background goroutines to the program.
	Send func(tea.Msg)
	// Copy writes to the clipboard. Defaults to the system clipboard.
	Copy func(string) error
	// Source overrides where sheet columns are fetched from.
	Source builder.ColumnSource
}

// BuilderModel edits one pipeline: pick types from the palette, order the
// blocks and fill in the selected block's settings.
type BuilderModel struct {
	cfg      BuilderConfig
	styles   Styles
	session  *builder.Builder
	runner   *runner.Runner
	pipeline *models.Pipeline

	width  int
	height int

	focus         pane
	paletteCursor int
	fieldCursor   int
	dirty         bool

	editing bool
	manual  bool
	input   textinput.Model

	running   bool
	cancelRun context.CancelFunc
	spinner   spinner.Model
	result    *client.RunResult
	runErr    error

	confirm *ConfirmationModel
}

type filesLoadedMsg struct {
	sheets     []string
	mainCols   []string
	secondCols []string
	err        error
}

type columnsMsg builder.Event

type runFinishedMsg struct {
	result *client.RunResult
	err    error
}

func NewBuilderModel(cfg BuilderConfig) *BuilderModel {
	if cfg.Settings == nil {
		cfg.Settings = models.DefaultSettings()
	}
	if cfg.Copy == nil {
		cfg.Copy = clipboard.WriteAll
	}
	if cfg.Send == nil {
		cfg.Send = func(tea.Msg) {}
	}
	if cfg.Source == nil {
		cfg.Source = columnSource(cfg.Client, cfg.MainFile, cfg.SecondFile, cfg.Logger)
	}

	send := cfg.Send
	opts := []builder.Option{
		builder.WithColumnSource(cfg.Source),
		builder.WithNotify(func(ev builder.Event) { send(columnsMsg(ev)) }),
	}
	if cfg.Logger != nil {
		opts = append(opts, builder.WithLogger(cfg.Logger))
	}
	if d, err := files.Timeout(cfg.Settings); err == nil {
		opts = append(opts, builder.WithFetchTimeout(d))
	}

	m := &BuilderModel{
		cfg:     cfg,
		styles:  cfg.Styles,
		session: builder.New(opts...),
		confirm: NewConfirmation(cfg.Styles),
	}
	if cfg.Client != nil {
		ropts := runner.FromSettings(cfg.Settings)
		ropts = append(ropts, runner.WithLogger(cfg.Logger))
		if cfg.Recorder != nil {
			ropts = append(ropts, runner.WithRecorder(cfg.Recorder))
		}
		m.runner = runner.New(cfg.Client, ropts...)
	}

	m.input = textinput.New()
	m.input.CharLimit = 500
	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = m.styles.Cursor
	return m
}

// SetPipeline loads p into a fresh session.
func (m *BuilderModel) SetPipeline(p *models.Pipeline) {
	m.pipeline = p
	m.session.Load(*p)
	m.focus = palettePane
	m.fieldCursor = 0
	m.dirty = false
	m.editing = false
	m.result = nil
	m.runErr = nil
	if m.session.Len() > 0 {
		m.focus = blocksPane
		m.session.SelectBlock(m.session.Blocks()[0].ID)
	}
}

func (m *BuilderModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(width/2, 20)
}

func (m *BuilderModel) SetStyles(s Styles) {
	m.styles = s
	m.confirm.styles = s
	m.spinner.Style = s.Cursor
}

func (m *BuilderModel) Init() tea.Cmd {
	if m.cfg.MainFile == "" {
		return nil
	}
	return loadFiles(m.cfg.MainFile, m.cfg.SecondFile)
}

// loadFiles reads sheet names and header columns of the session files.
func loadFiles(mainFile, secondFile string) tea.Cmd {
	return func() tea.Msg {
		var msg filesLoadedMsg
		res, err := workbook.Inspect(mainFile, "")
		if err != nil {
			msg.err = err
			return msg
		}
		msg.mainCols = res.Columns
		msg.sheets = res.SheetNames
		if secondFile != "" {
			second, err := workbook.Inspect(secondFile, "")
			if err != nil {
				msg.err = err
				return msg
			}
			msg.secondCols = second.Columns
		}
		return msg
	}
}

func (m *BuilderModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case filesLoadedMsg:
		if msg.err != nil {
			return statusCmd("× Could not read input files: " + msg.err.Error())
		}
		m.session.SetSheets(msg.sheets)
		m.session.SetMainColumns(msg.mainCols)
		m.session.SetSecondaryColumns(msg.secondCols)
		return statusCmd(fmt.Sprintf("✓ Loaded %d columns from %s", len(msg.mainCols), m.cfg.MainFile))

	case columnsMsg:
		ev := builder.Event(msg)
		if ev.Kind == builder.EventColumnsFailed {
			return statusCmd("× " + ev.Message())
		}
		return statusCmd("✓ " + ev.Message())

	case runFinishedMsg:
		m.running = false
		m.cancelRun = nil
		m.result, m.runErr = msg.result, msg.err
		if msg.err != nil {
			if errors.Is(msg.err, context.Canceled) {
				m.runErr = nil
				return statusCmd("Run cancelled")
			}
			return statusCmd("× " + msg.err.Error())
		}
		return statusCmd("✓ Pipeline finished")

	case spinner.TickMsg:
		if !m.running {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.editing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}
	return nil
}

func (m *BuilderModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.confirm.Active() {
		return m.confirm.Update(msg)
	}
	if m.editing {
		return m.updateEditing(msg)
	}

	key := msg.String()
	switch {
	case Shortcuts.Cancel.Matches(key):
		return m.exit()
	case Shortcuts.SwitchPane.Matches(key):
		m.focus = (m.focus + 1) % 3
		return nil
	case Shortcuts.ReverseSwitch.Matches(key):
		m.focus = (m.focus + 2) % 3
		return nil
	case Shortcuts.Save.Matches(key):
		return m.save()
	case Shortcuts.Run.Matches(key):
		return m.run()
	case Shortcuts.Copy.Matches(key):
		return m.copyJSON()
	case Shortcuts.Validate.Matches(key):
		return m.validate()
	}

	switch m.focus {
	case palettePane:
		return m.updatePalette(key)
	case blocksPane:
		return m.updateBlocks(key)
	case settingsPane:
		return m.updateSettings(key)
	}
	return nil
}

func (m *BuilderModel) updatePalette(key string) tea.Cmd {
	specs := schema.Specs()
	switch key {
	case "up", "k":
		if m.paletteCursor > 0 {
			m.paletteCursor--
		}
	case "down", "j":
		if m.paletteCursor < len(specs)-1 {
			m.paletteCursor++
		}
	case "enter", " ":
		spec := specs[m.paletteCursor]
		blk := m.session.AddBlock(spec.Type)
		m.dirty = true
		m.fieldCursor = 0
		return statusCmd(fmt.Sprintf("✓ Added %s (#%d)", spec.Label, blk.ID))
	}
	return nil
}

func (m *BuilderModel) updateBlocks(key string) tea.Cmd {
	blocks := m.session.Blocks()
	if len(blocks) == 0 {
		return nil
	}
	idx := m.selectedIndex(blocks)

	switch {
	case key == "up" || key == "k":
		if idx > 0 {
			m.selectBlock(blocks[idx-1].ID)
		} else if idx < 0 {
			m.selectBlock(blocks[0].ID)
		}
	case key == "down" || key == "j":
		if idx < len(blocks)-1 {
			m.selectBlock(blocks[idx+1].ID)
		}
	case Shortcuts.ReorderUp.Matches(key):
		if idx > 0 {
			m.session.MoveBlock(blocks[idx].ID, builder.Up)
			m.dirty = true
		}
	case Shortcuts.ReorderDown.Matches(key):
		if idx >= 0 && idx < len(blocks)-1 {
			m.session.MoveBlock(blocks[idx].ID, builder.Down)
			m.dirty = true
		}
	case key == "enter":
		if idx >= 0 {
			m.focus = settingsPane
		}
	case key == "x" || Shortcuts.Delete.Matches(key):
		if idx < 0 {
			return nil
		}
		blk := blocks[idx]
		m.confirm.ShowInline(fmt.Sprintf("Remove %s (#%d)?", validate.BlockName(blk.Type), blk.ID), true,
			func() tea.Cmd {
				m.session.RemoveBlock(blk.ID)
				m.dirty = true
				if rest := m.session.Blocks(); len(rest) > 0 {
					m.selectBlock(rest[min(idx, len(rest)-1)].ID)
				}
				return statusCmd(fmt.Sprintf("✓ Removed block #%d", blk.ID))
			}, nil)
	}
	return nil
}

func (m *BuilderModel) selectBlock(id int) {
	m.session.SelectBlock(id)
	m.fieldCursor = 0
}

func (m *BuilderModel) selectedIndex(blocks []models.Block) int {
	sel, ok := m.session.Selected()
	if !ok {
		return -1
	}
	for i, b := range blocks {
		if b.ID == sel.ID {
			return i
		}
	}
	return -1
}

// currentInput returns the settings input under the cursor.
func (m *BuilderModel) currentInput() (form.Form, form.Input, bool) {
	sel, ok := m.session.Selected()
	if !ok {
		return form.Form{}, form.Input{}, false
	}
	f, ok := form.Render(m.session, sel.ID)
	if !ok || len(f.Inputs) == 0 {
		return f, form.Input{}, false
	}
	if m.fieldCursor >= len(f.Inputs) {
		m.fieldCursor = len(f.Inputs) - 1
	}
	return f, f.Inputs[m.fieldCursor], true
}

func (m *BuilderModel) updateSettings(key string) tea.Cmd {
	f, in, ok := m.currentInput()
	if !ok {
		return nil
	}

	switch {
	case key == "up" || key == "k":
		if m.fieldCursor > 0 {
			m.fieldCursor--
		}
	case key == "down" || key == "j":
		if m.fieldCursor < len(f.Inputs)-1 {
			m.fieldCursor++
		}
	case key == "left" || key == "h":
		return m.cycleOption(f.BlockID, in, -1)
	case key == "right" || key == "l":
		return m.cycleOption(f.BlockID, in, 1)
	case key == "enter" || key == " ":
		if in.Field.Kind == schema.FieldBool {
			return m.apply(f.BlockID, in, strconv.FormatBool(in.Value != "true"))
		}
		m.startEditing(in, false)
		return textinput.Blink
	case Shortcuts.Manual.Matches(key):
		if in.Field.Kind != schema.FieldColumn {
			return nil
		}
		m.startEditing(in, true)
		return textinput.Blink
	}
	return nil
}

// cycleOption steps through the choices of select, sheet and column fields.
func (m *BuilderModel) cycleOption(id int, in form.Input, dir int) tea.Cmd {
	if len(in.Options) == 0 {
		return nil
	}
	current := in.Value
	if in.Hybrid != nil {
		current = in.Hybrid.List
	}
	next := 0
	for i, opt := range in.Options {
		if opt == current {
			next = (i + dir + len(in.Options)) % len(in.Options)
			break
		}
	}
	value := in.Options[next]

	if in.Field.Kind == schema.FieldColumn {
		if err := form.ChooseOption(m.session, id, in.Field.Key, value); err != nil {
			return statusCmd("× " + err.Error())
		}
		m.dirty = true
		return nil
	}
	return m.apply(id, in, value)
}

func (m *BuilderModel) startEditing(in form.Input, manual bool) {
	m.editing = true
	m.manual = manual
	m.input.Prompt = in.Field.Label + ": "
	m.input.Placeholder = in.Field.Help
	switch {
	case manual && in.Hybrid != nil:
		m.input.SetValue(in.Hybrid.Manual)
	default:
		m.input.SetValue(in.Value)
	}
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *BuilderModel) updateEditing(msg tea.KeyMsg) tea.Cmd {
	switch {
	case Shortcuts.Cancel.Matches(msg.String()):
		m.stopEditing()
		return nil
	case Shortcuts.Confirm.Matches(msg.String()):
		value := m.input.Value()
		manual := m.manual
		m.stopEditing()
		f, in, ok := m.currentInput()
		if !ok {
			return nil
		}
		if in.Field.Kind == schema.FieldColumn {
			var err error
			if !manual && contains(in.Options, value) {
				err = form.ChooseOption(m.session, f.BlockID, in.Field.Key, value)
			} else {
				err = form.TypeManual(m.session, f.BlockID, in.Field.Key, value)
			}
			if err != nil {
				return statusCmd("× " + err.Error())
			}
			m.dirty = true
			return nil
		}
		return m.apply(f.BlockID, in, value)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *BuilderModel) stopEditing() {
	m.editing = false
	m.manual = false
	m.input.Blur()
}

func (m *BuilderModel) apply(id int, in form.Input, raw string) tea.Cmd {
	if err := form.Apply(m.session, id, in, raw); err != nil {
		return statusCmd("× " + err.Error())
	}
	m.dirty = true
	return nil
}

func (m *BuilderModel) save() tea.Cmd {
	if m.pipeline == nil {
		return statusCmd("× No pipeline to save")
	}
	snap := m.session.Snapshot(m.pipeline.Name)
	m.pipeline.Steps = snap.Steps
	if err := files.WritePipeline(m.pipeline); err != nil {
		return statusCmd("× Failed to save: " + err.Error())
	}
	m.dirty = false
	return statusCmd(fmt.Sprintf("✓ Saved %s", m.pipeline.Path))
}

func (m *BuilderModel) validate() tea.Cmd {
	res := validate.Pipeline(m.session.Blocks())
	if res.Valid {
		return statusCmd("✓ " + res.Message())
	}
	m.session.SelectBlock(res.FirstInvalidID)
	m.focus = blocksPane
	return statusCmd("✗ " + res.Message())
}

func (m *BuilderModel) copyJSON() tea.Cmd {
	data, err := export.IndentedJSON(m.session.Blocks())
	if err != nil {
		return statusCmd("× " + err.Error())
	}
	if err := m.cfg.Copy(string(data)); err != nil {
		return statusCmd("× Failed to copy: " + err.Error())
	}
	return statusCmd(fmt.Sprintf("✓ Copied %d actions to clipboard", m.session.Len()))
}

func (m *BuilderModel) run() tea.Cmd {
	if m.running {
		return nil
	}
	if m.runner == nil {
		return statusCmd("× No backend configured")
	}
	if m.cfg.MainFile == "" {
		return statusCmd("× Start opradox with --file to run pipelines")
	}

	blocks := m.session.Blocks()
	if len(blocks) == 0 {
		return statusCmd("× " + runner.ErrEmptyPipeline.Error())
	}
	if res := validate.Pipeline(blocks); !res.Valid {
		m.session.SelectBlock(res.FirstInvalidID)
		m.focus = blocksPane
		return statusCmd("✗ " + res.Message())
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.running = true
	m.cancelRun = cancel
	m.result, m.runErr = nil, nil

	in := runner.Inputs{
		Pipeline:   m.pipeline.Name,
		Scenario:   m.pipeline.Scenario,
		File:       m.cfg.MainFile,
		SecondFile: m.cfg.SecondFile,
	}
	r := m.runner
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		res, err := r.Run(ctx, blocks, in)
		return runFinishedMsg{result: res, err: err}
	})
}

// exit cancels a running pipeline, or leaves for the list, asking first if
// there are unsaved changes.
func (m *BuilderModel) exit() tea.Cmd {
	if m.running && m.cancelRun != nil {
		m.cancelRun()
		return nil
	}
	back := func() tea.Cmd {
		m.session.Clear()
		return func() tea.Msg { return SwitchViewMsg{view: mainListView} }
	}
	if m.dirty {
		m.confirm.ShowInline("Discard unsaved changes?", true, back, nil)
		return nil
	}
	return back()
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
