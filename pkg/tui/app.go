// Package tui is the interactive pipeline builder: a list of saved pipelines
// and a three pane editor (palette, blocks, settings) that runs pipelines on
// the backend.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/opradox/opradox-cli/pkg/builder"
	"github.com/opradox/opradox-cli/pkg/client"
	"github.com/opradox/opradox-cli/pkg/files"
	"github.com/opradox/opradox-cli/pkg/models"
	"github.com/opradox/opradox-cli/pkg/runner"
	"github.com/opradox/opradox-cli/pkg/workbook"
)

const statusTimeout = 4 * time.Second

type sessionState int

const (
	mainListView sessionState = iota
	pipelineBuilderView
)

// Options configure the TUI.
type Options struct {
	Settings *models.Settings
	// Client runs pipelines and fetches columns. Without one the builder
	// reads columns from local files and cannot run.
	Client   *client.Client
	Recorder runner.Recorder
	// Pipeline opens this saved pipeline in the builder on start.
	Pipeline   string
	MainFile   string
	SecondFile string
	Logger     *slog.Logger
}

type App struct {
	opts     Options
	styles   Styles
	notifier *notifier

	state    sessionState
	mainList *PipelineListModel
	builder  *BuilderModel
	width    int
	height   int

	statusMsg string
	statusSeq int
}

// NewApp prepares the list view, or the builder when Options.Pipeline is set.
func NewApp(opts Options) (*App, error) {
	if opts.Settings == nil {
		opts.Settings = models.DefaultSettings()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	for _, path := range []string{opts.MainFile, opts.SecondFile} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("cannot open %s: %w", path, err)
		}
	}

	styles := NewStyles(ThemeFor(opts.Settings.UI.Theme))
	a := &App{
		opts:     opts,
		styles:   styles,
		notifier: &notifier{},
		state:    mainListView,
		mainList: NewPipelineListModel(styles),
	}

	if opts.Pipeline != "" {
		p, err := files.LoadPipeline(opts.Pipeline)
		if err != nil {
			return nil, err
		}
		a.builder = a.newBuilder()
		a.builder.SetPipeline(p)
		a.state = pipelineBuilderView
	}
	return a, nil
}

// Attach lets background work (column refetches) deliver messages to p.
func (a *App) Attach(p *tea.Program) {
	a.notifier.set(p)
}

func (a *App) newBuilder() *BuilderModel {
	return NewBuilderModel(BuilderConfig{
		Settings:   a.opts.Settings,
		Client:     a.opts.Client,
		Recorder:   a.opts.Recorder,
		MainFile:   a.opts.MainFile,
		SecondFile: a.opts.SecondFile,
		Logger:     a.opts.Logger,
		Styles:     a.styles,
		Send:       a.notifier.send,
	})
}

func (a *App) Init() tea.Cmd {
	if a.state == pipelineBuilderView {
		return a.builder.Init()
	}
	return a.mainList.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.mainList.SetSize(msg.Width, msg.Height-1)
		if a.builder != nil {
			a.builder.SetSize(msg.Width, msg.Height-1)
		}
		return a, nil

	case tea.KeyMsg:
		if Shortcuts.Quit.Matches(msg.String()) {
			return a, tea.Quit
		}
		if Shortcuts.Theme.Matches(msg.String()) && !a.capturingInput() {
			a.toggleTheme()
			return a, nil
		}

	case StatusMsg:
		a.statusMsg = string(msg)
		a.statusSeq++
		seq := a.statusSeq
		return a, tea.Tick(statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })

	case clearStatusMsg:
		if msg.seq == a.statusSeq {
			a.statusMsg = ""
		}
		return a, nil

	case SwitchViewMsg:
		return a, a.switchView(msg)
	}

	var cmd tea.Cmd
	switch a.state {
	case mainListView:
		cmd = a.mainList.Update(msg)
	case pipelineBuilderView:
		cmd = a.builder.Update(msg)
	}
	return a, cmd
}

func (a *App) switchView(msg SwitchViewMsg) tea.Cmd {
	switch msg.view {
	case mainListView:
		a.state = mainListView
		a.mainList.loadPipelines()
		return a.mainList.Init()
	case pipelineBuilderView:
		var p *models.Pipeline
		if msg.pipeline != "" {
			loaded, err := files.LoadPipeline(msg.pipeline)
			if err != nil {
				return statusCmd("× " + err.Error())
			}
			p = loaded
		} else {
			p = &models.Pipeline{Name: msg.name, Scenario: a.opts.Settings.Builder.Scenario}
		}
		if a.builder == nil {
			a.builder = a.newBuilder()
		}
		a.builder.SetSize(a.width, a.height-1)
		a.builder.SetPipeline(p)
		a.state = pipelineBuilderView
		return a.builder.Init()
	}
	return nil
}

// capturingInput reports whether the active view is taking free text.
func (a *App) capturingInput() bool {
	switch a.state {
	case pipelineBuilderView:
		return a.builder.editing || a.builder.confirm.Active()
	default:
		return a.mainList.creating || a.mainList.confirm.Active()
	}
}

func (a *App) toggleTheme() {
	next := "day"
	if a.styles.Theme.Name == "day" {
		next = "night"
	}
	a.opts.Settings.UI.Theme = next
	a.styles = NewStyles(ThemeFor(next))
	a.mainList.SetStyles(a.styles)
	if a.builder != nil {
		a.builder.SetStyles(a.styles)
	}
	if err := files.WriteSettings(a.opts.Settings); err != nil {
		a.opts.Logger.Warn("failed to save theme", "error", err)
	}
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	var content string
	switch a.state {
	case mainListView:
		content = a.mainList.View()
	case pipelineBuilderView:
		content = a.builder.View()
	}

	if a.statusMsg != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, content, a.styles.StatusBar.Render(a.statusMsg))
	}
	return content
}

// StatusMsg shows a transient line in the status bar.
type StatusMsg string

type clearStatusMsg struct {
	seq int
}

type SwitchViewMsg struct {
	view     sessionState
	pipeline string // saved pipeline to open
	name     string // name of a new pipeline
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return StatusMsg(text) }
}

// notifier forwards messages from background goroutines to the program.
type notifier struct {
	mu sync.Mutex
	p  *tea.Program
}

func (n *notifier) set(p *tea.Program) {
	n.mu.Lock()
	n.p = p
	n.mu.Unlock()
}

func (n *notifier) send(msg tea.Msg) {
	n.mu.Lock()
	p := n.p
	n.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// columnSource asks the backend and falls back to reading the workbook
// locally when the backend cannot be reached.
func columnSource(c *client.Client, mainFile, secondFile string, logger *slog.Logger) builder.ColumnSource {
	local := workbook.Columns{MainFile: mainFile, SecondFile: secondFile}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c == nil {
		return local
	}
	remote := client.Columns{Client: c, MainFile: mainFile, SecondFile: secondFile}
	return builder.ColumnSourceFunc(func(ctx context.Context, ref builder.SheetRef) ([]string, error) {
		cols, err := remote.Columns(ctx, ref)
		var apiErr *client.APIError
		if err == nil || errors.As(err, &apiErr) || ctx.Err() != nil {
			return cols, err
		}
		logger.Debug("backend unreachable, reading columns locally", "sheet", ref.String(), "error", err)
		return local.Columns(ctx, ref)
	})
}
