// Package builder holds the in-memory state of one pipeline editing session:
// the ordered blocks, the single selection, the id counter and the column
// lists the settings form offers.
package builder

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/opradox/opradox-cli/pkg/models"
	"github.com/opradox/opradox-cli/pkg/schema"
)

// Move directions
const (
	Up   = -1
	Down = 1
)

const defaultFetchTimeout = 30 * time.Second

// Builder is safe for concurrent use. Column refetches run in the background
// and write the column cache under the same lock as user edits.
type Builder struct {
	mu       sync.Mutex
	nextID   int
	blocks   []models.Block
	selected int

	mainCols      []string
	secondaryCols []string
	sheets        []string
	fetched       map[fetchKey][]string
	tasks         map[fetchKey]*fetchTask
	generation    uint64
	wg            sync.WaitGroup

	source  ColumnSource
	logger  *slog.Logger
	notify  func(Event)
	timeout time.Duration
}

// Option configures a Builder.
type Option func(*Builder)

// WithColumnSource sets where sheet columns are fetched from. Without one,
// sheet changes are stored but nothing is fetched.
func WithColumnSource(src ColumnSource) Option {
	return func(b *Builder) { b.source = src }
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithNotify registers a callback for background fetch outcomes. It is
// called from the fetching goroutine.
func WithNotify(fn func(Event)) Option {
	return func(b *Builder) { b.notify = fn }
}

func WithMainColumns(cols []string) Option {
	return func(b *Builder) { b.mainCols = append([]string(nil), cols...) }
}

func WithSecondaryColumns(cols []string) Option {
	return func(b *Builder) { b.secondaryCols = append([]string(nil), cols...) }
}

// WithSheets sets the sheet names offered by sheet selectors.
func WithSheets(sheets []string) Option {
	return func(b *Builder) { b.sheets = append([]string(nil), sheets...) }
}

// WithFetchTimeout bounds a single column refetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(b *Builder) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// New creates an empty builder session.
func New(opts ...Option) *Builder {
	b := &Builder{
		nextID:  1,
		fetched: make(map[fetchKey][]string),
		tasks:   make(map[fetchKey]*fetchTask),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout: defaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddBlock appends a block of type t with its default config and selects it.
func (b *Builder) AddBlock(t models.BlockType) models.Block {
	b.mu.Lock()
	defer b.mu.Unlock()

	blk := models.Block{ID: b.nextID, Type: t, Config: schema.Defaults(t)}
	b.nextID++
	b.blocks = append(b.blocks, blk)
	b.selected = blk.ID
	return blk.Clone()
}

// RemoveBlock deletes the block with id and cancels its column fetches.
func (b *Builder) RemoveBlock(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := b.indexOf(id)
	if idx < 0 {
		return
	}
	b.blocks = append(b.blocks[:idx], b.blocks[idx+1:]...)
	if b.selected == id {
		b.selected = 0
	}
	b.dropBlockFetches(id)
}

// MoveBlock swaps the block with its neighbour in direction dir (Up or Down).
func (b *Builder) MoveBlock(id, dir int) {
	if dir != Up && dir != Down {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := b.indexOf(id)
	if idx < 0 {
		return
	}
	target := idx + dir
	if target < 0 || target >= len(b.blocks) {
		return
	}
	b.blocks[idx], b.blocks[target] = b.blocks[target], b.blocks[idx]
}

// SelectBlock points the selection at id. Unknown ids leave it unchanged.
func (b *Builder) SelectBlock(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.indexOf(id) >= 0 {
		b.selected = id
	}
}

func (b *Builder) ClearSelection() {
	b.mu.Lock()
	b.selected = 0
	b.mu.Unlock()
}

// UpdateConfig merges one key into a block's config. Changing a sheet
// selector starts a background refetch of that sheet's columns.
func (b *Builder) UpdateConfig(id int, key string, value any) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := b.indexOf(id)
	if idx < 0 {
		return
	}
	blk := &b.blocks[idx]
	if blk.Config == nil {
		blk.Config = models.Config{}
	}
	blk.Config[key] = value

	spec, ok := schema.Lookup(blk.Type)
	if !ok {
		return
	}
	switch {
	case spec.IsSheetField(key):
		b.startFetch(fetchKey{id: id, field: key}, sheetRef(*blk, key))
	case key == "source_type" && value == models.SourceSameFileSheet && spec.IsSheetField("source_sheet"):
		// switching into cross-sheet mode loads the sheet picked earlier
		if blk.Config.String("source_sheet") != "" {
			b.startFetch(fetchKey{id: id, field: "source_sheet"}, sheetRef(*blk, "source_sheet"))
		}
	case key == "source" && blk.Type == models.BlockDataSource:
		// the picked sheet now belongs to the other file
		for _, f := range spec.Fields {
			if f.Kind == schema.FieldSheet {
				fk := fetchKey{id: id, field: f.Key}
				delete(b.fetched, fk)
				b.startFetch(fk, sheetRef(*blk, f.Key))
			}
		}
	}
}

// SetReference stores the resolved value of a hybrid column input.
func (b *Builder) SetReference(id int, key string, field models.HybridField) {
	ref := field.Resolve()
	if ref.IsZero() {
		b.UpdateConfig(id, key, "")
		return
	}
	b.UpdateConfig(id, key, ref)
}

// Blocks returns a copy of the blocks in order.
func (b *Builder) Blocks() []models.Block {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]models.Block, len(b.blocks))
	for i, blk := range b.blocks {
		out[i] = blk.Clone()
	}
	return out
}

// Block returns a copy of the block with id.
func (b *Builder) Block(id int) (models.Block, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := b.indexOf(id)
	if idx < 0 {
		return models.Block{}, false
	}
	return b.blocks[idx].Clone(), true
}

// Selected returns the selected block, if any.
func (b *Builder) Selected() (models.Block, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := b.indexOf(b.selected)
	if b.selected == 0 || idx < 0 {
		return models.Block{}, false
	}
	return b.blocks[idx].Clone(), true
}

func (b *Builder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.blocks)
}

// Clear removes every block and cancels all fetches. The id counter keeps
// counting so ids stay unique within the session.
func (b *Builder) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reset()
}

// Load replaces the session with the steps of p. Blocks get fresh ids in
// order and nothing is selected. Saved sheet selections are refetched.
func (b *Builder) Load(p models.Pipeline) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.reset()
	for _, step := range p.Steps {
		cfg := schema.Defaults(step.Type)
		for k, v := range step.Config.Clone() {
			cfg[k] = v
		}
		blk := models.Block{ID: b.nextID, Type: step.Type, Config: cfg}
		b.nextID++
		b.blocks = append(b.blocks, blk)

		spec, ok := schema.Lookup(blk.Type)
		if !ok {
			continue
		}
		for _, f := range spec.Fields {
			if f.Kind == schema.FieldSheet && cfg.String(f.Key) != "" {
				b.startFetch(fetchKey{id: blk.ID, field: f.Key}, sheetRef(blk, f.Key))
			}
		}
	}
}

// Snapshot returns the persisted form of the session.
func (b *Builder) Snapshot(name string) models.Pipeline {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := models.Pipeline{Name: name, Steps: make([]models.Step, 0, len(b.blocks))}
	for _, blk := range b.blocks {
		p.Steps = append(p.Steps, models.Step{Type: blk.Type, Config: blk.Config.Clone()})
	}
	return p
}

func (b *Builder) reset() {
	for key, task := range b.tasks {
		task.cancel()
		delete(b.tasks, key)
	}
	b.fetched = make(map[fetchKey][]string)
	b.blocks = nil
	b.selected = 0
}

func (b *Builder) indexOf(id int) int {
	for i, blk := range b.blocks {
		if blk.ID == id {
			return i
		}
	}
	return -1
}
