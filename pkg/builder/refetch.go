package builder

import (
	"context"
	"errors"
	"fmt"

	"github.com/opradox/opradox-cli/pkg/models"
)

// Files a sheet can belong to
const (
	FileMain   = "main"
	FileSecond = "second"
)

// SheetRef names one sheet of one of the session's input files.
type SheetRef struct {
	File  string
	Sheet string
}

func (r SheetRef) String() string {
	return r.File + ":" + r.Sheet
}

// ColumnSource returns the header columns of a sheet. The backend client and
// the local workbook reader both implement it.
type ColumnSource interface {
	Columns(ctx context.Context, ref SheetRef) ([]string, error)
}

// ColumnSourceFunc adapts a function to ColumnSource.
type ColumnSourceFunc func(ctx context.Context, ref SheetRef) ([]string, error)

func (f ColumnSourceFunc) Columns(ctx context.Context, ref SheetRef) ([]string, error) {
	return f(ctx, ref)
}

// EventKind classifies background fetch outcomes.
type EventKind int

const (
	EventColumnsLoaded EventKind = iota
	EventColumnsFailed
)

// Event reports the outcome of a column refetch.
type Event struct {
	Kind    EventKind
	BlockID int
	Field   string
	Sheet   SheetRef
	Columns []string
	Err     error
}

// Message is the transient notice shown for the event.
func (e Event) Message() string {
	switch e.Kind {
	case EventColumnsFailed:
		return fmt.Sprintf("Could not load columns of sheet %q: %v", e.Sheet.Sheet, e.Err)
	default:
		return fmt.Sprintf("Loaded %d columns from sheet %q", len(e.Columns), e.Sheet.Sheet)
	}
}

type fetchKey struct {
	id    int
	field string
}

type fetchTask struct {
	gen    uint64
	cancel context.CancelFunc
}

// sheetRef works out which file and sheet a sheet selector points at.
func sheetRef(blk models.Block, key string) SheetRef {
	file := FileMain
	if blk.Type == models.BlockDataSource && blk.Config.String("source") == FileSecond {
		file = FileSecond
	}
	return SheetRef{File: file, Sheet: blk.Config.String(key)}
}

// startFetch supersedes any running fetch for key. Callers hold b.mu.
func (b *Builder) startFetch(key fetchKey, ref SheetRef) {
	if prev, ok := b.tasks[key]; ok {
		prev.cancel()
		delete(b.tasks, key)
	}
	if ref.Sheet == "" {
		delete(b.fetched, key)
		return
	}
	if b.source == nil {
		b.logger.Debug("no column source, skipping refetch", "block", key.id, "field", key.field)
		return
	}

	b.generation++
	gen := b.generation
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	b.tasks[key] = &fetchTask{gen: gen, cancel: cancel}

	b.wg.Add(1)
	go b.fetch(ctx, cancel, key, gen, ref)
}

func (b *Builder) fetch(ctx context.Context, cancel context.CancelFunc, key fetchKey, gen uint64, ref SheetRef) {
	defer b.wg.Done()
	defer cancel()

	cols, err := b.source.Columns(ctx, ref)

	b.mu.Lock()
	task, ok := b.tasks[key]
	current := ok && task.gen == gen
	if current {
		delete(b.tasks, key)
		if err == nil {
			b.fetched[key] = append([]string(nil), cols...)
		}
	}
	b.mu.Unlock()

	if !current {
		b.logger.Debug("dropped superseded column fetch", "block", key.id, "field", key.field, "sheet", ref.Sheet)
		return
	}
	ev := Event{BlockID: key.id, Field: key.field, Sheet: ref, Columns: cols}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		b.logger.Warn("column refetch failed", "block", key.id, "field", key.field, "sheet", ref.String(), "error", err)
		ev.Kind = EventColumnsFailed
		ev.Columns = nil
		ev.Err = err
	} else {
		b.logger.Debug("column refetch done", "block", key.id, "field", key.field, "columns", len(cols))
		ev.Kind = EventColumnsLoaded
	}
	if b.notify != nil {
		b.notify(ev)
	}
}

// dropBlockFetches cancels and forgets everything fetched for block id.
// Callers hold b.mu.
func (b *Builder) dropBlockFetches(id int) {
	for key, task := range b.tasks {
		if key.id == id {
			task.cancel()
			delete(b.tasks, key)
		}
	}
	for key := range b.fetched {
		if key.id == id {
			delete(b.fetched, key)
		}
	}
}

// Wait blocks until every started refetch has finished.
func (b *Builder) Wait() {
	b.wg.Wait()
}

// Pending reports whether a refetch for the block field is in flight.
func (b *Builder) Pending(id int, field string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.tasks[fetchKey{id: id, field: field}]
	return ok
}
