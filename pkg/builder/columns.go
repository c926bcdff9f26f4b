package builder

import (
	"github.com/opradox/opradox-cli/pkg/models"
	"github.com/opradox/opradox-cli/pkg/schema"
)

// SetMainColumns replaces the columns of the main file's active sheet.
func (b *Builder) SetMainColumns(cols []string) {
	b.mu.Lock()
	b.mainCols = append([]string(nil), cols...)
	b.mu.Unlock()
}

// SetSecondaryColumns replaces the columns of the second file.
func (b *Builder) SetSecondaryColumns(cols []string) {
	b.mu.Lock()
	b.secondaryCols = append([]string(nil), cols...)
	b.mu.Unlock()
}

// SetSheets replaces the sheet names offered by sheet selectors.
func (b *Builder) SetSheets(sheets []string) {
	b.mu.Lock()
	b.sheets = append([]string(nil), sheets...)
	b.mu.Unlock()
}

func (b *Builder) Sheets() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.sheets...)
}

// Columns returns the options for column field key of block id.
//
// Main-table fields read the columns of the nearest data_source above the
// block whose sheet has been fetched, falling back to the main columns.
// Second-table fields read the block's own fetched sheet when it joins
// against another sheet of the same file, else the second file's columns.
func (b *Builder) Columns(id int, key string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := b.indexOf(id)
	if idx < 0 {
		return nil
	}
	blk := b.blocks[idx]

	scope := schema.ScopeMain
	if spec, ok := schema.Lookup(blk.Type); ok {
		if f, ok := spec.Field(key); ok && f.Scope != "" {
			scope = f.Scope
		}
	}

	if scope == schema.ScopeSecondary {
		if blk.Config.String("source_type") == models.SourceSameFileSheet {
			if cols, ok := b.fetched[fetchKey{id: id, field: "source_sheet"}]; ok {
				return append([]string(nil), cols...)
			}
		}
		return append([]string(nil), b.secondaryCols...)
	}

	for i := idx - 1; i >= 0; i-- {
		if b.blocks[i].Type != models.BlockDataSource {
			continue
		}
		if cols, ok := b.fetched[fetchKey{id: b.blocks[i].ID, field: "sheet"}]; ok {
			return append([]string(nil), cols...)
		}
		break
	}
	return append([]string(nil), b.mainCols...)
}

// FetchedColumns returns the cached columns of a sheet selector, if loaded.
func (b *Builder) FetchedColumns(id int, field string) ([]string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	cols, ok := b.fetched[fetchKey{id: id, field: field}]
	return append([]string(nil), cols...), ok
}
