// Package validate checks that every block of a pipeline has its required
// fields filled in before the pipeline is run.
package validate

import (
	"fmt"
	"strings"

	"github.com/opradox/opradox-cli/pkg/models"
	"github.com/opradox/opradox-cli/pkg/schema"
)

// BlockError describes one block that failed validation.
type BlockError struct {
	BlockID       int              `json:"blockId"`
	BlockName     string           `json:"blockName"`
	Type          models.BlockType `json:"type"`
	MissingFields []string         `json:"missingFields"`
}

// Result is the outcome of validating a pipeline.
type Result struct {
	Valid          bool         `json:"valid"`
	Errors         []BlockError `json:"errors"`
	FirstInvalidID int          `json:"firstInvalidId,omitempty"`
}

// First returns the first failing block, if any.
func (r Result) First() (BlockError, bool) {
	if len(r.Errors) == 0 {
		return BlockError{}, false
	}
	return r.Errors[0], true
}

// Message renders the notice shown to the user: the first offending block and
// its missing fields, plus a count of any others.
func (r Result) Message() string {
	first, ok := r.First()
	if !ok {
		return "Pipeline is valid"
	}
	msg := fmt.Sprintf("%s (#%d) is missing: %s", first.BlockName, first.BlockID, strings.Join(first.MissingFields, ", "))
	if others := len(r.Errors) - 1; others > 0 {
		msg += fmt.Sprintf(" (and %d more invalid block", others)
		if others > 1 {
			msg += "s"
		}
		msg += ")"
	}
	return msg
}

// Pipeline validates blocks in order and collects every failing block. An
// empty pipeline is valid here; callers decide whether it may run.
func Pipeline(blocks []models.Block) Result {
	res := Result{Valid: true, Errors: []BlockError{}}
	for _, b := range blocks {
		missing := Block(b)
		if len(missing) == 0 {
			continue
		}
		res.Errors = append(res.Errors, BlockError{
			BlockID:       b.ID,
			BlockName:     BlockName(b.Type),
			Type:          b.Type,
			MissingFields: missing,
		})
		if res.Valid {
			res.Valid = false
			res.FirstInvalidID = b.ID
		}
	}
	return res
}

// Block returns the missing required fields of a single block. Blocks of an
// unknown type report "type".
func Block(b models.Block) []string {
	spec, ok := schema.Lookup(b.Type)
	if !ok {
		return []string{"type"}
	}
	cfg := b.Config
	if cfg == nil {
		cfg = models.Config{}
	}
	return schema.MissingFields(spec, cfg)
}

// BlockName is the display label of a block type.
func BlockName(t models.BlockType) string {
	if spec, ok := schema.Lookup(t); ok {
		return spec.Label
	}
	return string(t)
}
