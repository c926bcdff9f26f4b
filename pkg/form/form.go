// Package form turns a block's schema into the inputs of its settings panel
// and writes edited values back into the builder.
package form

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/opradox/opradox-cli/pkg/builder"
	"github.com/opradox/opradox-cli/pkg/models"
	"github.com/opradox/opradox-cli/pkg/schema"
)

// Input is one rendered settings field.
type Input struct {
	Field    schema.Field
	Value    string
	Options  []string
	Hybrid   *models.HybridField
	Required bool
	Missing  bool
}

// Form is the settings panel of one block.
type Form struct {
	BlockID int
	Type    models.BlockType
	Title   string
	Inputs  []Input
}

// Input returns the input for key.
func (f Form) Input(key string) (Input, bool) {
	for _, in := range f.Inputs {
		if in.Field.Key == key {
			return in, true
		}
	}
	return Input{}, false
}

// Render builds the form for block id. Fields that do not apply to the
// block's current variant are left out.
func Render(b *builder.Builder, id int) (Form, bool) {
	blk, ok := b.Block(id)
	if !ok {
		return Form{}, false
	}
	spec, ok := schema.Lookup(blk.Type)
	if !ok {
		return Form{BlockID: id, Type: blk.Type, Title: string(blk.Type)}, true
	}

	required := spec.RequiredFor(blk.Config)
	variant := spec.Variant(blk.Config)
	form := Form{BlockID: id, Type: blk.Type, Title: spec.Label}

	for _, f := range spec.Fields {
		if !f.VisibleFor(variant) {
			continue
		}
		raw := blk.Config[f.Key]
		in := Input{
			Field:    f,
			Value:    blk.Config.String(f.Key),
			Required: contains(required, f.Key),
		}
		in.Missing = in.Required && schema.Missing(raw)

		switch f.Kind {
		case schema.FieldSelect:
			in.Options = f.Options
		case schema.FieldSheet:
			in.Options = b.Sheets()
		case schema.FieldColumns:
			in.Options = b.Columns(id, f.Key)
		case schema.FieldColumn:
			in.Options = b.Columns(id, f.Key)
			ref, _ := models.AsColumnRef(raw)
			h := models.HybridFromRef(ref, in.Options)
			in.Hybrid = &h
		}
		form.Inputs = append(form.Inputs, in)
	}
	return form, true
}

// Apply parses raw according to the field kind and stores it. Column fields
// entered as text are treated as manual references.
func Apply(b *builder.Builder, id int, in Input, raw string) error {
	key := in.Field.Key
	switch in.Field.Kind {
	case schema.FieldNumber:
		raw = strings.TrimSpace(raw)
		if raw == "" {
			b.UpdateConfig(id, key, "")
			return nil
		}
		if n, err := strconv.Atoi(raw); err == nil {
			b.UpdateConfig(id, key, n)
			return nil
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%s must be a number: %q", in.Field.Label, raw)
		}
		b.UpdateConfig(id, key, f)
	case schema.FieldBool:
		v, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%s must be true or false: %q", in.Field.Label, raw)
		}
		b.UpdateConfig(id, key, v)
	case schema.FieldColumns:
		b.UpdateConfig(id, key, SplitList(raw))
	case schema.FieldColumn:
		return TypeManual(b, id, key, raw)
	case schema.FieldSelect:
		raw = strings.TrimSpace(raw)
		if raw != "" && len(in.Field.Options) > 0 && !contains(in.Field.Options, raw) {
			return fmt.Errorf("%s must be one of %s", in.Field.Label, strings.Join(in.Field.Options, ", "))
		}
		b.UpdateConfig(id, key, raw)
	default:
		b.UpdateConfig(id, key, raw)
	}
	return nil
}

// ChooseOption applies a dropdown change to a hybrid column field. The manual
// side is cleared.
func ChooseOption(b *builder.Builder, id int, key, value string) error {
	h, err := current(b, id, key)
	if err != nil {
		return err
	}
	h.SelectFromList(value)
	b.SetReference(id, key, h)
	return nil
}

// TypeManual applies free text to a hybrid column field. Non-empty text
// replaces the dropdown value; empty text only clears the manual side.
func TypeManual(b *builder.Builder, id int, key, value string) error {
	h, err := current(b, id, key)
	if err != nil {
		return err
	}
	h.EnterManual(value)
	b.SetReference(id, key, h)
	return nil
}

func current(b *builder.Builder, id int, key string) (models.HybridField, error) {
	blk, ok := b.Block(id)
	if !ok {
		return models.HybridField{}, fmt.Errorf("block #%d not found", id)
	}
	if spec, ok := schema.Lookup(blk.Type); ok {
		if f, ok := spec.Field(key); !ok || f.Kind != schema.FieldColumn {
			return models.HybridField{}, fmt.Errorf("%s has no column field %q", spec.Label, key)
		}
	}
	ref, _ := models.AsColumnRef(blk.Config[key])
	return models.HybridFromRef(ref, b.Columns(id, key)), nil
}

// SplitList splits a comma separated list and drops blank entries.
func SplitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
