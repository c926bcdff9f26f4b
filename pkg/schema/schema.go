// Package schema holds the per-type table of pipeline blocks: default config,
// required fields, settings descriptors and the backend export mapping. All
// four live on one Spec so they cannot drift apart.
package schema

import (
	"strings"

	"github.com/opradox/opradox-cli/pkg/models"
)

// Action is the backend-facing projection of one block.
type Action map[string]any

// FieldKind selects the input widget used for a config field.
type FieldKind string

const (
	FieldText    FieldKind = "text"
	FieldNumber  FieldKind = "number"
	FieldBool    FieldKind = "bool"
	FieldSelect  FieldKind = "select"
	FieldColumn  FieldKind = "column"  // single hybrid column reference
	FieldColumns FieldKind = "columns" // list of column names
	FieldSheet   FieldKind = "sheet"   // sheet selector; changes trigger a column refetch
	FieldColor   FieldKind = "color"
)

// Scope says which table a column field reads its options from.
type Scope string

const (
	ScopeMain      Scope = "main"
	ScopeSecondary Scope = "secondary"
)

// Field describes one settings input of a block type.
type Field struct {
	Key     string
	Label   string
	Kind    FieldKind
	Options []string
	Scope   Scope
	Help    string
	// Only limits the field to these values of the type's variant key.
	Only []string
}

// IsColumnField reports whether the field takes column names.
func (f Field) IsColumnField() bool {
	return f.Kind == FieldColumn || f.Kind == FieldColumns
}

// VisibleFor reports whether the field applies to the given variant.
func (f Field) VisibleFor(variant string) bool {
	if len(f.Only) == 0 {
		return true
	}
	for _, v := range f.Only {
		if v == variant {
			return true
		}
	}
	return false
}

// Spec is the complete description of one block type.
type Spec struct {
	Type     models.BlockType
	Label    string
	Category string
	Defaults func() models.Config
	Required []string
	Fields   []Field
	Variants *VariantTable
	Export   func(models.Config) Action
}

// Field returns the descriptor for key.
func (s Spec) Field(key string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// IsSheetField reports whether key is a sheet selector of this type.
func (s Spec) IsSheetField(key string) bool {
	f, ok := s.Field(key)
	return ok && f.Kind == FieldSheet
}

// Variant returns the active variant key value for cfg, or "" when the type
// has no variants.
func (s Spec) Variant(cfg models.Config) string {
	if s.Variants == nil {
		return ""
	}
	if v := cfg.String(s.Variants.Key); v != "" {
		return v
	}
	return s.Variants.Default
}

// RequiredFor returns the required fields for cfg: the static list followed
// by any extras of the active variant.
func (s Spec) RequiredFor(cfg models.Config) []string {
	required := append([]string{}, s.Required...)
	if s.Variants == nil {
		return required
	}
	if v, ok := s.Variants.Variants[s.Variant(cfg)]; ok {
		for _, key := range v.Required {
			if !contains(required, key) {
				required = append(required, key)
			}
		}
	}
	return required
}

// Categories in palette order
const (
	CategorySource    = "Data"
	CategoryTransform = "Transform"
	CategoryDerive    = "Derive"
	CategoryCompare   = "Compare"
	CategoryPresent   = "Present"
)

var (
	specs = concat(
		sourceSpecs(),
		transformSpecs(),
		deriveSpecs(),
		compareSpecs(),
		presentSpecs(),
	)
	table = index(specs)
)

func concat(groups ...[]Spec) []Spec {
	var out []Spec
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func index(all []Spec) map[models.BlockType]Spec {
	m := make(map[models.BlockType]Spec, len(all))
	for _, s := range all {
		m[s.Type] = s
	}
	return m
}

// Lookup returns the spec for t.
func Lookup(t models.BlockType) (Spec, bool) {
	s, ok := table[t]
	return s, ok
}

// MustLookup returns the spec for t and panics for unknown types.
func MustLookup(t models.BlockType) Spec {
	s, ok := table[t]
	if !ok {
		panic("schema: unknown block type " + string(t))
	}
	return s
}

// ImportVariant finds the variant table that produced act and rebuilds the
// block config from it.
func ImportVariant(act Action) (models.BlockType, models.Config, bool) {
	for _, s := range specs {
		if s.Variants == nil {
			continue
		}
		if cfg, ok := s.Variants.Import(act, s.Defaults()); ok {
			return s.Type, cfg, true
		}
	}
	return "", nil, false
}

// IsKnown reports whether t is part of the closed block type set.
func IsKnown(t models.BlockType) bool {
	_, ok := table[t]
	return ok
}

// Types returns all block types in palette order.
func Types() []models.BlockType {
	out := make([]models.BlockType, len(specs))
	for i, s := range specs {
		out[i] = s.Type
	}
	return out
}

// Specs returns all specs in palette order.
func Specs() []Spec {
	return append([]Spec(nil), specs...)
}

// Defaults returns a fresh default config for t, or an empty config for
// unknown types.
func Defaults(t models.BlockType) models.Config {
	if s, ok := table[t]; ok {
		return s.Defaults()
	}
	return models.Config{}
}

// Missing reports whether a config value counts as not filled in: nil, an
// empty or blank string, an empty column reference or an empty list.
func Missing(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case models.ColumnRef:
		return val.IsZero()
	case *models.ColumnRef:
		return val == nil || val.IsZero()
	case []string:
		return len(val) == 0
	case []any:
		return len(val) == 0
	case models.Config:
		return Missing(map[string]any(val))
	case map[string]any:
		if ref, ok := models.AsColumnRef(val); ok {
			return ref.IsZero()
		}
		return len(val) == 0
	}
	return false
}

// MissingFields lists the required fields of spec that are missing in cfg, in
// table order.
func MissingFields(spec Spec, cfg models.Config) []string {
	var missing []string
	for _, key := range spec.RequiredFor(cfg) {
		if Missing(cfg[key]) {
			missing = append(missing, key)
		}
	}
	return missing
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
