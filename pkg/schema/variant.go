package schema

import (
	"sort"
	"strings"

	"github.com/opradox/opradox-cli/pkg/models"
)

// Coerce converts a config value while it is copied into an action.
type Coerce int

const (
	AsString Coerce = iota
	AsInt
	AsFloat
	AsList
	AsBool
)

// Rename copies config key From into action key To.
type Rename struct {
	From string
	To   string
	As   Coerce
	// OmitEmpty drops the key when the value is missing.
	OmitEmpty bool
}

func (r Rename) apply(cfg models.Config, act Action) {
	if r.OmitEmpty && Missing(cfg[r.From]) {
		return
	}
	act[r.To] = coerce(cfg, r.From, r.As)
}

func coerce(cfg models.Config, key string, as Coerce) any {
	switch as {
	case AsInt:
		return cfg.Int(key, 0)
	case AsFloat:
		f, _ := cfg.Float(key)
		return f
	case AsList:
		if s, ok := cfg[key].(string); ok {
			return splitList(s)
		}
		return cfg.Strings(key)
	case AsBool:
		return cfg.Bool(key)
	}
	return cfg.String(key)
}

// Variant is one sub-kind of a block type, such as the "replace" text
// transform. CType is the backend discriminator.
type Variant struct {
	CType    string
	Required []string
	Renames  []Rename
}

// VariantTable maps the value of a block's sub-kind field to its backend
// shape. Every variant shares the Common renames.
type VariantTable struct {
	Key     string
	Default string
	Tag     string // backend "type" of the produced action
	// Discriminator is the action key carrying the variant's CType; "ctype"
	// when empty.
	Discriminator string
	Common        []Rename
	Variants      map[string]Variant
	// Name derives the output column name when the user left it blank.
	Name func(cfg models.Config, variant string) string
}

// Keys returns the variant keys in a stable order: the default first, then
// the rest sorted.
func (vt *VariantTable) Keys() []string {
	keys := []string{vt.Default}
	var rest []string
	for k := range vt.Variants {
		if k != vt.Default {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// Export builds the action for cfg. Unknown variants pass their key through as
// the ctype with only the common renames applied.
func (vt *VariantTable) Export(cfg models.Config) Action {
	key := cfg.String(vt.Key)
	if key == "" {
		key = vt.Default
	}
	v, ok := vt.Variants[key]
	if !ok {
		v = Variant{CType: key}
	}

	act := Action{"type": vt.Tag, vt.discriminator(): v.CType}
	for _, r := range vt.Common {
		r.apply(cfg, act)
	}
	for _, r := range v.Renames {
		r.apply(cfg, act)
	}
	if vt.Name != nil {
		if name := strings.TrimSpace(cfg.String("name")); name != "" {
			act["name"] = name
		} else {
			act["name"] = vt.Name(cfg, key)
		}
	}
	return act
}

func (vt *VariantTable) discriminator() string {
	if vt.Discriminator == "" {
		return "ctype"
	}
	return vt.Discriminator
}

// variantFor returns the variant key whose CType matches the action.
func (vt *VariantTable) variantFor(act Action) (string, bool) {
	if t, _ := act["type"].(string); t != vt.Tag {
		return "", false
	}
	ctype, _ := act[vt.discriminator()].(string)
	for key, v := range vt.Variants {
		if v.CType == ctype {
			return key, true
		}
	}
	return "", false
}

// Import reverses Export: it copies the action's keys back onto a copy of
// defaults. ok is false when the action was not produced by this table.
func (vt *VariantTable) Import(act Action, defaults models.Config) (models.Config, bool) {
	key, ok := vt.variantFor(act)
	if !ok {
		return nil, false
	}
	cfg := defaults.Clone()
	if cfg == nil {
		cfg = models.Config{}
	}
	if vt.Key != "" {
		cfg[vt.Key] = key
	}
	for _, r := range append(append([]Rename{}, vt.Common...), vt.Variants[key].Renames...) {
		if v, ok := act[r.To]; ok {
			cfg[r.From] = v
		}
	}
	if vt.Name != nil {
		if name, _ := act["name"].(string); name != "" && name != vt.Name(cfg, key) {
			cfg["name"] = name
		}
	}
	return cfg, true
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// crossSheet adds the secondary-source flags shared by merge, union, diff and
// validate actions. The sheet name is only present for same-file sources.
func crossSheet(cfg models.Config, act Action) {
	use := cfg.String("source_type") == models.SourceSameFileSheet
	act["use_crosssheet"] = use
	if use {
		act["crosssheet_name"] = cfg.String("source_sheet")
	}
}

func stringOr(cfg models.Config, key, def string) string {
	if v := strings.TrimSpace(cfg.String(key)); v != "" {
		return v
	}
	return def
}
