package models

import "strings"

// RefSource records which side of a hybrid input produced a column reference.
type RefSource string

const (
	RefList   RefSource = "list"
	RefManual RefSource = "manual"
)

// ColumnRef is a resolved column reference.
type ColumnRef struct {
	Source RefSource `yaml:"source" json:"source"`
	Value  string    `yaml:"value" json:"value"`
}

// IsZero reports whether the reference names no column.
func (r ColumnRef) IsZero() bool {
	return strings.TrimSpace(r.Value) == ""
}

func (r ColumnRef) String() string {
	return r.Value
}

// HybridField holds both sides of a column input: a value picked from the
// backend column list and a manually typed fallback. At most one side is set.
type HybridField struct {
	List   string
	Manual string
}

// SelectFromList sets the dropdown side and clears any stale manual entry.
func (h *HybridField) SelectFromList(value string) {
	h.List = value
	h.Manual = ""
}

// EnterManual sets the manual side. A non-empty entry clears the dropdown;
// an empty entry only clears the manual side.
func (h *HybridField) EnterManual(value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		h.Manual = ""
		return
	}
	h.Manual = value
	h.List = ""
}

// Resolve returns the effective reference. Manual entry wins when non-empty.
func (h HybridField) Resolve() ColumnRef {
	if strings.TrimSpace(h.Manual) != "" {
		return ColumnRef{Source: RefManual, Value: strings.TrimSpace(h.Manual)}
	}
	return ColumnRef{Source: RefList, Value: h.List}
}

// HybridFromRef seeds a hybrid field from a stored reference. Values that are
// not in options are treated as manual entries.
func HybridFromRef(ref ColumnRef, options []string) HybridField {
	if ref.IsZero() {
		return HybridField{}
	}
	if ref.Source == RefManual {
		return HybridField{Manual: ref.Value}
	}
	for _, opt := range options {
		if opt == ref.Value {
			return HybridField{List: ref.Value}
		}
	}
	if len(options) == 0 {
		return HybridField{List: ref.Value}
	}
	return HybridField{Manual: ref.Value}
}

// AsColumnRef converts the config representations of a reference into a
// ColumnRef: the struct itself, its YAML/JSON map form, or a plain string.
func AsColumnRef(v any) (ColumnRef, bool) {
	switch val := v.(type) {
	case ColumnRef:
		return val, true
	case *ColumnRef:
		if val == nil {
			return ColumnRef{}, false
		}
		return *val, true
	case string:
		return ColumnRef{Source: RefList, Value: val}, true
	case Config:
		// yaml.v3 decodes nested mappings of a Config as Config
		return AsColumnRef(map[string]any(val))
	case map[string]any:
		value, ok := val["value"].(string)
		if !ok {
			return ColumnRef{}, false
		}
		source, _ := val["source"].(string)
		if source == "" {
			source = string(RefList)
		}
		return ColumnRef{Source: RefSource(source), Value: value}, true
	}
	return ColumnRef{}, false
}
