package schema

import (
	"strings"

	"github.com/opradox/opradox-cli/pkg/models"
)

func derivedName(cfg models.Config, variant string) string {
	col := strings.TrimSpace(cfg.String("column"))
	if col == "" {
		return variant + "_result"
	}
	return col + "_" + variant
}

var textTransforms = &VariantTable{
	Key:     "transform_type",
	Default: "trim",
	Tag:     "computed",
	Common:  []Rename{{From: "column", To: "column"}},
	Name:    derivedName,
	Variants: map[string]Variant{
		"trim":               {CType: "text_trim"},
		"upper":              {CType: "text_upper"},
		"lower":              {CType: "text_lower"},
		"title":              {CType: "text_title"},
		"remove_digits":      {CType: "text_remove_digits"},
		"remove_punctuation": {CType: "text_remove_punctuation"},
		"extract_digits":     {CType: "text_extract_digits"},
		"length":             {CType: "text_length"},
		"replace": {
			CType:    "text_replace",
			Required: []string{"pattern"},
			Renames: []Rename{
				{From: "pattern", To: "find"},
				{From: "replacement", To: "replace_with"},
			},
		},
		"regex_extract": {
			CType:    "regex_extract",
			Required: []string{"pattern"},
			Renames:  []Rename{{From: "pattern", To: "regex"}},
		},
		"left": {
			CType:    "text_left",
			Required: []string{"length"},
			Renames:  []Rename{{From: "length", To: "n", As: AsInt}},
		},
		"right": {
			CType:    "text_right",
			Required: []string{"length"},
			Renames:  []Rename{{From: "length", To: "n", As: AsInt}},
		},
	},
}

var dateColumn = []Rename{{From: "column", To: "date_column"}}

var advancedComputations = &VariantTable{
	Key:     "adv_type",
	Default: "zscore",
	Tag:     "computed",
	Name:    derivedName,
	Variants: map[string]Variant{
		"zscore":          {CType: "zscore", Renames: []Rename{{From: "column", To: "column"}}},
		"percentile_rank": {CType: "percentile_rank", Renames: []Rename{{From: "column", To: "column"}}},
		"abs":             {CType: "abs", Renames: []Rename{{From: "column", To: "column"}}},
		"log":             {CType: "log", Renames: []Rename{{From: "column", To: "column"}}},
		"round": {CType: "round", Renames: []Rename{
			{From: "column", To: "column"},
			{From: "decimals", To: "decimals", As: AsInt},
		}},
		"age": {CType: "age", Renames: append(dateColumn,
			Rename{From: "reference_date", To: "reference_date", OmitEmpty: true})},
		"days_since": {CType: "days_since", Renames: append(dateColumn,
			Rename{From: "reference_date", To: "reference_date", OmitEmpty: true})},
		"weekday":    {CType: "weekday", Renames: dateColumn},
		"month_name": {CType: "month_name", Renames: dateColumn},
		"quarter":    {CType: "quarter", Renames: dateColumn},
		"year":       {CType: "year", Renames: dateColumn},
		"split": {
			CType:    "split",
			Required: []string{"separator"},
			Renames: []Rename{
				{From: "column", To: "column"},
				{From: "separator", To: "delimiter"},
				{From: "part_index", To: "index", As: AsInt},
			},
		},
	},
}

var conditionals = &VariantTable{
	Key:     "",
	Default: "if_else",
	Tag:     "computed",
	Variants: map[string]Variant{
		"if_else": {CType: "if_else", Renames: []Rename{
			{From: "name", To: "name"},
			{From: "condition_column", To: "column"},
			{From: "operator", To: "op"},
			{From: "condition_value", To: "compare_value"},
			{From: "then_value", To: "true_value"},
			{From: "else_value", To: "false_value"},
		}},
	},
}

var formulas = &VariantTable{
	Key:     "",
	Default: "formula",
	Tag:     "computed",
	Variants: map[string]Variant{
		"formula": {CType: "formula", Renames: []Rename{
			{From: "name", To: "name"},
			{From: "expression", To: "formula"},
		}},
	},
}

func optionsOf(vt *VariantTable) []string {
	return vt.Keys()
}

func deriveSpecs() []Spec {
	return []Spec{
		{
			Type:     models.BlockTextTransform,
			Label:    "Text Transform",
			Category: CategoryDerive,
			Defaults: func() models.Config {
				return models.Config{
					"transform_type": "trim",
					"column":         "",
					"name":           "",
					"pattern":        "",
					"replacement":    "",
					"length":         1,
				}
			},
			Required: []string{"column"},
			Fields: []Field{
				{Key: "transform_type", Label: "Operation", Kind: FieldSelect, Options: optionsOf(textTransforms)},
				{Key: "column", Label: "Column", Kind: FieldColumn, Scope: ScopeMain},
				{Key: "name", Label: "New column", Kind: FieldText, Help: "blank for column_operation"},
				{Key: "pattern", Label: "Pattern", Kind: FieldText, Only: []string{"replace", "regex_extract"}},
				{Key: "replacement", Label: "Replace with", Kind: FieldText, Only: []string{"replace"}},
				{Key: "length", Label: "Characters", Kind: FieldNumber, Only: []string{"left", "right"}},
			},
			Variants: textTransforms,
			Export:   textTransforms.Export,
		},
		{
			Type:     models.BlockAdvancedComputed,
			Label:    "Advanced Computed",
			Category: CategoryDerive,
			Defaults: func() models.Config {
				return models.Config{
					"adv_type":       "zscore",
					"column":         "",
					"name":           "",
					"separator":      "-",
					"part_index":     0,
					"decimals":       2,
					"reference_date": "",
				}
			},
			Required: []string{"column"},
			Fields: []Field{
				{Key: "adv_type", Label: "Computation", Kind: FieldSelect, Options: optionsOf(advancedComputations)},
				{Key: "column", Label: "Column", Kind: FieldColumn, Scope: ScopeMain},
				{Key: "name", Label: "New column", Kind: FieldText},
				{Key: "separator", Label: "Separator", Kind: FieldText, Only: []string{"split"}},
				{Key: "part_index", Label: "Part", Kind: FieldNumber, Only: []string{"split"}},
				{Key: "decimals", Label: "Decimals", Kind: FieldNumber, Only: []string{"round"}},
				{Key: "reference_date", Label: "Reference date", Kind: FieldText, Only: []string{"age", "days_since"},
					Help: "YYYY-MM-DD, blank for today"},
			},
			Variants: advancedComputations,
			Export:   advancedComputations.Export,
		},
		{
			Type:     models.BlockIfElse,
			Label:    "If / Else",
			Category: CategoryDerive,
			Defaults: func() models.Config {
				return models.Config{
					"name":             "",
					"condition_column": "",
					"operator":         "equals",
					"condition_value":  "",
					"then_value":       "",
					"else_value":       "",
				}
			},
			Required: []string{"name", "condition_column", "then_value"},
			Fields: []Field{
				{Key: "name", Label: "New column", Kind: FieldText},
				{Key: "condition_column", Label: "If column", Kind: FieldColumn, Scope: ScopeMain},
				{Key: "operator", Label: "Operator", Kind: FieldSelect, Options: filterOperators[:10]},
				{Key: "condition_value", Label: "Value", Kind: FieldText},
				{Key: "then_value", Label: "Then", Kind: FieldText},
				{Key: "else_value", Label: "Else", Kind: FieldText},
			},
			Variants: conditionals,
			Export:   conditionals.Export,
		},
		{
			Type:     models.BlockFormula,
			Label:    "Formula",
			Category: CategoryDerive,
			Defaults: func() models.Config {
				return models.Config{"name": "", "expression": ""}
			},
			Required: []string{"name", "expression"},
			Fields: []Field{
				{Key: "name", Label: "New column", Kind: FieldText},
				{Key: "expression", Label: "Expression", Kind: FieldText,
					Help: "column names and $Variables, e.g. [Price] * $Rate"},
			},
			Variants: formulas,
			Export:   formulas.Export,
		},
		{
			Type:     models.BlockWhatIfVariable,
			Label:    "What-If Variable",
			Category: CategoryDerive,
			Defaults: func() models.Config {
				return models.Config{"name": "", "value": 0.0}
			},
			Required: []string{"name"},
			Fields: []Field{
				{Key: "name", Label: "Name", Kind: FieldText, Help: "referenced as $Name in formulas"},
				{Key: "value", Label: "Value", Kind: FieldNumber},
			},
			Export: func(cfg models.Config) Action {
				return Action{
					"type":  "variable",
					"name":  strings.TrimPrefix(strings.TrimSpace(cfg.String("name")), "$"),
					"value": coerce(cfg, "value", AsFloat),
				}
			},
		},
	}
}
