package schema

import (
	"github.com/opradox/opradox-cli/pkg/models"
)

var chartTypes = []string{"bar", "line", "pie", "scatter", "area", "histogram"}

var colored = []Rename{{From: "color", To: "color"}}

var valueRule = Variant{
	Required: []string{"value"},
	Renames:  append(colored, Rename{From: "value", To: "value"}),
}

func withCType(v Variant, ctype string) Variant {
	v.CType = ctype
	return v
}

var formatRules = &VariantTable{
	Key:           "cf_type",
	Default:       "color_scale",
	Tag:           "conditional_format",
	Discriminator: "cf_type",
	Common:        []Rename{{From: "column", To: "column"}},
	Variants: map[string]Variant{
		"color_scale": {CType: "color_scale", Renames: []Rename{
			{From: "min_color", To: "min_color"},
			{From: "max_color", To: "max_color"},
		}},
		"data_bar":     {CType: "data_bar", Renames: colored},
		"duplicates":   {CType: "duplicates", Renames: colored},
		"unique":       {CType: "unique", Renames: colored},
		"top_n":        {CType: "top_n", Renames: append(colored, Rename{From: "rank", To: "n", As: AsInt})},
		"bottom_n":     {CType: "bottom_n", Renames: append(colored, Rename{From: "rank", To: "n", As: AsInt})},
		"greater_than": withCType(valueRule, "greater_than"),
		"less_than":    withCType(valueRule, "less_than"),
		"equals":       withCType(valueRule, "equals"),
		"contains":     withCType(valueRule, "contains"),
	},
}

func presentSpecs() []Spec {
	return []Spec{
		{
			Type:     models.BlockChart,
			Label:    "Chart",
			Category: CategoryPresent,
			Defaults: func() models.Config {
				return models.Config{
					"chart_type": "bar",
					"x_column":   "",
					"y_column":   "",
					"title":      "",
					"aggfunc":    "sum",
				}
			},
			Required: []string{"x_column", "y_column"},
			Fields: []Field{
				{Key: "chart_type", Label: "Chart", Kind: FieldSelect, Options: chartTypes},
				{Key: "x_column", Label: "X axis", Kind: FieldColumn, Scope: ScopeMain},
				{Key: "y_column", Label: "Y axis", Kind: FieldColumn, Scope: ScopeMain},
				{Key: "title", Label: "Title", Kind: FieldText},
				{Key: "aggfunc", Label: "Aggregation", Kind: FieldSelect, Options: aggFuncs},
			},
			Export: func(cfg models.Config) Action {
				return Action{
					"type":       "chart",
					"chart_type": stringOr(cfg, "chart_type", "bar"),
					"x_column":   cfg.String("x_column"),
					"y_column":   cfg.String("y_column"),
					"title":      cfg.String("title"),
					"agg_func":   stringOr(cfg, "aggfunc", "sum"),
				}
			},
		},
		{
			Type:     models.BlockConditionalFormat,
			Label:    "Conditional Format",
			Category: CategoryPresent,
			Defaults: func() models.Config {
				return models.Config{
					"column":    "",
					"cf_type":   "color_scale",
					"value":     "",
					"color":     "#FFC7CE",
					"min_color": "#F8696B",
					"max_color": "#63BE7B",
					"rank":      10,
				}
			},
			Required: []string{"column", "cf_type"},
			Fields: []Field{
				{Key: "column", Label: "Column", Kind: FieldColumn, Scope: ScopeMain},
				{Key: "cf_type", Label: "Rule", Kind: FieldSelect, Options: optionsOf(formatRules)},
				{Key: "value", Label: "Value", Kind: FieldText,
					Only: []string{"greater_than", "less_than", "equals", "contains"}},
				{Key: "color", Label: "Color", Kind: FieldColor,
					Only: []string{"data_bar", "duplicates", "unique", "top_n", "bottom_n", "greater_than", "less_than", "equals", "contains"}},
				{Key: "min_color", Label: "Low color", Kind: FieldColor, Only: []string{"color_scale"}},
				{Key: "max_color", Label: "High color", Kind: FieldColor, Only: []string{"color_scale"}},
				{Key: "rank", Label: "N", Kind: FieldNumber, Only: []string{"top_n", "bottom_n"}},
			},
			Variants: formatRules,
			Export:   formatRules.Export,
		},
		{
			Type:     models.BlockOutputSettings,
			Label:    "Output Settings",
			Category: CategoryPresent,
			Defaults: func() models.Config {
				return models.Config{
					"freeze_header": true,
					"autofit":       true,
					"number_format": "",
					"sheet_name":    "Result",
					"header_color":  "#4472C4",
				}
			},
			Fields: []Field{
				{Key: "freeze_header", Label: "Freeze header row", Kind: FieldBool},
				{Key: "autofit", Label: "Autofit columns", Kind: FieldBool},
				{Key: "number_format", Label: "Number format", Kind: FieldText, Help: "e.g. #,##0.00"},
				{Key: "sheet_name", Label: "Sheet name", Kind: FieldText},
				{Key: "header_color", Label: "Header color", Kind: FieldColor},
			},
			Export: func(cfg models.Config) Action {
				act := Action{
					"type":          "output",
					"freeze_header": cfg.Bool("freeze_header"),
					"auto_fit":      cfg.Bool("autofit"),
					"sheet_name":    stringOr(cfg, "sheet_name", "Result"),
					"header_color":  cfg.String("header_color"),
				}
				if nf := cfg.String("number_format"); nf != "" {
					act["number_format"] = nf
				}
				return act
			},
		},
	}
}
