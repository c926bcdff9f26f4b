package schema

import (
	"github.com/opradox/opradox-cli/pkg/models"
)

func compareSpecs() []Spec {
	return []Spec{
		{
			Type:     models.BlockUnion,
			Label:    "Union",
			Category: CategoryCompare,
			Defaults: func() models.Config {
				return models.Config{
					"source_type":     models.SourceSecondFile,
					"source_sheet":    "",
					"drop_duplicates": false,
				}
			},
			Fields: append(secondarySource(),
				Field{Key: "drop_duplicates", Label: "Drop duplicate rows", Kind: FieldBool},
			),
			Export: func(cfg models.Config) Action {
				act := Action{"type": "union", "drop_duplicates": cfg.Bool("drop_duplicates")}
				crossSheet(cfg, act)
				return act
			},
		},
		{
			Type:     models.BlockDiff,
			Label:    "Difference",
			Category: CategoryCompare,
			Defaults: func() models.Config {
				return models.Config{
					"source_type":  models.SourceSecondFile,
					"source_sheet": "",
					"main_key":     "",
					"source_key":   "",
				}
			},
			Required: []string{"main_key", "source_key"},
			Fields: append(secondarySource(),
				Field{Key: "main_key", Label: "Key in main table", Kind: FieldColumn, Scope: ScopeMain},
				Field{Key: "source_key", Label: "Key in second table", Kind: FieldColumn, Scope: ScopeSecondary},
			),
			Export: func(cfg models.Config) Action {
				act := Action{
					"type":     "diff",
					"left_on":  cfg.String("main_key"),
					"right_on": cfg.String("source_key"),
				}
				crossSheet(cfg, act)
				return act
			},
		},
		{
			Type:     models.BlockValidate,
			Label:    "Validate",
			Category: CategoryCompare,
			Defaults: func() models.Config {
				return models.Config{
					"column":           "",
					"source_type":      models.SourceSecondFile,
					"source_sheet":     "",
					"reference_column": "",
					"result_column":    "Validation",
					"valid_label":      "Valid",
					"invalid_label":    "Invalid",
				}
			},
			Required: []string{"column", "reference_column"},
			Fields: append([]Field{
				{Key: "column", Label: "Column to check", Kind: FieldColumn, Scope: ScopeMain}},
				append(secondarySource(),
					Field{Key: "reference_column", Label: "Reference column", Kind: FieldColumn, Scope: ScopeSecondary},
					Field{Key: "result_column", Label: "Result column", Kind: FieldText},
					Field{Key: "valid_label", Label: "Valid label", Kind: FieldText},
					Field{Key: "invalid_label", Label: "Invalid label", Kind: FieldText},
				)...,
			),
			Export: func(cfg models.Config) Action {
				act := Action{
					"type":             "validate",
					"column":           cfg.String("column"),
					"reference_column": cfg.String("reference_column"),
					"result_column":    stringOr(cfg, "result_column", "Validation"),
					"valid_label":      stringOr(cfg, "valid_label", "Valid"),
					"invalid_label":    stringOr(cfg, "invalid_label", "Invalid"),
				}
				crossSheet(cfg, act)
				return act
			},
		},
	}
}
