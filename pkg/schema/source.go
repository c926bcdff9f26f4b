package schema

import (
	"github.com/opradox/opradox-cli/pkg/models"
)

var (
	sourceTypes = []string{models.SourceSecondFile, models.SourceSameFileSheet}
	joinTypes   = []string{"vlookup", "left", "inner", "outer", "right"}
)

// secondarySource returns the two fields that pick the second table.
func secondarySource() []Field {
	return []Field{
		{Key: "source_type", Label: "Second table", Kind: FieldSelect, Options: sourceTypes,
			Help: "second uploaded file, or another sheet of the main file"},
		{Key: "source_sheet", Label: "Sheet", Kind: FieldSheet, Scope: ScopeMain,
			Help: "used when the second table is a sheet of the same file"},
	}
}

func sourceSpecs() []Spec {
	return []Spec{
		{
			Type:     models.BlockDataSource,
			Label:    "Data Source",
			Category: CategorySource,
			Defaults: func() models.Config {
				return models.Config{"source": "main", "sheet": ""}
			},
			Fields: []Field{
				{Key: "source", Label: "File", Kind: FieldSelect, Options: []string{"main", "second"}},
				{Key: "sheet", Label: "Sheet", Kind: FieldSheet, Scope: ScopeMain},
			},
			Export: func(cfg models.Config) Action {
				act := Action{"type": "data_source", "source": stringOr(cfg, "source", "main")}
				if sheet := cfg.String("sheet"); sheet != "" {
					act["sheet_name"] = sheet
				}
				return act
			},
		},
		{
			Type:     models.BlockLookupJoin,
			Label:    "Lookup / Join",
			Category: CategorySource,
			Defaults: func() models.Config {
				return models.Config{
					"source_type":   models.SourceSecondFile,
					"source_sheet":  "",
					"main_key":      "",
					"source_key":    "",
					"join_type":     "vlookup",
					"fetch_columns": []string{},
				}
			},
			Required: []string{"main_key", "source_key"},
			Fields: append(secondarySource(),
				Field{Key: "main_key", Label: "Key in main table", Kind: FieldColumn, Scope: ScopeMain},
				Field{Key: "source_key", Label: "Key in second table", Kind: FieldColumn, Scope: ScopeSecondary},
				Field{Key: "join_type", Label: "Join", Kind: FieldSelect, Options: joinTypes},
				Field{Key: "fetch_columns", Label: "Columns to bring", Kind: FieldColumns, Scope: ScopeSecondary},
			),
			Export: func(cfg models.Config) Action {
				how := cfg.String("join_type")
				if how == "vlookup" || how == "" {
					how = "left"
				}
				act := Action{
					"type":           "merge",
					"left_on":        cfg.String("main_key"),
					"right_on":       cfg.String("source_key"),
					"how":            how,
					"columns_to_add": cfg.Strings("fetch_columns"),
				}
				crossSheet(cfg, act)
				return act
			},
		},
	}
}
