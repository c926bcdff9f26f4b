package schema

import (
	"fmt"

	"github.com/opradox/opradox-cli/pkg/models"
)

var (
	filterOperators = []string{
		"equals", "not_equals", "contains", "not_contains", "starts_with", "ends_with",
		"greater_than", "less_than", "greater_equal", "less_equal",
		"is_null", "not_null", "in_list", "not_in_list",
	}
	computedTypes = []string{"arithmetic", "concat", "date_diff", "percent_change"}
	arithmeticOps = []string{"+", "-", "*", "/"}
	analysisTypes = []string{"ytd_sum", "mtd_sum", "yoy_change", "qoq_change", "running_total", "moving_avg"}
	windowTypes   = []string{
		"rank", "dense_rank", "row_number", "percent_rank", "ntile",
		"cumsum", "cumulative_pct", "lag", "lead",
	}
	aggFuncs     = []string{"sum", "mean", "count", "min", "max", "median", "nunique"}
	percentTypes = []string{"", "row", "column", "total"}
	directions   = []string{"asc", "desc"}
)

func transformSpecs() []Spec {
	return []Spec{
		{
			Type:     models.BlockFilter,
			Label:    "Filter",
			Category: CategoryTransform,
			Defaults: func() models.Config {
				return models.Config{"column": "", "operator": "equals", "value": ""}
			},
			Required: []string{"column", "operator"},
			Fields: []Field{
				{Key: "column", Label: "Column", Kind: FieldColumn, Scope: ScopeMain},
				{Key: "operator", Label: "Operator", Kind: FieldSelect, Options: filterOperators},
				{Key: "value", Label: "Value", Kind: FieldText, Help: "comma separated for in_list"},
			},
			Export: func(cfg models.Config) Action {
				op := cfg.String("operator")
				act := Action{"type": "filter", "column": cfg.String("column"), "operator": op}
				switch op {
				case "in_list", "not_in_list":
					act["value"] = coerce(cfg, "value", AsList)
				default:
					act["value"] = cfg.String("value")
				}
				return act
			},
		},
		{
			Type:     models.BlockSort,
			Label:    "Sort",
			Category: CategoryTransform,
			Defaults: func() models.Config {
				return models.Config{"column": "", "direction": "asc"}
			},
			Required: []string{"column"},
			Fields: []Field{
				{Key: "column", Label: "Column", Kind: FieldColumn, Scope: ScopeMain},
				{Key: "direction", Label: "Direction", Kind: FieldSelect, Options: directions},
			},
			Export: func(cfg models.Config) Action {
				return Action{
					"type":      "sort",
					"column":    cfg.String("column"),
					"ascending": stringOr(cfg, "direction", "asc") == "asc",
				}
			},
		},
		{
			Type:     models.BlockGrouping,
			Label:    "Group By",
			Category: CategoryTransform,
			Defaults: func() models.Config {
				return models.Config{"groups": []string{}, "agg_column": "", "agg_func": "sum", "alias": ""}
			},
			Required: []string{"groups", "agg_column"},
			Fields: []Field{
				{Key: "groups", Label: "Group columns", Kind: FieldColumns, Scope: ScopeMain},
				{Key: "agg_column", Label: "Value column", Kind: FieldColumn, Scope: ScopeMain},
				{Key: "agg_func", Label: "Aggregation", Kind: FieldSelect, Options: aggFuncs},
				{Key: "alias", Label: "Result name", Kind: FieldText},
			},
			Export: func(cfg models.Config) Action {
				act := Action{
					"type":       "grouping",
					"groupby":    cfg.Strings("groups"),
					"agg_column": cfg.String("agg_column"),
					"agg_func":   stringOr(cfg, "agg_func", "sum"),
				}
				if alias := cfg.String("alias"); alias != "" {
					act["alias"] = alias
				}
				return act
			},
		},
		{
			Type:     models.BlockComputed,
			Label:    "Computed Column",
			Category: CategoryTransform,
			Defaults: func() models.Config {
				return models.Config{
					"name":          "",
					"computed_type": "arithmetic",
					"column_a":      "",
					"operator":      "+",
					"column_b":      "",
					"constant":      "",
					"separator":     " ",
				}
			},
			Required: []string{"name", "column_a"},
			Fields: []Field{
				{Key: "name", Label: "New column", Kind: FieldText},
				{Key: "computed_type", Label: "Kind", Kind: FieldSelect, Options: computedTypes},
				{Key: "column_a", Label: "First column", Kind: FieldColumn, Scope: ScopeMain},
				{Key: "operator", Label: "Operator", Kind: FieldSelect, Options: arithmeticOps},
				{Key: "column_b", Label: "Second column", Kind: FieldColumn, Scope: ScopeMain},
				{Key: "constant", Label: "Constant", Kind: FieldNumber, Help: "used when no second column is set"},
				{Key: "separator", Label: "Separator", Kind: FieldText, Help: "concat only"},
			},
			Export: exportComputed,
		},
		{
			Type:     models.BlockTimeSeries,
			Label:    "Time Series",
			Category: CategoryTransform,
			Defaults: func() models.Config {
				return models.Config{
					"analysis_type": "ytd_sum",
					"date_column":   "",
					"value_column":  "",
					"name":          "",
					"window":        3,
				}
			},
			Required: []string{"date_column", "value_column"},
			Fields: []Field{
				{Key: "analysis_type", Label: "Analysis", Kind: FieldSelect, Options: analysisTypes},
				{Key: "date_column", Label: "Date column", Kind: FieldColumn, Scope: ScopeMain},
				{Key: "value_column", Label: "Value column", Kind: FieldColumn, Scope: ScopeMain},
				{Key: "name", Label: "New column", Kind: FieldText},
				{Key: "window", Label: "Window", Kind: FieldNumber, Help: "moving_avg only"},
			},
			Export: func(cfg models.Config) Action {
				analysis := stringOr(cfg, "analysis_type", "ytd_sum")
				act := Action{
					"type":         "computed",
					"ctype":        analysis,
					"date_column":  cfg.String("date_column"),
					"value_column": cfg.String("value_column"),
					"name":         stringOr(cfg, "name", "TS_"+analysis),
				}
				if analysis == "moving_avg" {
					act["window"] = cfg.Int("window", 3)
				}
				return act
			},
		},
		{
			Type:     models.BlockWindowFunction,
			Label:    "Window Function",
			Category: CategoryTransform,
			Defaults: func() models.Config {
				return models.Config{
					"window_type":  "rank",
					"value_column": "",
					"direction":    "",
					"partition_by": []string{},
					"ntile_n":      4,
					"alias":        "",
				}
			},
			Required: []string{"window_type", "value_column"},
			Fields: []Field{
				{Key: "window_type", Label: "Function", Kind: FieldSelect, Options: windowTypes},
				{Key: "value_column", Label: "Order by", Kind: FieldColumn, Scope: ScopeMain},
				{Key: "direction", Label: "Direction", Kind: FieldSelect, Options: append([]string{""}, directions...),
					Help: "defaults to desc"},
				{Key: "partition_by", Label: "Partition by", Kind: FieldColumns, Scope: ScopeMain},
				{Key: "ntile_n", Label: "Buckets", Kind: FieldNumber, Help: "ntile only"},
				{Key: "alias", Label: "Result name", Kind: FieldText},
			},
			Export: func(cfg models.Config) Action {
				wf := cfg.String("window_type")
				act := Action{
					"type":         "window",
					"wf_type":      wf,
					"order_by":     cfg.String("value_column"),
					"direction":    stringOr(cfg, "direction", "desc"),
					"partition_by": cfg.Strings("partition_by"),
					"alias":        stringOr(cfg, "alias", wf+"_result"),
				}
				if wf == "ntile" {
					act["ntile_n"] = cfg.Int("ntile_n", 4)
				}
				return act
			},
		},
		{
			Type:     models.BlockPivot,
			Label:    "Pivot",
			Category: CategoryTransform,
			Defaults: func() models.Config {
				return models.Config{
					"rows":         []string{},
					"columns":      []string{},
					"value_column": "",
					"aggfunc":      "sum",
					"alias":        "",
					"percent_type": "",
				}
			},
			Required: []string{"rows", "value_column"},
			Fields: []Field{
				{Key: "rows", Label: "Rows", Kind: FieldColumns, Scope: ScopeMain},
				{Key: "columns", Label: "Columns", Kind: FieldColumns, Scope: ScopeMain},
				{Key: "value_column", Label: "Values", Kind: FieldColumn, Scope: ScopeMain},
				{Key: "aggfunc", Label: "Aggregation", Kind: FieldSelect, Options: aggFuncs},
				{Key: "alias", Label: "Value name", Kind: FieldText},
				{Key: "percent_type", Label: "Percent of", Kind: FieldSelect, Options: percentTypes},
			},
			Export: func(cfg models.Config) Action {
				act := Action{
					"type":    "pivot",
					"rows":    cfg.Strings("rows"),
					"columns": cfg.Strings("columns"),
					"values": []map[string]any{{
						"column":  cfg.String("value_column"),
						"aggfunc": stringOr(cfg, "aggfunc", "sum"),
						"alias":   cfg.String("alias"),
					}},
				}
				if pt := cfg.String("percent_type"); pt != "" {
					act["percent_type"] = pt
				}
				return act
			},
		},
	}
}

func exportComputed(cfg models.Config) Action {
	ctype := stringOr(cfg, "computed_type", "arithmetic")
	columns := []string{}
	for _, key := range []string{"column_a", "column_b"} {
		if c := cfg.String(key); c != "" {
			columns = append(columns, c)
		}
	}
	act := Action{
		"type":    "computed",
		"ctype":   ctype,
		"name":    cfg.String("name"),
		"columns": columns,
	}
	switch ctype {
	case "arithmetic":
		act["op"] = stringOr(cfg, "operator", "+")
		if cfg.String("column_b") == "" {
			if f, ok := cfg.Float("constant"); ok {
				act["constant"] = f
			}
		}
	case "concat":
		act["separator"] = cfg.String("separator")
	case "date_diff", "percent_change":
	default:
		act["op"] = cfg.String("operator")
	}
	return act
}

// DescribeAction renders a short one-line summary of an exported action, used
// by listings.
func DescribeAction(act Action) string {
	t, _ := act["type"].(string)
	if ctype, ok := act["ctype"].(string); ok {
		return fmt.Sprintf("%s/%s", t, ctype)
	}
	return t
}
