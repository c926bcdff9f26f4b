package export

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/opradox/opradox-cli/pkg/models"
	"github.com/opradox/opradox-cli/pkg/schema"
)

func block(t models.BlockType, overrides models.Config) models.Block {
	cfg := schema.Defaults(t)
	for k, v := range overrides {
		cfg[k] = v
	}
	return models.Block{ID: 1, Type: t, Config: cfg}
}

// roundTrip decodes the JSON form so tests compare what the backend receives.
func roundTrip(t *testing.T, blocks ...models.Block) []map[string]any {
	t.Helper()
	data, err := JSON(blocks)
	require.NoError(t, err)
	var out []map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestExport_Filter(t *testing.T) {
	got := roundTrip(t, block(models.BlockFilter, models.Config{
		"column": "Region", "operator": "equals", "value": "West",
	}))

	assert.Equal(t, []map[string]any{{
		"type": "filter", "column": "Region", "operator": "equals", "value": "West",
	}}, got)
}

func TestExport_FilterInList(t *testing.T) {
	got := Block(block(models.BlockFilter, models.Config{
		"column": "Region", "operator": "in_list", "value": "West, East ,",
	}))
	assert.Equal(t, []string{"West", "East"}, got["value"])
}

func TestExport_LookupJoinSecondFile(t *testing.T) {
	got := roundTrip(t, block(models.BlockLookupJoin, models.Config{
		"main_key":      "ID",
		"source_type":   "second_file",
		"source_key":    "CustomerID",
		"join_type":     "vlookup",
		"fetch_columns": []string{"Name"},
	}))

	assert.Equal(t, []map[string]any{{
		"type":           "merge",
		"left_on":        "ID",
		"right_on":       "CustomerID",
		"how":            "left",
		"columns_to_add": []any{"Name"},
		"use_crosssheet": false,
	}}, got)
	assert.NotContains(t, got[0], "crosssheet_name")
}

func TestExport_LookupJoinCrossSheet(t *testing.T) {
	got := Block(block(models.BlockLookupJoin, models.Config{
		"main_key":     models.ColumnRef{Source: models.RefList, Value: "ID"},
		"source_key":   models.ColumnRef{Source: models.RefManual, Value: "CID"},
		"source_type":  models.SourceSameFileSheet,
		"source_sheet": "Customers",
		"join_type":    "inner",
	}))

	assert.Equal(t, "ID", got["left_on"])
	assert.Equal(t, "CID", got["right_on"])
	assert.Equal(t, "inner", got["how"])
	assert.Equal(t, true, got["use_crosssheet"])
	assert.Equal(t, "Customers", got["crosssheet_name"])
}

func TestExport_WindowDefaults(t *testing.T) {
	got := Block(block(models.BlockWindowFunction, models.Config{
		"window_type": "rank", "value_column": "Score",
	}))

	assert.Equal(t, Action{
		"type":         "window",
		"wf_type":      "rank",
		"order_by":     "Score",
		"direction":    "desc",
		"partition_by": []string{},
		"alias":        "rank_result",
	}, got)
}

func TestExport_WindowNtile(t *testing.T) {
	got := Block(block(models.BlockWindowFunction, models.Config{
		"window_type": "ntile", "value_column": "Score", "ntile_n": "5",
		"direction": "asc", "partition_by": []any{"Region"}, "alias": "bucket",
	}))

	assert.Equal(t, 5, got["ntile_n"])
	assert.Equal(t, "asc", got["direction"])
	assert.Equal(t, []string{"Region"}, got["partition_by"])
	assert.Equal(t, "bucket", got["alias"])
}

func TestExport_ComputedArithmetic(t *testing.T) {
	got := Block(block(models.BlockComputed, models.Config{
		"name": "Total", "column_a": "Price", "operator": "*", "column_b": "Qty",
	}))

	assert.Equal(t, Action{
		"type": "computed", "ctype": "arithmetic", "name": "Total",
		"columns": []string{"Price", "Qty"}, "op": "*",
	}, got)
}

func TestExport_ComputedConstant(t *testing.T) {
	got := Block(block(models.BlockComputed, models.Config{
		"name": "WithTax", "column_a": "Price", "operator": "*", "constant": "1.2",
	}))
	assert.Equal(t, 1.2, got["constant"])
	assert.Equal(t, []string{"Price"}, got["columns"])
}

func TestExport_TimeSeries(t *testing.T) {
	tests := []struct {
		name string
		cfg  models.Config
		want Action
	}{
		{
			name: "blank name defaults",
			cfg:  models.Config{"analysis_type": "ytd_sum", "date_column": "Date", "value_column": "Sales"},
			want: Action{"type": "computed", "ctype": "ytd_sum", "date_column": "Date",
				"value_column": "Sales", "name": "TS_ytd_sum"},
		},
		{
			name: "moving average carries window",
			cfg: models.Config{"analysis_type": "moving_avg", "date_column": "Date",
				"value_column": "Sales", "name": "MA", "window": 7},
			want: Action{"type": "computed", "ctype": "moving_avg", "date_column": "Date",
				"value_column": "Sales", "name": "MA", "window": 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Block(block(models.BlockTimeSeries, tt.cfg)))
		})
	}
}

func TestExport_Pivot(t *testing.T) {
	got := Block(block(models.BlockPivot, models.Config{
		"rows": []string{"Region"}, "value_column": "Sales", "aggfunc": "mean", "alias": "Avg",
	}))

	assert.Equal(t, []map[string]any{{"column": "Sales", "aggfunc": "mean", "alias": "Avg"}}, got["values"])
	assert.NotContains(t, got, "percent_type")

	withPct := Block(block(models.BlockPivot, models.Config{
		"rows": []string{"Region"}, "value_column": "Sales", "percent_type": "row",
	}))
	assert.Equal(t, "row", withPct["percent_type"])
}

func TestExport_ComputedVariants(t *testing.T) {
	tests := []struct {
		name string
		typ  models.BlockType
		cfg  models.Config
		want Action
	}{
		{
			name: "text trim default name",
			typ:  models.BlockTextTransform,
			cfg:  models.Config{"column": "City"},
			want: Action{"type": "computed", "ctype": "text_trim", "column": "City", "name": "City_trim"},
		},
		{
			name: "text replace renames",
			typ:  models.BlockTextTransform,
			cfg: models.Config{"transform_type": "replace", "column": "City", "name": "Clean",
				"pattern": "-", "replacement": " "},
			want: Action{"type": "computed", "ctype": "text_replace", "column": "City", "name": "Clean",
				"find": "-", "replace_with": " "},
		},
		{
			name: "text left coerces length",
			typ:  models.BlockTextTransform,
			cfg:  models.Config{"transform_type": "left", "column": "Code", "length": "3"},
			want: Action{"type": "computed", "ctype": "text_left", "column": "Code", "name": "Code_left", "n": 3},
		},
		{
			name: "advanced age uses date column",
			typ:  models.BlockAdvancedComputed,
			cfg:  models.Config{"adv_type": "age", "column": "Birth"},
			want: Action{"type": "computed", "ctype": "age", "date_column": "Birth", "name": "Birth_age"},
		},
		{
			name: "advanced split",
			typ:  models.BlockAdvancedComputed,
			cfg:  models.Config{"adv_type": "split", "column": "Full", "separator": " ", "part_index": 1, "name": "Last"},
			want: Action{"type": "computed", "ctype": "split", "column": "Full", "delimiter": " ",
				"index": 1, "name": "Last"},
		},
		{
			name: "if else",
			typ:  models.BlockIfElse,
			cfg: models.Config{"name": "Big", "condition_column": "Sales", "operator": "greater_than",
				"condition_value": "100", "then_value": "yes", "else_value": "no"},
			want: Action{"type": "computed", "ctype": "if_else", "name": "Big", "column": "Sales",
				"op": "greater_than", "compare_value": "100", "true_value": "yes", "false_value": "no"},
		},
		{
			name: "formula",
			typ:  models.BlockFormula,
			cfg:  models.Config{"name": "Net", "expression": "[Price] * $Rate"},
			want: Action{"type": "computed", "ctype": "formula", "name": "Net", "formula": "[Price] * $Rate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Block(block(tt.typ, tt.cfg)))
		})
	}
}

func TestExport_RenamedTypes(t *testing.T) {
	variable := Block(block(models.BlockWhatIfVariable, models.Config{"name": "$Rate", "value": "0.18"}))
	assert.Equal(t, Action{"type": "variable", "name": "Rate", "value": 0.18}, variable)

	output := Block(block(models.BlockOutputSettings, nil))
	assert.Equal(t, "output", output["type"])
	assert.Equal(t, true, output["auto_fit"])
	assert.NotContains(t, output, "number_format")

	sort := Block(block(models.BlockSort, models.Config{"column": "Score", "direction": "desc"}))
	assert.Equal(t, Action{"type": "sort", "column": "Score", "ascending": false}, sort)
}

func TestExport_ConditionalFormat(t *testing.T) {
	got := Block(block(models.BlockConditionalFormat, models.Config{
		"column": "Sales", "cf_type": "top_n", "rank": 5,
	}))
	assert.Equal(t, Action{
		"type": "conditional_format", "cf_type": "top_n", "column": "Sales", "color": "#FFC7CE", "n": 5,
	}, got)
}

func TestExport_UnknownTypePassesThrough(t *testing.T) {
	got := Block(models.Block{Type: "custom", Config: models.Config{"k": "v"}})
	assert.Equal(t, Action{"type": "custom", "k": "v"}, got)
}

func TestExport_Deterministic(t *testing.T) {
	blocks := []models.Block{
		block(models.BlockFilter, models.Config{"column": "Region", "value": "West"}),
		block(models.BlockLookupJoin, models.Config{"main_key": "ID", "source_key": "ID"}),
		block(models.BlockPivot, models.Config{"rows": []string{"Region"}, "value_column": "Sales"}),
		block(models.BlockConditionalFormat, models.Config{"column": "Sales"}),
	}

	first, err := JSON(blocks)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := JSON(blocks)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestPayload_WrapsActions(t *testing.T) {
	data, err := Payload([]models.Block{block(models.BlockSort, models.Config{"column": "A"})}, "")
	require.NoError(t, err)
	assert.JSONEq(t, `{"actions":[{"type":"sort","column":"A","ascending":true}]}`, string(data))
}

func TestExport_EmptyPipeline(t *testing.T) {
	data, err := JSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

// filled gives every column field of t a value, alternating list and manual
// references, so saving and reloading has something to preserve.
func filled(t models.BlockType) models.Config {
	cfg := schema.Defaults(t)
	for i, f := range schema.MustLookup(t).Fields {
		switch f.Kind {
		case schema.FieldColumn:
			source := models.RefList
			if i%2 == 1 {
				source = models.RefManual
			}
			cfg[f.Key] = models.ColumnRef{Source: source, Value: "Col " + f.Key}
		case schema.FieldColumns:
			cfg[f.Key] = []string{"A", "B"}
		}
	}
	return cfg
}

func TestExport_SurvivesYAMLRoundTrip(t *testing.T) {
	for _, spec := range schema.Specs() {
		t.Run(string(spec.Type), func(t *testing.T) {
			before := models.Step{Type: spec.Type, Config: filled(spec.Type)}
			data, err := yaml.Marshal(before)
			require.NoError(t, err)
			var after models.Step
			require.NoError(t, yaml.Unmarshal(data, &after))

			want, err := JSON([]models.Block{{ID: 1, Type: before.Type, Config: before.Config}})
			require.NoError(t, err)
			got, err := JSON([]models.Block{{ID: 1, Type: after.Type, Config: after.Config}})
			require.NoError(t, err)
			assert.JSONEq(t, string(want), string(got))
			assert.NotContains(t, string(got), "map[")

			assert.Equal(t, schema.MissingFields(spec, before.Config), schema.MissingFields(spec, after.Config))
		})
	}
}

func TestExport_EmptyReferenceStaysMissing(t *testing.T) {
	before := models.Step{Type: models.BlockSort, Config: models.Config{
		"column": models.ColumnRef{Source: models.RefList}, "direction": "asc",
	}}
	data, err := yaml.Marshal(before)
	require.NoError(t, err)
	var after models.Step
	require.NoError(t, yaml.Unmarshal(data, &after))

	assert.Equal(t, "", after.Config.String("column"))
	assert.Equal(t, []string{"column"}, schema.MissingFields(schema.MustLookup(models.BlockSort), after.Config))
}
