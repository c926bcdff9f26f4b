// Package legacy imports action lists saved by the older PRO Builder form.
// Those files hold the backend shape of each step, so migration walks the
// export mapping backwards and fills in the canonical defaults.
package legacy

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/opradox/opradox-cli/pkg/models"
	"github.com/opradox/opradox-cli/pkg/schema"
)

// ErrNoActions is returned when the input holds no action list.
var ErrNoActions = errors.New("no actions found")

// Result is a migrated pipeline plus the notes collected on the way.
type Result struct {
	Pipeline *models.Pipeline
	Warnings []string
}

// document is the saved PRO Builder file. Older exports are a bare array.
type document struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Scenario    string          `json:"scenario"`
	Actions     []schema.Action `json:"actions"`
	Params      *struct {
		Actions []schema.Action `json:"actions"`
	} `json:"params"`
}

// parse decodes a legacy file: a bare action array, {"actions": [...]} or
// {"params": {"actions": [...]}}.
func parse(data []byte) (document, error) {
	var doc document
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(data, &doc.Actions); err != nil {
			return doc, fmt.Errorf("invalid action list: %w", err)
		}
	} else if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("invalid legacy pipeline: %w", err)
	}
	if len(doc.Actions) == 0 && doc.Params != nil {
		doc.Actions = doc.Params.Actions
	}
	if len(doc.Actions) == 0 {
		return doc, ErrNoActions
	}
	return doc, nil
}

// Migrate converts a legacy file into a canonical pipeline. name wins over
// any name stored in the file.
func Migrate(data []byte, name string) (*Result, error) {
	doc, err := parse(data)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = doc.Name
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("pipeline name is required")
	}

	steps, warnings := Steps(doc.Actions)
	return &Result{
		Pipeline: &models.Pipeline{
			Name:        name,
			Description: doc.Description,
			Scenario:    doc.Scenario,
			Steps:       steps,
		},
		Warnings: warnings,
	}, nil
}

// Steps converts each action into a step. Actions of unknown type are skipped
// with a warning.
func Steps(actions []schema.Action) ([]models.Step, []string) {
	steps := make([]models.Step, 0, len(actions))
	var warnings []string
	for i, act := range actions {
		step, err := Step(act)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("action %d: %v", i+1, err))
			continue
		}
		steps = append(steps, step)
	}
	return steps, warnings
}

// Step converts one backend-shaped action.
func Step(act schema.Action) (models.Step, error) {
	t, _ := act["type"].(string)
	if t == "" {
		return models.Step{}, errors.New("missing type")
	}
	if conv, ok := converters[t]; ok {
		return conv(act)
	}
	if bt, cfg, ok := schema.ImportVariant(act); ok {
		return models.Step{Type: bt, Config: cfg}, nil
	}
	return models.Step{}, fmt.Errorf("unknown action type %q", t)
}

type converter func(schema.Action) (models.Step, error)

var converters = map[string]converter{
	"data_source": func(a schema.Action) (models.Step, error) {
		cfg := base(models.BlockDataSource)
		copyKeys(a, cfg, "source", "source")
		copyKeys(a, cfg, "sheet_name", "sheet")
		return step(models.BlockDataSource, cfg)
	},
	"filter": func(a schema.Action) (models.Step, error) {
		cfg := base(models.BlockFilter)
		copyKeys(a, cfg, "column", "column", "operator", "operator")
		if v, ok := a["value"]; ok {
			cfg["value"] = joinList(v)
		}
		return step(models.BlockFilter, cfg)
	},
	"sort": func(a schema.Action) (models.Step, error) {
		cfg := base(models.BlockSort)
		copyKeys(a, cfg, "column", "column")
		if asc, ok := a["ascending"].(bool); ok && !asc {
			cfg["direction"] = "desc"
		}
		return step(models.BlockSort, cfg)
	},
	"merge": func(a schema.Action) (models.Step, error) {
		cfg := base(models.BlockLookupJoin)
		copyKeys(a, cfg, "left_on", "main_key", "right_on", "source_key", "columns_to_add", "fetch_columns")
		if how, _ := a["how"].(string); how != "" && how != "left" {
			cfg["join_type"] = how
		}
		sourceOf(a, cfg)
		return step(models.BlockLookupJoin, cfg)
	},
	"union": func(a schema.Action) (models.Step, error) {
		cfg := base(models.BlockUnion)
		copyKeys(a, cfg, "drop_duplicates", "drop_duplicates")
		sourceOf(a, cfg)
		return step(models.BlockUnion, cfg)
	},
	"diff": func(a schema.Action) (models.Step, error) {
		cfg := base(models.BlockDiff)
		copyKeys(a, cfg, "left_on", "main_key", "right_on", "source_key")
		sourceOf(a, cfg)
		return step(models.BlockDiff, cfg)
	},
	"validate": func(a schema.Action) (models.Step, error) {
		cfg := base(models.BlockValidate)
		copyKeys(a, cfg,
			"column", "column", "reference_column", "reference_column", "result_column", "result_column",
			"valid_label", "valid_label", "invalid_label", "invalid_label")
		sourceOf(a, cfg)
		return step(models.BlockValidate, cfg)
	},
	"grouping": func(a schema.Action) (models.Step, error) {
		cfg := base(models.BlockGrouping)
		copyKeys(a, cfg, "groupby", "groups", "agg_column", "agg_column", "agg_func", "agg_func", "alias", "alias")
		return step(models.BlockGrouping, cfg)
	},
	"window": func(a schema.Action) (models.Step, error) {
		cfg := base(models.BlockWindowFunction)
		copyKeys(a, cfg,
			"wf_type", "window_type", "order_by", "value_column", "direction", "direction",
			"partition_by", "partition_by", "ntile_n", "ntile_n", "alias", "alias")
		// The form stored a single partition column as a string.
		if s, ok := cfg["partition_by"].(string); ok {
			cfg["partition_by"] = splitNonEmpty(s)
		}
		if cfg["partition_by"] == nil {
			cfg["partition_by"] = []string{}
		}
		if wf := cfg.String("window_type"); cfg.String("alias") == wf+"_result" {
			cfg["alias"] = ""
		}
		return step(models.BlockWindowFunction, cfg)
	},
	"pivot": func(a schema.Action) (models.Step, error) {
		cfg := base(models.BlockPivot)
		copyKeys(a, cfg, "rows", "rows", "columns", "columns", "percent_type", "percent_type")
		if v := firstValue(a["values"]); v != nil {
			copyKeys(v, cfg, "column", "value_column", "aggfunc", "aggfunc", "alias", "alias")
		}
		return step(models.BlockPivot, cfg)
	},
	"chart": func(a schema.Action) (models.Step, error) {
		cfg := base(models.BlockChart)
		copyKeys(a, cfg, "chart_type", "chart_type", "x_column", "x_column", "y_column", "y_column",
			"title", "title", "agg_func", "aggfunc")
		return step(models.BlockChart, cfg)
	},
	"output": func(a schema.Action) (models.Step, error) {
		cfg := base(models.BlockOutputSettings)
		copyKeys(a, cfg, "freeze_header", "freeze_header", "auto_fit", "autofit",
			"number_format", "number_format", "sheet_name", "sheet_name", "header_color", "header_color")
		return step(models.BlockOutputSettings, cfg)
	},
	"variable": func(a schema.Action) (models.Step, error) {
		cfg := base(models.BlockWhatIfVariable)
		if name, _ := a["name"].(string); name != "" {
			cfg["name"] = strings.TrimPrefix(name, "$")
		}
		copyKeys(a, cfg, "value", "value")
		return step(models.BlockWhatIfVariable, cfg)
	},
	"computed": func(a schema.Action) (models.Step, error) {
		ctype, _ := a["ctype"].(string)
		switch ctype {
		case "arithmetic", "concat", "date_diff", "percent_change":
			return computed(a, ctype)
		case "ytd_sum", "mtd_sum", "yoy_change", "qoq_change", "running_total", "moving_avg":
			cfg := base(models.BlockTimeSeries)
			cfg["analysis_type"] = ctype
			copyKeys(a, cfg, "date_column", "date_column", "value_column", "value_column", "window", "window")
			if name, _ := a["name"].(string); name != "TS_"+ctype {
				cfg["name"] = name
			}
			return step(models.BlockTimeSeries, cfg)
		}
		if bt, cfg, ok := schema.ImportVariant(a); ok {
			return step(bt, cfg)
		}
		return models.Step{}, fmt.Errorf("unknown computed type %q", ctype)
	},
}

func computed(a schema.Action, ctype string) (models.Step, error) {
	cfg := base(models.BlockComputed)
	cfg["computed_type"] = ctype
	copyKeys(a, cfg, "name", "name", "op", "operator", "separator", "separator", "constant", "constant")
	cols := toStrings(a["columns"])
	if len(cols) > 0 {
		cfg["column_a"] = cols[0]
	}
	if len(cols) > 1 {
		cfg["column_b"] = cols[1]
	}
	return step(models.BlockComputed, cfg)
}

func base(t models.BlockType) models.Config {
	return schema.Defaults(t)
}

func step(t models.BlockType, cfg models.Config) (models.Step, error) {
	return models.Step{Type: t, Config: cfg}, nil
}

// copyKeys copies pairs of (action key, config key) that are present.
func copyKeys(a map[string]any, cfg models.Config, pairs ...string) {
	for i := 0; i+1 < len(pairs); i += 2 {
		v, ok := a[pairs[i]]
		if !ok || v == nil {
			continue
		}
		if list, ok := v.([]any); ok {
			v = toStrings(list)
		}
		cfg[pairs[i+1]] = v
	}
}

// sourceOf maps the crosssheet flags back to source_type and source_sheet.
func sourceOf(a schema.Action, cfg models.Config) {
	if use, _ := a["use_crosssheet"].(bool); use {
		cfg["source_type"] = models.SourceSameFileSheet
		if sheet, _ := a["crosssheet_name"].(string); sheet != "" {
			cfg["source_sheet"] = sheet
		}
	}
}

func firstValue(v any) map[string]any {
	switch vals := v.(type) {
	case []any:
		if len(vals) > 0 {
			m, _ := vals[0].(map[string]any)
			return m
		}
	case []map[string]any:
		if len(vals) > 0 {
			return vals[0]
		}
	}
	return nil
}

func toStrings(v any) []string {
	out := []string{}
	switch list := v.(type) {
	case []string:
		out = append(out, list...)
	case []any:
		for _, item := range list {
			if item != nil {
				out = append(out, fmt.Sprint(item))
			}
		}
	case string:
		return splitNonEmpty(list)
	}
	return out
}

func joinList(v any) any {
	switch v.(type) {
	case []any, []string:
		return strings.Join(toStrings(v), ", ")
	}
	return v
}

func splitNonEmpty(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
