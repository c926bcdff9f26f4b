package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
)

// Download formats accepted by the backend
var Formats = []string{"xlsx", "csv", "json"}

// InspectResult describes an uploaded workbook sheet.
type InspectResult struct {
	Columns       []string          `json:"columns" yaml:"columns"`
	ColumnLetters map[string]string `json:"column_letters,omitempty" yaml:"column_letters,omitempty"`
	SheetNames    []string          `json:"sheet_names,omitempty" yaml:"sheet_names,omitempty"`
	ActiveSheet   string            `json:"active_sheet,omitempty" yaml:"active_sheet,omitempty"`
	RowCount      int               `json:"row_count" yaml:"row_count"`
	ColumnCount   int               `json:"column_count" yaml:"column_count"`
	PreviewHTML   string            `json:"preview_html,omitempty" yaml:"-"`
}

// RunRequest is the multipart body of a scenario run.
type RunRequest struct {
	File        string
	SecondFile  string
	Sheet       string
	SecondSheet string
	// CrossSheet marks that some action reads its second table from another
	// sheet of File. SecondFile is still uploaded when set.
	CrossSheet bool
	// Fields are extra form fields, e.g. the params blob.
	Fields map[string]string
}

// RunResult is the backend's reply to a scenario run.
type RunResult struct {
	Summary        string         `json:"summary" yaml:"summary"`
	Technical      map[string]any `json:"technical_details,omitempty" yaml:"technical_details,omitempty"`
	GeneratedCode  string         `json:"generated_code,omitempty" yaml:"generated_code,omitempty"`
	ExcelAvailable bool           `json:"excel_available" yaml:"excel_available"`
	RowCount       int            `json:"row_count,omitempty" yaml:"row_count,omitempty"`
}

// ShareResult is a generated share link.
type ShareResult struct {
	URL       string `json:"url" yaml:"url"`
	ExpiresAt string `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

// Inspect uploads path and returns its columns. An empty sheet inspects the
// active sheet.
func (c *Client) Inspect(ctx context.Context, path, sheet string) (*InspectResult, error) {
	f := newForm()
	f.file("file", path)
	f.field("sheet_name", sheet)
	body, ct, err := f.close()
	if err != nil {
		return nil, err
	}

	var out InspectResult
	if err := c.doJSON(ctx, http.MethodPost, "/inspect", body, ct, &out); err != nil {
		return nil, fmt.Errorf("failed to inspect %s: %w", path, err)
	}
	return &out, nil
}

// RunScenario executes scenarioID against the uploaded files.
func (c *Client) RunScenario(ctx context.Context, scenarioID string, req RunRequest) (*RunResult, error) {
	if scenarioID == "" {
		return nil, fmt.Errorf("scenario id is required")
	}
	f := newForm()
	f.file("file", req.File)
	// cross-sheet blocks carry their sheet per action, so a pipeline may mix
	// them with blocks that read the second file
	f.file("file2", req.SecondFile)
	f.field("sheet_name", req.Sheet)
	f.field("sheet_name2", req.SecondSheet)
	if req.CrossSheet {
		f.field("use_crosssheet", "true")
	}
	for _, k := range sortedKeys(req.Fields) {
		f.field(k, req.Fields[k])
	}
	body, ct, err := f.close()
	if err != nil {
		return nil, err
	}

	var out RunResult
	if err := c.doJSON(ctx, http.MethodPost, "/run/"+escape(scenarioID), body, ct, &out); err != nil {
		return nil, fmt.Errorf("failed to run scenario %s: %w", scenarioID, err)
	}
	return &out, nil
}

// UniqueValues returns the distinct values of column.
func (c *Client) UniqueValues(ctx context.Context, path, sheet, column string) ([]string, error) {
	f := newForm()
	f.file("file", path)
	f.field("sheet_name", sheet)
	f.field("column", column)
	body, ct, err := f.close()
	if err != nil {
		return nil, err
	}

	var out struct {
		Values []any `json:"values"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/unique-values", body, ct, &out); err != nil {
		return nil, fmt.Errorf("failed to read values of %s: %w", column, err)
	}
	values := make([]string, 0, len(out.Values))
	for _, v := range out.Values {
		values = append(values, stringify(v))
	}
	return values, nil
}

// Download streams the last result of scenarioID in format to w.
func (c *Client) Download(ctx context.Context, scenarioID, format string, w io.Writer) (int64, error) {
	if format == "" {
		format = "xlsx"
	}
	path := "/download/" + escape(scenarioID) + "?format=" + url.QueryEscape(format)
	resp, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return 0, fmt.Errorf("failed to download %s: %w", scenarioID, err)
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to write download: %w", err)
	}
	return n, nil
}

// Share asks the backend for a share link of the last result.
func (c *Client) Share(ctx context.Context, scenarioID string) (*ShareResult, error) {
	var out ShareResult
	if err := c.doJSON(ctx, http.MethodPost, "/share/"+escape(scenarioID), nil, "", &out); err != nil {
		return nil, fmt.Errorf("failed to share %s: %w", scenarioID, err)
	}
	return &out, nil
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
