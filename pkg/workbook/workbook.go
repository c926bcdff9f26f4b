// Package workbook reads sheet names and header columns from local
// spreadsheet files, so pipelines can be edited without a backend.
package workbook

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/opradox/opradox-cli/pkg/builder"
	"github.com/opradox/opradox-cli/pkg/client"
)

// ErrUnsupported is returned for file types other than xlsx, xlsm and csv.
var ErrUnsupported = errors.New("unsupported file type")

// Inspect reads the header row of sheet in path. An empty sheet means the
// active sheet. The result has the same shape as the backend's inspection.
func Inspect(path, sheet string) (*client.InspectResult, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx":
		return inspectExcel(path, sheet)
	case ".csv":
		return inspectCSV(path)
	default:
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
	}
}

// Sheets lists the sheet names of path in workbook order.
func Sheets(path string) ([]string, error) {
	res, err := Inspect(path, "")
	if err != nil {
		return nil, err
	}
	return res.SheetNames, nil
}

func inspectExcel(path, sheet string) (*client.InspectResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	active := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		sheet = active
	} else if !contains(sheets, sheet) {
		return nil, fmt.Errorf("sheet %q not found in %s", sheet, filepath.Base(path))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	res := &client.InspectResult{
		Columns:       []string{},
		ColumnLetters: map[string]string{},
		SheetNames:    sheets,
		ActiveSheet:   sheet,
	}
	if len(rows) == 0 {
		return res, nil
	}
	for i, header := range rows[0] {
		header = strings.TrimSpace(header)
		if header == "" {
			continue
		}
		letter, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		res.Columns = append(res.Columns, header)
		res.ColumnLetters[header] = letter
	}
	res.RowCount = len(rows) - 1
	res.ColumnCount = len(res.Columns)
	return res, nil
}

func inspectCSV(path string) (*client.InspectResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	res := &client.InspectResult{Columns: []string{}, ColumnLetters: map[string]string{}}

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			continue
		}
		letter, _ := excelize.ColumnNumberToName(i + 1)
		res.Columns = append(res.Columns, h)
		res.ColumnLetters[h] = letter
	}
	for {
		if _, err := r.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read rows: %w", err)
		}
		res.RowCount++
	}
	res.ColumnCount = len(res.Columns)
	return res, nil
}

// Columns reads sheet columns from the local files of a builder session.
type Columns struct {
	MainFile   string
	SecondFile string
}

// Columns implements builder.ColumnSource.
func (c Columns) Columns(ctx context.Context, ref builder.SheetRef) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := c.MainFile
	if ref.File == builder.FileSecond {
		path = c.SecondFile
	}
	if path == "" {
		return nil, fmt.Errorf("no %s file selected", ref.File)
	}
	res, err := Inspect(path, ref.Sheet)
	if err != nil {
		return nil, err
	}
	return res.Columns, nil
}

var _ builder.ColumnSource = Columns{}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
