package workbook

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/opradox/opradox-cli/pkg/builder"
	"github.com/opradox/opradox-cli/pkg/models"
)

func makeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Region", "Sales", "", "Date"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"West", 10, "", "2024-01-01"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"East", 12, "", "2024-01-02"}))

	_, err := f.NewSheet("Customers")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Customers", "A1", &[]any{"CID", "Name"}))

	path := filepath.Join(t.TempDir(), "sales.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestInspect_Excel(t *testing.T) {
	path := makeWorkbook(t)

	res, err := Inspect(path, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Region", "Sales", "Date"}, res.Columns)
	assert.Equal(t, "D", res.ColumnLetters["Date"])
	assert.Equal(t, []string{"Sheet1", "Customers"}, res.SheetNames)
	assert.Equal(t, "Sheet1", res.ActiveSheet)
	assert.Equal(t, 2, res.RowCount)
	assert.Equal(t, 3, res.ColumnCount)

	res, err = Inspect(path, "Customers")
	require.NoError(t, err)
	assert.Equal(t, []string{"CID", "Name"}, res.Columns)
	assert.Zero(t, res.RowCount)
}

func TestInspect_UnknownSheet(t *testing.T) {
	_, err := Inspect(makeWorkbook(t), "Nope")
	assert.Error(t, err)
}

func TestInspect_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("\ufeffName, Age\nAda,36\nAlan,41\n"), 0644))

	res, err := Inspect(path, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Age"}, res.Columns)
	assert.Equal(t, 2, res.RowCount)
}

func TestInspect_Unsupported(t *testing.T) {
	_, err := Inspect("notes.txt", "")
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestSheets(t *testing.T) {
	sheets, err := Sheets(makeWorkbook(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"Sheet1", "Customers"}, sheets)
}

func TestColumns_FeedsBuilder(t *testing.T) {
	path := makeWorkbook(t)
	b := builder.New(builder.WithColumnSource(Columns{MainFile: path}))
	blk := b.AddBlock(models.BlockLookupJoin)

	b.UpdateConfig(blk.ID, "source_type", models.SourceSameFileSheet)
	b.UpdateConfig(blk.ID, "source_sheet", "Customers")
	b.Wait()

	assert.Equal(t, []string{"CID", "Name"}, b.Columns(blk.ID, "fetch_columns"))
}

func TestColumns_NoSecondFile(t *testing.T) {
	_, err := Columns{MainFile: "a.xlsx"}.Columns(context.Background(), builder.SheetRef{File: builder.FileSecond})
	assert.Error(t, err)
}
