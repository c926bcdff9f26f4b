package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opradox/opradox-cli/pkg/builder"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestInspect(t *testing.T) {
	var gotSheet, gotFile, gotName string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/inspect", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotSheet = r.FormValue("sheet_name")
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		gotFile, gotName = string(data), header.Filename

		_ = json.NewEncoder(w).Encode(map[string]any{
			"columns":      []string{"Region", "Sales"},
			"sheet_names":  []string{"Q1", "Q2"},
			"active_sheet": "Q1",
			"row_count":    10,
			"column_count": 2,
		})
	}))
	defer srv.Close()

	path := writeFile(t, "sales.xlsx", "fake workbook")
	res, err := New(srv.URL).Inspect(context.Background(), path, "Q2")
	require.NoError(t, err)

	assert.Equal(t, "Q2", gotSheet)
	assert.Equal(t, "fake workbook", gotFile)
	assert.Equal(t, "sales.xlsx", gotName)
	assert.Equal(t, []string{"Region", "Sales"}, res.Columns)
	assert.Equal(t, []string{"Q1", "Q2"}, res.SheetNames)
	assert.Equal(t, 10, res.RowCount)
}

func TestInspect_MissingFile(t *testing.T) {
	_, err := New("http://127.0.0.1:1").Inspect(context.Background(), filepath.Join(t.TempDir(), "nope.xlsx"), "")
	assert.Error(t, err)
}

func TestRunScenario(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/run/visual_builder", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.JSONEq(t, `{"actions":[]}`, r.FormValue("params"))
		assert.Equal(t, "Data", r.FormValue("sheet_name"))
		assert.Equal(t, "true", r.FormValue("use_crosssheet"))
		assert.Equal(t, "Lookup", r.FormValue("sheet_name2"))
		_, header, err := r.FormFile("file2")
		require.NoError(t, err, "the second file is sent even when some action is cross-sheet")
		assert.Equal(t, "second.xlsx", header.Filename)

		w.Write([]byte(`{"summary":"3 rows","excel_available":true,"technical_details":{"engine":"pandas"}}`))
	}))
	defer srv.Close()

	main := writeFile(t, "main.xlsx", "a")
	second := writeFile(t, "second.xlsx", "b")
	res, err := New(srv.URL).RunScenario(context.Background(), "visual_builder", RunRequest{
		File:        main,
		SecondFile:  second,
		Sheet:       "Data",
		SecondSheet: "Lookup",
		CrossSheet:  true,
		Fields:      map[string]string{"params": `{"actions":[]}`},
	})
	require.NoError(t, err)
	assert.Equal(t, "3 rows", res.Summary)
	assert.True(t, res.ExcelAvailable)
	assert.Equal(t, "pandas", res.Technical["engine"])
}

func TestRunScenario_RequiresID(t *testing.T) {
	_, err := New("http://unused").RunScenario(context.Background(), "", RunRequest{})
	assert.Error(t, err)
}

func TestAPIError_Detail(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		detail string
	}{
		{"string detail", http.StatusBadRequest, `{"detail":"Column 'X' not found"}`, "Column 'X' not found"},
		{"validation list", http.StatusUnprocessableEntity,
			`{"detail":[{"loc":["body","file"],"msg":"field required"},{"msg":"bad sheet"}]}`,
			"field required; bad sheet"},
		{"plain text", http.StatusInternalServerError, "boom", "boom"},
		{"empty", http.StatusBadGateway, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL).Share(context.Background(), "s1")
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.detail, apiErr.Detail)
			assert.NotEmpty(t, apiErr.RequestID)
		})
	}
}

func TestAPIError_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := New(srv.URL).Share(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUniqueValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Region", r.FormValue("column"))
		w.Write([]byte(`{"values":["West",12,true,null]}`))
	}))
	defer srv.Close()

	values, err := New(srv.URL).UniqueValues(context.Background(), writeFile(t, "a.csv", "x"), "", "Region")
	require.NoError(t, err)
	assert.Equal(t, []string{"West", "12", "true", ""}, values)
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/download/visual_builder", r.URL.Path)
		assert.Equal(t, "csv", r.URL.Query().Get("format"))
		w.Write([]byte("a,b\n1,2\n"))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	n, err := New(srv.URL+"/").Download(context.Background(), "visual_builder", "csv", &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)
	assert.Equal(t, "a,b\n1,2\n", buf.String())
}

func TestShare(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/share/visual_builder", r.URL.Path)
		w.Write([]byte(`{"url":"https://opradox.example/s/abc"}`))
	}))
	defer srv.Close()

	res, err := New(srv.URL).Share(context.Background(), "visual_builder")
	require.NoError(t, err)
	assert.Equal(t, "https://opradox.example/s/abc", res.URL)
}

func TestColumnsSource(t *testing.T) {
	var sheets []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		sheets = append(sheets, r.FormValue("sheet_name"))
		w.Write([]byte(`{"columns":["CID"]}`))
	}))
	defer srv.Close()

	src := Columns{Client: New(srv.URL), MainFile: writeFile(t, "m.xlsx", "m")}
	cols, err := src.Columns(context.Background(), builder.SheetRef{File: builder.FileMain, Sheet: "Customers"})
	require.NoError(t, err)
	assert.Equal(t, []string{"CID"}, cols)
	assert.Equal(t, []string{"Customers"}, sheets)

	_, err = src.Columns(context.Background(), builder.SheetRef{File: builder.FileSecond, Sheet: "X"})
	assert.Error(t, err)
}

func TestWithTimeout_LeavesSharedClientAlone(t *testing.T) {
	shared := &http.Client{Timeout: 5 * time.Second}
	c := New("http://unused", WithHTTPClient(shared), WithTimeout(time.Minute))

	assert.Equal(t, 5*time.Second, shared.Timeout)
	assert.Equal(t, time.Minute, c.http.Timeout)
	assert.NotSame(t, shared, c.http)

	d := New("http://unused", WithHTTPClient(shared))
	assert.Same(t, shared, d.http)
}
