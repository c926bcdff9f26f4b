package files

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/opradox/opradox-cli/pkg/models"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	tempDir := t.TempDir()
	oldWd, _ := os.Getwd()
	t.Cleanup(func() { os.Chdir(oldWd) })
	os.Chdir(tempDir)
}

func TestInitProjectStructure(t *testing.T) {
	chdirTemp(t)

	if IsInitialized() {
		t.Fatal("fresh directory should not be initialized")
	}
	if err := InitProjectStructure(); err != nil {
		t.Fatalf("InitProjectStructure failed: %v", err)
	}

	expectedDirs := []string{
		OpradoxDir,
		filepath.Join(OpradoxDir, PipelinesDir),
		filepath.Join(OpradoxDir, ArchiveDir, PipelinesDir),
	}
	for _, dir := range expectedDirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			t.Errorf("Expected directory %s does not exist", dir)
		}
	}
	if !IsInitialized() {
		t.Error("expected IsInitialized after init")
	}
}

func TestReadWritePipeline(t *testing.T) {
	chdirTemp(t)
	if err := InitProjectStructure(); err != nil {
		t.Fatalf("InitProjectStructure failed: %v", err)
	}

	pipeline := &models.Pipeline{
		Name:     "Sales Report",
		Scenario: "visual_builder",
		Steps: []models.Step{
			{Type: models.BlockFilter, Config: models.Config{"column": "Region", "operator": "equals", "value": "West"}},
			{Type: models.BlockSort, Config: models.Config{
				"column": models.ColumnRef{Source: models.RefManual, Value: "Total"},
			}},
			{Type: models.BlockUnion},
		},
	}

	if err := WritePipeline(pipeline); err != nil {
		t.Fatalf("WritePipeline failed: %v", err)
	}
	if pipeline.Path != "sales-report.yaml" {
		t.Errorf("Expected path sales-report.yaml, got %q", pipeline.Path)
	}

	read, err := ReadPipeline("sales-report.yaml")
	if err != nil {
		t.Fatalf("ReadPipeline failed: %v", err)
	}
	if read.Name != pipeline.Name {
		t.Errorf("Expected name %q, got %q", pipeline.Name, read.Name)
	}
	if len(read.Steps) != 3 {
		t.Fatalf("Expected 3 steps, got %d", len(read.Steps))
	}
	if got := read.Steps[0].Config.String("column"); got != "Region" {
		t.Errorf("Expected filter column Region, got %q", got)
	}

	ref, ok := models.AsColumnRef(read.Steps[1].Config["column"])
	if !ok || ref.Source != models.RefManual || ref.Value != "Total" {
		t.Errorf("Expected manual reference to Total, got %#v", read.Steps[1].Config["column"])
	}
	if read.Steps[2].Config == nil {
		t.Error("Expected empty config to be non-nil after reading")
	}
}

func TestListPipelines(t *testing.T) {
	chdirTemp(t)
	if err := InitProjectStructure(); err != nil {
		t.Fatalf("InitProjectStructure failed: %v", err)
	}

	WritePipeline(&models.Pipeline{Name: "beta"})
	WritePipeline(&models.Pipeline{Name: "alpha"})
	os.WriteFile(filepath.Join(OpradoxDir, PipelinesDir, "notes.txt"), []byte("x"), 0644)

	pipelines, err := ListPipelines()
	if err != nil {
		t.Fatalf("ListPipelines failed: %v", err)
	}
	if len(pipelines) != 2 || pipelines[0] != "alpha.yaml" || pipelines[1] != "beta.yaml" {
		t.Errorf("Expected [alpha.yaml beta.yaml], got %v", pipelines)
	}
}

func TestListPipelines_NoProject(t *testing.T) {
	chdirTemp(t)

	pipelines, err := ListPipelines()
	if err != nil {
		t.Fatalf("ListPipelines failed: %v", err)
	}
	if len(pipelines) != 0 {
		t.Errorf("Expected no pipelines, got %v", pipelines)
	}
}

func TestDeletePipeline(t *testing.T) {
	chdirTemp(t)
	InitProjectStructure()
	WritePipeline(&models.Pipeline{Name: "gone"})

	if err := DeletePipeline("gone.yaml"); err != nil {
		t.Fatalf("DeletePipeline failed: %v", err)
	}
	if PipelineExists("gone.yaml") {
		t.Error("pipeline still exists after delete")
	}
	if err := DeletePipeline("gone.yaml"); !errors.Is(err, ErrPipelineNotFound) {
		t.Errorf("Expected ErrPipelineNotFound, got %v", err)
	}
}

func TestLoadPipeline_AcceptsNamesAndPaths(t *testing.T) {
	chdirTemp(t)
	InitProjectStructure()
	WritePipeline(&models.Pipeline{Name: "Monthly Sales"})

	refs := []string{
		"Monthly Sales",
		"monthly-sales",
		"monthly-sales.yaml",
		filepath.Join(OpradoxDir, PipelinesDir, "monthly-sales.yaml"),
	}
	for _, ref := range refs {
		p, err := LoadPipeline(ref)
		if err != nil {
			t.Errorf("LoadPipeline(%q) failed: %v", ref, err)
			continue
		}
		if p.Name != "Monthly Sales" {
			t.Errorf("LoadPipeline(%q) returned %q", ref, p.Name)
		}
	}
}

func TestErrorHandling(t *testing.T) {
	chdirTemp(t)

	_, err := ReadPipeline("nonexistent.yaml")
	if !errors.Is(err, ErrPipelineNotFound) {
		t.Errorf("Expected ErrPipelineNotFound, got %v", err)
	}

	if _, err := ReadPipeline("../outside.yaml"); err == nil {
		t.Error("Expected error for path escaping the project")
	}
	if _, err := ReadPipeline(""); err == nil {
		t.Error("Expected error for empty path")
	}

	InitProjectStructure()
	os.WriteFile(filepath.Join(OpradoxDir, PipelinesDir, "broken.yaml"), []byte("steps: [::"), 0644)
	if _, err := ReadPipeline("broken.yaml"); err == nil || errors.Is(err, ErrPipelineNotFound) {
		t.Errorf("Expected parse error, got %v", err)
	}
}

func TestWriteFile_CreatesDirectories(t *testing.T) {
	chdirTemp(t)

	path := filepath.Join("out", "nested", "actions.json")
	if err := WriteFile(path, []byte("[]")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "[]" {
		t.Errorf("Expected [], got %q", data)
	}
}

func TestReadPipeline_ColumnReferencesSurviveReload(t *testing.T) {
	chdirTemp(t)
	if err := InitProjectStructure(); err != nil {
		t.Fatalf("InitProjectStructure failed: %v", err)
	}

	pipeline := &models.Pipeline{
		Name: "Refs",
		Steps: []models.Step{
			{Type: models.BlockLookupJoin, Config: models.Config{
				"main_key":      models.HybridField{List: "Region"}.Resolve(),
				"source_key":    models.ColumnRef{Source: models.RefList},
				"fetch_columns": []any{models.ColumnRef{Source: models.RefManual, Value: "Price"}, "Qty"},
			}},
		},
	}
	if err := WritePipeline(pipeline); err != nil {
		t.Fatalf("WritePipeline failed: %v", err)
	}

	read, err := ReadPipeline(pipeline.Path)
	if err != nil {
		t.Fatalf("ReadPipeline failed: %v", err)
	}
	cfg := read.Steps[0].Config
	if got := cfg.String("main_key"); got != "Region" {
		t.Errorf("Expected main_key Region after reload, got %q (%#v)", got, cfg["main_key"])
	}
	if ref, ok := models.AsColumnRef(cfg["main_key"]); !ok || ref.Source != models.RefList {
		t.Errorf("Expected list reference, got %#v", cfg["main_key"])
	}
	if got := cfg.String("source_key"); got != "" {
		t.Errorf("Expected empty source_key to stay empty, got %q", got)
	}
	if got := cfg.Strings("fetch_columns"); len(got) != 2 || got[0] != "Price" || got[1] != "Qty" {
		t.Errorf("Expected fetch_columns [Price Qty], got %v", got)
	}

	clone := cfg.Clone()
	if ref, ok := models.AsColumnRef(clone["main_key"]); !ok || ref.Value != "Region" {
		t.Errorf("Expected cloned reference to keep Region, got %#v", clone["main_key"])
	}
}
