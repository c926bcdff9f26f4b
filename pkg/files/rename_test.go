package files

import (
	"testing"

	"github.com/opradox/opradox-cli/pkg/models"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Sales Report", "sales-report"},
		{"Müşteri Özeti!", "musteri-ozeti"},
		{"Q1 #2", "q1-2"},
		{"  --  ", "unnamed"},
		{"İstanbul Şubesi", "istanbul-subesi"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestExtractDisplayName(t *testing.T) {
	if got := ExtractDisplayName("sales-report.yaml"); got != "Sales Report" {
		t.Errorf("ExtractDisplayName = %q", got)
	}
}

func TestRenamePipeline(t *testing.T) {
	chdirTemp(t)
	InitProjectStructure()
	WritePipeline(&models.Pipeline{Name: "draft", Steps: []models.Step{{Type: models.BlockSort}}})
	WritePipeline(&models.Pipeline{Name: "taken"})

	newPath, err := RenamePipeline("draft.yaml", "Final Report")
	if err != nil {
		t.Fatalf("RenamePipeline failed: %v", err)
	}
	if newPath != "final-report.yaml" {
		t.Errorf("Expected final-report.yaml, got %q", newPath)
	}
	if PipelineExists("draft.yaml") {
		t.Error("old file should be removed")
	}

	p, err := ReadPipeline(newPath)
	if err != nil {
		t.Fatalf("ReadPipeline failed: %v", err)
	}
	if p.Name != "Final Report" || len(p.Steps) != 1 {
		t.Errorf("unexpected pipeline %+v", p)
	}

	if _, err := RenamePipeline(newPath, "taken"); err == nil {
		t.Error("Expected error renaming onto an existing pipeline")
	}
	if _, err := RenamePipeline(newPath, "  "); err == nil {
		t.Error("Expected error for empty name")
	}
	if _, err := RenamePipeline("missing.yaml", "x"); err == nil {
		t.Error("Expected error for missing pipeline")
	}
}
