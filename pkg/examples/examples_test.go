package examples

import (
	"os"
	"testing"

	"github.com/opradox/opradox-cli/pkg/files"
	"github.com/opradox/opradox-cli/pkg/models"
	"github.com/opradox/opradox-cli/pkg/validate"
)

func TestGetExamples(t *testing.T) {
	tests := []struct {
		category string
		wantSets int
	}{
		{"sales", 1},
		{"customers", 1},
		{"quality", 1},
		{"all", 3},
		{"unknown", 0},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			sets := GetExamples(tt.category)
			if len(sets) != tt.wantSets {
				t.Fatalf("got %d sets, want %d", len(sets), tt.wantSets)
			}
			for _, set := range sets {
				if set.Category == "" {
					t.Errorf("set %q has no category", set.Name)
				}
			}
		})
	}
}

// Every shipped example must pass validation once its defaults are filled in.
func TestExamplesAreValid(t *testing.T) {
	for _, set := range GetExamples("all") {
		for _, ex := range set.Pipelines {
			p := ex.Pipeline()
			blocks := make([]models.Block, len(p.Steps))
			for i, s := range p.Steps {
				blocks[i] = models.Block{ID: i + 1, Type: s.Type, Config: s.Config}
			}
			if res := validate.Pipeline(blocks); !res.Valid {
				t.Errorf("%s: %s", ex.Name, res.Message())
			}
		}
	}
}

func TestInstallPipeline(t *testing.T) {
	tempDir := t.TempDir()
	oldWd, _ := os.Getwd()
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(oldWd) })
	files.InitProjectStructure()

	ex := GetExamples("sales")[0].Pipelines[0]
	installed, err := InstallPipeline(ex, false)
	if err != nil || !installed {
		t.Fatalf("InstallPipeline failed: %v", err)
	}

	if _, err := InstallPipeline(ex, false); err == nil {
		t.Error("Expected error installing over an existing pipeline")
	}
	if installed, err := InstallPipeline(ex, true); err != nil || !installed {
		t.Errorf("forced install failed: %v", err)
	}

	p, err := files.ReadPipeline(ex.Filename)
	if err != nil {
		t.Fatalf("ReadPipeline failed: %v", err)
	}
	if p.Name != "Sales Summary" || len(p.Steps) != len(ex.Steps) {
		t.Errorf("unexpected pipeline %+v", p)
	}
}
