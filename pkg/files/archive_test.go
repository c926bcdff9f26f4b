package files

import (
	"errors"
	"testing"

	"github.com/opradox/opradox-cli/pkg/models"
)

func TestArchiveAndRestorePipeline(t *testing.T) {
	chdirTemp(t)
	InitProjectStructure()
	WritePipeline(&models.Pipeline{Name: "old-report"})

	tests := []struct {
		name        string
		action      func() error
		wantActive  bool
		wantArchive bool
		wantErr     bool
	}{
		{
			name:        "archive active pipeline",
			action:      func() error { return ArchivePipeline("old-report.yaml") },
			wantActive:  false,
			wantArchive: true,
		},
		{
			name:        "archive again fails",
			action:      func() error { return ArchivePipeline("old-report.yaml") },
			wantArchive: true,
			wantErr:     true,
		},
		{
			name:       "restore",
			action:     func() error { return RestorePipeline("old-report.yaml") },
			wantActive: true,
		},
		{
			name:       "restore missing fails",
			action:     func() error { return RestorePipeline("old-report.yaml") },
			wantActive: true,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.action()
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}

			active, _ := ListPipelines()
			archived, _ := ListArchivedPipelines()
			if got := len(active) == 1; got != tt.wantActive {
				t.Errorf("active = %v, want %v", active, tt.wantActive)
			}
			if got := len(archived) == 1; got != tt.wantArchive {
				t.Errorf("archived = %v, want %v", archived, tt.wantArchive)
			}
		})
	}
}

func TestArchivePipeline_Missing(t *testing.T) {
	chdirTemp(t)
	InitProjectStructure()

	if err := ArchivePipeline("nope.yaml"); !errors.Is(err, ErrPipelineNotFound) {
		t.Errorf("Expected ErrPipelineNotFound, got %v", err)
	}
}

func TestReadAndDeleteArchivedPipeline(t *testing.T) {
	chdirTemp(t)
	InitProjectStructure()
	WritePipeline(&models.Pipeline{Name: "q1", Steps: []models.Step{{Type: models.BlockChart}}})
	if err := ArchivePipeline("q1.yaml"); err != nil {
		t.Fatalf("ArchivePipeline failed: %v", err)
	}

	p, err := ReadArchivedPipeline("q1.yaml")
	if err != nil {
		t.Fatalf("ReadArchivedPipeline failed: %v", err)
	}
	if len(p.Steps) != 1 || p.Steps[0].Type != models.BlockChart {
		t.Errorf("unexpected steps %v", p.Steps)
	}

	if err := DeleteArchivedPipeline("q1.yaml"); err != nil {
		t.Fatalf("DeleteArchivedPipeline failed: %v", err)
	}
	if err := DeleteArchivedPipeline("q1.yaml"); err == nil {
		t.Error("Expected error deleting a missing archived pipeline")
	}
}
