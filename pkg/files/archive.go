package files

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/opradox/opradox-cli/pkg/models"
)

func archivePath(path string) string {
	return filepath.Join(OpradoxDir, ArchiveDir, PipelinesDir, path)
}

// ArchivePipeline moves a pipeline out of the active list.
func ArchivePipeline(path string) error {
	if err := validatePath(path); err != nil {
		return fmt.Errorf("invalid pipeline path: %w", err)
	}
	src := filepath.Join(OpradoxDir, PipelinesDir, path)
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrPipelineNotFound, path)
	}
	dst := archivePath(path)
	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("an archived pipeline named '%s' already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("failed to archive pipeline '%s': %w", path, err)
	}
	return nil
}

// RestorePipeline moves an archived pipeline back to the active list.
func RestorePipeline(path string) error {
	if err := validatePath(path); err != nil {
		return fmt.Errorf("invalid pipeline path: %w", err)
	}
	src := archivePath(path)
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return fmt.Errorf("archived pipeline not found at path '%s'", path)
	}
	if PipelineExists(path) {
		return fmt.Errorf("a pipeline named '%s' already exists", path)
	}
	dst := filepath.Join(OpradoxDir, PipelinesDir, path)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create pipelines directory: %w", err)
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("failed to restore pipeline '%s': %w", path, err)
	}
	return nil
}

func ListArchivedPipelines() ([]string, error) {
	return listYAML(filepath.Join(OpradoxDir, ArchiveDir, PipelinesDir))
}

func ReadArchivedPipeline(path string) (*models.Pipeline, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}
	return readPipelineFile(archivePath(path), path)
}

// DeleteArchivedPipeline deletes an archived pipeline
func DeleteArchivedPipeline(path string) error {
	if err := validatePath(path); err != nil {
		return fmt.Errorf("invalid pipeline path: %w", err)
	}

	absPath := archivePath(path)
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return fmt.Errorf("archived pipeline not found at path '%s'", path)
	}

	if err := os.Remove(absPath); err != nil {
		return fmt.Errorf("failed to delete archived pipeline '%s': %w", path, err)
	}

	return nil
}
