package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/opradox/opradox-cli/pkg/models"
	"gopkg.in/yaml.v3"
)

const (
	OpradoxDir   = ".opradox"
	PipelinesDir = "pipelines"
	ArchiveDir   = "archive"
	SettingsFile = "settings.yaml"
	HistoryFile  = "history.db"
	PipelineExt  = ".yaml"
)

// ErrPipelineNotFound is returned when a pipeline file does not exist.
var ErrPipelineNotFound = errors.New("pipeline not found")

func InitProjectStructure() error {
	dirs := []string{
		OpradoxDir,
		filepath.Join(OpradoxDir, PipelinesDir),
		filepath.Join(OpradoxDir, ArchiveDir, PipelinesDir),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// IsInitialized reports whether the working directory has a project.
func IsInitialized() bool {
	info, err := os.Stat(OpradoxDir)
	return err == nil && info.IsDir()
}

// PipelineFileName returns the file name a pipeline called name is saved as.
func PipelineFileName(name string) string {
	return Slugify(name) + PipelineExt
}

func ReadPipeline(path string) (*models.Pipeline, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}
	return readPipelineFile(filepath.Join(OpradoxDir, PipelinesDir, path), path)
}

func readPipelineFile(absPath, path string) (*models.Pipeline, error) {
	content, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrPipelineNotFound, path)
		}
		return nil, fmt.Errorf("failed to read pipeline %s: %w", path, err)
	}

	var pipeline models.Pipeline
	if err := yaml.Unmarshal(content, &pipeline); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline YAML %s: %w", path, err)
	}
	for i := range pipeline.Steps {
		if pipeline.Steps[i].Config == nil {
			pipeline.Steps[i].Config = models.Config{}
		}
	}

	pipeline.Path = path

	return &pipeline, nil
}

func WritePipeline(pipeline *models.Pipeline) error {
	if pipeline.Path == "" {
		pipeline.Path = PipelineFileName(pipeline.Name)
	}
	if err := validatePath(pipeline.Path); err != nil {
		return err
	}
	return writePipelineFile(filepath.Join(OpradoxDir, PipelinesDir, pipeline.Path), pipeline)
}

func writePipelineFile(absPath string, pipeline *models.Pipeline) error {
	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory for pipeline: %w", err)
	}

	if pipeline.Steps == nil {
		pipeline.Steps = []models.Step{}
	}
	content, err := yaml.Marshal(pipeline)
	if err != nil {
		return fmt.Errorf("failed to marshal pipeline to YAML: %w", err)
	}

	if err := os.WriteFile(absPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write pipeline %s: %w", pipeline.Path, err)
	}

	return nil
}

// PipelineExists reports whether path exists under the pipelines directory.
func PipelineExists(path string) bool {
	_, err := os.Stat(filepath.Join(OpradoxDir, PipelinesDir, path))
	return err == nil
}

func DeletePipeline(path string) error {
	if err := validatePath(path); err != nil {
		return fmt.Errorf("invalid pipeline path: %w", err)
	}

	absPath := filepath.Join(OpradoxDir, PipelinesDir, path)
	if err := os.Remove(absPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrPipelineNotFound, path)
		}
		return fmt.Errorf("failed to delete pipeline '%s': %w", path, err)
	}

	return nil
}

func ListPipelines() ([]string, error) {
	return listYAML(filepath.Join(OpradoxDir, PipelinesDir))
}

func listYAML(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list pipelines: %w", err)
	}

	pipelines := []string{}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), PipelineExt) {
			pipelines = append(pipelines, entry.Name())
		}
	}
	sort.Strings(pipelines)

	return pipelines, nil
}

// WriteFile writes content to a file outside the project directory
func WriteFile(path string, content []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

// validatePath rejects paths that escape the project directory.
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if filepath.IsAbs(path) {
		return fmt.Errorf("path must be relative: %s", path)
	}
	clean := filepath.Clean(path)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path escapes project directory: %s", path)
	}
	return nil
}
