package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/opradox/opradox-cli/pkg/models"
	"github.com/opradox/opradox-cli/pkg/schema"
)

// ValidateFilePath validates that a file path exists and is a file
func ValidateFilePath(path string) error {
	if !filepath.IsAbs(path) {
		path, _ = filepath.Abs(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", path)
		}
		return fmt.Errorf("error accessing file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, expected file: %s", path)
	}

	return nil
}

// ValidateOutputFormat validates the output format flag
func ValidateOutputFormat(format string) error {
	switch OutputFormat(format) {
	case FormatText, FormatJSON, FormatYAML:
		return nil
	}
	return fmt.Errorf("invalid output format: %s (must be: text, json, or yaml)", format)
}

// ValidatePipelineName validates a pipeline name
func ValidatePipelineName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("pipeline name cannot be empty")
	}

	invalidChars := []string{"/", "\\", "..", "~", "$", "`"}
	for _, char := range invalidChars {
		if strings.Contains(name, char) {
			return fmt.Errorf("pipeline name contains invalid character: %s", char)
		}
	}

	return nil
}

// ParseBlockType checks t against the known block types
func ParseBlockType(t string) (models.BlockType, error) {
	bt := models.BlockType(strings.ToLower(strings.TrimSpace(t)))
	if !schema.IsKnown(bt) {
		return "", fmt.Errorf("unknown block type: %s (run 'opradox types' for the list)", t)
	}
	return bt, nil
}

// ParseIndex converts a 1-based step position into a 0-based index
func ParseIndex(arg string, count int) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid step number: %s", arg)
	}
	if n < 1 || n > count {
		return 0, fmt.Errorf("step %d out of range (pipeline has %d steps)", n, count)
	}
	return n - 1, nil
}

// Assignment is one key=value argument.
type Assignment struct {
	Key   string
	Value string
}

// ParseAssignments splits key=value arguments, keeping their order
func ParseAssignments(args []string) ([]Assignment, error) {
	out := make([]Assignment, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		out = append(out, Assignment{Key: key, Value: value})
	}
	return out, nil
}
