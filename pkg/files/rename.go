package files

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	nonSlug    = regexp.MustCompile(`[^a-z0-9]+`)
	multiDash  = regexp.MustCompile(`-+`)
	turkishMap = strings.NewReplacer(
		"ç", "c", "ğ", "g", "ı", "i", "ö", "o", "ş", "s", "ü", "u",
		"Ç", "c", "Ğ", "g", "İ", "i", "Ö", "o", "Ş", "s", "Ü", "u",
	)
)

// Slugify converts a display name to a valid filename
// Examples:
//
//	"Sales Report" → "sales-report"
//	"Müşteri Özeti!" → "musteri-ozeti"
//	"Q1 #2" → "q1-2"
func Slugify(displayName string) string {
	slug := strings.ToLower(turkishMap.Replace(displayName))
	slug = nonSlug.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	slug = multiDash.ReplaceAllString(slug, "-")

	if slug == "" {
		slug = "unnamed"
	}

	return slug
}

// ExtractDisplayName extracts a display name from a filename
// Examples:
//
//	"sales-report.yaml" → "Sales Report"
func ExtractDisplayName(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))

	parts := strings.Split(name, "-")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(string(part[0])) + part[1:]
		}
	}

	return strings.Join(parts, " ")
}

// RenamePipeline gives a saved pipeline a new display name and moves it to
// the matching file. It returns the new path.
func RenamePipeline(oldPath, newDisplayName string) (string, error) {
	if err := ValidateRename(oldPath, newDisplayName); err != nil {
		return "", err
	}

	pipeline, err := ReadPipeline(oldPath)
	if err != nil {
		return "", err
	}

	newPath := PipelineFileName(newDisplayName)
	if newPath != oldPath && PipelineExists(newPath) {
		return "", fmt.Errorf("a pipeline named '%s' already exists", newPath)
	}

	pipeline.Name = newDisplayName
	pipeline.Path = newPath
	if err := WritePipeline(pipeline); err != nil {
		return "", err
	}

	if newPath != oldPath {
		if err := os.Remove(filepath.Join(OpradoxDir, PipelinesDir, oldPath)); err != nil {
			return "", fmt.Errorf("failed to remove old pipeline file: %w", err)
		}
	}

	return newPath, nil
}

// ValidateRename checks a rename before anything is written
func ValidateRename(oldPath, newDisplayName string) error {
	if err := validatePath(oldPath); err != nil {
		return err
	}
	if strings.TrimSpace(newDisplayName) == "" {
		return fmt.Errorf("new name cannot be empty")
	}
	if !PipelineExists(oldPath) {
		return fmt.Errorf("%w: %s", ErrPipelineNotFound, oldPath)
	}
	return nil
}
