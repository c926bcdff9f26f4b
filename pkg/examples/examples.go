package examples

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/opradox/opradox-cli/pkg/files"
	"github.com/opradox/opradox-cli/pkg/models"
	"github.com/opradox/opradox-cli/pkg/schema"
)

// ExampleSet represents a collection of related example pipelines
type ExampleSet struct {
	Category    string
	Name        string
	Description string
	Pipelines   []ExamplePipeline
}

// ExamplePipeline represents an example pipeline configuration
type ExamplePipeline struct {
	Name        string
	Filename    string
	Description string
	Scenario    string
	Steps       []ExampleStep
}

// ExampleStep is one block of an example: its type plus the settings that
// differ from the type's defaults.
type ExampleStep struct {
	Type   models.BlockType
	Config models.Config
}

var categories = map[string]func() []ExampleSet{
	"sales":     getSalesExamples,
	"customers": getCustomerExamples,
	"quality":   getQualityExamples,
}

// Categories returns the category names in alphabetical order
func Categories() []string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetExamples returns example sets for the given category, or every set for
// "all". Unknown categories yield an empty list.
func GetExamples(category string) []ExampleSet {
	if category == "all" {
		var all []ExampleSet
		for _, name := range Categories() {
			all = append(all, GetExamples(name)...)
		}
		return all
	}

	get, ok := categories[category]
	if !ok {
		return []ExampleSet{}
	}
	sets := get()
	for i := range sets {
		sets[i].Category = category
	}
	return sets
}

// Pipeline builds the pipeline model, with each step's defaults filled in.
func (e ExamplePipeline) Pipeline() *models.Pipeline {
	steps := make([]models.Step, 0, len(e.Steps))
	for _, s := range e.Steps {
		cfg := schema.Defaults(s.Type)
		for k, v := range s.Config {
			cfg[k] = v
		}
		steps = append(steps, models.Step{Type: s.Type, Config: cfg})
	}
	return &models.Pipeline{
		Name:        e.Name,
		Path:        e.Filename,
		Description: e.Description,
		Scenario:    e.Scenario,
		Steps:       steps,
	}
}

// InstallPipeline installs a pipeline example to the user's .opradox directory
func InstallPipeline(pipeline ExamplePipeline, force bool) (bool, error) {
	path := filepath.Join(files.OpradoxDir, files.PipelinesDir, pipeline.Filename)

	if !force {
		if _, err := os.Stat(path); err == nil {
			return false, fmt.Errorf("pipeline already exists at %s", pipeline.Filename)
		}
	}

	if err := files.WritePipeline(pipeline.Pipeline()); err != nil {
		return false, err
	}

	return true, nil
}
