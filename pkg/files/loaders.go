package files

import (
	"path/filepath"
	"strings"

	"github.com/opradox/opradox-cli/pkg/models"
)

// LoadPipeline accepts a pipeline name, a file name or a path inside
// .opradox/pipelines and reads the pipeline it refers to.
func LoadPipeline(ref string) (*models.Pipeline, error) {
	return ReadPipeline(ResolvePipelinePath(ref))
}

// ResolvePipelinePath maps the forms LoadPipeline accepts to a path
// relative to the pipelines directory.
func ResolvePipelinePath(ref string) string {
	prefix := filepath.Join(OpradoxDir, PipelinesDir) + string(filepath.Separator)
	if idx := strings.Index(ref, prefix); idx >= 0 {
		return ref[idx+len(prefix):]
	}
	if strings.HasSuffix(ref, PipelineExt) {
		return ref
	}
	if PipelineExists(ref + PipelineExt) {
		return ref + PipelineExt
	}
	return PipelineFileName(ref)
}
