package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opradox/opradox-cli/internal/cli"
	"github.com/opradox/opradox-cli/pkg/builder"
	"github.com/opradox/opradox-cli/pkg/files"
	"github.com/opradox/opradox-cli/pkg/form"
	"github.com/opradox/opradox-cli/pkg/models"
	"github.com/opradox/opradox-cli/pkg/schema"
)

// requireProject is the PreRunE of every command that works on .opradox.
func requireProject(cmd *cobra.Command, args []string) error {
	return cli.NewCommandContext().ValidateProject()
}

// session is a saved pipeline opened in a builder.
type session struct {
	pipeline *models.Pipeline
	builder  *builder.Builder
}

func openSession(ref string) (*session, error) {
	p, err := files.LoadPipeline(ref)
	if err != nil {
		return nil, err
	}
	b := builder.New(builder.WithLogger(cli.Logger()))
	b.Load(*p)
	return &session{pipeline: p, builder: b}, nil
}

// blockAt returns the id of the 1-based step argument.
func (s *session) blockAt(arg string) (int, error) {
	blocks := s.builder.Blocks()
	idx, err := cli.ParseIndex(arg, len(blocks))
	if err != nil {
		return 0, err
	}
	return blocks[idx].ID, nil
}

func (s *session) save() error {
	snap := s.builder.Snapshot(s.pipeline.Name)
	s.pipeline.Steps = snap.Steps
	return files.WritePipeline(s.pipeline)
}

// assign applies key=value pairs to block id in order, so a variant key set
// first makes its fields available to the pairs after it.
func assign(b *builder.Builder, id int, pairs []cli.Assignment, manual bool) error {
	for _, a := range pairs {
		f, ok := form.Render(b, id)
		if !ok {
			return fmt.Errorf("block #%d not found", id)
		}
		in, ok := f.Input(a.Key)
		if !ok {
			return fmt.Errorf("%s has no field %q (fields: %s)", f.Title, a.Key, strings.Join(fieldKeys(f), ", "))
		}
		var err error
		switch {
		case in.Field.Kind == schema.FieldColumn && manual:
			err = form.TypeManual(b, id, a.Key, a.Value)
		case in.Field.Kind == schema.FieldColumn:
			err = form.ChooseOption(b, id, a.Key, strings.TrimSpace(a.Value))
		default:
			err = form.Apply(b, id, in, a.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func fieldKeys(f form.Form) []string {
	keys := make([]string, len(f.Inputs))
	for i, in := range f.Inputs {
		keys[i] = in.Field.Key
	}
	return keys
}

func outputFormat(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString("output")
	if format == "" {
		return string(cli.FormatText)
	}
	return format
}

func isQuiet(cmd *cobra.Command) bool {
	quiet, _ := cmd.Flags().GetBool("quiet")
	return quiet
}

func skipConfirm(cmd *cobra.Command) bool {
	yes, _ := cmd.Flags().GetBool("yes")
	return yes
}
