// Package runner validates and exports a pipeline, then hands the action JSON
// to the backend scenario endpoint.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/opradox/opradox-cli/pkg/client"
	"github.com/opradox/opradox-cli/pkg/export"
	"github.com/opradox/opradox-cli/pkg/models"
	"github.com/opradox/opradox-cli/pkg/validate"
)

const (
	DefaultScenario   = "visual_builder"
	DefaultParamField = "params"
	DefaultActionsKey = "actions"
)

// ErrEmptyPipeline is returned when a run is attempted with no blocks.
var ErrEmptyPipeline = errors.New("pipeline has no blocks, add a block first")

// ValidationError carries the validator result of a refused run.
type ValidationError struct {
	Result validate.Result
}

func (e *ValidationError) Error() string {
	return "pipeline is not valid: " + e.Result.Message()
}

// Executor runs a scenario on the backend. *client.Client implements it.
type Executor interface {
	RunScenario(ctx context.Context, scenarioID string, req client.RunRequest) (*client.RunResult, error)
}

// Recorder stores the outcome of every attempted run.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
}

// Inputs are the files and sheets a run is executed against.
type Inputs struct {
	Pipeline    string
	Scenario    string
	File        string
	SecondFile  string
	Sheet       string
	SecondSheet string
}

// Record describes one finished run.
type Record struct {
	Pipeline  string
	Scenario  string
	File      string
	Blocks    int
	Actions   string
	StartedAt time.Time
	Duration  time.Duration
	Summary   string
	Err       error
}

// Runner turns blocks into a scenario execution.
type Runner struct {
	exec       Executor
	recorder   Recorder
	logger     *slog.Logger
	scenario   string
	paramField string
	actionsKey string
	now        func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

func WithRecorder(r Recorder) Option {
	return func(rn *Runner) { rn.recorder = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(rn *Runner) {
		if l != nil {
			rn.logger = l
		}
	}
}

// WithScenario sets the scenario used when Inputs names none.
func WithScenario(id string) Option {
	return func(rn *Runner) {
		if id != "" {
			rn.scenario = id
		}
	}
}

// WithParamField sets the form field and the JSON key the actions are sent
// under.
func WithParamField(field, key string) Option {
	return func(rn *Runner) {
		if field != "" {
			rn.paramField = field
		}
		if key != "" {
			rn.actionsKey = key
		}
	}
}

// FromSettings applies the builder section of the settings file.
func FromSettings(s *models.Settings) []Option {
	if s == nil {
		return nil
	}
	return []Option{
		WithScenario(s.Builder.Scenario),
		WithParamField(s.Builder.ParamField, s.Builder.ActionsKey),
	}
}

func New(exec Executor, opts ...Option) *Runner {
	r := &Runner{
		exec:       exec,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		scenario:   DefaultScenario,
		paramField: DefaultParamField,
		actionsKey: DefaultActionsKey,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Prepare validates blocks and builds the request without sending it.
func (r *Runner) Prepare(blocks []models.Block, in Inputs) (string, client.RunRequest, error) {
	if len(blocks) == 0 {
		return "", client.RunRequest{}, ErrEmptyPipeline
	}
	if res := validate.Pipeline(blocks); !res.Valid {
		return "", client.RunRequest{}, &ValidationError{Result: res}
	}

	payload, err := export.Payload(blocks, r.actionsKey)
	if err != nil {
		return "", client.RunRequest{}, err
	}

	scenario := in.Scenario
	if scenario == "" {
		scenario = r.scenario
	}
	req := client.RunRequest{
		File:        in.File,
		SecondFile:  in.SecondFile,
		Sheet:       in.Sheet,
		SecondSheet: in.SecondSheet,
		CrossSheet:  crossSheet(blocks),
		Fields:      map[string]string{r.paramField: string(payload)},
	}
	return scenario, req, nil
}

// Run validates, exports and executes blocks. Nothing is sent unless the
// pipeline is valid. Every attempt that reaches the backend is recorded.
func (r *Runner) Run(ctx context.Context, blocks []models.Block, in Inputs) (*client.RunResult, error) {
	scenario, req, err := r.Prepare(blocks, in)
	if err != nil {
		return nil, err
	}
	if in.File == "" {
		return nil, fmt.Errorf("a main file is required")
	}

	start := r.now()
	r.logger.Info("running pipeline", "pipeline", in.Pipeline, "scenario", scenario, "blocks", len(blocks))
	res, err := r.exec.RunScenario(ctx, scenario, req)
	elapsed := r.now().Sub(start)

	rec := Record{
		Pipeline:  in.Pipeline,
		Scenario:  scenario,
		File:      in.File,
		Blocks:    len(blocks),
		Actions:   req.Fields[r.paramField],
		StartedAt: start,
		Duration:  elapsed,
		Err:       err,
	}
	if res != nil {
		rec.Summary = res.Summary
	}
	if r.recorder != nil {
		if rerr := r.recorder.Record(ctx, rec); rerr != nil {
			r.logger.Warn("failed to record run", "error", rerr)
		}
	}

	if err != nil {
		r.logger.Warn("pipeline run failed", "pipeline", in.Pipeline, "error", err)
		return nil, fmt.Errorf("run failed: %w", err)
	}
	r.logger.Info("pipeline run finished", "pipeline", in.Pipeline, "elapsed", elapsed)
	return res, nil
}

// crossSheet reports whether any block reads its second table from another
// sheet of the main file.
func crossSheet(blocks []models.Block) bool {
	for _, b := range blocks {
		if b.Config.String("source_type") == models.SourceSameFileSheet {
			return true
		}
	}
	return false
}
