package runner

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opradox/opradox-cli/pkg/client"
	"github.com/opradox/opradox-cli/pkg/models"
	"github.com/opradox/opradox-cli/pkg/schema"
)

type fakeExecutor struct {
	calls    int
	scenario string
	req      client.RunRequest
	res      *client.RunResult
	err      error
}

func (f *fakeExecutor) RunScenario(_ context.Context, scenarioID string, req client.RunRequest) (*client.RunResult, error) {
	f.calls++
	f.scenario = scenarioID
	f.req = req
	return f.res, f.err
}

type memRecorder struct {
	records []Record
}

func (m *memRecorder) Record(_ context.Context, rec Record) error {
	m.records = append(m.records, rec)
	return nil
}

func filterBlock(column string) models.Block {
	cfg := schema.Defaults(models.BlockFilter)
	cfg["column"] = column
	cfg["value"] = "West"
	return models.Block{ID: 1, Type: models.BlockFilter, Config: cfg}
}

func TestRun_EmptyPipeline(t *testing.T) {
	exec := &fakeExecutor{}
	_, err := New(exec).Run(context.Background(), nil, Inputs{File: "a.xlsx"})
	assert.ErrorIs(t, err, ErrEmptyPipeline)
	assert.Zero(t, exec.calls)
}

func TestRun_InvalidPipelineIsNotSent(t *testing.T) {
	exec := &fakeExecutor{}
	rec := &memRecorder{}
	_, err := New(exec, WithRecorder(rec)).Run(context.Background(),
		[]models.Block{filterBlock("")}, Inputs{File: "a.xlsx"})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 1, verr.Result.FirstInvalidID)
	assert.Contains(t, err.Error(), "column")
	assert.Zero(t, exec.calls)
	assert.Empty(t, rec.records)
}

func TestRun_SendsActionsInParams(t *testing.T) {
	exec := &fakeExecutor{res: &client.RunResult{Summary: "1 row"}}
	rec := &memRecorder{}
	r := New(exec, WithRecorder(rec))

	res, err := r.Run(context.Background(), []models.Block{filterBlock("Region")},
		Inputs{Pipeline: "sales", File: "a.xlsx", Sheet: "Q1"})
	require.NoError(t, err)
	assert.Equal(t, "1 row", res.Summary)

	assert.Equal(t, DefaultScenario, exec.scenario)
	assert.Equal(t, "a.xlsx", exec.req.File)
	assert.Equal(t, "Q1", exec.req.Sheet)
	assert.False(t, exec.req.CrossSheet)

	var payload map[string][]map[string]any
	require.NoError(t, json.Unmarshal([]byte(exec.req.Fields["params"]), &payload))
	assert.Equal(t, []map[string]any{{
		"type": "filter", "column": "Region", "operator": "equals", "value": "West",
	}}, payload["actions"])

	require.Len(t, rec.records, 1)
	assert.Equal(t, "sales", rec.records[0].Pipeline)
	assert.Equal(t, "1 row", rec.records[0].Summary)
	assert.NoError(t, rec.records[0].Err)
}

func TestRun_BackendErrorIsWrappedAndRecorded(t *testing.T) {
	backendErr := &client.APIError{Status: 400, Detail: "Column 'Region' not found"}
	exec := &fakeExecutor{err: backendErr}
	rec := &memRecorder{}

	_, err := New(exec, WithRecorder(rec)).Run(context.Background(),
		[]models.Block{filterBlock("Region")}, Inputs{File: "a.xlsx"})

	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Column 'Region' not found", apiErr.Detail)
	require.Len(t, rec.records, 1)
	assert.Error(t, rec.records[0].Err)
}

func TestRun_RequiresFile(t *testing.T) {
	exec := &fakeExecutor{}
	_, err := New(exec).Run(context.Background(), []models.Block{filterBlock("Region")}, Inputs{})
	assert.Error(t, err)
	assert.Zero(t, exec.calls)
}

func TestPrepare_SettingsAndCrossSheet(t *testing.T) {
	settings := models.DefaultSettings()
	settings.Builder.Scenario = "custom_builder"
	settings.Builder.ParamField = "config"
	settings.Builder.ActionsKey = "steps"

	join := schema.Defaults(models.BlockLookupJoin)
	join["main_key"] = "ID"
	join["source_key"] = "ID"
	join["source_type"] = models.SourceSameFileSheet
	join["source_sheet"] = "Customers"

	r := New(&fakeExecutor{}, FromSettings(settings)...)
	scenario, req, err := r.Prepare([]models.Block{{ID: 1, Type: models.BlockLookupJoin, Config: join}}, Inputs{})
	require.NoError(t, err)

	assert.Equal(t, "custom_builder", scenario)
	assert.True(t, req.CrossSheet)
	require.Contains(t, req.Fields, "config")
	assert.Contains(t, req.Fields["config"], `"steps":[`)

	scenario, _, err = r.Prepare([]models.Block{{ID: 1, Type: models.BlockLookupJoin, Config: join}},
		Inputs{Scenario: "override"})
	require.NoError(t, err)
	assert.Equal(t, "override", scenario)
}

func TestPrepare_MixedSecondFileAndCrossSheet(t *testing.T) {
	union := schema.Defaults(models.BlockUnion)
	union["source_type"] = models.SourceSecondFile

	join := schema.Defaults(models.BlockLookupJoin)
	join["main_key"] = "ID"
	join["source_key"] = "ID"
	join["source_type"] = models.SourceSameFileSheet
	join["source_sheet"] = "Customers"

	blocks := []models.Block{
		{ID: 1, Type: models.BlockUnion, Config: union},
		{ID: 2, Type: models.BlockLookupJoin, Config: join},
	}
	_, req, err := New(&fakeExecutor{}).Prepare(blocks, Inputs{File: "a.xlsx", SecondFile: "b.xlsx"})
	require.NoError(t, err)
	assert.True(t, req.CrossSheet)
	assert.Equal(t, "b.xlsx", req.SecondFile, "the union still needs the second file")
	assert.Contains(t, req.Fields["params"], `"crosssheet_name":"Customers"`)
}
