package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opradox/opradox-cli/pkg/runner"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.Record(ctx, runner.Record{
		Pipeline: "sales", Scenario: "visual_builder", File: "a.xlsx", Blocks: 2,
		Actions: `{"actions":[]}`, StartedAt: base, Duration: 1500 * time.Millisecond, Summary: "ok",
	}))
	require.NoError(t, s.Record(ctx, runner.Record{
		Pipeline: "sales", Scenario: "visual_builder", File: "a.xlsx", Blocks: 2,
		StartedAt: base.Add(time.Hour), Err: errors.New("backend returned 400: bad column"),
	}))
	require.NoError(t, s.Record(ctx, runner.Record{
		Pipeline: "costs", Scenario: "visual_builder", File: "b.xlsx", StartedAt: base.Add(2 * time.Hour),
	}))

	all, err := s.Recent(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "costs", all[0].Pipeline, "newest first")

	sales, err := s.Recent(ctx, "sales", 10)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, StatusFailed, sales[0].Status)
	assert.Equal(t, "backend returned 400: bad column", sales[0].Error)
	assert.Equal(t, StatusSuccess, sales[1].Status)
	assert.Equal(t, "ok", sales[1].Summary)
	assert.Equal(t, 1500*time.Millisecond, sales[1].Duration)
	assert.True(t, sales[1].StartedAt.Equal(base))
	assert.NotEmpty(t, sales[1].ID)

	limited, err := s.Recent(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestPrune(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Record(ctx, runner.Record{Pipeline: "p", Scenario: "s", File: "f", StartedAt: old}))
	require.NoError(t, s.Record(ctx, runner.Record{Pipeline: "p", Scenario: "s", File: "f", StartedAt: old.AddDate(1, 0, 0)}))

	n, err := s.Prune(ctx, old.AddDate(0, 6, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	left, err := s.Recent(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestRecent_Empty(t *testing.T) {
	entries, err := openTemp(t).Recent(context.Background(), "", 5)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
