package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opradox/opradox-cli/pkg/builder"
	"github.com/opradox/opradox-cli/pkg/models"
	"github.com/opradox/opradox-cli/pkg/schema"
)

func TestRender_EveryTypeRenders(t *testing.T) {
	b := builder.New(builder.WithMainColumns([]string{"A"}))
	for _, bt := range schema.Types() {
		blk := b.AddBlock(bt)
		f, ok := Render(b, blk.ID)
		require.True(t, ok, string(bt))
		assert.NotEmpty(t, f.Inputs, string(bt))
		for _, in := range f.Inputs {
			if in.Field.Kind == schema.FieldColumn {
				assert.NotNil(t, in.Hybrid, "%s.%s", bt, in.Field.Key)
			}
		}
	}
}

func TestRender_MarksMissingRequired(t *testing.T) {
	b := builder.New(builder.WithMainColumns([]string{"Region", "Sales"}))
	blk := b.AddBlock(models.BlockFilter)

	f, ok := Render(b, blk.ID)
	require.True(t, ok)

	col, ok := f.Input("column")
	require.True(t, ok)
	assert.True(t, col.Required)
	assert.True(t, col.Missing)
	assert.Equal(t, []string{"Region", "Sales"}, col.Options)

	op, _ := f.Input("operator")
	assert.True(t, op.Required)
	assert.False(t, op.Missing)
	assert.Equal(t, "equals", op.Value)
	assert.NotEmpty(t, op.Options)
}

func TestRender_HidesOtherVariants(t *testing.T) {
	b := builder.New()
	blk := b.AddBlock(models.BlockTextTransform)

	f, _ := Render(b, blk.ID)
	_, ok := f.Input("pattern")
	assert.False(t, ok)

	b.UpdateConfig(blk.ID, "transform_type", "replace")
	f, _ = Render(b, blk.ID)
	pattern, ok := f.Input("pattern")
	require.True(t, ok)
	assert.True(t, pattern.Required)
}

func TestRender_UnknownBlock(t *testing.T) {
	_, ok := Render(builder.New(), 5)
	assert.False(t, ok)
}

func TestHybrid_ManualAfterDropdownWins(t *testing.T) {
	b := builder.New(builder.WithMainColumns([]string{"Region", "Sales"}))
	blk := b.AddBlock(models.BlockSort)

	require.NoError(t, ChooseOption(b, blk.ID, "column", "Region"))
	require.NoError(t, TypeManual(b, blk.ID, "column", "My Column"))

	got, _ := b.Block(blk.ID)
	assert.Equal(t, models.ColumnRef{Source: models.RefManual, Value: "My Column"}, got.Config["column"])

	f, _ := Render(b, blk.ID)
	in, _ := f.Input("column")
	assert.Equal(t, "My Column", in.Hybrid.Manual)
	assert.Empty(t, in.Hybrid.List)
}

func TestHybrid_DropdownClearsManual(t *testing.T) {
	b := builder.New(builder.WithMainColumns([]string{"Region", "Sales"}))
	blk := b.AddBlock(models.BlockSort)

	require.NoError(t, TypeManual(b, blk.ID, "column", "Typed"))
	require.NoError(t, ChooseOption(b, blk.ID, "column", "Sales"))

	f, _ := Render(b, blk.ID)
	in, _ := f.Input("column")
	assert.Equal(t, "Sales", in.Hybrid.List)
	assert.Empty(t, in.Hybrid.Manual)
	assert.Equal(t, "Sales", in.Value)
}

func TestHybrid_EmptyManualKeepsDropdown(t *testing.T) {
	b := builder.New(builder.WithMainColumns([]string{"Region"}))
	blk := b.AddBlock(models.BlockSort)

	require.NoError(t, ChooseOption(b, blk.ID, "column", "Region"))
	require.NoError(t, TypeManual(b, blk.ID, "column", "   "))

	got, _ := b.Block(blk.ID)
	assert.Equal(t, models.ColumnRef{Source: models.RefList, Value: "Region"}, got.Config["column"])
}

func TestHybrid_Errors(t *testing.T) {
	b := builder.New()
	blk := b.AddBlock(models.BlockSort)

	assert.Error(t, ChooseOption(b, 99, "column", "A"))
	assert.Error(t, TypeManual(b, blk.ID, "direction", "asc"))
}

func TestApply(t *testing.T) {
	b := builder.New()
	ts := b.AddBlock(models.BlockTimeSeries)
	out := b.AddBlock(models.BlockOutputSettings)
	grp := b.AddBlock(models.BlockGrouping)

	tests := []struct {
		name    string
		id      int
		key     string
		raw     string
		want    any
		wantErr bool
	}{
		{"int", ts.ID, "window", "7", 7, false},
		{"float", ts.ID, "window", "2.5", 2.5, false},
		{"bad number", ts.ID, "window", "seven", nil, true},
		{"bool", out.ID, "freeze_header", "false", false, false},
		{"bad bool", out.ID, "freeze_header", "maybe", nil, true},
		{"list", grp.ID, "groups", "Region, City,,", []string{"Region", "City"}, false},
		{"select", grp.ID, "agg_func", "mean", "mean", false},
		{"bad select", grp.ID, "agg_func", "median-ish", nil, true},
		{"column text is manual", grp.ID, "agg_column", "Sales",
			models.ColumnRef{Source: models.RefManual, Value: "Sales"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := Render(b, tt.id)
			require.True(t, ok)
			in, ok := f.Input(tt.key)
			require.True(t, ok, "field %s", tt.key)

			err := Apply(b, tt.id, in, tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			got, _ := b.Block(tt.id)
			assert.Equal(t, tt.want, got.Config[tt.key])
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{}, SplitList(""))
	assert.Equal(t, []string{"a", "b"}, SplitList(" a ,b"))
}
