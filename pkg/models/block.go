package models

// BlockType identifies the kind of a pipeline step.
type BlockType string

const (
	BlockDataSource        BlockType = "data_source"
	BlockFilter            BlockType = "filter"
	BlockLookupJoin        BlockType = "lookup_join"
	BlockComputed          BlockType = "computed"
	BlockTimeSeries        BlockType = "time_series"
	BlockWindowFunction    BlockType = "window_function"
	BlockPivot             BlockType = "pivot"
	BlockChart             BlockType = "chart"
	BlockSort              BlockType = "sort"
	BlockConditionalFormat BlockType = "conditional_format"
	BlockOutputSettings    BlockType = "output_settings"
	BlockUnion             BlockType = "union"
	BlockDiff              BlockType = "diff"
	BlockValidate          BlockType = "validate"
	BlockGrouping          BlockType = "grouping"
	BlockTextTransform     BlockType = "text_transform"
	BlockAdvancedComputed  BlockType = "advanced_computed"
	BlockIfElse            BlockType = "if_else"
	BlockFormula           BlockType = "formula"
	BlockWhatIfVariable    BlockType = "what_if_variable"
)

// Source types shared by blocks that read a second table
const (
	SourceSecondFile    = "second_file"
	SourceSameFileSheet = "same_file_sheet"
)

// Block is one user-authored pipeline step inside a builder session.
type Block struct {
	ID     int       `yaml:"-" json:"id"`
	Type   BlockType `yaml:"type" json:"type"`
	Config Config    `yaml:"config" json:"config"`
}

// Clone returns a block whose config can be mutated independently.
func (b Block) Clone() Block {
	return Block{ID: b.ID, Type: b.Type, Config: b.Config.Clone()}
}

// Step is the persisted form of a block. Session ids are not stored.
type Step struct {
	Type   BlockType `yaml:"type" json:"type"`
	Config Config    `yaml:"config,omitempty" json:"config,omitempty"`
}

// Pipeline is a named, ordered list of steps saved under .opradox/pipelines.
type Pipeline struct {
	Name        string `yaml:"name" json:"name"`
	Path        string `yaml:"-" json:"-"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Scenario    string `yaml:"scenario,omitempty" json:"scenario,omitempty"`
	Steps       []Step `yaml:"steps" json:"steps"`
}
