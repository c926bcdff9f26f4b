package client

import (
	"context"
	"fmt"

	"github.com/opradox/opradox-cli/pkg/builder"
)

// Columns fetches sheet columns through the inspect endpoint for the files of
// one builder session.
type Columns struct {
	Client     *Client
	MainFile   string
	SecondFile string
}

// Columns implements builder.ColumnSource.
func (s Columns) Columns(ctx context.Context, ref builder.SheetRef) ([]string, error) {
	path := s.MainFile
	if ref.File == builder.FileSecond {
		path = s.SecondFile
	}
	if path == "" {
		return nil, fmt.Errorf("no %s file selected", ref.File)
	}
	res, err := s.Client.Inspect(ctx, path, ref.Sheet)
	if err != nil {
		return nil, err
	}
	return res.Columns, nil
}

var _ builder.ColumnSource = Columns{}
