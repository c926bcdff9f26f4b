// Package export maps builder blocks to the action list the opradox backend
// runs. It is pure: the same blocks always produce the same actions and bytes.
package export

import (
	"encoding/json"
	"fmt"

	"github.com/opradox/opradox-cli/pkg/models"
	"github.com/opradox/opradox-cli/pkg/schema"
)

// Action is the backend-facing form of one block.
type Action = schema.Action

// Pipeline returns one action per block, in block order. Blocks of unknown
// type pass through with their config copied verbatim.
func Pipeline(blocks []models.Block) []Action {
	actions := make([]Action, 0, len(blocks))
	for _, b := range blocks {
		actions = append(actions, Block(b))
	}
	return actions
}

// Block exports a single block.
func Block(b models.Block) Action {
	spec, ok := schema.Lookup(b.Type)
	if !ok {
		act := Action{}
		for k, v := range b.Config.Clone() {
			act[k] = v
		}
		act["type"] = string(b.Type)
		return act
	}
	cfg := b.Config
	if cfg == nil {
		cfg = models.Config{}
	}
	return spec.Export(cfg)
}

// JSON encodes the exported actions. Object keys are sorted, so the output is
// byte-identical for an unchanged pipeline.
func JSON(blocks []models.Block) ([]byte, error) {
	data, err := json.Marshal(Pipeline(blocks))
	if err != nil {
		return nil, fmt.Errorf("failed to encode actions: %w", err)
	}
	return data, nil
}

// IndentedJSON is JSON for humans.
func IndentedJSON(blocks []models.Block) ([]byte, error) {
	data, err := json.MarshalIndent(Pipeline(blocks), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode actions: %w", err)
	}
	return data, nil
}

// Payload wraps the action array under key, ready for the single form field
// the scenario executor reads.
func Payload(blocks []models.Block, key string) ([]byte, error) {
	if key == "" {
		key = "actions"
	}
	data, err := json.Marshal(map[string]any{key: Pipeline(blocks)})
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return data, nil
}
