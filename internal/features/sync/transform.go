package sync

import (
	"fmt"

	"go-synchub/internal/connectors"

	"github.com/d5/tengo/v2"
)

// applyTransform runs an operator-supplied Tengo script over one raw record.
// The script sees the record as a mutable `record` map and its final value is
// read back as the payload to persist.
func applyTransform(scriptContent string, raw connectors.RawRecord) (connectors.RawRecord, error) {
	script := tengo.NewScript([]byte(scriptContent))

	if err := script.Add("record", map[string]interface{}(raw)); err != nil {
		return nil, fmt.Errorf("failed to bind record: %w", err)
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile script: %w", err)
	}

	if err := compiled.Run(); err != nil {
		return nil, fmt.Errorf("failed to run script: %w", err)
	}

	out := compiled.Get("record").Map()
	if out == nil {
		return nil, fmt.Errorf("script replaced record with a non-map value")
	}
	return out, nil
}
