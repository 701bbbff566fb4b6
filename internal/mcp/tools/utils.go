package tools

import (
	"encoding/json"
	"fmt"
)

func mustMarshal(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

// splitterParams merges the optional splitter_params JSON string with the
// individual arguments. Individual arguments win.
func splitterParams(args map[string]any) (string, error) {
	merged := map[string]any{}
	if raw, ok := args["splitter_params"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &merged); err != nil {
			return "", fmt.Errorf("splitter_params must be a JSON object: %w", err)
		}
		if merged == nil {
			merged = map[string]any{}
		}
	}
	for _, key := range paramKeys {
		if v, ok := args[key]; ok && v != nil {
			merged[key] = v
		}
	}
	return string(mustMarshal(merged)), nil
}

var paramKeys = []string{
	"preset",
	"splitter_type",
	"chunk_size",
	"chunk_overlap",
	"separators",
	"keep_separator",
	"max_header_level",
}
