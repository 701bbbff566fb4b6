package types

import "github.com/roivaz/docsplit/internal/splitter"

type SplitTextResponse struct {
	ChunkCount     int              `json:"chunk_count"`
	SplitterParams splitter.Config  `json:"splitter_params"`
	Preview        []string         `json:"preview"`
	Chunks         []splitter.Chunk `json:"chunks,omitempty"`
	Tokens         []int            `json:"tokens,omitempty"`
	OutputFormat   string           `json:"output_format,omitempty"`
	Output         string           `json:"output,omitempty"`
}

type PresetSummary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
