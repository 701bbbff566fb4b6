package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roivaz/docsplit/internal/mcp/tools/types"
	"github.com/roivaz/docsplit/internal/params"
	"github.com/roivaz/docsplit/internal/splitter"
)

type CatalogService interface {
	Catalog() splitter.CatalogInfo
	Presets() params.Presets
}

type ListSplittersHandler struct{ Service CatalogService }

func (h *ListSplittersHandler) ToolAdapter(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(string(mustMarshal(h.Service.Catalog()))), nil
}

type ListPresetsHandler struct{ Service CatalogService }

func (h *ListPresetsHandler) ToolAdapter(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	presets := h.Service.Presets()
	out := make([]types.PresetSummary, 0, len(presets))
	for _, name := range presets.Names() {
		out = append(out, types.PresetSummary{Name: name, Description: presets[name].Description})
	}
	response := struct {
		Presets []types.PresetSummary `json:"presets"`
		Total   int                   `json:"total"`
	}{Presets: out, Total: len(out)}
	return mcp.NewToolResultText(string(mustMarshal(response))), nil
}
