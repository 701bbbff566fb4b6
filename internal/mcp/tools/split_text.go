package tools

import (
	"context"
	"errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roivaz/docsplit/internal/mcp/tools/types"
	"github.com/roivaz/docsplit/internal/render"
	"github.com/roivaz/docsplit/internal/service"
	"github.com/roivaz/docsplit/internal/splitter"
)

type SplitService interface {
	ParseParams(raw string) (splitter.Config, error)
	Split(ctx context.Context, req service.Request) (service.Response, error)
}

type SplitTextHandler struct{ Service SplitService }

func (h *SplitTextHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	text, ok := args["text"].(string)
	if !ok {
		return mcp.NewToolResultError("text parameter is required"), nil
	}

	var format render.Format
	if v, ok := args["output_format"].(string); ok && strings.TrimSpace(v) != "" {
		f, err := render.ParseFormat(v)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		format = f
	}

	raw, err := splitterParams(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cfg, err := h.Service.ParseParams(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := h.Service.Split(ctx, service.Request{Text: text, Config: cfg, Format: format})
	if err != nil {
		var cerr *splitter.ConfigError
		if errors.As(err, &cerr) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, err
	}

	out := types.SplitTextResponse{
		ChunkCount:     resp.Result.ChunkCount,
		SplitterParams: resp.Result.Config,
		Preview:        resp.Result.Preview,
		Tokens:         resp.Tokens,
	}
	// Without an explicit format the structured chunks are the answer.
	if format == "" {
		out.Chunks = resp.Result.Chunks
	} else {
		out.OutputFormat = string(resp.Format)
		out.Output = string(resp.Output)
	}
	return mcp.NewToolResultText(string(mustMarshal(out))), nil
}
