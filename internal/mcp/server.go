package mcp

import (
	"context"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/roivaz/docsplit/internal/render"
	"github.com/roivaz/docsplit/internal/splitter"
)

type ToolAdapter interface {
	ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

type Server struct {
	MCP     *server.MCPServer
	HTTP    *server.StreamableHTTPServer
	Handler http.Handler
}

// Tool names served by the MCP endpoint.
const (
	ToolSplitText     = "split_text"
	ToolListSplitters = "list_splitters"
	ToolListPresets   = "list_presets"
)

func toolDefinitions() map[string]mcp.Tool {
	kinds := make([]string, len(splitter.Kinds))
	for i, k := range splitter.Kinds {
		kinds[i] = string(k)
	}
	formats := make([]string, len(render.Formats))
	for i, f := range render.Formats {
		formats[i] = string(f)
	}

	return map[string]mcp.Tool{
		ToolSplitText: mcp.NewTool(ToolSplitText,
			mcp.WithDescription("Split text into bounded, overlapping chunks for embedding or retrieval. Returns the chunks with header or declaration metadata, or a rendered document when output_format is set."),
			mcp.WithString("text",
				mcp.Required(),
				mcp.Description("The extracted plain text or markdown to split"),
			),
			mcp.WithString("splitter_type",
				mcp.Description("Splitting strategy (default: recursive)"),
				mcp.Enum(kinds...),
			),
			mcp.WithNumber("chunk_size",
				mcp.Description("Maximum chunk size in characters, or words for the token splitter (default: 1000)"),
			),
			mcp.WithNumber("chunk_overlap",
				mcp.Description("Units shared between consecutive chunks; must be smaller than chunk_size (default: 200)"),
			),
			mcp.WithArray("separators",
				mcp.Description("Ordered separator list, coarse to fine. Only recursive and character splitters accept it"),
				mcp.WithStringItems(),
			),
			mcp.WithBoolean("keep_separator",
				mcp.Description("Keep the separator at the start of the following chunk (default: false)"),
			),
			mcp.WithNumber("max_header_level",
				mcp.Description("Deepest markdown heading level that opens a section, 1-6 (markdown only)"),
			),
			mcp.WithString("preset",
				mcp.Description("Optional: named parameter preset applied before the other arguments"),
			),
			mcp.WithString("splitter_params",
				mcp.Description("Optional: JSON object with any of the parameters above"),
			),
			mcp.WithString("output_format",
				mcp.Description("Optional: render the result as md, json or jsonl instead of returning raw chunks"),
				mcp.Enum(formats...),
			),
		),
		ToolListSplitters: mcp.NewTool(ToolListSplitters,
			mcp.WithDescription("List the available splitting strategies with their parameters, default separators and the default chunking parameters."),
		),
		ToolListPresets: mcp.NewTool(ToolListPresets,
			mcp.WithDescription("List the named parameter presets that split_text accepts."),
		),
	}
}

func New(cfg Config) *Server {
	mcpServer := server.NewMCPServer(
		"docsplit",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	defs := toolDefinitions()
	for name, adapter := range cfg.ToolAdapters {
		tool, ok := defs[name]
		if !ok {
			continue
		}
		mcpServer.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return adapter.ToolAdapter(ctx, req)
		})
	}

	httpServer := server.NewStreamableHTTPServer(mcpServer, cfg.Options...)

	return &Server{
		MCP:     mcpServer,
		HTTP:    httpServer,
		Handler: httpServer,
	}
}
