package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/roivaz/docsplit/internal/mcp/tools"
	"github.com/roivaz/docsplit/internal/service"
)

// EndpointPath is where the streamable HTTP transport is mounted.
const EndpointPath = "/mcp/jsonrpc"

type Config struct {
	ToolAdapters map[string]ToolAdapter
	Options      []server.StreamableHTTPOption
}

func DefaultConfig(svc *service.Service) Config {
	return Config{
		ToolAdapters: map[string]ToolAdapter{
			ToolSplitText:     &tools.SplitTextHandler{Service: svc},
			ToolListSplitters: &tools.ListSplittersHandler{Service: svc},
			ToolListPresets:   &tools.ListPresetsHandler{Service: svc},
		},
		Options: []server.StreamableHTTPOption{
			server.WithEndpointPath(EndpointPath),
			server.WithStateLess(true),
		},
	}
}
