package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mj1618/tilewm/internal/command"
	"github.com/mj1618/tilewm/internal/ipc"
	"github.com/mj1618/tilewm/internal/output"
	"github.com/mj1618/tilewm/internal/version"
	"github.com/mj1618/tilewm/internal/wm"
)

// requester sends one IPC message to the window manager.
type requester func(ctx context.Context, msg string) (ipc.Message, error)

// mcpServer bridges MCP tool calls onto the window manager's IPC server.
type mcpServer struct {
	request requester
	cache   *mcpQueryCache
	mcp     *mcpserver.MCPServer
}

// MCPConfig holds MCP server configuration.
type MCPConfig struct {
	Transport string
	Port      int
	CacheTTL  time.Duration
	Address   string
}

// newMCPServer creates an MCP server whose tools proxy to the IPC server
// at cfg.Address. Each tool call opens its own connection.
func newMCPServer(cfg MCPConfig) *mcpServer {
	return newMCPServerWith(cfg, func(ctx context.Context, msg string) (ipc.Message, error) {
		client, err := ipc.Dial(ctx, cfg.Address)
		if err != nil {
			return ipc.Message{}, err
		}
		defer client.Close()
		return client.Request(ctx, msg)
	})
}

func newMCPServerWith(cfg MCPConfig, req requester) *mcpServer {
	s := &mcpServer{
		request: req,
		cache:   newMCPQueryCache(cfg.CacheTTL),
	}
	s.mcp = mcpserver.NewMCPServer("tilewm", version.Version)
	s.registerTools()
	return s
}

// serve starts the MCP server with the configured transport.
func (s *mcpServer) serve(cfg MCPConfig) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *mcpServer) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("query",
			mcp.WithDescription("Read window manager state: the container tree, focus, binding modes, tiling direction or pause state."),
			mcp.WithString("name",
				mcp.Description("Query to run"),
				mcp.Enum(wm.QueryNames...),
				mcp.Required(),
			),
		),
		s.handleQuery,
	)

	s.mcp.AddTool(
		mcp.NewTool("command",
			mcp.WithDescription("Run a window manager command, e.g. 'focus --direction left', 'move --workspace 2', 'resize --width +10%', 'toggle-floating'."),
			mcp.WithString("command", mcp.Description("Command line to run"), mcp.Required()),
			mcp.WithString("id", mcp.Description("Subject container id (default: focused container)")),
		),
		s.handleCommand,
	)
}

func (s *mcpServer) handleQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.cache.query(ctx, name, func(ctx context.Context, name string) (json.RawMessage, error) {
		resp, err := s.request(ctx, "query "+name)
		if err != nil {
			return nil, err
		}
		return resp.Data, nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResultYAML(data), nil
}

func (s *mcpServer) handleCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	line, err := request.RequireString("command")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	line = strings.TrimSpace(line)
	if _, err := command.ParseString(line); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	msg := "command "
	if id := request.GetString("id", ""); id != "" {
		msg += "--id " + quoteArg(id) + " "
	}

	// The command may have changed state even when it reports failure.
	defer s.cache.invalidateAll()
	resp, err := s.request(ctx, msg+line)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResultYAML(resp.Data), nil
}

func toolResultYAML(data json.RawMessage) *mcp.CallToolResult {
	var buf bytes.Buffer
	if err := output.PrintYAML(&buf, data); err != nil {
		return mcp.NewToolResultText(string(data))
	}
	return mcp.NewToolResultText(buf.String())
}
