package handlers

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
)

// ServerHandler manages the list of chat server endpoints the other tools can target.
type ServerHandler struct {
	pool *ClientPool
}

// NewServerHandler returns a new handler.
func NewServerHandler(pool *ClientPool) *ServerHandler {
	return &ServerHandler{pool: pool}
}

// RegisterTools registers add_server, remove_server and list_servers.
func (sh *ServerHandler) RegisterTools(s *server.MCPServer) error {
	add := mcp.NewTool("add_server",
		mcp.WithDescription("Register a chat server API root; returns its server_id"),
		mcp.WithString("url", mcp.Required(), mcp.Description("Absolute http(s) URL, e.g. http://example.onion/api")),
	)
	s.AddTool(add, sh.handleAddServer)

	remove := mcp.NewTool("remove_server",
		mcp.WithDescription("Forget a registered chat server"),
		mcp.WithString("server_id", mcp.Required(), mcp.Description("ID returned by add_server")),
	)
	s.AddTool(remove, sh.handleRemoveServer)

	list := mcp.NewTool("list_servers",
		mcp.WithDescription("List registered chat servers in the order they were added"),
	)
	s.AddTool(list, sh.handleListServers)
	return nil
}

func (sh *ServerHandler) handleAddServer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawURL, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url parameter is required"), nil
	}
	ep, err := sh.pool.Registry().Add(rawURL)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	log.Info().Str("server_id", ep.ID).Str("url", ep.URL).Msg("server added")
	return jsonResult(ep)
}

func (sh *ServerHandler) handleRemoveServer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("server_id")
	if err != nil {
		return mcp.NewToolResultError("server_id parameter is required"), nil
	}
	if !sh.pool.Remove(id) {
		return mcp.NewToolResultError("no server with id " + id), nil
	}
	log.Info().Str("server_id", id).Msg("server removed")
	return jsonResult(map[string]any{"removed": id})
}

func (sh *ServerHandler) handleListServers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	eps := sh.pool.Registry().List()
	return jsonResult(map[string]any{"servers": eps, "count": len(eps)})
}
