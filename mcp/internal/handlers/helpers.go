package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/splinterstice/clientapp/client"
)

// serverIDOption is added to every chat tool.
func serverIDOption() mcp.ToolOption {
	return mcp.WithString("server_id", mcp.Description("Registered server ID from list_servers; omit to use the default server"))
}

// optionalString returns the string argument key, or "" when absent.
func optionalString(req mcp.CallToolRequest, key string) string {
	if v, ok := req.GetArguments()[key].(string); ok {
		return v
	}
	return ""
}

// resolveClient picks the client named by the optional server_id argument.
func resolveClient(pool *ClientPool, req mcp.CallToolRequest) (*client.Client, *mcp.CallToolResult) {
	c, err := pool.For(optionalString(req, "server_id"))
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("unknown server: %v", err))
	}
	return c, nil
}

// jsonResult renders v as the tool's text content.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// failure formats a request error, including the HTTP status when there is one.
func failure(op string, err error) *mcp.CallToolResult {
	if code := client.StatusCode(err); code != 0 {
		return mcp.NewToolResultError(fmt.Sprintf("%s failed (HTTP %d): %v", op, code, err))
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", op, err))
}
