package mcp

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	chat "github.com/splinterstice/clientapp/client"
	"github.com/splinterstice/clientapp/internal/devserver"
	"github.com/splinterstice/clientapp/internal/servers"
	"github.com/splinterstice/clientapp/mcp/internal/handlers"
)

var expectedTools = []string{
	"send_message", "get_messages",
	"send_friend_request", "remove_friend",
	"upload_file",
	"join_chat_room", "leave_chat_room", "send_chat_room_message",
	"invite_user", "promote_user", "ban_user", "edit_user", "reset_keys",
	"add_server", "remove_server", "list_servers",
}

func newTestServer(t *testing.T) *server.MCPServer {
	t.Helper()
	backend := httptest.NewServer(devserver.NewRouter(devserver.NewStore(100), devserver.Options{BasePath: "/api", Logger: zerolog.Nop()}))
	t.Cleanup(backend.Close)

	sdk, err := chat.New(backend.URL+"/api", chat.WithAPIKey("alice"))
	if err != nil {
		t.Fatalf("chat.New: %v", err)
	}
	pool := handlers.NewClientPool(sdk, servers.NewRegistry())
	t.Cleanup(func() { _ = pool.Close() })

	s, err := newServer("test-mcp-server", "1.0.0", pool)
	if err != nil {
		t.Fatalf("newServer: %v", err)
	}
	return s
}

func initialize(ctx context.Context, t *testing.T, c *client.Client) {
	t.Helper()
	_, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: "2024-11-05",
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "test-client",
				Version: "1.0.0",
			},
		},
	})
	if err != nil {
		t.Fatalf("failed to initialize MCP client: %v", err)
	}
}

func assertTools(ctx context.Context, t *testing.T, c *client.Client) {
	t.Helper()
	tools, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		t.Fatalf("tools/list failed: %v", err)
	}
	names := make(map[string]bool)
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range expectedTools {
		if !names[want] {
			t.Errorf("expected tool %q not found in tools list", want)
		}
	}
}

// TestMCPServerTransports verifies that the MCP server serves its tools over
// both in-process (stdio-like) and HTTP transports.
func TestMCPServerTransports(t *testing.T) {
	mcpServer := newTestServer(t)

	t.Run("InProcessTransport", func(t *testing.T) {
		inProcessTransport := transport.NewInProcessTransport(mcpServer)
		if err := inProcessTransport.Start(context.Background()); err != nil {
			t.Fatalf("failed to start in-process transport: %v", err)
		}
		defer inProcessTransport.Close()

		mcpClient := client.NewClient(inProcessTransport)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		initialize(ctx, t, mcpClient)
		assertTools(ctx, t, mcpClient)

		// One real round trip through a tool into the dev backend.
		res, err := mcpClient.CallTool(ctx, mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "join_chat_room",
				Arguments: map[string]any{"room_id": "lobby"},
			},
		})
		if err != nil {
			t.Fatalf("tools/call failed: %v", err)
		}
		if res.IsError {
			t.Fatalf("join_chat_room returned error result: %+v", res.Content)
		}
	})

	t.Run("HTTPTransport", func(t *testing.T) {
		streamSrv := server.NewStreamableHTTPServer(
			mcpServer,
			server.WithEndpointPath("/mcp"),
			server.WithHeartbeatInterval(30*time.Second),
		)
		httpSrv := httptest.NewServer(streamSrv)
		defer httpSrv.Close()

		httpTransport, err := transport.NewStreamableHTTP(httpSrv.URL + "/mcp")
		if err != nil {
			t.Fatalf("failed to create HTTP transport: %v", err)
		}
		if err := httpTransport.Start(context.Background()); err != nil {
			t.Fatalf("failed to start HTTP transport: %v", err)
		}
		defer httpTransport.Close()

		mcpClient := client.NewClient(httpTransport)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		initialize(ctx, t, mcpClient)
		assertTools(ctx, t, mcpClient)
	})
}

func TestShouldUseStdio(t *testing.T) {
	if !shouldUseStdio("true") {
		t.Fatalf("expected stdio when forced on")
	}
	if shouldUseStdio("false") {
		t.Fatalf("expected http when forced off")
	}
}
