package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/splinterstice/clientapp/client"
)

// AdminHandler exposes the moderation tools.
type AdminHandler struct {
	pool *ClientPool
}

// NewAdminHandler returns a new handler.
func NewAdminHandler(pool *ClientPool) *AdminHandler {
	return &AdminHandler{pool: pool}
}

type adminCall func(ctx context.Context, c *client.Client, userID string) (*client.AdminResult, error)

// RegisterTools registers admin tools.
func (ah *AdminHandler) RegisterTools(s *server.MCPServer) error {
	invite := mcp.NewTool("invite_user",
		mcp.WithDescription("Invite someone by email or URL over TOR or I2P; returns an invite URL when the server issues one"),
		mcp.WithString("invite_method", mcp.Required(), mcp.Description("email or url")),
		mcp.WithString("target", mcp.Required(), mcp.Description("Email address or URL to invite")),
		mcp.WithString("network", mcp.Required(), mcp.Description("TOR or I2P")),
		serverIDOption(),
	)
	s.AddTool(invite, ah.handleInviteUser)

	userTools := []struct {
		name, desc string
		call       adminCall
	}{
		{"promote_user", "Promote a user to moderator",
			func(ctx context.Context, c *client.Client, id string) (*client.AdminResult, error) { return c.PromoteUser(ctx, id) }},
		{"ban_user", "Ban a user",
			func(ctx context.Context, c *client.Client, id string) (*client.AdminResult, error) { return c.BanUser(ctx, id) }},
		{"reset_keys", "Issue a user a new key pair; the private key is returned once",
			func(ctx context.Context, c *client.Client, id string) (*client.AdminResult, error) { return c.ResetKeys(ctx, id) }},
	}
	for _, t := range userTools {
		tool := mcp.NewTool(t.name,
			mcp.WithDescription(t.desc),
			mcp.WithString("user_id", mcp.Required(), mcp.Description("Target user ID")),
			serverIDOption(),
		)
		s.AddTool(tool, ah.userHandler(t.name, t.call))
	}

	edit := mcp.NewTool("edit_user",
		mcp.WithDescription("Edit user fields such as display_name or role"),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Target user ID")),
		mcp.WithObject("updates", mcp.Required(), mcp.Description("JSON object of field updates")),
		serverIDOption(),
	)
	s.AddTool(edit, ah.handleEditUser)
	return nil
}

func (ah *AdminHandler) handleInviteUser(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	method, _ := req.RequireString("invite_method")
	target, err := req.RequireString("target")
	if err != nil {
		return mcp.NewToolResultError("target parameter is required"), nil
	}
	network, _ := req.RequireString("network")

	m := client.InviteMethod(strings.ToLower(method))
	if m != client.InviteByEmail && m != client.InviteByURL {
		return mcp.NewToolResultError("invite_method must be email or url"), nil
	}
	n := client.Network(strings.ToUpper(network))
	if n != client.NetworkTOR && n != client.NetworkI2P {
		return mcp.NewToolResultError("network must be TOR or I2P"), nil
	}
	c, errRes := resolveClient(ah.pool, req)
	if errRes != nil {
		return errRes, nil
	}

	start := time.Now()
	res, err := c.InviteUser(ctx, m, target, n)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Str("invite_method", string(m)).Str("network", string(n)).Dur("elapsed", elapsed).Msg("invite_user failed")
		return failure("invite_user", err), nil
	}
	return jsonResult(res)
}

func (ah *AdminHandler) userHandler(name string, call adminCall) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := req.RequireString("user_id")
		if err != nil {
			return mcp.NewToolResultError("user_id parameter is required"), nil
		}
		c, errRes := resolveClient(ah.pool, req)
		if errRes != nil {
			return errRes, nil
		}

		log.Debug().Str("user_id", userID).Msgf("%s invoked", name)

		start := time.Now()
		res, err := call(ctx, c, userID)
		elapsed := time.Since(start)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Dur("elapsed", elapsed).Msgf("%s failed", name)
			return failure(name, err), nil
		}
		return jsonResult(res)
	}
}

func (ah *AdminHandler) handleEditUser(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id parameter is required"), nil
	}
	raw, ok := req.GetArguments()["updates"].(map[string]any)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("updates must be a JSON object, got %T", req.GetArguments()["updates"])), nil
	}
	c, errRes := resolveClient(ah.pool, req)
	if errRes != nil {
		return errRes, nil
	}

	start := time.Now()
	res, err := c.EditUser(ctx, userID, client.UserUpdates(raw))
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Dur("elapsed", elapsed).Msg("edit_user failed")
		return failure("edit_user", err), nil
	}
	return jsonResult(res)
}
