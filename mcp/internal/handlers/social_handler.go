package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/splinterstice/clientapp/client"
)

// SocialHandler exposes the friend and chat room tools.
type SocialHandler struct {
	pool *ClientPool
}

// NewSocialHandler returns a new handler.
func NewSocialHandler(pool *ClientPool) *SocialHandler {
	return &SocialHandler{pool: pool}
}

// statusCall is one single-ID status operation.
type statusCall func(ctx context.Context, c *client.Client, id string) (*client.Status, error)

// RegisterTools registers friend and room tools.
func (sh *SocialHandler) RegisterTools(s *server.MCPServer) error {
	idTools := []struct {
		name, desc, arg, argDesc string
		call                     statusCall
	}{
		{"send_friend_request", "Send a friend request to a user", "user_id", "User ID to befriend",
			func(ctx context.Context, c *client.Client, id string) (*client.Status, error) { return c.SendFriendRequest(ctx, id) }},
		{"remove_friend", "Remove a user from the friend list", "friend_id", "User ID of the friend",
			func(ctx context.Context, c *client.Client, id string) (*client.Status, error) { return c.RemoveFriend(ctx, id) }},
		{"join_chat_room", "Join a chat room", "room_id", "Room ID",
			func(ctx context.Context, c *client.Client, id string) (*client.Status, error) { return c.JoinChatRoom(ctx, id) }},
		{"leave_chat_room", "Leave a chat room", "room_id", "Room ID",
			func(ctx context.Context, c *client.Client, id string) (*client.Status, error) { return c.LeaveChatRoom(ctx, id) }},
	}
	for _, t := range idTools {
		tool := mcp.NewTool(t.name,
			mcp.WithDescription(t.desc),
			mcp.WithString(t.arg, mcp.Required(), mcp.Description(t.argDesc)),
			serverIDOption(),
		)
		s.AddTool(tool, sh.idHandler(t.name, t.arg, t.call))
	}

	roomMsg := mcp.NewTool("send_chat_room_message",
		mcp.WithDescription("Post a message to a chat room the caller has joined"),
		mcp.WithString("room_id", mcp.Required(), mcp.Description("Room ID")),
		mcp.WithString("message", mcp.Required(), mcp.Description("Message text")),
		serverIDOption(),
	)
	s.AddTool(roomMsg, sh.handleSendChatRoomMessage)
	return nil
}

func (sh *SocialHandler) idHandler(name, arg string, call statusCall) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString(arg)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%s parameter is required", arg)), nil
		}
		c, errRes := resolveClient(sh.pool, req)
		if errRes != nil {
			return errRes, nil
		}

		log.Debug().Str(arg, id).Msgf("%s invoked", name)

		start := time.Now()
		st, err := call(ctx, c, id)
		elapsed := time.Since(start)
		if err != nil {
			log.Error().Err(err).Str(arg, id).Dur("elapsed", elapsed).Msgf("%s failed", name)
			return failure(name, err), nil
		}
		return jsonResult(st)
	}
}

func (sh *SocialHandler) handleSendChatRoomMessage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	roomID, err := req.RequireString("room_id")
	if err != nil {
		return mcp.NewToolResultError("room_id parameter is required"), nil
	}
	text, err := req.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("message parameter is required"), nil
	}
	c, errRes := resolveClient(sh.pool, req)
	if errRes != nil {
		return errRes, nil
	}

	start := time.Now()
	st, err := c.SendChatRoomMessage(ctx, roomID, text)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Dur("elapsed", elapsed).Msg("send_chat_room_message failed")
		return failure("send_chat_room_message", err), nil
	}
	return jsonResult(st)
}
