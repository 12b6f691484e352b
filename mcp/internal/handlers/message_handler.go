package handlers

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
)

// MessageHandler exposes send_message and get_messages.
type MessageHandler struct {
	pool *ClientPool
}

// NewMessageHandler returns a new handler.
func NewMessageHandler(pool *ClientPool) *MessageHandler {
	return &MessageHandler{pool: pool}
}

// RegisterTools registers direct message tools.
func (mh *MessageHandler) RegisterTools(s *server.MCPServer) error {
	send := mcp.NewTool("send_message",
		mcp.WithDescription("Send a direct message to another user; returns the stored message"),
		mcp.WithString("recipient_id", mcp.Required(), mcp.Description("User ID of the recipient")),
		mcp.WithString("message", mcp.Required(), mcp.Description("Message text")),
		serverIDOption(),
	)
	s.AddTool(send, mh.handleSendMessage)

	list := mcp.NewTool("get_messages",
		mcp.WithDescription("List the caller's direct messages in server order"),
		serverIDOption(),
	)
	s.AddTool(list, mh.handleGetMessages)
	return nil
}

func (mh *MessageHandler) handleSendMessage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recipientID, err := req.RequireString("recipient_id")
	if err != nil {
		return mcp.NewToolResultError("recipient_id parameter is required"), nil
	}
	text, err := req.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("message parameter is required"), nil
	}
	c, errRes := resolveClient(mh.pool, req)
	if errRes != nil {
		return errRes, nil
	}

	log.Debug().Str("recipient_id", recipientID).Int("message_len", len(text)).Msg("send_message invoked")

	start := time.Now()
	msg, err := c.SendMessage(ctx, recipientID, text)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Str("recipient_id", recipientID).Dur("elapsed", elapsed).Msg("send_message failed")
		return failure("send_message", err), nil
	}
	log.Debug().Str("message_id", msg.ID).Dur("elapsed", elapsed).Msg("send_message completed")
	return jsonResult(msg)
}

func (mh *MessageHandler) handleGetMessages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, errRes := resolveClient(mh.pool, req)
	if errRes != nil {
		return errRes, nil
	}

	start := time.Now()
	msgs, err := c.GetMessages(ctx)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", elapsed).Msg("get_messages failed")
		return failure("get_messages", err), nil
	}
	log.Debug().Int("count", len(msgs)).Dur("elapsed", elapsed).Msg("get_messages completed")
	return jsonResult(map[string]any{"messages": msgs, "count": len(msgs)})
}
