package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/splinterstice/clientapp/client/internal/types"
)

// SendMessage sends a direct message to recipientID.
func SendMessage(ctx context.Context, httpClient types.HTTPClient, baseURL, recipientID, text string) (*types.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(recipientID, "recipientId"); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/messages", baseURL)
	var msg types.Message
	req := types.SendMessageRequest{RecipientID: recipientID, Message: text}
	if err := doJSON(ctx, httpClient, opSendMessage, http.MethodPost, url, req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetMessages returns the caller's direct messages exactly as the server
// orders them.
func GetMessages(ctx context.Context, httpClient types.HTTPClient, baseURL string) ([]types.Message, error) {
	url := fmt.Sprintf("%s/messages", baseURL)
	var msgs []types.Message
	if err := doJSON(ctx, httpClient, opGetMessages, http.MethodGet, url, nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}
