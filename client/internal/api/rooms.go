package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/splinterstice/clientapp/client/internal/types"
)

// JoinChatRoom adds the caller to roomID.
func JoinChatRoom(ctx context.Context, httpClient types.HTTPClient, baseURL, roomID string) (*types.Status, error) {
	return roomCall(ctx, httpClient, opJoinChatRoom, fmt.Sprintf("%s/chat_rooms/join", baseURL), roomID)
}

// LeaveChatRoom removes the caller from roomID.
func LeaveChatRoom(ctx context.Context, httpClient types.HTTPClient, baseURL, roomID string) (*types.Status, error) {
	return roomCall(ctx, httpClient, opLeaveChatRoom, fmt.Sprintf("%s/chat_rooms/leave", baseURL), roomID)
}

// SendChatRoomMessage posts text to roomID.
func SendChatRoomMessage(ctx context.Context, httpClient types.HTTPClient, baseURL, roomID, text string) (*types.Status, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(roomID, "roomId"); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/chat_rooms/message", baseURL)
	var st types.Status
	req := types.RoomMessageRequest{RoomID: roomID, Message: text}
	if err := doJSON(ctx, httpClient, opSendChatRoomMessage, http.MethodPost, url, req, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func roomCall(ctx context.Context, httpClient types.HTTPClient, op, url, roomID string) (*types.Status, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(roomID, "roomId"); err != nil {
		return nil, err
	}
	var st types.Status
	if err := doJSON(ctx, httpClient, op, http.MethodPost, url, types.RoomRequest{RoomID: roomID}, &st); err != nil {
		return nil, err
	}
	return &st, nil
}
