package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/splinterstice/clientapp/client/internal/types"
)

// SendFriendRequest asks userID to become a friend of the caller.
func SendFriendRequest(ctx context.Context, httpClient types.HTTPClient, baseURL, userID string) (*types.Status, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(userID, "userId"); err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/friends/request", baseURL)
	var st types.Status
	if err := doJSON(ctx, httpClient, opSendFriendRequest, http.MethodPost, endpoint, types.UserRequest{UserID: userID}, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// RemoveFriend deletes friendID from the caller's friend list.
func RemoveFriend(ctx context.Context, httpClient types.HTTPClient, baseURL, friendID string) (*types.Status, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(friendID, "friendId"); err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/friends/%s", baseURL, url.PathEscape(friendID))
	var st types.Status
	if err := doJSON(ctx, httpClient, opRemoveFriend, http.MethodDelete, endpoint, nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}
