package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/splinterstice/clientapp/client/internal/types"
)

// InviteUser invites target (an email address or URL, depending on method)
// to join over the given network.
func InviteUser(ctx context.Context, httpClient types.HTTPClient, baseURL string, req types.InviteRequest) (*types.AdminResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Method and network values are checked by the server.
	if err := types.ValidateIDPresent(req.Target, "target"); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/admin/invite", baseURL)
	return adminCall(ctx, httpClient, opInviteUser, http.MethodPost, url, req)
}

// PromoteUser promotes userID to moderator.
func PromoteUser(ctx context.Context, httpClient types.HTTPClient, baseURL, userID string) (*types.AdminResult, error) {
	return userAdminCall(ctx, httpClient, opPromoteUser, fmt.Sprintf("%s/admin/promote", baseURL), userID)
}

// BanUser bans userID from the server.
func BanUser(ctx context.Context, httpClient types.HTTPClient, baseURL, userID string) (*types.AdminResult, error) {
	return userAdminCall(ctx, httpClient, opBanUser, fmt.Sprintf("%s/admin/ban", baseURL), userID)
}

// ResetKeys asks the server to issue userID a new key pair, returned in
// AdminResult.Keys.
func ResetKeys(ctx context.Context, httpClient types.HTTPClient, baseURL, userID string) (*types.AdminResult, error) {
	return userAdminCall(ctx, httpClient, opResetKeys, fmt.Sprintf("%s/admin/reset_keys", baseURL), userID)
}

// EditUser applies updates to userID.
func EditUser(ctx context.Context, httpClient types.HTTPClient, baseURL, userID string, updates types.UserUpdates) (*types.AdminResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(userID, "userId"); err != nil {
		return nil, err
	}
	if updates == nil {
		updates = types.UserUpdates{}
	}
	url := fmt.Sprintf("%s/admin/edit_user", baseURL)
	return adminCall(ctx, httpClient, opEditUser, http.MethodPut, url, types.EditUserRequest{UserID: userID, Updates: updates})
}

func userAdminCall(ctx context.Context, httpClient types.HTTPClient, op, url, userID string) (*types.AdminResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(userID, "userId"); err != nil {
		return nil, err
	}
	return adminCall(ctx, httpClient, op, http.MethodPost, url, types.UserRequest{UserID: userID})
}

func adminCall(ctx context.Context, httpClient types.HTTPClient, op, method, url string, body any) (*types.AdminResult, error) {
	var res types.AdminResult
	if err := doJSON(ctx, httpClient, op, method, url, body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
