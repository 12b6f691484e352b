package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	clienterrors "github.com/splinterstice/clientapp/client/internal/errors"
	"github.com/splinterstice/clientapp/client/internal/types"
)

// Operation names double as metric labels and error prefixes.
const (
	opSendMessage         = "send_message"
	opGetMessages         = "get_messages"
	opSendFriendRequest   = "send_friend_request"
	opRemoveFriend        = "remove_friend"
	opUploadFile          = "upload_file"
	opJoinChatRoom        = "join_chat_room"
	opLeaveChatRoom       = "leave_chat_room"
	opSendChatRoomMessage = "send_chat_room_message"
	opInviteUser          = "invite_user"
	opPromoteUser         = "promote_user"
	opBanUser             = "ban_user"
	opEditUser            = "edit_user"
	opResetKeys           = "reset_keys"
)

// maxErrorBody bounds how much of a failed response is read.
const maxErrorBody = 4 << 10

// doJSON performs one JSON round trip. in is encoded as the request body when
// non-nil; out receives the decoded 2xx response when non-nil.
func doJSON(ctx context.Context, httpClient types.HTTPClient, op, method, url string, in, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Accept", "application/json")
	if in != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	return do(httpClient, op, httpReq, out)
}

// do sends httpReq exactly once and maps every failure to a *RequestError.
func do(httpClient types.HTTPClient, op string, httpReq *http.Request, out any) error {
	start := time.Now()
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		observe(op, clienterrors.ReasonNetwork.String(), start)
		return clienterrors.NewNetworkError(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		observe(op, clienterrors.ReasonStatus.String(), start)
		return clienterrors.NewStatusError(op, resp.StatusCode, bytes.TrimSpace(b))
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !stderrors.Is(err, io.EOF) {
			observe(op, clienterrors.ReasonDecode.String(), start)
			return clienterrors.NewDecodeError(op, err)
		}
	}
	observe(op, "ok", start)
	return nil
}
