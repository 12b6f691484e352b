package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	clienterrors "github.com/splinterstice/clientapp/client/internal/errors"
	"github.com/splinterstice/clientapp/client/internal/types"
)

// everyOperation invokes each endpoint once with valid arguments.
func everyOperation(ctx context.Context, hc types.HTTPClient, base string) map[string]error {
	errs := map[string]error{}
	_, errs[opSendMessage] = SendMessage(ctx, hc, base, "u", "hi")
	_, errs[opGetMessages] = GetMessages(ctx, hc, base)
	_, errs[opSendFriendRequest] = SendFriendRequest(ctx, hc, base, "u")
	_, errs[opRemoveFriend] = RemoveFriend(ctx, hc, base, "u")
	_, errs[opUploadFile] = UploadFile(ctx, hc, base, types.File{Name: "a.txt", Content: strings.NewReader("abc")})
	_, errs[opJoinChatRoom] = JoinChatRoom(ctx, hc, base, "r")
	_, errs[opLeaveChatRoom] = LeaveChatRoom(ctx, hc, base, "r")
	_, errs[opSendChatRoomMessage] = SendChatRoomMessage(ctx, hc, base, "r", "hi")
	_, errs[opInviteUser] = InviteUser(ctx, hc, base, types.InviteRequest{InviteMethod: types.InviteByURL, Target: "http://x", Network: types.NetworkI2P})
	_, errs[opPromoteUser] = PromoteUser(ctx, hc, base, "u")
	_, errs[opBanUser] = BanUser(ctx, hc, base, "u")
	_, errs[opEditUser] = EditUser(ctx, hc, base, "u", types.UserUpdates{"display_name": "x"})
	_, errs[opResetKeys] = ResetKeys(ctx, hc, base, "u")
	return errs
}

func TestEveryOperation_NetworkFailure(t *testing.T) {
	t.Parallel()
	hc := &http.Client{Transport: &errRT{}}
	errs := everyOperation(context.Background(), hc, "http://example.com")
	if len(errs) != 13 {
		t.Fatalf("expected 13 operations, got %d", len(errs))
	}
	for op, err := range errs {
		if !errors.Is(err, clienterrors.ErrRequestFailed) {
			t.Fatalf("%s: expected ErrRequestFailed, got %v", op, err)
		}
		var re *clienterrors.RequestError
		if !errors.As(err, &re) || re.Reason != clienterrors.ReasonNetwork || re.StatusCode != 0 {
			t.Fatalf("%s: expected network RequestError, got %#v", op, err)
		}
		if re.Op != op {
			t.Fatalf("expected op %q, got %q", op, re.Op)
		}
	}
}

func TestEveryOperation_Non2xx(t *testing.T) {
	t.Parallel()
	for _, status := range []int{http.StatusBadRequest, http.StatusInternalServerError, http.StatusMultipleChoices} {
		status := status
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte("nope"))
		}))
		errs := everyOperation(context.Background(), srv.Client(), srv.URL)
		srv.Close()
		for op, err := range errs {
			if !errors.Is(err, clienterrors.ErrRequestFailed) {
				t.Fatalf("%s/%d: expected ErrRequestFailed, got %v", op, status, err)
			}
			if got := clienterrors.StatusCode(err); got != status {
				t.Fatalf("%s: expected status %d, got %d", op, status, got)
			}
		}
	}
}

func TestEveryOperation_AcceptsAny2xx(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			writeJSON(w, http.StatusOK, []types.Message{})
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{"status": "accepted"})
	}))
	defer srv.Close()
	for op, err := range everyOperation(context.Background(), srv.Client(), srv.URL) {
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", op, err)
		}
	}
}

func TestEveryOperation_SendsAcceptHeader(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("%s %s: missing Accept header", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	for op, err := range everyOperation(context.Background(), srv.Client(), srv.URL) {
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", op, err)
		}
	}
}
