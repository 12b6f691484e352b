package devserver

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splinterstice/clientapp/internal/api/respond"
)

func newTestRouter(maxUpload int64) http.Handler {
	return NewRouter(NewStore(100), Options{BasePath: "/api", MaxUploadBytes: maxUpload, Logger: zerolog.Nop()})
}

func do(t *testing.T, h http.Handler, method, path, caller, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if caller != "" {
		req.Header.Set("Authorization", "Bearer "+caller)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) respond.ErrorResponse {
	t.Helper()
	var e respond.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &e))
	return e
}

func TestRouter_HealthAndNotFound(t *testing.T) {
	h := newTestRouter(0)

	rr := do(t, h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, 404, errorBody(t, rr).Code)

	rr = do(t, h, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_InvalidJSON(t *testing.T) {
	h := newTestRouter(0)
	rr := do(t, h, http.MethodPost, "/api/messages", "alice", "{")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid JSON", errorBody(t, rr).Message)
}

func TestRouter_MessagesPerCaller(t *testing.T) {
	h := newTestRouter(0)

	rr := do(t, h, http.MethodPost, "/api/messages", "alice", `{"recipient_id":"bob","message":"hi bob"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var msgs []Message
	rr = do(t, h, http.MethodGet, "/api/messages", "bob", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &msgs))
	require.Len(t, msgs, 1)
	assert.Equal(t, "alice", msgs[0].SenderID)

	rr = do(t, h, http.MethodGet, "/api/messages", "", "")
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestRouter_FriendStatusCodes(t *testing.T) {
	h := newTestRouter(0)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/friends/request", "alice", `{"user_id":"alice"}`).Code)
	assert.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/friends/request", "alice", `{"user_id":"bob"}`).Code)
	assert.Equal(t, http.StatusConflict, do(t, h, http.MethodPost, "/api/friends/request", "alice", `{"user_id":"bob"}`).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodDelete, "/api/friends/bob", "alice", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/api/friends/bob", "alice", "").Code)
}

func TestRouter_RoomRequiresMembership(t *testing.T) {
	h := newTestRouter(0)

	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodPost, "/api/chat_rooms/message", "alice", `{"room_id":"lobby","message":"hi"}`).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/chat_rooms/join", "alice", `{"room_id":"lobby"}`).Code)
	assert.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/chat_rooms/message", "alice", `{"room_id":"lobby","message":"hi"}`).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/chat_rooms/leave", "alice", `{"room_id":"lobby"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/api/chat_rooms/leave", "alice", `{"room_id":"lobby"}`).Code)
}

func TestRouter_BannedCallerCannotWrite(t *testing.T) {
	h := newTestRouter(0)

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/messages", "mallory", `{"recipient_id":"bob","message":"spam"}`).Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/admin/ban", "mod", `{"user_id":"mallory"}`).Code)

	rr := do(t, h, http.MethodPost, "/api/messages", "mallory", `{"recipient_id":"bob","message":"spam"}`)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/messages", "mallory", "").Code)
}

func TestRouter_EditUserRejectsUnknownField(t *testing.T) {
	h := newTestRouter(0)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/messages", "bob", `{"recipient_id":"bob","message":"note"}`).Code)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPut, "/api/admin/edit_user", "mod", `{"user_id":"bob","updates":{"password":"x"}}`).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPut, "/api/admin/edit_user", "mod", `{"user_id":"ghost","updates":{}}`).Code)

	rr := do(t, h, http.MethodPut, "/api/admin/edit_user", "mod", `{"user_id":"bob","updates":{"display_name":"Bob"}}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var res AdminResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.NotNil(t, res.User)
	assert.Equal(t, "Bob", res.User.DisplayName)
}

func multipartBody(t *testing.T, field, name string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestRouter_UploadAndDownload(t *testing.T) {
	h := newTestRouter(1 << 10)

	body, ctype := multipartBody(t, "file", "note.txt", []byte("hello world"))
	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
	req.Header.Set("Content-Type", ctype)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var meta StoredFile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &meta))
	assert.Equal(t, "note.txt", meta.Filename)
	assert.Equal(t, int64(11), meta.Size)
	assert.Equal(t, "text/plain; charset=utf-8", meta.ContentType)
	assert.Equal(t, "/api/files/"+meta.ID, meta.URL)

	rr = do(t, h, http.MethodGet, meta.URL, "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "hello world", rr.Body.String())

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/files/missing", "", "").Code)
}

func TestRouter_UploadErrors(t *testing.T) {
	h := newTestRouter(1 << 10)

	body, ctype := multipartBody(t, "file", "big.bin", bytes.Repeat([]byte("x"), 2<<10))
	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
	req.Header.Set("Content-Type", ctype)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)

	body, ctype = multipartBody(t, "attachment", "a.txt", []byte("x"))
	req = httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
	req.Header.Set("Content-Type", ctype)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPost, "/api/files/upload", "", `{"not":"multipart"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRouter_InviteURL(t *testing.T) {
	h := newTestRouter(0)
	rr := do(t, h, http.MethodPost, "/api/admin/invite", "mod", `{"invite_method":"email","target":"bob@example.org","network":"I2P"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var res AdminResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.True(t, strings.HasPrefix(res.InviteURL, "http://example.com/api/invites/"), res.InviteURL)

	rr = do(t, h, http.MethodGet, strings.TrimPrefix(res.InviteURL, "http://example.com"), "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var inv Invite
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &inv))
	assert.Equal(t, "mod", inv.InvitedBy)
	assert.Equal(t, "bob@example.org", inv.Target)
	assert.Equal(t, "I2P", inv.Network)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/invites/unknown", "", "").Code)

	rr = do(t, h, http.MethodPost, "/api/admin/invite", "mod", `{"invite_method":"email","target":"bob@example.org","network":"VPN"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRouter_RoomHistoryForMembers(t *testing.T) {
	h := newTestRouter(0)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/chat_rooms/join", "alice", `{"room_id":"lobby"}`).Code)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/chat_rooms/message", "alice", `{"room_id":"lobby","message":"first"}`).Code)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/chat_rooms/message", "alice", `{"room_id":"lobby","message":"second"}`).Code)

	rr := do(t, h, http.MethodGet, "/api/chat_rooms/lobby/messages", "alice", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var msgs []Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &msgs))
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Message)
	assert.Equal(t, "lobby", msgs[1].RoomID)

	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodGet, "/api/chat_rooms/lobby/messages", "bob", "").Code)
}

func TestRouter_GetUserReflectsAdminActions(t *testing.T) {
	h := newTestRouter(0)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/users/bob", "", "").Code)

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/messages", "alice", `{"recipient_id":"bob","message":"hi"}`).Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/admin/promote", "mod", `{"user_id":"bob"}`).Code)

	rr := do(t, h, http.MethodGet, "/api/users/bob", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var u User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &u))
	assert.Equal(t, RoleModerator, u.Role)
	assert.False(t, u.Banned)
}
