package devserver

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gorilla/mux"

	"github.com/splinterstice/clientapp/internal/api/respond"
)

// Handler serves the chat REST API from a Store.
type Handler struct {
	store          *Store
	basePath       string
	maxUploadBytes int64
}

// NewHandler creates a handler. basePath is used to build file download URLs.
func NewHandler(store *Store, basePath string, maxUploadBytes int64) *Handler {
	return &Handler{store: store, basePath: basePath, maxUploadBytes: maxUploadBytes}
}

// caller returns the bearer token, which doubles as the caller's user ID.
func caller(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if tok, ok := strings.CutPrefix(auth, "Bearer "); ok && strings.TrimSpace(tok) != "" {
		return strings.TrimSpace(tok)
	}
	return "anonymous"
}

// writeStoreError maps store errors to HTTP status codes.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalid):
		respond.Fail(w, respond.ReasonInvalidRequest, err.Error())
	case errors.Is(err, ErrForbidden):
		respond.Fail(w, respond.ReasonForbidden, err.Error())
	case errors.Is(err, ErrNotFound):
		respond.Fail(w, respond.ReasonNotFound, err.Error())
	case errors.Is(err, ErrConflict):
		respond.Fail(w, respond.ReasonConflict, err.Error())
	default:
		respond.Fail(w, respond.ReasonInternal, err.Error())
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respond.Fail(w, respond.ReasonInvalidRequest, "Invalid JSON")
		return false
	}
	return true
}

// SendMessage POST /messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RecipientID string `json:"recipient_id"`
		Message     string `json:"message"`
	}
	if !decode(w, r, &req) {
		return
	}
	m, err := h.store.SendMessage(caller(r), req.RecipientID, req.Message)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, m)
}

// GetMessages GET /messages
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, h.store.Messages(caller(r)))
}

// SendFriendRequest POST /friends/request
func (h *Handler) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	state, err := h.store.RequestFriend(caller(r), req.UserID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, Status{Status: state, Message: "friend request " + state})
}

// RemoveFriend DELETE /friends/{friendId}
func (h *Handler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	friendID := mux.Vars(r)["friendId"]
	if err := h.store.RemoveFriend(caller(r), friendID); err != nil {
		writeStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, Status{Status: "removed"})
}

// UploadFile POST /files/upload (multipart/form-data, field "file")
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+64<<10)
	mr, err := r.MultipartReader()
	if err != nil {
		respond.Fail(w, respond.ReasonInvalidRequest, "expected multipart/form-data")
		return
	}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			respond.Fail(w, respond.ReasonInvalidRequest, `missing "file" field`)
			return
		}
		if err != nil {
			h.writeUploadError(w, err)
			return
		}
		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}
		data, err := io.ReadAll(io.LimitReader(part, h.maxUploadBytes+1))
		if err != nil {
			h.writeUploadError(w, err)
			return
		}
		if int64(len(data)) > h.maxUploadBytes {
			respond.Fail(w, respond.ReasonTooLarge, "file exceeds "+strconv.FormatInt(h.maxUploadBytes, 10)+" bytes")
			return
		}
		name := filepath.Base(part.FileName())
		if name == "." || name == string(filepath.Separator) {
			name = "file"
		}
		ctype := part.Header.Get("Content-Type")
		if ctype == "" || ctype == "application/octet-stream" {
			ctype = mimetype.Detect(data).String()
		}
		meta := h.store.PutFile(name, ctype, data, h.basePath+"/files")
		respond.WriteJSON(w, http.StatusCreated, meta)
		return
	}
}

func (h *Handler) writeUploadError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respond.Fail(w, respond.ReasonTooLarge, "upload too large")
		return
	}
	respond.Fail(w, respond.ReasonInvalidRequest, "malformed multipart body")
}

// GetFile GET /files/{fileId}
func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	meta, data, err := h.store.File(mux.Vars(r)["fileId"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	w.Header().Set("Content-Type", meta.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(meta.Size, 10))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": meta.Filename}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type roomRequest struct {
	RoomID  string `json:"room_id"`
	Message string `json:"message"`
}

// JoinChatRoom POST /chat_rooms/join
func (h *Handler) JoinChatRoom(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.store.JoinRoom(caller(r), req.RoomID); err != nil {
		writeStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, Status{Status: "joined", Message: req.RoomID})
}

// LeaveChatRoom POST /chat_rooms/leave
func (h *Handler) LeaveChatRoom(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.store.LeaveRoom(caller(r), req.RoomID); err != nil {
		writeStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, Status{Status: "left", Message: req.RoomID})
}

// SendChatRoomMessage POST /chat_rooms/message
func (h *Handler) SendChatRoomMessage(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if !decode(w, r, &req) {
		return
	}
	m, err := h.store.PostRoom(caller(r), req.RoomID, req.Message)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, Status{Status: "sent", Message: m.ID})
}

// GetRoomMessages GET /chat_rooms/{roomId}/messages
func (h *Handler) GetRoomMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.store.RoomMessages(caller(r), mux.Vars(r)["roomId"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, msgs)
}

// GetUser GET /users/{userId}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.store.User(mux.Vars(r)["userId"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, u)
}

// GetInvite GET /invites/{token}
func (h *Handler) GetInvite(w http.ResponseWriter, r *http.Request) {
	inv, err := h.store.LookupInvite(mux.Vars(r)["token"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, inv)
}

// InviteUser POST /admin/invite
func (h *Handler) InviteUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InviteMethod string `json:"invite_method"`
		Target       string `json:"target"`
		Network      string `json:"network"`
	}
	if !decode(w, r, &req) {
		return
	}
	inv, err := h.store.Invite(caller(r), req.InviteMethod, req.Target, req.Network)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	respond.WriteJSON(w, http.StatusCreated, AdminResult{
		Status:    "invited",
		Message:   "invitation sent to " + inv.Target + " over " + inv.Network,
		InviteURL: scheme + "://" + r.Host + h.basePath + "/invites/" + inv.Token,
	})
}

type userRequest struct {
	UserID string `json:"user_id"`
}

// PromoteUser POST /admin/promote
func (h *Handler) PromoteUser(w http.ResponseWriter, r *http.Request) {
	h.userAdmin(w, r, "promoted", h.store.Promote)
}

// BanUser POST /admin/ban
func (h *Handler) BanUser(w http.ResponseWriter, r *http.Request) {
	h.userAdmin(w, r, "banned", h.store.Ban)
}

func (h *Handler) userAdmin(w http.ResponseWriter, r *http.Request, status string, fn func(string) (User, error)) {
	var req userRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := fn(req.UserID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, AdminResult{Status: status, User: &u})
}

// EditUser PUT /admin/edit_user
func (h *Handler) EditUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID  string         `json:"user_id"`
		Updates map[string]any `json:"updates"`
	}
	if !decode(w, r, &req) {
		return
	}
	u, err := h.store.EditUser(req.UserID, req.Updates)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, AdminResult{Status: "updated", User: &u})
}

// ResetKeys POST /admin/reset_keys
func (h *Handler) ResetKeys(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !decode(w, r, &req) {
		return
	}
	u, kp, err := h.store.ResetKeys(req.UserID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, AdminResult{Status: "keys_reset", User: &u, Keys: &kp})
}

// CheckHealth GET /health
func (h *Handler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, Status{Status: "healthy"})
}
