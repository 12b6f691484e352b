package types

import "io"

// ------------------------------
// Request Types
// ------------------------------

// SendMessageRequest is the body of POST /messages.
type SendMessageRequest struct {
	RecipientID string `json:"recipient_id"`
	Message     string `json:"message"`
}

// UserRequest is the body shared by every endpoint that targets one user.
type UserRequest struct {
	UserID string `json:"user_id"`
}

// RoomRequest is the body of the chat room join/leave endpoints.
type RoomRequest struct {
	RoomID string `json:"room_id"`
}

// RoomMessageRequest is the body of POST /chat_rooms/message.
type RoomMessageRequest struct {
	RoomID  string `json:"room_id"`
	Message string `json:"message"`
}

// InviteRequest is the body of POST /admin/invite.
type InviteRequest struct {
	InviteMethod InviteMethod `json:"invite_method"`
	Target       string       `json:"target"`
	Network      Network      `json:"network"`
}

// UserUpdates holds the fields to change on a user. Keys are passed through
// to the server unchanged.
type UserUpdates map[string]any

// EditUserRequest is the body of PUT /admin/edit_user.
type EditUserRequest struct {
	UserID  string      `json:"user_id"`
	Updates UserUpdates `json:"updates"`
}

// File is an upload handle. ContentType is detected from the first bytes of
// Content when left empty.
type File struct {
	Name        string
	ContentType string
	Content     io.Reader
}
