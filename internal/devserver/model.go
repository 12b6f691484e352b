package devserver

import "time"

// Roles a user can hold.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
)

// User is the server-side account record.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
	Role        string `json:"role"`
	Banned      bool   `json:"banned"`
	PublicKey   string `json:"public_key,omitempty"`
}

// Message is a direct or room message.
type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id,omitempty"`
	RoomID      string    `json:"room_id,omitempty"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

// KeyPair is returned once by reset_keys; only the public half is kept.
type KeyPair struct {
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

// StoredFile describes an uploaded file.
type StoredFile struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
}

// Status is the generic acknowledgement body.
type Status struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// AdminResult is returned by every admin endpoint.
type AdminResult struct {
	Status    string   `json:"status"`
	Message   string   `json:"message,omitempty"`
	User      *User    `json:"user,omitempty"`
	Keys      *KeyPair `json:"keys,omitempty"`
	InviteURL string   `json:"invite_url,omitempty"`
}

// Invite is a pending invitation.
type Invite struct {
	Token     string    `json:"token"`
	InvitedBy string    `json:"invited_by"`
	Method    string    `json:"invite_method"`
	Target    string    `json:"target"`
	Network   string    `json:"network"`
	CreatedAt time.Time `json:"created_at"`
}

type file struct {
	meta StoredFile
	data []byte
}
