package types

import (
	"encoding/json"
	"time"
)

// ------------------------------
// Core Domain Entities
// ------------------------------

// Message is a direct or chat room message as stored by the server.
//
// Decoding is lenient: IDs may be JSON strings or numbers, SenderID falls
// back to a "sender" field, and an unparseable or null created_at leaves
// CreatedAt zero. Raw keeps the element exactly as received and is what the
// message encodes back to.
type Message struct {
	ID          string    `json:"id,omitempty"`
	SenderID    string    `json:"sender_id,omitempty"`
	RecipientID string    `json:"recipient_id,omitempty"`
	RoomID      string    `json:"room_id,omitempty"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`

	Raw json.RawMessage `json:"-"`
}

// User is the admin view of a chat user.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
	Role        string `json:"role,omitempty"`
	Banned      bool   `json:"banned,omitempty"`
	PublicKey   string `json:"public_key,omitempty"`
}

// KeyPair is a user's public/private key pair. The keys act as credentials.
type KeyPair struct {
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

// StoredFile describes a file accepted by the upload endpoint.
type StoredFile struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size"`
	URL         string `json:"url,omitempty"`
}

// InviteMethod selects how an invitation is delivered.
type InviteMethod string

const (
	InviteByEmail InviteMethod = "email"
	InviteByURL   InviteMethod = "url"
)

// Network is the anonymity network an invited user connects through.
type Network string

const (
	NetworkTOR Network = "TOR"
	NetworkI2P Network = "I2P"
)

// Roles assigned by the server.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
)
