package client

import "github.com/splinterstice/clientapp/client/internal/types"

// Public type aliases so SDK consumers can import only the client package.
type (
	// Domain entities
	Message    = types.Message
	User       = types.User
	KeyPair    = types.KeyPair
	StoredFile = types.StoredFile
	File       = types.File

	// Requests
	InviteRequest = types.InviteRequest
	UserUpdates   = types.UserUpdates
	InviteMethod  = types.InviteMethod
	Network       = types.Network

	// Responses
	Status      = types.Status
	AdminResult = types.AdminResult
)

const (
	InviteByEmail = types.InviteByEmail
	InviteByURL   = types.InviteByURL

	NetworkTOR = types.NetworkTOR
	NetworkI2P = types.NetworkI2P

	RoleUser      = types.RoleUser
	RoleModerator = types.RoleModerator
)
