package types

// ------------------------------
// Response Types
// ------------------------------

// Status is the generic acknowledgement returned by friend and room endpoints.
type Status struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// AdminResult is returned by every admin endpoint. Which optional fields are
// set depends on the operation: invites carry InviteURL, key resets carry Keys.
type AdminResult struct {
	Status    string   `json:"status"`
	Message   string   `json:"message,omitempty"`
	User      *User    `json:"user,omitempty"`
	Keys      *KeyPair `json:"keys,omitempty"`
	InviteURL string   `json:"invite_url,omitempty"`
}
