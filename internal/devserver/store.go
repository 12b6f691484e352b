// Package devserver is an in-memory implementation of the chat REST API,
// used for local development and end-to-end tests of the client.
package devserver

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound means the referenced user, file, friend or membership does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the caller may not perform the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict means the operation would duplicate existing state.
	ErrConflict = errors.New("conflict")
	// ErrInvalid means the request was malformed.
	ErrInvalid = errors.New("invalid request")
)

// Store holds all backend state. All methods are safe for concurrent use.
type Store struct {
	mu           sync.Mutex
	now          func() time.Time
	historyLimit int

	users   map[string]*User
	inbox   map[string][]Message       // user -> direct messages, oldest first
	friends map[string]map[string]bool // symmetric
	pending map[string]map[string]bool // requester -> target
	rooms   map[string]map[string]bool // room -> members
	roomLog map[string][]Message       // room -> messages
	files   map[string]*file
	invites map[string]Invite
}

// NewStore returns an empty store keeping at most historyLimit direct
// messages per user.
func NewStore(historyLimit int) *Store {
	if historyLimit <= 0 {
		historyLimit = 500
	}
	return &Store{
		now:          time.Now,
		historyLimit: historyLimit,
		users:        map[string]*User{},
		inbox:        map[string][]Message{},
		friends:      map[string]map[string]bool{},
		pending:      map[string]map[string]bool{},
		rooms:        map[string]map[string]bool{},
		roomLog:      map[string][]Message{},
		files:        map[string]*file{},
		invites:      map[string]Invite{},
	}
}

// touch returns the user with id, creating it on first sight. Callers hold mu.
func (s *Store) touch(id string) *User {
	u, ok := s.users[id]
	if !ok {
		u = &User{ID: id, Role: RoleUser}
		s.users[id] = u
	}
	return u
}

// CheckWriter registers the caller and rejects banned users.
func (s *Store) CheckWriter(caller string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.touch(caller).Banned {
		return fmt.Errorf("%w: user %s is banned", ErrForbidden, caller)
	}
	return nil
}

// User returns a copy of the user with id.
func (s *Store) User(id string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return User{}, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	return *u, nil
}

// --------------------------------------------------------------------
// Direct messages
// --------------------------------------------------------------------

// SendMessage stores a direct message from sender to recipient.
func (s *Store) SendMessage(sender, recipient, text string) (Message, error) {
	if strings.TrimSpace(recipient) == "" {
		return Message{}, fmt.Errorf("%w: recipient_id is required", ErrInvalid)
	}
	if strings.TrimSpace(text) == "" {
		return Message{}, fmt.Errorf("%w: message is required", ErrInvalid)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch(recipient)
	m := Message{
		ID:          uuid.NewString(),
		SenderID:    sender,
		RecipientID: recipient,
		Message:     text,
		CreatedAt:   s.now().UTC(),
	}
	s.appendInbox(sender, m)
	if recipient != sender {
		s.appendInbox(recipient, m)
	}
	return m, nil
}

func (s *Store) appendInbox(user string, m Message) {
	box := append(s.inbox[user], m)
	if over := len(box) - s.historyLimit; over > 0 {
		box = append([]Message(nil), box[over:]...)
	}
	s.inbox[user] = box
}

// Messages returns user's direct messages oldest first.
func (s *Store) Messages(user string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.inbox[user]))
	copy(out, s.inbox[user])
	return out
}

// --------------------------------------------------------------------
// Friends
// --------------------------------------------------------------------

// RequestFriend records a request from requester to target. A request that
// crosses a pending one in the other direction makes them friends and
// returns "accepted"; otherwise it returns "pending".
func (s *Store) RequestFriend(requester, target string) (string, error) {
	if strings.TrimSpace(target) == "" {
		return "", fmt.Errorf("%w: user_id is required", ErrInvalid)
	}
	if requester == target {
		return "", fmt.Errorf("%w: cannot befriend yourself", ErrInvalid)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch(target)
	if s.friends[requester][target] {
		return "", fmt.Errorf("%w: already friends with %s", ErrConflict, target)
	}
	if s.pending[requester][target] {
		return "", fmt.Errorf("%w: request to %s already pending", ErrConflict, target)
	}
	if s.pending[target][requester] {
		delete(s.pending[target], requester)
		setPair(s.friends, requester, target)
		setPair(s.friends, target, requester)
		return "accepted", nil
	}
	setPair(s.pending, requester, target)
	return "pending", nil
}

// RemoveFriend drops a friendship or a pending request in either direction.
func (s *Store) RemoveFriend(user, other string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := false
	if s.friends[user][other] {
		delete(s.friends[user], other)
		delete(s.friends[other], user)
		removed = true
	}
	if s.pending[user][other] {
		delete(s.pending[user], other)
		removed = true
	}
	if s.pending[other][user] {
		delete(s.pending[other], user)
		removed = true
	}
	if !removed {
		return fmt.Errorf("%w: no friendship with %s", ErrNotFound, other)
	}
	return nil
}

func setPair(m map[string]map[string]bool, a, b string) {
	if m[a] == nil {
		m[a] = map[string]bool{}
	}
	m[a][b] = true
}

// --------------------------------------------------------------------
// Files
// --------------------------------------------------------------------

// PutFile stores data and returns its metadata. urlPrefix is joined with the
// new ID to form the download URL.
func (s *Store) PutFile(name, contentType string, data []byte, urlPrefix string) StoredFile {
	id := uuid.NewString()
	meta := StoredFile{
		ID:          id,
		Filename:    name,
		ContentType: contentType,
		Size:        int64(len(data)),
		URL:         urlPrefix + "/" + id,
	}
	s.mu.Lock()
	s.files[id] = &file{meta: meta, data: data}
	s.mu.Unlock()
	return meta
}

// File returns the metadata and bytes of a stored file.
func (s *Store) File(id string) (StoredFile, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[id]
	if !ok {
		return StoredFile{}, nil, fmt.Errorf("%w: file %s", ErrNotFound, id)
	}
	return f.meta, f.data, nil
}

// --------------------------------------------------------------------
// Chat rooms
// --------------------------------------------------------------------

// JoinRoom adds user to room, creating the room on first join.
func (s *Store) JoinRoom(user, room string) error {
	if strings.TrimSpace(room) == "" {
		return fmt.Errorf("%w: room_id is required", ErrInvalid)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	setPair(s.rooms, room, user)
	return nil
}

// LeaveRoom removes user from room.
func (s *Store) LeaveRoom(user, room string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.rooms[room][user] {
		return fmt.Errorf("%w: not a member of %s", ErrNotFound, room)
	}
	delete(s.rooms[room], user)
	return nil
}

// PostRoom appends a message to room; only members may post.
func (s *Store) PostRoom(user, room, text string) (Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, fmt.Errorf("%w: message is required", ErrInvalid)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.rooms[room][user] {
		return Message{}, fmt.Errorf("%w: join %s before posting", ErrForbidden, room)
	}
	m := Message{
		ID:        uuid.NewString(),
		SenderID:  user,
		RoomID:    room,
		Message:   text,
		CreatedAt: s.now().UTC(),
	}
	s.roomLog[room] = append(s.roomLog[room], m)
	return m, nil
}

// RoomMessages returns the messages posted to room, oldest first. Only
// members may read a room.
func (s *Store) RoomMessages(user, room string) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.rooms[room][user] {
		return nil, fmt.Errorf("%w: join %s before reading", ErrForbidden, room)
	}
	out := make([]Message, len(s.roomLog[room]))
	copy(out, s.roomLog[room])
	return out, nil
}

// --------------------------------------------------------------------
// Administration
// --------------------------------------------------------------------

// Invite validates and records an invitation.
func (s *Store) Invite(inviter, method, target, network string) (Invite, error) {
	switch method {
	case "email":
		if _, err := mail.ParseAddress(target); err != nil {
			return Invite{}, fmt.Errorf("%w: invalid email target %q", ErrInvalid, target)
		}
	case "url":
		if strings.TrimSpace(target) == "" {
			return Invite{}, fmt.Errorf("%w: target is required", ErrInvalid)
		}
	default:
		return Invite{}, fmt.Errorf("%w: invite_method must be email or url", ErrInvalid)
	}
	if network != "TOR" && network != "I2P" {
		return Invite{}, fmt.Errorf("%w: network must be TOR or I2P", ErrInvalid)
	}
	inv := Invite{
		Token:     uuid.NewString(),
		InvitedBy: inviter,
		Method:    method,
		Target:    target,
		Network:   network,
		CreatedAt: s.now().UTC(),
	}
	s.mu.Lock()
	s.invites[inv.Token] = inv
	s.mu.Unlock()
	return inv, nil
}

// LookupInvite returns the invitation issued under token.
func (s *Store) LookupInvite(token string) (Invite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invites[token]
	if !ok {
		return Invite{}, fmt.Errorf("%w: invite %s", ErrNotFound, token)
	}
	return inv, nil
}

// Promote gives id the moderator role.
func (s *Store) Promote(id string) (User, error) {
	return s.update(id, func(u *User) error {
		u.Role = RoleModerator
		return nil
	})
}

// Ban marks id as banned.
func (s *Store) Ban(id string) (User, error) {
	return s.update(id, func(u *User) error {
		u.Banned = true
		return nil
	})
}

// EditUser applies updates. Accepted keys are display_name (or displayName)
// and role; anything else is rejected without modifying the user.
func (s *Store) EditUser(id string, updates map[string]any) (User, error) {
	var name, role *string
	for k, v := range updates {
		str, ok := v.(string)
		switch k {
		case "display_name", "displayName":
			if !ok {
				return User{}, fmt.Errorf("%w: %s must be a string", ErrInvalid, k)
			}
			name = &str
		case "role":
			if !ok || (str != RoleUser && str != RoleModerator) {
				return User{}, fmt.Errorf("%w: role must be %q or %q", ErrInvalid, RoleUser, RoleModerator)
			}
			role = &str
		default:
			return User{}, fmt.Errorf("%w: unsupported field %q", ErrInvalid, k)
		}
	}
	return s.update(id, func(u *User) error {
		if name != nil {
			u.DisplayName = *name
		}
		if role != nil {
			u.Role = *role
		}
		return nil
	})
}

// ResetKeys issues id a fresh Ed25519 key pair and keeps the public half.
func (s *Store) ResetKeys(id string) (User, KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return User{}, KeyPair{}, err
	}
	kp := KeyPair{
		PublicKey:  base64.StdEncoding.EncodeToString(pub),
		PrivateKey: base64.StdEncoding.EncodeToString(priv),
	}
	u, err := s.update(id, func(u *User) error {
		u.PublicKey = kp.PublicKey
		return nil
	})
	if err != nil {
		return User{}, KeyPair{}, err
	}
	return u, kp, nil
}

func (s *Store) update(id string, fn func(*User) error) (User, error) {
	if strings.TrimSpace(id) == "" {
		return User{}, fmt.Errorf("%w: user_id is required", ErrInvalid)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return User{}, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	if err := fn(u); err != nil {
		return User{}, err
	}
	return *u, nil
}
