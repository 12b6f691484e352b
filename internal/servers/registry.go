// Package servers keeps the transient list of chat server endpoints a user
// can switch between. Nothing here is persisted.
package servers

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned when no endpoint has the requested ID.
var ErrNotFound = errors.New("server endpoint not found")

// Endpoint is one registered chat server.
type Endpoint struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Registry is an in-memory, insertion-ordered endpoint list. The zero value
// is not usable; call NewRegistry.
type Registry struct {
	mu      sync.Mutex
	now     func() time.Time
	lastID  int64
	entries []Endpoint
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{now: time.Now}
}

// Add validates rawURL and registers it under an ID derived from the current
// Unix millisecond timestamp. IDs are unique and strictly increasing.
func (r *Registry) Add(rawURL string) (Endpoint, error) {
	rawURL = strings.TrimRight(strings.TrimSpace(rawURL), "/")
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Endpoint{}, fmt.Errorf("invalid server url %q: must be an absolute http(s) URL", rawURL)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.now().UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id

	ep := Endpoint{ID: strconv.FormatInt(id, 10), URL: rawURL}
	r.entries = append(r.entries, ep)
	return ep, nil
}

// Remove deletes the endpoint with id and reports whether it existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, ep := range r.entries {
		if ep.ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the endpoint with id or ErrNotFound.
func (r *Registry) Get(id string) (Endpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ep := range r.entries {
		if ep.ID == id {
			return ep, nil
		}
	}
	return Endpoint{}, fmt.Errorf("%s: %w", id, ErrNotFound)
}

// List returns a copy of all endpoints in insertion order.
func (r *Registry) List() []Endpoint {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Endpoint, len(r.entries))
	copy(out, r.entries)
	return out
}
