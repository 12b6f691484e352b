package handlers

import (
	"fmt"
	"sync"

	"github.com/splinterstice/clientapp/client"
	"github.com/splinterstice/clientapp/internal/servers"
)

// ClientPool hands out a chat client per server endpoint. The empty server ID
// selects the default client; registered endpoints get a client built lazily
// with the same options as the default.
type ClientPool struct {
	mu       sync.Mutex
	def      *client.Client
	registry *servers.Registry
	opts     []client.Option
	clients  map[string]*client.Client
}

// NewClientPool wraps def and the endpoint registry.
func NewClientPool(def *client.Client, registry *servers.Registry, opts ...client.Option) *ClientPool {
	return &ClientPool{
		def:      def,
		registry: registry,
		opts:     opts,
		clients:  map[string]*client.Client{},
	}
}

// Registry returns the endpoint registry backing the pool.
func (p *ClientPool) Registry() *servers.Registry { return p.registry }

// For returns the client for serverID.
func (p *ClientPool) For(serverID string) (*client.Client, error) {
	if serverID == "" {
		return p.def, nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.clients[serverID]; ok {
		return c, nil
	}
	ep, err := p.registry.Get(serverID)
	if err != nil {
		return nil, err
	}
	c, err := client.New(ep.URL, p.opts...)
	if err != nil {
		return nil, fmt.Errorf("client for %s: %w", ep.URL, err)
	}
	p.clients[serverID] = c
	return c, nil
}

// Remove unregisters serverID and closes its cached client.
func (p *ClientPool) Remove(serverID string) bool {
	if !p.registry.Remove(serverID) {
		return false
	}
	p.mu.Lock()
	c, ok := p.clients[serverID]
	delete(p.clients, serverID)
	p.mu.Unlock()
	if ok {
		_ = c.Close()
	}
	return true
}

// Close closes every client, including the default one.
func (p *ClientPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, c := range p.clients {
		_ = c.Close()
		delete(p.clients, id)
	}
	return p.def.Close()
}
