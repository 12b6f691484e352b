package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/splinterstice/clientapp/client/internal/api"
)

// DefaultBaseURL is the API root used when no base URL is configured.
const DefaultBaseURL = "http://localhost:3000/api"

// Version is reported in the default User-Agent header.
const Version = "0.1.0"

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

// Client is a typed wrapper over the chat server's REST API. Every method
// performs exactly one HTTP round trip and never retries. A Client is safe
// for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	apiKey    string   // optional bearer token
	userAgent string   // User-Agent header value
	proxyURL  *url.URL // optional HTTP or SOCKS5 proxy
	debug     bool     // dump traffic through zerolog

	closedOnce uint32 // ensures Close is idempotent
}

// New constructs a Client for the API rooted at baseURL (for example
// "https://chat.example.org/api"). Options are applied in order.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("baseURL cannot be empty")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, errors.New("baseURL must be an absolute http(s) URL")
	}

	c := &Client{
		baseURL:   baseURL,
		http:      &http.Client{Timeout: 30 * time.Second},
		userAgent: "splinterstice-client/" + Version,
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if err := c.buildTransport(); err != nil {
		return nil, err
	}
	return c, nil
}

// BaseURL returns the API root this client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// buildTransport stacks the round trippers in a fixed order regardless of the
// order options were given: proxy at the bottom, then debug dumping, then
// header injection on top.
func (c *Client) buildTransport() error {
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	if c.proxyURL != nil {
		t, ok := base.(*http.Transport)
		if !ok {
			return errors.New("proxy url requires an *http.Transport")
		}
		t = t.Clone()
		t.Proxy = http.ProxyURL(c.proxyURL)
		base = t
	}
	if c.debug {
		base = &debugTransport{base: base}
	}
	c.http.Transport = &headerTransport{
		base:      base,
		apiKey:    c.apiKey,
		userAgent: c.userAgent,
	}
	return nil
}

// headerTransport wraps an http.RoundTripper to add the Authorization and
// User-Agent headers to every request.
type headerTransport struct {
	base      http.RoundTripper
	apiKey    string
	userAgent string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	cloned := req.Clone(req.Context())
	if t.apiKey != "" {
		cloned.Header.Set("Authorization", "Bearer "+t.apiKey)
	}
	if t.userAgent != "" {
		cloned.Header.Set("User-Agent", t.userAgent)
	}
	return t.base.RoundTrip(cloned)
}

// Close releases idle connections held by the client. Safe to call multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	c.http.CloseIdleConnections()
	return nil
}

// --------------------------------------------------------------------
// Direct messages
// --------------------------------------------------------------------

// SendMessage sends a direct message to recipientID and returns the stored record.
func (c *Client) SendMessage(ctx context.Context, recipientID, text string) (*Message, error) {
	return api.SendMessage(ctx, c.http, c.baseURL, recipientID, text)
}

// GetMessages returns the caller's direct messages in server order.
func (c *Client) GetMessages(ctx context.Context) ([]Message, error) {
	return api.GetMessages(ctx, c.http, c.baseURL)
}

// --------------------------------------------------------------------
// Friends
// --------------------------------------------------------------------

// SendFriendRequest sends a friend request to userID.
func (c *Client) SendFriendRequest(ctx context.Context, userID string) (*Status, error) {
	return api.SendFriendRequest(ctx, c.http, c.baseURL, userID)
}

// RemoveFriend removes friendID from the caller's friend list.
func (c *Client) RemoveFriend(ctx context.Context, friendID string) (*Status, error) {
	return api.RemoveFriend(ctx, c.http, c.baseURL, friendID)
}

// --------------------------------------------------------------------
// Files
// --------------------------------------------------------------------

// UploadFile uploads f as multipart/form-data under the "file" field.
func (c *Client) UploadFile(ctx context.Context, f File) (*StoredFile, error) {
	return api.UploadFile(ctx, c.http, c.baseURL, f)
}

// --------------------------------------------------------------------
// Chat rooms
// --------------------------------------------------------------------

// JoinChatRoom joins roomID.
func (c *Client) JoinChatRoom(ctx context.Context, roomID string) (*Status, error) {
	return api.JoinChatRoom(ctx, c.http, c.baseURL, roomID)
}

// LeaveChatRoom leaves roomID.
func (c *Client) LeaveChatRoom(ctx context.Context, roomID string) (*Status, error) {
	return api.LeaveChatRoom(ctx, c.http, c.baseURL, roomID)
}

// SendChatRoomMessage posts text to roomID.
func (c *Client) SendChatRoomMessage(ctx context.Context, roomID, text string) (*Status, error) {
	return api.SendChatRoomMessage(ctx, c.http, c.baseURL, roomID, text)
}

// --------------------------------------------------------------------
// Administration
// --------------------------------------------------------------------

// InviteUser invites target by email or URL over the TOR or I2P network.
func (c *Client) InviteUser(ctx context.Context, method InviteMethod, target string, network Network) (*AdminResult, error) {
	return api.InviteUser(ctx, c.http, c.baseURL, InviteRequest{InviteMethod: method, Target: target, Network: network})
}

// PromoteUser promotes userID to moderator.
func (c *Client) PromoteUser(ctx context.Context, userID string) (*AdminResult, error) {
	return api.PromoteUser(ctx, c.http, c.baseURL, userID)
}

// BanUser bans userID.
func (c *Client) BanUser(ctx context.Context, userID string) (*AdminResult, error) {
	return api.BanUser(ctx, c.http, c.baseURL, userID)
}

// EditUser applies updates to userID.
func (c *Client) EditUser(ctx context.Context, userID string, updates UserUpdates) (*AdminResult, error) {
	return api.EditUser(ctx, c.http, c.baseURL, userID, updates)
}

// ResetKeys issues userID a new key pair.
func (c *Client) ResetKeys(ctx context.Context, userID string) (*AdminResult, error) {
	return api.ResetKeys(ctx, c.http, c.baseURL, userID)
}
