package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/bagasta/addressbook/internal/model"
)

// Client is the typed REST client for the address book API. All methods take
// a context; cancelling it aborts the request.
type Client struct {
	platform Platform
	http     *http.Client

	mu    sync.RWMutex
	token string
}

func NewClient(platform Platform, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(DefaultTransportConfig())
	}
	return &Client{
		platform: platform,
		http:     httpClient,
	}
}

// SetToken installs the JWT sent as a Bearer credential on later calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// envelope mirrors the server's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// GeneratePIN creates a fresh account and returns its PIN.
func (c *Client) GeneratePIN(ctx context.Context) (string, error) {
	var out struct {
		UserID string `json:"user_id"`
		PIN    string `json:"pin"`
	}
	if err := c.do(ctx, "auth.pin", http.MethodPost, "/api/auth/pin", nil, &out); err != nil {
		return "", err
	}
	return out.PIN, nil
}

// Login exchanges a PIN for a JWT and installs it on the client.
func (c *Client) Login(ctx context.Context, pin string) (string, error) {
	body := map[string]string{"pin": pin}
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, "auth.login", http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return "", err
	}
	c.SetToken(out.Token)
	return out.Token, nil
}

func (c *Client) GetContacts(ctx context.Context) ([]model.Contact, error) {
	var contacts []model.Contact
	if err := c.do(ctx, "contacts.list", http.MethodGet, "/api/contacts", nil, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (c *Client) GetContact(ctx context.Context, id int64) (*model.Contact, error) {
	var contact model.Contact
	path := "/api/contacts/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, "contacts.get", http.MethodGet, path, nil, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// AddContact creates a contact. The record must carry the sentinel id.
// Invalid records are rejected locally, before any request goes out.
func (c *Client) AddContact(ctx context.Context, contact model.Contact) (*model.Contact, error) {
	if err := contact.Validate(); err != nil {
		return nil, &OpError{Op: "contacts.add", Kind: KindInvalid, Err: err}
	}

	var created model.Contact
	if err := c.do(ctx, "contacts.add", http.MethodPut, "/api/contacts", contact, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateContact overwrites a persisted contact. Like AddContact, invalid
// records never reach the wire.
func (c *Client) UpdateContact(ctx context.Context, contact model.Contact) (*model.Contact, error) {
	if err := contact.Validate(); err != nil {
		return nil, &OpError{Op: "contacts.update", Kind: KindInvalid, Err: err}
	}

	var updated model.Contact
	if err := c.do(ctx, "contacts.update", http.MethodPost, "/api/contacts", contact, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteContact(ctx context.Context, id int64) error {
	path := "/api/contacts/" + strconv.FormatInt(id, 10)
	return c.do(ctx, "contacts.delete", http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &OpError{Op: op, Kind: KindInvalid, Err: err}
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.platform.BaseURL()+path, reader)
	if err != nil {
		return &OpError{Op: op, Kind: KindInvalid, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.platform.UserAgent())
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &OpError{Op: op, Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 300 {
			kind, sentinel := kindForStatus(resp.StatusCode)
			return &OpError{Op: op, Kind: kind, Err: sentinel}
		}
		return &OpError{Op: op, Kind: KindDecode, Err: err}
	}

	if resp.StatusCode >= 300 || !env.Success {
		kind, sentinel := kindForStatus(resp.StatusCode)
		if env.Message != "" {
			return &OpError{Op: op, Kind: kind, Err: fmt.Errorf("%w: %s", sentinel, env.Message)}
		}
		return &OpError{Op: op, Kind: kind, Err: sentinel}
	}

	if out == nil {
		return nil
	}
	if len(env.Data) == 0 {
		return &OpError{Op: op, Kind: KindDecode, Err: errors.New("empty response data")}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &OpError{Op: op, Kind: KindDecode, Err: err}
	}
	return nil
}
