// Package remote talks to the shared webhook endpoint that mirrors the
// ledger. It carries no business rules: Fetch reads both collections, Push
// forwards one change. Remote failures are reported, never retried.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"sharedledger/internal/models"
)

var (
	// ErrUnavailable marks any failure to read from the endpoint. Callers
	// fall back to local data.
	ErrUnavailable = errors.New("remote unavailable")
	// ErrNotConfigured is returned by Fetch when no endpoint is set.
	ErrNotConfigured = fmt.Errorf("%w: no sync url configured", ErrUnavailable)
	// ErrInvalidURL rejects an endpoint that is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("url must be an absolute http or https URL")
)

// Action is the mutation forwarded to the endpoint.
type Action string

const (
	ActionAdd    Action = "ADD"
	ActionDelete Action = "DELETE"
)

// Change is one mutation to mirror. Entry is set for ActionAdd.
type Change struct {
	Action    Action
	Kind      models.EntryKind
	ID        string
	Entry     any
	UserEmail string
}

// AddChange builds the change for a newly created entry.
func AddChange(kind models.EntryKind, id string, entry any, userEmail string) Change {
	return Change{Action: ActionAdd, Kind: kind, ID: id, Entry: entry, UserEmail: userEmail}
}

// DeleteChange builds the change for a removed entry.
func DeleteChange(kind models.EntryKind, id string) Change {
	return Change{Action: ActionDelete, Kind: kind, ID: id}
}

// Payload renders the POST body. Adds carry every entry field plus entryType,
// userEmail and action; deletes carry only id, entryType and action.
func (c Change) Payload() ([]byte, error) {
	body := map[string]any{}
	if c.Action == ActionAdd && c.Entry != nil {
		fields, err := json.Marshal(c.Entry)
		if err != nil {
			return nil, fmt.Errorf("marshal entry: %w", err)
		}
		if err := json.Unmarshal(fields, &body); err != nil {
			return nil, fmt.Errorf("flatten entry: %w", err)
		}
		body["userEmail"] = c.UserEmail
	}
	body["id"] = c.ID
	body["entryType"] = string(c.Kind)
	body["action"] = string(c.Action)
	return json.Marshal(body)
}

// SyncError reports a change the endpoint did not accept. It is logged and
// dropped by callers; local state stays authoritative.
type SyncError struct {
	Action Action
	Kind   models.EntryKind
	ID     string
	Err    error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s %s %s: %v", e.Action, e.Kind, e.ID, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// Snapshot is the endpoint's GET response. Both lists are left raw for the
// normalizer.
type Snapshot struct {
	Costs    json.RawMessage `json:"costs"`
	Payments json.RawMessage `json:"payments"`
}

// Mirror receives changes on a best-effort basis.
type Mirror interface {
	Push(ctx context.Context, change Change) error
}

// URLSource supplies the current endpoint. It is consulted on every call so
// the endpoint can be changed while running.
type URLSource interface {
	SyncURL(ctx context.Context) (string, error)
}

// StaticURL is a URLSource with a fixed endpoint.
type StaticURL string

func (s StaticURL) SyncURL(context.Context) (string, error) { return string(s), nil }

// ValidateURL accepts an empty value, which turns syncing off, or an
// absolute http or https URL.
func ValidateURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return ErrInvalidURL
	}
	return nil
}

// Client is the webhook transport.
type Client struct {
	urls       URLSource
	httpClient *http.Client
}

// NewClient creates a Client. A nil httpClient gets a client without a
// timeout; requests are bounded only by their context.
func NewClient(urls URLSource, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{urls: urls, httpClient: httpClient}
}

// Configured reports whether an endpoint is currently set.
func (c *Client) Configured(ctx context.Context) bool {
	url, err := c.urls.SyncURL(ctx)
	return err == nil && url != ""
}

// Fetch reads both collections from the endpoint. Every failure wraps
// ErrUnavailable.
func (c *Client) Fetch(ctx context.Context) (Snapshot, error) {
	url, err := c.urls.SyncURL(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if url == "" {
		return Snapshot{}, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Snapshot{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var snapshot Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return snapshot, nil
}

// Push posts one change. Without an endpoint it does nothing. The body is
// JSON declared as text/plain, which is what the endpoint expects.
func (c *Client) Push(ctx context.Context, change Change) error {
	url, err := c.urls.SyncURL(ctx)
	if err != nil {
		return &SyncError{Action: change.Action, Kind: change.Kind, ID: change.ID, Err: err}
	}
	if url == "" {
		return nil
	}

	payload, err := change.Payload()
	if err != nil {
		return &SyncError{Action: change.Action, Kind: change.Kind, ID: change.ID, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return &SyncError{Action: change.Action, Kind: change.Kind, ID: change.ID, Err: err}
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &SyncError{Action: change.Action, Kind: change.Kind, ID: change.ID, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return &SyncError{
			Action: change.Action,
			Kind:   change.Kind,
			ID:     change.ID,
			Err:    fmt.Errorf("status %d", resp.StatusCode),
		}
	}
	return nil
}

var _ Mirror = (*Client)(nil)
