package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/viralengine/slate/internal/config"
)

// ErrUnauthenticated indicates there is no current session. The scheduler
// must not load or display item data in that case.
var ErrUnauthenticated = errors.New("no authenticated session")

// Session is the identity returned by the session collaborator.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
}

// Client queries the session collaborator for the current identity.
type Client struct {
	http *resty.Client
}

// New builds a session client sharing the backend base URL with the store.
func New(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(cfg.StoreBaseURL).
		SetTimeout(cfg.StoreTimeout)

	if cfg.StoreAPIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.StoreAPIKey)
	}

	return &Client{http: client}
}

// Current returns the active session, or ErrUnauthenticated when the
// collaborator reports none.
func (c *Client) Current(ctx context.Context) (*Session, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get("/session")

	if err != nil {
		return nil, fmt.Errorf("session lookup failed: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized:
		return nil, ErrUnauthenticated
	case resp.StatusCode() != http.StatusOK:
		return nil, fmt.Errorf("unexpected status %d from session collaborator", resp.StatusCode())
	}

	var sess Session
	if err := json.Unmarshal(resp.Body(), &sess); err != nil {
		return nil, fmt.Errorf("failed to parse session response: %w", err)
	}
	if sess.UserID == "" {
		return nil, ErrUnauthenticated
	}

	return &sess, nil
}
