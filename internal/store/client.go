package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/viralengine/slate/internal/config"
	"github.com/viralengine/slate/internal/models"
)

// Client is the thin request/response boundary to the durable item store. It
// carries no business logic; it maps transport and status failures onto the
// package error taxonomy and surfaces everything else untouched.
type Client struct {
	http *resty.Client
}

// New builds a store client from configuration.
func New(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(cfg.StoreBaseURL).
		SetTimeout(cfg.StoreTimeout).
		SetRetryCount(cfg.StoreRetryCount).
		SetRetryWaitTime(2 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second)

	if cfg.StoreAPIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.StoreAPIKey)
	}

	return &Client{http: client}
}

// scheduleUpdate is the wire body for a schedule write. A null scheduled_for
// clears the assignment.
type scheduleUpdate struct {
	ScheduledFor *string `json:"scheduled_for"`
}

// FetchAll retrieves every content item belonging to the current identity.
// A user with no items yields an empty slice, not an error.
func (c *Client) FetchAll(ctx context.Context) ([]models.ContentItem, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get("/items")

	if err != nil {
		return nil, fmt.Errorf("%w: fetch failed: %v", ErrStoreUnavailable, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d on fetch", ErrStoreUnavailable, resp.StatusCode())
	}

	items := []models.ContentItem{}
	if err := json.Unmarshal(resp.Body(), &items); err != nil {
		return nil, fmt.Errorf("failed to parse items response: %w", err)
	}

	return items, nil
}

// UpdateSchedule sets or clears scheduled_for on exactly one record. A nil day
// clears the assignment. There is no ordering guarantee relative to other
// in-flight updates for different items.
func (c *Client) UpdateSchedule(ctx context.Context, itemID string, day *time.Time) error {
	body := scheduleUpdate{}
	if day != nil {
		formatted := models.DayOf(*day).Format(time.RFC3339)
		body.ScheduledFor = &formatted
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Patch("/items/" + itemID + "/schedule")

	if err != nil {
		return fmt.Errorf("%w: update failed for item %s: %v", ErrStoreUnavailable, itemID, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return fmt.Errorf("%w: id %s", ErrNotFound, itemID)
	case resp.StatusCode() >= 200 && resp.StatusCode() < 300:
		return nil
	default:
		return fmt.Errorf("%w: unexpected status %d on update for item %s", ErrStoreUnavailable, resp.StatusCode(), itemID)
	}
}
