package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"renextract/internal/domain"
	"renextract/internal/ports"
)

// GetSettings returns the data member of GET /settings.
func (c *Client) GetSettings(ctx context.Context) (json.RawMessage, error) {
	var out struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.get(ctx, "/settings", &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// UpdateSettings posts the full settings object.
func (c *Client) UpdateSettings(ctx context.Context, settings domain.AppSettings) error {
	return c.post(ctx, "/settings", settings, nil)
}

// Health calls GET /health.
func (c *Client) Health(ctx context.Context) (*ports.Health, error) {
	var out ports.Health
	if err := c.get(ctx, "/health", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckZenity asks whether the backend host can show GTK dialogs.
func (c *Client) CheckZenity(ctx context.Context) (*ports.ZenityStatus, error) {
	var out ports.ZenityStatus
	if err := c.get(ctx, "/system/check-zenity", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WSLInfo returns the backend's WSL diagnostics.
func (c *Client) WSLInfo(ctx context.Context) (map[string]any, error) {
	var out struct {
		Info map[string]any `json:"info"`
	}
	if err := c.get(ctx, "/system/wsl-info", &out); err != nil {
		return nil, err
	}
	if out.Info == nil {
		out.Info = map[string]any{}
	}
	return out.Info, nil
}

// Quit asks the backend to shut down.
func (c *Client) Quit(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/quit", nil, nil)
}
