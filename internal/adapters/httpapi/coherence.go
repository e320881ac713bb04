package httpapi

import (
	"context"
	"encoding/json"

	"renextract/internal/domain"
	apperrors "renextract/internal/pkg/errors"
)

func (c *Client) CheckCoherence(ctx context.Context, targetPath string) (*domain.CoherenceResult, error) {
	var out struct {
		Result *domain.CoherenceResult `json:"result"`
	}
	if err := c.post(ctx, "/coherence/check-svelte", map[string]any{"target_path": targetPath}, &out); err != nil {
		return nil, err
	}
	if out.Result == nil {
		return nil, apperrors.Rejected("").WithEndpoint("POST /coherence/check-svelte")
	}
	if out.Result.TargetPath == "" {
		out.Result.TargetPath = targetPath
	}
	return out.Result, nil
}

func (c *Client) CoherenceOptions(ctx context.Context) (json.RawMessage, error) {
	var out struct {
		Options json.RawMessage `json:"options"`
	}
	if err := c.get(ctx, "/coherence/options", &out); err != nil {
		return nil, err
	}
	return out.Options, nil
}

func (c *Client) SetCoherenceOptions(ctx context.Context, patch map[string]any) error {
	return c.post(ctx, "/coherence/options", map[string]any{"options": patch}, nil)
}

func (c *Client) OpenReport(ctx context.Context, reportPath string) error {
	return c.post(ctx, "/coherence/open-report", map[string]any{"report_path": reportPath}, nil)
}

func (c *Client) OpenReportsFolder(ctx context.Context) error {
	return c.post(ctx, "/coherence/open-folder", nil, nil)
}
