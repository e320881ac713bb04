package httpapi

import (
	"context"

	"renextract/internal/domain"
	apperrors "renextract/internal/pkg/errors"
	"renextract/internal/ports"
)

// FixTranslationErrors runs the backend's quote and ellipsis fixes on one
// translation file and returns the number of corrections.
func (c *Client) FixTranslationErrors(ctx context.Context, filePath string) (int, error) {
	var out struct {
		Corrections int `json:"corrections"`
	}
	if err := c.post(ctx, "/reconstruction/fix-quotes", map[string]any{"filepath": filePath}, &out); err != nil {
		return 0, err
	}
	return out.Corrections, nil
}

func (c *Client) ValidateReconstruction(ctx context.Context, req ports.ReconstructionValidationRequest) (*domain.ValidationResult, error) {
	var out struct {
		Validation *domain.ValidationResult `json:"validation"`
	}
	if err := c.post(ctx, "/reconstruction/validate", req, &out); err != nil {
		return nil, err
	}
	if out.Validation == nil {
		return nil, apperrors.Rejected("").WithEndpoint("POST /reconstruction/validate")
	}
	return out.Validation, nil
}

func (c *Client) Reconstruct(ctx context.Context, content []string, filePath, saveMode string) (*domain.ReconstructionResult, error) {
	if content == nil {
		content = []string{}
	}
	in := map[string]any{
		"file_content": content,
		"filepath":     filePath,
		"save_mode":    saveMode,
	}
	var out domain.ReconstructionResult
	if err := c.post(ctx, "/reconstruction/reconstruct", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
