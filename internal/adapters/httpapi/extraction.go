package httpapi

import (
	"context"

	"renextract/internal/domain"
	apperrors "renextract/internal/pkg/errors"
	"renextract/internal/ports"
)

func (c *Client) Extract(ctx context.Context, req ports.ExtractRequest) (*ports.ExtractResponse, error) {
	if req.FileContent == nil {
		req.FileContent = []string{}
	}
	var out struct {
		Result         *domain.ExtractionResult `json:"result"`
		ExtractionTime float64                  `json:"extraction_time"`
	}
	if err := c.post(ctx, "/extraction/extract", req, &out); err != nil {
		return nil, err
	}
	if out.Result == nil {
		return nil, apperrors.Rejected("").WithEndpoint("POST /extraction/extract")
	}
	return &ports.ExtractResponse{Result: *out.Result, ExtractionTime: out.ExtractionTime}, nil
}

func (c *Client) ValidateExtractionFile(ctx context.Context, filePath string) (ports.FileCheck, error) {
	var out struct {
		Validation *ports.FileCheck `json:"validation"`
	}
	if err := c.post(ctx, "/extraction/validate-file", map[string]any{"filepath": filePath}, &out); err != nil {
		return ports.FileCheck{}, err
	}
	if out.Validation == nil {
		return ports.FileCheck{}, apperrors.Rejected("").WithEndpoint("POST /extraction/validate-file")
	}
	return *out.Validation, nil
}

func (c *Client) ExtractionSettings(ctx context.Context) (*domain.ExtractionSettings, error) {
	var out struct {
		Settings *domain.ExtractionSettings `json:"settings"`
	}
	if err := c.get(ctx, "/extraction/get-settings", &out); err != nil {
		return nil, err
	}
	if out.Settings == nil {
		return nil, apperrors.Rejected("").WithEndpoint("GET /extraction/get-settings")
	}
	return out.Settings, nil
}

func (c *Client) SetExtractionSettings(ctx context.Context, patch domain.ExtractionSettingsPatch) error {
	return c.post(ctx, "/extraction/set-settings", patch, nil)
}

// OpenFile opens filePath in the backend host's editor, at line when
// line > 0.
func (c *Client) OpenFile(ctx context.Context, filePath string, line int) error {
	in := struct {
		FilePath   string `json:"filepath"`
		LineNumber *int   `json:"line_number,omitempty"`
	}{FilePath: filePath}
	if line > 0 {
		in.LineNumber = &line
	}
	return c.post(ctx, "/extraction/open-file", in, nil)
}

func (c *Client) OpenFolder(ctx context.Context, folderPath string) error {
	return c.post(ctx, "/extraction/open-folder", map[string]any{"folderpath": folderPath}, nil)
}
