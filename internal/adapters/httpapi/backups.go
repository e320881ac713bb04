package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"renextract/internal/domain"
	apperrors "renextract/internal/pkg/errors"
)

func (c *Client) CreateBackup(ctx context.Context, sourcePath string, backupType domain.BackupType, description string) (*domain.CreatedBackup, error) {
	in := map[string]any{
		"source_path": sourcePath,
		"backup_type": backupType,
		"description": description,
	}
	var out domain.CreatedBackup
	if err := c.post(ctx, "/backups/create", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListBackups calls GET /backup/list. Fields the Backup struct does not
// name are kept in Extra.
func (c *Client) ListBackups(ctx context.Context, filter domain.BackupFilter) ([]domain.Backup, error) {
	q := url.Values{}
	if filter.Game != "" {
		q.Set("game", filter.Game)
	}
	if filter.Type != "" {
		q.Set("type", string(filter.Type))
	}
	path := "/backup/list"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out struct {
		Backups []json.RawMessage `json:"backups"`
	}
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}

	backups := make([]domain.Backup, 0, len(out.Backups))
	for _, raw := range out.Backups {
		var b domain.Backup
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDecode, "decode backup").WithEndpoint("GET " + path)
		}
		var extra map[string]any
		if err := json.Unmarshal(raw, &extra); err == nil {
			for _, known := range []string{"id", "game_name", "file_name", "source_path", "backup_path", "type", "description", "created", "size"} {
				delete(extra, known)
			}
			if len(extra) > 0 {
				b.Extra = extra
			}
		}
		backups = append(backups, b)
	}
	return backups, nil
}

func (c *Client) RestoreBackup(ctx context.Context, id string) error {
	return c.post(ctx, "/backups/"+url.PathEscape(id)+"/restore", nil, nil)
}

func (c *Client) RestoreBackupTo(ctx context.Context, id, targetPath string) error {
	return c.post(ctx, "/backups/"+url.PathEscape(id)+"/restore-to", map[string]any{"target_path": targetPath}, nil)
}

func (c *Client) DeleteBackup(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/backups/"+url.PathEscape(id), nil, nil)
}
