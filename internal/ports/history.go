package ports

import (
	"context"

	"renextract/internal/domain"
)

// RunHistory stores workflow outcomes locally.
type RunHistory interface {
	Record(ctx context.Context, rec domain.RunRecord) error
	Recent(ctx context.Context, kind string, limit int) ([]domain.RunRecord, error)
	// LastExtraction returns the counts of the newest successful
	// extraction of path, or nil when there is none.
	LastExtraction(ctx context.Context, path string) (*domain.ExtractionResult, error)
	Close() error
}
