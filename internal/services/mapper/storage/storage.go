// Package storage defines persistence contracts for saved atlases.
package storage

import (
	"context"
	"time"

	apperrors "github.com/dyle/rpgmapper-sub001/internal/platform/errors"
)

// ErrNotFound indicates a requested atlas record is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "atlas not found")

// AtlasRecord stores one encoded atlas.
type AtlasRecord struct {
	ID        string
	Name      string
	Document  []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AtlasSummary describes a stored atlas without its document.
type AtlasSummary struct {
	ID        string
	Name      string
	UpdatedAt time.Time
}

// AtlasStore persists atlas records keyed by atlas ID.
type AtlasStore interface {
	PutAtlas(ctx context.Context, record AtlasRecord) error
	GetAtlas(ctx context.Context, atlasID string) (AtlasRecord, error)
	ListAtlases(ctx context.Context) ([]AtlasSummary, error)
	DeleteAtlas(ctx context.Context, atlasID string) error
}
