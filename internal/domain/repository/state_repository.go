package repository

import (
	"context"

	"rssDigestBot/internal/domain/entity"
)

// StateRepository persists the identifiers of delivered entries.
// Load returns an empty set when nothing was saved yet.
type StateRepository interface {
	Load(ctx context.Context) (*entity.ProcessedIDSet, error)
	Save(ctx context.Context, ids *entity.ProcessedIDSet) error
}
