package repository

import (
	"context"

	"rssDigestBot/internal/domain/entity"
)

// FeedRepository returns the entries of a feed in document order.
type FeedRepository interface {
	Fetch(ctx context.Context, url string) ([]*entity.FeedEntry, error)
}
